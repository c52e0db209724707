// Package testing provides shared fixtures and helpers for testing the
// notice QA service.
package testing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campusnotice/notice-qa/model"
	"github.com/campusnotice/notice-qa/store"
)

// CreateTestStore creates a notice store rooted in a per-test temp directory.
func CreateTestStore(t *testing.T) *store.NoticeStore {
	t.Helper()
	s, err := store.NewNoticeStore(t.TempDir())
	require.NoError(t, err, "Failed to create test store")
	return s
}

// SampleNotices returns a small Korean notice corpus covering the retrieval
// scenarios: an academic-leave notice, a scholarship notice and an equipment
// rental notice with a named writer.
func SampleNotices() []model.Notice {
	return []model.Notice{
		{
			ID:        "1001",
			Title:     "휴학 신청 방법",
			Content:   "<p>휴학은 학과 사무실에서 신청합니다. 신청 기간을 지키지 않으면 불이익이 있을 수 있습니다.</p>",
			Writer:    "학과사무실",
			SourceURL: "https://cs.example.ac.kr/notice/1001",
			FetchedAt: 1700000300,
		},
		{
			ID:        "1002",
			Title:     "장학금 공고",
			Content:   "<p>장학금 신청 기간은 3월입니다. 성적 기준을 확인하세요.</p>",
			Writer:    "학생지원팀",
			SourceURL: "https://cs.example.ac.kr/notice/1002",
			FetchedAt: 1700000200,
		},
		{
			ID:        "1003",
			Title:     "노트북 대여 안내",
			Content:   "<p>학과에서 노트북 대여가능 합니다. 대여 기간은 7일입니다.</p>",
			OCRText:   "대여 신청서는 사무실에 비치되어 있습니다.",
			Writer:    "김철수",
			SourceURL: "https://cs.example.ac.kr/notice/1003",
			FetchedAt: 1700000100,
		},
	}
}

// SeedNotices stores the given notices, failing the test on any error.
func SeedNotices(t *testing.T, s *store.NoticeStore, notices []model.Notice) {
	t.Helper()
	for i := range notices {
		require.NoError(t, s.Put(&notices[i]), "Failed to seed notice %s", notices[i].ID)
	}
}

// CreateSeededStore creates a test store pre-populated with SampleNotices.
func CreateSeededStore(t *testing.T) *store.NoticeStore {
	t.Helper()
	s := CreateTestStore(t)
	SeedNotices(t, s, SampleNotices())
	return s
}
