package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusnotice/notice-qa/index"
	internalTesting "github.com/campusnotice/notice-qa/internal/testing"
	"github.com/campusnotice/notice-qa/store"
)

func setupRetriever(t *testing.T) (*Retriever, *index.Snapshot, *store.NoticeStore) {
	t.Helper()
	s := internalTesting.CreateSeededStore(t)
	snapshot, err := index.Build(s)
	require.NoError(t, err)
	return NewRetriever(s, nil), snapshot, s
}

func TestRetrieveKeywordTier(t *testing.T) {
	retriever, snapshot, _ := setupRetriever(t)

	t.Run("selects the matching document with a positive score", func(t *testing.T) {
		candidates := retriever.Retrieve(snapshot, "휴학", 5)

		require.NotEmpty(t, candidates)
		assert.Equal(t, "1001", candidates[0].DocID)
		assert.Greater(t, candidates[0].Score, 0.0)
		for _, c := range candidates {
			assert.NotEqual(t, "1002", c.DocID, "scholarship notice must not appear for 휴학")
		}
	})

	t.Run("title matches outrank body matches", func(t *testing.T) {
		candidates := retriever.Retrieve(snapshot, "장학금", 5)

		require.NotEmpty(t, candidates)
		assert.Equal(t, "1002", candidates[0].DocID)
	})

	t.Run("synonym expansion reaches rental notice", func(t *testing.T) {
		// 빌릴 is not in the corpus, but its synonym 대여 is.
		candidates := retriever.Retrieve(snapshot, "노트북 빌릴 수 있나요", 5)

		require.NotEmpty(t, candidates)
		assert.Equal(t, "1003", candidates[0].DocID)
	})

	t.Run("carries a bounded snippet and the full text", func(t *testing.T) {
		candidates := retriever.Retrieve(snapshot, "휴학", 5)

		require.NotEmpty(t, candidates)
		c := candidates[0]
		assert.NotEmpty(t, c.Excerpt)
		assert.NotEmpty(t, c.FullText)
		assert.LessOrEqual(t, len([]rune(c.Excerpt)), snippetRunes)
	})
}

func TestRetrieveTierPrecedence(t *testing.T) {
	retriever, snapshot, _ := setupRetriever(t)

	// 신청 appears in several documents; with topK=1 the keyword tier alone
	// satisfies the budget and later tiers must not alter the result.
	full := retriever.Retrieve(snapshot, "신청", 5)
	require.NotEmpty(t, full)
	capped := retriever.Retrieve(snapshot, "신청", 1)

	require.Len(t, capped, 1)
	assert.Equal(t, full[0].DocID, capped[0].DocID,
		"truncation must keep the highest-ranked keyword candidate")

	// The same query with a nil snapshot proves tiers 4-6 are not needed
	// when tier 1 fills the budget.
	withoutIndex := retriever.Retrieve(nil, "신청", 1)
	require.Len(t, withoutIndex, 1)
	assert.Equal(t, capped[0].DocID, withoutIndex[0].DocID)
}

func TestRetrieveEntityTier(t *testing.T) {
	retriever, snapshot, _ := setupRetriever(t)

	t.Run("writer match wins who-questions", func(t *testing.T) {
		candidates := retriever.Retrieve(snapshot, "김철수가 누구야", 5)

		require.NotEmpty(t, candidates)
		assert.Equal(t, "1003", candidates[0].DocID,
			"the notice written by 김철수 must rank first")
	})

	t.Run("entity tier never duplicates earlier candidates", func(t *testing.T) {
		candidates := retriever.Retrieve(snapshot, "휴학 담당자가 누구야", 5)

		seen := make(map[string]bool)
		for _, c := range candidates {
			assert.False(t, seen[c.DocID], "doc %s appears twice", c.DocID)
			seen[c.DocID] = true
		}
	})
}

func TestRetrieveIndexSupplementation(t *testing.T) {
	retriever, snapshot, _ := setupRetriever(t)

	// 휴학을 appears nowhere as a literal substring, so the keyword and
	// substring tiers come up empty; the index reaches doc 1001 through the
	// particle-stripped token.
	candidates := retriever.Retrieve(snapshot, "휴학을 하고 싶어요", 5)

	require.NotEmpty(t, candidates)
	assert.Equal(t, "1001", candidates[0].DocID)
	assert.Greater(t, candidates[0].Score, 0.0)
}

func TestRetrieveEdgeCases(t *testing.T) {
	retriever, snapshot, _ := setupRetriever(t)

	t.Run("blank query yields nothing", func(t *testing.T) {
		assert.Empty(t, retriever.Retrieve(snapshot, "   ", 5))
	})

	t.Run("nonsense query yields nothing", func(t *testing.T) {
		assert.Empty(t, retriever.Retrieve(snapshot, "zzzzqqqq", 5))
	})

	t.Run("unreadable notices are skipped", func(t *testing.T) {
		dir := t.TempDir()
		corrupted, err := store.NewNoticeStore(dir)
		require.NoError(t, err)
		internalTesting.SeedNotices(t, corrupted, internalTesting.SampleNotices())
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "parsed", "2001.json"), []byte("{not json"), 0644))

		candidates := NewRetriever(corrupted, nil).Retrieve(snapshot, "휴학", 5)
		require.NotEmpty(t, candidates)
		for _, c := range candidates {
			assert.NotEqual(t, "2001", c.DocID)
		}
	})
}

func TestSubstringTier(t *testing.T) {
	docs := []corpusDoc{
		{id: "a", titleLower: "수강신청안내", bodyLower: "빈 내용"},
		{id: "b", titleLower: "다른 공지", bodyLower: "다른 내용"},
	}

	// 수강신청 is a substring of the first title only.
	tier := substringTier(docs, "수강신청 언제야")
	require.Len(t, tier, 1)
	assert.Equal(t, "a", tier[0].DocID)
	assert.Equal(t, tier2Score, tier[0].Score)
}

func TestEntityTierScoring(t *testing.T) {
	docs := []corpusDoc{
		{id: "title-hit", titleLower: "홍길동 소개", bodyLower: "내용"},
		{id: "writer-hit", titleLower: "공지", bodyLower: "내용", writerLower: "홍길동"},
	}

	tier := entityTier(docs, "홍길동 누구야")
	sortTier(tier)

	require.Len(t, tier, 2)
	assert.Equal(t, "writer-hit", tier[0].DocID, "writer matches earn the highest tier score")
	assert.Greater(t, tier[0].Score, tier[1].Score)
}
