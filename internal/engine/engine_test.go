package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusnotice/notice-qa/internal/answer"
	internalErrors "github.com/campusnotice/notice-qa/internal/errors"
	internalTesting "github.com/campusnotice/notice-qa/internal/testing"
	"github.com/campusnotice/notice-qa/model"
	"github.com/campusnotice/notice-qa/store"
)

func newTestEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := store.NewNoticeStore(dir)
	require.NoError(t, err)
	internalTesting.SeedNotices(t, s, internalTesting.SampleNotices())
	return NewEngine(s, nil, answer.NewSynthesizer(nil, 0), dir, 5), dir
}

func TestQueryValidation(t *testing.T) {
	// A deliberately unusable data directory: validation must reject the
	// question before the index or the corpus is ever touched.
	e := NewEngine(failingStore{}, nil, answer.NewSynthesizer(nil, 0), t.TempDir(), 5)

	for _, question := range []string{"", "   ", "\n\t"} {
		_, err := e.Query(context.Background(), question, 5)

		require.Error(t, err)
		assert.True(t, errors.Is(err, internalErrors.ErrInvalidRequest),
			"blank question %q must map to the invalid-request class", question)
	}
}

func TestQueryEndToEnd(t *testing.T) {
	e, _ := newTestEngine(t)

	t.Run("answers with grounded sources", func(t *testing.T) {
		result, err := e.Query(context.Background(), "휴학 신청 어떻게 해?", 5)

		require.NoError(t, err)
		assert.False(t, result.Generated)
		assert.Contains(t, result.Answer, "휴학")
		assert.NotEmpty(t, result.Sources)
		assert.Equal(t, "https://cs.example.ac.kr/notice/1001", result.Sources[0].URL)
		assert.NotEmpty(t, result.QueryID)
		assert.GreaterOrEqual(t, result.Took, int64(0))
	})

	t.Run("excerpts are query-relevant sentences", func(t *testing.T) {
		result, err := e.Query(context.Background(), "휴학 불이익이 있나요", 5)

		require.NoError(t, err)
		require.NotEmpty(t, result.Sources)
		assert.Contains(t, result.Sources[0].Excerpt, "불이익")
	})

	t.Run("display sources are capped", func(t *testing.T) {
		result, err := e.Query(context.Background(), "신청 기간", 5)

		require.NoError(t, err)
		assert.LessOrEqual(t, len(result.Sources), 2)
	})

	t.Run("unanswerable question yields the sentinel", func(t *testing.T) {
		result, err := e.Query(context.Background(), "완전히 무관한 질문 qqqq", 5)

		require.NoError(t, err)
		assert.Equal(t, answer.NotFoundAnswer, result.Answer)
		assert.False(t, result.Generated)
		assert.Empty(t, result.Sources)
		assert.NotEmpty(t, result.QueryID)
	})
}

func TestQueryEmptyCorpus(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewNoticeStore(dir)
	require.NoError(t, err)
	e := NewEngine(s, nil, answer.NewSynthesizer(nil, 0), dir, 5)

	result, err := e.Query(context.Background(), "휴학", 5)

	require.NoError(t, err)
	assert.Equal(t, answer.NotFoundAnswer, result.Answer)
}

func TestSnapshotLifecycle(t *testing.T) {
	e, dir := newTestEngine(t)

	t.Run("first query publishes and persists the snapshot", func(t *testing.T) {
		ready, _ := e.Stats()
		assert.False(t, ready)

		_, err := e.Query(context.Background(), "휴학", 5)
		require.NoError(t, err)

		ready, docs := e.Stats()
		assert.True(t, ready)
		assert.Equal(t, 3, docs)

		_, err = os.Stat(filepath.Join(dir, snapshotFile))
		assert.NoError(t, err, "snapshot file should be persisted after the lazy build")
	})

	t.Run("invalidate drops the snapshot and the next query rebuilds", func(t *testing.T) {
		e.Invalidate()
		ready, _ := e.Stats()
		assert.False(t, ready)

		_, statErr := os.Stat(filepath.Join(dir, snapshotFile))
		assert.True(t, os.IsNotExist(statErr), "stale persisted snapshot must be removed")

		_, err := e.Query(context.Background(), "휴학", 5)
		require.NoError(t, err)
		ready, _ = e.Stats()
		assert.True(t, ready)
	})

	t.Run("rebuild picks up newly ingested notices", func(t *testing.T) {
		s, err := store.NewNoticeStore(dir)
		require.NoError(t, err)
		require.NoError(t, s.Put(&model.Notice{
			ID:        "3001",
			Title:     "수강신청 일정 안내",
			Content:   "<p>수강신청은 2월에 진행됩니다.</p>",
			SourceURL: "https://cs.example.ac.kr/notice/3001",
		}))

		require.NoError(t, e.Rebuild(context.Background()))
		_, docs := e.Stats()
		assert.Equal(t, 4, docs)

		result, err := e.Query(context.Background(), "수강신청 언제?", 5)
		require.NoError(t, err)
		require.NotEmpty(t, result.Sources)
		assert.Equal(t, "https://cs.example.ac.kr/notice/3001", result.Sources[0].URL)
	})
}

func TestQueryIndexNotReady(t *testing.T) {
	e := NewEngine(failingStore{}, nil, answer.NewSynthesizer(nil, 0), t.TempDir(), 5)

	_, err := e.Query(context.Background(), "휴학", 5)

	require.Error(t, err)
	assert.True(t, errors.Is(err, internalErrors.ErrIndexNotReady))
}

// failingStore fails every corpus operation, simulating an unusable data
// directory.
type failingStore struct{}

func (failingStore) Get(string) (*model.Notice, error) {
	return nil, errors.New("store unavailable")
}

func (failingStore) ListIDs() ([]string, error) {
	return nil, errors.New("store unavailable")
}

func (failingStore) ListMeta() (map[string]model.NoticeMeta, error) {
	return nil, errors.New("store unavailable")
}

func (failingStore) Put(*model.Notice) error {
	return errors.New("store unavailable")
}
