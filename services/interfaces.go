package services

import (
	"context"

	"github.com/campusnotice/notice-qa/index"
	"github.com/campusnotice/notice-qa/model"
)

// Source is the externally visible projection of a retrieval candidate.
// No two sources in one response share the same non-empty URL.
type Source struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	URL     string  `json:"url,omitempty"`
	Score   float64 `json:"score"`
	Excerpt string  `json:"excerpt,omitempty"`
}

// ChatResult is the structured answer returned for one question. Generated
// reports whether the external generation capability produced the answer;
// rule-based and sentinel answers carry false. Detail holds auxiliary
// diagnostic information (e.g. why generation fell back) and is never the
// primary answer.
type ChatResult struct {
	Answer    string   `json:"answer"`
	Sources   []Source `json:"sources"`
	Generated bool     `json:"generated"`
	QueryID   string   `json:"query_id,omitempty"`
	Took      int64    `json:"took,omitempty"` // milliseconds
	Detail    string   `json:"detail,omitempty"`
}

// NoticeStore defines read access to the notice corpus plus the ingestion
// backfill write.
type NoticeStore interface {
	Get(id string) (*model.Notice, error)
	ListIDs() ([]string, error)
	ListMeta() (map[string]model.NoticeMeta, error)
	Put(notice *model.Notice) error
}

// Scorer answers ranked queries against a built lexical index.
type Scorer interface {
	Score(query string, topK int) []index.DocScore
}

// QueryEngine is the core entry point: it answers free-text questions with
// grounded excerpts and manages the index snapshot lifecycle.
type QueryEngine interface {
	Query(ctx context.Context, question string, topK int) (ChatResult, error)
	Rebuild(ctx context.Context) error
	Invalidate()
	Stats() (ready bool, docs int)
}
