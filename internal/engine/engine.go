// Package engine wires the retrieval pipeline together: it owns the store,
// the lexical index snapshot lifecycle, the tiered retriever and the answer
// synthesizer, and exposes the core query operation.
package engine

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/campusnotice/notice-qa/index"
	"github.com/campusnotice/notice-qa/internal/answer"
	internalErrors "github.com/campusnotice/notice-qa/internal/errors"
	"github.com/campusnotice/notice-qa/internal/excerpt"
	"github.com/campusnotice/notice-qa/internal/search"
	"github.com/campusnotice/notice-qa/internal/sources"
	"github.com/campusnotice/notice-qa/internal/synonyms"
	"github.com/campusnotice/notice-qa/model"
	"github.com/campusnotice/notice-qa/services"
)

const (
	snapshotFile  = "bm25_index.gob"
	defaultTopK   = 5
	buildGroupKey = "index-build"
)

// Engine implements services.QueryEngine. The index snapshot is immutable
// once published; rebuilds produce a new snapshot and swap a single pointer,
// so in-flight queries never observe a half-built index.
type Engine struct {
	store        services.NoticeStore
	retriever    *search.Retriever
	synthesizer  *answer.Synthesizer
	snapshotPath string
	topK         int

	snapshot   atomic.Pointer[index.Snapshot]
	buildGroup singleflight.Group
}

// NewEngine creates the query engine. synth may be rule-based only (nil
// generator); topK <= 0 falls back to the default candidate budget.
func NewEngine(store services.NoticeStore, syn synonyms.Map, synth *answer.Synthesizer, dataDir string, topK int) *Engine {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Engine{
		store:        store,
		retriever:    search.NewRetriever(store, syn),
		synthesizer:  synth,
		snapshotPath: filepath.Join(dataDir, snapshotFile),
		topK:         topK,
	}
}

// currentSnapshot returns the published snapshot, lazily loading the
// persisted one or building from the corpus on first use. Concurrent callers
// collapse onto a single build.
func (e *Engine) currentSnapshot() (*index.Snapshot, error) {
	if snap := e.snapshot.Load(); snap != nil {
		return snap, nil
	}

	v, err, _ := e.buildGroup.Do(buildGroupKey, func() (interface{}, error) {
		if snap := e.snapshot.Load(); snap != nil {
			return snap, nil
		}

		if snap, err := index.Load(e.snapshotPath); err == nil {
			e.snapshot.Store(snap)
			return snap, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: failed to load index snapshot from %s: %v. Rebuilding from corpus.", e.snapshotPath, err)
		}

		snap, err := index.Build(e.store)
		if err != nil {
			return nil, err
		}
		if err := snap.Save(e.snapshotPath); err != nil {
			log.Printf("Warning: failed to persist index snapshot to %s: %v", e.snapshotPath, err)
		}
		e.snapshot.Store(snap)
		return snap, nil
	})
	if err != nil {
		return nil, internalErrors.NewIndexNotReadyError(err)
	}
	return v.(*index.Snapshot), nil
}

// Query answers a free-text question with the most relevant notices and
// grounded excerpts. Degenerate input fails fast before the index is
// touched; a query with no candidates yields the fixed not-found sentinel.
func (e *Engine) Query(ctx context.Context, question string, topK int) (services.ChatResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return services.ChatResult{}, internalErrors.NewValidationError("question", "question is required")
	}
	if topK <= 0 {
		topK = e.topK
	}

	start := time.Now()

	snap, err := e.currentSnapshot()
	if err != nil {
		return services.ChatResult{}, err
	}

	candidates := e.retriever.Retrieve(snap, question, topK)

	var result services.ChatResult
	if len(candidates) == 0 {
		result = answer.NotFoundResult()
	} else {
		for i := range candidates {
			if sentences := excerpt.Extract(candidates[i].FullText, question, excerpt.MaxSentences); len(sentences) > 0 {
				candidates[i].Excerpt = excerpt.Join(sentences)
			}
		}

		meta, err := e.store.ListMeta()
		if err != nil {
			log.Printf("Warning: failed to read meta index: %v. Proceeding without URLs.", err)
			meta = map[string]model.NoticeMeta{}
		}

		all, display := sources.Aggregate(candidates, meta)
		result = e.synthesizer.Synthesize(ctx, question, candidates, all, display)
	}

	result.QueryID = uuid.New().String()
	result.Took = time.Since(start).Milliseconds()
	return result, nil
}

// Rebuild constructs a fresh snapshot from the corpus out-of-band, persists
// it and swaps it in atomically.
func (e *Engine) Rebuild(ctx context.Context) error {
	snap, err := index.Build(e.store)
	if err != nil {
		return err
	}
	if err := snap.Save(e.snapshotPath); err != nil {
		log.Printf("Warning: failed to persist rebuilt index snapshot: %v", err)
	}
	e.snapshot.Store(snap)
	return nil
}

// Invalidate drops the published snapshot so the next query rebuilds lazily.
// The persisted snapshot is removed too, otherwise the lazy build would
// restore a stale index that predates the ingestion. Used after ingestion
// backfills new notices.
func (e *Engine) Invalidate() {
	e.snapshot.Store(nil)
	if err := os.Remove(e.snapshotPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to remove stale index snapshot %s: %v", e.snapshotPath, err)
	}
}

// Stats reports whether a snapshot is published and how many documents it
// covers.
func (e *Engine) Stats() (ready bool, docs int) {
	snap := e.snapshot.Load()
	if snap == nil {
		return false, 0
	}
	return true, snap.N
}
