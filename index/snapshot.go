// Package index implements the persisted lexical index over the notice
// corpus: per-document term frequencies, global document frequencies and the
// statistics needed for BM25 scoring. A Snapshot is immutable once built;
// rebuilds produce a fresh Snapshot that callers swap in atomically.
package index

import (
	"math"
	"sort"

	"github.com/campusnotice/notice-qa/internal/tokenizer"
)

// BM25 parameters, fixed.
const (
	k1 = 1.5
	b  = 0.75
)

// DocScore is a single ranked hit: a notice ID and its BM25 score.
type DocScore struct {
	DocID string
	Score float64
}

// Snapshot holds the derived index state for one corpus snapshot. Fields are
// exported for gob encoding; treat a built Snapshot as read-only.
type Snapshot struct {
	N      int                       // total document count
	AvgDL  float64                   // average document length in tokens
	DocLen map[string]int            // docID -> token count
	TF     map[string]map[string]int // docID -> term -> frequency
	DF     map[string]int            // term -> document frequency
	Titles map[string]string         // docID -> title, for cheap enrichment
}

// NewSnapshot returns an empty snapshot with initialized maps.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		DocLen: make(map[string]int),
		TF:     make(map[string]map[string]int),
		DF:     make(map[string]int),
		Titles: make(map[string]string),
	}
}

// Add indexes one document's searchable text under the given ID. Add is only
// safe before the snapshot is published.
func (s *Snapshot) Add(docID, title, searchableText string) {
	tokens := tokenizer.Tokenize(searchableText)

	freqs := make(map[string]int, len(tokens))
	for _, t := range tokens {
		freqs[t]++
	}

	s.N++
	s.DocLen[docID] = len(tokens)
	s.TF[docID] = freqs
	s.Titles[docID] = title
	for t := range freqs {
		s.DF[t]++
	}
	s.recomputeAvgDL()
}

func (s *Snapshot) recomputeAvgDL() {
	if s.N == 0 {
		s.AvgDL = 0
		return
	}
	total := 0
	for _, dl := range s.DocLen {
		total += dl
	}
	s.AvgDL = float64(total) / float64(s.N)
}

// Title returns the indexed title for a document ID.
func (s *Snapshot) Title(docID string) string {
	return s.Titles[docID]
}

// Score returns up to topK (docID, score) pairs for the query, sorted by
// descending score with ties broken by ascending document ID. An empty or
// unknown-term query yields an empty result, not an error. Documents that
// accumulate a zero score are excluded.
func (s *Snapshot) Score(query string, topK int) []DocScore {
	results := make([]DocScore, 0)
	if topK <= 0 || s.N == 0 {
		return results
	}

	queryTokens := tokenizer.Tokenize(query)
	if len(queryTokens) == 0 {
		return results
	}

	// idf(t) = ln(1 + (N - df + 0.5) / (df + 0.5)); unknown terms are skipped
	// during accumulation. Very common terms may contribute near zero, which
	// is accepted rather than clamped.
	idf := make(map[string]float64, len(queryTokens))
	for _, t := range queryTokens {
		if _, done := idf[t]; done {
			continue
		}
		df := float64(s.DF[t])
		idf[t] = math.Log(1 + (float64(s.N)-df+0.5)/(df+0.5))
	}

	for docID, freqs := range s.TF {
		dl := float64(s.DocLen[docID])
		score := 0.0
		for _, t := range queryTokens {
			f := float64(freqs[t])
			if f == 0 {
				continue
			}
			norm := 1 - b
			if s.AvgDL > 0 {
				norm = 1 - b + b*(dl/s.AvgDL)
			}
			denom := f + k1*norm
			if denom == 0 {
				denom = 1
			}
			score += idf[t] * (f * (k1 + 1)) / denom
		}
		if score > 0 {
			results = append(results, DocScore{DocID: docID, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
