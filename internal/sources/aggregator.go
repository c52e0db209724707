// Package sources assembles the externally visible source list from
// retrieval candidates: URL resolution, deduplication and the display cap.
package sources

import (
	"github.com/campusnotice/notice-qa/internal/search"
	"github.com/campusnotice/notice-qa/model"
	"github.com/campusnotice/notice-qa/services"
)

// DisplayLimit caps how many sources are shown to the end user. The full
// deduplicated list stays available internally for synthesis context.
const DisplayLimit = 2

// Aggregate converts ranked candidates into Result Sources. Candidate rank
// order is preserved; candidates without a resolvable URL are dropped, and
// for repeated URLs only the first (highest-ranked) occurrence is kept.
// It returns the full deduplicated list and the display-capped prefix.
func Aggregate(candidates []search.Candidate, meta map[string]model.NoticeMeta) (all []services.Source, display []services.Source) {
	all = make([]services.Source, 0, len(candidates))
	seen := make(map[string]bool)

	for _, c := range candidates {
		url := ""
		if m, ok := meta[c.DocID]; ok {
			url = m.URL
		}
		if url == "" {
			continue
		}
		if seen[url] {
			continue
		}
		seen[url] = true
		all = append(all, services.Source{
			ID:      c.DocID,
			Title:   c.Title,
			URL:     url,
			Score:   c.Score,
			Excerpt: c.Excerpt,
		})
	}

	display = all
	if len(display) > DisplayLimit {
		display = display[:DisplayLimit]
	}
	return all, display
}
