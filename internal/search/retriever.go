// Package search implements the tiered candidate-selection strategy over the
// notice corpus: keyword and synonym scoring, substring fallback, a
// who-question heuristic, and index-backed supplementation. Tiers execute in
// strict order and only add candidates; a later tier never re-adds or
// displaces a document an earlier tier produced.
package search

import (
	"log"
	"sort"
	"strings"

	"github.com/campusnotice/notice-qa/index"
	"github.com/campusnotice/notice-qa/internal/synonyms"
	"github.com/campusnotice/notice-qa/internal/textutil"
	"github.com/campusnotice/notice-qa/internal/tokenizer"
	"github.com/campusnotice/notice-qa/services"
)

const (
	// snippetRunes is the default excerpt budget carried on a candidate
	// before sentence extraction runs.
	snippetRunes = 400

	// lastResortRunes is the larger budget used by the single last-resort
	// candidate when every other tier came up empty.
	lastResortRunes = 800

	// Tier score magnitudes. These are rank-order tiebreaks within their
	// tier, not comparable across tiers.
	tier2Score       = 1.0
	tier3TitleScore  = 2.0
	tier3BodyScore   = 1.0
	tier3WriterScore = 3.0

	titleMatchWeight   = 3
	synonymTitleWeight = 2
	tokenTitleBonus    = 2
)

// whoMarkers are the interrogative markers that activate the entity
// heuristic tier ("who wrote/owns X" questions).
var whoMarkers = []string{"누구", "누가", "누구야"}

// Candidate is a transient per-query retrieval result. Score scales are
// tier-dependent; within a tier higher is strictly more relevant.
type Candidate struct {
	DocID    string
	Score    float64
	Title    string
	Excerpt  string
	FullText string
}

// Retriever runs the tiered candidate selection.
type Retriever struct {
	store    services.NoticeStore
	synonyms synonyms.Map
}

// NewRetriever creates a retriever over the given store and synonym map.
func NewRetriever(store services.NoticeStore, syn synonyms.Map) *Retriever {
	if syn == nil {
		syn = synonyms.Default()
	}
	return &Retriever{store: store, synonyms: syn}
}

// corpusDoc is one loaded document with the lowercased projections the tier
// heuristics match against.
type corpusDoc struct {
	id          string
	title       string
	titleLower  string
	body        string
	bodyLower   string
	writerLower string
}

// loadCorpus reads every readable notice once per query. Unreadable
// documents are skipped rather than failing the whole retrieval.
func (r *Retriever) loadCorpus() []corpusDoc {
	ids, err := r.store.ListIDs()
	if err != nil {
		log.Printf("Warning: failed to list corpus IDs: %v", err)
		return nil
	}

	docs := make([]corpusDoc, 0, len(ids))
	for _, id := range ids {
		notice, err := r.store.Get(id)
		if err != nil {
			log.Printf("Warning: skipping unreadable notice '%s': %v", id, err)
			continue
		}
		body := notice.PlainContent()
		docs = append(docs, corpusDoc{
			id:          notice.ID,
			title:       notice.Title,
			titleLower:  strings.ToLower(notice.Title),
			body:        body,
			bodyLower:   strings.ToLower(body),
			writerLower: strings.ToLower(notice.Writer),
		})
	}
	return docs
}

// Retrieve returns a ranked, deduplicated candidate list bounded by topK.
// The snapshot backs tiers 4-6; tiers 1-3 scan the corpus directly.
func (r *Retriever) Retrieve(snapshot *index.Snapshot, query string, topK int) []Candidate {
	ql := strings.ToLower(strings.TrimSpace(query))
	if ql == "" || topK <= 0 {
		return nil
	}

	docs := r.loadCorpus()
	docsByID := make(map[string]corpusDoc, len(docs))
	for _, d := range docs {
		docsByID[d.id] = d
	}

	seen := make(map[string]bool)
	candidates := make([]Candidate, 0, topK)
	appendTier := func(tier []Candidate) {
		sortTier(tier)
		for _, c := range tier {
			if seen[c.DocID] {
				continue
			}
			seen[c.DocID] = true
			candidates = append(candidates, c)
		}
	}

	// Tier 1: keyword and synonym scoring over every document.
	appendTier(r.keywordTier(docs, ql))
	if len(candidates) >= topK {
		return candidates[:topK]
	}

	// Tier 2: substring fallback, only when tier 1 found nothing.
	if len(candidates) == 0 {
		appendTier(substringTier(docs, ql))
		if len(candidates) >= topK {
			return candidates[:topK]
		}
	}

	// Tier 3: who-question heuristic, matching writer names directly.
	if isWhoQuestion(ql) {
		appendTier(entityTier(docs, ql))
		if len(candidates) >= topK {
			return candidates[:topK]
		}
	}

	// Tier 4: index supplementation up to the shortfall.
	if snapshot != nil && len(candidates) < topK {
		need := topK - len(candidates)
		for _, hit := range snapshot.Score(query, need) {
			if seen[hit.DocID] {
				continue
			}
			doc, ok := docsByID[hit.DocID]
			if !ok {
				continue
			}
			seen[hit.DocID] = true
			candidates = append(candidates, newCandidate(doc, hit.Score, snippetRunes))
		}
	}

	// Tier 5: aggressive index-only fallback when everything above came up
	// empty.
	if snapshot != nil && len(candidates) == 0 {
		for _, hit := range snapshot.Score(query, topK) {
			doc, ok := docsByID[hit.DocID]
			if !ok {
				continue
			}
			candidates = append(candidates, newCandidate(doc, hit.Score, snippetRunes))
		}
	}

	// Tier 6: last resort, a single top hit with a larger excerpt budget.
	if snapshot != nil && len(candidates) == 0 {
		if hits := snapshot.Score(query, 1); len(hits) > 0 {
			if doc, ok := docsByID[hits[0].DocID]; ok {
				candidates = append(candidates, newCandidate(doc, hits[0].Score, lastResortRunes))
			}
		}
	}

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}

// keywordTier scores every document against the literal query, the synonym
// expansion and the individual query tokens. Documents with a positive score
// are kept.
func (r *Retriever) keywordTier(docs []corpusDoc, ql string) []Candidate {
	tokens := tokenizer.LongerThan(tokenizer.Words(ql), 1)

	tier := make([]Candidate, 0)
	for _, doc := range docs {
		score := float64(strings.Count(doc.titleLower, ql)*titleMatchWeight + strings.Count(doc.bodyLower, ql))

		for key, variants := range r.synonyms {
			if !strings.Contains(ql, strings.ToLower(key)) {
				continue
			}
			for _, variant := range variants {
				v := strings.ToLower(variant)
				score += float64(strings.Count(doc.titleLower, v)*synonymTitleWeight + strings.Count(doc.bodyLower, v))
			}
		}

		for _, tok := range tokens {
			if strings.Contains(doc.titleLower, tok) {
				score += tokenTitleBonus
			}
			score += float64(strings.Count(doc.bodyLower, tok))
		}

		if score > 0 {
			tier = append(tier, newCandidate(doc, score, snippetRunes))
		}
	}
	return tier
}

// substringTier keeps any document containing a query token (longer than 2
// runes) as a substring of title or body, at a fixed low score.
func substringTier(docs []corpusDoc, ql string) []Candidate {
	tokens := tokenizer.LongerThan(tokenizer.Words(ql), 2)
	if len(tokens) == 0 {
		return nil
	}

	tier := make([]Candidate, 0)
	for _, doc := range docs {
		for _, tok := range tokens {
			if strings.Contains(doc.titleLower, tok) || strings.Contains(doc.bodyLower, tok) {
				tier = append(tier, newCandidate(doc, tier2Score, snippetRunes))
				break
			}
		}
	}
	return tier
}

// entityTier handles who-questions: token matches in the title or body earn
// low/medium scores, a token match in the writer field earns the highest
// score of this tier. Particle-stripped token variants are included so an
// inflected name still matches the writer field.
func entityTier(docs []corpusDoc, ql string) []Candidate {
	tokens := tokenizer.LongerThan(tokenizer.Tokenize(ql), 1)

	tier := make([]Candidate, 0)
	for _, doc := range docs {
		score := 0.0
		for _, tok := range tokens {
			if strings.Contains(doc.titleLower, tok) {
				score += tier3TitleScore
			}
			if strings.Contains(doc.bodyLower, tok) {
				score += tier3BodyScore
			}
			if doc.writerLower != "" && strings.Contains(doc.writerLower, tok) {
				score += tier3WriterScore
			}
		}
		if score > 0 {
			tier = append(tier, newCandidate(doc, score, snippetRunes))
		}
	}
	return tier
}

func isWhoQuestion(ql string) bool {
	for _, marker := range whoMarkers {
		if strings.Contains(ql, marker) {
			return true
		}
	}
	return false
}

func newCandidate(doc corpusDoc, score float64, excerptRunes int) Candidate {
	return Candidate{
		DocID:    doc.id,
		Score:    score,
		Title:    doc.title,
		Excerpt:  textutil.Truncate(doc.body, excerptRunes),
		FullText: doc.body,
	}
}

// sortTier orders candidates by score descending, ties broken by ascending
// document ID for determinism.
func sortTier(tier []Candidate) {
	sort.SliceStable(tier, func(i, j int) bool {
		if tier[i].Score != tier[j].Score {
			return tier[i].Score > tier[j].Score
		}
		return tier[i].DocID < tier[j].DocID
	})
}
