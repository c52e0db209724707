// Package excerpt selects the most query-relevant sentences of a document's
// full text for use as a short, grounded quotation.
package excerpt

import (
	"sort"
	"strings"

	"github.com/campusnotice/notice-qa/internal/textutil"
	"github.com/campusnotice/notice-qa/internal/tokenizer"
)

// MaxSentences is the default sentence budget for an excerpt.
const MaxSentences = 3

type scoredSentence struct {
	score    int
	sentence string
}

// Extract returns up to maxSentences sentences of fullText, ordered by how
// many query tokens (longer than 2 runes, case-insensitive) each contains.
// Sentences with no token match are dropped; ties keep original text order.
// An empty result means the caller should fall back to a fixed-size prefix
// of the text.
func Extract(fullText, query string, maxSentences int) []string {
	tokens := tokenizer.LongerThan(tokenizer.Words(query), 2)
	if len(tokens) == 0 || maxSentences <= 0 {
		return nil
	}

	scored := make([]scoredSentence, 0)
	for _, sentence := range textutil.SplitSentences(fullText) {
		low := strings.ToLower(sentence)
		score := 0
		for _, tok := range tokens {
			if strings.Contains(low, tok) {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, scoredSentence{score: score, sentence: sentence})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > maxSentences {
		scored = scored[:maxSentences]
	}
	sentences := make([]string, len(scored))
	for i, s := range scored {
		sentences[i] = s.sentence
	}
	return sentences
}

// Join concatenates extracted sentences into a single excerpt string.
func Join(sentences []string) string {
	return strings.Join(sentences, " ")
}
