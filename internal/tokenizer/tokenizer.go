package tokenizer

import (
	"strings"
	"unicode"
)

// particles is the fixed set of single-character Korean grammatical particles
// (josa) recognized during indexing: 이 가 은 는 을 를 야 아.
var particles = map[rune]struct{}{
	'이': {}, '가': {}, '은': {}, '는': {},
	'을': {}, '를': {}, '야': {}, '아': {},
}

// Words converts a string into lowercased word tokens, splitting on any rune
// that is neither a letter nor a digit. Unicode-aware, so Hangul syllables
// count as letters.
func Words(text string) []string {
	lower := strings.ToLower(text)
	split := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(split))
	for _, s := range split {
		if s != "" {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// Tokenize produces the index token stream for a text. In addition to the
// plain word tokens, any token longer than 2 runes ending in a common
// particle is also emitted in particle-stripped form, which tolerates
// inflection without a full morphological analyzer.
func Tokenize(text string) []string {
	words := Words(text)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, w)
		runes := []rune(w)
		if len(runes) > 2 {
			if _, ok := particles[runes[len(runes)-1]]; ok {
				tokens = append(tokens, string(runes[:len(runes)-1]))
			}
		}
	}
	return tokens
}

// LongerThan filters tokens to those with more than n runes.
func LongerThan(tokens []string, n int) []string {
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if len([]rune(t)) > n {
			kept = append(kept, t)
		}
	}
	return kept
}
