// Package textutil provides small text helpers shared by indexing, retrieval
// and answer synthesis: markup stripping, URL removal, sentence splitting and
// rune-safe truncation.
package textutil

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

// tagRegex matches HTML/XML tags.
var tagRegex = regexp.MustCompile(`<[^>]+>`)

// urlRegex matches raw http(s) links.
var urlRegex = regexp.MustCompile(`https?://\S+`)

// StripHTML removes markup from a string, unescapes entities and collapses
// runs of whitespace into single spaces.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	text := tagRegex.ReplaceAllString(s, " ")
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// StripURLs removes raw http(s) links from a string. Answers must not leak
// inline links; links belong only in the sources list.
func StripURLs(s string) string {
	return strings.TrimSpace(urlRegex.ReplaceAllString(s, ""))
}

// SplitSentences splits text on sentence-ending punctuation followed by
// whitespace. The punctuation stays attached to its sentence.
func SplitSentences(text string) []string {
	sentences := make([]string, 0)
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
