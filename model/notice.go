// Package model defines the core data shapes shared across the notice QA service.
package model

import (
	"strings"

	"github.com/campusnotice/notice-qa/internal/textutil"
)

// Notice is a single institutional notice as produced by the ingestion
// pipeline. Content carries the original markup; OCRText holds plain text
// recovered from embedded images and may be backfilled after ingestion.
type Notice struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	OCRText   string `json:"ocr_text,omitempty"`
	Writer    string `json:"writer,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
	FetchedAt int64  `json:"fetched_at"`
}

// SearchableText returns the text that retrieval operates on: title plus
// markup-stripped content plus OCR text.
func (n *Notice) SearchableText() string {
	parts := make([]string, 0, 3)
	if n.Title != "" {
		parts = append(parts, n.Title)
	}
	if plain := textutil.StripHTML(n.Content); plain != "" {
		parts = append(parts, plain)
	}
	if n.OCRText != "" {
		parts = append(parts, n.OCRText)
	}
	return strings.Join(parts, " ")
}

// PlainContent returns the markup-stripped content with OCR text appended,
// i.e. the body text used for keyword matching and excerpts.
func (n *Notice) PlainContent() string {
	plain := textutil.StripHTML(n.Content)
	if n.OCRText == "" {
		return plain
	}
	if plain == "" {
		return n.OCRText
	}
	return plain + "\n" + n.OCRText
}

// NoticeMeta is the listing projection of a notice kept in the store's
// meta index for cheap enumeration and response enrichment.
type NoticeMeta struct {
	URL       string `json:"url,omitempty"`
	Title     string `json:"title"`
	Writer    string `json:"writer,omitempty"`
	FetchedAt int64  `json:"fetched_at"`
}
