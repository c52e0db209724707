// Package answer turns retrieval candidates into the final response: either
// a rule-based concatenation of excerpts, or a grounded delegation to an
// external generation capability whose output may only reference supplied
// sources.
package answer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	internalErrors "github.com/campusnotice/notice-qa/internal/errors"
	"github.com/campusnotice/notice-qa/internal/search"
	"github.com/campusnotice/notice-qa/internal/textutil"
	"github.com/campusnotice/notice-qa/services"
)

const (
	// NotFoundAnswer is the fixed sentinel returned when no related notice
	// could be found or when grounding is insufficient.
	NotFoundAnswer = "관련 공지를 찾지 못했습니다."

	// contextExcerptRunes bounds the per-source excerpt handed to the
	// generator; larger than the display excerpt to give it more grounding.
	contextExcerptRunes = 1200

	defaultGenerationTimeout = 20 * time.Second
)

const systemPrompt = "당신은 대학 공지사항을 기반으로 학생 질문에 정확하고 간결하게 답변하는 도우미입니다. " +
	"반드시 아래에 제공된 출처의 발췌만 사용하고, 출처 외의 정보를 만들어내지 마세요. " +
	"응답은 한국어로 작성하세요. 다음과 같이 정확한 JSON 객체만 반환하세요:\n" +
	"{\"answer\": \"(간결한 한국어 답변)\", \"sources\": [\"출처 URL 1\", \"출처 URL 2\"]}\n" +
	"출처에 근거가 없으면 {\"answer\": \"" + NotFoundAnswer + "\", \"sources\": []} 를 반환하세요."

// Synthesizer builds the final answer. With no generator configured it
// always takes the rule-based path.
type Synthesizer struct {
	generator Generator
	timeout   time.Duration
}

// NewSynthesizer creates a synthesizer. generator may be nil, in which case
// synthesis is rule-based only. A non-positive timeout falls back to the
// default bound for generation calls.
func NewSynthesizer(generator Generator, timeout time.Duration) *Synthesizer {
	if timeout <= 0 {
		timeout = defaultGenerationTimeout
	}
	return &Synthesizer{generator: generator, timeout: timeout}
}

// NotFoundResult is the terminal response for a query with no candidates.
func NotFoundResult() services.ChatResult {
	return services.ChatResult{
		Answer:    NotFoundAnswer,
		Sources:   []services.Source{},
		Generated: false,
	}
}

// Synthesize produces the response for a query from ranked candidates.
// allSources is the full deduplicated source list used for grounding;
// display is the capped list shown to the user on the rule-based path.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, candidates []search.Candidate, allSources, display []services.Source) services.ChatResult {
	if len(candidates) == 0 {
		return NotFoundResult()
	}

	ruleAnswer := ruleBasedAnswer(candidates)

	if s.generator == nil {
		return services.ChatResult{
			Answer:    ruleAnswer,
			Sources:   display,
			Generated: false,
		}
	}

	userPrompt := buildUserPrompt(query, candidates, allSources)

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.generator.Complete(genCtx, systemPrompt, userPrompt)
	if err != nil {
		genErr := internalErrors.NewGenerationError(err)
		log.Printf("Warning: %v; falling back to rule-based answer", genErr)
		return services.ChatResult{
			Answer:    ruleAnswer,
			Sources:   display,
			Generated: false,
			Detail:    genErr.Error(),
		}
	}

	if payload, ok := parseGenerated(raw); ok {
		return services.ChatResult{
			Answer:    payload.Answer,
			Sources:   groundSources(payload.Sources, allSources),
			Generated: true,
		}
	}

	// The call succeeded but the output did not conform to the structured
	// shape: use the raw text with URLs stripped, keep the computed sources.
	return services.ChatResult{
		Answer:    textutil.StripURLs(raw),
		Sources:   display,
		Generated: true,
	}
}

// ruleBasedAnswer concatenates "[title] excerpt" blocks and strips raw links;
// links belong only in the sources list.
func ruleBasedAnswer(candidates []search.Candidate) string {
	parts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		parts = append(parts, fmt.Sprintf("[%s] %s", c.Title, c.Excerpt))
	}
	return textutil.StripURLs(strings.Join(parts, "\n\n"))
}

// buildUserPrompt assembles the strict context payload: question plus each
// source's title, URL and a bounded excerpt.
func buildUserPrompt(query string, candidates []search.Candidate, allSources []services.Source) string {
	fullTextByID := make(map[string]string, len(candidates))
	for _, c := range candidates {
		fullTextByID[c.DocID] = c.FullText
	}

	ctxParts := make([]string, 0, len(allSources))
	for rank, src := range allSources {
		excerpt := src.Excerpt
		if full, ok := fullTextByID[src.ID]; ok && full != "" {
			excerpt = textutil.Truncate(full, contextExcerptRunes)
		}
		ctxParts = append(ctxParts, fmt.Sprintf("[%d] %s\nURL: %s\n%s\n", rank+1, src.Title, src.URL, excerpt))
	}

	return "질문: " + query + "\n\n다음은 검색된 출처들입니다:\n\n" +
		strings.Join(ctxParts, "\n---\n") +
		"\n\n위 출처만 사용하여 요청한 형식의 JSON으로 간결히 응답하세요."
}

// generatedPayload is the structured shape the generator is instructed to
// return.
type generatedPayload struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// parseGenerated extracts the structured payload from raw model output,
// tolerating surrounding prose and markdown code fences.
func parseGenerated(raw string) (generatedPayload, bool) {
	var payload generatedPayload

	text := strings.TrimSpace(raw)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return payload, false
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return payload, false
	}
	if payload.Answer == "" {
		return payload, false
	}
	return payload, true
}

// groundSources keeps only claimed source URLs that were actually supplied,
// so a generated answer can never reference a source outside its context.
func groundSources(claimed []string, allSources []services.Source) []services.Source {
	byURL := make(map[string]services.Source, len(allSources))
	for _, src := range allSources {
		byURL[src.URL] = src
	}

	grounded := make([]services.Source, 0, len(claimed))
	seen := make(map[string]bool)
	for _, url := range claimed {
		url = strings.TrimSpace(url)
		src, ok := byURL[url]
		if !ok || seen[url] {
			continue
		}
		seen[url] = true
		grounded = append(grounded, src)
	}
	return grounded
}
