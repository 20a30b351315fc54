package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/prismnews/prism/internal/telemetry"
)

// Summarizer sends the ranked buckets, labeled by category, to the
// reasoning model and returns the final answer string. The model's text is
// only trimmed, never rewritten.
type Summarizer struct {
	llm       CompletionProvider
	extractor ContentExtractor // nil disables content enrichment
	tele      *telemetry.Telemetry
	logger    *log.Logger
}

func NewSummarizer(llm CompletionProvider, extractor ContentExtractor, tele *telemetry.Telemetry, logger *log.Logger) *Summarizer {
	return &Summarizer{llm: llm, extractor: extractor, tele: tele, logger: logger}
}

// Summarize builds the category-labeled article listing and asks the model
// for the final answer. When no bucket has any article there is nothing to
// summarize and a fixed message is returned without a model call.
func (s *Summarizer) Summarize(ctx context.Context, query string, buckets []CategoryBucket, reasoning string) (string, error) {
	var b strings.Builder
	article := 1
	for _, bucket := range buckets {
		if len(bucket.Articles) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n===== ARTICLES FROM %s CATEGORY =====\n\n", strings.ToUpper(bucket.Category))
		for _, sa := range bucket.Articles {
			content := sa.Article.Snippet
			if content == "" {
				content = s.enrich(ctx, sa.Article.URL)
			}
			if content == "" {
				content = "No content available. Using title only."
			}
			fmt.Fprintf(&b, "ARTICLE %d (%s):\nTitle: %s\nSource: %s\nURL: %s\nDate: %s\nContent: %s\n\n",
				article, strings.ToUpper(bucket.Category), sa.Article.Title, sa.Article.Outlet,
				sa.Article.URL, sa.Article.PublishedAt, content)
			article++
		}
	}
	if article == 1 {
		s.logger.Printf("no ranked articles; skipping summarization call")
		return NoRankedMessage, nil
	}

	userPrompt := fmt.Sprintf("User query: %s\n%s\nBIAS ANALYSIS REASONING (include verbatim in the REASONING: section):\n%s\n",
		query, b.String(), reasoning)

	raw, err := s.llm.Complete(ctx, summarySystemPrompt, userPrompt)
	s.tele.RecordUpstream("llm", err)
	if err != nil {
		return "", fmt.Errorf("%w: summarization: %v", ErrUpstreamUnavailable, err)
	}
	summary := strings.TrimSpace(raw)
	if summary == "" {
		return "", fmt.Errorf("%w: empty summary", ErrMalformedResponse)
	}
	return summary, nil
}

// enrich fetches readable page text for articles without a snippet.
// Best-effort only.
func (s *Summarizer) enrich(ctx context.Context, url string) string {
	if s.extractor == nil {
		return ""
	}
	text, err := s.extractor.Extract(ctx, url)
	if err != nil {
		s.logger.Printf("content enrichment failed for %s: %v", url, err)
		return ""
	}
	return text
}
