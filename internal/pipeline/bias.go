package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/prismnews/prism/internal/telemetry"
)

// neutralAliases are category names the upstream model tends to use instead
// of the required "unbiased" label. Matched case-insensitively.
var neutralAliases = []string{"neutral", "center", "balanced", "objective", "impartial"}

// BiasCategorizer assigns each distinct outlet to a bias category via one
// reasoning-model call and repairs the result so that exactly one category
// is literally named "unbiased".
type BiasCategorizer struct {
	llm    CompletionProvider
	tele   *telemetry.Telemetry
	logger *log.Logger
}

func NewBiasCategorizer(llm CompletionProvider, tele *telemetry.Telemetry, logger *log.Logger) *BiasCategorizer {
	return &BiasCategorizer{llm: llm, tele: tele, logger: logger}
}

// Categorize sends the distinct outlet list with the query for context and
// parses the model's JSON verdict. Unparseable output is fatal for the
// request.
func (b *BiasCategorizer) Categorize(ctx context.Context, query string, articles []Article) (BiasAnalysis, error) {
	outlets := distinctOutlets(articles)
	b.logger.Printf("analyzing %d unique outlets for bias", len(outlets))

	userPrompt := fmt.Sprintf("Query: %s\n\nNews Sources:\n%s", query, strings.Join(outlets, "\n"))
	raw, err := b.llm.Complete(ctx, biasSystemPrompt, userPrompt)
	b.tele.RecordUpstream("llm", err)
	if err != nil {
		return BiasAnalysis{}, fmt.Errorf("%w: bias analysis: %v", ErrUpstreamUnavailable, err)
	}

	analysis, err := parseBiasResponse(raw)
	if err != nil {
		return BiasAnalysis{}, err
	}
	analysis = ensureUnbiased(analysis, b.logger)
	return analysis, nil
}

// distinctOutlets preserves first-occurrence order so the prompt is stable
// for identical corpora.
func distinctOutlets(articles []Article) []string {
	seen := make(map[string]struct{})
	var outlets []string
	for _, a := range articles {
		if a.Outlet == "" {
			continue
		}
		if _, ok := seen[a.Outlet]; ok {
			continue
		}
		seen[a.Outlet] = struct{}{}
		outlets = append(outlets, a.Outlet)
	}
	return outlets
}

// parseBiasResponse extracts the JSON object from untrusted model text. The
// model sometimes wraps the JSON in prose or code fences.
func parseBiasResponse(raw string) (BiasAnalysis, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return BiasAnalysis{}, fmt.Errorf("%w: no JSON object in bias analysis", ErrMalformedResponse)
	}

	var parsed struct {
		Categories   map[string][]string `json:"categories"`
		Descriptions map[string]string   `json:"descriptions"`
		Reasoning    string              `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return BiasAnalysis{}, fmt.Errorf("%w: bias analysis JSON: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Categories) == 0 {
		return BiasAnalysis{}, fmt.Errorf("%w: bias analysis returned no categories", ErrMalformedResponse)
	}

	analysis := BiasAnalysis{
		Categories:   parsed.Categories,
		Descriptions: parsed.Descriptions,
		Reasoning:    strings.TrimSpace(parsed.Reasoning),
	}
	if analysis.Descriptions == nil {
		analysis.Descriptions = map[string]string{}
	}
	if analysis.Reasoning == "" {
		analysis.Reasoning = "No reasoning provided"
	}
	return analysis, nil
}

// ensureUnbiased enforces the invariant that exactly one category is
// literally named "unbiased": a case variant is normalized, a neutral alias
// is renamed, and as a last resort an empty bucket is created. The pipeline
// continues either way; summarization works with an empty unbiased bucket.
func ensureUnbiased(analysis BiasAnalysis, logger *log.Logger) BiasAnalysis {
	if _, ok := analysis.Categories[UnbiasedCategory]; !ok {
		renamed := ""
		for label := range analysis.Categories {
			if strings.EqualFold(label, UnbiasedCategory) {
				renamed = label
				break
			}
		}
		if renamed == "" {
			// Alias priority first, then sorted label order, so the same
			// response always repairs to the same category set.
			labels := make([]string, 0, len(analysis.Categories))
			for label := range analysis.Categories {
				labels = append(labels, label)
			}
			sort.Strings(labels)
			for _, alias := range neutralAliases {
				for _, label := range labels {
					if strings.EqualFold(label, alias) {
						renamed = label
						break
					}
				}
				if renamed != "" {
					break
				}
			}
		}
		if renamed != "" {
			analysis.Categories[UnbiasedCategory] = analysis.Categories[renamed]
			delete(analysis.Categories, renamed)
			if desc, ok := analysis.Descriptions[renamed]; ok {
				analysis.Descriptions[UnbiasedCategory] = desc
				delete(analysis.Descriptions, renamed)
			}
			logger.Printf("renamed bias category %q to %q", renamed, UnbiasedCategory)
		} else {
			analysis.Categories[UnbiasedCategory] = nil
			logger.Printf("no neutral category returned; forcing empty %q bucket", UnbiasedCategory)
		}
	}

	// Deterministic label order for ranking and summarization: alphabetical
	// with "unbiased" last.
	labels := make([]string, 0, len(analysis.Categories))
	for label := range analysis.Categories {
		if label != UnbiasedCategory {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	analysis.Labels = append(labels, UnbiasedCategory)
	return analysis
}
