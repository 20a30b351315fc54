package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/prismnews/prism/internal/telemetry"
)

// QueryExpander turns one user query into an ordered batch of ten search
// variants, or a blocked signal when the expansion model trips the
// sensitive-topic policy. Malformed model output is a hard error; the batch
// is never padded.
type QueryExpander struct {
	llm    CompletionProvider
	tele   *telemetry.Telemetry
	logger *log.Logger
}

func NewQueryExpander(llm CompletionProvider, tele *telemetry.Telemetry, logger *log.Logger) *QueryExpander {
	return &QueryExpander{llm: llm, tele: tele, logger: logger}
}

// Expand returns the ten variants, or blocked=true with no variants. The
// model is called exactly once; failures are not retried.
func (e *QueryExpander) Expand(ctx context.Context, query string) (variants []string, blocked bool, err error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, ErrEmptyQuery
	}

	raw, err := e.llm.Complete(ctx, expandSystemPrompt, "User request: "+query)
	e.tele.RecordUpstream("llm", err)
	if err != nil {
		return nil, false, fmt.Errorf("%w: expanding query: %v", ErrUpstreamUnavailable, err)
	}

	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, sentinelToken) {
		e.logger.Printf("query blocked by content policy: %q", query)
		return nil, true, nil
	}

	parts := strings.Split(raw, variantDelimiter)
	for _, part := range parts {
		v := strings.TrimSpace(part)
		if v == "" {
			continue
		}
		if err := validateVariant(v); err != nil {
			return nil, false, fmt.Errorf("%w: variant %q: %v", ErrMalformedResponse, v, err)
		}
		variants = append(variants, v)
	}
	if len(variants) < variantCount {
		return nil, false, fmt.Errorf("%w: expected %d variants, got %d", ErrMalformedResponse, variantCount, len(variants))
	}
	return variants[:variantCount], false, nil
}

// validateVariant enforces the conjunction-only contract on a single
// variant. GDELT boolean operators are uppercase; lowercase "or"/"not"
// inside a quoted phrase is ordinary prose and must pass.
func validateVariant(v string) error {
	if strings.Contains(v, " OR ") {
		return fmt.Errorf("disjunction not allowed")
	}
	if strings.Contains(v, " NOT ") || strings.HasPrefix(v, "NOT ") {
		return fmt.Errorf("negation not allowed")
	}
	return nil
}
