package pipeline

import (
	"context"
	"errors"
	"time"
)

// Status is the terminal outcome class of one detection request.
type Status string

const (
	StatusOK        Status = "ok"
	StatusBlocked   Status = "blocked"
	StatusNoResults Status = "no_results"
)

const (
	// BlockedMessage is returned verbatim for policy-flagged queries.
	BlockedMessage = "I cannot respond to this query."
	// NoResultsMessage is returned when all query variants come back empty.
	NoResultsMessage = "No articles found on this topic."
	// NoRankedMessage is returned when retrieval succeeded but nothing
	// survived relevance thresholding.
	NoRankedMessage = "No articles available for summarization."

	// UnbiasedCategory is the one category label every bias analysis must
	// contain, exactly in this lowercase form.
	UnbiasedCategory = "unbiased"

	// sentinelToken is emitted by the expansion model instead of variants
	// when the query trips the sensitive-topic policy. Matched case-sensitively.
	sentinelToken = "INAPPROPRIATE_QUERY_DETECTED"

	variantDelimiter = "|||"
	variantCount     = 10
)

var (
	// ErrEmptyQuery rejects requests with no usable query text.
	ErrEmptyQuery = errors.New("empty query")

	// ErrMalformedResponse means the reasoning model returned text that
	// cannot be parsed into the expected structure. Fatal for the request.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrUpstreamUnavailable means an external collaborator failed or timed
	// out. Fatal for the request; never masked as no_results.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// CompletionProvider is the reasoning-model capability: one stateless
// system+user round trip returning untrusted text.
type CompletionProvider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// EmbeddingProvider is the embedding capability. The handle is constructed
// once at process start and shared read-only across concurrent requests.
type EmbeddingProvider interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// ContentExtractor optionally pulls readable page text for articles whose
// search snippet is empty. Best-effort; errors are absorbed.
type ContentExtractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Article is one deduplicated search record. Immutable once built by the
// fetcher; identity is the canonical URL.
type Article struct {
	ID           string // canonical URL (canonical URL + outlet when canonicalization fails)
	URL          string
	Outlet       string
	Title        string
	Snippet      string
	PublishedAt  string
	VariantIndex int // lowest-indexed variant that surfaced it
	FetchOrder   int // position in the merged corpus; ranking tie-break
}

// BiasAnalysis maps outlets to bias categories, with the model's aggregate
// reasoning narrative retained verbatim.
type BiasAnalysis struct {
	Labels       []string            // category labels in deterministic order, "unbiased" last
	Categories   map[string][]string // label -> outlet names
	Descriptions map[string]string
	Reasoning    string
}

// ScoredArticle pairs an article with its relevance to the query.
type ScoredArticle struct {
	Article Article
	Score   float64
}

// CategoryBucket is one category's articles ranked by descending relevance,
// truncated to the configured maximum. Buckets may legitimately be empty.
type CategoryBucket struct {
	Category string
	Articles []ScoredArticle
}

// Outcome is the single result of one pipeline run.
type Outcome struct {
	ID      string        `json:"id"`
	Query   string        `json:"query"`
	Status  Status        `json:"status"`
	Summary string        `json:"summary"`
	Elapsed time.Duration `json:"elapsed"`
}
