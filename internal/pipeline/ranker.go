package pipeline

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/prismnews/prism/internal/telemetry"
)

// RelevanceRanker scores each categorized article against the query with the
// shared embedding handle and keeps the top slice per category. Local and
// deterministic: identical inputs produce identical buckets.
type RelevanceRanker struct {
	embedder      EmbeddingProvider
	topN          int
	minSimilarity float64
	tele          *telemetry.Telemetry
	logger        *log.Logger
}

func NewRelevanceRanker(embedder EmbeddingProvider, topN int, minSimilarity float64, tele *telemetry.Telemetry, logger *log.Logger) *RelevanceRanker {
	if topN <= 0 {
		topN = 5
	}
	return &RelevanceRanker{
		embedder:      embedder,
		topN:          topN,
		minSimilarity: minSimilarity,
		tele:          tele,
		logger:        logger,
	}
}

// Rank embeds the query and every categorized article title once, then
// builds one bucket per category in the analysis' label order. Buckets may
// end up empty when everything falls below the similarity threshold.
func (r *RelevanceRanker) Rank(ctx context.Context, query string, articles []Article, analysis BiasAnalysis) ([]CategoryBucket, error) {
	byCategory := groupByCategory(articles, analysis)

	// One embedding call for the query plus every distinct categorized
	// article, in fetch order.
	var kept []Article
	for _, label := range analysis.Labels {
		kept = append(kept, byCategory[label]...)
	}
	texts := make([]string, 0, len(kept)+1)
	texts = append(texts, query)
	for _, a := range kept {
		texts = append(texts, a.Title)
	}

	vecs, err := r.embedder.CreateEmbedding(ctx, texts)
	r.tele.RecordUpstream("embed", err)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding: %v", ErrUpstreamUnavailable, err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", ErrMalformedResponse, len(texts), len(vecs))
	}

	scores := make(map[string]float64, len(kept))
	for i, a := range kept {
		scores[a.ID] = cosineSimilarity(vecs[0], vecs[i+1])
	}

	buckets := make([]CategoryBucket, 0, len(analysis.Labels))
	for _, label := range analysis.Labels {
		buckets = append(buckets, r.rankCategory(label, byCategory[label], scores))
	}
	return buckets, nil
}

func (r *RelevanceRanker) rankCategory(label string, articles []Article, scores map[string]float64) CategoryBucket {
	scored := make([]ScoredArticle, 0, len(articles))
	for _, a := range articles {
		score := scores[a.ID]
		if score < r.minSimilarity {
			continue
		}
		scored = append(scored, ScoredArticle{Article: a, Score: score})
	}
	// Input is in fetch order; the stable sort keeps that order for ties.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > r.topN {
		scored = scored[:r.topN]
	}
	return CategoryBucket{Category: label, Articles: scored}
}

// groupByCategory assigns each article to its outlet's category. An outlet
// claimed by several categories goes to the first one in label order.
func groupByCategory(articles []Article, analysis BiasAnalysis) map[string][]Article {
	outletCategory := make(map[string]string)
	for _, label := range analysis.Labels {
		for _, outlet := range analysis.Categories[label] {
			if _, ok := outletCategory[outlet]; !ok {
				outletCategory[outlet] = label
			}
		}
	}

	grouped := make(map[string][]Article, len(analysis.Labels))
	for _, a := range articles {
		label, ok := outletCategory[a.Outlet]
		if !ok {
			continue
		}
		grouped[label] = append(grouped[label], a)
	}
	return grouped
}

// cosineSimilarity returns the cosine of the angle between two vectors in
// [-1,1], or 0 when either vector has zero magnitude.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
