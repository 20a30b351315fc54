package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func rankerAnalysis() BiasAnalysis {
	return ensureUnbiased(BiasAnalysis{
		Categories: map[string][]string{
			"partisan": {"spin.com"},
			"unbiased": {"wire.com"},
		},
	}, testLogger())
}

func rankerArticles() []Article {
	return []Article{
		{ID: "a", Outlet: "wire.com", Title: "somewhat related coverage", FetchOrder: 0},
		{ID: "b", Outlet: "wire.com", Title: "directly on point", FetchOrder: 1},
		{ID: "c", Outlet: "wire.com", Title: "off: unrelated celebrity story", FetchOrder: 2},
		{ID: "d", Outlet: "spin.com", Title: "mostly relevant take", FetchOrder: 3},
	}
}

func TestRankOrdersByDescendingScore(t *testing.T) {
	r := NewRelevanceRanker(&fakeEmbedder{}, 5, 0.1, nil, testLogger())

	buckets, err := r.Rank(context.Background(), "query", rankerArticles(), rankerAnalysis())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	unbiased := buckets[1]
	if unbiased.Category != UnbiasedCategory {
		t.Fatalf("expected unbiased bucket last, got %q", unbiased.Category)
	}
	if len(unbiased.Articles) != 2 {
		t.Fatalf("expected 2 unbiased articles above threshold, got %d", len(unbiased.Articles))
	}
	if unbiased.Articles[0].Article.ID != "b" || unbiased.Articles[1].Article.ID != "a" {
		t.Fatalf("wrong ordering: %q then %q", unbiased.Articles[0].Article.ID, unbiased.Articles[1].Article.ID)
	}
}

func TestRankExcludesBelowThreshold(t *testing.T) {
	r := NewRelevanceRanker(&fakeEmbedder{}, 5, 0.5, nil, testLogger())

	buckets, err := r.Rank(context.Background(), "query", rankerArticles(), rankerAnalysis())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bucket := range buckets {
		for _, sa := range bucket.Articles {
			if sa.Score < 0.5 {
				t.Fatalf("article %q scored %f below threshold but kept", sa.Article.ID, sa.Score)
			}
			if sa.Article.ID == "c" {
				t.Fatal("irrelevant article must be dropped")
			}
		}
	}
}

func TestRankTruncatesToTopN(t *testing.T) {
	articles := []Article{
		{ID: "a", Outlet: "wire.com", Title: "first", FetchOrder: 0},
		{ID: "b", Outlet: "wire.com", Title: "second", FetchOrder: 1},
		{ID: "c", Outlet: "wire.com", Title: "third", FetchOrder: 2},
	}
	r := NewRelevanceRanker(&fakeEmbedder{}, 2, 0.1, nil, testLogger())

	buckets, err := r.Rank(context.Background(), "query", articles, rankerAnalysis())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(buckets[1].Articles); got != 2 {
		t.Fatalf("expected bucket truncated to 2, got %d", got)
	}
}

func TestRankTiesBreakByFetchOrder(t *testing.T) {
	// Identical titles embed identically: a pure tie.
	articles := []Article{
		{ID: "later", Outlet: "wire.com", Title: "same headline", FetchOrder: 5},
		{ID: "earlier", Outlet: "wire.com", Title: "same headline", FetchOrder: 6},
	}
	r := NewRelevanceRanker(&fakeEmbedder{}, 5, 0.1, nil, testLogger())

	buckets, err := r.Rank(context.Background(), "query", articles, rankerAnalysis())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := buckets[1].Articles
	if len(got) != 2 || got[0].Article.ID != "later" || got[1].Article.ID != "earlier" {
		t.Fatalf("tie must preserve fetch order, got %v", got)
	}
}

func TestRankIsDeterministic(t *testing.T) {
	r := NewRelevanceRanker(&fakeEmbedder{}, 5, 0.1, nil, testLogger())

	first, err := r.Rank(context.Background(), "query", rankerArticles(), rankerAnalysis())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Rank(context.Background(), "query", rankerArticles(), rankerAnalysis())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("ranking not deterministic:\n%v\n%v", first, second)
	}
}

func TestRankSkipsUncategorizedOutlets(t *testing.T) {
	articles := append(rankerArticles(), Article{ID: "x", Outlet: "unknown.com", Title: "stray", FetchOrder: 9})
	r := NewRelevanceRanker(&fakeEmbedder{}, 5, 0.1, nil, testLogger())

	buckets, err := r.Rank(context.Background(), "query", articles, rankerAnalysis())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bucket := range buckets {
		for _, sa := range bucket.Articles {
			if sa.Article.ID == "x" {
				t.Fatal("uncategorized outlet must not appear in any bucket")
			}
		}
	}
}

func TestRankWrapsEmbedderFailure(t *testing.T) {
	r := NewRelevanceRanker(&fakeEmbedder{err: errors.New("down")}, 5, 0.1, nil, testLogger())
	_, err := r.Rank(context.Background(), "query", rankerArticles(), rankerAnalysis())
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); got != 1 {
		t.Fatalf("identical vectors should score 1, got %f", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Fatalf("orthogonal vectors should score 0, got %f", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{-1, 0}); got != -1 {
		t.Fatalf("opposite vectors should score -1, got %f", got)
	}
	if got := cosineSimilarity([]float32{0, 0}, []float32{1, 0}); got != 0 {
		t.Fatalf("zero vector should score 0, got %f", got)
	}
	if got := cosineSimilarity([]float32{1}, []float32{1, 0}); got != 0 {
		t.Fatalf("mismatched dimensions should score 0, got %f", got)
	}
}
