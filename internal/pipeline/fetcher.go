package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/prismnews/prism/internal/helpers"
	"github.com/prismnews/prism/internal/telemetry"
	"github.com/prismnews/prism/tools/web_search"
	"github.com/prismnews/prism/tools/web_search/models"
)

// ArticleFetcher fans the variant batch out to the search provider and
// merges the results into one deduplicated, capped corpus. A failed variant
// contributes nothing; it never aborts the request.
type ArticleFetcher struct {
	searcher      web_search.Searcher
	maxArticles   int
	whitelistOnly bool
	retries       int
	tele          *telemetry.Telemetry
	logger        *log.Logger
}

func NewArticleFetcher(searcher web_search.Searcher, maxArticles int, whitelistOnly bool, retries int, tele *telemetry.Telemetry, logger *log.Logger) *ArticleFetcher {
	if maxArticles <= 0 {
		maxArticles = 250
	}
	if retries < 0 {
		retries = 0
	}
	return &ArticleFetcher{
		searcher:      searcher,
		maxArticles:   maxArticles,
		whitelistOnly: whitelistOnly,
		retries:       retries,
		tele:          tele,
		logger:        logger,
	}
}

// Fetch runs one search per variant concurrently and merges in variant-index
// order, so the corpus is stable regardless of completion order. Returns an
// empty slice (not an error) when every variant comes back empty.
func (f *ArticleFetcher) Fetch(ctx context.Context, variants []string) ([]Article, error) {
	perVariant := make([][]models.Result, len(variants))

	g, gctx := errgroup.WithContext(ctx)
	for i, variant := range variants {
		i, variant := i, variant
		g.Go(func() error {
			backoff := retry.WithMaxRetries(uint64(f.retries), retry.NewExponential(300*time.Millisecond))
			err := retry.Do(gctx, backoff, func(ctx context.Context) error {
				results, err := f.searcher.Search(ctx, variant, f.maxArticles)
				if err != nil {
					return retry.RetryableError(err)
				}
				perVariant[i] = results
				return nil
			})
			f.tele.RecordUpstream("search", err)
			if err != nil {
				// Absorbed: one failed variant among ten is not fatal.
				f.logger.Printf("variant %d search failed: %v", i, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var articles []Article
	for idx, results := range perVariant {
		for _, r := range results {
			if len(articles) >= f.maxArticles {
				break
			}
			if r.URL == "" {
				continue
			}
			outlet := r.Outlet
			if outlet == "" {
				outlet = helpers.OutletDomain(r.URL)
			}
			id, err := helpers.CanonicalURL(r.URL)
			if err != nil {
				// Ambiguous identity: fall back to raw URL plus outlet.
				id = r.URL + "|" + outlet
			}
			if _, dup := seen[id]; dup {
				continue
			}
			if f.whitelistOnly && !IsWhitelisted(helpers.OutletDomain(r.URL)) {
				continue
			}
			seen[id] = struct{}{}
			articles = append(articles, Article{
				ID:           id,
				URL:          r.URL,
				Outlet:       outlet,
				Title:        r.Title,
				Snippet:      r.Snippet,
				PublishedAt:  r.PublishedAt,
				VariantIndex: idx,
				FetchOrder:   len(articles),
			})
		}
	}

	f.logger.Printf("fetched %d unique articles from %d variants", len(articles), len(variants))
	return articles, nil
}
