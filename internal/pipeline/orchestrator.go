package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/prismnews/prism/config"
	"github.com/prismnews/prism/internal/telemetry"
	"github.com/prismnews/prism/tools/web_search"
)

// Orchestrator sequences the pipeline stages for one request:
// Received -> Expanding -> (Blocked | Fetching) -> Categorizing -> Ranking
// -> Summarizing -> Done. It owns the sensitive-query short-circuit and the
// no-results fallback and produces exactly one terminal outcome per request.
type Orchestrator struct {
	expander    *QueryExpander
	fetcher     *ArticleFetcher
	categorizer *BiasCategorizer
	ranker      *RelevanceRanker
	summarizer  *Summarizer
	tele        *telemetry.Telemetry
	logger      *log.Logger
}

// NewOrchestrator wires the stages from configuration. The embedding handle
// must be the process-wide instance; it is shared read-only by every request.
func NewOrchestrator(cfg config.PipelineConfig, llm CompletionProvider, embedder EmbeddingProvider, searcher web_search.Searcher, extractor ContentExtractor, searchRetries int, tele *telemetry.Telemetry, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		expander:    NewQueryExpander(llm, tele, logger),
		fetcher:     NewArticleFetcher(searcher, cfg.MaxArticlesPerQuery, cfg.WhitelistOnly, searchRetries, tele, logger),
		categorizer: NewBiasCategorizer(llm, tele, logger),
		ranker:      NewRelevanceRanker(embedder, cfg.TopNPerCategory, cfg.MinSimilarityThreshold, tele, logger),
		summarizer:  NewSummarizer(llm, extractor, tele, logger),
		tele:        tele,
		logger:      logger,
	}
}

// Detect runs the full pipeline for one query. The three terminal outcomes
// (ok, blocked, no_results) come back as an Outcome; unrecoverable stage
// failures come back as an error and are never converted into a partial
// summary.
func (o *Orchestrator) Detect(ctx context.Context, query string) (Outcome, error) {
	id := uuid.NewString()
	start := time.Now()
	o.logger.Printf("[%s] detecting: %q", id, query)

	outcome, err := o.run(ctx, query)
	if err != nil {
		o.tele.RecordOutcome("error")
		return Outcome{}, fmt.Errorf("request %s: %w", id, err)
	}
	outcome.ID = id
	outcome.Query = query
	outcome.Elapsed = time.Since(start)
	o.tele.RecordOutcome(string(outcome.Status))
	o.logger.Printf("[%s] done: %s in %s", id, outcome.Status, outcome.Elapsed)
	return outcome, nil
}

func (o *Orchestrator) run(ctx context.Context, query string) (Outcome, error) {
	stageStart := time.Now()
	variants, blocked, err := o.expander.Expand(ctx, query)
	o.tele.RecordStage("expand", time.Since(stageStart))
	if err != nil {
		return Outcome{}, err
	}
	if blocked {
		return Outcome{Status: StatusBlocked, Summary: BlockedMessage}, nil
	}

	stageStart = time.Now()
	articles, err := o.fetcher.Fetch(ctx, variants)
	o.tele.RecordStage("fetch", time.Since(stageStart))
	if err != nil {
		return Outcome{}, err
	}
	if len(articles) == 0 {
		return Outcome{Status: StatusNoResults, Summary: NoResultsMessage}, nil
	}

	stageStart = time.Now()
	analysis, err := o.categorizer.Categorize(ctx, query, articles)
	o.tele.RecordStage("categorize", time.Since(stageStart))
	if err != nil {
		return Outcome{}, err
	}

	stageStart = time.Now()
	buckets, err := o.ranker.Rank(ctx, query, articles, analysis)
	o.tele.RecordStage("rank", time.Since(stageStart))
	if err != nil {
		return Outcome{}, err
	}

	stageStart = time.Now()
	summary, err := o.summarizer.Summarize(ctx, query, buckets, analysis.Reasoning)
	o.tele.RecordStage("summarize", time.Since(stageStart))
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Status: StatusOK, Summary: summary}, nil
}
