package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prismnews/prism/config"
	"github.com/prismnews/prism/internal/pipeline"
	"github.com/prismnews/prism/internal/store"
	"github.com/prismnews/prism/internal/telemetry"
	"github.com/prismnews/prism/provider"
	"github.com/prismnews/prism/tools/web_ingest"
	"github.com/prismnews/prism/tools/web_search"
)

// Run wires the pipeline and serves the HTTP API. The LLM provider doubles
// as the process-wide embedding handle: constructed once here, shared
// read-only by every request.
func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.General.Debug
	e.Use(middleware.Recover())

	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	llm, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		return fmt.Errorf("llm provider: %w", err)
	}
	searcher, err := web_search.NewSearcher(web_search.Provider(cfg.Search.Provider), cfg.Search.APIKey, cfg.Search.Timeout)
	if err != nil {
		return fmt.Errorf("search provider: %w", err)
	}
	var extractor pipeline.ContentExtractor
	if cfg.Pipeline.EnrichContent {
		extractor = web_ingest.NewExtractor(cfg.Pipeline.EnrichTimeout)
	}

	var tele *telemetry.Telemetry
	if cfg.Telemetry.Enabled {
		tele = telemetry.New(prometheus.DefaultRegisterer)
	}
	orchLogger := log.New(log.Writer(), "[ORCH] ", log.LstdFlags)
	orch := pipeline.NewOrchestrator(cfg.Pipeline, llm, llm, searcher, extractor, cfg.Search.Retries, tele, orchLogger)

	var history *store.History
	if cfg.Storage.Redis.Enabled() {
		history, err = store.NewHistory(context.Background(), cfg.Storage.Redis)
		if err != nil {
			return fmt.Errorf("history store: %w", err)
		}
	}

	h := &DetectHandler{Detector: orch, History: history, Logger: baseLogger, Timeout: cfg.General.MaxProcessingTime}
	api := e.Group("/api")
	api.POST("/detect", h.Detect)
	api.GET("/recent", h.Recent)

	return e.Start(cfg.Server.Address)
}
