package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prismnews/prism/internal/pipeline"
	"github.com/prismnews/prism/internal/store"
)

// Detector runs one detection pipeline pass.
type Detector interface {
	Detect(ctx context.Context, query string) (pipeline.Outcome, error)
}

// DetectHandler serves the detection API.
type DetectHandler struct {
	Detector Detector
	History  *store.History // nil when redis is not configured
	Logger   *log.Logger
	Timeout  time.Duration // per-request processing deadline, 0 disables
}

type detectRequest struct {
	Query string `json:"query"`
}

type detectResponse struct {
	Summary string `json:"summary"`
	Status  string `json:"status"`
	Query   string `json:"query"`
}

// Detect handles POST /api/detect.
func (h *DetectHandler) Detect(c echo.Context) error {
	var req detectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "please provide a news statement to verify")
	}

	ctx := c.Request().Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	outcome, err := h.Detector.Detect(ctx, req.Query)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrEmptyQuery):
			return echo.NewHTTPError(http.StatusBadRequest, "please provide a news statement to verify")
		case errors.Is(err, pipeline.ErrUpstreamUnavailable), errors.Is(err, pipeline.ErrMalformedResponse):
			return echo.NewHTTPError(http.StatusBadGateway, "an upstream provider failed; please retry")
		default:
			return err
		}
	}

	h.record(c.Request().Context(), outcome)
	return c.JSON(http.StatusOK, detectResponse{
		Summary: outcome.Summary,
		Status:  string(outcome.Status),
		Query:   outcome.Query,
	})
}

// Recent handles GET /api/recent.
func (h *DetectHandler) Recent(c echo.Context) error {
	if h.History == nil {
		return c.JSON(http.StatusOK, []store.Record{})
	}
	n, _ := strconv.Atoi(c.QueryParam("n"))
	records, err := h.History.Recent(c.Request().Context(), n)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "history unavailable")
	}
	return c.JSON(http.StatusOK, records)
}

func (h *DetectHandler) record(ctx context.Context, outcome pipeline.Outcome) {
	if h.History == nil {
		return
	}
	rec := store.Record{
		ID:        outcome.ID,
		Query:     outcome.Query,
		Status:    string(outcome.Status),
		ElapsedMS: outcome.Elapsed.Milliseconds(),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.History.Append(ctx, rec); err != nil {
		h.Logger.Printf("history append failed: %v", err)
	}
}
