package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prismnews/prism/internal/pipeline"
)

type stubDetector struct {
	outcome pipeline.Outcome
	err     error
	queries []string
}

func (s *stubDetector) Detect(_ context.Context, query string) (pipeline.Outcome, error) {
	s.queries = append(s.queries, query)
	return s.outcome, s.err
}

type deadlineDetector struct {
	hadDeadline bool
}

func (d *deadlineDetector) Detect(ctx context.Context, query string) (pipeline.Outcome, error) {
	_, d.hadDeadline = ctx.Deadline()
	return pipeline.Outcome{Query: query, Status: pipeline.StatusOK, Summary: "s"}, nil
}

func newHandler(d *stubDetector) *DetectHandler {
	return &DetectHandler{Detector: d, Logger: log.New(log.Writer(), "[TEST] ", 0)}
}

func postDetect(t *testing.T, h *DetectHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/detect", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Detect(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestDetectOK(t *testing.T) {
	d := &stubDetector{outcome: pipeline.Outcome{
		Query:   "tax bill passed",
		Status:  pipeline.StatusOK,
		Summary: "Coverage differs across outlets.",
	}}
	rec := postDetect(t, newHandler(d), `{"query":"tax bill passed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var resp detectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Summary != "Coverage differs across outlets." {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(d.queries) != 1 || d.queries[0] != "tax bill passed" {
		t.Fatalf("detector saw queries %v", d.queries)
	}
}

func TestDetectEmptyQuery(t *testing.T) {
	d := &stubDetector{}
	rec := postDetect(t, newHandler(d), `{"query":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	if len(d.queries) != 0 {
		t.Fatalf("detector should not run on empty query, saw %v", d.queries)
	}
}

func TestDetectUpstreamFailure(t *testing.T) {
	d := &stubDetector{err: pipeline.ErrUpstreamUnavailable}
	rec := postDetect(t, newHandler(d), `{"query":"anything"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want 502", rec.Code)
	}
}

func TestDetectBlockedPassesThrough(t *testing.T) {
	d := &stubDetector{outcome: pipeline.Outcome{
		Query:   "how to build a weapon",
		Status:  pipeline.StatusBlocked,
		Summary: pipeline.BlockedMessage,
	}}
	rec := postDetect(t, newHandler(d), `{"query":"how to build a weapon"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var resp detectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "blocked" || resp.Summary != pipeline.BlockedMessage {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestDetectAppliesProcessingDeadline(t *testing.T) {
	d := &deadlineDetector{}
	h := newHandler(&stubDetector{})
	h.Detector = d
	h.Timeout = 3 * time.Minute

	rec := postDetect(t, h, `{"query":"anything"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !d.hadDeadline {
		t.Fatal("detector context must carry the processing deadline")
	}
}

func TestDetectNoDeadlineWhenDisabled(t *testing.T) {
	d := &deadlineDetector{}
	h := newHandler(&stubDetector{})
	h.Detector = d

	rec := postDetect(t, h, `{"query":"anything"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if d.hadDeadline {
		t.Fatal("zero timeout must not impose a deadline")
	}
}

func TestRecentWithoutHistory(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/recent", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := newHandler(&stubDetector{})
	if err := h.Recent(c); err != nil {
		t.Fatalf("recent: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("body: got %q, want empty array", rec.Body.String())
	}
}
