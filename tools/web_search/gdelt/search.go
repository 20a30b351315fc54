package gdelt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prismnews/prism/tools/web_search/models"
)

const docAPIURL = "https://api.gdeltproject.org/api/v2/doc/doc"

// Search queries the GDELT 2.0 DOC API. Query expressions may embed extra
// parameters after '&' (sourcecountry, sourceregion, startdatetime,
// enddatetime); anything before them is the main query term.
type Search struct {
	httpClient *http.Client
}

func NewSearch(timeout time.Duration) Search {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return Search{httpClient: &http.Client{Timeout: timeout}}
}

func (s Search) Search(ctx context.Context, query string, max int) ([]models.Result, error) {
	// https://blog.gdeltproject.org/gdelt-doc-2-0-api-debuts/
	params := url.Values{}
	params.Set("format", "json")
	params.Set("maxrecords", fmt.Sprintf("%d", max))
	for key, value := range splitQueryParams(query) {
		params.Set(key, value)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", docAPIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gdelt returned status: %d", resp.StatusCode)
	}

	var raw struct {
		Articles []struct {
			URL      string `json:"url"`
			Title    string `json:"title"`
			Domain   string `json:"domain"`
			SeenDate string `json:"seendate"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	out := make([]models.Result, 0, len(raw.Articles))
	for i, a := range raw.Articles {
		if i >= max {
			break
		}
		out = append(out, models.Result{
			Title:       a.Title,
			URL:         a.URL,
			Outlet:      a.Domain,
			PublishedAt: formatSeenDate(a.SeenDate),
		})
	}
	return out, nil
}

// splitQueryParams separates a structured expression like
//
//	query="tsunami" AND "Japan"&sourcecountry=JP&startdatetime=20250903000000
//
// into its API parameters. A bare expression without the query= prefix is
// treated as the main query.
func splitQueryParams(expr string) map[string]string {
	params := map[string]string{}
	for _, part := range strings.Split(expr, "&") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if key, value, ok := strings.Cut(part, "="); ok && isKnownParam(key) {
			params[key] = value
			continue
		}
		// Main term without a query= prefix, or a term containing '='
		// inside quotes. First occurrence wins.
		if _, ok := params["query"]; !ok {
			params["query"] = strings.TrimPrefix(part, "query=")
		}
	}
	return params
}

func isKnownParam(key string) bool {
	switch strings.ToLower(key) {
	case "query", "sourcecountry", "sourceregion", "sourcelang", "startdatetime", "enddatetime":
		return true
	}
	return false
}

// formatSeenDate converts GDELT's YYYYMMDDTHHMMSSZ stamps to RFC 3339;
// unparseable stamps pass through untouched.
func formatSeenDate(stamp string) string {
	if stamp == "" {
		return ""
	}
	t, err := time.Parse("20060102T150405Z", stamp)
	if err != nil {
		return stamp
	}
	return t.UTC().Format(time.RFC3339)
}
