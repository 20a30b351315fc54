package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prismnews/prism/tools/web_search/models"
)

const searchURL = "https://google.serper.dev/search"

type Search struct {
	apiKey     string
	httpClient *http.Client
}

func NewSearch(apiKey string, timeout time.Duration) Search {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return Search{apiKey: apiKey, httpClient: &http.Client{Timeout: timeout}}
}

func (s Search) Search(ctx context.Context, query string, max int) ([]models.Result, error) {
	// https://serper.dev/ docs
	payload := map[string]any{"q": query, "num": max}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", searchURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper returned status: %d", resp.StatusCode)
	}

	var raw struct {
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
			Source  string `json:"source"`
			Date    string `json:"date"`
		} `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var out []models.Result
	for i, r := range raw.Organic {
		if i >= max {
			break
		}
		out = append(out, models.Result{
			Title:       r.Title,
			URL:         r.Link,
			Snippet:     r.Snippet,
			Outlet:      r.Source,
			PublishedAt: r.Date,
		})
	}
	return out, nil
}
