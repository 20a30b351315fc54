package web_ingest

import (
	"context"
	"net/http"
	nurl "net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const maxExtractChars = 4000

// Extractor pulls readable article text from a page. It is best-effort:
// callers should treat an error as "no extra content", never as a request
// failure.
type Extractor struct {
	httpClient *http.Client
}

func NewExtractor(timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Extractor{httpClient: &http.Client{Timeout: timeout}}
}

// Extract fetches the page and returns its readable text, truncated to a
// bounded length suitable for prompt inclusion.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (string, error) {
	parsed, err := nurl.Parse(rawURL)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; prism/1.0)")
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(article.TextContent)
	if len(text) > maxExtractChars {
		text = text[:maxExtractChars]
	}
	return text, nil
}
