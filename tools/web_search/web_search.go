package web_search

import (
	"context"
	"errors"
	"time"

	"github.com/prismnews/prism/tools/web_search/gdelt"
	"github.com/prismnews/prism/tools/web_search/models"
	"github.com/prismnews/prism/tools/web_search/serper"
)

// Searcher executes one search expression against an external index.
// Expressions may carry provider-specific qualifiers (sourcecountry,
// startdatetime, ...) which implementations are free to interpret or ignore.
type Searcher interface {
	Search(ctx context.Context, query string, max int) ([]models.Result, error)
}

type Provider string

const (
	GDELTProvider  Provider = "gdelt"
	SerperProvider Provider = "serper"
)

var ErrUnsupportedProvider = errors.New("unsupported search provider")

func NewSearcher(provider Provider, apiKey string, timeout time.Duration) (Searcher, error) {
	switch provider {
	case GDELTProvider:
		return gdelt.NewSearch(timeout), nil
	case SerperProvider:
		return serper.NewSearch(apiKey, timeout), nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
