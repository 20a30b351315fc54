package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/prismnews/prism/tools/web_search/models"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// fakeLLM replays scripted completions and records every prompt it receives.
type fakeLLM struct {
	mu        sync.Mutex
	responses []string
	calls     int
	systems   []string
	prompts   []string
	err       error
}

func (f *fakeLLM) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.systems = append(f.systems, systemPrompt)
	f.prompts = append(f.prompts, userPrompt)
	if f.calls >= len(f.responses) {
		return "", fmt.Errorf("fakeLLM: no scripted response for call %d", f.calls)
	}
	resp := f.responses[f.calls]
	f.calls++
	return resp, nil
}

// fakeEmbedder derives a deterministic vector from each text so similarity
// ordering is controlled by test data. Texts containing "relevant" score
// close to the query axis; a leading "off:" pushes the vector away.
type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeEmbedder) CreateEmbedding(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.calls++
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vecs[i] = embedText(text)
	}
	return vecs, nil
}

// embedText maps text onto a 2d unit circle: angle 0 for the query and for
// strongly relevant texts, growing with the "off" weight otherwise.
func embedText(text string) []float32 {
	switch {
	case strings.HasPrefix(text, "off:"):
		return []float32{0, 1}
	case strings.Contains(text, "somewhat"):
		return []float32{0.7, 0.7}
	case strings.Contains(text, "mostly"):
		return []float32{0.9, 0.4359}
	default:
		return []float32{1, 0}
	}
}

// fakeSearcher returns scripted results keyed by query expression.
type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]models.Result
	errs    map[string]error
	calls   int
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) ([]models.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	return f.results[query], nil
}

// tenVariants builds a valid expansion response with distinct variants.
func tenVariants() []string {
	variants := make([]string, 10)
	for i := range variants {
		variants[i] = fmt.Sprintf(`query="topic%d" AND "news"`, i)
	}
	return variants
}

func joinVariants(variants []string) string {
	return strings.Join(variants, " ||| ")
}
