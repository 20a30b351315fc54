package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func summaryBuckets() []CategoryBucket {
	return []CategoryBucket{
		{Category: "partisan", Articles: []ScoredArticle{
			{Article: Article{Title: "Spin piece", Outlet: "spin.com", URL: "https://spin.com/a", Snippet: "angle"}, Score: 0.8},
		}},
		{Category: "unbiased", Articles: []ScoredArticle{
			{Article: Article{Title: "Wire report", Outlet: "wire.com", URL: "https://wire.com/a", Snippet: "facts"}, Score: 0.9},
		}},
	}
}

func TestSummarizeLabelsArticlesByCategory(t *testing.T) {
	llm := &fakeLLM{responses: []string{"SUMMARY text\n\nSOURCES BY CATEGORY\n...\n\nREASONING: because"}}
	s := NewSummarizer(llm, nil, nil, testLogger())

	summary, err := s.Summarize(context.Background(), "what happened?", summaryBuckets(), "because")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary == "" {
		t.Fatal("expected non-empty summary")
	}
	prompt := llm.prompts[0]
	if !strings.Contains(prompt, "===== ARTICLES FROM PARTISAN CATEGORY =====") {
		t.Fatalf("partisan bucket not labeled in prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "===== ARTICLES FROM UNBIASED CATEGORY =====") {
		t.Fatalf("unbiased bucket not labeled in prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "https://wire.com/a") {
		t.Fatal("article URL missing from prompt")
	}
	if !strings.Contains(prompt, "because") {
		t.Fatal("bias reasoning missing from prompt")
	}
}

func TestSummarizeContractDemandsPerCategoryNumbering(t *testing.T) {
	llm := &fakeLLM{responses: []string{"ok"}}
	s := NewSummarizer(llm, nil, nil, testLogger())

	if _, err := s.Summarize(context.Background(), "q", summaryBuckets(), "r"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	system := llm.systems[0]
	if !strings.Contains(system, "SOURCES BY CATEGORY") {
		t.Fatal("system prompt missing SOURCES BY CATEGORY section")
	}
	if !strings.Contains(system, "starting from 1 within EACH category") {
		t.Fatal("system prompt missing numbering-restart rule")
	}
	if !strings.Contains(system, `"REASONING:"`) {
		t.Fatal("system prompt missing REASONING section instruction")
	}
}

func TestSummarizeOnlyTrimsModelOutput(t *testing.T) {
	llm := &fakeLLM{responses: []string{"\n  the exact answer  \n"}}
	s := NewSummarizer(llm, nil, nil, testLogger())

	summary, err := s.Summarize(context.Background(), "q", summaryBuckets(), "r")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "the exact answer" {
		t.Fatalf("summary must be the trimmed model text, got %q", summary)
	}
}

func TestSummarizeEmptyBucketsSkipLLM(t *testing.T) {
	llm := &fakeLLM{}
	s := NewSummarizer(llm, nil, nil, testLogger())

	buckets := []CategoryBucket{{Category: "unbiased"}, {Category: "partisan"}}
	summary, err := s.Summarize(context.Background(), "q", buckets, "r")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != NoRankedMessage {
		t.Fatalf("expected fixed no-articles message, got %q", summary)
	}
	if llm.calls != 0 {
		t.Fatalf("no model call expected for empty buckets, got %d", llm.calls)
	}
}

func TestSummarizeRejectsEmptyModelOutput(t *testing.T) {
	llm := &fakeLLM{responses: []string{"   "}}
	s := NewSummarizer(llm, nil, nil, testLogger())

	_, err := s.Summarize(context.Background(), "q", summaryBuckets(), "r")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

type fakeExtractor struct{ calls int }

func (f *fakeExtractor) Extract(_ context.Context, _ string) (string, error) {
	f.calls++
	return "extracted body text", nil
}

func TestSummarizeEnrichesEmptySnippets(t *testing.T) {
	llm := &fakeLLM{responses: []string{"ok"}}
	extractor := &fakeExtractor{}
	s := NewSummarizer(llm, extractor, nil, testLogger())

	buckets := []CategoryBucket{{Category: "unbiased", Articles: []ScoredArticle{
		{Article: Article{Title: "No snippet", URL: "https://wire.com/b"}, Score: 0.9},
	}}}
	if _, err := s.Summarize(context.Background(), "q", buckets, "r"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if extractor.calls != 1 {
		t.Fatalf("expected one extraction for the empty snippet, got %d", extractor.calls)
	}
	if !strings.Contains(llm.prompts[0], "extracted body text") {
		t.Fatal("extracted content missing from prompt")
	}
}
