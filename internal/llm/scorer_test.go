package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestScorer(gen Generator) *RelevanceScorer {
	return NewRelevanceScorer(gen, 0, 5*time.Second, nil)
}

func TestScoreRelevanceValidResponse(t *testing.T) {
	gen := &StubGenerator{Response: `{"score": 8, "reasoning": "directly implements the feature", "confidence": "high"}`}
	scorer := newTestScorer(gen)

	rel := scorer.ScoreRelevance(context.Background(), "Installation", "how to install", "setup.py", "from setuptools import setup")

	if rel.Score != 8 {
		t.Errorf("expected score 8, got %d", rel.Score)
	}
	if rel.Confidence != ConfidenceHigh {
		t.Errorf("expected high confidence, got %q", rel.Confidence)
	}
	if gen.Calls() != 1 {
		t.Errorf("expected 1 generator call, got %d", gen.Calls())
	}
}

func TestScoreRelevanceFencedResponse(t *testing.T) {
	gen := &StubGenerator{Response: "Here is my assessment:\n```json\n{\"score\": 5, \"reasoning\": \"partial overlap\", \"confidence\": \"medium\"}\n```\n"}
	scorer := newTestScorer(gen)

	rel := scorer.ScoreRelevance(context.Background(), "API", "endpoints", "api/routes.go", "package api")

	if rel.Score != 5 || rel.Confidence != ConfidenceMedium {
		t.Errorf("fenced JSON should parse, got %+v", rel)
	}
}

func TestScoreRelevanceFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"generator error", "", errors.New("network down")},
		{"not json", "I think this file is quite relevant.", nil},
		{"score out of range", `{"score": 42, "reasoning": "x", "confidence": "high"}`, nil},
		{"score not integer", `{"score": 7.5, "reasoning": "x", "confidence": "high"}`, nil},
		{"missing score", `{"reasoning": "x", "confidence": "high"}`, nil},
		{"bad confidence", `{"score": 7, "reasoning": "x", "confidence": "certain"}`, nil},
		{"empty object", `{}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &StubGenerator{Response: tt.response, Err: tt.err}
			scorer := newTestScorer(gen)

			rel := scorer.ScoreRelevance(context.Background(), "h", "c", "p", "f")

			if rel.Score != 0 {
				t.Errorf("expected safe zero score, got %d", rel.Score)
			}
			if rel.Confidence != ConfidenceLow {
				t.Errorf("expected low confidence, got %q", rel.Confidence)
			}
			if rel.Reasoning == "" {
				t.Error("fallback should carry a cause in reasoning")
			}
		})
	}
}

func TestScoreRelevanceTruncatesInputs(t *testing.T) {
	var captured string
	gen := generatorFunc(func(_ context.Context, prompt string, _ float64) (string, error) {
		captured = prompt
		return `{"score": 1, "reasoning": "r", "confidence": "low"}`, nil
	})
	scorer := newTestScorer(gen)

	longSection := makeText("s", 2000)
	longFile := makeText("f", 5000)
	scorer.ScoreRelevance(context.Background(), "heading", longSection, "big.go", longFile)

	// Prompt must not carry more than the truncated excerpts.
	if len(captured) > len(scorePromptTemplate)+maxSectionExcerpt+maxFileExcerpt+200 {
		t.Errorf("prompt too large (%d bytes), inputs not truncated", len(captured))
	}
}

func TestParseRelevanceScoreBounds(t *testing.T) {
	for _, score := range []string{"0", "10"} {
		if _, err := parseRelevance(`{"score": ` + score + `, "reasoning": "r", "confidence": "low"}`); err != nil {
			t.Errorf("score %s should be accepted: %v", score, err)
		}
	}
	for _, score := range []string{"-1", "11"} {
		if _, err := parseRelevance(`{"score": ` + score + `, "reasoning": "r", "confidence": "low"}`); err == nil {
			t.Errorf("score %s should be rejected", score)
		}
	}
}

type generatorFunc func(ctx context.Context, prompt string, temperature float64) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	return f(ctx, prompt, temperature)
}

func makeText(unit string, n int) string {
	out := make([]byte, 0, n*len(unit))
	for i := 0; i < n; i++ {
		out = append(out, unit...)
	}
	return string(out)
}
