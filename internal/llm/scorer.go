package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"docscout/internal/logging"
)

// Input truncation caps keep prompts small and cost bounded.
const (
	maxSectionExcerpt = 500
	maxFileExcerpt    = 1000
)

// Confidence levels reported by the external scorer.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// Relevance is the validated verdict for one candidate file.
type Relevance struct {
	Score      int    `json:"score"`
	Reasoning  string `json:"reasoning"`
	Confidence string `json:"confidence"`
}

const scorePromptTemplate = `You are scoring how relevant a source file is to a section of project documentation.

Documentation section heading: %q

Documentation section content:
%s

Candidate file path: %s

Candidate file content:
%s

Rate the relevance of this file to the documentation section on a scale of 0 to 10, where 0 means unrelated and 10 means this file is the primary subject of the section.

Respond with ONLY a JSON object, no other text:
{"score": <integer 0-10>, "reasoning": "<one sentence>", "confidence": "<low|medium|high>"}`

// fencedJSONPattern extracts a JSON object wrapped in a markdown code fence.
var fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// RelevanceScorer adapts the generative boundary into the strict
// score/reasoning/confidence contract. Every failure mode (timeout, malformed
// JSON, out-of-range field) collapses into a safe zero-score result: one bad
// candidate must never sink a whole discovery run.
type RelevanceScorer struct {
	generator   Generator
	temperature float64
	timeout     time.Duration
	logger      *logging.Logger
}

// NewRelevanceScorer creates a scorer. temperature should be 0 for
// deterministic scoring; timeout bounds each external call.
func NewRelevanceScorer(generator Generator, temperature float64, timeout time.Duration, logger *logging.Logger) *RelevanceScorer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RelevanceScorer{
		generator:   generator,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger,
	}
}

// ScoreRelevance scores one candidate file against a documentation section.
// Inputs are truncated defensively before prompting. Never returns an error:
// failures become {score: 0, confidence: low} with the cause as reasoning.
func (s *RelevanceScorer) ScoreRelevance(ctx context.Context, sectionHeading, sectionContent, filePath, fileContent string) Relevance {
	prompt := fmt.Sprintf(scorePromptTemplate,
		sectionHeading,
		truncate(sectionContent, maxSectionExcerpt),
		filePath,
		truncate(fileContent, maxFileExcerpt),
	)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.generator.Generate(callCtx, prompt, s.temperature)
	if err != nil {
		return s.fallback(filePath, fmt.Sprintf("scoring call failed: %v", err))
	}

	rel, err := parseRelevance(raw)
	if err != nil {
		return s.fallback(filePath, fmt.Sprintf("unparseable scoring response: %v", err))
	}
	return rel
}

func (s *RelevanceScorer) fallback(filePath, cause string) Relevance {
	if s.logger != nil {
		s.logger.Warn("relevance scoring fell back to zero", map[string]interface{}{
			"path":  filePath,
			"cause": cause,
		})
	}
	return Relevance{Score: 0, Reasoning: cause, Confidence: ConfidenceLow}
}

// parseRelevance extracts and validates a strict JSON object from raw
// generator output, including when the object is wrapped in a fenced code
// block or surrounded by prose.
func parseRelevance(raw string) (Relevance, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return Relevance{}, fmt.Errorf("no JSON object found")
	}

	var parsed struct {
		Score      *float64 `json:"score"`
		Reasoning  string   `json:"reasoning"`
		Confidence string   `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return Relevance{}, err
	}

	if parsed.Score == nil {
		return Relevance{}, fmt.Errorf("missing score field")
	}
	score := *parsed.Score
	if score != float64(int(score)) {
		return Relevance{}, fmt.Errorf("score %v is not an integer", score)
	}
	if score < 0 || score > 10 {
		return Relevance{}, fmt.Errorf("score %v out of range [0,10]", score)
	}

	switch parsed.Confidence {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
	default:
		return Relevance{}, fmt.Errorf("invalid confidence %q", parsed.Confidence)
	}

	return Relevance{
		Score:      int(score),
		Reasoning:  parsed.Reasoning,
		Confidence: parsed.Confidence,
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if m := fencedJSONPattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
