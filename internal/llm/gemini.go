package llm

import (
	"context"

	"github.com/joho/godotenv"
	genai "google.golang.org/genai"
)

// GeminiGenerator is a thin wrapper around the official genai client. It only
// does the API call itself; truncation, parsing, and fallback live in
// RelevanceScorer.
type GeminiGenerator struct {
	cli   *genai.Client
	model string
}

// NewGeminiGenerator creates a Gemini-backed generator. The API key is read
// from the environment (GEMINI_API_KEY / GOOGLE_API_KEY); a .env file in the
// working directory is loaded when present.
func NewGeminiGenerator(ctx context.Context, model string) (*GeminiGenerator, error) {
	_ = godotenv.Load()

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiGenerator{cli: cli, model: model}, nil
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	temp := float32(temperature)
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			Temperature:      &temp,
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
