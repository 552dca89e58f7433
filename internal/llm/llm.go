// Package llm wraps the external generative model behind a narrow boundary.
// Any backend implementing Generator can drive the relevance scorer.
package llm

import (
	"context"
	"errors"
	"sync"
)

// ErrEmptyResponse indicates the generator returned no usable text.
var ErrEmptyResponse = errors.New("llm: empty response from generator")

// Generator produces raw text from a prompt. Implementations own their own
// network I/O and must respect ctx cancellation.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
}

// StubGenerator is a deterministic Generator for tests and --no-llm runs.
// It returns Response (or Err) for every call and counts invocations.
type StubGenerator struct {
	Response string
	Err      error

	mu    sync.Mutex
	calls int
}

// Generate implements Generator.
func (s *StubGenerator) Generate(_ context.Context, _ string, _ float64) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	return s.Response, nil
}

// Calls returns how many times Generate was invoked.
func (s *StubGenerator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
