package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"docscout/internal/config"
	"docscout/internal/discovery"
	"docscout/internal/llm"
	"docscout/internal/logging"
	"docscout/internal/paths"
	"docscout/internal/storage"
)

var (
	discovererOnce   sync.Once
	sharedDiscoverer *discovery.Discoverer
	sharedConfig     *config.Config
	discovererErr    error
)

// stubScoreResponse is what the --no-llm scorer returns for every candidate:
// a neutral passing score so the pattern/lexical ranking survives the filter.
const stubScoreResponse = `{"score": 5, "reasoning": "stub scorer (--no-llm)", "confidence": "low"}`

// getDiscoverer returns a shared Discoverer instance.
// The discoverer (and its file index) is lazily initialized on first use.
// excludePath is fixed at first call; commands that discover for a document
// pass the document's root-relative path so it never cites itself.
func getDiscoverer(ctx context.Context, projectRoot, excludePath string, logger *logging.Logger) (*discovery.Discoverer, *config.Config, error) {
	discovererOnce.Do(func() {
		sharedDiscoverer, sharedConfig, discovererErr = buildDiscoverer(ctx, projectRoot, excludePath, logger)
	})

	return sharedDiscoverer, sharedConfig, discovererErr
}

// buildDiscoverer wires config, scorer, cache, and index into a Discoverer.
func buildDiscoverer(ctx context.Context, projectRoot, excludePath string, logger *logging.Logger) (*discovery.Discoverer, *config.Config, error) {
	cfg, err := config.LoadConfig(projectRoot)
	if err != nil {
		logger.Warn("Failed to load config, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	scorer, err := newScorer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	// Stub scores must never pollute the persistent cache.
	var cache discovery.ScoreCache
	if cfg.Cache.Enabled && !noLLMFlag {
		db, err := storage.Open(projectRoot, logger)
		if err != nil {
			logger.Warn("Score cache unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			cache = storage.NewScoreCache(db, logger)
		}
	}

	d, err := discovery.NewDiscoverer(discovery.Options{
		Root:        projectRoot,
		ExcludePath: excludePath,
		Config:      &cfg.Discovery,
		Scorer:      scorer,
		Cache:       cache,
		Logger:      logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize discovery: %w", err)
	}
	return d, cfg, nil
}

// mustGetDiscoverer returns the shared Discoverer or exits on error.
func mustGetDiscoverer(ctx context.Context, projectRoot, excludePath string, logger *logging.Logger) (*discovery.Discoverer, *config.Config) {
	d, cfg, err := getDiscoverer(ctx, projectRoot, excludePath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing discovery: %v\n", err)
		os.Exit(1)
	}
	return d, cfg
}

// docExcludePath resolves a document argument to its root-relative canonical
// path for self-citation exclusion. Documents outside the project root (or
// unresolvable ones) exclude nothing.
func docExcludePath(projectRoot, docPath string) string {
	abs, err := filepath.Abs(docPath)
	if err != nil || !paths.IsWithinRoot(abs, projectRoot) {
		return ""
	}
	canonical, err := paths.Canonicalize(abs, projectRoot)
	if err != nil {
		return ""
	}
	return canonical
}

// newScorer builds the external relevance scorer, or a stub when --no-llm.
func newScorer(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*llm.RelevanceScorer, error) {
	timeout := time.Duration(cfg.Generator.TimeoutMs) * time.Millisecond

	if noLLMFlag {
		stub := &llm.StubGenerator{Response: stubScoreResponse}
		return llm.NewRelevanceScorer(stub, cfg.Generator.Temperature, timeout, logger), nil
	}

	gen, err := llm.NewGeminiGenerator(ctx, cfg.Generator.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generator (set GEMINI_API_KEY or pass --no-llm): %w", err)
	}
	return llm.NewRelevanceScorer(gen, cfg.Generator.Temperature, timeout, logger), nil
}

// getProjectRoot returns the project root directory.
func getProjectRoot() (string, error) {
	if rootFlag != "" {
		return rootFlag, nil
	}
	return os.Getwd()
}

// mustGetProjectRoot returns the project root or exits on error.
func mustGetProjectRoot() string {
	root, err := getProjectRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return root
}

// newContext creates a new context for command execution.
func newContext() context.Context {
	return context.Background()
}

// resolveLogConfig maps the loaded config and the command's output format to
// logger settings. JSON report output forces JSON logs so stderr stays
// machine-readable alongside stdout.
func resolveLogConfig(cfg *config.Config, outputFormat string) logging.Config {
	format := logging.HumanFormat
	if outputFormat == "json" || cfg.Logging.Format == "json" {
		format = logging.JSONFormat
	}
	return logging.Config{
		Format: format,
		Level:  logging.ParseLevel(cfg.Logging.Level),
	}
}

// newLogger creates a logger honoring the project's logging config.
func newLogger(projectRoot, outputFormat string) *logging.Logger {
	cfg, err := config.LoadConfig(projectRoot)
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return logging.NewLogger(resolveLogConfig(cfg, outputFormat))
}
