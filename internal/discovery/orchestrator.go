package discovery

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sort"
	"strings"

	"docscout/internal/config"
	"docscout/internal/llm"
	"docscout/internal/logging"
	"docscout/internal/paths"
)

// SectionScorer is the expensive re-rank boundary. llm.RelevanceScorer
// satisfies it; tests inject deterministic fakes.
type SectionScorer interface {
	ScoreRelevance(ctx context.Context, sectionHeading, sectionContent, filePath, fileContent string) llm.Relevance
}

// ScoreCache persists external scores across runs, keyed by section
// fingerprint, path, and file content hash. Implementations must swallow
// their own errors: a broken cache degrades to a miss, never a failed
// discovery.
type ScoreCache interface {
	Get(sectionHash, path, contentHash string) (score int, reasoning, confidence string, ok bool)
	Put(sectionHash, path, contentHash string, score int, reasoning, confidence string)
}

// Options configures a Discoverer.
type Options struct {
	// Root is the project root to discover sources in.
	Root string
	// ExcludePath is stripped from all signals (root-relative, may be empty).
	ExcludePath string
	// Config supplies caps and thresholds; nil means defaults.
	Config *config.DiscoveryConfig
	// Scorer performs the external re-rank.
	Scorer SectionScorer
	// Cache is optional; nil disables score caching.
	Cache ScoreCache
	// Logger is optional.
	Logger *logging.Logger
}

// Discoverer runs the full per-section pipeline: pattern matching and lexical
// scoring produce candidates, merged by path; the top candidates go through
// the external scorer; results below the relevance threshold are dropped.
//
// The file index is built once here and shared read-only across Discover
// calls. Candidates themselves never outlive a single call.
type Discoverer struct {
	root     string
	cfg      config.DiscoveryConfig
	patterns *PatternMatcher
	lexical  *LexicalScorer
	scorer   SectionScorer
	cache    ScoreCache
	logger   *logging.Logger
}

// NewDiscoverer builds the file index and wires the pipeline.
func NewDiscoverer(opts Options) (*Discoverer, error) {
	cfg := config.DefaultConfig().Discovery
	if opts.Config != nil {
		cfg = *opts.Config
	}

	index, err := BuildIndex(opts.Root, opts.ExcludePath, opts.Logger)
	if err != nil {
		return nil, err
	}

	return &Discoverer{
		root:     opts.Root,
		cfg:      cfg,
		patterns: NewPatternMatcher(opts.Root, opts.ExcludePath),
		lexical:  NewLexicalScorer(index),
		scorer:   opts.Scorer,
		cache:    opts.Cache,
		logger:   opts.Logger,
	}, nil
}

// Discover returns the ranked source files for one section, best first,
// at most maxSources long. maxSources <= 0 uses the configured default.
func (d *Discoverer) Discover(ctx context.Context, heading, content string, maxSources int) ([]ScoredResult, error) {
	if maxSources <= 0 {
		maxSources = d.cfg.MaxSources
	}

	candidates := d.collectCandidates(heading, content)
	if len(candidates) == 0 {
		// No candidates means no external calls: the cost-control
		// short-circuit.
		return []ScoredResult{}, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PreliminaryScore > candidates[j].PreliminaryScore
	})
	if len(candidates) > d.cfg.MaxScoredCandidates {
		candidates = candidates[:d.cfg.MaxScoredCandidates]
	}

	scored := d.scoreCandidates(ctx, heading, content, candidates)

	filtered := scored[:0]
	for _, r := range scored {
		if r.RelevanceScore >= d.cfg.MinRelevanceScore {
			filtered = append(filtered, r)
		}
	}

	// Stable: ties keep merge order.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].RelevanceScore > filtered[j].RelevanceScore
	})
	if len(filtered) > maxSources {
		filtered = filtered[:maxSources]
	}

	if d.logger != nil {
		d.logger.Debug("discovery complete", map[string]interface{}{
			"heading":    heading,
			"candidates": len(candidates),
			"results":    len(filtered),
		})
	}
	return filtered, nil
}

// DiscoverPaths returns just the ranked paths; the accuracy harness consumes
// this form.
func (d *Discoverer) DiscoverPaths(ctx context.Context, heading, content string, maxSources int) ([]string, error) {
	results, err := d.Discover(ctx, heading, content, maxSources)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Path
	}
	return out, nil
}

// collectCandidates runs both cheap signals and merges by path: a path seen
// twice keeps the higher preliminary score and the union of origins.
func (d *Discoverer) collectCandidates(heading, content string) []*Candidate {
	var order []*Candidate
	byPath := make(map[string]*Candidate)

	for _, path := range d.patterns.Discover(heading, content) {
		c := &Candidate{
			Path:             path,
			Origins:          []string{OriginPattern},
			PreliminaryScore: d.cfg.PatternScore,
		}
		byPath[path] = c
		order = append(order, c)
	}

	keyTerms := ExtractKeyTerms(content)
	if len(keyTerms) > 0 {
		for _, r := range d.lexical.Search(heading, keyTerms, d.cfg.MaxLexicalResults) {
			if existing, ok := byPath[r.Path]; ok {
				if r.Score > existing.PreliminaryScore {
					existing.PreliminaryScore = r.Score
				}
				existing.Origins = append(existing.Origins, OriginLexical)
				existing.MatchReason = r.MatchReason
				continue
			}
			c := &Candidate{
				Path:             r.Path,
				Origins:          []string{OriginLexical},
				PreliminaryScore: r.Score,
				MatchReason:      r.MatchReason,
			}
			byPath[r.Path] = c
			order = append(order, c)
		}
	}

	return order
}

func (d *Discoverer) scoreCandidates(ctx context.Context, heading, content string, candidates []*Candidate) []ScoredResult {
	sectionHash := fingerprint(heading + "\x00" + truncateForHash(content))

	scored := make([]ScoredResult, 0, len(candidates))
	for _, c := range candidates {
		data, err := os.ReadFile(paths.Join(d.root, c.Path))
		if err != nil {
			// Unreadable candidates are skipped, not fatal.
			if d.logger != nil {
				d.logger.Debug("skipping unreadable candidate", map[string]interface{}{
					"path": c.Path, "error": err.Error(),
				})
			}
			continue
		}
		contentHash := fingerprint(string(data))

		var rel llm.Relevance
		hit := false
		if d.cache != nil {
			if score, reasoning, confidence, ok := d.cache.Get(sectionHash, c.Path, contentHash); ok {
				rel = llm.Relevance{Score: score, Reasoning: reasoning, Confidence: confidence}
				hit = true
			}
		}
		if !hit {
			rel = d.scorer.ScoreRelevance(ctx, heading, content, c.Path, string(data))
			// Zero/low results also cover transient scoring failures;
			// those must not stick in the cache.
			if d.cache != nil && (rel.Score > 0 || rel.Confidence != llm.ConfidenceLow) {
				d.cache.Put(sectionHash, c.Path, contentHash, rel.Score, rel.Reasoning, rel.Confidence)
			}
		}

		scored = append(scored, ScoredResult{
			Path:            c.Path,
			RelevanceScore:  rel.Score,
			Reasoning:       rel.Reasoning,
			Confidence:      rel.Confidence,
			DiscoveryMethod: strings.Join(c.Origins, "+") + "+llm_scored",
		})
	}
	return scored
}

func fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func truncateForHash(s string) string {
	const limit = 500
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
