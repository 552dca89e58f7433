// Package eval measures discovery accuracy against labeled fixtures.
// It computes precision, recall, and F1 per documentation section and
// aggregates them as arithmetic means across the suite.
package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"docscout/internal/errors"
	"docscout/internal/logging"
)

// evalMaxSources is deliberately generous so recall is measured against
// everything discovery would ever surface, not a production-tuned cap.
const evalMaxSources = 10

// TestCase represents one labeled section: what the section says and which
// repository files a correct discovery run should surface for it.
type TestCase struct {
	// SectionHeading is the documentation heading to discover sources for.
	SectionHeading string `json:"section_heading" yaml:"section_heading"`

	// SectionContent is the section body used for key-term extraction.
	SectionContent string `json:"section_content" yaml:"section_content"`

	// GroundTruthSources are the repository-relative paths a human judged
	// relevant. An empty list means the section should surface nothing.
	GroundTruthSources []string `json:"ground_truth_sources" yaml:"ground_truth_sources"`
}

// SectionResult captures the outcome of evaluating one test case.
type SectionResult struct {
	Heading    string   `json:"heading"`
	Discovered []string `json:"discovered"`
	Missing    []string `json:"missing,omitempty"`    // ground truth not discovered
	Unexpected []string `json:"unexpected,omitempty"` // discovered but not in ground truth

	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`

	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// SuiteResult aggregates metrics across all test cases.
type SuiteResult struct {
	TotalSections int `json:"totalSections"`

	// Mean metrics over sections. Every section carries equal weight
	// regardless of how many ground-truth files it lists.
	MeanPrecision float64 `json:"meanPrecision"`
	MeanRecall    float64 `json:"meanRecall"`
	MeanF1        float64 `json:"meanF1"`

	Results []SectionResult `json:"results"`

	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// SourceDiscoverer is the discovery surface the suite evaluates.
type SourceDiscoverer interface {
	DiscoverPaths(ctx context.Context, heading, content string, maxSources int) ([]string, error)
}

// Suite runs accuracy evaluation against a discoverer.
type Suite struct {
	discoverer SourceDiscoverer
	logger     *logging.Logger
	fixtures   []TestCase
}

// NewSuite creates a new evaluation suite.
func NewSuite(discoverer SourceDiscoverer, logger *logging.Logger) *Suite {
	return &Suite{
		discoverer: discoverer,
		logger:     logger,
		fixtures:   make([]TestCase, 0),
	}
}

// Fixtures returns the currently loaded test cases.
func (s *Suite) Fixtures() []TestCase {
	return s.fixtures
}

// AddFixture adds a single test case programmatically.
func (s *Suite) AddFixture(tc TestCase) {
	s.fixtures = append(s.fixtures, tc)
}

// LoadFixtures loads test cases from a JSON or YAML file, dispatching on the
// file extension.
func (s *Suite) LoadFixtures(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fixtures: %w", err)
	}

	var fixtures []TestCase
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		fixtures, err = parseYAMLFixtures(data)
	default:
		fixtures, err = parseJSONFixtures(data)
	}
	if err != nil {
		return errors.Newf(errors.FixtureInvalid, "invalid fixture file %s: %v", path, err)
	}

	s.fixtures = append(s.fixtures, fixtures...)
	return nil
}

// LoadFixturesDir loads all JSON and YAML fixtures from a directory.
func (s *Suite) LoadFixturesDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read fixtures directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			if err := s.LoadFixtures(filepath.Join(dir, entry.Name())); err != nil {
				return err
			}
		}
	}

	return nil
}

func parseJSONFixtures(data []byte) ([]TestCase, error) {
	// Decode into raw maps first so a missing key is distinguishable from an
	// empty value. A struct decode would silently default both.
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for i, entry := range raw {
		if err := checkFixtureKeys(i, func(key string) bool {
			_, ok := entry[key]
			return ok
		}); err != nil {
			return nil, err
		}
	}

	var fixtures []TestCase
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, err
	}
	return fixtures, nil
}

func parseYAMLFixtures(data []byte) ([]TestCase, error) {
	var raw []map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for i, entry := range raw {
		if err := checkFixtureKeys(i, func(key string) bool {
			_, ok := entry[key]
			return ok
		}); err != nil {
			return nil, err
		}
	}

	var fixtures []TestCase
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, err
	}
	return fixtures, nil
}

func checkFixtureKeys(index int, has func(string) bool) error {
	for _, key := range []string{"section_heading", "section_content", "ground_truth_sources"} {
		if !has(key) {
			return fmt.Errorf("fixture %d: missing required key %q", index, key)
		}
	}
	return nil
}

// Run evaluates every fixture and returns aggregated results.
func (s *Suite) Run(ctx context.Context) (*SuiteResult, error) {
	if len(s.fixtures) == 0 {
		return nil, fmt.Errorf("no test fixtures loaded")
	}

	result := &SuiteResult{
		StartTime:     time.Now(),
		TotalSections: len(s.fixtures),
		Results:       make([]SectionResult, 0, len(s.fixtures)),
	}

	var precisionSum, recallSum, f1Sum float64
	for _, tc := range s.fixtures {
		sr := s.runSection(ctx, tc)
		result.Results = append(result.Results, sr)
		precisionSum += sr.Precision
		recallSum += sr.Recall
		f1Sum += sr.F1

		if s.logger != nil {
			s.logger.Debug("evaluated section", map[string]interface{}{
				"heading":   tc.SectionHeading,
				"precision": sr.Precision,
				"recall":    sr.Recall,
				"f1":        sr.F1,
			})
		}
	}

	n := float64(result.TotalSections)
	result.MeanPrecision = precisionSum / n
	result.MeanRecall = recallSum / n
	result.MeanF1 = f1Sum / n
	result.EndTime = time.Now()

	return result, nil
}

// runSection evaluates one test case.
func (s *Suite) runSection(ctx context.Context, tc TestCase) SectionResult {
	start := time.Now()
	sr := SectionResult{Heading: tc.SectionHeading}

	discovered, err := s.discoverer.DiscoverPaths(ctx, tc.SectionHeading, tc.SectionContent, evalMaxSources)
	sr.Duration = time.Since(start)
	if err != nil {
		// A failed section counts as discovering nothing rather than
		// aborting the whole suite.
		sr.Error = err.Error()
		discovered = nil
	}

	sr.Discovered = discovered
	sr.Precision, sr.Recall, sr.F1 = Metrics(discovered, tc.GroundTruthSources)
	sr.Missing = difference(tc.GroundTruthSources, discovered)
	sr.Unexpected = difference(discovered, tc.GroundTruthSources)

	return sr
}

// Metrics computes precision, recall, and F1 for a discovered set against a
// ground-truth set. Two sets that are both empty agree perfectly and score
// 1.0 across the board. Discovering files for a section labeled empty costs
// precision only: recall stays 1.0 because there was nothing to miss, and F1
// collapses to 0.
func Metrics(discovered, groundTruth []string) (precision, recall, f1 float64) {
	if len(discovered) == 0 && len(groundTruth) == 0 {
		return 1.0, 1.0, 1.0
	}

	truth := make(map[string]bool, len(groundTruth))
	for _, p := range groundTruth {
		truth[p] = true
	}

	var tp int
	seen := make(map[string]bool, len(discovered))
	for _, p := range discovered {
		if seen[p] {
			continue
		}
		seen[p] = true
		if truth[p] {
			tp++
		}
	}

	if len(discovered) > 0 {
		precision = float64(tp) / float64(len(seen))
	}
	if len(groundTruth) > 0 {
		recall = float64(tp) / float64(len(groundTruth))
	} else {
		recall = 1.0
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1
}

// difference returns the elements of a not present in b, in a's order.
func difference(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, p := range b {
		inB[p] = true
	}
	var out []string
	for _, p := range a {
		if !inB[p] {
			out = append(out, p)
		}
	}
	return out
}

// FormatReport generates a human-readable report. Sections are graded
// against the pass and warn thresholds for F1.
func (r *SuiteResult) FormatReport(passThreshold, warnThreshold float64) string {
	var sb strings.Builder

	sb.WriteString("=== Discovery Accuracy Report ===\n\n")
	fmt.Fprintf(&sb, "Sections:       %d\n", r.TotalSections)
	fmt.Fprintf(&sb, "Mean Precision: %.3f\n", r.MeanPrecision)
	fmt.Fprintf(&sb, "Mean Recall:    %.3f\n", r.MeanRecall)
	fmt.Fprintf(&sb, "Mean F1:        %.3f\n", r.MeanF1)
	fmt.Fprintf(&sb, "Duration:       %v\n\n", r.EndTime.Sub(r.StartTime).Round(time.Millisecond))

	sb.WriteString("Per Section:\n")
	for _, sr := range r.Results {
		grade := "FAIL"
		switch {
		case sr.F1 >= passThreshold:
			grade = "PASS"
		case sr.F1 >= warnThreshold:
			grade = "WARN"
		}
		fmt.Fprintf(&sb, "  [%s] %s  (p=%.2f r=%.2f f1=%.2f)\n", grade, sr.Heading, sr.Precision, sr.Recall, sr.F1)
		if len(sr.Missing) > 0 {
			fmt.Fprintf(&sb, "    Missing:    %v\n", sr.Missing)
		}
		if len(sr.Unexpected) > 0 {
			fmt.Fprintf(&sb, "    Unexpected: %v\n", sr.Unexpected)
		}
		if sr.Error != "" {
			fmt.Fprintf(&sb, "    Error: %s\n", sr.Error)
		}
	}
	sb.WriteString("\n")

	overall := "FAIL"
	switch {
	case r.MeanF1 >= passThreshold:
		overall = "PASS"
	case r.MeanF1 >= warnThreshold:
		overall = "WARN"
	}
	fmt.Fprintf(&sb, "Overall: %s (mean F1 %.3f, pass >= %.2f, warn >= %.2f)\n", overall, r.MeanF1, passThreshold, warnThreshold)

	return sb.String()
}

// JSON returns the result as indented JSON.
func (r *SuiteResult) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// SortResultsByF1 sorts results worst-first so problem sections lead.
func (r *SuiteResult) SortResultsByF1() {
	sort.SliceStable(r.Results, func(i, j int) bool {
		return r.Results[i].F1 < r.Results[j].F1
	})
}
