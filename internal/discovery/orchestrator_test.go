package discovery

import (
	"context"
	"fmt"
	"testing"

	"docscout/internal/llm"
)

// fakeScorer returns canned scores per path and counts invocations.
type fakeScorer struct {
	calls        int
	scores       map[string]int
	defaultScore int
}

func (f *fakeScorer) ScoreRelevance(_ context.Context, _, _, path, _ string) llm.Relevance {
	f.calls++
	score, ok := f.scores[path]
	if !ok {
		score = f.defaultScore
	}
	return llm.Relevance{Score: score, Reasoning: "stub", Confidence: llm.ConfidenceMedium}
}

// memoryCache is an in-memory ScoreCache for tests.
type memoryCache struct {
	entries map[string]llm.Relevance
	hits    int
}

func cacheKey(sectionHash, path, contentHash string) string {
	return sectionHash + "|" + path + "|" + contentHash
}

func (m *memoryCache) Get(sectionHash, path, contentHash string) (int, string, string, bool) {
	rel, ok := m.entries[cacheKey(sectionHash, path, contentHash)]
	if !ok {
		return 0, "", "", false
	}
	m.hits++
	return rel.Score, rel.Reasoning, rel.Confidence, true
}

func (m *memoryCache) Put(sectionHash, path, contentHash string, score int, reasoning, confidence string) {
	if m.entries == nil {
		m.entries = make(map[string]llm.Relevance)
	}
	m.entries[cacheKey(sectionHash, path, contentHash)] = llm.Relevance{
		Score: score, Reasoning: reasoning, Confidence: confidence,
	}
}

func newTestDiscoverer(t *testing.T, root string, scorer SectionScorer, cache ScoreCache) *Discoverer {
	t.Helper()
	d, err := NewDiscoverer(Options{
		Root:   root,
		Scorer: scorer,
		Cache:  cache,
	})
	if err != nil {
		t.Fatalf("NewDiscoverer failed: %v", err)
	}
	return d
}

func TestDiscoverNoCandidatesShortCircuits(t *testing.T) {
	root := t.TempDir()
	scorer := &fakeScorer{defaultScore: 9}
	d := newTestDiscoverer(t, root, scorer, nil)

	results, err := d.Discover(context.Background(), "Zebra Thoughts", "the and for", 5)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %v", results)
	}
	if scorer.calls != 0 {
		t.Errorf("no candidates must mean no external calls, got %d", scorer.calls)
	}
}

func TestDiscoverCapsExternalCalls(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 15; i++ {
		writeFile(t, root, fmt.Sprintf("pkg/file%02d.go", i), "flurble processing logic")
	}
	scorer := &fakeScorer{defaultScore: 7}
	d := newTestDiscoverer(t, root, scorer, nil)

	_, err := d.Discover(context.Background(), "Overview", "flurble flurble processing", 20)
	if err != nil {
		t.Fatal(err)
	}
	if scorer.calls > 10 {
		t.Errorf("external calls must be capped at 10, got %d", scorer.calls)
	}
}

func TestDiscoverFiltersAndOrders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "high.go", "flurble flurble flurble flurble")
	writeFile(t, root, "mid.go", "flurble flurble")
	writeFile(t, root, "low.go", "flurble")
	scorer := &fakeScorer{scores: map[string]int{
		"high.go": 9,
		"mid.go":  6,
		"low.go":  3,
	}}
	d := newTestDiscoverer(t, root, scorer, nil)

	results, err := d.Discover(context.Background(), "Overview", "flurble internals", 10)
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 2 {
		t.Fatalf("scores below 5 should be filtered, got %v", results)
	}
	for i := 1; i < len(results); i++ {
		if results[i].RelevanceScore > results[i-1].RelevanceScore {
			t.Errorf("results must be non-increasing in score: %v", results)
		}
	}
	for _, r := range results {
		if r.RelevanceScore < 5 {
			t.Errorf("no result may score below 5: %+v", r)
		}
	}
	if results[0].Path != "high.go" {
		t.Errorf("expected high.go first, got %q", results[0].Path)
	}
}

func TestDiscoverTruncatesToMaxSources(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 6; i++ {
		writeFile(t, root, fmt.Sprintf("f%d.go", i), "flurble content")
	}
	scorer := &fakeScorer{defaultScore: 8}
	d := newTestDiscoverer(t, root, scorer, nil)

	results, err := d.Discover(context.Background(), "Overview", "flurble", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestDiscoverMergesOrigins(t *testing.T) {
	root := t.TempDir()
	// setup.py matches the installation pattern catalogue and contains the
	// key term, so both signals surface it.
	writeFile(t, root, "setup.py", "flurble packaging setup")
	scorer := &fakeScorer{defaultScore: 8}
	d := newTestDiscoverer(t, root, scorer, nil)

	results, err := d.Discover(context.Background(), "Installation", "flurble flurble install steps", 5)
	if err != nil {
		t.Fatal(err)
	}

	var found bool
	for _, r := range results {
		if r.Path == "setup.py" {
			found = true
			if r.DiscoveryMethod != "pattern+lexical+llm_scored" {
				t.Errorf("expected merged discovery method, got %q", r.DiscoveryMethod)
			}
		}
	}
	if !found {
		t.Fatalf("setup.py should be discovered, got %v", results)
	}
}

func TestDiscoverUsesCache(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "flurble engine")
	scorer := &fakeScorer{defaultScore: 8}
	cache := &memoryCache{}
	d := newTestDiscoverer(t, root, scorer, cache)

	ctx := context.Background()
	if _, err := d.Discover(ctx, "Overview", "flurble", 5); err != nil {
		t.Fatal(err)
	}
	firstCalls := scorer.calls

	if _, err := d.Discover(ctx, "Overview", "flurble", 5); err != nil {
		t.Fatal(err)
	}

	if scorer.calls != firstCalls {
		t.Errorf("second run should be served from cache, calls went %d -> %d", firstCalls, scorer.calls)
	}
	if cache.hits == 0 {
		t.Error("expected at least one cache hit")
	}
}

func TestDiscoverDoesNotCacheFallbackScores(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "flurble engine")
	// Score 0 with low confidence is the scorer's failure fallback shape.
	scorer := &lowConfidenceScorer{}
	cache := &memoryCache{}
	d := newTestDiscoverer(t, root, scorer, cache)

	ctx := context.Background()
	if _, err := d.Discover(ctx, "Overview", "flurble", 5); err != nil {
		t.Fatal(err)
	}
	if len(cache.entries) != 0 {
		t.Errorf("fallback results must not be cached, got %d entries", len(cache.entries))
	}
}

type lowConfidenceScorer struct{}

func (s *lowConfidenceScorer) ScoreRelevance(_ context.Context, _, _, _, _ string) llm.Relevance {
	return llm.Relevance{Score: 0, Reasoning: "scoring call failed: timeout", Confidence: llm.ConfidenceLow}
}

func TestDiscoverPaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "flurble engine")
	scorer := &fakeScorer{defaultScore: 8}
	d := newTestDiscoverer(t, root, scorer, nil)

	paths, err := d.DiscoverPaths(context.Background(), "Overview", "flurble", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0] != "main.go" {
		t.Errorf("expected [main.go], got %v", paths)
	}
}
