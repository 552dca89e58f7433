// Package discovery locates the source files most relevant to a section of
// documentation. Two cheap signals (pattern catalogue, lexical scoring) feed a
// capped external re-rank; see Discoverer for the full pipeline.
package discovery

// Candidate origins.
const (
	OriginPattern = "pattern"
	OriginLexical = "lexical"
)

// Candidate is a file surfaced by a cheap discovery signal before the
// expensive re-rank. Candidates live for a single Discover call.
type Candidate struct {
	// Path is relative to the project root, forward slashes.
	Path string
	// Origins records which signals surfaced this path, pattern first.
	Origins []string
	// PreliminaryScore orders candidates into the re-rank funnel.
	PreliminaryScore float64
	// MatchReason is a short human explanation from the lexical scorer.
	MatchReason string
}

// HasOrigin reports whether the candidate carries the given origin tag.
func (c *Candidate) HasOrigin(origin string) bool {
	for _, o := range c.Origins {
		if o == origin {
			return true
		}
	}
	return false
}

// ScoredResult is a final ranked source file for one section.
type ScoredResult struct {
	Path            string `json:"path"`
	RelevanceScore  int    `json:"relevanceScore"`
	Reasoning       string `json:"reasoning"`
	Confidence      string `json:"confidence"`
	DiscoveryMethod string `json:"discoveryMethod"`
}
