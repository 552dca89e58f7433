package discovery

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Path-score weights: heading words are a stronger signal than key terms
// because they were chosen by the document author, not by frequency.
const (
	headingPathWeight = 2.0
	termPathWeight    = 1.5
	pathBoostFactor   = 0.3
)

// LexicalResult is one lexically scored file.
type LexicalResult struct {
	Path        string
	Score       float64
	MatchReason string
}

// LexicalScorer ranks indexed files by key-term density and path overlap.
type LexicalScorer struct {
	index *FileIndex
}

// NewLexicalScorer wraps a built index.
func NewLexicalScorer(index *FileIndex) *LexicalScorer {
	return &LexicalScorer{index: index}
}

// Search scores every indexed file against the key terms and heading, and
// returns the top maxResults by combined score.
//
// Per file: each key term occurring in the content adds ln(1+count); every
// heading word (len > 3) found in the path adds 2.0 and every key term found
// in the path adds 1.5. When both signals fire the content score is
// multiplied by (1 + pathScore*0.3); a path-only match scores the raw path
// score; a file matching neither is excluded.
func (s *LexicalScorer) Search(heading string, keyTerms []string, maxResults int) []LexicalResult {
	if maxResults <= 0 {
		return nil
	}

	headingWords := headingPathWords(heading)

	var results []LexicalResult
	for _, file := range s.index.Files() {
		result, ok := scoreFile(file, headingWords, keyTerms)
		if ok {
			results = append(results, result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Path < results[j].Path
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func scoreFile(file *IndexedFile, headingWords []string, keyTerms []string) (LexicalResult, bool) {
	lowerPath := strings.ToLower(file.Path)

	contentScore := 0.0
	var matched []string
	for _, term := range keyTerms {
		if count := file.TermCounts[term]; count > 0 {
			contentScore += math.Log(1 + float64(count))
			matched = append(matched, term)
		}
	}

	pathScore := 0.0
	for _, word := range headingWords {
		if strings.Contains(lowerPath, word) {
			pathScore += headingPathWeight
		}
	}
	for _, term := range keyTerms {
		if strings.Contains(lowerPath, term) {
			pathScore += termPathWeight
		}
	}

	var score float64
	switch {
	case contentScore > 0 && pathScore > 0:
		score = contentScore * (1 + pathScore*pathBoostFactor)
	case contentScore > 0:
		score = contentScore
	case pathScore > 0:
		score = pathScore
	default:
		return LexicalResult{}, false
	}

	return LexicalResult{
		Path:        file.Path,
		Score:       score,
		MatchReason: matchReason(matched),
	}, true
}

func matchReason(matched []string) string {
	if len(matched) == 0 {
		return "Path relevance"
	}
	if len(matched) <= 3 {
		return "Contains key terms: " + strings.Join(matched, ", ")
	}
	return fmt.Sprintf("Contains key terms: %s (+%d more)",
		strings.Join(matched[:3], ", "), len(matched)-3)
}

// headingPathWords extracts lowercase heading words longer than 3 characters
// for path matching.
func headingPathWords(heading string) []string {
	var words []string
	for _, word := range strings.Fields(normalizeHeading(heading)) {
		if len(word) > 3 {
			words = append(words, word)
		}
	}
	return words
}
