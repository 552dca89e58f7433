package discovery

import (
	"regexp"
	"sort"
	"strings"
)

// maxKeyTerms is how many frequency-ranked terms drive lexical scoring.
const maxKeyTerms = 10

var tokenPattern = regexp.MustCompile(`[a-z0-9_]+`)

// stopWords are never key terms. Fixed English list; constructed once.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "her": true,
	"was": true, "one": true, "our": true, "out": true, "use": true,
	"has": true, "have": true, "this": true, "that": true, "with": true,
	"from": true, "they": true, "will": true, "would": true, "there": true,
	"their": true, "what": true, "about": true, "which": true, "when": true,
	"your": true, "them": true, "these": true, "than": true, "then": true,
	"into": true, "only": true, "also": true, "its": true, "each": true,
	"how": true, "more": true, "some": true, "such": true, "like": true,
	"other": true, "should": true, "must": true, "may": true, "any": true,
	"been": true, "being": true, "does": true, "were": true,
	"where": true, "while": true, "after": true, "before": true, "between": true,
	"both": true, "here": true, "most": true, "over": true, "same": true,
	"under": true, "very": true, "using": true, "used": true, "uses": true,
}

// Tokenize lowercases text and counts word-boundary tokens.
func Tokenize(text string) map[string]int {
	counts := make(map[string]int)
	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		counts[token]++
	}
	return counts
}

// ExtractKeyTerms returns up to maxKeyTerms distinct terms from section
// content, most frequent first. Stop words and tokens of length <= 2 are
// dropped. Frequency ties break by first occurrence in the text so the
// result is deterministic.
func ExtractKeyTerms(content string) []string {
	lowered := strings.ToLower(content)
	tokens := tokenPattern.FindAllString(lowered, -1)

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, token := range tokens {
		if len(token) <= 2 || stopWords[token] {
			continue
		}
		if _, ok := counts[token]; !ok {
			firstSeen[token] = i
		}
		counts[token]++
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return firstSeen[terms[i]] < firstSeen[terms[j]]
	})

	if len(terms) > maxKeyTerms {
		terms = terms[:maxKeyTerms]
	}
	return terms
}
