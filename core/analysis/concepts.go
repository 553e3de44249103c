package analysis

import (
	"regexp"
	"strings"
	"sync"

	"github.com/siherrmann/notegraph/core/similarity"
)

// Concept candidate patterns: capitalized multi-word phrases,
// underscore-joined technical identifiers, and inline code spans
var (
	capitalizedPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
	identifierPattern  = regexp.MustCompile(`\b[a-zA-Z]+(?:_[a-zA-Z]+)+\b`)
	codeSpanPattern    = regexp.MustCompile("`([^`]+)`")
)

// conceptStopWords filters trivial tokens out of concept sets
var conceptStopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
}

// ConceptCache memoizes concept extraction per analysis run. It is
// request-scoped and passed explicitly; the analyzer never keeps
// ambient shared state. Safe for concurrent use within one run.
type ConceptCache struct {
	mu       sync.Mutex
	concepts map[string]map[string]bool
}

// NewConceptCache creates an empty concept cache for one analysis run
func NewConceptCache() *ConceptCache {
	return &ConceptCache{concepts: make(map[string]map[string]bool)}
}

// Concepts returns the cached concept set for the key, extracting it
// from text on first use.
func (c *ConceptCache) Concepts(key, text string) map[string]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if concepts, ok := c.concepts[key]; ok {
		return concepts
	}
	concepts := ExtractConcepts(text)
	c.concepts[key] = concepts
	return concepts
}

// ExtractConcepts pulls candidate concept strings from text, lowercases
// them and discards short tokens and stop words
func ExtractConcepts(text string) map[string]bool {
	var candidates []string

	candidates = append(candidates, capitalizedPattern.FindAllString(text, -1)...)
	candidates = append(candidates, identifierPattern.FindAllString(text, -1)...)

	for _, match := range codeSpanPattern.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, match[1])
	}

	concepts := make(map[string]bool)
	for _, candidate := range candidates {
		concept := strings.ToLower(strings.TrimSpace(candidate))
		if len(concept) <= 2 || conceptStopWords[concept] {
			continue
		}
		concepts[concept] = true
	}

	return concepts
}

// ConceptOverlap computes the Jaccard index of the concept sets of two
// texts. Returns 0.0 when either set is empty.
func ConceptOverlap(conceptsA, conceptsB map[string]bool) float64 {
	if len(conceptsA) == 0 || len(conceptsB) == 0 {
		return 0.0
	}
	return similarity.Jaccard(conceptsA, conceptsB)
}
