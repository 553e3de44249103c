package analysis

import (
	"regexp"

	"github.com/siherrmann/notegraph/model"
)

// Sequential indicator patterns, prerequisite group checked before follows
var (
	prerequisitePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:before|prerequisite|required|foundation|basic|intro)\b`),
		regexp.MustCompile(`(?i)\b(?:first|start|begin|initial)\b`),
	}
	followsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:after|following|next|advanced|continue)\b`),
		regexp.MustCompile(`(?i)\b(?:then|subsequently|later)\b`),
	}
)

// DetectHierarchical checks whether one concept set is largely contained
// in the other. It returns CONTAINED_BY when the first note's concepts
// are a subset of the second's (and the second is larger), CONTAINS for
// the reverse, and false when neither holds or either set is empty.
func DetectHierarchical(conceptsA, conceptsB map[string]bool, containmentThreshold float64) (model.RelationType, bool) {
	if len(conceptsA) == 0 || len(conceptsB) == 0 {
		return "", false
	}

	overlap := 0
	for concept := range conceptsA {
		if conceptsB[concept] {
			overlap++
		}
	}

	if float64(overlap)/float64(len(conceptsA)) > containmentThreshold && len(conceptsA) < len(conceptsB) {
		return model.RelationTypeContainedBy, true
	}
	if float64(overlap)/float64(len(conceptsB)) > containmentThreshold && len(conceptsB) < len(conceptsA) {
		return model.RelationTypeContains, true
	}

	return "", false
}

// DetectSequential checks the two texts for sequential indicator
// patterns. A pattern group labels the pair when the first text scores
// strictly higher than the second and above the threshold. At most one
// label is emitted, prerequisite indicators checked first.
func DetectSequential(textA, textB string, patternThreshold int) (model.RelationType, bool) {
	groups := []struct {
		relType  model.RelationType
		patterns []*regexp.Regexp
	}{
		{model.RelationTypePrerequisite, prerequisitePatterns},
		{model.RelationTypeFollows, followsPatterns},
	}

	for _, group := range groups {
		scoreA := patternMatches(textA, group.patterns)
		scoreB := patternMatches(textB, group.patterns)

		if scoreA > scoreB && scoreA > patternThreshold {
			return group.relType, true
		}
	}

	return "", false
}

// patternMatches counts all matches of the pattern group in the text
func patternMatches(text string, patterns []*regexp.Regexp) int {
	count := 0
	for _, pattern := range patterns {
		count += len(pattern.FindAllString(text, -1))
	}
	return count
}
