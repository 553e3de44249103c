package similarity

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/siherrmann/notegraph/helper"
	"github.com/siherrmann/notegraph/model"
)

// Structural marker patterns, evaluated per text in fixed order
var (
	headerPattern       = regexp.MustCompile(`(?m)^#+\s`)
	bulletListPattern   = regexp.MustCompile(`(?m)^\s*[-*+]\s`)
	numberedListPattern = regexp.MustCompile(`(?m)^\s*\d+\.\s`)
	codeBlockPattern    = regexp.MustCompile("```")
	linkPattern         = regexp.MustCompile(`\[.*?\]\(.*?\)`)
	boldPattern         = regexp.MustCompile(`\*\*.*?\*\*`)
	italicPattern       = regexp.MustCompile(`\*.*?\*`)

	wordPattern      = regexp.MustCompile(`[a-zA-Z]+`)
	topicWordPattern = regexp.MustCompile(`\b[a-zA-Z]{4,}\b`)
)

// topicStopWords filters common words out of topic keyword sets
var topicStopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"day": true, "get": true, "has": true, "him": true, "his": true,
	"how": true, "its": true, "may": true, "new": true, "now": true,
	"old": true, "see": true, "two": true, "who": true, "boy": true,
	"did": true, "man": true, "way": true, "she": true, "use": true,
	"oil": true, "sit": true, "set": true, "this": true, "that": true,
	"with": true, "have": true, "from": true, "they": true, "been": true,
	"were": true, "when": true, "will": true, "what": true, "which": true,
	"their": true, "would": true, "there": true, "about": true,
}

// Cosine computes the cosine similarity of two vectors.
// It fails on a length mismatch or when either vector has zero magnitude.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, helper.NewError("cosine similarity", fmt.Errorf("%w: vector dimensions differ (%d vs %d)", model.ErrInvalidInput, len(a), len(b)))
	}
	if len(a) == 0 {
		return 0, helper.NewError("cosine similarity", fmt.Errorf("%w: empty vectors", model.ErrInvalidInput))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, helper.NewError("cosine similarity", fmt.Errorf("%w: zero-magnitude vector", model.ErrInvalidInput))
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Semantic computes embedding-based similarity. Negative cosine values
// are clamped to 0 so the score stays in [0, 1].
func Semantic(embA, embB []float32) (float64, error) {
	sim, err := Cosine(embA, embB)
	if err != nil {
		return 0, err
	}
	if sim < 0 {
		return 0, nil
	}
	return sim, nil
}

// Keyword computes keyword overlap similarity using TF-IDF over the
// two-note corpus with unigrams and bigrams, stop words removed.
// Returns 0.0 if either text is empty or vectorization yields no features.
func Keyword(textA, textB string) float64 {
	if strings.TrimSpace(textA) == "" || strings.TrimSpace(textB) == "" {
		return 0.0
	}

	termsA := ngramTerms(textA)
	termsB := ngramTerms(textB)
	if len(termsA) == 0 || len(termsB) == 0 {
		return 0.0
	}

	// Document frequency over the two-document corpus
	df := make(map[string]int)
	for term := range termsA {
		df[term]++
	}
	for term := range termsB {
		df[term]++
	}

	// Smoothed IDF: ln((1+n)/(1+df)) + 1 with n = 2 documents
	idf := func(term string) float64 {
		return math.Log(3.0/(1.0+float64(df[term]))) + 1.0
	}

	var dot, normA, normB float64
	for term, tfA := range termsA {
		wA := float64(tfA) * idf(term)
		normA += wA * wA
		if tfB, ok := termsB[term]; ok {
			dot += wA * float64(tfB) * idf(term)
		}
	}
	for term, tfB := range termsB {
		wB := float64(tfB) * idf(term)
		normB += wB * wB
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ngramTerms extracts unigram and bigram term frequencies with stop words removed
func ngramTerms(text string) map[string]int {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	var filtered []string
	for _, word := range words {
		if !topicStopWords[word] && len(word) > 1 {
			filtered = append(filtered, word)
		}
	}

	terms := make(map[string]int)
	for i, word := range filtered {
		terms[word]++
		if i+1 < len(filtered) {
			terms[word+" "+filtered[i+1]]++
		}
	}

	return terms
}

// Structural computes similarity of document structure by counting
// structural markers and comparing the resulting count vectors.
// Two plain texts without any markers count as maximally similar.
func Structural(textA, textB string) float64 {
	vecA := structureFeatures(textA)
	vecB := structureFeatures(textB)

	sumA, sumB := 0, 0
	for i := range vecA {
		sumA += vecA[i]
		sumB += vecB[i]
	}

	if sumA == 0 && sumB == 0 {
		return 1.0
	}
	if sumA == 0 || sumB == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range vecA {
		dot += float64(vecA[i]) * float64(vecB[i])
		normA += float64(vecA[i]) * float64(vecA[i])
		normB += float64(vecB[i]) * float64(vecB[i])
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// structureFeatures counts structural markers in fixed order:
// headers, bullet lists, numbered lists, code blocks, links, bold, italic
func structureFeatures(text string) [7]int {
	return [7]int{
		len(headerPattern.FindAllString(text, -1)),
		len(bulletListPattern.FindAllString(text, -1)),
		len(numberedListPattern.FindAllString(text, -1)),
		len(codeBlockPattern.FindAllString(text, -1)),
		len(linkPattern.FindAllString(text, -1)),
		len(boldPattern.FindAllString(text, -1)),
		len(italicPattern.FindAllString(text, -1)),
	}
}

// Topic computes topic similarity as the Jaccard index of the two
// texts' keyword sets. Returns 0.0 if either set is empty.
func Topic(textA, textB string) float64 {
	keywordsA := topicKeywords(textA)
	keywordsB := topicKeywords(textB)

	if len(keywordsA) == 0 || len(keywordsB) == 0 {
		return 0.0
	}

	return Jaccard(keywordsA, keywordsB)
}

// topicKeywords extracts the set of alphabetic tokens of length >= 4,
// lowercased, with stop words removed
func topicKeywords(text string) map[string]bool {
	words := topicWordPattern.FindAllString(strings.ToLower(text), -1)

	keywords := make(map[string]bool)
	for _, word := range words {
		if !topicStopWords[word] {
			keywords[word] = true
		}
	}

	return keywords
}

// Jaccard computes the Jaccard index (intersection over union) of two sets
func Jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0.0
	}

	intersection := 0
	for item := range a {
		if b[item] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection

	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}
