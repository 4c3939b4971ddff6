package ml

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/mikey/phishing-detector/internal/core"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]{2,}`)

// TextVectorizer is a previously fitted bag-of-terms transform: a
// vocabulary mapping 1- and 2-grams to columns, plus per-column idf
// weights. Stateless at inference time and safe for concurrent use.
type TextVectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

// NewTextVectorizer builds a vectorizer from a fitted vocabulary and
// idf weights. Every vocabulary column must have a weight.
func NewTextVectorizer(vocabulary map[string]int, idf []float64) (*TextVectorizer, error) {
	if len(vocabulary) != len(idf) {
		return nil, fmt.Errorf("vectorizer: vocabulary has %d terms but %d idf weights", len(vocabulary), len(idf))
	}
	for term, col := range vocabulary {
		if col < 0 || col >= len(idf) {
			return nil, fmt.Errorf("vectorizer: term %q maps to column %d, out of range [0,%d)", term, col, len(idf))
		}
	}
	return &TextVectorizer{vocabulary: vocabulary, idf: idf}, nil
}

// Width reports the fitted output width.
func (v *TextVectorizer) Width() int {
	if v == nil {
		return 0
	}
	return len(v.idf)
}

// Vectorize turns a bag-of-terms string into an L2-normalized
// count-times-idf vector of the fitted width.
func (v *TextVectorizer) Vectorize(bagOfTerms string) ([]float64, error) {
	if v == nil || v.vocabulary == nil {
		return nil, core.ErrModelNotLoaded
	}

	out := make([]float64, len(v.idf))
	for term, count := range termCounts(bagOfTerms) {
		if col, ok := v.vocabulary[term]; ok {
			out[col] = float64(count) * v.idf[col]
		}
	}

	// L2 norm, matching how the vocabulary was fitted.
	var sumSq float64
	for _, x := range out {
		sumSq += x * x
	}
	if sumSq > 0 {
		norm := math.Sqrt(sumSq)
		for i := range out {
			out[i] /= norm
		}
	}

	return out, nil
}

// termCounts tokenizes the text and counts unigrams and bigrams after
// stopword removal.
func termCounts(text string) map[string]int {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)

	kept := tokens[:0]
	for _, tok := range tokens {
		if !isStopword(tok) {
			kept = append(kept, tok)
		}
	}

	counts := make(map[string]int, 2*len(kept))
	for i, tok := range kept {
		counts[tok]++
		if i > 0 {
			counts[kept[i-1]+" "+tok]++
		}
	}
	return counts
}
