package ml

import (
	"math"
	"testing"

	"github.com/mikey/phishing-detector/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorize_UnigramsAndBigrams(t *testing.T) {
	v, err := NewTextVectorizer(map[string]int{
		"verify":         0,
		"account":        1,
		"verify account": 2,
	}, []float64{1, 1, 1})
	require.NoError(t, err)

	// "your" is a stopword, so "verify" and "account" become adjacent
	// and form a bigram.
	out, err := v.Vectorize("verify your account")
	require.NoError(t, err)
	require.Len(t, out, 3)

	want := 1 / math.Sqrt(3)
	for i := range out {
		assert.InDelta(t, want, out[i], 1e-12)
	}
}

func TestVectorize_IDFWeighting(t *testing.T) {
	v, err := NewTextVectorizer(map[string]int{
		"payment": 0,
		"invoice": 1,
	}, []float64{3, 1})
	require.NoError(t, err)

	out, err := v.Vectorize("payment invoice")
	require.NoError(t, err)

	// Before normalization: 3 and 1; after L2: 3/sqrt(10), 1/sqrt(10).
	assert.InDelta(t, 3/math.Sqrt(10), out[0], 1e-12)
	assert.InDelta(t, 1/math.Sqrt(10), out[1], 1e-12)
}

func TestVectorize_StopwordsAndUnknownTerms(t *testing.T) {
	v, err := NewTextVectorizer(map[string]int{"verify": 0}, []float64{1})
	require.NoError(t, err)

	out, err := v.Vectorize("the and of was completely unrelated words")
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, out)
}

func TestVectorize_ShortTokensIgnored(t *testing.T) {
	v, err := NewTextVectorizer(map[string]int{"x": 0}, []float64{1})
	require.NoError(t, err)

	// Single-character tokens never count.
	out, err := v.Vectorize("x y z")
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, out)
}

func TestVectorize_NotLoaded(t *testing.T) {
	var v *TextVectorizer
	_, err := v.Vectorize("anything")
	assert.ErrorIs(t, err, core.ErrModelNotLoaded)
}

func TestNewTextVectorizer_Validation(t *testing.T) {
	_, err := NewTextVectorizer(map[string]int{"a": 0, "b": 1}, []float64{1})
	assert.Error(t, err)

	_, err = NewTextVectorizer(map[string]int{"a": 5}, []float64{1})
	assert.Error(t, err)
}

func TestVectorize_Deterministic(t *testing.T) {
	v, err := NewTextVectorizer(map[string]int{
		"account": 0, "verify": 1, "suspended": 2,
	}, []float64{1.2, 0.8, 2.5})
	require.NoError(t, err)

	text := "verify your account or the account will be suspended"
	first, err := v.Vectorize(text)
	require.NoError(t, err)
	second, err := v.Vectorize(text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
