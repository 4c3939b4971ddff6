package ml

import (
	"math"
	"testing"

	"github.com/mikey/phishing-detector/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stump builds a single-split tree: feature <= threshold ? low : high.
func stump(feature int, threshold, low, high float64) Tree {
	return Tree{
		{Feature: feature, Threshold: threshold, Left: 1, Right: 2},
		{Leaf: true, Value: low},
		{Leaf: true, Value: high},
	}
}

func TestPredictProba_SingleStump(t *testing.T) {
	c, err := NewGBTClassifier([]Tree{stump(0, 0.5, -2, 2)}, 0, 2)
	require.NoError(t, err)

	low, err := c.PredictProba([]float64{0, 9})
	require.NoError(t, err)
	high, err := c.PredictProba([]float64{1, 9})
	require.NoError(t, err)

	assert.InDelta(t, 1/(1+math.Exp(2)), low, 1e-12)
	assert.InDelta(t, 1/(1+math.Exp(-2)), high, 1e-12)
}

func TestPredictProba_AdditiveEnsemble(t *testing.T) {
	trees := []Tree{
		stump(0, 0.5, -1, 1),
		stump(1, 0.5, -0.5, 0.5),
	}
	c, err := NewGBTClassifier(trees, 0.25, 2)
	require.NoError(t, err)

	p, err := c.PredictProba([]float64{1, 0})
	require.NoError(t, err)
	// score = 0.25 + 1 - 0.5
	assert.InDelta(t, 1/(1+math.Exp(-0.75)), p, 1e-12)
}

func TestPredictProba_DeepTreeRouting(t *testing.T) {
	tree := Tree{
		{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
		{Feature: 1, Threshold: 0.5, Left: 3, Right: 4},
		{Leaf: true, Value: 3},
		{Leaf: true, Value: -3},
		{Leaf: true, Value: 1},
	}
	c, err := NewGBTClassifier([]Tree{tree}, 0, 2)
	require.NoError(t, err)

	tests := []struct {
		input []float64
		score float64
	}{
		{[]float64{0, 0}, -3},
		{[]float64{0, 1}, 1},
		{[]float64{1, 0}, 3},
	}
	for _, tt := range tests {
		p, err := c.PredictProba(tt.input)
		require.NoError(t, err)
		assert.InDelta(t, 1/(1+math.Exp(-tt.score)), p, 1e-12)
	}
}

func TestPredictProba_WidthMismatch(t *testing.T) {
	c, err := NewGBTClassifier([]Tree{stump(0, 0, 0, 0)}, 0, 4)
	require.NoError(t, err)

	_, err = c.PredictProba([]float64{1, 2})
	var infErr *core.InferenceError
	require.ErrorAs(t, err, &infErr)
	assert.Equal(t, 2, infErr.Got)
	assert.Equal(t, 4, infErr.Want)
}

func TestPredictProba_Deterministic(t *testing.T) {
	c, err := NewGBTClassifier([]Tree{
		stump(0, 0.5, -1.25, 0.75),
		stump(1, 2.5, 0.5, -0.25),
	}, -0.1, 2)
	require.NoError(t, err)

	input := []float64{0.7, 3.1}
	first, err := c.PredictProba(input)
	require.NoError(t, err)
	second, err := c.PredictProba(input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPredictProba_NotLoaded(t *testing.T) {
	var c *GBTClassifier
	_, err := c.PredictProba([]float64{1})
	assert.ErrorIs(t, err, core.ErrModelNotLoaded)
}

func TestNewGBTClassifier_Validation(t *testing.T) {
	t.Run("empty tree", func(t *testing.T) {
		_, err := NewGBTClassifier([]Tree{{}}, 0, 2)
		assert.Error(t, err)
	})

	t.Run("feature out of range", func(t *testing.T) {
		_, err := NewGBTClassifier([]Tree{stump(7, 0, 0, 0)}, 0, 2)
		assert.Error(t, err)
	})

	t.Run("child index out of range", func(t *testing.T) {
		bad := Tree{{Feature: 0, Threshold: 0, Left: 5, Right: 6}}
		_, err := NewGBTClassifier([]Tree{bad}, 0, 2)
		assert.Error(t, err)
	})

	t.Run("invalid width", func(t *testing.T) {
		_, err := NewGBTClassifier(nil, 0, 0)
		assert.Error(t, err)
	})
}
