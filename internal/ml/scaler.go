package ml

import (
	"fmt"
	"math"

	"github.com/mikey/phishing-detector/internal/core"
)

// minScale is the smallest usable per-feature scale. Fitted scales
// below it are clamped so constant features never divide by zero.
const minScale = 1e-12

// FeatureScaler is a previously fitted per-feature normalization,
// applied to the engineered vector before concatenation with the text
// features.
type FeatureScaler struct {
	mean  []float64
	scale []float64
}

// NewFeatureScaler builds a scaler from fitted mean and scale vectors
// of equal width.
func NewFeatureScaler(mean, scale []float64) (*FeatureScaler, error) {
	if len(mean) != len(scale) {
		return nil, fmt.Errorf("scaler: %d means but %d scales", len(mean), len(scale))
	}
	clamped := make([]float64, len(scale))
	for i, s := range scale {
		if math.Abs(s) < minScale {
			s = 1
		}
		clamped[i] = s
	}
	return &FeatureScaler{mean: mean, scale: clamped}, nil
}

// Width reports the fitted feature width.
func (s *FeatureScaler) Width() int {
	if s == nil {
		return 0
	}
	return len(s.mean)
}

// Scale applies (x - mean) / scale elementwise.
func (s *FeatureScaler) Scale(engineered []float64) ([]float64, error) {
	if s == nil || s.mean == nil {
		return nil, core.ErrModelNotLoaded
	}
	if len(engineered) != len(s.mean) {
		return nil, &core.InferenceError{Got: len(engineered), Want: len(s.mean)}
	}

	out := make([]float64, len(engineered))
	for i, x := range engineered {
		out[i] = (x - s.mean[i]) / s.scale[i]
	}
	return out, nil
}
