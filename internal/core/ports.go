package core

import (
	"context"
	"time"
)

// Parser turns raw text into a structured record.
type Parser interface {
	// ParseEmail splits a raw message into header fields, body and
	// embedded URLs. Fails only when the text is blank.
	ParseEmail(text string) (*ParsedEmail, error)

	// ParseURL splits a raw URL into its components. Fails when no
	// host component can be identified.
	ParseURL(text string) (*ParsedURL, error)
}

// Extractor derives the fixed-width feature vector from a parsed record.
type Extractor interface {
	// Extract is a pure, deterministic function of its input and
	// always returns a vector of NumFeatures slots regardless of the
	// input variant.
	Extract(input Input) *FeatureVector
}

// Vectorizer is a previously fitted bag-of-terms transform.
type Vectorizer interface {
	// Vectorize turns a bag-of-terms string into a numeric vector of
	// the fitted width.
	Vectorize(bagOfTerms string) ([]float64, error)

	// Width reports the fitted output width.
	Width() int
}

// Scaler is a previously fitted per-feature normalization.
type Scaler interface {
	// Scale applies (x - mean) / scale elementwise.
	Scale(engineered []float64) ([]float64, error)
}

// Classifier is a previously trained binary probabilistic classifier.
type Classifier interface {
	// PredictProba returns the probability of the phishing class for
	// a concatenated feature vector.
	PredictProba(vector []float64) (float64, error)

	// NumInputs reports the input width the model was trained on.
	NumInputs() int
}

// Assessor maps a probability to a risk level and composes the final
// result record.
type Assessor interface {
	Assess(probability float64, input Input, features *FeatureVector, at time.Time) *ScoreResult
}

// CacheRepository stores score results keyed by input fingerprint.
type CacheRepository interface {
	// Get retrieves the cached result for a fingerprint. An expired
	// entry is a miss.
	Get(ctx context.Context, fingerprint string) (*ScoreResult, bool)

	// Set stores a result for a fingerprint, overwriting any previous
	// entry.
	Set(ctx context.Context, fingerprint string, result *ScoreResult, ttl time.Duration)
}
