package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/phishing-detector/internal/core"
	"go.uber.org/zap"
)

// ArtifactVersion is the bundle format this build understands. An
// artifact with any other version is rejected at load time rather than
// risking silent mis-scoring.
const ArtifactVersion = 1

const (
	vectorizerFile = "vectorizer.json"
	classifierFile = "classifier.json"
)

// vectorizerArtifact mirrors vectorizer.json: the fitted vocabulary
// and idf weights, with the feature scaler bundled alongside.
type vectorizerArtifact struct {
	Version     int            `json:"version"`
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	ScalerMean  []float64      `json:"scaler_mean"`
	ScalerScale []float64      `json:"scaler_scale"`
}

// classifierArtifact mirrors classifier.json. NumTrees, LearningRate
// and MaxDepth record the training configuration; inference reads only
// Bias, Trees and NumInputs.
type classifierArtifact struct {
	Version      int     `json:"version"`
	Bias         float64 `json:"bias"`
	NumInputs    int     `json:"num_inputs"`
	Trees        []Tree  `json:"trees"`
	NumTrees     int     `json:"num_trees,omitempty"`
	LearningRate float64 `json:"learning_rate,omitempty"`
	MaxDepth     int     `json:"max_depth,omitempty"`
}

// Bundle holds the loaded inference artifacts. Read-only after load
// and shared without locking across concurrent scans.
type Bundle struct {
	Vectorizer *TextVectorizer
	Scaler     *FeatureScaler
	Classifier *GBTClassifier
}

// LoadBundle reads both artifacts from dir and cross-checks their
// widths: the scaler must cover exactly the engineered features and
// the classifier must expect engineered plus vectorized width. Any
// mismatch fails here, never at first inference.
func LoadBundle(dir string, logger *zap.Logger) (*Bundle, error) {
	var va vectorizerArtifact
	if err := readArtifact(filepath.Join(dir, vectorizerFile), &va); err != nil {
		return nil, err
	}
	var ca classifierArtifact
	if err := readArtifact(filepath.Join(dir, classifierFile), &ca); err != nil {
		return nil, err
	}

	if va.Version != ArtifactVersion {
		return nil, fmt.Errorf("vectorizer artifact version %d, want %d", va.Version, ArtifactVersion)
	}
	if ca.Version != ArtifactVersion {
		return nil, fmt.Errorf("classifier artifact version %d, want %d", ca.Version, ArtifactVersion)
	}

	vectorizer, err := NewTextVectorizer(va.Vocabulary, va.IDF)
	if err != nil {
		return nil, err
	}

	if len(va.ScalerMean) != core.NumFeatures {
		return nil, fmt.Errorf("scaler fitted for %d features, build expects %d", len(va.ScalerMean), core.NumFeatures)
	}
	scaler, err := NewFeatureScaler(va.ScalerMean, va.ScalerScale)
	if err != nil {
		return nil, err
	}

	classifier, err := NewGBTClassifier(ca.Trees, ca.Bias, ca.NumInputs)
	if err != nil {
		return nil, err
	}

	wantInputs := core.NumFeatures + vectorizer.Width()
	if classifier.NumInputs() != wantInputs {
		return nil, fmt.Errorf("classifier expects %d inputs, artifacts provide %d (%d engineered + %d text)",
			classifier.NumInputs(), wantInputs, core.NumFeatures, vectorizer.Width())
	}

	logger.Info("Loaded model bundle",
		zap.String("dir", dir),
		zap.Int("vocabulary_size", vectorizer.Width()),
		zap.Int("num_trees", len(ca.Trees)),
		zap.Int("num_inputs", classifier.NumInputs()))

	return &Bundle{
		Vectorizer: vectorizer,
		Scaler:     scaler,
		Classifier: classifier,
	}, nil
}

func readArtifact(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse artifact %s: %w", path, err)
	}
	return nil
}
