package ml

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mikey/phishing-detector/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeBundle(t *testing.T, dir string, va vectorizerArtifact, ca classifierArtifact) {
	t.Helper()
	for name, v := range map[string]any{
		vectorizerFile: va,
		classifierFile: ca,
	} {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
	}
}

func validArtifacts() (vectorizerArtifact, classifierArtifact) {
	va := vectorizerArtifact{
		Version:     ArtifactVersion,
		Vocabulary:  map[string]int{"verify": 0, "account": 1},
		IDF:         []float64{1.5, 0.5},
		ScalerMean:  make([]float64, core.NumFeatures),
		ScalerScale: ones(core.NumFeatures),
	}
	ca := classifierArtifact{
		Version:   ArtifactVersion,
		Bias:      -0.2,
		NumInputs: core.NumFeatures + 2,
		Trees:     []Tree{stump(0, 0.5, -1, 1)},
	}
	return va, ca
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func TestLoadBundle(t *testing.T) {
	dir := t.TempDir()
	va, ca := validArtifacts()
	writeBundle(t, dir, va, ca)

	bundle, err := LoadBundle(dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, bundle.Vectorizer.Width())
	assert.Equal(t, core.NumFeatures, bundle.Scaler.Width())
	assert.Equal(t, core.NumFeatures+2, bundle.Classifier.NumInputs())
}

func TestLoadBundle_MissingFiles(t *testing.T) {
	_, err := LoadBundle(t.TempDir(), zap.NewNop())
	assert.Error(t, err)
}

func TestLoadBundle_VersionMismatch(t *testing.T) {
	t.Run("vectorizer", func(t *testing.T) {
		dir := t.TempDir()
		va, ca := validArtifacts()
		va.Version = 99
		writeBundle(t, dir, va, ca)

		_, err := LoadBundle(dir, zap.NewNop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "version")
	})

	t.Run("classifier", func(t *testing.T) {
		dir := t.TempDir()
		va, ca := validArtifacts()
		ca.Version = 0
		writeBundle(t, dir, va, ca)

		_, err := LoadBundle(dir, zap.NewNop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "version")
	})
}

func TestLoadBundle_WidthMismatches(t *testing.T) {
	t.Run("scaler not fitted for the engineered width", func(t *testing.T) {
		dir := t.TempDir()
		va, ca := validArtifacts()
		va.ScalerMean = []float64{0, 0}
		va.ScalerScale = []float64{1, 1}
		writeBundle(t, dir, va, ca)

		_, err := LoadBundle(dir, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("classifier width disagrees with vocabulary size", func(t *testing.T) {
		dir := t.TempDir()
		va, ca := validArtifacts()
		ca.NumInputs = core.NumFeatures + 500
		writeBundle(t, dir, va, ca)

		_, err := LoadBundle(dir, zap.NewNop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inputs")
	})

	t.Run("idf does not cover vocabulary", func(t *testing.T) {
		dir := t.TempDir()
		va, ca := validArtifacts()
		va.IDF = []float64{1}
		writeBundle(t, dir, va, ca)

		_, err := LoadBundle(dir, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestLoadBundle_CorruptJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, vectorizerFile), []byte("{nope"), 0644))

	_, err := LoadBundle(dir, zap.NewNop())
	assert.Error(t, err)
}
