package factory

import (
	"fmt"

	"github.com/mikey/phishing-detector/internal/config"
	"github.com/mikey/phishing-detector/internal/ml"
	"go.uber.org/zap"
)

// ModelFactory loads the inference artifacts based on configuration
type ModelFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewModelFactory creates a new model factory
func NewModelFactory(cfg *config.Config, logger *zap.Logger) *ModelFactory {
	return &ModelFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// LoadBundle loads the vectorizer, scaler and classifier artifacts.
// Any load failure is fatal for the process: the service must not
// accept traffic without a usable model.
func (f *ModelFactory) LoadBundle() (*ml.Bundle, error) {
	dir := f.cfg.GetModel().Dir
	bundle, err := ml.LoadBundle(dir, f.logger)
	if err != nil {
		return nil, fmt.Errorf("load model bundle from %s: %w", dir, err)
	}
	return bundle, nil
}
