package factory

import (
	"fmt"

	"github.com/mikey/phishing-detector/internal/config"
	"github.com/mikey/phishing-detector/internal/features"
	"github.com/mikey/phishing-detector/internal/utils"
	"go.uber.org/zap"
)

// ExtractorFactory creates feature extractors based on configuration
type ExtractorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewExtractorFactory creates a new extractor factory
func NewExtractorFactory(cfg *config.Config, logger *zap.Logger) *ExtractorFactory {
	return &ExtractorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateKeywordLists loads keyword lists from the configured file, or
// the built-in defaults when none is configured. Individual lists can
// also be overridden inline in the main configuration.
func (f *ExtractorFactory) CreateKeywordLists() (*features.KeywordLists, error) {
	lists := features.DefaultKeywords()

	if path := f.cfg.GetKeywords().File; path != "" {
		loaded, err := features.LoadKeywords(path)
		if err != nil {
			return nil, fmt.Errorf("load keyword lists: %w", err)
		}
		f.logger.Info("Loaded keyword lists", zap.String("file", path))
		lists = loaded
	}

	if tlds := f.cfg.GetStringSlice("keywords.suspicious_tlds"); len(tlds) > 0 {
		lists.SuspiciousTLDs = tlds
		f.logger.Info("Using configured suspicious TLDs", zap.Strings("tlds", tlds))
	}

	return lists, nil
}

// CreateExtractor creates a feature extractor with the given keyword
// lists.
func (f *ExtractorFactory) CreateExtractor(keywords *features.KeywordLists) *features.Extractor {
	text := utils.NewTextProcessor(f.logger)
	return features.NewExtractor(keywords, text, f.cfg.GetPipeline().MaxTextSize)
}
