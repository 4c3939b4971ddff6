package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/config"
	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/factory"
	"github.com/mikey/phishing-detector/internal/features"
	"github.com/mikey/phishing-detector/internal/logging"
	"github.com/mikey/phishing-detector/internal/ml"
	"github.com/mikey/phishing-detector/internal/parser"
	"github.com/mikey/phishing-detector/internal/risk"
)

// CLIFlags contains the command line overrides for the scanner
type CLIFlags struct {
	// Pipeline overrides; Threshold < 0 means "use configuration"
	Threshold    float64
	ModelDir     string
	KeywordsFile string

	// Logging flags
	Verbose bool
	JSONLog bool
}

// BuildContainer creates and configures a dependency injection container
func BuildContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags) (*config.Config, error) {
		cfg, err := config.New()
		if err != nil {
			return nil, err
		}
		return applyFlagOverrides(cfg, flags), nil
	}); err != nil {
		return nil, err
	}

	// Register logger. Console flags take precedence over the
	// configured logging format and level.
	if err := container.Provide(func(flags *CLIFlags, cfg *config.Config) (*zap.Logger, error) {
		if flags.Verbose || flags.JSONLog {
			return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
		}
		return logging.InitLogger(cfg)
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewModelFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewExtractorFactory); err != nil {
		return nil, err
	}

	// Register model artifacts. Loading happens once here; a bad
	// bundle fails container invocation and the process never serves.
	if err := container.Provide(func(f *factory.ModelFactory) (*ml.Bundle, error) {
		return f.LoadBundle()
	}); err != nil {
		return nil, err
	}

	// Register pipeline stages
	if err := container.Provide(func() core.Parser {
		return parser.New()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.ExtractorFactory) (*features.KeywordLists, error) {
		return f.CreateKeywordLists()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.ExtractorFactory, keywords *features.KeywordLists) core.Extractor {
		return f.CreateExtractor(keywords)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.Assessor {
		threshold := cfg.GetPipeline().ConfidenceThreshold
		logger.Info("Configured confidence threshold", zap.Float64("threshold", threshold))
		return risk.NewAssessor(threshold)
	}); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register scan service
	if err := container.Provide(func(
		p core.Parser,
		extractor core.Extractor,
		bundle *ml.Bundle,
		assessor core.Assessor,
		cacheRepo core.CacheRepository,
		cacheFactory *factory.CacheFactory,
		logger *zap.Logger,
	) (*core.ScanService, error) {
		ttl, err := cacheFactory.GetCacheTTL()
		if err != nil {
			return nil, err
		}
		return core.NewScanService(core.ScanServiceParams{
			Parser:       p,
			Extractor:    extractor,
			Vectorizer:   bundle.Vectorizer,
			Scaler:       bundle.Scaler,
			Classifier:   bundle.Classifier,
			Assessor:     assessor,
			Cache:        cacheRepo,
			Logger:       logger,
			CacheEnabled: cacheFactory.IsCacheEnabled(),
			CacheTTL:     ttl,
		}), nil
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// applyFlagOverrides layers command line overrides on top of the file
// and environment configuration.
func applyFlagOverrides(cfg *config.Config, flags *CLIFlags) *config.Config {
	v := cfg.GetViper()
	if flags.Threshold >= 0 {
		v.Set("pipeline.confidence_threshold", flags.Threshold)
	}
	if flags.ModelDir != "" {
		v.Set("model.dir", flags.ModelDir)
	}
	if flags.KeywordsFile != "" {
		v.Set("keywords.file", flags.KeywordsFile)
	}
	return config.NewFromViper(v)
}
