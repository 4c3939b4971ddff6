package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScanService runs the scoring pipeline: parse, extract, vectorize,
// scale, classify, assess. It owns the loaded artifacts and the result
// cache, so there is no ambient global state.
type ScanService struct {
	parser     Parser
	extractor  Extractor
	vectorizer Vectorizer
	scaler     Scaler
	classifier Classifier
	assessor   Assessor
	cache      CacheRepository
	logger     *zap.Logger

	cacheEnabled bool
	cacheTTL     time.Duration
	now          func() time.Time
}

// ScanServiceParams collects the dependencies of a ScanService.
type ScanServiceParams struct {
	Parser       Parser
	Extractor    Extractor
	Vectorizer   Vectorizer
	Scaler       Scaler
	Classifier   Classifier
	Assessor     Assessor
	Cache        CacheRepository
	Logger       *zap.Logger
	CacheEnabled bool
	CacheTTL     time.Duration
}

// NewScanService creates a new scoring pipeline service.
func NewScanService(p ScanServiceParams) *ScanService {
	return &ScanService{
		parser:       p.Parser,
		extractor:    p.Extractor,
		vectorizer:   p.Vectorizer,
		scaler:       p.Scaler,
		classifier:   p.Classifier,
		assessor:     p.Assessor,
		cache:        p.Cache,
		logger:       p.Logger,
		cacheEnabled: p.CacheEnabled,
		cacheTTL:     p.CacheTTL,
		now:          time.Now,
	}
}

// WithClock overrides the service clock. Used by tests to control
// cache expiry and result timestamps.
func (s *ScanService) WithClock(now func() time.Time) *ScanService {
	s.now = now
	return s
}

// ScanEmail scores a raw email message.
func (s *ScanService) ScanEmail(ctx context.Context, emailContent string) (*ScoreResult, error) {
	fp := EmailFingerprint(emailContent)
	if result, ok := s.cacheLookup(ctx, fp); ok {
		return result, nil
	}

	parsed, err := s.parser.ParseEmail(emailContent)
	if err != nil {
		return nil, err
	}

	result, err := s.score(Input{Kind: InputEmail, Email: parsed})
	if err != nil {
		return nil, err
	}

	s.cacheStore(ctx, fp, result)
	return result, nil
}

// ScanURL scores a raw URL string.
func (s *ScanService) ScanURL(ctx context.Context, rawURL string) (*ScoreResult, error) {
	fp := URLFingerprint(rawURL)
	if result, ok := s.cacheLookup(ctx, fp); ok {
		return result, nil
	}

	parsed, err := s.parser.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	result, err := s.score(Input{Kind: InputURL, URL: parsed})
	if err != nil {
		return nil, err
	}

	s.cacheStore(ctx, fp, result)
	return result, nil
}

// BatchItem is one element of a batch scan request.
type BatchItem struct {
	Kind InputKind
	Text string
}

// BatchResult is the per-item outcome of a batch scan. Exactly one of
// Result and Err is set.
type BatchResult struct {
	Result *ScoreResult
	Err    error
}

// ScanBatch scores each item independently, preserving input order.
// A failing item never aborts the rest of the batch.
func (s *ScanService) ScanBatch(ctx context.Context, items []BatchItem) []BatchResult {
	results := make([]BatchResult, len(items))
	for i, item := range items {
		var result *ScoreResult
		var err error
		switch item.Kind {
		case InputEmail:
			result, err = s.ScanEmail(ctx, item.Text)
		default:
			result, err = s.ScanURL(ctx, item.Text)
		}
		if err != nil {
			s.logger.Warn("Batch item failed",
				zap.Int("index", i),
				zap.Error(err))
		}
		results[i] = BatchResult{Result: result, Err: err}
	}
	return results
}

// score runs the model stages over an already-parsed input.
func (s *ScanService) score(input Input) (*ScoreResult, error) {
	features := s.extractor.Extract(input)

	textVec, err := s.vectorizer.Vectorize(features.BagOfTerms)
	if err != nil {
		return nil, err
	}

	scaled, err := s.scaler.Scale(features.Values[:])
	if err != nil {
		return nil, err
	}

	combined := make([]float64, 0, len(scaled)+len(textVec))
	combined = append(combined, scaled...)
	combined = append(combined, textVec...)

	probability, err := s.classifier.PredictProba(combined)
	if err != nil {
		return nil, err
	}

	result := s.assessor.Assess(probability, input, features, s.now())
	result.ScanID = uuid.NewString()

	s.logger.Debug("Scored input",
		zap.Float64("probability", probability),
		zap.String("risk_level", string(result.RiskLevel)))

	return result, nil
}

func (s *ScanService) cacheLookup(ctx context.Context, fingerprint string) (*ScoreResult, bool) {
	if !s.cacheEnabled {
		return nil, false
	}
	result, ok := s.cache.Get(ctx, fingerprint)
	if ok {
		s.logger.Debug("Cache hit", zap.String("fingerprint", fingerprint))
	}
	return result, ok
}

func (s *ScanService) cacheStore(ctx context.Context, fingerprint string, result *ScoreResult) {
	if !s.cacheEnabled {
		return
	}
	s.cache.Set(ctx, fingerprint, result, s.cacheTTL)
}
