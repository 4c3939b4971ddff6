package risk

import (
	"time"

	"github.com/mikey/phishing-detector/internal/core"
)

// Probability bucket boundaries for risk levels. Lower bound inclusive,
// upper bound exclusive, except the final bucket which is closed.
const (
	mediumMin   = 0.3
	highMin     = 0.6
	criticalMin = 0.85
)

// Assessor maps a phishing probability to a discrete risk level and
// composes the final result record. The evidence it attaches is
// descriptive only and never overrides the classifier's decision.
type Assessor struct {
	threshold float64
}

// NewAssessor creates an assessor with the given confidence threshold.
// Inputs scoring at or above it are flagged as phishing; lowering the
// threshold trades more false positives for fewer misses.
func NewAssessor(confidenceThreshold float64) *Assessor {
	return &Assessor{threshold: confidenceThreshold}
}

// Assess composes the score record for a classified input.
func (a *Assessor) Assess(probability float64, input core.Input, features *core.FeatureVector, at time.Time) *core.ScoreResult {
	return &core.ScoreResult{
		IsPhishing: probability >= a.threshold,
		Confidence: probability,
		RiskLevel:  LevelFor(probability),
		Evidence:   evidence(input, features),
		Timestamp:  at,
	}
}

// LevelFor maps a probability to its risk bucket.
func LevelFor(probability float64) core.RiskLevel {
	switch {
	case probability < mediumMin:
		return core.RiskLow
	case probability < highMin:
		return core.RiskMedium
	case probability < criticalMin:
		return core.RiskHigh
	default:
		return core.RiskCritical
	}
}

func evidence(input core.Input, features *core.FeatureVector) map[string]any {
	switch input.Kind {
	case core.InputURL:
		u := input.URL
		return map[string]any{
			"domain":             u.Host,
			"has_ip":             u.IsIPHost,
			"uses_https":         u.Scheme == "https",
			"url_length":         len(u.Raw),
			"suspicious_pattern": features.Values[core.FeatSuspiciousKeyword] > 0,
			"suspicious_tld":     features.Values[core.FeatSuspiciousTLD] > 0,
		}
	default:
		e := input.Email
		return map[string]any{
			"subject":         e.Subject,
			"sender":          e.Sender,
			"url_count":       len(e.URLs),
			"suspicious_urls": int(features.Values[core.FeatSuspiciousURLs]),
			"urls":            e.URLs,
		}
	}
}
