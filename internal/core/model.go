package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// InputKind discriminates the two kinds of scan input.
type InputKind int

const (
	InputEmail InputKind = iota
	InputURL
)

// Input is a tagged variant holding exactly one parsed record,
// selected by Kind.
type Input struct {
	Kind  InputKind
	Email *ParsedEmail
	URL   *ParsedURL
}

// ParsedEmail is the structured form of a raw email message.
// Immutable after construction.
type ParsedEmail struct {
	Subject             string
	Sender              string // empty when no From header was present
	Body                string
	URLs                []string // in order of first appearance
	HasAttachmentMarker bool
}

// ParsedURL is the structured form of a raw URL string.
type ParsedURL struct {
	Raw      string
	Scheme   string
	Host     string
	Path     string
	Query    string
	Port     string // empty when no explicit port
	IsIPHost bool
}

// Feature vector slot indices. The ordering is fixed: both input
// variants produce a vector of NumFeatures slots, with the block that
// does not apply to the variant left at zero.
const (
	// Email block
	FeatSubjectLength = iota
	FeatBodyLength
	FeatURLCount
	FeatSuspiciousURLs
	FeatURLRiskScore
	FeatSenderDomainMismatch
	FeatSenderSuspicious
	FeatUrgentWords
	FeatFinancialWords
	FeatPersonalWords
	FeatActionWords
	FeatUrgencyScore
	FeatCapsRatio
	FeatExcessPunct
	FeatHasAttachment
	FeatShortBody

	// URL block
	FeatURLLength
	FeatSubdomainCount
	FeatHasIP
	FeatUsesHTTPS
	FeatNonStandardPort
	FeatPathSymbols
	FeatSuspiciousKeyword
	FeatSuspiciousTLD
	FeatURLShortener

	// NumFeatures is the fixed width of the engineered feature vector.
	NumFeatures
)

var featureNames = [NumFeatures]string{
	"subject_length", "body_length", "url_count", "suspicious_urls",
	"url_risk_score", "sender_domain_mismatch", "sender_suspicious",
	"urgent_words", "financial_words", "personal_words", "action_words",
	"urgency_score", "caps_ratio", "excess_punct", "has_attachment",
	"short_body",
	"url_length", "subdomain_count", "has_ip", "uses_https",
	"non_standard_port", "path_symbols", "suspicious_keyword",
	"suspicious_tld", "url_shortener",
}

// FeatureName returns the documented name of a feature slot.
func FeatureName(i int) string {
	return featureNames[i]
}

// FeatureVector is the engineered numeric features plus the opaque
// bag-of-terms string consumed only by the text vectorizer.
type FeatureVector struct {
	Values     [NumFeatures]float64
	BagOfTerms string
}

// RiskLevel is the discrete bucket derived from a phishing probability.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ScoreResult is the final record returned to callers. The pipeline
// holds no reference to it after return except the cached copy.
type ScoreResult struct {
	ScanID     string         `json:"scan_id"`
	IsPhishing bool           `json:"is_phishing"`
	Confidence float64        `json:"confidence"`
	RiskLevel  RiskLevel      `json:"risk_level"`
	Evidence   map[string]any `json:"evidence"`
	Timestamp  time.Time      `json:"timestamp"`
}

// CacheEntry associates a cached result with its input fingerprint.
type CacheEntry struct {
	Fingerprint string
	Result      *ScoreResult
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// EmailFingerprint computes the cache key for raw email text:
// trimmed, whitespace runs collapsed to a single space.
func EmailFingerprint(raw string) string {
	normalized := strings.Join(strings.Fields(raw), " ")
	return fingerprint("email:" + normalized)
}

// URLFingerprint computes the cache key for a raw URL: trimmed and
// lower-cased.
func URLFingerprint(raw string) string {
	return fingerprint("url:" + strings.ToLower(strings.TrimSpace(raw)))
}

func fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
