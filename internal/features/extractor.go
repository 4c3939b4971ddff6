package features

import (
	"net"
	"net/url"
	"strings"
	"unicode"

	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/utils"
)

// Weights for the aggregate urgency score. Each weight is positive, so
// the score is monotonic in every keyword count.
const (
	urgentWeight    = 0.5
	actionWeight    = 0.3
	financialWeight = 0.15
	personalWeight  = 0.05
)

// Thresholds shared with the original model's training features.
const (
	longURLThreshold   = 100
	shortBodyThreshold = 50
	suspiciousRiskMin  = 0.5
)

// Extractor derives the fixed-width engineered feature vector from a
// parsed record. It is a pure function of its input: same record in,
// same vector out.
type Extractor struct {
	keywords    *KeywordLists
	text        *utils.TextProcessor
	maxTextSize int
}

// NewExtractor creates a feature extractor using the given keyword
// lists. maxTextSize bounds the bag-of-terms string handed to the text
// vectorizer; <= 0 means no bound.
func NewExtractor(keywords *KeywordLists, text *utils.TextProcessor, maxTextSize int) *Extractor {
	return &Extractor{
		keywords:    keywords,
		text:        text,
		maxTextSize: maxTextSize,
	}
}

// Extract returns a vector of core.NumFeatures slots for either input
// variant. Slots belonging to the other variant stay at zero.
func (e *Extractor) Extract(input core.Input) *core.FeatureVector {
	switch input.Kind {
	case core.InputURL:
		return e.extractURL(input.URL)
	default:
		return e.extractEmail(input.Email)
	}
}

func (e *Extractor) extractEmail(email *core.ParsedEmail) *core.FeatureVector {
	v := &core.FeatureVector{}

	subject := strings.ToLower(email.Subject)
	body := strings.ToLower(email.Body)
	combined := subject + " " + body

	v.Values[core.FeatSubjectLength] = float64(len(subject))
	v.Values[core.FeatBodyLength] = float64(len(body))
	v.Values[core.FeatURLCount] = float64(len(email.URLs))

	urgent := countOccurrences(combined, e.keywords.Urgent)
	financial := countOccurrences(combined, e.keywords.Financial)
	personal := countOccurrences(combined, e.keywords.Personal)
	action := countOccurrences(combined, e.keywords.Action)

	v.Values[core.FeatUrgentWords] = float64(urgent)
	v.Values[core.FeatFinancialWords] = float64(financial)
	v.Values[core.FeatPersonalWords] = float64(personal)
	v.Values[core.FeatActionWords] = float64(action)
	v.Values[core.FeatUrgencyScore] = urgentWeight*float64(urgent) +
		actionWeight*float64(action) +
		financialWeight*float64(financial) +
		personalWeight*float64(personal)

	suspicious, riskScore := e.analyzeEmailURLs(email.URLs)
	v.Values[core.FeatSuspiciousURLs] = float64(suspicious)
	v.Values[core.FeatURLRiskScore] = riskScore

	v.Values[core.FeatSenderDomainMismatch] = boolFeature(e.senderDomainMismatch(email.Sender, email.URLs))
	v.Values[core.FeatSenderSuspicious] = boolFeature(e.senderSuspicious(email.Sender))

	v.Values[core.FeatCapsRatio] = capsRatio(email.Subject + " " + email.Body)
	v.Values[core.FeatExcessPunct] = float64(excessPunctuation(email.Subject + " " + email.Body))
	v.Values[core.FeatHasAttachment] = boolFeature(email.HasAttachmentMarker)
	v.Values[core.FeatShortBody] = boolFeature(len(body) < shortBodyThreshold)

	v.BagOfTerms = e.bagOfTerms(combined)
	return v
}

func (e *Extractor) extractURL(u *core.ParsedURL) *core.FeatureVector {
	v := &core.FeatureVector{}
	a := e.analyzeParsedURL(u)

	v.Values[core.FeatURLLength] = float64(len(u.Raw))
	v.Values[core.FeatSubdomainCount] = float64(subdomainCount(u.Host))
	v.Values[core.FeatHasIP] = boolFeature(a.hasIP)
	v.Values[core.FeatUsesHTTPS] = boolFeature(a.usesHTTPS)
	v.Values[core.FeatNonStandardPort] = boolFeature(a.nonStandardPort)
	v.Values[core.FeatPathSymbols] = float64(pathSymbolCount(u.Path, u.Query))
	v.Values[core.FeatSuspiciousKeyword] = boolFeature(a.patternMatch)
	v.Values[core.FeatSuspiciousTLD] = boolFeature(a.suspiciousTLD)
	v.Values[core.FeatURLShortener] = boolFeature(e.isShortener(u.Host))

	v.BagOfTerms = e.bagOfTerms(strings.ToLower(u.Raw))
	return v
}

// urlAnalysis holds the per-URL signals feeding both the URL feature
// block and the email-side URL risk aggregation.
type urlAnalysis struct {
	hasIP           bool
	usesHTTPS       bool
	nonStandardPort bool
	patternMatch    bool
	suspiciousTLD   bool
	longURL         bool
}

// risk is the weighted per-URL risk in [0,1].
func (a urlAnalysis) risk() float64 {
	risk := 0.0
	if a.hasIP {
		risk += 0.3
	}
	if a.patternMatch {
		risk += 0.3
	}
	if !a.usesHTTPS {
		risk += 0.2
	}
	if a.longURL {
		risk += 0.1
	}
	if a.suspiciousTLD {
		risk += 0.1
	}
	if risk > 1.0 {
		risk = 1.0
	}
	return risk
}

// suspicious applies the blocklist rule: IP-literal host or a
// brand/verb blocklist match.
func (a urlAnalysis) suspicious() bool {
	return a.hasIP || a.patternMatch
}

func (e *Extractor) analyzeParsedURL(u *core.ParsedURL) urlAnalysis {
	lower := strings.ToLower(u.Raw)
	return urlAnalysis{
		hasIP:           u.IsIPHost,
		usesHTTPS:       u.Scheme == "https",
		nonStandardPort: nonStandardPort(u.Scheme, u.Port),
		patternMatch:    containsAny(lower, e.keywords.BrandVerbBlock),
		suspiciousTLD:   hasSuffixAny(strings.ToLower(u.Host), e.keywords.SuspiciousTLDs),
		longURL:         len(u.Raw) > longURLThreshold,
	}
}

// analyzeEmailURLs aggregates per-URL risk over the URLs embedded in an
// email body: the count of suspicious URLs and the mean risk score.
func (e *Extractor) analyzeEmailURLs(urls []string) (suspicious int, meanRisk float64) {
	if len(urls) == 0 {
		return 0, 0
	}

	total := 0.0
	for _, raw := range urls {
		a := e.analyzeRawURL(raw)
		total += a.risk()
		if a.suspicious() || a.risk() > suspiciousRiskMin {
			suspicious++
		}
	}
	return suspicious, total / float64(len(urls))
}

// analyzeRawURL parses leniently; an unparseable URL contributes no
// signals rather than failing extraction.
func (e *Extractor) analyzeRawURL(raw string) urlAnalysis {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return urlAnalysis{}
	}
	parsed := &core.ParsedURL{
		Raw:      raw,
		Scheme:   u.Scheme,
		Host:     u.Hostname(),
		Path:     u.Path,
		Query:    u.RawQuery,
		Port:     u.Port(),
		IsIPHost: isIPHost(u.Hostname()),
	}
	return e.analyzeParsedURL(parsed)
}

// senderDomainMismatch reports whether the sender's domain appears in
// none of the embedded URLs while both sides are non-empty.
func (e *Extractor) senderDomainMismatch(sender string, urls []string) bool {
	domain := senderDomain(sender)
	if domain == "" || len(urls) == 0 {
		return false
	}
	for _, u := range urls {
		if strings.Contains(strings.ToLower(u), domain) {
			return false
		}
	}
	return true
}

// senderSuspicious flags role-account sender names (admin, support,
// noreply and friends) on free-mail domains. A role account on the
// organization's own domain is ordinary mail.
func (e *Extractor) senderSuspicious(sender string) bool {
	if !hasSuffixAny(senderDomain(sender), e.keywords.FreeMailDomains) {
		return false
	}
	return containsAny(strings.ToLower(sender), e.keywords.SuspiciousSenders)
}

func (e *Extractor) isShortener(host string) bool {
	host = strings.ToLower(host)
	for _, s := range e.keywords.Shorteners {
		if host == s || strings.HasSuffix(host, "."+s) {
			return true
		}
	}
	return false
}

// bagOfTerms normalizes and bounds the text handed to the vectorizer.
func (e *Extractor) bagOfTerms(text string) string {
	return e.text.ProcessText(text, e.maxTextSize)
}

// boolFeature encodes a boolean signal as an indicator value.
func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func countOccurrences(text string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		count += strings.Count(text, kw)
	}
	return count
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func hasSuffixAny(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func senderDomain(sender string) string {
	at := strings.LastIndex(sender, "@")
	if at < 0 || at == len(sender)-1 {
		return ""
	}
	domain := strings.ToLower(sender[at+1:])
	// Display-name forms like "Support <support@x.com>".
	domain = strings.TrimRight(domain, "> ")
	return domain
}

// capsRatio is the fraction of alphabetic characters that are
// uppercase.
func capsRatio(text string) float64 {
	letters, upper := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}

// excessPunctuation counts exclamation or question marks beyond the
// first in each consecutive run.
func excessPunctuation(text string) int {
	excess, run := 0, 0
	for _, r := range text {
		if r == '!' || r == '?' {
			run++
			if run > 1 {
				excess++
			}
		} else {
			run = 0
		}
	}
	return excess
}

func subdomainCount(host string) int {
	labels := len(strings.Split(host, "."))
	if labels <= 2 {
		return 0
	}
	return labels - 2
}

func nonStandardPort(scheme, port string) bool {
	if port == "" {
		return false
	}
	switch scheme {
	case "http":
		return port != "80"
	case "https":
		return port != "443"
	default:
		return true
	}
}

func pathSymbolCount(path, query string) int {
	count := 0
	for _, r := range path + query {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			count++
		}
	}
	return count
}

func isIPHost(host string) bool {
	return net.ParseIP(host) != nil
}
