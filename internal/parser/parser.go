package parser

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/mikey/phishing-detector/internal/core"
)

var (
	urlPattern    = regexp.MustCompile(`https?://[A-Za-z0-9$\-_.+!*'(),%&=?/:@~#\[\]]+`)
	headerPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9-]*):\s*(.*)$`)
)

// Parser turns raw scan input into structured records. Stateless.
type Parser struct{}

// New creates a new input parser.
func New() *Parser {
	return &Parser{}
}

// ParseEmail parses raw email text. Header lines are read until the
// first blank line; a first line that does not look like a header means
// the whole text is body. Malformed headers are never an error, only a
// blank input is.
func (p *Parser) ParseEmail(text string) (*core.ParsedEmail, error) {
	if strings.TrimSpace(text) == "" {
		return nil, core.ErrEmptyInput
	}

	parsed := &core.ParsedEmail{
		URLs: extractURLs(text),
	}

	lines := strings.Split(strings.TrimLeft(text, "\r\n"), "\n")
	bodyStart := 0
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			bodyStart = i + 1
			break
		}
		m := headerPattern.FindStringSubmatch(line)
		if m == nil {
			// Not a header block after all; everything is body.
			bodyStart = i
			break
		}
		bodyStart = i + 1
		value := strings.TrimSpace(m[2])
		switch strings.ToLower(m[1]) {
		case "subject":
			parsed.Subject = value
		case "from":
			parsed.Sender = value
		case "content-disposition":
			if strings.Contains(strings.ToLower(value), "attachment") {
				parsed.HasAttachmentMarker = true
			}
		}
	}

	parsed.Body = strings.TrimSpace(strings.Join(lines[bodyStart:], "\n"))
	if !parsed.HasAttachmentMarker {
		parsed.HasAttachmentMarker = hasAttachmentMarker(lines[:bodyStart])
	}

	return parsed, nil
}

// ParseURL parses a raw URL. It fails with core.ErrMalformedInput when
// no host component can be identified.
func (p *Parser) ParseURL(text string) (*core.ParsedURL, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, core.ErrEmptyInput
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, core.ErrMalformedInput
	}

	host := u.Hostname()
	if host == "" {
		return nil, core.ErrMalformedInput
	}

	return &core.ParsedURL{
		Raw:      raw,
		Scheme:   u.Scheme,
		Host:     host,
		Path:     u.Path,
		Query:    u.RawQuery,
		Port:     u.Port(),
		IsIPHost: isIPLiteral(host),
	}, nil
}

// extractURLs scans text for absolute http/https URLs in order of
// appearance. Adjacent identical matches are collapsed; non-adjacent
// repeats are kept, since repetition is itself a signal.
func extractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimRight(m, ".,;:!?)")
		if len(urls) > 0 && urls[len(urls)-1] == m {
			continue
		}
		urls = append(urls, m)
	}
	return urls
}

// hasAttachmentMarker reports whether any header line mentions an
// attachment.
func hasAttachmentMarker(headerLines []string) bool {
	for _, line := range headerLines {
		if strings.Contains(strings.ToLower(line), "attachment") {
			return true
		}
	}
	return false
}

// isIPLiteral reports whether host is a dotted-quad IPv4 or an IPv6
// literal. Never a DNS lookup.
func isIPLiteral(host string) bool {
	return net.ParseIP(host) != nil
}
