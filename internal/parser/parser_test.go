package parser

import (
	"testing"

	"github.com/mikey/phishing-detector/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmail_Headers(t *testing.T) {
	p := New()

	tests := []struct {
		name        string
		text        string
		wantSubject string
		wantSender  string
		wantBody    string
	}{
		{
			name:        "subject and from headers",
			text:        "Subject: Quarterly report\nFrom: alice@example.com\n\nPlease find the report attached.",
			wantSubject: "Quarterly report",
			wantSender:  "alice@example.com",
			wantBody:    "Please find the report attached.",
		},
		{
			name:        "case-insensitive header keys",
			text:        "SUBJECT: Hello\nfrom: bob@example.com\n\nHi there.",
			wantSubject: "Hello",
			wantSender:  "bob@example.com",
			wantBody:    "Hi there.",
		},
		{
			name:        "missing headers default to empty",
			text:        "Just a plain message with no headers at all.",
			wantSubject: "",
			wantSender:  "",
			wantBody:    "Just a plain message with no headers at all.",
		},
		{
			name:        "subject only",
			text:        "Subject: URGENT: Verify Your Account\n\nClick here immediately to verify your account or it will be suspended!",
			wantSubject: "URGENT: Verify Your Account",
			wantSender:  "",
			wantBody:    "Click here immediately to verify your account or it will be suspended!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := p.ParseEmail(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSubject, parsed.Subject)
			assert.Equal(t, tt.wantSender, parsed.Sender)
			assert.Equal(t, tt.wantBody, parsed.Body)
		})
	}
}

func TestParseEmail_EmptyInput(t *testing.T) {
	p := New()

	for _, text := range []string{"", "   ", "\n\n\t"} {
		_, err := p.ParseEmail(text)
		assert.ErrorIs(t, err, core.ErrEmptyInput)
	}
}

func TestParseEmail_URLExtraction(t *testing.T) {
	p := New()

	t.Run("order of appearance preserved", func(t *testing.T) {
		parsed, err := p.ParseEmail("Visit https://example.com first, then http://test.org for more.")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com", "http://test.org"}, parsed.URLs)
	})

	t.Run("adjacent duplicates collapsed, distant repeats kept", func(t *testing.T) {
		text := "Go to http://a.com http://a.com now.\nAlso see http://b.com and again http://a.com"
		parsed, err := p.ParseEmail(text)
		require.NoError(t, err)
		assert.Equal(t, []string{"http://a.com", "http://b.com", "http://a.com"}, parsed.URLs)
	})

	t.Run("no urls", func(t *testing.T) {
		parsed, err := p.ParseEmail("Subject: Meeting\n\nSee you at 2pm.")
		require.NoError(t, err)
		assert.Empty(t, parsed.URLs)
	})

	t.Run("trailing punctuation stripped", func(t *testing.T) {
		parsed, err := p.ParseEmail("Check https://example.com/login.")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/login"}, parsed.URLs)
	})
}

func TestParseEmail_AttachmentMarker(t *testing.T) {
	p := New()

	withMarker, err := p.ParseEmail("Subject: Invoice\nContent-Disposition: attachment; filename=invoice.pdf\n\nSee attached.")
	require.NoError(t, err)
	assert.True(t, withMarker.HasAttachmentMarker)

	without, err := p.ParseEmail("Subject: Invoice\n\nNo files here.")
	require.NoError(t, err)
	assert.False(t, without.HasAttachmentMarker)
}

func TestParseURL(t *testing.T) {
	p := New()

	tests := []struct {
		name     string
		raw      string
		wantHost string
		wantIP   bool
		wantPort string
	}{
		{name: "https domain", raw: "https://www.google.com", wantHost: "www.google.com"},
		{name: "dotted-quad host", raw: "http://192.168.1.1/", wantHost: "192.168.1.1", wantIP: true},
		{name: "bracketed ipv6 host", raw: "http://[2001:db8::1]/index", wantHost: "2001:db8::1", wantIP: true},
		{name: "explicit port", raw: "http://example.com:8080/login", wantHost: "example.com", wantPort: "8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := p.ParseURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, parsed.Host)
			assert.Equal(t, tt.wantIP, parsed.IsIPHost)
			assert.Equal(t, tt.wantPort, parsed.Port)
		})
	}
}

func TestParseURL_Components(t *testing.T) {
	p := New()

	parsed, err := p.ParseURL("https://login.example.co.uk/account/verify?id=42&next=home")
	require.NoError(t, err)
	assert.Equal(t, "https", parsed.Scheme)
	assert.Equal(t, "login.example.co.uk", parsed.Host)
	assert.Equal(t, "/account/verify", parsed.Path)
	assert.Equal(t, "id=42&next=home", parsed.Query)
	assert.False(t, parsed.IsIPHost)
}

func TestParseURL_Malformed(t *testing.T) {
	p := New()

	for _, raw := range []string{"not a url", "/relative/path", "mailto:", "example.com"} {
		t.Run(raw, func(t *testing.T) {
			_, err := p.ParseURL(raw)
			assert.ErrorIs(t, err, core.ErrMalformedInput)
		})
	}

	_, err := p.ParseURL("   ")
	assert.ErrorIs(t, err, core.ErrEmptyInput)
}
