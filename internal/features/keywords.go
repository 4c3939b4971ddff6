package features

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KeywordLists holds the heuristic term lists the extractor matches
// against. They are explicit, immutable configuration data rather than
// package-level constants, so deployments can swap them without
// touching extraction logic.
type KeywordLists struct {
	Urgent            []string `yaml:"urgent"`
	Financial         []string `yaml:"financial"`
	Personal          []string `yaml:"personal"`
	Action            []string `yaml:"action"`
	SuspiciousSenders []string `yaml:"suspicious_senders"`
	FreeMailDomains   []string `yaml:"free_mail_domains"`
	BrandVerbBlock    []string `yaml:"brand_verb_block"`
	SuspiciousTLDs    []string `yaml:"suspicious_tlds"`
	Shorteners        []string `yaml:"shorteners"`
}

// DefaultKeywords returns the built-in heuristic lists.
func DefaultKeywords() *KeywordLists {
	return &KeywordLists{
		Urgent: []string{
			"urgent", "immediate", "critical", "expire", "expired",
			"confirm", "verify", "validate", "act now", "limited time",
			"suspended", "unusual activity",
		},
		Financial: []string{
			"payment", "billing", "credit card", "account", "bank",
			"refund", "tax", "invoice", "transaction", "unauthorized",
		},
		Personal: []string{
			"identity", "password", "personal information", "ssn",
			"driver license", "social security", "prove", "confirm identity",
		},
		Action: []string{
			"click", "download", "install", "open", "submit", "update",
			"reset", "change", "confirm", "respond",
		},
		SuspiciousSenders: []string{
			"admin", "support", "noreply", "notification", "no-reply",
			"donotreply", "mailer",
		},
		FreeMailDomains: []string{
			"gmail.com", "yahoo.com", "hotmail.com", "outlook.com",
		},
		BrandVerbBlock: []string{
			"verify", "confirm", "update", "login", "signin", "account",
			"security", "confirm-identity",
			"paypal", "amazon", "apple", "microsoft", "google", "bank",
		},
		SuspiciousTLDs: []string{
			".tk", ".ml", ".ga", ".cf", ".top", ".pw", ".xyz",
		},
		Shorteners: []string{
			"bit.ly", "tinyurl.com", "goo.gl", "t.co", "ow.ly",
			"is.gd", "short.link",
		},
	}
}

// LoadKeywords reads keyword lists from a YAML file. Lists absent from
// the file keep their built-in defaults.
func LoadKeywords(path string) (*KeywordLists, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyword file: %w", err)
	}

	lists := DefaultKeywords()
	if err := yaml.Unmarshal(data, lists); err != nil {
		return nil, fmt.Errorf("parse keyword file %s: %w", path, err)
	}
	return lists, nil
}
