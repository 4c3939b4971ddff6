package utils

import (
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// TextProcessor prepares raw text for the bag-of-terms vectorizer:
// Unicode normalization, UTF-8 sanitization and size bounding.
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor.
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText truncates text to at most maxSize bytes, cutting back
// further if needed so the result stays valid UTF-8. maxSize <= 0
// means no bound.
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	tp.logger.Debug("Text truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)))

	return truncated
}

// SanitizeUTF8 drops invalid UTF-8 sequences from the string.
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				continue
			}
		}
		result = append(result, r)
	}

	return string(result)
}

// ProcessText applies NFKC normalization, sanitization and truncation
// in one pass. Normalization happens first so that visually-disguised
// text (fullwidth letters, compatibility forms) still matches the
// fitted vocabulary.
func (tp *TextProcessor) ProcessText(text string, maxSize int) string {
	normalized := norm.NFKC.String(text)
	sanitized := tp.SanitizeUTF8(normalized)
	return tp.TruncateText(sanitized, maxSize)
}
