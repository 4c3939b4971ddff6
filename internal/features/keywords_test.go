package features

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeywords(t *testing.T) {
	lists := DefaultKeywords()

	assert.Contains(t, lists.Urgent, "urgent")
	assert.Contains(t, lists.Financial, "payment")
	assert.Contains(t, lists.BrandVerbBlock, "paypal")
	assert.Contains(t, lists.SuspiciousTLDs, ".xyz")
	assert.NotEmpty(t, lists.Shorteners)
}

func TestLoadKeywords_OverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := "urgent:\n  - sofort\n  - dringend\nsuspicious_tlds:\n  - .zip\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	lists, err := LoadKeywords(path)
	require.NoError(t, err)

	// Overridden lists replace the defaults wholesale.
	assert.Equal(t, []string{"sofort", "dringend"}, lists.Urgent)
	assert.Equal(t, []string{".zip"}, lists.SuspiciousTLDs)

	// Untouched lists keep their defaults.
	assert.Contains(t, lists.Action, "click")
	assert.Contains(t, lists.Financial, "invoice")
}

func TestLoadKeywords_Missing(t *testing.T) {
	_, err := LoadKeywords(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
