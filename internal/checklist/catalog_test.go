package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "visaflow/pkg/domain-errors"
)

func TestNewCatalog(t *testing.T) {
	t.Run("folds keys and keeps order", func(t *testing.T) {
		c, err := NewCatalog([]CatalogEntry{
			{Key: "Proof_Of_Funds", Title: " Funds "},
			{Key: "passport", Title: "Passport"},
		})
		require.NoError(t, err)
		entries := c.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "proof-of-funds", entries[0].Key)
		assert.Equal(t, "Funds", entries[0].Title)
		assert.Equal(t, "passport", entries[1].Key)
	})

	t.Run("rejects empty catalog", func(t *testing.T) {
		_, err := NewCatalog(nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects duplicate keys after folding", func(t *testing.T) {
		_, err := NewCatalog([]CatalogEntry{{Key: "fbi-report"}, {Key: "FBI_REPORT"}})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects alias owned by another entry", func(t *testing.T) {
		_, err := NewCatalog([]CatalogEntry{
			{Key: "fbi-report", LegacyAliases: []string{"apostille"}},
			{Key: "apostille"},
		})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects alias that folds to nothing", func(t *testing.T) {
		_, err := NewCatalog([]CatalogEntry{{Key: "passport", LegacyAliases: []string{"--"}}})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("empty keys never resolve to a document", func(t *testing.T) {
		c := MustDefaultCatalog().Canonicalizer()
		for _, k := range []string{"", "__", " - "} {
			assert.Empty(t, c.Canonicalize(k), k)
			assert.False(t, c.Known(k), k)
		}
	})

	t.Run("default catalog is consistent", func(t *testing.T) {
		c := MustDefaultCatalog()
		assert.Equal(t, 9, c.Len())
		e, ok := c.Entry("background_check")
		require.True(t, ok)
		assert.Equal(t, KeyBackgroundCheck, e.Key)
	})
}

func TestParseDefinition(t *testing.T) {
	t.Run("reads documents and gate keys", func(t *testing.T) {
		def, err := ParseDefinition([]byte(`
documents:
  - key: passport
    title: Passport
  - key: fbi-report
    title: FBI report
    legacy_aliases: [fbi_report]
  - key: parental-authorization
    title: Parental authorization
    applies_only_to_minors: true
gate:
  spain_required: [fbi-report]
  usa_approval: visa-approval
`))
		require.NoError(t, err)
		c, err := def.Catalog()
		require.NoError(t, err)
		assert.Equal(t, 3, c.Len())
		assert.True(t, c.Entries()[2].AppliesOnlyToMinors)
		assert.Equal(t, []string{"fbi-report"}, def.Gate.SpainRequired)
		assert.Equal(t, "visa-approval", def.Gate.USAApproval)
	})

	t.Run("missing gate section falls back to defaults", func(t *testing.T) {
		def, err := ParseDefinition([]byte("documents:\n  - key: passport\n"))
		require.NoError(t, err)
		assert.Equal(t, DefaultGateKeys(), def.Gate)
	})

	t.Run("invalid yaml is an input error", func(t *testing.T) {
		_, err := ParseDefinition([]byte("documents: [unterminated"))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
