package checklist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T, withMinorItem bool) *Catalog {
	t.Helper()
	entries := []CatalogEntry{
		{Key: "passport", Title: "Passport"},
		{Key: "fbi-report", Title: "FBI report", LegacyAliases: []string{"fbi_report", "background_check"}},
		{Key: "fbi-apostille", Title: "FBI apostille", LegacyAliases: []string{"fbi_apostille"}},
		{Key: "medical-certificate", Title: "Medical certificate", LegacyAliases: []string{"medical_cert"}},
	}
	if withMinorItem {
		entries = append(entries, CatalogEntry{
			Key:                 "parental-authorization",
			Title:               "Parental authorization",
			AppliesOnlyToMinors: true,
		})
	}
	c, err := NewCatalog(entries)
	require.NoError(t, err)
	return c
}

func keysOf(s State) []string {
	keys := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		keys = append(keys, it.Key)
	}
	return keys
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
