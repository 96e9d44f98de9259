package checklist

import "strings"

var keySeparators = strings.NewReplacer("_", "-", " ", "-", ".", "-", "/", "-")

// FoldKey reduces a document key to its spelling-insensitive form:
// lowercase, hyphen separated, no leading/trailing/repeated hyphens.
func FoldKey(key string) string {
	folded := keySeparators.Replace(strings.ToLower(strings.TrimSpace(key)))
	for strings.Contains(folded, "--") {
		folded = strings.ReplaceAll(folded, "--", "-")
	}
	return strings.Trim(folded, "-")
}

// Canonicalizer resolves legacy and alias document keys to one canonical key.
// It is the single place key aliasing is decided; every other component works
// on canonical keys only.
type Canonicalizer struct {
	aliases map[string]string
}

func newCanonicalizer(entries []CatalogEntry) *Canonicalizer {
	c := &Canonicalizer{aliases: make(map[string]string, len(entries)*3)}
	for _, e := range entries {
		c.aliases[e.Key] = e.Key
		for _, alias := range e.LegacyAliases {
			c.aliases[FoldKey(alias)] = e.Key
		}
	}
	return c
}

// Canonicalize is total and idempotent. Keys that match no catalog entry come
// back in folded form.
func (c *Canonicalizer) Canonicalize(key string) string {
	folded := FoldKey(key)
	if c == nil || folded == "" {
		return folded
	}
	if canonical, ok := c.aliases[folded]; ok {
		return canonical
	}
	return folded
}

// Known reports whether key resolves to a catalog entry.
func (c *Canonicalizer) Known(key string) bool {
	if c == nil {
		return false
	}
	_, ok := c.aliases[FoldKey(key)]
	return ok
}
