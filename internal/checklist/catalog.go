package checklist

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	dErrors "visaflow/pkg/domain-errors"
)

// Well-known canonical keys of the default catalog.
const (
	KeyPassport              = "passport"
	KeyBackgroundCheck       = "fbi-report"
	KeyBackgroundApostille   = "fbi-apostille"
	KeyMedicalCertificate    = "medical-certificate"
	KeyProofOfFunds          = "proof-of-funds"
	KeyHealthInsurance       = "health-insurance"
	KeyAcceptanceLetter      = "acceptance-letter"
	KeyParentalAuthorization = "parental-authorization"
	KeyVisaApproval          = "visa-approval"
)

// CatalogEntry defines one required document type.
type CatalogEntry struct {
	Key                 string   `yaml:"key" json:"key"`
	Title               string   `yaml:"title" json:"title"`
	AppliesOnlyToMinors bool     `yaml:"applies_only_to_minors" json:"appliesOnlyToMinors"`
	LegacyAliases       []string `yaml:"legacy_aliases" json:"legacyAliases,omitempty"`
	SampleURL           string   `yaml:"sample_url" json:"sampleUrl,omitempty"`
}

// Catalog is the ordered, validated list of required documents plus the key
// canonicalizer derived from it. It is immutable after construction.
type Catalog struct {
	entries []CatalogEntry
	canon   *Canonicalizer
}

// NewCatalog folds and validates entries.
//
// Invariants:
//   - every canonical key is non-empty and already in folded form
//   - canonical keys and aliases are unique across the whole catalog
func NewCatalog(entries []CatalogEntry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "catalog must list at least one document")
	}
	owner := make(map[string]string)
	folded := make([]CatalogEntry, 0, len(entries))
	for _, e := range entries {
		key := FoldKey(e.Key)
		if key == "" {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "catalog entry key cannot be empty")
		}
		if prev, ok := owner[key]; ok {
			return nil, dErrors.New(dErrors.CodeInvariantViolation,
				fmt.Sprintf("catalog key %q collides with entry %q", key, prev))
		}
		owner[key] = key
		aliases := make([]string, 0, len(e.LegacyAliases))
		for _, alias := range e.LegacyAliases {
			alias = strings.TrimSpace(alias)
			if alias == "" {
				continue
			}
			fa := FoldKey(alias)
			if fa == "" {
				return nil, dErrors.New(dErrors.CodeInvariantViolation,
					fmt.Sprintf("alias %q of %q has no letters or digits", alias, key))
			}
			if prev, ok := owner[fa]; ok && prev != key {
				return nil, dErrors.New(dErrors.CodeInvariantViolation,
					fmt.Sprintf("alias %q of %q collides with entry %q", alias, key, prev))
			}
			owner[fa] = key
			aliases = append(aliases, alias)
		}
		folded = append(folded, CatalogEntry{
			Key:                 key,
			Title:               strings.TrimSpace(e.Title),
			AppliesOnlyToMinors: e.AppliesOnlyToMinors,
			LegacyAliases:       aliases,
			SampleURL:           strings.TrimSpace(e.SampleURL),
		})
	}
	return &Catalog{entries: folded, canon: newCanonicalizer(folded)}, nil
}

// Entries returns a copy of the catalog in order.
func (c *Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of documents in the catalog.
func (c *Catalog) Len() int { return len(c.entries) }

// Canonicalizer returns the key resolver derived from this catalog.
func (c *Catalog) Canonicalizer() *Canonicalizer { return c.canon }

// Canonicalize resolves key through the catalog's alias table.
func (c *Catalog) Canonicalize(key string) string { return c.canon.Canonicalize(key) }

// Entry looks up an entry by canonical or alias key.
func (c *Catalog) Entry(key string) (CatalogEntry, bool) {
	canonical := c.canon.Canonicalize(key)
	for _, e := range c.entries {
		if e.Key == canonical {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// GateKeys names the documents the route gate depends on.
type GateKeys struct {
	SpainRequired []string `yaml:"spain_required"`
	USAApproval   string   `yaml:"usa_approval"`
}

// Definition is the on-disk catalog file: the document list plus gate keys.
type Definition struct {
	Documents []CatalogEntry `yaml:"documents"`
	Gate      GateKeys       `yaml:"gate"`
}

// Catalog builds and validates the catalog described by d.
func (d Definition) Catalog() (*Catalog, error) {
	return NewCatalog(d.Documents)
}

// ParseDefinition decodes a YAML catalog definition.
func ParseDefinition(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid catalog definition")
	}
	if len(def.Gate.SpainRequired) == 0 && def.Gate.USAApproval == "" {
		def.Gate = DefaultGateKeys()
	}
	return def, nil
}

// LoadDefinition reads a YAML catalog definition from path.
func LoadDefinition(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseDefinition(data)
}

// DefaultGateKeys returns the gate documents of the built-in catalog.
func DefaultGateKeys() GateKeys {
	return GateKeys{
		SpainRequired: []string{KeyBackgroundCheck, KeyBackgroundApostille},
		USAApproval:   KeyVisaApproval,
	}
}

// DefaultDefinition returns the built-in student-athlete catalog.
func DefaultDefinition() Definition {
	return Definition{
		Documents: []CatalogEntry{
			{Key: KeyPassport, Title: "Valid passport", LegacyAliases: []string{"pasaporte", "passport-copy"}},
			{
				Key:           KeyBackgroundCheck,
				Title:         "FBI background check",
				LegacyAliases: []string{"fbi_report", "background-check", "background_check", "criminal-record"},
				SampleURL:     "https://docs.visaflow.app/samples/fbi-report.pdf",
			},
			{
				Key:           KeyBackgroundApostille,
				Title:         "Apostille of the FBI background check",
				LegacyAliases: []string{"fbi_apostille", "apostille", "background-check-apostille"},
				SampleURL:     "https://docs.visaflow.app/samples/fbi-apostille.pdf",
			},
			{
				Key:           KeyMedicalCertificate,
				Title:         "Medical certificate",
				LegacyAliases: []string{"medical_certificate", "medical-cert", "certificado-medico"},
				SampleURL:     "https://docs.visaflow.app/samples/medical-certificate.pdf",
			},
			{Key: KeyProofOfFunds, Title: "Proof of financial means", LegacyAliases: []string{"proof_of_funds", "bank-statement"}},
			{Key: KeyHealthInsurance, Title: "Health insurance certificate", LegacyAliases: []string{"health_insurance", "insurance"}},
			{Key: KeyAcceptanceLetter, Title: "Club or school acceptance letter", LegacyAliases: []string{"acceptance_letter", "admission-letter"}},
			{
				Key:                 KeyParentalAuthorization,
				Title:               "Notarized parental authorization",
				AppliesOnlyToMinors: true,
				LegacyAliases:       []string{"parental_authorization", "parental-consent", "parent-authorization"},
			},
			{Key: KeyVisaApproval, Title: "Approved student visa", LegacyAliases: []string{"visa_approval", "approved-visa", "visa"}},
		},
		Gate: DefaultGateKeys(),
	}
}

// MustDefaultCatalog returns the built-in catalog. It panics only if the
// built-in definition itself is inconsistent.
func MustDefaultCatalog() *Catalog {
	c, err := DefaultDefinition().Catalog()
	if err != nil {
		panic(err)
	}
	return c
}
