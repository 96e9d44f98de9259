package checklist

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type NormalizeSuite struct {
	suite.Suite
	catalog *Catalog
}

func (s *NormalizeSuite) SetupTest() {
	s.catalog = newTestCatalog(s.T(), false)
}

func TestNormalizeSuite(t *testing.T) {
	suite.Run(t, new(NormalizeSuite))
}

func (s *NormalizeSuite) decode(js string) any {
	var v any
	s.Require().NoError(json.Unmarshal([]byte(js), &v))
	return v
}

func (s *NormalizeSuite) item(st State, key string) Item {
	it, ok := st.Item(key)
	s.Require().True(ok, "missing item %s", key)
	return it
}

// TestEmptyRecord covers a user whose checklist was never persisted.
func (s *NormalizeSuite) TestEmptyRecord() {
	st := Normalize(s.catalog, nil, false)

	s.Len(st.Items, 4)
	s.Equal(4, st.Total)
	s.Equal(0, st.Verified)
	s.Equal(0, ComputeProgress(st).Percent)
	for _, it := range st.Items {
		s.Equal(StatusNotStarted, it.Status)
		s.Nil(it.File)
		s.Nil(it.Review)
	}
}

// TestAliasKeyedVerifiedItem covers a legacy underscore key carrying a verification.
func (s *NormalizeSuite) TestAliasKeyedVerifiedItem() {
	st := Normalize(s.catalog, s.decode(`{"fbi_report": {"status": "verified"}}`), false)

	it := s.item(st, "fbi-report")
	s.Equal("fbi-report", it.Key)
	s.Equal(StatusVerified, it.Status)
	s.Equal(1, st.Verified)
}

func (s *NormalizeSuite) TestShapes() {
	s.Run("array of items", func() {
		st := Normalize(s.catalog, s.decode(`[
			{"key": "background_check", "status": "uploaded", "file_url": "https://files/fbi.pdf", "file_name": "fbi.pdf"},
			{"key": "passport", "status": "verified"}
		]`), false)
		fbi := s.item(st, "fbi-report")
		s.Equal(StatusUploaded, fbi.Status)
		s.Equal(&File{URL: "https://files/fbi.pdf", Name: "fbi.pdf"}, fbi.File)
		s.Equal(StatusVerified, s.item(st, "passport").Status)
	})

	s.Run("items envelope with keyed entries beside it", func() {
		st := Normalize(s.catalog, s.decode(`{
			"items": [{"key": "passport", "status": "uploaded", "fileUrl": "u1"}],
			"fbi_apostille": {"status": "verified"},
			"total": 99,
			"verified": 42
		}`), false)
		s.Equal(StatusUploaded, s.item(st, "passport").Status)
		s.Equal(StatusVerified, s.item(st, "fbi-apostille").Status)
		s.Equal(4, st.Total)
		s.Equal(1, st.Verified)
	})

	s.Run("items stored as a keyed object", func() {
		st := Normalize(s.catalog, s.decode(`{"items": {"medical_cert": {"status": "approved"}}}`), false)
		s.Equal(StatusVerified, s.item(st, "medical-certificate").Status)
	})

	s.Run("per-key status shorthand", func() {
		st := Normalize(s.catalog, s.decode(`{"passport": "submitted"}`), false)
		s.Equal(StatusUploaded, s.item(st, "passport").Status)
	})

	s.Run("raw json bytes", func() {
		st := Normalize(s.catalog, json.RawMessage(`{"passport":{"status":"verified"}}`), false)
		s.Equal(StatusVerified, s.item(st, "passport").Status)
	})

	s.Run("undeclared spelling still canonicalizes", func() {
		st := Normalize(s.catalog, s.decode(`{"FBI Report": {"status": "verified"}}`), false)
		s.Equal(StatusVerified, s.item(st, "fbi-report").Status)
	})
}

func (s *NormalizeSuite) TestResolutionOrder() {
	s.Run("canonical key wins over alias", func() {
		st := Normalize(s.catalog, s.decode(`{
			"fbi_report": {"status": "denied", "denialReason": "expired"},
			"fbi-report": {"status": "verified"}
		}`), false)
		s.Equal(StatusVerified, s.item(st, "fbi-report").Status)
	})

	s.Run("first array entry wins", func() {
		st := Normalize(s.catalog, s.decode(`[
			{"key": "passport", "status": "verified"},
			{"key": "passport", "status": "uploaded", "fileUrl": "u"}
		]`), false)
		s.Equal(StatusVerified, s.item(st, "passport").Status)
	})

	s.Run("malformed canonical entry falls through to alias", func() {
		st := Normalize(s.catalog, s.decode(`{"fbi-report": 17, "fbi_report": {"status": "verified"}}`), false)
		s.Equal(StatusVerified, s.item(st, "fbi-report").Status)
	})
}

func (s *NormalizeSuite) TestCatalogOrderAndNoGhosts() {
	st := Normalize(s.catalog, s.decode(`[
		{"key": "medical_cert", "status": "verified"},
		{"key": "driver-license", "status": "verified"},
		{"key": "passport", "status": "verified"}
	]`), false)

	s.Equal([]string{"passport", "fbi-report", "fbi-apostille", "medical-certificate"}, keysOf(st))
	s.Equal(2, st.Verified)
}

func (s *NormalizeSuite) TestLegacyReviewSynthesis() {
	s.Run("denial fields become a review", func() {
		st := Normalize(s.catalog, s.decode(`{"fbi-report": {
			"status": "denied",
			"fileUrl": "https://files/fbi.pdf",
			"deniedAt": "2025-02-01T10:00:00Z",
			"deniedBy": "staff-1",
			"deniedByName": "Lucia",
			"denialReason": "blurry scan"
		}}`), false)
		it := s.item(st, "fbi-report")
		s.Equal(StatusDenied, it.Status)
		s.Equal(&Review{
			ReviewerID:   "staff-1",
			ReviewerName: "Lucia",
			ReviewedAt:   time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
			Decision:     DecisionDenied,
			Reason:       "blurry scan",
		}, it.Review)
		s.Equal("blurry scan", it.Reason())
	})

	s.Run("verification fields supply a missing status", func() {
		st := Normalize(s.catalog, s.decode(`{"passport": {"verifiedAt": 1735689600000, "verifiedBy": "staff-2"}}`), false)
		it := s.item(st, "passport")
		s.Equal(StatusVerified, it.Status)
		s.Require().NotNil(it.Review)
		s.Equal(DecisionVerified, it.Review.Decision)
		s.Equal("staff-2", it.Review.ReviewerID)
		s.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), it.Review.ReviewedAt)
		s.Empty(it.Review.Reason)
	})

	s.Run("no legacy fields means no review", func() {
		st := Normalize(s.catalog, s.decode(`{"passport": {"status": "verified"}}`), false)
		s.Nil(s.item(st, "passport").Review)
	})

	s.Run("stale denial on a re-uploaded file is dropped", func() {
		st := Normalize(s.catalog, s.decode(`{"passport": {"status": "uploaded", "fileUrl": "u", "denialReason": "old"}}`), false)
		it := s.item(st, "passport")
		s.Equal(StatusUploaded, it.Status)
		s.Nil(it.Review)
	})

	s.Run("structured review wins over legacy fields", func() {
		st := Normalize(s.catalog, s.decode(`{"passport": {
			"status": "denied",
			"review": {"reviewerId": "r9", "decision": "denied", "reason": "expired passport"},
			"denialReason": "legacy"
		}}`), false)
		s.Equal("expired passport", s.item(st, "passport").Reason())
	})
}

func (s *NormalizeSuite) TestStatusReasonInvariant() {
	s.Run("denial without reason returns to review when a file exists", func() {
		st := Normalize(s.catalog, s.decode(`{"passport": {"status": "denied", "fileUrl": "u"}}`), false)
		it := s.item(st, "passport")
		s.Equal(StatusPendingReview, it.Status)
		s.Nil(it.Review)
	})

	s.Run("denial without reason or file is not started", func() {
		st := Normalize(s.catalog, s.decode(`{"passport": {"status": "denied"}}`), false)
		s.Equal(StatusNotStarted, s.item(st, "passport").Status)
	})

	s.Run("verification drops a stray reason", func() {
		st := Normalize(s.catalog, s.decode(`{"passport": {"status": "verified", "review": {"decision": "verified", "reason": "n/a"}}}`), false)
		it := s.item(st, "passport")
		s.Require().NotNil(it.Review)
		s.Empty(it.Review.Reason)
		s.Empty(it.Reason())
	})

	s.Run("unknown status with a file is uploaded", func() {
		st := Normalize(s.catalog, s.decode(`{"passport": {"status": "???", "fileUrl": "u"}}`), false)
		s.Equal(StatusUploaded, s.item(st, "passport").Status)
	})

	s.Run("every output satisfies the reason invariant", func() {
		st := Normalize(s.catalog, s.decode(`[
			{"key": "passport", "status": "denied", "denialReason": "torn"},
			{"key": "fbi-report", "status": "verified", "denialReason": "x"},
			{"key": "fbi-apostille", "status": "pending", "review": {"decision": "denied", "reason": "y"}}
		]`), false)
		for _, it := range st.Items {
			if it.Status == StatusDenied {
				s.NotEmpty(it.Reason(), it.Key)
			} else {
				s.Empty(it.Reason(), it.Key)
			}
		}
	})
}

func (s *NormalizeSuite) TestTimestamps() {
	st := Normalize(s.catalog, s.decode(`{
		"passport": {"status": "uploaded", "fileUrl": "u", "updatedAt": {"_seconds": 1735689600, "_nanoseconds": 0}},
		"fbi-report": {"status": "uploaded", "fileUrl": "u", "updated_at": "2025-03-01"}
	}`), false)

	s.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), s.item(st, "passport").UpdatedAt)
	s.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), s.item(st, "fbi-report").UpdatedAt)
	s.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), st.UpdatedAt)
}

// TestTotality feeds garbage shapes; every result has one item per catalog entry.
func (s *NormalizeSuite) TestTotality() {
	inputs := map[string]any{
		"nil":             nil,
		"empty object":    map[string]any{},
		"empty array":     []any{},
		"string":          "garbage",
		"number":          42.0,
		"bool":            true,
		"array of junk":   []any{1.0, "x", nil, map[string]any{"key": 5.0}, []any{}},
		"wrong value":     map[string]any{"passport": 12.0, "fbi-report": []any{"a"}},
		"items not array": map[string]any{"items": "nope"},
		"broken json":     json.RawMessage(`{"passport":`),
		"bad timestamps":  map[string]any{"passport": map[string]any{"status": "uploaded", "fileUrl": "u", "updatedAt": "yesterday"}},
		"bad file":        map[string]any{"passport": map[string]any{"file": "not-an-object", "fileSize": -3.0}},
	}
	for name, raw := range inputs {
		s.Run(name, func() {
			s.NotPanics(func() {
				st := Normalize(s.catalog, raw, false)
				s.Len(st.Items, s.catalog.Len())
				s.Equal([]string{"passport", "fbi-report", "fbi-apostille", "medical-certificate"}, keysOf(st))
			})
		})
	}
}

// TestIdempotence re-normalizes the serialized output of a normalization.
func (s *NormalizeSuite) TestIdempotence() {
	raw := s.decode(`{
		"fbi_report": {"status": "denied", "fileUrl": "https://f/1", "fileSize": 2048, "deniedAt": "2025-02-01T10:00:00Z", "denialReason": "blurry"},
		"passport": {"verifiedAt": "2025-01-05T08:30:00.123Z", "verifiedBy": "staff-2"},
		"medical_cert": {"status": "garbage", "file": {"url": "https://f/2", "name": "med.pdf", "mime": "application/pdf"}, "notes": "signed"},
		"fbi_apostille": {"status": "pending_review", "fileUrl": "https://f/3", "updatedAt": 1735689600000}
	}`)

	first := Normalize(s.catalog, raw, true)

	items, err := json.Marshal(first.Items)
	s.Require().NoError(err)
	s.Equal(first, Normalize(s.catalog, json.RawMessage(items), true))

	whole, err := json.Marshal(first)
	s.Require().NoError(err)
	s.Equal(first, Normalize(s.catalog, json.RawMessage(whole), true))

	s.Equal(first, Normalize(s.catalog, first, true))
}

// An envelope timestamp later than every item does not leak into the state.
func (s *NormalizeSuite) TestEnvelopeTimestampIgnored() {
	first := Normalize(s.catalog, s.decode(`{
		"updatedAt": "2025-05-01T00:00:00Z",
		"items": [{"key": "passport", "status": "uploaded", "fileUrl": "https://f/p.pdf", "updatedAt": "2025-01-01T00:00:00Z"}]
	}`), false)
	s.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), first.UpdatedAt)

	items, err := json.Marshal(first.Items)
	s.Require().NoError(err)
	s.Equal(first, Normalize(s.catalog, json.RawMessage(items), false))
}

// TestAliasEquivalence compares records that differ only in key spelling.
func (s *NormalizeSuite) TestAliasEquivalence() {
	value := `{"status": "denied", "fileUrl": "u", "denialReason": "expired", "deniedBy": "staff-3"}`
	canonical := Normalize(s.catalog, s.decode(`{"fbi-report": `+value+`}`), false)
	aliased := Normalize(s.catalog, s.decode(`{"background_check": `+value+`}`), false)
	arrayAliased := Normalize(s.catalog, s.decode(`[{"key": "fbi_report", "status": "denied", "fileUrl": "u", "denialReason": "expired", "deniedBy": "staff-3"}]`), false)

	s.Equal(canonical, aliased)
	s.Equal(canonical, arrayAliased)
}

func (s *NormalizeSuite) TestDoesNotMutateInput() {
	raw := s.decode(`{"fbi_report": {"status": "denied", "denialReason": "x", "fileUrl": "u"}, "items": [{"key": "passport", "status": "verified"}]}`)
	before, err := json.Marshal(raw)
	s.Require().NoError(err)

	_ = Normalize(s.catalog, raw, false)

	after, err := json.Marshal(raw)
	s.Require().NoError(err)
	s.JSONEq(string(before), string(after))
}

func (s *NormalizeSuite) TestFileReferences() {
	for in, want := range map[string]bool{
		"https://f/visa.pdf": true,
		"gs://bucket/visa":   true,
		"file:///tmp/v.pdf":  true,
		"/uploads/visa":      true,
		"visa.pdf":           true,
		"pending":            false,
		"approved":           false,
		"Verified.":          false,
		"pending:review":     false,
		"not a file.pdf":     false,
		"":                   false,
	} {
		s.Equal(want, IsFileReference(in), in)
	}

	s.Nil(FileFromRaw("pending"))
	s.Nil(FileFromRaw(map[string]any{"url": "uploaded", "name": "visa.pdf"}))
	s.Equal(&File{URL: "https://f/v.pdf", Name: "v.pdf"}, FileFromRaw(map[string]any{"fileUrl": "https://f/v.pdf", "fileName": "v.pdf"}))
}
