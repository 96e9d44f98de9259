package checklist

import "strings"

// Status is the canonical review state of one checklist document.
type Status string

const (
	// StatusNotStarted means nothing has been provided yet.
	StatusNotStarted Status = "not_started"
	// StatusUploaded means a file exists but nobody has looked at it.
	StatusUploaded Status = "uploaded"
	// StatusPendingReview means the athlete explicitly queued the file for staff review.
	StatusPendingReview Status = "pending_review"
	// StatusVerified means staff accepted the document.
	StatusVerified Status = "verified"
	// StatusDenied means staff rejected the document; a reason is always attached.
	StatusDenied Status = "denied"
)

// statusSynonyms maps folded legacy spellings onto the canonical taxonomy.
var statusSynonyms = map[string]Status{
	"not_started":    StatusNotStarted,
	"none":           StatusNotStarted,
	"missing":        StatusNotStarted,
	"todo":           StatusNotStarted,
	"uploaded":       StatusUploaded,
	"submitted":      StatusUploaded,
	"received":       StatusUploaded,
	"pending_review": StatusPendingReview,
	"pending":        StatusPendingReview,
	"in_review":      StatusPendingReview,
	"under_review":   StatusPendingReview,
	"review":         StatusPendingReview,
	"requested":      StatusPendingReview,
	"verified":       StatusVerified,
	"approved":       StatusVerified,
	"accepted":       StatusVerified,
	"complete":       StatusVerified,
	"completed":      StatusVerified,
	"done":           StatusVerified,
	"ok":             StatusVerified,
	"denied":         StatusDenied,
	"rejected":       StatusDenied,
	"declined":       StatusDenied,
}

// ParseStatus maps any stored status spelling to the taxonomy.
// Unknown values map to StatusNotStarted.
func ParseStatus(raw string) Status {
	s, _ := lookupStatus(raw)
	return s
}

// lookupStatus reports whether raw named a known status at all, so callers can
// tell "explicitly not started" from "missing or garbage".
func lookupStatus(raw string) (Status, bool) {
	folded := strings.ToLower(strings.TrimSpace(raw))
	folded = strings.NewReplacer("-", "_", " ", "_").Replace(folded)
	if s, ok := statusSynonyms[folded]; ok {
		return s, true
	}
	return StatusNotStarted, false
}

func (s Status) String() string { return string(s) }

// IsValid reports whether s is one of the canonical statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusUploaded, StatusPendingReview, StatusVerified, StatusDenied:
		return true
	}
	return false
}

// IsComplete reports whether the document counts as provided for gating:
// an unreviewed upload or an explicit verification.
func (s Status) IsComplete() bool {
	return s == StatusUploaded || s == StatusVerified
}

// IsVerified reports whether staff accepted the document.
func (s Status) IsVerified() bool {
	return s == StatusVerified
}

// RequiresReason reports whether the status must carry a non-empty reason.
func (s Status) RequiresReason() bool {
	return s == StatusDenied
}
