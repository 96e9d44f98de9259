package submission

import (
	"maps"
	"slices"
	"strings"
	"time"

	"visaflow/internal/checklist"
)

// RequestStatus is the lifecycle state of the in-Spain submission request.
type RequestStatus string

const (
	RequestNone     RequestStatus = "none"
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestDenied   RequestStatus = "denied"
)

var requestStatusSynonyms = map[string]RequestStatus{
	"none":      RequestNone,
	"pending":   RequestPending,
	"requested": RequestPending,
	"approved":  RequestApproved,
	"accepted":  RequestApproved,
	"denied":    RequestDenied,
	"rejected":  RequestDenied,
}

// ParseRequestStatus maps a stored status to the lifecycle. "requested" is a
// legacy spelling of pending; anything unrecognized is none.
func ParseRequestStatus(raw string) RequestStatus {
	if s, ok := requestStatusSynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return RequestNone
}

func (s RequestStatus) String() string { return string(s) }

// IsValid reports whether s is one of the four lifecycle states.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestNone, RequestPending, RequestApproved, RequestDenied:
		return true
	}
	return false
}

// Route is the chosen visa submission path.
type Route string

const (
	RouteUSA   Route = "usa"
	RouteSpain Route = "spain"
)

// ParseRoute maps a stored route or submitChoice value. Anything that is not
// recognizably the Spain path is usa, so an unset route never unlocks the
// Spain gate.
func ParseRoute(raw string) Route {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "spain", "es", "esp", "in-spain", "in_spain", "españa", "espana":
		return RouteSpain
	}
	return RouteUSA
}

func (r Route) String() string { return string(r) }

// IsValid reports whether r is one of the two routes.
func (r Route) IsValid() bool {
	return r == RouteUSA || r == RouteSpain
}

// EffectiveRoute clamps the chosen route for minors, who can never take the
// Spain path. The result is always recomputed, never read from storage.
func EffectiveRoute(chosen Route, isMinor bool) Route {
	if isMinor || chosen != RouteSpain {
		return RouteUSA
	}
	return RouteSpain
}

// SpainRequest is the athlete's request to submit from Spain.
//
// Invariants:
//   - RequestReason and RequestedAt are empty when Status is none
//   - DecisionReason is empty unless Status is denied
//   - DecidedAt is set only for approved and denied
//
// A denial keeps the request reason for audit; only a reset clears it.
type SpainRequest struct {
	Status         RequestStatus `json:"status"`
	RequestReason  string        `json:"requestReason"`
	DecisionReason string        `json:"decisionReason"`
	RequestedAt    time.Time     `json:"requestedAt,omitzero"`
	DecidedAt      time.Time     `json:"decidedAt,omitzero"`
}

// TravelEntry is one leg or milestone of the itinerary tied to an approved
// Spain submission.
type TravelEntry struct {
	Kind        string    `json:"kind"`
	Date        time.Time `json:"date,omitzero"`
	Description string    `json:"description,omitempty"`
}

// Submission is the routing part of the process: where the athlete applies
// from, the Spain request, and the itinerary.
//
// Uploads holds document files captured outside the checklist (for example
// an approved visa uploaded from the travel screen), keyed by canonical
// document key.
type Submission struct {
	StateCode           string                    `json:"stateCode,omitempty"`
	Route               Route                     `json:"route"`
	SpainRequest        SpainRequest              `json:"spainRequest"`
	ExpectedArrivalDate time.Time                 `json:"expectedArrivalDate,omitzero"`
	Travel              []TravelEntry             `json:"travel"`
	Uploads             map[string]checklist.File `json:"uploads,omitempty"`
}

// Upload returns the out-of-band file stored under the canonical key.
func (s Submission) Upload(key string) (checklist.File, bool) {
	f, ok := s.Uploads[key]
	if !ok || strings.TrimSpace(f.URL) == "" {
		return checklist.File{}, false
	}
	return f, true
}

// Clone returns a deep copy.
func (s Submission) Clone() Submission {
	out := s
	out.Travel = slices.Clone(s.Travel)
	out.Uploads = maps.Clone(s.Uploads)
	return out
}
