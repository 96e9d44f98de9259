package models

import (
	"strings"
	"time"

	"visaflow/internal/checklist"
	"visaflow/internal/submission"
	dErrors "visaflow/pkg/domain-errors"
)

// MinRequestReasonLength is the shortest Spain request reason accepted from
// athletes. The state machine itself only requires a non-empty reason.
const MinRequestReasonLength = 10

// AttachFileRequest records an uploaded document. The file itself was
// stored by the upload service; only its reference arrives here.
type AttachFileRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	Mime string `json:"mime"`
}

func (r *AttachFileRequest) Validate() error {
	r.URL = strings.TrimSpace(r.URL)
	r.Name = strings.TrimSpace(r.Name)
	r.Mime = strings.TrimSpace(r.Mime)
	if r.URL == "" {
		return dErrors.New(dErrors.CodeValidation, "url is required")
	}
	if r.Size < 0 {
		return dErrors.New(dErrors.CodeValidation, "size cannot be negative")
	}
	return nil
}

func (r *AttachFileRequest) File() checklist.File {
	return checklist.File{URL: r.URL, Name: r.Name, Size: r.Size, Mime: r.Mime}
}

// ReviewRequest is a staff decision on a document.
type ReviewRequest struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

func (r *ReviewRequest) Validate() error {
	r.Decision = strings.ToLower(strings.TrimSpace(r.Decision))
	r.Reason = strings.TrimSpace(r.Reason)
	switch checklist.ReviewDecision(r.Decision) {
	case checklist.DecisionVerified:
		r.Reason = ""
	case checklist.DecisionDenied:
		if r.Reason == "" {
			return dErrors.New(dErrors.CodeValidation, "a denial requires a reason")
		}
	default:
		return dErrors.New(dErrors.CodeValidation, "decision must be verified or denied")
	}
	return nil
}

// NotesRequest replaces the athlete's notes on a document.
type NotesRequest struct {
	Notes string `json:"notes"`
}

func (r *NotesRequest) Validate() error {
	r.Notes = strings.TrimSpace(r.Notes)
	if len(r.Notes) > 2000 {
		return dErrors.New(dErrors.CodeValidation, "notes must be 2000 characters or less")
	}
	return nil
}

// RouteRequest chooses the submission route.
type RouteRequest struct {
	Route string `json:"route"`
}

func (r *RouteRequest) Validate() error {
	r.Route = strings.ToLower(strings.TrimSpace(r.Route))
	switch submission.Route(r.Route) {
	case submission.RouteUSA, submission.RouteSpain:
		return nil
	}
	return dErrors.New(dErrors.CodeValidation, "route must be usa or spain")
}

// SpainRequestBody asks staff for the in-Spain submission path.
type SpainRequestBody struct {
	Reason string `json:"reason"`
}

func (r *SpainRequestBody) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	if len([]rune(r.Reason)) < MinRequestReasonLength {
		return dErrors.New(dErrors.CodeValidation, "reason must be at least 10 characters")
	}
	return nil
}

// SpainDecisionRequest is the staff answer to a Spain request.
type SpainDecisionRequest struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

func (r *SpainDecisionRequest) Validate() error {
	r.Decision = strings.ToLower(strings.TrimSpace(r.Decision))
	r.Reason = strings.TrimSpace(r.Reason)
	switch submission.RequestStatus(r.Decision) {
	case submission.RequestApproved:
		r.Reason = ""
	case submission.RequestDenied:
		if r.Reason == "" {
			return dErrors.New(dErrors.CodeValidation, "a denial requires a reason")
		}
	default:
		return dErrors.New(dErrors.CodeValidation, "decision must be approved or denied")
	}
	return nil
}

// Approved reports whether the request approves.
func (r *SpainDecisionRequest) Approved() bool {
	return submission.RequestStatus(r.Decision) == submission.RequestApproved
}

// TravelRequest replaces the itinerary.
type TravelRequest struct {
	ExpectedArrivalDate *time.Time               `json:"expectedArrivalDate"`
	Entries             []submission.TravelEntry `json:"entries"`
}

func (r *TravelRequest) Validate() error {
	if len(r.Entries) > 50 {
		return dErrors.New(dErrors.CodeValidation, "at most 50 travel entries")
	}
	for i := range r.Entries {
		r.Entries[i].Kind = strings.TrimSpace(r.Entries[i].Kind)
		r.Entries[i].Description = strings.TrimSpace(r.Entries[i].Description)
		if r.Entries[i].Kind == "" {
			return dErrors.New(dErrors.CodeValidation, "travel entry kind is required")
		}
		if r.Entries[i].Date.IsZero() {
			return dErrors.New(dErrors.CodeValidation, "travel entry date is required")
		}
		r.Entries[i].Date = r.Entries[i].Date.UTC()
	}
	return nil
}
