package checklist

import (
	"strings"
	"time"

	dErrors "visaflow/pkg/domain-errors"
)

// The functions below never modify their input; each returns a new State
// with Total and Verified recomputed.

// AttachFile records an uploaded file. Any earlier review no longer applies
// to the new file and is dropped.
func AttachFile(s State, key string, file File, now time.Time) (State, error) {
	file.URL = strings.TrimSpace(file.URL)
	file.Name = strings.TrimSpace(file.Name)
	if file.URL == "" {
		return s, dErrors.New(dErrors.CodeValidation, "file url is required")
	}
	if file.Size < 0 {
		return s, dErrors.New(dErrors.CodeValidation, "file size cannot be negative")
	}
	return update(s, key, now, func(it *Item) error {
		it.File = &file
		it.Status = StatusUploaded
		it.Review = nil
		return nil
	})
}

// SubmitForReview queues an uploaded file for staff review.
func SubmitForReview(s State, key string, now time.Time) (State, error) {
	return update(s, key, now, func(it *Item) error {
		if it.File == nil {
			return dErrors.New(dErrors.CodeValidation, "upload a file before requesting review")
		}
		switch it.Status {
		case StatusUploaded, StatusDenied:
		case StatusPendingReview:
			return nil
		default:
			return dErrors.New(dErrors.CodeInvalidTransition,
				"document in status "+string(it.Status)+" cannot be queued for review")
		}
		it.Status = StatusPendingReview
		it.Review = nil
		return nil
	})
}

// ApplyReview records a staff decision. Denials require a reason; a
// verification never carries one.
func ApplyReview(s State, key string, review Review, now time.Time) (State, error) {
	review.Reason = strings.TrimSpace(review.Reason)
	switch review.Decision {
	case DecisionVerified:
		review.Reason = ""
	case DecisionDenied:
		if review.Reason == "" {
			return s, dErrors.New(dErrors.CodeValidation, "a denial requires a reason")
		}
	default:
		return s, dErrors.New(dErrors.CodeValidation, "review decision must be verified or denied")
	}
	if review.ReviewedAt.IsZero() {
		review.ReviewedAt = now.UTC()
	}
	return update(s, key, now, func(it *Item) error {
		it.Status = Status(review.Decision)
		r := review
		it.Review = &r
		return nil
	})
}

// ResetItem returns a document to its catalog defaults. Items are never
// deleted.
func ResetItem(s State, key string, now time.Time) (State, error) {
	return update(s, key, now, func(it *Item) error {
		it.Status = StatusNotStarted
		it.File = nil
		it.Notes = ""
		it.Review = nil
		return nil
	})
}

// SetNotes replaces the athlete's free-text notes on a document.
func SetNotes(s State, key, notes string, now time.Time) (State, error) {
	return update(s, key, now, func(it *Item) error {
		it.Notes = strings.TrimSpace(notes)
		return nil
	})
}

func update(s State, key string, now time.Time, fn func(*Item) error) (State, error) {
	out := s.Clone()
	for i := range out.Items {
		if out.Items[i].Key != key {
			continue
		}
		if err := fn(&out.Items[i]); err != nil {
			return s, err
		}
		out.Items[i].UpdatedAt = now.UTC()
		out.UpdatedAt = now.UTC()
		return recount(out), nil
	}
	return s, dErrors.New(dErrors.CodeNotFound, "unknown document "+key)
}
