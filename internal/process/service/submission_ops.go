package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"visaflow/internal/audit"
	"visaflow/internal/process/models"
	"visaflow/internal/submission"
	id "visaflow/pkg/domain"
	dErrors "visaflow/pkg/domain-errors"
)

// ChooseRoute records the submission route. Minors are always clamped to
// usa; the clamp is noted in the audit trail.
func (s *Service) ChooseRoute(ctx context.Context, userID id.UserID, route submission.Route) (models.State, error) {
	if !route.IsValid() {
		return models.State{}, dErrors.New(dErrors.CodeValidation, "route must be usa or spain")
	}
	return s.mutate(ctx, "choose_route", userID, func(before models.State, _ time.Time) (change, error) {
		sub, clamped := submission.ChooseRoute(before.Submission, route, before.IsMinor)
		event := audit.Event{Action: string(audit.EventRouteChosen), Decision: string(sub.Route)}
		if clamped {
			event.Reason = "minor_clamped_to_usa"
		}
		return change{checklist: before.Checklist, submission: sub, event: event}, nil
	})
}

// RequestSpain asks staff for the in-Spain path. The reason must carry at
// least MinRequestReasonLength characters.
func (s *Service) RequestSpain(ctx context.Context, userID id.UserID, reason string) (models.State, error) {
	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) < models.MinRequestReasonLength {
		return models.State{}, dErrors.New(dErrors.CodeValidation, "reason must be at least 10 characters")
	}
	return s.spainCommand(ctx, "request_spain", userID, submission.Request(reason), audit.EventSpainRequested)
}

// DecideSpain approves or denies a pending request. Denials need a reason.
func (s *Service) DecideSpain(ctx context.Context, userID id.UserID, approve bool, reason string) (models.State, error) {
	cmd := submission.Approve()
	if !approve {
		cmd = submission.Deny(reason)
	}
	return s.spainCommand(ctx, "decide_spain", userID, cmd, audit.EventSpainDecided)
}

// ResetSpain withdraws any request or decision.
func (s *Service) ResetSpain(ctx context.Context, userID id.UserID) (models.State, error) {
	return s.spainCommand(ctx, "reset_spain", userID, submission.Reset(), audit.EventSpainReset)
}

func (s *Service) spainCommand(ctx context.Context, name string, userID id.UserID, cmd submission.Command, action audit.AuditEvent) (models.State, error) {
	return s.mutate(ctx, name, userID, func(before models.State, now time.Time) (change, error) {
		sub, t, err := submission.ApplyToSubmission(before.Submission, cmd, now)
		if err != nil {
			return change{}, err
		}
		return change{
			checklist:  before.Checklist,
			submission: sub,
			transition: &t,
			event: audit.Event{
				Action:   string(action),
				Subject:  "spain_request",
				Decision: string(t.To),
				Reason:   strings.TrimSpace(cmd.Reason),
			},
		}, nil
	})
}

// UpdateTravel replaces the itinerary. Travel can only be planned once the
// trip stage is unlocked. A nil arrival date keeps the stored one.
func (s *Service) UpdateTravel(ctx context.Context, userID id.UserID, arrival *time.Time, entries []submission.TravelEntry) (models.State, error) {
	return s.mutate(ctx, "update_travel", userID, func(before models.State, _ time.Time) (change, error) {
		if !before.TripUnlocked {
			return change{}, dErrors.New(dErrors.CodeInvalidTransition,
				"travel can be planned once the trip stage is unlocked ("+string(before.Gate.Reason)+")")
		}
		sub := before.Submission.Clone()
		sub.Travel = nil
		for _, e := range entries {
			e.Date = e.Date.UTC()
			sub.Travel = append(sub.Travel, e)
		}
		if arrival != nil {
			sub.ExpectedArrivalDate = arrival.UTC()
		}
		return change{
			checklist:  before.Checklist,
			submission: sub,
			event:      audit.Event{Action: string(audit.EventTravelUpdated), Subject: "travel"},
		}, nil
	})
}
