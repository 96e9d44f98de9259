package submission

import (
	"fmt"
	"strings"
	"time"

	dErrors "visaflow/pkg/domain-errors"
)

// Action is a user or staff command on the Spain request.
type Action string

const (
	ActionRequest Action = "request"
	ActionApprove Action = "approve"
	ActionDeny    Action = "deny"
	ActionReset   Action = "reset"
)

// Command is one action plus the reason text it carries, if any.
type Command struct {
	Action Action
	Reason string
}

func Request(reason string) Command { return Command{Action: ActionRequest, Reason: reason} }

func Approve() Command { return Command{Action: ActionApprove} }

func Deny(reason string) Command { return Command{Action: ActionDeny, Reason: reason} }

func Reset() Command { return Command{Action: ActionReset} }

// transitions is the complete table. A missing entry is an illegal
// transition; approved -> denied in particular must go through none.
var transitions = map[RequestStatus]map[Action]RequestStatus{
	RequestNone: {
		ActionRequest: RequestPending,
		ActionReset:   RequestNone,
	},
	RequestPending: {
		ActionApprove: RequestApproved,
		ActionDeny:    RequestDenied,
		ActionReset:   RequestNone,
	},
	RequestApproved: {
		ActionReset: RequestNone,
	},
	RequestDenied: {
		ActionRequest: RequestPending,
		ActionReset:   RequestNone,
	},
}

// Next returns the state action a leads to from s.
func (s RequestStatus) Next(a Action) (RequestStatus, bool) {
	next, ok := transitions[s][a]
	return next, ok
}

// CanTransitionTo reports whether some action moves s to next.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// Transition is the result of applying a command.
type Transition struct {
	From    RequestStatus
	To      RequestStatus
	Request SpainRequest
	// ClearsItinerary is set when approval is revoked or the request ends
	// up denied or reset. Travel entries tied to an approved Spain route are
	// invalid from that moment and the caller must drop them.
	ClearsItinerary bool
}

// Apply runs cmd against req. On error the returned Transition carries the
// unchanged request. Reasons only need to be non-empty here; length policy
// belongs to the caller.
func Apply(req SpainRequest, cmd Command, now time.Time) (Transition, error) {
	from := req.Status
	if !from.IsValid() {
		from = RequestNone
	}
	unchanged := Transition{From: from, To: from, Request: req}

	to, ok := from.Next(cmd.Action)
	if !ok {
		return unchanged, dErrors.New(dErrors.CodeInvalidTransition,
			fmt.Sprintf("cannot %s a spain request that is %s", cmd.Action, from))
	}
	reason := strings.TrimSpace(cmd.Reason)
	now = now.UTC()

	next := req
	next.Status = to
	switch cmd.Action {
	case ActionRequest:
		if reason == "" {
			return unchanged, dErrors.New(dErrors.CodeValidation, "a spain request requires a reason")
		}
		next.RequestReason = reason
		next.RequestedAt = now
		next.DecisionReason = ""
		next.DecidedAt = time.Time{}
	case ActionApprove:
		next.DecisionReason = ""
		next.DecidedAt = now
	case ActionDeny:
		if reason == "" {
			return unchanged, dErrors.New(dErrors.CodeValidation, "denying a spain request requires a reason")
		}
		next.DecisionReason = reason
		next.DecidedAt = now
	case ActionReset:
		next = SpainRequest{Status: RequestNone}
	}

	return Transition{
		From:            from,
		To:              to,
		Request:         next,
		ClearsItinerary: from == RequestApproved || to == RequestDenied || to == RequestNone,
	}, nil
}

// ApplyToSubmission runs cmd on the submission's request and performs the
// itinerary side effect. The input is not modified.
func ApplyToSubmission(sub Submission, cmd Command, now time.Time) (Submission, Transition, error) {
	t, err := Apply(sub.SpainRequest, cmd, now)
	if err != nil {
		return sub, t, err
	}
	out := sub.Clone()
	out.SpainRequest = t.Request
	if t.ClearsItinerary {
		out.Travel = nil
	}
	return out, t, nil
}

// ChooseRoute records the athlete's route. A minor asking for spain is
// clamped to usa; the second result reports the clamp.
func ChooseRoute(sub Submission, route Route, isMinor bool) (Submission, bool) {
	out := sub.Clone()
	out.Route = EffectiveRoute(route, isMinor)
	return out, out.Route != route
}
