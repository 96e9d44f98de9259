package gate

import (
	"visaflow/internal/checklist"
	"visaflow/internal/submission"
)

// Evaluate decides whether the trip stage unlocks. It is pure: no I/O, and
// neither the checklist nor the submission is modified.
//
// The route is the effective route, so minors are always judged on usa
// rules and an unset route never unlocks the Spain gate.
func Evaluate(policy Policy, cl checklist.State, sub submission.Submission, isMinor bool) Result {
	route := submission.EffectiveRoute(sub.Route, isMinor)
	if route == submission.RouteSpain {
		return evaluateSpain(policy, cl)
	}
	return evaluateUSA(policy, cl, sub)
}

// CanUnlockNextStage is the boolean projection of Evaluate.
func CanUnlockNextStage(policy Policy, cl checklist.State, sub submission.Submission, isMinor bool) bool {
	return Evaluate(policy, cl, sub, isMinor).Unlocked
}

// evaluateSpain requires every Spain document to be complete: uploaded and
// awaiting review, or verified. Denied and not started both block.
func evaluateSpain(policy Policy, cl checklist.State) Result {
	result := Result{Route: submission.RouteSpain}
	if len(policy.SpainRequired) == 0 {
		result.Reason = ReasonPolicyUnavailable
		return result
	}
	for _, key := range policy.SpainRequired {
		item, ok := cl.Item(key)
		if !ok || !item.Status.IsComplete() {
			result.Missing = append(result.Missing, key)
		}
	}
	if len(result.Missing) > 0 {
		result.Reason = ReasonSpainMissing
		return result
	}
	result.Unlocked = true
	result.Reason = ReasonSpainComplete
	return result
}

// evaluateUSA requires evidence of the external approval artifact.
// Rule priority:
//  1. the checklist entry for the artifact is complete
//  2. a file for it was uploaded outside the checklist
func evaluateUSA(policy Policy, cl checklist.State, sub submission.Submission) Result {
	result := Result{Route: submission.RouteUSA}
	if policy.USAApproval == "" {
		result.Reason = ReasonPolicyUnavailable
		return result
	}

	if item, ok := cl.Item(policy.USAApproval); ok && item.Status.IsComplete() {
		result.Unlocked = true
		result.Reason = ReasonUSAOnChecklist
		return result
	}

	if policy.hasUpload(sub, policy.USAApproval) {
		result.Unlocked = true
		result.Reason = ReasonUSAUploaded
		return result
	}

	result.Reason = ReasonUSAMissing
	result.Missing = []string{policy.USAApproval}
	return result
}

// hasUpload matches out-of-band uploads across canonical and alias keys.
func (p Policy) hasUpload(sub submission.Submission, key string) bool {
	if _, ok := sub.Upload(key); ok {
		return true
	}
	for k, f := range sub.Uploads {
		if f.URL != "" && p.canon.Canonicalize(k) == key {
			return true
		}
	}
	return false
}
