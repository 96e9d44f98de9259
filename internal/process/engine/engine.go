// Package engine is the pure recompute pass over one athlete's process. It
// performs no I/O: callers load raw records, hand them in, and persist the
// snapshot it returns.
package engine

import (
	"time"

	"visaflow/internal/checklist"
	"visaflow/internal/gate"
	"visaflow/internal/process/models"
	"visaflow/internal/submission"
	id "visaflow/pkg/domain"
)

// Engine holds the immutable catalog and gate policy.
type Engine struct {
	catalog *checklist.Catalog
	policy  gate.Policy
}

// New builds an engine from a catalog definition.
func New(def checklist.Definition) (*Engine, error) {
	catalog, err := def.Catalog()
	if err != nil {
		return nil, err
	}
	policy, err := gate.NewPolicy(def.Gate, catalog)
	if err != nil {
		return nil, err
	}
	return &Engine{catalog: catalog, policy: policy}, nil
}

func (e *Engine) Catalog() *checklist.Catalog { return e.catalog }

func (e *Engine) Policy() gate.Policy { return e.policy }

// Recompute normalizes a reconciled raw record and derives everything else.
// Derived values stored alongside the raw data are ignored.
func (e *Engine) Recompute(userID id.UserID, profile models.Profile, rec models.RawRecord, now time.Time) models.State {
	isMinor := profile.IsMinor(now)
	cl := checklist.Normalize(e.catalog, rec.Checklist, isMinor)
	sub := submission.Normalize(rec.Submission, e.catalog.Canonicalizer())
	return e.derive(userID, isMinor, cl, sub, now)
}

// Derive rebuilds a snapshot after a mutation. The checklist goes through
// the normalizer again so a stored snapshot and a recomputed one are
// always identical.
func (e *Engine) Derive(userID id.UserID, isMinor bool, cl checklist.State, sub submission.Submission, now time.Time) models.State {
	cl = checklist.Normalize(e.catalog, cl, isMinor)
	sub.SpainRequest = submission.NormalizeRequest(sub.SpainRequest)
	if !sub.Route.IsValid() {
		sub.Route = submission.RouteUSA
	}
	return e.derive(userID, isMinor, cl, sub, now)
}

func (e *Engine) derive(userID id.UserID, isMinor bool, cl checklist.State, sub submission.Submission, now time.Time) models.State {
	result := gate.Evaluate(e.policy, cl, sub, isMinor)
	return models.State{
		UserID:         userID,
		IsMinor:        isMinor,
		Checklist:      cl,
		Submission:     sub,
		EffectiveRoute: submission.EffectiveRoute(sub.Route, isMinor),
		Progress:       checklist.ComputeProgress(cl),
		SpainProgress:  checklist.ProgressOf(cl.Subset(e.policy.SpainRequired)),
		Gate:           result,
		TripUnlocked:   result.Unlocked,
		ComputedAt:     now.UTC(),
	}
}
