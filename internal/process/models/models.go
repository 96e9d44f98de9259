package models

import (
	"bytes"
	"encoding/json"
	"time"

	"visaflow/internal/checklist"
	"visaflow/internal/gate"
	"visaflow/internal/submission"
	id "visaflow/pkg/domain"
)

// AdultAge is the age at which an athlete stops being a minor.
const AdultAge = 18

// Profile is the authoritative personal data the minor flag is derived from.
// Both fields are optional in stored profiles.
type Profile struct {
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	IsMinorFlag *bool      `json:"isMinor,omitempty"`
}

// IsMinor derives the minor flag once per snapshot. The date of birth wins;
// the explicit flag is only consulted when no date of birth is stored.
func (p Profile) IsMinor(now time.Time) bool {
	if p.DateOfBirth != nil && !p.DateOfBirth.IsZero() {
		return ageAt(*p.DateOfBirth, now) < AdultAge
	}
	if p.IsMinorFlag != nil {
		return *p.IsMinorFlag
	}
	return false
}

func ageAt(dob, now time.Time) int {
	dob, now = dob.UTC(), now.UTC()
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// RawRecord is what a persistence adapter stores: the checklist and the
// submission as opaque JSON, possibly written by older clients. Derived
// values are never stored.
type RawRecord struct {
	Checklist  json.RawMessage `json:"checklist,omitempty"`
	Submission json.RawMessage `json:"submission,omitempty"`
	UpdatedAt  time.Time       `json:"updatedAt,omitzero"`
}

// IsEmpty reports whether the record carries neither sub-object.
func (r RawRecord) IsEmpty() bool {
	return !present(r.Checklist) && !present(r.Submission)
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Source names where a reconciled sub-object came from.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
	SourceNone   Source = "none"
)

// Reconciliation reports which store each sub-object was taken from.
type Reconciliation struct {
	Checklist  Source
	Submission Source
}

// Reconcile merges the local cache and the remote record sub-object by
// sub-object: the local copy wins when present, otherwise the remote one.
func Reconcile(local, remote RawRecord) (RawRecord, Reconciliation) {
	var out RawRecord
	var rec Reconciliation
	out.Checklist, rec.Checklist = pick(local.Checklist, remote.Checklist)
	out.Submission, rec.Submission = pick(local.Submission, remote.Submission)
	out.UpdatedAt = local.UpdatedAt
	if remote.UpdatedAt.After(out.UpdatedAt) {
		out.UpdatedAt = remote.UpdatedAt
	}
	return out, rec
}

func pick(local, remote json.RawMessage) (json.RawMessage, Source) {
	switch {
	case present(local):
		return local, SourceLocal
	case present(remote):
		return remote, SourceRemote
	}
	return nil, SourceNone
}

// State is the process snapshot handed to callers. It is a value: callers
// get their own copy and the engine never holds on to it.
type State struct {
	UserID         id.UserID             `json:"userId"`
	IsMinor        bool                  `json:"isMinor"`
	Checklist      checklist.State       `json:"checklist"`
	Submission     submission.Submission `json:"submission"`
	EffectiveRoute submission.Route      `json:"effectiveRoute"`
	Progress       checklist.Progress    `json:"progress"`
	SpainProgress  checklist.Progress    `json:"spainProgress"`
	Gate           gate.Result           `json:"gate"`
	TripUnlocked   bool                  `json:"tripUnlocked"`
	ComputedAt     time.Time             `json:"computedAt"`
}

// Record serializes the source parts of the snapshot for storage.
func (s State) Record() (RawRecord, error) {
	cl, err := json.Marshal(s.Checklist)
	if err != nil {
		return RawRecord{}, err
	}
	sub, err := json.Marshal(s.Submission)
	if err != nil {
		return RawRecord{}, err
	}
	return RawRecord{Checklist: cl, Submission: sub, UpdatedAt: s.ComputedAt}, nil
}
