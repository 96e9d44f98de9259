package gate

import (
	"visaflow/internal/checklist"
	"visaflow/internal/submission"
	dErrors "visaflow/pkg/domain-errors"
)

// Reason explains a gate result.
type Reason string

const (
	ReasonSpainComplete     Reason = "spain_documents_complete"
	ReasonSpainMissing      Reason = "spain_documents_missing"
	ReasonUSAOnChecklist    Reason = "usa_approval_on_checklist"
	ReasonUSAUploaded       Reason = "usa_approval_uploaded"
	ReasonUSAMissing        Reason = "usa_approval_missing"
	ReasonPolicyUnavailable Reason = "gate_policy_unavailable"
)

// Policy names the documents each route's gate depends on. Keys are
// canonical.
type Policy struct {
	SpainRequired []string
	USAApproval   string
	canon         *checklist.Canonicalizer
}

// NewPolicy resolves the gate keys of a catalog definition against the
// catalog. Every key must name a catalog document.
func NewPolicy(keys checklist.GateKeys, catalog *checklist.Catalog) (Policy, error) {
	p := Policy{canon: catalog.Canonicalizer()}
	if len(keys.SpainRequired) == 0 {
		return Policy{}, dErrors.New(dErrors.CodeInvariantViolation, "gate needs at least one spain document")
	}
	for _, k := range keys.SpainRequired {
		entry, ok := catalog.Entry(k)
		if !ok {
			return Policy{}, dErrors.New(dErrors.CodeInvariantViolation, "spain gate document "+k+" is not in the catalog")
		}
		p.SpainRequired = append(p.SpainRequired, entry.Key)
	}
	entry, ok := catalog.Entry(keys.USAApproval)
	if !ok {
		return Policy{}, dErrors.New(dErrors.CodeInvariantViolation, "usa approval document "+keys.USAApproval+" is not in the catalog")
	}
	p.USAApproval = entry.Key
	return p, nil
}

// Result is the gate decision plus what it was based on.
type Result struct {
	Unlocked bool             `json:"unlocked"`
	Route    submission.Route `json:"route"`
	Reason   Reason           `json:"reason"`
	// Missing lists the canonical keys still blocking the gate.
	Missing []string `json:"missing,omitempty"`
}
