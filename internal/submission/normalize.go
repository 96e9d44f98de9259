package submission

import (
	"sort"
	"strings"
	"time"

	"visaflow/internal/checklist"
	"visaflow/pkg/rawjson"
)

// Normalize reads a stored submission record. It accepts the nested
// spainRequest object as well as the older flat spainRequest* fields,
// route under either route or submitChoice, and out-of-band uploads keyed by
// any spelling of a document key. Upload keys are resolved through canon.
//
// The stored route is kept as chosen; callers derive the effective route with
// EffectiveRoute. Like the checklist normalizer, Normalize never fails:
// malformed fields fall back to their defaults.
func Normalize(raw any, canon *checklist.Canonicalizer) Submission {
	obj, ok := rawjson.Decode(raw).(map[string]any)
	if !ok {
		return Submission{Route: RouteUSA, SpainRequest: SpainRequest{Status: RequestNone}}
	}

	return Submission{
		StateCode:           strings.ToUpper(rawjson.String(obj, "stateCode", "state_code", "state")),
		Route:               ParseRoute(rawjson.String(obj, "route", "submitChoice", "submit_choice", "submissionRoute")),
		SpainRequest:        NormalizeRequest(readRequest(obj)),
		ExpectedArrivalDate: rawjson.Time(obj, "expectedArrivalDate", "expected_arrival_date", "arrivalDate"),
		Travel:              readTravel(obj),
		Uploads:             readUploads(obj, canon),
	}
}

// NormalizeRequest restores the SpainRequest invariants on a stored value.
// A denial that lost its reason is back to pending, the nearest state that
// needs no decision reason.
func NormalizeRequest(req SpainRequest) SpainRequest {
	if !req.Status.IsValid() {
		req.Status = RequestNone
	}
	req.RequestReason = strings.TrimSpace(req.RequestReason)
	req.DecisionReason = strings.TrimSpace(req.DecisionReason)

	switch req.Status {
	case RequestNone:
		return SpainRequest{Status: RequestNone}
	case RequestPending:
		req.DecisionReason = ""
		req.DecidedAt = time.Time{}
	case RequestApproved:
		req.DecisionReason = ""
	case RequestDenied:
		if req.DecisionReason == "" {
			req.Status = RequestPending
			req.DecidedAt = time.Time{}
		}
	}
	return req
}

func readRequest(obj map[string]any) SpainRequest {
	switch nested := firstPresent(obj, "spainRequest", "spain_request").(type) {
	case map[string]any:
		return SpainRequest{
			Status:         ParseRequestStatus(rawjson.String(nested, "status", "state")),
			RequestReason:  rawjson.String(nested, "requestReason", "request_reason", "reason"),
			DecisionReason: rawjson.String(nested, "decisionReason", "decision_reason", "denialReason", "denial_reason"),
			RequestedAt:    rawjson.Time(nested, "requestedAt", "requested_at", "requestTimestamp", "request_timestamp"),
			DecidedAt:      rawjson.Time(nested, "decidedAt", "decided_at", "decisionTimestamp", "decision_timestamp"),
		}
	case string:
		return SpainRequest{Status: ParseRequestStatus(nested)}
	}
	return SpainRequest{
		Status:         ParseRequestStatus(rawjson.String(obj, "spainRequestStatus", "spain_request_status")),
		RequestReason:  rawjson.String(obj, "spainRequestReason", "spain_request_reason"),
		DecisionReason: rawjson.String(obj, "spainRequestDecisionReason", "spainDecisionReason", "spainDenialReason", "spain_decision_reason"),
		RequestedAt:    rawjson.Time(obj, "spainRequestTimestamp", "spainRequestedAt", "spain_request_timestamp"),
		DecidedAt:      rawjson.Time(obj, "spainDecisionTimestamp", "spainRequestDecidedAt", "spain_decision_timestamp"),
	}
}

func firstPresent(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func readTravel(obj map[string]any) []TravelEntry {
	list, ok := firstPresent(obj, "travel", "itinerary", "travelEntries").([]any)
	if !ok {
		return nil
	}
	out := make([]TravelEntry, 0, len(list))
	for _, el := range list {
		e, ok := el.(map[string]any)
		if !ok {
			continue
		}
		entry := TravelEntry{
			Kind:        rawjson.String(e, "kind", "type", "label"),
			Date:        rawjson.Time(e, "date", "at", "when"),
			Description: rawjson.String(e, "description", "details", "notes"),
		}
		if entry.Kind == "" && entry.Date.IsZero() {
			continue
		}
		out = append(out, entry)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// readUploads collects file references from the uploads map and from
// top-level fields named after a catalog document. A top-level field counts
// only when its value locates a file, since legacy records reuse document
// names for status words. When several spellings
// resolve to one document the canonical spelling wins, then the lexically
// smallest, so the result does not depend on map order.
func readUploads(obj map[string]any, canon *checklist.Canonicalizer) map[string]checklist.File {
	type candidate struct {
		key  string
		file checklist.File
	}
	var found []candidate
	collect := func(m map[string]any, knownOnly bool) {
		for k, v := range m {
			if knownOnly && !canon.Known(k) {
				continue
			}
			if f := checklist.FileFromRaw(v); f != nil {
				found = append(found, candidate{key: k, file: *f})
			}
		}
	}
	if m, ok := firstPresent(obj, "uploads", "files", "documents").(map[string]any); ok {
		collect(m, false)
	}
	collect(obj, true)
	if len(found) == 0 {
		return nil
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].key < found[j].key })
	out := make(map[string]checklist.File, len(found))
	source := make(map[string]string, len(found))
	for _, c := range found {
		key := canon.Canonicalize(c.key)
		if key == "" {
			continue
		}
		if prev, taken := source[key]; taken && (prev == key || c.key != key) {
			continue
		}
		out[key] = c.file
		source[key] = c.key
	}
	return out
}
