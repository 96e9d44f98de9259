package checklist

import (
	"net/url"
	"path"
	"strings"
	"time"

	"visaflow/pkg/rawjson"
)

// reservedTopLevel are envelope fields of a stored State, never document keys.
var reservedTopLevel = map[string]bool{
	"items":      true,
	"isMinor":    true,
	"is_minor":   true,
	"total":      true,
	"verified":   true,
	"percent":    true,
	"updatedAt":  true,
	"updated_at": true,
}

// Normalize merges the catalog with whatever persisted checklist record
// exists and returns the canonical State.
//
// raw may be nil, a decoded JSON value, a json.RawMessage, or any value that
// marshals to JSON. It may be an array of item objects, an object with an
// "items" array (optionally with keyed entries beside it), or an object keyed
// by document key or alias. For each catalog entry the canonical key is tried
// first, then each declared alias, in the array shape and then the keyed
// shape; after that any spelling that canonicalizes to the entry matches.
// First match wins. Malformed values count as absent for their key only.
// The state's UpdatedAt is the latest item timestamp; an envelope timestamp
// is ignored so that re-normalizing the items alone gives the same State.
//
// Normalize never mutates its inputs and never panics on data shape.
func Normalize(catalog *Catalog, raw any, isMinor bool) State {
	src := indexRecord(rawjson.Decode(raw), catalog.canon)

	items := make([]Item, 0, len(catalog.entries))
	var latest time.Time
	for _, entry := range catalog.entries {
		item := defaultItem(entry)
		if obj, ok := src.lookup(entry); ok {
			item = mergeItem(item, obj)
		}
		if item.UpdatedAt.After(latest) {
			latest = item.UpdatedAt
		}
		items = append(items, item)
	}

	return recount(State{Items: items, IsMinor: isMinor, UpdatedAt: latest})
}

func defaultItem(entry CatalogEntry) Item {
	return Item{
		Key:                 entry.Key,
		Title:               entry.Title,
		AppliesOnlyToMinors: entry.AppliesOnlyToMinors,
		Status:              StatusNotStarted,
		SampleURL:           entry.SampleURL,
	}
}

// recordIndex holds the raw per-document values found in one stored record.
type recordIndex struct {
	listExact  map[string]any
	mapExact   map[string]any
	listFolded map[string]any
	mapFolded  map[string]any
}

func indexRecord(raw any, canon *Canonicalizer) recordIndex {
	idx := recordIndex{
		listExact:  map[string]any{},
		mapExact:   map[string]any{},
		listFolded: map[string]any{},
		mapFolded:  map[string]any{},
	}
	switch v := raw.(type) {
	case []any:
		idx.addList(v, canon)
	case map[string]any:
		switch items := v["items"].(type) {
		case []any:
			idx.addList(items, canon)
		case map[string]any:
			idx.addKeyed(items, canon)
		}
		for k, val := range v {
			if reservedTopLevel[k] {
				continue
			}
			idx.addKeyedEntry(k, val, canon)
		}
	}
	return idx
}

func (idx *recordIndex) addList(list []any, canon *Canonicalizer) {
	for _, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			continue
		}
		key := rawjson.String(obj, "key", "id")
		if key == "" {
			continue
		}
		if _, seen := idx.listExact[key]; !seen {
			idx.listExact[key] = obj
		}
		folded := canon.Canonicalize(key)
		if _, seen := idx.listFolded[folded]; !seen {
			idx.listFolded[folded] = obj
		}
	}
}

func (idx *recordIndex) addKeyed(m map[string]any, canon *Canonicalizer) {
	for k, val := range m {
		idx.addKeyedEntry(k, val, canon)
	}
}

// addKeyedEntry records one keyed value. Map iteration order is random, so
// when several spellings fold to the same key the exact canonical spelling
// wins, then the lexically smallest, keeping the result deterministic.
func (idx *recordIndex) addKeyedEntry(k string, val any, canon *Canonicalizer) {
	key := strings.TrimSpace(k)
	if key == "" {
		return
	}
	if _, seen := idx.mapExact[key]; !seen {
		idx.mapExact[key] = val
	}
	folded := canon.Canonicalize(key)
	if _, ok := asItemObject(val); !ok {
		return
	}
	prev, seen := idx.mapFolded[folded]
	if !seen {
		idx.mapFolded[folded] = keyedValue{key: key, val: val}
		return
	}
	p := prev.(keyedValue)
	if p.key == folded {
		return
	}
	if key == folded || key < p.key {
		idx.mapFolded[folded] = keyedValue{key: key, val: val}
	}
}

type keyedValue struct {
	key string
	val any
}

func (idx recordIndex) lookup(entry CatalogEntry) (map[string]any, bool) {
	candidates := make([]string, 0, 1+len(entry.LegacyAliases))
	candidates = append(candidates, entry.Key)
	candidates = append(candidates, entry.LegacyAliases...)

	for _, c := range candidates {
		if obj, ok := asItemObject(idx.listExact[c]); ok {
			return obj, true
		}
		if obj, ok := asItemObject(idx.mapExact[c]); ok {
			return obj, true
		}
	}
	if obj, ok := asItemObject(idx.listFolded[entry.Key]); ok {
		return obj, true
	}
	if kv, ok := idx.mapFolded[entry.Key].(keyedValue); ok {
		return asItemObject(kv.val)
	}
	return nil, false
}

// asItemObject accepts an item object or the per-key status shorthand
// ("passport": "verified"). Everything else is malformed.
func asItemObject(v any) (map[string]any, bool) {
	switch val := v.(type) {
	case map[string]any:
		return val, true
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, false
		}
		return map[string]any{"status": val}, true
	}
	return nil, false
}

// mergeItem overlays stored values on the catalog defaults and then restores
// the status/review invariants.
func mergeItem(item Item, obj map[string]any) Item {
	status, known := lookupStatus(rawjson.String(obj, "status", "state"))
	item.File = readFile(obj)
	item.Notes = rawjson.String(obj, "notes", "note", "comment")
	item.UpdatedAt = rawjson.Time(obj, "updatedAt", "updated_at", "lastUpdated", "last_updated")

	review := readReview(obj)
	if review == nil {
		review = legacyReview(obj, status, known)
	}
	if !known && review != nil {
		status, known = Status(review.Decision), true
	}
	if !known && item.File != nil {
		status = StatusUploaded
	}

	switch status {
	case StatusDenied:
		if review == nil || review.Decision != DecisionDenied || review.Reason == "" {
			status, review = downgradeDenied(item)
		}
	case StatusVerified:
		if review != nil && review.Decision != DecisionVerified {
			review = nil
		}
		if review != nil {
			review.Reason = ""
		}
	default:
		review = nil
	}

	item.Status = status
	item.Review = review
	return item
}

// downgradeDenied handles a stored denial that lost its reason. A denial
// without a reason is not representable, so the item falls back to the
// nearest state that needs no reason: back in the review queue when a file
// exists, otherwise not started.
func downgradeDenied(item Item) (Status, *Review) {
	if item.File != nil {
		return StatusPendingReview, nil
	}
	return StatusNotStarted, nil
}

func readFile(obj map[string]any) *File {
	var f File
	if nested, ok := obj["file"].(map[string]any); ok {
		f = File{
			URL:  rawjson.String(nested, "url", "fileUrl", "file_url", "downloadUrl"),
			Name: rawjson.String(nested, "name", "fileName", "file_name"),
			Size: rawjson.Int(nested, "size", "fileSize", "file_size"),
			Mime: rawjson.String(nested, "mime", "mimeType", "mime_type", "type", "contentType"),
		}
	}
	if f.URL == "" {
		f.URL = rawjson.String(obj, "fileUrl", "file_url", "url", "downloadUrl")
	}
	if f.Name == "" {
		f.Name = rawjson.String(obj, "fileName", "file_name", "filename")
	}
	if f.Size == 0 {
		f.Size = rawjson.Int(obj, "fileSize", "file_size")
	}
	if f.Mime == "" {
		f.Mime = rawjson.String(obj, "fileMime", "file_mime", "mimeType", "mime_type", "mime", "fileType", "file_type")
	}
	if f.IsZero() {
		return nil
	}
	return &f
}

// FileFromRaw reads a file reference stored outside the checklist: an object
// in any of the known field spellings, or a bare URL string. References
// whose location is not a URL or file path are absent, so a status word such
// as "pending" never counts as an upload.
func FileFromRaw(v any) *File {
	var f *File
	switch val := v.(type) {
	case string:
		f = &File{URL: strings.TrimSpace(val)}
	case map[string]any:
		if f = readFile(val); f == nil || f.URL == "" {
			f = &File{
				URL:  rawjson.String(val, "url", "downloadUrl", "href"),
				Name: rawjson.String(val, "name"),
				Size: rawjson.Int(val, "size"),
				Mime: rawjson.String(val, "mime", "type", "contentType"),
			}
		}
	}
	if f == nil || !IsFileReference(f.URL) {
		return nil
	}
	return f
}

// IsFileReference reports whether s locates a file: an absolute URL with a
// host or rooted path, or a relative path with a separator or extension.
func IsFileReference(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "" {
		return u.Host != "" || strings.HasPrefix(u.Path, "/")
	}
	return strings.Contains(u.Path, "/") || len(path.Ext(u.Path)) > 1
}

// readReview reads a structured review. A review without a recognizable
// decision is logically absent.
func readReview(obj map[string]any) *Review {
	rv, ok := obj["review"].(map[string]any)
	if !ok {
		return nil
	}
	decision := parseDecision(rawjson.String(rv, "decision", "status"))
	if decision == DecisionNone {
		return nil
	}
	return &Review{
		ReviewerID:   rawjson.String(rv, "reviewerId", "reviewer_id", "reviewedBy", "reviewed_by"),
		ReviewerName: rawjson.String(rv, "reviewerName", "reviewer_name", "reviewedByName"),
		ReviewedAt:   rawjson.Time(rv, "reviewedAt", "reviewed_at"),
		Decision:     decision,
		Reason:       rawjson.String(rv, "reason", "denialReason", "denial_reason"),
	}
}

func parseDecision(raw string) ReviewDecision {
	s, ok := lookupStatus(raw)
	if !ok {
		return DecisionNone
	}
	switch s {
	case StatusVerified:
		return DecisionVerified
	case StatusDenied:
		return DecisionDenied
	}
	return DecisionNone
}

var (
	verifiedAtKeys   = []string{"verifiedAt", "verified_at"}
	verifiedByKeys   = []string{"verifiedBy", "verified_by"}
	verifiedNameKeys = []string{"verifiedByName", "verified_by_name"}
	deniedAtKeys     = []string{"deniedAt", "denied_at", "rejectedAt", "rejected_at"}
	deniedByKeys     = []string{"deniedBy", "denied_by", "rejectedBy", "rejected_by"}
	deniedNameKeys   = []string{"deniedByName", "denied_by_name"}
	denialReasonKeys = []string{"denialReason", "denial_reason", "deniedReason", "rejectionReason", "rejection_reason"}
)

// legacyReview synthesizes a Review from flat verifiedAt/verifiedBy or
// deniedAt/deniedBy/denialReason fields. It copies only what is present and
// never invents a decision the record does not contain.
func legacyReview(obj map[string]any, status Status, statusKnown bool) *Review {
	var verified, denied *Review
	if rawjson.Has(obj, verifiedAtKeys...) || rawjson.Has(obj, verifiedByKeys...) {
		verified = &Review{
			ReviewerID:   rawjson.String(obj, verifiedByKeys...),
			ReviewerName: rawjson.String(obj, verifiedNameKeys...),
			ReviewedAt:   rawjson.Time(obj, verifiedAtKeys...),
			Decision:     DecisionVerified,
		}
	}
	if rawjson.Has(obj, deniedAtKeys...) || rawjson.Has(obj, deniedByKeys...) || rawjson.Has(obj, denialReasonKeys...) {
		denied = &Review{
			ReviewerID:   rawjson.String(obj, deniedByKeys...),
			ReviewerName: rawjson.String(obj, deniedNameKeys...),
			ReviewedAt:   rawjson.Time(obj, deniedAtKeys...),
			Decision:     DecisionDenied,
			Reason:       rawjson.String(obj, denialReasonKeys...),
		}
	}

	if statusKnown {
		switch status {
		case StatusVerified:
			return verified
		case StatusDenied:
			return denied
		}
		return nil
	}
	switch {
	case verified == nil:
		return denied
	case denied == nil:
		return verified
	case verified.ReviewedAt.After(denied.ReviewedAt):
		return verified
	default:
		return denied
	}
}

// recount derives Total and Verified from the items.
func recount(s State) State {
	p := ComputeProgress(s)
	s.Total = p.Total
	s.Verified = p.Verified
	return s
}
