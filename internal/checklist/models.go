package checklist

import "time"

// File is the stored reference to an uploaded document.
type File struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	Mime string `json:"mime"`
}

// IsZero reports whether the reference points at nothing.
func (f File) IsZero() bool {
	return f.URL == "" && f.Name == ""
}

// ReviewDecision is the outcome a reviewer recorded.
type ReviewDecision string

const (
	DecisionNone     ReviewDecision = ""
	DecisionVerified ReviewDecision = "verified"
	DecisionDenied   ReviewDecision = "denied"
)

// Review records a staff decision on a document. A Review with an empty
// Decision is never stored; absence is expressed by a nil *Review.
type Review struct {
	ReviewerID   string         `json:"reviewerId"`
	ReviewerName string         `json:"reviewerName"`
	ReviewedAt   time.Time      `json:"reviewedAt"`
	Decision     ReviewDecision `json:"decision"`
	Reason       string         `json:"reason"`
}

// Item is one normalized checklist entry. Title, SampleURL and
// AppliesOnlyToMinors always come from the catalog, never from storage.
type Item struct {
	Key                 string    `json:"key"`
	Title               string    `json:"title"`
	AppliesOnlyToMinors bool      `json:"appliesOnlyToMinors"`
	Status              Status    `json:"status"`
	File                *File     `json:"file"`
	Notes               string    `json:"notes"`
	UpdatedAt           time.Time `json:"updatedAt"`
	Review              *Review   `json:"review"`
	SampleURL           string    `json:"sampleUrl"`
}

// Reason returns the denial reason, empty for every other status.
func (i Item) Reason() string {
	if i.Status == StatusDenied && i.Review != nil {
		return i.Review.Reason
	}
	return ""
}

// IsApplicable reports whether the item counts for this athlete.
func (i Item) IsApplicable(isMinor bool) bool {
	return isMinor || !i.AppliesOnlyToMinors
}

// State is the canonical checklist: one item per catalog entry in catalog
// order. Total and Verified are derived and never read back from storage.
type State struct {
	Items     []Item    `json:"items"`
	IsMinor   bool      `json:"isMinor"`
	Total     int       `json:"total"`
	Verified  int       `json:"verified"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Item returns the item with the given canonical key.
func (s State) Item(key string) (Item, bool) {
	for _, it := range s.Items {
		if it.Key == key {
			return it, true
		}
	}
	return Item{}, false
}

// Subset returns the applicable items whose canonical keys are listed, in
// catalog order.
func (s State) Subset(keys []string) []Item {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	out := make([]Item, 0, len(keys))
	for _, it := range s.Items {
		if want[it.Key] && it.IsApplicable(s.IsMinor) {
			out = append(out, it)
		}
	}
	return out
}

// Clone returns a deep copy so callers can never alias a snapshot's items.
func (s State) Clone() State {
	out := s
	out.Items = make([]Item, len(s.Items))
	for i, it := range s.Items {
		out.Items[i] = it.clone()
	}
	return out
}

func (i Item) clone() Item {
	out := i
	if i.File != nil {
		f := *i.File
		out.File = &f
	}
	if i.Review != nil {
		r := *i.Review
		out.Review = &r
	}
	return out
}
