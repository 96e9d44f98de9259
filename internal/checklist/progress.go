package checklist

import "math"

// Progress is the derived verified/total/percent triple.
type Progress struct {
	Verified int `json:"verified"`
	Total    int `json:"total"`
	Percent  int `json:"percent"`
}

// ComputeProgress counts the items applicable to the athlete. Minor-only
// documents are excluded for adults.
func ComputeProgress(s State) Progress {
	var p Progress
	for _, it := range s.Items {
		if !it.IsApplicable(s.IsMinor) {
			continue
		}
		p.Total++
		if it.Status.IsVerified() {
			p.Verified++
		}
	}
	p.Percent = percentOf(p.Verified, p.Total)
	return p
}

// ProgressOf counts every item given. Callers select the subset, e.g. the
// documents a route requires, with State.Subset.
func ProgressOf(items []Item) Progress {
	p := Progress{Total: len(items)}
	for _, it := range items {
		if it.Status.IsVerified() {
			p.Verified++
		}
	}
	p.Percent = percentOf(p.Verified, p.Total)
	return p
}

// percentOf rounds half away from zero and clamps to [0,100].
func percentOf(verified, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(verified) * 100 / float64(total)))
	return min(max(pct, 0), 100)
}
