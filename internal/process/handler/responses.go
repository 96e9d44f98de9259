package handler

import (
	"time"

	"visaflow/internal/checklist"
	"visaflow/internal/process/models"
	"visaflow/internal/submission"
)

// ProcessResponse is the HTTP view of a process snapshot.
type ProcessResponse struct {
	UserID              string                   `json:"userId"`
	IsMinor             bool                     `json:"isMinor"`
	Items               []ItemResponse           `json:"items"`
	Progress            checklist.Progress       `json:"progress"`
	SpainProgress       checklist.Progress       `json:"spainProgress"`
	Route               submission.Route         `json:"route"`
	EffectiveRoute      submission.Route         `json:"effectiveRoute"`
	SpainRequest        submission.SpainRequest  `json:"spainRequest"`
	Travel              []submission.TravelEntry `json:"travel"`
	ExpectedArrivalDate time.Time                `json:"expectedArrivalDate,omitzero"`
	Gate                GateResponse             `json:"gate"`
	TripUnlocked        bool                     `json:"tripUnlocked"`
	ComputedAt          time.Time                `json:"computedAt"`
}

type ItemResponse struct {
	Key        string           `json:"key"`
	Title      string           `json:"title"`
	Status     checklist.Status `json:"status"`
	File       *checklist.File  `json:"file,omitempty"`
	Notes      string           `json:"notes,omitempty"`
	Reason     string           `json:"reason,omitempty"`
	ReviewedBy string           `json:"reviewedBy,omitempty"`
	SampleURL  string           `json:"sampleUrl,omitempty"`
	UpdatedAt  time.Time        `json:"updatedAt,omitzero"`
}

type GateResponse struct {
	Unlocked bool     `json:"unlocked"`
	Reason   string   `json:"reason"`
	Missing  []string `json:"missing,omitempty"`
}

// FromState converts a snapshot to its response. Items that do not apply to
// the athlete are left out.
func FromState(st models.State) *ProcessResponse {
	items := make([]ItemResponse, 0, len(st.Checklist.Items))
	for _, it := range st.Checklist.Items {
		if !it.IsApplicable(st.IsMinor) {
			continue
		}
		resp := ItemResponse{
			Key:       it.Key,
			Title:     it.Title,
			Status:    it.Status,
			File:      it.File,
			Notes:     it.Notes,
			Reason:    it.Reason(),
			SampleURL: it.SampleURL,
			UpdatedAt: it.UpdatedAt,
		}
		if it.Review != nil {
			resp.ReviewedBy = it.Review.ReviewerName
		}
		items = append(items, resp)
	}
	travel := st.Submission.Travel
	if travel == nil {
		travel = []submission.TravelEntry{}
	}
	return &ProcessResponse{
		UserID:              st.UserID.String(),
		IsMinor:             st.IsMinor,
		Items:               items,
		Progress:            st.Progress,
		SpainProgress:       st.SpainProgress,
		Route:               st.Submission.Route,
		EffectiveRoute:      st.EffectiveRoute,
		SpainRequest:        st.Submission.SpainRequest,
		Travel:              travel,
		ExpectedArrivalDate: st.Submission.ExpectedArrivalDate,
		Gate: GateResponse{
			Unlocked: st.Gate.Unlocked,
			Reason:   string(st.Gate.Reason),
			Missing:  st.Gate.Missing,
		},
		TripUnlocked: st.TripUnlocked,
		ComputedAt:   st.ComputedAt,
	}
}
