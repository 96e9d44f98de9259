package service

import (
	"context"
	"time"

	"visaflow/internal/audit"
	"visaflow/internal/checklist"
	"visaflow/internal/process/models"
	id "visaflow/pkg/domain"
	dErrors "visaflow/pkg/domain-errors"
	"visaflow/pkg/requestcontext"
)

// documentKey resolves any stored or legacy spelling to the catalog key.
func (s *Service) documentKey(key string) (string, error) {
	entry, ok := s.engine.Catalog().Entry(key)
	if !ok {
		return "", dErrors.New(dErrors.CodeNotFound, "unknown document "+key)
	}
	return entry.Key, nil
}

// AttachDocument records an uploaded file against a checklist document.
func (s *Service) AttachDocument(ctx context.Context, userID id.UserID, key string, file checklist.File) (models.State, error) {
	key, err := s.documentKey(key)
	if err != nil {
		return models.State{}, err
	}
	return s.mutate(ctx, "attach_document", userID, func(before models.State, now time.Time) (change, error) {
		cl, err := checklist.AttachFile(before.Checklist, key, file, now)
		if err != nil {
			return change{}, err
		}
		return change{
			checklist:  cl,
			submission: before.Submission,
			event:      audit.Event{Action: string(audit.EventDocumentAttached), Subject: key},
		}, nil
	})
}

// SubmitForReview queues an uploaded document for staff review.
func (s *Service) SubmitForReview(ctx context.Context, userID id.UserID, key string) (models.State, error) {
	key, err := s.documentKey(key)
	if err != nil {
		return models.State{}, err
	}
	return s.mutate(ctx, "submit_document", userID, func(before models.State, now time.Time) (change, error) {
		cl, err := checklist.SubmitForReview(before.Checklist, key, now)
		if err != nil {
			return change{}, err
		}
		return change{
			checklist:  cl,
			submission: before.Submission,
			event:      audit.Event{Action: string(audit.EventDocumentSubmitted), Subject: key},
		}, nil
	})
}

// ReviewDocument records a staff decision. The reviewer is the actor on ctx.
func (s *Service) ReviewDocument(ctx context.Context, userID id.UserID, key string, decision checklist.ReviewDecision, reason string) (models.State, error) {
	key, err := s.documentKey(key)
	if err != nil {
		return models.State{}, err
	}
	actor := requestcontext.Actor(ctx)
	return s.mutate(ctx, "review_document", userID, func(before models.State, now time.Time) (change, error) {
		cl, err := checklist.ApplyReview(before.Checklist, key, checklist.Review{
			ReviewerID:   actor.ID,
			ReviewerName: actor.Name,
			Decision:     decision,
			Reason:       reason,
		}, now)
		if err != nil {
			return change{}, err
		}
		item, _ := cl.Item(key)
		return change{
			checklist:  cl,
			submission: before.Submission,
			event: audit.Event{
				Action:   string(audit.EventDocumentReviewed),
				Subject:  key,
				Decision: string(decision),
				Reason:   item.Reason(),
				ActorID:  actor.ID,
			},
		}, nil
	})
}

// ResetDocument returns a document to not started.
func (s *Service) ResetDocument(ctx context.Context, userID id.UserID, key string) (models.State, error) {
	key, err := s.documentKey(key)
	if err != nil {
		return models.State{}, err
	}
	return s.mutate(ctx, "reset_document", userID, func(before models.State, now time.Time) (change, error) {
		cl, err := checklist.ResetItem(before.Checklist, key, now)
		if err != nil {
			return change{}, err
		}
		return change{
			checklist:  cl,
			submission: before.Submission,
			event:      audit.Event{Action: string(audit.EventDocumentReset), Subject: key},
		}, nil
	})
}

// UpdateNotes replaces the athlete's notes on a document.
func (s *Service) UpdateNotes(ctx context.Context, userID id.UserID, key, notes string) (models.State, error) {
	key, err := s.documentKey(key)
	if err != nil {
		return models.State{}, err
	}
	return s.mutate(ctx, "update_notes", userID, func(before models.State, now time.Time) (change, error) {
		cl, err := checklist.SetNotes(before.Checklist, key, notes, now)
		if err != nil {
			return change{}, err
		}
		return change{
			checklist:  cl,
			submission: before.Submission,
			event:      audit.Event{Action: string(audit.EventDocumentNotes), Subject: key},
		}, nil
	})
}
