package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"visaflow/internal/audit"
	"visaflow/internal/checklist"
	gatemetrics "visaflow/internal/gate/metrics"
	"visaflow/internal/process/engine"
	"visaflow/internal/process/metrics"
	"visaflow/internal/process/models"
	"visaflow/internal/submission"
	id "visaflow/pkg/domain"
	dErrors "visaflow/pkg/domain-errors"
	"visaflow/pkg/platform/sentinel"
	"visaflow/pkg/requestcontext"
)

const loadTimeout = 5 * time.Second

// RecordStore persists raw process records. Absent records are reported as
// sentinel.ErrNotFound.
type RecordStore interface {
	Load(ctx context.Context, userID id.UserID) (models.RawRecord, error)
	Save(ctx context.Context, userID id.UserID, rec models.RawRecord) error
}

type ProfileStore interface {
	LoadProfile(ctx context.Context, userID id.UserID) (models.Profile, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service orchestrates one athlete's process: it loads both stores,
// reconciles them, runs a pure operation, recomputes every derived value and
// writes the same snapshot back.
type Service struct {
	engine         *engine.Engine
	remote         RecordStore
	local          RecordStore
	profiles       ProfileStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	gateMetrics    *gatemetrics.Metrics
	tracer         trace.Tracer
}

type Option func(s *Service)

// WithLocalCache adds the fast local store. Its failures are logged and
// never fail an operation.
func WithLocalCache(local RecordStore) Option {
	return func(s *Service) {
		s.local = local
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithGateMetrics(m *gatemetrics.Metrics) Option {
	return func(s *Service) {
		s.gateMetrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// New constructs a Service.
func New(eng *engine.Engine, remote RecordStore, profiles ProfileStore, opts ...Option) *Service {
	s := &Service{engine: eng, remote: remote, profiles: profiles}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("visaflow/process")
	}
	return s
}

// Catalog exposes the document catalog the service normalizes against.
func (s *Service) Catalog() *checklist.Catalog {
	return s.engine.Catalog()
}

// Load returns the current snapshot. Nothing is written.
func (s *Service) Load(ctx context.Context, userID id.UserID) (models.State, error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, "load", userID)
	defer span.End()

	st, err := s.load(ctx, userID)
	s.finish(ctx, span, "load", start, err)
	if err != nil {
		return models.State{}, err
	}
	return st, nil
}

// change is what a pure operation hands back to mutate.
type change struct {
	checklist  checklist.State
	submission submission.Submission
	event      audit.Event
	transition *submission.Transition
}

type operation func(before models.State, now time.Time) (change, error)

func (s *Service) mutate(ctx context.Context, name string, userID id.UserID, op operation) (models.State, error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, name, userID)
	defer span.End()

	after, err := s.apply(ctx, userID, op)
	s.finish(ctx, span, name, start, err)
	if err != nil {
		return models.State{}, err
	}
	span.SetAttributes(
		attribute.Bool("trip_unlocked", after.TripUnlocked),
		attribute.String("effective_route", string(after.EffectiveRoute)),
	)
	return after, nil
}

func (s *Service) apply(ctx context.Context, userID id.UserID, op operation) (models.State, error) {
	before, err := s.load(ctx, userID)
	if err != nil {
		return models.State{}, err
	}
	now := requestcontext.Now(ctx)

	ch, err := op(before, now)
	if err != nil {
		return models.State{}, err
	}
	after := s.engine.Derive(userID, before.IsMinor, ch.checklist, ch.submission, now)

	if err := s.save(ctx, userID, after); err != nil {
		return models.State{}, err
	}

	s.gateMetrics.ObserveEvaluation(string(after.Gate.Route), string(after.Gate.Reason), after.Gate.Unlocked)
	if ch.transition != nil {
		s.metrics.IncrementSpainTransition(string(ch.transition.To))
		if ch.transition.ClearsItinerary && len(before.Submission.Travel) > 0 {
			s.emit(ctx, audit.Event{UserID: userID, Action: string(audit.EventItineraryCleared),
				Reason: "spain_request_" + string(ch.transition.To)})
		}
	}
	ch.event.UserID = userID
	s.emit(ctx, ch.event)
	s.observeGateFlip(ctx, userID, before, after)
	return after, nil
}

// load reads both stores and the profile concurrently. A missing record is
// an empty process; a failing local cache is tolerated.
func (s *Service) load(ctx context.Context, userID id.UserID) (models.State, error) {
	if userID.IsNil() {
		return models.State{}, dErrors.New(dErrors.CodeValidation, "user id is required")
	}
	now := requestcontext.Now(ctx)

	loadCtx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()
	g, gctx := errgroup.WithContext(loadCtx)

	var (
		local, remote models.RawRecord
		profile       models.Profile
	)
	g.Go(func() error {
		rec, err := s.remote.Load(gctx, userID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load process record")
		}
		remote = rec
		return nil
	})
	if s.local != nil {
		g.Go(func() error {
			rec, err := s.local.Load(gctx, userID)
			if err != nil {
				if !errors.Is(err, sentinel.ErrNotFound) {
					s.cacheFailure(ctx, "load", userID, err)
				}
				return nil
			}
			local = rec
			return nil
		})
	}
	g.Go(func() error {
		p, err := s.profiles.LoadProfile(gctx, userID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load athlete profile")
		}
		profile = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.State{}, err
	}

	merged, src := models.Reconcile(local, remote)
	s.metrics.ObserveReconcile(string(src.Checklist), string(src.Submission))
	return s.engine.Recompute(userID, profile, merged, now), nil
}

// save writes the remote store of record first. The local cache only
// mirrors it.
func (s *Service) save(ctx context.Context, userID id.UserID, st models.State) error {
	rec, err := st.Record()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode process record")
	}
	if err := s.remote.Save(ctx, userID, rec); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to save process record")
	}
	if s.local != nil {
		if err := s.local.Save(ctx, userID, rec); err != nil {
			s.cacheFailure(ctx, "save", userID, err)
		}
	}
	return nil
}

func (s *Service) observeGateFlip(ctx context.Context, userID id.UserID, before, after models.State) {
	switch {
	case !before.TripUnlocked && after.TripUnlocked:
		s.metrics.IncrementTripUnlocked()
		s.emit(ctx, audit.Event{
			UserID:  userID,
			Action:  string(audit.EventTripUnlocked),
			Subject: string(after.EffectiveRoute),
			Reason:  string(after.Gate.Reason),
		})
	case before.TripUnlocked && !after.TripUnlocked:
		s.emit(ctx, audit.Event{
			UserID:  userID,
			Action:  string(audit.EventTripLocked),
			Subject: string(after.EffectiveRoute),
			Reason:  string(after.Gate.Reason),
		})
	}
}

func (s *Service) cacheFailure(ctx context.Context, op string, userID id.UserID, err error) {
	s.metrics.IncrementCacheFailure(op)
	if s.logger != nil {
		s.logger.WarnContext(ctx, "local process cache failed",
			"op", op,
			"user_id", userID.String(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

// emit logs the audit event and hands it to the publisher. Publishing is
// best effort: the snapshot is already saved.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if event.Action == "" {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if event.ActorID == "" {
		event.ActorID = requestcontext.Actor(ctx).ID
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, event.Action,
			"user_id", event.UserID.String(),
			"subject", event.Subject,
			"decision", event.Decision,
			"request_id", event.RequestID,
			"event", event.Action,
			"log_type", "audit",
		)
	}
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to publish audit event",
			"event", event.Action,
			"request_id", event.RequestID,
			"error", err,
		)
	}
}

func (s *Service) startSpan(ctx context.Context, name string, userID id.UserID) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "process."+name,
		trace.WithAttributes(attribute.String("user_id", userID.String())))
}

func (s *Service) finish(ctx context.Context, span trace.Span, name string, start time.Time, err error) {
	outcome := outcomeOf(err)
	s.metrics.ObserveOperation(name, outcome, time.Since(start))
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, dErrors.MessageOf(err))
	if outcome == "failed" && s.logger != nil {
		s.logger.ErrorContext(ctx, "process operation failed",
			"operation", name,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

// outcomeOf separates caller mistakes from infrastructure failures.
func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeInvalidInput,
		dErrors.CodeNotFound, dErrors.CodeInvalidTransition, dErrors.CodeConflict:
		return "rejected"
	}
	return "failed"
}
