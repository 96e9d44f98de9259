package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"visaflow/internal/checklist"
	"visaflow/internal/process/models"
	"visaflow/internal/submission"
	id "visaflow/pkg/domain"
	"visaflow/pkg/platform/httputil"
	"visaflow/pkg/requestcontext"
)

// Service defines the process operations the handler exposes.
type Service interface {
	Load(ctx context.Context, userID id.UserID) (models.State, error)
	AttachDocument(ctx context.Context, userID id.UserID, key string, file checklist.File) (models.State, error)
	SubmitForReview(ctx context.Context, userID id.UserID, key string) (models.State, error)
	ReviewDocument(ctx context.Context, userID id.UserID, key string, decision checklist.ReviewDecision, reason string) (models.State, error)
	ResetDocument(ctx context.Context, userID id.UserID, key string) (models.State, error)
	UpdateNotes(ctx context.Context, userID id.UserID, key, notes string) (models.State, error)
	ChooseRoute(ctx context.Context, userID id.UserID, route submission.Route) (models.State, error)
	RequestSpain(ctx context.Context, userID id.UserID, reason string) (models.State, error)
	DecideSpain(ctx context.Context, userID id.UserID, approve bool, reason string) (models.State, error)
	ResetSpain(ctx context.Context, userID id.UserID) (models.State, error)
	UpdateTravel(ctx context.Context, userID id.UserID, arrival *time.Time, entries []submission.TravelEntry) (models.State, error)
}

// Handler wires process endpoints to the process service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the process endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1/process/{userID}", func(r chi.Router) {
		r.Get("/", h.HandleGetProcess)

		r.Put("/documents/{key}/file", h.HandleAttachDocument)
		r.Post("/documents/{key}/submit", h.HandleSubmitDocument)
		r.Post("/documents/{key}/review", h.HandleReviewDocument)
		r.Put("/documents/{key}/notes", h.HandleUpdateNotes)
		r.Delete("/documents/{key}", h.HandleResetDocument)

		r.Put("/route", h.HandleChooseRoute)
		r.Post("/spain-request", h.HandleRequestSpain)
		r.Post("/spain-request/decision", h.HandleDecideSpain)
		r.Delete("/spain-request", h.HandleResetSpain)

		r.Put("/travel", h.HandleUpdateTravel)
	})
}

// HandleGetProcess handles GET /v1/process/{userID}.
func (h *Handler) HandleGetProcess(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	st, err := h.service.Load(r.Context(), userID)
	h.respond(w, r, "load", st, err)
}

func (h *Handler) HandleAttachDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.AttachFileRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	st, err := h.service.AttachDocument(ctx, userID, chi.URLParam(r, "key"), req.File())
	h.respond(w, r, "attach_document", st, err)
}

func (h *Handler) HandleSubmitDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	st, err := h.service.SubmitForReview(r.Context(), userID, chi.URLParam(r, "key"))
	h.respond(w, r, "submit_document", st, err)
}

// HandleReviewDocument records a staff decision. The reviewer comes from
// the actor headers set by the gateway.
func (h *Handler) HandleReviewDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.ReviewRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	st, err := h.service.ReviewDocument(ctx, userID, chi.URLParam(r, "key"), checklist.ReviewDecision(req.Decision), req.Reason)
	h.respond(w, r, "review_document", st, err)
}

func (h *Handler) HandleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.NotesRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	st, err := h.service.UpdateNotes(ctx, userID, chi.URLParam(r, "key"), req.Notes)
	h.respond(w, r, "update_notes", st, err)
}

func (h *Handler) HandleResetDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	st, err := h.service.ResetDocument(r.Context(), userID, chi.URLParam(r, "key"))
	h.respond(w, r, "reset_document", st, err)
}

func (h *Handler) HandleChooseRoute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.RouteRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	st, err := h.service.ChooseRoute(ctx, userID, submission.Route(req.Route))
	h.respond(w, r, "choose_route", st, err)
}

func (h *Handler) HandleRequestSpain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.SpainRequestBody](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	st, err := h.service.RequestSpain(ctx, userID, req.Reason)
	h.respond(w, r, "request_spain", st, err)
}

func (h *Handler) HandleDecideSpain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.SpainDecisionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	st, err := h.service.DecideSpain(ctx, userID, req.Approved(), req.Reason)
	h.respond(w, r, "decide_spain", st, err)
}

func (h *Handler) HandleResetSpain(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	st, err := h.service.ResetSpain(r.Context(), userID)
	h.respond(w, r, "reset_spain", st, err)
}

func (h *Handler) HandleUpdateTravel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.TravelRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	st, err := h.service.UpdateTravel(ctx, userID, req.ExpectedArrivalDate, req.Entries)
	h.respond(w, r, "update_travel", st, err)
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.UserID{}, false
	}
	return userID, true
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, op string, st models.State, err error) {
	ctx := r.Context()
	if err != nil {
		h.logger.WarnContext(ctx, "process request failed",
			"request_id", requestcontext.RequestID(ctx),
			"operation", op,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromState(st))
}
