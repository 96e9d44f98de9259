package audit

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "visaflow/pkg/domain"
	"visaflow/pkg/platform/httputil"
	"visaflow/pkg/requestcontext"
)

// Lister reads an athlete's audit trail.
type Lister interface {
	List(ctx context.Context, userID id.UserID) ([]Event, error)
}

// Handler exposes the audit trail to staff tooling.
type Handler struct {
	lister Lister
	logger *slog.Logger
}

func NewHandler(lister Lister, logger *slog.Logger) *Handler {
	return &Handler{lister: lister, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/audit/{userID}", h.HandleList)
}

// HandleList handles GET /v1/audit/{userID}.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	events, err := h.lister.List(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit events",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if events == nil {
		events = []Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}
