package audit

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "visaflow/pkg/domain"
)

func TestHandlerListsEvents(t *testing.T) {
	userID := id.UserID(uuid.New())
	publisher := NewPublisher(NewInMemoryStore())
	require.NoError(t, publisher.Emit(context.Background(), Event{
		UserID: userID, Action: string(EventDocumentReviewed), Subject: "passport", Decision: "denied",
	}))

	r := chi.NewRouter()
	NewHandler(publisher, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/audit/"+userID.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Events []Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Events, 1)
	assert.Equal(t, "passport", body.Events[0].Subject)
	assert.Equal(t, CategoryCompliance, body.Events[0].Category)
}

func TestHandlerEmptyTrail(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(NewPublisher(NewInMemoryStore()), slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/audit/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"events":[]}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/audit/nope", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
