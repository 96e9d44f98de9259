// Package middleware holds the HTTP middleware chain shared by all routes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"visaflow/pkg/requestcontext"
)

// Headers asserted by the upstream gateway.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderActorID   = "X-Actor-ID"
	HeaderActorName = "X-Actor-Name"
)

// maxHeaderValue bounds caller-supplied identifiers before they reach logs.
const maxHeaderValue = 128

// RequestID propagates the caller's request ID or mints one, and echoes it
// on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := headerValue(r, HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Actor reads the acting party from the gateway headers. Requests without
// them carry a zero actor.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := requestcontext.ActorInfo{
			ID:   headerValue(r, HeaderActorID),
			Name: headerValue(r, HeaderActorName),
		}
		if actor.IsZero() {
			next.ServeHTTP(w, r)
			return
		}
		ctx := requestcontext.WithActor(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestTime pins one timestamp for the whole request.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), requestcontext.Now(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func headerValue(r *http.Request, name string) string {
	v := strings.TrimSpace(r.Header.Get(name))
	if len(v) > maxHeaderValue {
		v = v[:maxHeaderValue]
	}
	return v
}
