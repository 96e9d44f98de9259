package testutil

import (
	"net/http"

	"visaflow/pkg/requestcontext"
)

// WithActor attaches the acting party to the request context, as the actor
// middleware does for requests carrying gateway headers.
func WithActor(req *http.Request, actorID, actorName string) *http.Request {
	ctx := requestcontext.WithActor(req.Context(), requestcontext.ActorInfo{ID: actorID, Name: actorName})
	return req.WithContext(ctx)
}

// WithRequestID attaches a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
