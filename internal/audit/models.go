package audit

import (
	"context"
	"time"

	id "visaflow/pkg/domain"
)

// EventCategory classifies audit events by retention needs.
type EventCategory string

const (
	// CategoryCompliance covers staff decisions that must be kept.
	CategoryCompliance EventCategory = "compliance"
	// CategoryOperations covers routine athlete activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        id.EventID    `json:"id"`
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	UserID    id.UserID     `json:"userId"`
	// Subject is the document key or process part the action touched.
	Subject   string `json:"subject,omitempty"`
	Action    string `json:"action"`
	Decision  string `json:"decision,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"requestId,omitempty"`
	// ActorID is the staff member or athlete who performed the action.
	ActorID string `json:"actorId,omitempty"`
}

type AuditEvent string

const (
	// Checklist events
	EventDocumentAttached  AuditEvent = "document_attached"
	EventDocumentSubmitted AuditEvent = "document_submitted"
	EventDocumentReviewed  AuditEvent = "document_reviewed"
	EventDocumentReset     AuditEvent = "document_reset"
	EventDocumentNotes     AuditEvent = "document_notes_updated"

	// Submission events
	EventRouteChosen      AuditEvent = "route_chosen"
	EventSpainRequested   AuditEvent = "spain_request_submitted"
	EventSpainDecided     AuditEvent = "spain_request_decided"
	EventSpainReset       AuditEvent = "spain_request_reset"
	EventItineraryCleared AuditEvent = "itinerary_cleared"
	EventTravelUpdated    AuditEvent = "travel_updated"

	// Gate events
	EventTripUnlocked AuditEvent = "trip_unlocked"
	EventTripLocked   AuditEvent = "trip_locked"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventDocumentReviewed: CategoryCompliance,
	EventDocumentReset:    CategoryCompliance,
	EventSpainDecided:     CategoryCompliance,
	EventSpainReset:       CategoryCompliance,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Sink receives audit events. Sinks are append-only.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Store is a Sink that can also be queried.
type Store interface {
	Sink
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
