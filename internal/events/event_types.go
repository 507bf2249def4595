package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered        EventType = "user_registered"
	EventServiceRequestCreated EventType = "service_request_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    int64       `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ServiceRequestCreatedPayload payload.
type ServiceRequestCreatedPayload struct {
	RequestID int64  `json:"request_id"`
	Title     string `json:"title"`
	Category  string `json:"category,omitempty"`
	Priority  string `json:"priority"`
}
