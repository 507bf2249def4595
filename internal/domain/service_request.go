package domain

import "time"

// RequestStatus is the lifecycle state of a service request.
type RequestStatus string

// RequestStatusOpen is the only status ever written.
const RequestStatusOpen RequestStatus = "Open"

// ServiceRequest is a ticket submitted by its owning user.
type ServiceRequest struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Category    string
	Priority    string
	Status      RequestStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
