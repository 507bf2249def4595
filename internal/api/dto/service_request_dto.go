package dto

import (
	"time"

	"github.com/spec-kit/service-requests/internal/domain"
)

// CreateServiceRequest payload.
type CreateServiceRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Category    string `json:"category" form:"category"`
	Priority    string `json:"priority" form:"priority"`
}

// ServiceRequestResponse represents a stored service request.
type ServiceRequestResponse struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Priority    string               `json:"priority"`
	Status      domain.RequestStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// NewServiceRequestResponse maps a domain request.
func NewServiceRequestResponse(r *domain.ServiceRequest) ServiceRequestResponse {
	return ServiceRequestResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Priority:    r.Priority,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
