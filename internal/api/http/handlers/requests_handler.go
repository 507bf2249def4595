package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-requests/internal/api/dto"
	"github.com/spec-kit/service-requests/internal/auth"
	"github.com/spec-kit/service-requests/internal/domain"
	"github.com/spec-kit/service-requests/internal/service"
	apperrors "github.com/spec-kit/service-requests/pkg/util"
)

// RequestService is the subset of the request service used by the HTTP layer.
type RequestService interface {
	Create(ctx context.Context, ownerID int64, input service.CreateRequestInput) (*domain.ServiceRequest, error)
	ListForOwner(ctx context.Context, ownerID int64) ([]domain.ServiceRequest, error)
}

// RequestsHandler manages the caller's service requests.
type RequestsHandler struct {
	service RequestService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requestService RequestService) *RequestsHandler {
	return &RequestsHandler{service: requestService}
}

// Create POST /requests.
func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("login required")
	}
	var req dto.CreateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	created, err := h.service.Create(c.UserContext(), user.ID, service.CreateRequestInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewServiceRequestResponse(created)})
}

// List GET /requests.
func (h *RequestsHandler) List(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("login required")
	}
	requests, err := h.service.ListForOwner(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	items := make([]dto.ServiceRequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, dto.NewServiceRequestResponse(&requests[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
