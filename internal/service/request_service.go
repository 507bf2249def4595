package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/service-requests/internal/domain"
	"github.com/spec-kit/service-requests/internal/events"
	"github.com/spec-kit/service-requests/internal/repository"
)

// RequestService creates and lists service requests for their owners.
type RequestService struct {
	requests repository.ServiceRequestRepository
	events   eventPublisher
	now      func() time.Time
}

// RequestDependencies bundles collaborators for the request service.
type RequestDependencies struct {
	RequestRepo repository.ServiceRequestRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	// Clock overrides time.Now, mainly for tests.
	Clock func() time.Time
}

// CreateRequestInput describes a new service request.
type CreateRequestInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority" validate:"required"`
}

// NewRequestService constructs the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &RequestService{
		requests: deps.RequestRepo,
		events:   newEventPublisher(deps.Dispatcher, logger, clock),
		now:      clock,
	}
}

// Create stores a new Open request owned by ownerID. Title and priority are
// required after trimming.
func (s *RequestService) Create(ctx context.Context, ownerID int64, input CreateRequestInput) (*domain.ServiceRequest, error) {
	input = CreateRequestInput{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		Priority:    strings.TrimSpace(input.Priority),
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Second)
	req := &domain.ServiceRequest{
		UserID:      ownerID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      domain.RequestStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:   events.EventServiceRequestCreated,
		UserID: ownerID,
		Payload: events.ServiceRequestCreatedPayload{
			RequestID: req.ID,
			Title:     req.Title,
			Category:  req.Category,
			Priority:  req.Priority,
		},
	})
	return req, nil
}

// ListForOwner returns every request owned by ownerID, newest first. An owner
// without requests gets an empty slice.
func (s *RequestService) ListForOwner(ctx context.Context, ownerID int64) ([]domain.ServiceRequest, error) {
	requests, err := s.requests.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []domain.ServiceRequest{}
	}
	return requests, nil
}
