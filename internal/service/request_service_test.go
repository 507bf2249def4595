package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/service-requests/internal/domain"
	"github.com/spec-kit/service-requests/internal/events"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestRequestService() (*RequestService, *stubRequestRepo, *fakeClock) {
	repo := &stubRequestRepo{}
	clock := &fakeClock{now: time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.FixedZone("CET", 3600))}
	svc := NewRequestService(RequestDependencies{RequestRepo: repo, Clock: clock.Now})
	return svc, repo, clock
}

func TestRequestService_Create(t *testing.T) {
	svc, repo, _ := newTestRequestService()

	req, err := svc.Create(context.Background(), 7, CreateRequestInput{Title: "Fix sink", Priority: "High"})
	require.NoError(t, err)

	assert.NotZero(t, req.ID)
	assert.Equal(t, int64(7), req.UserID)
	assert.Equal(t, domain.RequestStatusOpen, req.Status)
	assert.Equal(t, "Fix sink", req.Title)
	assert.Empty(t, req.Description)
	assert.Empty(t, req.Category)
	assert.True(t, req.CreatedAt.Equal(req.UpdatedAt))
	assert.Equal(t, time.UTC, req.CreatedAt.Location())
	assert.Equal(t, time.Date(2026, 3, 14, 8, 26, 53, 0, time.UTC), req.CreatedAt)
	assert.Equal(t, 1, repo.count())
}

func TestRequestService_CreateTrimsFields(t *testing.T) {
	svc, _, _ := newTestRequestService()

	req, err := svc.Create(context.Background(), 1, CreateRequestInput{
		Title:       "  Leaky roof ",
		Description: " water everywhere\n",
		Category:    " Plumbing ",
		Priority:    " Low ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Leaky roof", req.Title)
	assert.Equal(t, "water everywhere", req.Description)
	assert.Equal(t, "Plumbing", req.Category)
	assert.Equal(t, "Low", req.Priority)
}

func TestRequestService_CreateValidation(t *testing.T) {
	svc, repo, _ := newTestRequestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, CreateRequestInput{Title: "", Description: "desc", Category: "cat", Priority: "Low"})
	require.ErrorIs(t, err, domain.ErrValidation)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"title"}, ve.Fields)

	_, err = svc.Create(ctx, 1, CreateRequestInput{Title: "   ", Priority: "  "})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"title", "priority"}, ve.Fields)

	assert.Equal(t, 0, repo.count())
}

func TestRequestService_CreatePropagatesStoreErrors(t *testing.T) {
	svc, repo, _ := newTestRequestService()
	boom := errors.New("connection refused")
	repo.err = boom

	_, err := svc.Create(context.Background(), 1, CreateRequestInput{Title: "t", Priority: "p"})
	assert.ErrorIs(t, err, boom)
}

func TestRequestService_ListForOwnerNewestFirst(t *testing.T) {
	svc, _, clock := newTestRequestService()
	ctx := context.Background()

	r1, err := svc.Create(ctx, 1, CreateRequestInput{Title: "R1", Priority: "Low"})
	require.NoError(t, err)
	clock.Advance(2 * time.Second)
	r2, err := svc.Create(ctx, 1, CreateRequestInput{Title: "R2", Priority: "High"})
	require.NoError(t, err)

	list, err := svc.ListForOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, r2.ID, list[0].ID)
	assert.Equal(t, r1.ID, list[1].ID)

	empty, err := svc.ListForOwner(ctx, 2)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestRequestService_ListForOwnerIsolation(t *testing.T) {
	svc, _, clock := newTestRequestService()
	ctx := context.Background()

	for i, owner := range []int64{1, 2, 1, 3, 2} {
		clock.Advance(time.Second)
		_, err := svc.Create(ctx, owner, CreateRequestInput{Title: "req", Priority: "Low", Category: string(rune('a' + i))})
		require.NoError(t, err)
	}

	for _, owner := range []int64{1, 2, 3} {
		list, err := svc.ListForOwner(ctx, owner)
		require.NoError(t, err)
		require.NotEmpty(t, list)
		for _, req := range list {
			assert.Equal(t, owner, req.UserID)
		}
	}
}

func TestRequestService_PublishesCreatedEvent(t *testing.T) {
	repo := &stubRequestRepo{}
	dispatcher := events.NewInMemoryDispatcher()
	clock := &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	svc := NewRequestService(RequestDependencies{RequestRepo: repo, Dispatcher: dispatcher, Clock: clock.Now})

	var published []events.Event
	dispatcher.Subscribe(events.EventServiceRequestCreated, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return errors.New("subscriber failure")
	})

	req, err := svc.Create(context.Background(), 5, CreateRequestInput{Title: "Broken door", Priority: "Medium"})
	require.NoError(t, err)
	req2, err := svc.Create(context.Background(), 5, CreateRequestInput{Title: "Leaky tap", Priority: "Low"})
	require.NoError(t, err)

	require.Len(t, published, 2)
	payload := published[0].Payload.(events.ServiceRequestCreatedPayload)
	assert.Equal(t, req.ID, payload.RequestID)
	assert.Equal(t, "Medium", payload.Priority)
	assert.Equal(t, req2.ID, published[1].Payload.(events.ServiceRequestCreatedPayload).RequestID)
	assert.Equal(t, clock.now, published[0].Timestamp)
	assert.NotEqual(t, published[0].ID, published[1].ID)
}
