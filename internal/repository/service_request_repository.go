package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/service-requests/internal/domain"
)

// ServiceRequestRepository encapsulates service request persistence.
type ServiceRequestRepository interface {
	Create(ctx context.Context, req *domain.ServiceRequest) error
	ListByOwner(ctx context.Context, userID int64) ([]domain.ServiceRequest, error)
}

type serviceRequestRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRequestRepository instantiates repository.
func NewServiceRequestRepository(pool *pgxpool.Pool) ServiceRequestRepository {
	return &serviceRequestRepository{pool: pool}
}

func (r *serviceRequestRepository) Create(ctx context.Context, req *domain.ServiceRequest) error {
	const query = `
        INSERT INTO service_requests (user_id, title, description, category, priority, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		req.UserID,
		req.Title,
		req.Description,
		req.Category,
		req.Priority,
		req.Status,
		req.CreatedAt,
		req.UpdatedAt,
	).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("insert service request: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's requests, newest first. Requests created in
// the same second come back in no particular order.
func (r *serviceRequestRepository) ListByOwner(ctx context.Context, userID int64) ([]domain.ServiceRequest, error) {
	const query = `
        SELECT id, user_id, title, description, category, priority, status, created_at, updated_at
        FROM service_requests
        WHERE user_id=$1
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list service requests: %w", err)
	}
	defer rows.Close()
	return scanServiceRequests(rows)
}

func scanServiceRequests(rows pgx.Rows) ([]domain.ServiceRequest, error) {
	result := make([]domain.ServiceRequest, 0)
	for rows.Next() {
		var req domain.ServiceRequest
		if err := rows.Scan(
			&req.ID,
			&req.UserID,
			&req.Title,
			&req.Description,
			&req.Category,
			&req.Priority,
			&req.Status,
			&req.CreatedAt,
			&req.UpdatedAt,
		); err != nil {
			return nil, err
		}
		req.CreatedAt = req.CreatedAt.UTC()
		req.UpdatedAt = req.UpdatedAt.UTC()
		result = append(result, req)
	}
	return result, rows.Err()
}
