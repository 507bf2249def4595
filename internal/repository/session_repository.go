package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/service-requests/internal/domain"
)

const sessionKeyPrefix = "session:"

// SessionRepository stores server-side session state. A session holds the
// owning user's ID and nothing else.
type SessionRepository interface {
	Create(ctx context.Context, userID int64, ttl time.Duration) (*domain.Session, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

type sessionRepository struct {
	client *redis.Client
}

// NewSessionRepository returns a Redis-backed implementation.
func NewSessionRepository(client *redis.Client) SessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) Create(ctx context.Context, userID int64, ttl time.Duration) (*domain.Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	session := &domain.Session{
		ID:        id.String(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := r.client.Set(ctx, sessionKey(session.ID), strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return session, nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	pipe := r.client.Pipeline()
	getCmd := pipe.Get(ctx, sessionKey(id))
	ttlCmd := pipe.PTTL(ctx, sessionKey(id))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load session: %w", err)
	}

	raw, err := getCmd.Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}

	session := &domain.Session{ID: id, UserID: userID}
	if ttl, err := ttlCmd.Result(); err == nil && ttl > 0 {
		session.ExpiresAt = time.Now().Add(ttl)
	}
	return session, nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
