package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/service-requests/internal/config"
	"github.com/spec-kit/service-requests/internal/domain"
	"github.com/spec-kit/service-requests/internal/repository"
)

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

// Create mimics the unique index on users.email.
func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	user.ID = r.nextID
	r.nextID++
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) countByEmail(email string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.users {
		if u.Email == email {
			n++
		}
	}
	return n
}

func (r *stubUserRepo) remove(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

type stubRequestRepo struct {
	mu       sync.Mutex
	requests []domain.ServiceRequest
	nextID   int64
	err      error
}

func (r *stubRequestRepo) Create(_ context.Context, req *domain.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	req.ID = r.nextID
	r.requests = append(r.requests, *req)
	return nil
}

func (r *stubRequestRepo) ListByOwner(_ context.Context, userID int64) ([]domain.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ServiceRequest
	for _, req := range r.requests {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubRequestRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			SessionSecret:     "test-secret",
			SessionTTLMinutes: 60,
			CookieName:        "sr_session",
			BcryptCost:        bcrypt.MinCost,
		},
	}
}

func newTestAuthService(t *testing.T) (*AuthService, *stubUserRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	users := newStubUserRepo()
	svc := NewAuthService(testConfig(), AuthDependencies{
		UserRepo:    users,
		SessionRepo: repository.NewSessionRepository(client),
	})
	return svc, users, mr
}
