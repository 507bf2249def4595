package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/service-requests/internal/auth"
	"github.com/spec-kit/service-requests/internal/config"
	"github.com/spec-kit/service-requests/internal/domain"
	"github.com/spec-kit/service-requests/internal/events"
	"github.com/spec-kit/service-requests/internal/repository"
)

// AuthService coordinates registration, login and session state.
type AuthService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	tokenMgr   *auth.TokenManager
	events     eventPublisher
	bcryptCost int
	sessionTTL time.Duration

	dummyOnce sync.Once
	dummyHash string
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	// Clock overrides time.Now for event timestamps.
	Clock func() time.Time
}

type registerInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.SessionRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.SessionSecret),
		events:     newEventPublisher(deps.Dispatcher, logger, clock),
		bcryptCost: cfg.Auth.BcryptCost,
		sessionTTL: cfg.Auth.SessionTTL(),
	}
}

// Register creates a new account. It never logs the user in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	input := registerInput{
		Name:     strings.TrimSpace(name),
		Email:    NormalizeEmail(email),
		Password: strings.TrimSpace(password),
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, &domain.ValidationError{Fields: []string{"password"}}
		}
		return nil, err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
	}
	// Uniqueness is enforced by the store; a lost race surfaces as ErrDuplicateEmail.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:    events.EventUserRegistered,
		UserID:  user.ID,
		Payload: events.UserRegisteredPayload{Name: user.Name, Email: user.Email},
	})
	return user, nil
}

// Authenticate verifies credentials. Unknown email and wrong password both
// return domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Spend the same bcrypt work as a real comparison.
			_ = auth.ComparePassword(s.placeholderHash(), password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// CurrentIdentity loads the user behind a session reference. ok is false when
// userID is zero or the user no longer exists.
func (s *AuthService) CurrentIdentity(ctx context.Context, userID int64) (*domain.User, bool, error) {
	if userID <= 0 {
		return nil, false, nil
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return user, true, nil
}

// EstablishSession records userID in server-side session state and returns
// the signed token identifying it.
func (s *AuthService) EstablishSession(ctx context.Context, userID int64) (*domain.Session, error) {
	session, err := s.sessions.Create(ctx, userID, s.sessionTTL)
	if err != nil {
		return nil, err
	}
	token, err := s.tokenMgr.GenerateToken(session.ID, session.ExpiresAt)
	if err != nil {
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, err
	}
	session.Token = token
	return session, nil
}

// ResolveSession maps a session token to its user. Missing, forged or
// expired tokens, cleared sessions and deleted users all give ok=false.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domain.User, bool, error) {
	if token == "" {
		return nil, false, nil
	}
	sessionID, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, false, nil
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return s.CurrentIdentity(ctx, session.UserID)
}

// ClearSession removes the session behind token. Clearing an empty, unknown
// or already cleared session is a no-op.
func (s *AuthService) ClearSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sessionID, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		hash, err := auth.HashPassword(uuid.NewString(), s.bcryptCost)
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}
