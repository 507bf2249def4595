package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-requests/internal/api/dto"
	"github.com/spec-kit/service-requests/internal/auth"
	"github.com/spec-kit/service-requests/internal/domain"
	"github.com/spec-kit/service-requests/internal/observability"
	apperrors "github.com/spec-kit/service-requests/pkg/util"
)

// AuthService is the subset of the auth service used by the HTTP layer.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	EstablishSession(ctx context.Context, userID int64) (*domain.Session, error)
	ClearSession(ctx context.Context, token string) error
}

// UsersHandler exposes registration, login and logout.
type UsersHandler struct {
	auth    AuthService
	cookies *auth.AuthMiddleware
	metrics *observability.Metrics
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService AuthService, cookies *auth.AuthMiddleware, metrics *observability.Metrics) *UsersHandler {
	return &UsersHandler{auth: authService, cookies: cookies, metrics: metrics}
}

// Register handles POST /auth/register. It does not log the user in.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewUserResponse(user)},
	})
}

// Login handles POST /auth/login and sets the session cookie.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.metrics.RecordLogin(observability.LoginRejected)
		}
		return err
	}

	// Drop any session the client already had before issuing a new one.
	if err := h.auth.ClearSession(c.UserContext(), h.cookies.SessionToken(c)); err != nil {
		return err
	}
	session, err := h.auth.EstablishSession(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	h.cookies.SetCookie(c, session.Token, session.ExpiresAt)
	h.metrics.RecordLogin(observability.LoginSucceeded)

	return c.JSON(fiber.Map{
		"data": dto.SessionResponse{User: dto.NewUserResponse(user), ExpiresAt: session.ExpiresAt},
	})
}

// Logout handles POST /auth/logout. Logging out without a session succeeds.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.ClearSession(c.UserContext(), h.cookies.SessionToken(c)); err != nil {
		return err
	}
	h.cookies.ClearCookie(c)
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("login required")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user": dto.NewUserResponse(user)}})
}
