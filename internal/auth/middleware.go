package auth

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-requests/internal/domain"
	apperrors "github.com/spec-kit/service-requests/pkg/util"
)

const principalKey = "auth_principal"

// IdentityResolver maps a session token to the logged-in user. ok is false
// when the token does not lead to an existing user.
type IdentityResolver interface {
	ResolveSession(ctx context.Context, token string) (user *domain.User, ok bool, err error)
}

// CookieConfig controls the session cookie written to clients.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthMiddleware loads the session user from the session cookie.
type AuthMiddleware struct {
	resolver IdentityResolver
	cookie   CookieConfig
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(resolver IdentityResolver, cookie CookieConfig) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver, cookie: cookie}
}

// Handle enforces an authenticated session for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token := m.SessionToken(c)
	if token == "" {
		return apperrors.NewUnauthorized("login required")
	}

	user, ok, err := m.resolver.ResolveSession(c.UserContext(), token)
	if err != nil {
		return err
	}
	if !ok {
		m.ClearCookie(c)
		return apperrors.NewUnauthorized("login required")
	}

	c.Locals(principalKey, user)
	return c.Next()
}

// SessionToken returns the raw session token sent by the client, if any.
func (m *AuthMiddleware) SessionToken(c *fiber.Ctx) string {
	return c.Cookies(m.cookie.Name)
}

// SetCookie hands the session token to the client.
func (m *AuthMiddleware) SetCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on the client.
func (m *AuthMiddleware) ClearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// UserFromContext retrieves the authenticated user.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok && user != nil
}
