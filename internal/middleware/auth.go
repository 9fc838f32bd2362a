// Package middleware provides HTTP middleware for the fiber application.
package middleware

import (
	"errors"
	"strings"

	"github.com/upishield/upishield/internal/services/auth"
	"github.com/upishield/upishield/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates bearer tokens and attaches user claims to the
// request context.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Handler checks for a Bearer token, validates it, reports expired and
// malformed tokens with distinct reasons, and confirms the user still
// exists before letting the request through.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return utils.Unauthorized(c, "token expired")
		}
		return utils.Unauthorized(c, "invalid token")
	}

	if _, err := m.authService.GetUserByID(claims.UserID); err != nil {
		return utils.Unauthorized(c, "user no longer exists")
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)

	return c.Next()
}

// OptionalHandler attaches claims when a valid token is present but never
// blocks the request. Used by the 2FA verify endpoint, which serves both
// login completion (no session) and enrollment (session required).
func (m *AuthMiddleware) OptionalHandler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Next()
	}

	claims, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return c.Next()
	}
	if _, err := m.authService.GetUserByID(claims.UserID); err != nil {
		return c.Next()
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}
