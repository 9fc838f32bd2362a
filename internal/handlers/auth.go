package handlers

import (
	"errors"
	"log"

	"github.com/upishield/upishield/internal/models"
	"github.com/upishield/upishield/internal/repositories"
	"github.com/upishield/upishield/internal/services/auth"
	"github.com/upishield/upishield/internal/services/user"
	"github.com/upishield/upishield/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler serves registration, login and password recovery.
type AuthHandler struct {
	authService auth.Service
	userService user.Service
}

func NewAuthHandler(authService auth.Service, userService user.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// Register creates a new account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input user.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	created, err := h.userService.Register(input)
	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			return utils.BadRequest(c, "Username already taken")
		}
		return utils.BadRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user": fiber.Map{
			"id":       created.ID,
			"username": created.Username,
		},
	})
}

// Login authenticates and returns a 24h bearer token. When 2FA is enabled
// the token is withheld until /2fa/verify succeeds.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Username == "" || input.Password == "" {
		return utils.BadRequest(c, "Username and password are required")
	}

	u, token, err := h.authService.Login(c.Context(), input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMFARequired):
			return c.JSON(fiber.Map{
				"mfa_required": true,
				"username":     u.Username,
			})
		case errors.Is(err, auth.ErrAccountLocked):
			return utils.Unauthorized(c, "Account locked. Try again later.")
		case errors.Is(err, auth.ErrInvalidCredentials):
			return utils.Unauthorized(c, "Invalid username or password")
		default:
			log.Printf("login failed: %v", err)
			return utils.InternalError(c, "Authentication failed")
		}
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       u.ID,
			"username": u.Username,
			"role":     u.Role,
		},
	})
}

// RefreshToken exchanges a valid or recently expired bearer token for a
// fresh one. Tokens expired longer than the refresh window require a login.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var input struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&input); err != nil || input.Token == "" {
		return utils.BadRequest(c, "Token is required")
	}

	token, err := h.authService.RefreshToken(input.Token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenTooOld) {
			return utils.Unauthorized(c, "Token too old. Please login again.")
		}
		return utils.Unauthorized(c, "Invalid token")
	}

	return utils.Success(c, fiber.Map{"token": token})
}

// Logout acknowledges a client-side token drop. Sessions are stateless
// bearer tokens, so there is nothing to revoke server-side.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return utils.Success(c, fiber.Map{"message": "Successfully logged out"})
}

// ChangePassword rotates the password for the authenticated user.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var input struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims := c.Locals("claims").(*models.UserClaims)
	if err := h.authService.ChangePassword(claims.UserID, input.OldPassword, input.NewPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return utils.BadRequest(c, "Invalid old password")
		}
		return utils.BadRequest(c, err.Error())
	}

	return utils.Success(c, fiber.Map{"message": "Password changed successfully"})
}

// ForgotPassword starts the OTP reset flow. Always answers 200 so the
// endpoint cannot probe which emails exist.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil || input.Email == "" {
		return utils.BadRequest(c, "Email is required")
	}

	if err := h.authService.ForgotPassword(c.Context(), input.Email); err != nil {
		log.Printf("forgot password failed: %v", err)
		return utils.InternalError(c, "Failed to process request")
	}

	return utils.Success(c, fiber.Map{
		"message": "If the email is registered, a reset code has been sent",
	})
}

// VerifyOTP exchanges a reset code for a single-use reset ticket.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var input struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := c.BodyParser(&input); err != nil || input.Email == "" || input.Code == "" {
		return utils.BadRequest(c, "Email and code are required")
	}

	ticket, err := h.authService.VerifyOTP(c.Context(), input.Email, input.Code)
	if err != nil {
		return utils.BadRequest(c, "Invalid or expired code")
	}

	return utils.Success(c, fiber.Map{"reset_ticket": ticket})
}

// ResetPassword consumes the reset ticket and sets the new password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input struct {
		Ticket      string `json:"reset_ticket"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil || input.Ticket == "" {
		return utils.BadRequest(c, "Reset ticket and new password are required")
	}

	if err := h.authService.ResetPassword(c.Context(), input.Ticket, input.NewPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidResetTicket) {
			return utils.BadRequest(c, "Invalid or expired reset ticket")
		}
		return utils.BadRequest(c, err.Error())
	}

	return utils.Success(c, fiber.Map{"message": "Password reset successfully"})
}

// DeleteAccount removes the authenticated user and their transactions.
func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	if err := h.userService.DeleteAccount(claims.UserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		log.Printf("account deletion failed for user %d: %v", claims.UserID, err)
		return utils.InternalError(c, "Failed to delete account")
	}

	return utils.Success(c, fiber.Map{"message": "Account deleted"})
}

// Profile returns the authenticated user's profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	u, err := h.userService.GetProfile(claims.UserID)
	if err != nil {
		return utils.NotFound(c, "User not found")
	}

	return utils.Success(c, fiber.Map{
		"id":                 u.ID,
		"username":           u.Username,
		"email":              u.Email,
		"role":               u.Role,
		"status":             u.Status,
		"two_factor_enabled": u.TwoFactorEnabled,
		"last_login_at":      u.LastLoginAt,
		"created_at":         u.CreatedAt,
	})
}
