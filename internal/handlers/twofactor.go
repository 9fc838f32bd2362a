package handlers

import (
	"errors"

	"github.com/upishield/upishield/internal/models"
	"github.com/upishield/upishield/internal/services/twofactor"
	"github.com/upishield/upishield/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// TwoFactorHandler serves 2FA enrollment and login verification.
type TwoFactorHandler struct {
	service *twofactor.Service
}

func NewTwoFactorHandler(service *twofactor.Service) *TwoFactorHandler {
	return &TwoFactorHandler{service: service}
}

// Setup generates a TOTP secret and provisioning URL for the user.
func (h *TwoFactorHandler) Setup(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	resp, err := h.service.Setup(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to start two-factor setup")
	}

	return utils.Success(c, resp)
}

// Verify has two modes: during enrollment (authenticated) it confirms the
// pending secret and returns backup codes; during login (unauthenticated,
// with a username) it completes an MFA-gated login.
func (h *TwoFactorHandler) Verify(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Code     string `json:"code"`
	}
	if err := c.BodyParser(&input); err != nil || input.Code == "" {
		return utils.BadRequest(c, "Code is required")
	}

	// Login mode: no session yet, username identifies the account.
	if claims, ok := c.Locals("claims").(*models.UserClaims); !ok || claims == nil {
		if input.Username == "" {
			return utils.BadRequest(c, "Username is required")
		}
		u, token, err := h.service.VerifyLogin(input.Username, input.Code)
		if err != nil {
			return utils.Unauthorized(c, "Invalid two-factor code")
		}
		return utils.Success(c, fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":       u.ID,
				"username": u.Username,
				"role":     u.Role,
			},
		})
	}

	claims := c.Locals("claims").(*models.UserClaims)
	codes, err := h.service.Enable(c.Context(), claims.UserID, input.Code)
	if err != nil {
		switch {
		case errors.Is(err, twofactor.ErrNoPendingSetup):
			return utils.BadRequest(c, "No pending two-factor setup")
		case errors.Is(err, twofactor.ErrInvalidCode):
			return utils.BadRequest(c, "Invalid two-factor code")
		default:
			return utils.InternalError(c, "Failed to enable two-factor authentication")
		}
	}

	return utils.Success(c, fiber.Map{
		"message":      "Two-factor authentication enabled",
		"backup_codes": codes,
	})
}

// Disable turns off 2FA given a valid code or the account password.
func (h *TwoFactorHandler) Disable(c *fiber.Ctx) error {
	var input struct {
		Code     string `json:"code"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims := c.Locals("claims").(*models.UserClaims)
	if err := h.service.Disable(claims.UserID, input.Code, input.Password); err != nil {
		switch {
		case errors.Is(err, twofactor.ErrNotEnabled):
			return utils.BadRequest(c, "Two-factor authentication is not enabled")
		case errors.Is(err, twofactor.ErrInvalidCode):
			return utils.Unauthorized(c, "Invalid two-factor code or password")
		default:
			return utils.InternalError(c, "Failed to disable two-factor authentication")
		}
	}

	return utils.Success(c, fiber.Map{"message": "Two-factor authentication disabled"})
}
