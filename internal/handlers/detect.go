package handlers

import (
	"log"

	"github.com/upishield/upishield/internal/config"
	"github.com/upishield/upishield/internal/models"
	"github.com/upishield/upishield/internal/services/notification"
	"github.com/upishield/upishield/internal/services/scoring"
	"github.com/upishield/upishield/internal/services/transaction"
	"github.com/upishield/upishield/internal/services/user"
	"github.com/upishield/upishield/internal/utils"
	"github.com/upishield/upishield/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// DetectHandler serves the risk-scoring endpoint.
type DetectHandler struct {
	scoringService *scoring.Service
	txService      *transaction.Service
	userService    user.Service
	notifier       *notification.Service
	maxAmount      float64
}

func NewDetectHandler(scoringService *scoring.Service, txService *transaction.Service, userService user.Service, notifier *notification.Service) *DetectHandler {
	return &DetectHandler{
		scoringService: scoringService,
		txService:      txService,
		userService:    userService,
		notifier:       notifier,
		maxAmount:      config.GetFloatEnv("MAX_TRANSACTION_AMOUNT", validation.MaxTransactionAmount),
	}
}

// Detect validates the candidate transaction, scores it through the
// boundary (remote with local fallback) and persists the result. Only
// validation failures surface as 400; scoring-service outages never do.
func (h *DetectHandler) Detect(c *fiber.Ctx) error {
	var req scoring.Request
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationError(c, []string{"body: must be valid JSON"})
	}

	v := validation.New()
	v.DetectRequest(&req, h.maxAmount)
	if !v.Valid() {
		return utils.ValidationError(c, v.Messages())
	}

	claims := c.Locals("claims").(*models.UserClaims)
	meta := scoring.RequestMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	}

	result, err := h.scoringService.Detect(c.Context(), claims.UserID, req, meta)
	if err != nil {
		log.Printf("transaction analysis failed: %v", err)
		return utils.InternalError(c, "Failed to analyze transaction")
	}

	h.txService.InvalidateStats(c.Context(), claims.UserID)

	if result.IsFraud {
		if u, err := h.userService.GetProfile(claims.UserID); err == nil && u.Email != "" {
			h.notifier.SendFraudAlert(c.Context(), u.Email, result.TransactionID)
		}
	}

	return utils.Success(c, result)
}
