package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/upishield/upishield/internal/models"
	"github.com/upishield/upishield/internal/repositories"
	"github.com/upishield/upishield/internal/services/transaction"
	"github.com/upishield/upishield/internal/utils"
	"github.com/upishield/upishield/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// TransactionHandler serves the transaction history endpoints.
type TransactionHandler struct {
	service *transaction.Service
}

func NewTransactionHandler(service *transaction.Service) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// List returns a filtered, paginated transaction history.
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	p := utils.ParsePagination(c)

	filter := repositories.ListFilter{
		Prediction: c.Query("prediction"),
		RiskLevel:  c.Query("riskLevel"),
		Search:     c.Query("search"),
		SortBy:     c.Query("sortBy", "createdAt"),
		SortOrder:  c.Query("sortOrder", "desc"),
		Offset:     p.Offset,
		Limit:      p.Limit,
	}

	if raw := c.Query("startDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return utils.BadRequest(c, "startDate must be RFC 3339")
		}
		filter.StartDate = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return utils.BadRequest(c, "endDate must be RFC 3339")
		}
		filter.EndDate = &t
	}

	transactions, total, err := h.service.List(claims.UserID, filter)
	if err != nil {
		log.Printf("transaction list failed for user %d: %v", claims.UserID, err)
		return utils.InternalError(c, "Failed to fetch transactions")
	}

	p.Total = total
	return c.JSON(utils.PaginatedResponse(p, transactions))
}

// Get returns one transaction by its public identifier.
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	tx, err := h.service.Get(claims.UserID, c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return utils.NotFound(c, "Transaction not found")
		}
		return utils.InternalError(c, "Failed to fetch transaction")
	}

	return utils.Success(c, tx)
}

// Review records a manual review decision on a transaction.
func (h *TransactionHandler) Review(c *fiber.Ctx) error {
	var input struct {
		Status      string `json:"status"`
		ReviewNotes string `json:"reviewNotes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	v.ReviewRequest(input.Status, input.ReviewNotes)
	if !v.Valid() {
		return utils.ValidationError(c, v.Messages())
	}

	claims := c.Locals("claims").(*models.UserClaims)
	tx, err := h.service.Review(c.Context(), claims.UserID, c.Params("id"), input.Status, input.ReviewNotes)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return utils.NotFound(c, "Transaction not found")
		}
		return utils.InternalError(c, "Failed to update transaction")
	}

	return utils.Success(c, tx)
}

// Delete removes a transaction.
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	if err := h.service.Delete(c.Context(), claims.UserID, c.Params("id")); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return utils.NotFound(c, "Transaction not found")
		}
		return utils.InternalError(c, "Failed to delete transaction")
	}

	return utils.Success(c, fiber.Map{"message": "Transaction deleted"})
}

// Stats returns the aggregate overview plus 30-day time series.
func (h *TransactionHandler) Stats(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	stats, err := h.service.Stats(c.Context(), claims.UserID)
	if err != nil {
		log.Printf("stats failed for user %d: %v", claims.UserID, err)
		return utils.InternalError(c, "Failed to fetch statistics")
	}

	return utils.Success(c, stats)
}

// ExportCSV streams the full history as a CSV attachment.
func (h *TransactionHandler) ExportCSV(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	data, err := h.service.ExportCSV(claims.UserID)
	if err != nil {
		log.Printf("csv export failed for user %d: %v", claims.UserID, err)
		return utils.InternalError(c, "Failed to export transactions")
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=transactions.csv`)
	return c.Send(data)
}
