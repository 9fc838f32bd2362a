package repositories

import (
	"errors"
	"time"

	"github.com/upishield/upishield/internal/models"

	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new instance of TransactionRepository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(tx *models.Transaction) error {
	if err := r.db.Create(tx).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *transactionRepository) GetByTransactionID(userID uint, transactionID string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.Where("user_id = ? AND transaction_id = ?", userID, transactionID).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &tx, nil
}

// sortColumns whitelists user-supplied sort fields.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"amount":    "amount",
	"riskScore": "risk_score",
}

func (r *transactionRepository) List(userID uint, filter ListFilter) ([]models.Transaction, int64, error) {
	query := r.db.Model(&models.Transaction{}).Where("user_id = ?", userID)

	if filter.Prediction != "" {
		query = query.Where("prediction = ?", filter.Prediction)
	}

	switch filter.RiskLevel {
	case "high":
		query = query.Where("risk_score >= ?", models.HighScoreMin)
	case "medium":
		query = query.Where("risk_score >= ? AND risk_score < ?", models.FlaggedScoreMin, models.HighScoreMin)
	case "low":
		query = query.Where("risk_score < ?", models.FlaggedScoreMin)
	}

	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"transaction_id ILIKE ? OR sender_upi_id ILIKE ? OR receiver_upi_id ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	order := "DESC"
	if filter.SortOrder == "asc" {
		order = "ASC"
	}

	var transactions []models.Transaction
	err := query.Order(column + " " + order).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	return transactions, total, nil
}

func (r *transactionRepository) ListAll(userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return transactions, nil
}

func (r *transactionRepository) Review(userID uint, transactionID, status, notes string, reviewerID uint) (*models.Transaction, error) {
	now := time.Now()
	// UpdateColumns skips hooks so the derived IsFraud/IsFlagged stay a pure
	// function of the original prediction and risk score.
	result := r.db.Model(&models.Transaction{}).
		Where("user_id = ? AND transaction_id = ?", userID, transactionID).
		UpdateColumns(map[string]interface{}{
			"status":       status,
			"review_notes": notes,
			"reviewed_by":  reviewerID,
			"reviewed_at":  now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return nil, ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return nil, ErrTransactionNotFound
	}
	return r.GetByTransactionID(userID, transactionID)
}

func (r *transactionRepository) Delete(userID uint, transactionID string) error {
	result := r.db.Where("user_id = ? AND transaction_id = ?", userID, transactionID).
		Delete(&models.Transaction{})
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepository) Stats(userID uint) (*StatsOverview, error) {
	var stats StatsOverview
	err := r.db.Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(amount), 0) AS total_amount,
			COUNT(*) FILTER (WHERE prediction = 'Fraud') AS fraud_count,
			COUNT(*) FILTER (WHERE prediction = 'Valid') AS valid_count,
			COUNT(*) FILTER (WHERE is_flagged) AS flagged_count,
			COALESCE(AVG(risk_score), 0) AS avg_risk_score,
			COALESCE(SUM(amount) FILTER (WHERE prediction = 'Fraud'), 0) AS fraud_amount`).
		Scan(&stats).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return &stats, nil
}

func (r *transactionRepository) TimeSeries(userID uint, days int) ([]TimeSeriesPoint, error) {
	since := time.Now().AddDate(0, 0, -days)

	var points []TimeSeriesPoint
	err := r.db.Model(&models.Transaction{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Select(`TO_CHAR(created_at, 'YYYY-MM-DD') AS date,
			COUNT(*) AS count,
			COUNT(*) FILTER (WHERE prediction = 'Fraud') AS fraud_count,
			COALESCE(SUM(amount), 0) AS total_amount`).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order("date").
		Scan(&points).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return points, nil
}
