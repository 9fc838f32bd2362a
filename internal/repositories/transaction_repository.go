package repositories

import (
	"time"

	"github.com/upishield/upishield/internal/models"
)

// ListFilter narrows and orders a user's transaction history.
type ListFilter struct {
	Prediction string     // Valid | Fraud | Pending
	RiskLevel  string     // low | medium | high
	StartDate  *time.Time // createdAt >= StartDate
	EndDate    *time.Time // createdAt <= EndDate
	Search     string     // matched against transaction id and both handles
	SortBy     string     // defaults to created_at
	SortOrder  string     // asc | desc, defaults to desc
	Offset     int
	Limit      int
}

// StatsOverview aggregates a user's scored transactions.
type StatsOverview struct {
	Total        int64   `json:"total"`
	TotalAmount  float64 `json:"totalAmount"`
	FraudCount   int64   `json:"fraudCount"`
	ValidCount   int64   `json:"validCount"`
	FlaggedCount int64   `json:"flaggedCount"`
	AvgRiskScore float64 `json:"avgRiskScore"`
	FraudAmount  float64 `json:"fraudAmount"`
}

// TimeSeriesPoint is one day of activity in the stats time series.
type TimeSeriesPoint struct {
	Date        string  `json:"date"`
	Count       int64   `json:"count"`
	FraudCount  int64   `json:"fraudCount"`
	TotalAmount float64 `json:"totalAmount"`
}

// TransactionRepository defines the interface for transaction persistence.
// All read and write operations are scoped to the owning user.
type TransactionRepository interface {
	// Create persists a freshly scored transaction
	Create(tx *models.Transaction) error

	// GetByTransactionID fetches one of the user's transactions
	GetByTransactionID(userID uint, transactionID string) (*models.Transaction, error)

	// List returns a filtered, paginated page plus the total match count
	List(userID uint, filter ListFilter) ([]models.Transaction, int64, error)

	// ListAll returns every transaction of the user, newest first
	ListAll(userID uint) ([]models.Transaction, error)

	// Review applies a manual review action without touching derived flags
	Review(userID uint, transactionID, status, notes string, reviewerID uint) (*models.Transaction, error)

	// Delete removes one of the user's transactions
	Delete(userID uint, transactionID string) error

	// Stats aggregates the user's transactions
	Stats(userID uint) (*StatsOverview, error)

	// TimeSeries returns per-day counts for the trailing N days
	TimeSeries(userID uint, days int) ([]TimeSeriesPoint, error)
}
