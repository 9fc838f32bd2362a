package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction types
const (
	TransactionTypeP2P      = "P2P"
	TransactionTypeP2M      = "P2M"
	TransactionTypeBusiness = "Business"
)

// Prediction labels produced by the scoring boundary
const (
	PredictionValid   = "Valid"
	PredictionFraud   = "Fraud"
	PredictionPending = "Pending"
)

// Transaction statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusBlocked  = "blocked"
	StatusFlagged  = "flagged"
	StatusReviewed = "reviewed"
)

// Risk score bands: low < 40, medium (flagged) 40-69, high >= 70.
const (
	FlaggedScoreMin = 40
	HighScoreMin    = 70
)

// Transaction is a scored UPI transaction owned by the user who submitted it.
type Transaction struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	TransactionID string `gorm:"uniqueIndex;not null" json:"transactionId"`
	UserID        uint   `gorm:"not null;index" json:"userId"`

	// Transaction details
	Amount          float64 `gorm:"not null" json:"amount"`
	TransactionType string  `gorm:"default:'P2P'" json:"transactionType"`
	SenderUpiID     string  `gorm:"not null;index" json:"senderUpiId"`
	ReceiverUpiID   string  `gorm:"not null;index" json:"receiverUpiId"`
	DeviceID        string  `json:"deviceId,omitempty"`
	Location        string  `json:"location,omitempty"`

	// Analysis results
	Prediction string  `gorm:"default:'Pending';index" json:"prediction"`
	RiskScore  int     `gorm:"default:0;index" json:"riskScore"`
	Confidence float64 `gorm:"default:0" json:"confidence"`

	// Feature vector sent to the remote model, kept for audit
	MLFeatures JSON `gorm:"type:jsonb" json:"mlFeatures,omitempty"`

	// Status and review actions
	Status      string     `gorm:"default:'pending'" json:"status"`
	ReviewedBy  *uint      `json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
	ReviewNotes string     `json:"reviewNotes,omitempty"`

	// Flags derived from prediction and risk score
	IsFraud   bool `gorm:"default:false" json:"isFraud"`
	IsFlagged bool `gorm:"default:false" json:"isFlagged"`

	// Request metadata
	IPAddress string `json:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`

	AnalyzedAt time.Time `json:"analyzedAt"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DeriveFlags recomputes IsFraud, IsFlagged and Status from the prediction
// and risk score. Flags are never settable independently: IsFraud is true
// exactly when the prediction is Fraud, IsFlagged exactly when the risk
// score falls in the flagged band.
func (t *Transaction) DeriveFlags() {
	t.IsFraud = t.Prediction == PredictionFraud
	t.IsFlagged = t.RiskScore >= FlaggedScoreMin && t.RiskScore < HighScoreMin

	switch {
	case t.Prediction == PredictionFraud:
		t.Status = StatusBlocked
	case t.IsFlagged:
		t.Status = StatusFlagged
	case t.Prediction == PredictionValid:
		t.Status = StatusApproved
	}
}

// BeforeCreate derives the status and flags at creation time. Manual review
// later mutates status through UpdateColumns, which bypasses this hook, so
// the derived fields stay a pure function of (prediction, riskScore).
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	t.DeriveFlags()
	if t.AnalyzedAt.IsZero() {
		t.AnalyzedAt = time.Now()
	}
	return nil
}

// RiskLevel buckets the risk score: low < 40, medium 40-69, high >= 70.
func (t *Transaction) RiskLevel() string {
	switch {
	case t.RiskScore >= HighScoreMin:
		return "high"
	case t.RiskScore >= FlaggedScoreMin:
		return "medium"
	default:
		return "low"
	}
}
