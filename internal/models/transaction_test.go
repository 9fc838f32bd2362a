package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveFlags(t *testing.T) {
	tests := []struct {
		name       string
		prediction string
		riskScore  int
		wantFraud  bool
		wantFlag   bool
		wantStatus string
	}{
		{"low risk valid", PredictionValid, 12, false, false, StatusApproved},
		{"flagged band lower edge", PredictionValid, 40, false, true, StatusFlagged},
		{"flagged band upper edge", PredictionValid, 69, false, true, StatusFlagged},
		{"just below flagged band", PredictionValid, 39, false, false, StatusApproved},
		{"high score valid is not flagged", PredictionValid, 70, false, false, StatusApproved},
		{"fraud high score", PredictionFraud, 90, true, false, StatusBlocked},
		{"fraud in flagged band still blocks", PredictionFraud, 55, true, true, StatusBlocked},
		{"fraud low score still blocks", PredictionFraud, 10, true, false, StatusBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &Transaction{Prediction: tt.prediction, RiskScore: tt.riskScore}
			tx.DeriveFlags()
			assert.Equal(t, tt.wantFraud, tx.IsFraud)
			assert.Equal(t, tt.wantFlag, tx.IsFlagged)
			assert.Equal(t, tt.wantStatus, tx.Status)
		})
	}
}

func TestDeriveFlags_OverwritesStaleFlags(t *testing.T) {
	// The flags are not independently settable; deriving always wins.
	tx := &Transaction{
		Prediction: PredictionValid,
		RiskScore:  5,
		IsFraud:    true,
		IsFlagged:  true,
		Status:     StatusBlocked,
	}
	tx.DeriveFlags()
	assert.False(t, tx.IsFraud)
	assert.False(t, tx.IsFlagged)
	assert.Equal(t, StatusApproved, tx.Status)
}

func TestDeriveFlags_PendingKeepsStatus(t *testing.T) {
	tx := &Transaction{Prediction: PredictionPending, RiskScore: 0, Status: StatusPending}
	tx.DeriveFlags()
	assert.Equal(t, StatusPending, tx.Status)
	assert.False(t, tx.IsFraud)
}

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "low"},
		{39, "low"},
		{40, "medium"},
		{69, "medium"},
		{70, "high"},
		{99, "high"},
	}
	for _, tt := range tests {
		tx := &Transaction{RiskScore: tt.score}
		assert.Equal(t, tt.want, tx.RiskLevel(), "score %d", tt.score)
	}
}
