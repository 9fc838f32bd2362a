package transaction

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/upishield/upishield/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCSV(t *testing.T) {
	created := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
	transactions := []models.Transaction{
		{
			TransactionID:   "UPI1742034600000123",
			Amount:          1500.5,
			TransactionType: models.TransactionTypeP2P,
			SenderUpiID:     "john@paytm",
			ReceiverUpiID:   "sarah@googlepay",
			Prediction:      models.PredictionValid,
			RiskScore:       12,
			Status:          models.StatusApproved,
			CreatedAt:       created,
		},
		{
			TransactionID:   "UPI1742034600000456",
			Amount:          150000,
			TransactionType: models.TransactionTypeP2P,
			SenderUpiID:     "john@paytm",
			ReceiverUpiID:   "fake@paytm",
			Prediction:      models.PredictionFraud,
			RiskScore:       92,
			Status:          models.StatusBlocked,
			CreatedAt:       created,
		},
	}

	out, err := RenderCSV(transactions)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"Transaction ID", "Amount", "Type", "Sender", "Receiver",
		"Prediction", "Risk Score", "Status", "Date",
	}, records[0])

	assert.Equal(t, []string{
		"UPI1742034600000123", "1500.50", "P2P", "john@paytm", "sarah@googlepay",
		"Valid", "12", "approved", "2025-03-15T10:30:00Z",
	}, records[1])

	assert.Equal(t, "Fraud", records[2][5])
	assert.Equal(t, "blocked", records[2][7])
}

func TestRenderCSV_EmptyListStillHasHeader(t *testing.T) {
	out, err := RenderCSV(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Transaction ID", records[0][0])
}
