package transaction

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/upishield/upishield/internal/models"
)

var csvHeaders = []string{
	"Transaction ID", "Amount", "Type", "Sender", "Receiver",
	"Prediction", "Risk Score", "Status", "Date",
}

// ExportCSV renders all of the user's transactions as CSV, newest first.
func (s *Service) ExportCSV(userID uint) ([]byte, error) {
	transactions, err := s.txRepo.ListAll(userID)
	if err != nil {
		return nil, err
	}
	return RenderCSV(transactions)
}

// RenderCSV writes transactions in the export column order.
func RenderCSV(transactions []models.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeaders); err != nil {
		return nil, err
	}
	for _, t := range transactions {
		record := []string{
			t.TransactionID,
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
			t.TransactionType,
			t.SenderUpiID,
			t.ReceiverUpiID,
			t.Prediction,
			strconv.Itoa(t.RiskScore),
			t.Status,
			t.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
