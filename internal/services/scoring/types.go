// Package scoring implements the transaction risk-scoring boundary.
//
// Two interchangeable strategies produce a classification: a remote ML
// scoring service reached over HTTP, and a local rule-based fallback used
// whenever the remote call fails, times out, or is disabled. Remote
// unavailability is never surfaced to callers; the fallback answers instead.
package scoring

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/upishield/upishield/internal/models"
)

// Request carries the sanitized attributes of a candidate transaction.
type Request struct {
	Amount          float64 `json:"amount"`
	SenderUpiID     string  `json:"senderUpiId"`
	ReceiverUpiID   string  `json:"receiverUpiId"`
	TransactionType string  `json:"transactionType"`
	DeviceID        string  `json:"deviceId,omitempty"`
	Location        string  `json:"location,omitempty"`
}

// Sanitize trims and lowercases the UPI handles and defaults the type to P2P.
func (r *Request) Sanitize() {
	r.SenderUpiID = strings.ToLower(strings.TrimSpace(r.SenderUpiID))
	r.ReceiverUpiID = strings.ToLower(strings.TrimSpace(r.ReceiverUpiID))
	r.Location = strings.TrimSpace(r.Location)
	r.DeviceID = strings.TrimSpace(r.DeviceID)
	if r.TransactionType == "" {
		r.TransactionType = models.TransactionTypeP2P
	}
}

// Outcome is the classification produced by a scorer.
type Outcome struct {
	Prediction string  `json:"prediction"`
	RiskScore  int     `json:"riskScore"`
	Confidence float64 `json:"confidence"`

	// Features holds the vector sent to the remote model, when one was built.
	Features models.JSON `json:"-"`
}

// Result is the full response of the scoring boundary, matching the
// /api/detect output contract.
type Result struct {
	Prediction    string  `json:"prediction"`
	RiskScore     int     `json:"riskScore"`
	IsFraud       bool    `json:"isFraud"`
	Confidence    float64 `json:"confidence"`
	TransactionID string  `json:"transactionId"`
	Timestamp     string  `json:"timestamp"`
	Details       Request `json:"details"`
}

// Scorer classifies a transaction request.
type Scorer interface {
	Score(ctx context.Context, req Request) (Outcome, error)
}

// NewTransactionID generates an identifier in the UPI<millis><suffix> shape.
func NewTransactionID() string {
	return fmt.Sprintf("UPI%d%03d", time.Now().UnixMilli(), rand.Intn(1000))
}

// randBetween returns a random integer in [min, max).
func randBetween(min, max int) int {
	return min + rand.Intn(max-min)
}

// randConfidence returns a random confidence in [min, max).
func randConfidence(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}
