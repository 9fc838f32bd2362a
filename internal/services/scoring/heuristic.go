package scoring

import (
	"context"
	"strings"

	"github.com/upishield/upishield/internal/models"
)

// Amount thresholds for the fallback decision table, in rupees.
const (
	fraudAmountThreshold    = 100000
	flaggedAmountThreshold  = 50000
	elevatedAmountThreshold = 25000
)

// blocklist substrings checked against both UPI handles, case-insensitive.
var blocklistTerms = []string{"fake", "scam", "fraud", "suspicious", "test", "phishing"}

// HeuristicScorer is the local fallback: a fixed decision table evaluated as
// a priority chain. The first matching branch wins, so an amount above the
// fraud threshold takes precedence over a blocklisted handle.
type HeuristicScorer struct{}

// NewHeuristicScorer creates the rule-based fallback scorer.
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

// Score applies the decision table. It never fails.
func (s *HeuristicScorer) Score(_ context.Context, req Request) (Outcome, error) {
	switch {
	case req.Amount > fraudAmountThreshold:
		return Outcome{
			Prediction: models.PredictionFraud,
			RiskScore:  randBetween(85, 100),
			Confidence: randConfidence(0.88, 0.99),
		}, nil

	case containsBlocklisted(req.SenderUpiID) || containsBlocklisted(req.ReceiverUpiID):
		return Outcome{
			Prediction: models.PredictionFraud,
			RiskScore:  randBetween(75, 95),
			Confidence: randConfidence(0.88, 0.99),
		}, nil

	case req.Amount > flaggedAmountThreshold && req.TransactionType == models.TransactionTypeP2P:
		// Valid but lands in the flagged band for manual review.
		return Outcome{
			Prediction: models.PredictionValid,
			RiskScore:  randBetween(40, 70),
			Confidence: randConfidence(0.80, 0.99),
		}, nil

	case req.Amount > elevatedAmountThreshold:
		return Outcome{
			Prediction: models.PredictionValid,
			RiskScore:  randBetween(20, 40),
			Confidence: randConfidence(0.80, 0.99),
		}, nil

	default:
		return Outcome{
			Prediction: models.PredictionValid,
			RiskScore:  randBetween(5, 30),
			Confidence: randConfidence(0.80, 0.99),
		}, nil
	}
}

func containsBlocklisted(upiID string) bool {
	id := strings.ToLower(upiID)
	for _, term := range blocklistTerms {
		if strings.Contains(id, term) {
			return true
		}
	}
	return false
}
