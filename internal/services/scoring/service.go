package scoring

import (
	"context"
	"log"
	"time"

	"github.com/upishield/upishield/internal/models"
	"github.com/upishield/upishield/internal/repositories"
)

// Service is the risk-scoring boundary: it classifies a request using the
// remote scorer when available, falls back to the local heuristic otherwise,
// and persists the resulting transaction for the submitting user.
type Service struct {
	remote    Scorer
	fallback  Scorer
	txRepo    repositories.TransactionRepository
	useRemote bool
}

// NewService wires the two scoring strategies. remote may be nil, in which
// case only the heuristic runs.
func NewService(remote Scorer, fallback Scorer, txRepo repositories.TransactionRepository) *Service {
	return &Service{
		remote:    remote,
		fallback:  fallback,
		txRepo:    txRepo,
		useRemote: remote != nil,
	}
}

// RequestMeta carries request-level metadata persisted for audit.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Detect scores the request and persists the transaction. The write happens
// strictly after scoring completes. Remote unavailability is recovered by
// the fallback and never surfaced; a persistence failure is.
func (s *Service) Detect(ctx context.Context, userID uint, req Request, meta RequestMeta) (*Result, error) {
	req.Sanitize()

	outcome, err := s.score(ctx, req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tx := &models.Transaction{
		TransactionID:   NewTransactionID(),
		UserID:          userID,
		Amount:          req.Amount,
		TransactionType: req.TransactionType,
		SenderUpiID:     req.SenderUpiID,
		ReceiverUpiID:   req.ReceiverUpiID,
		DeviceID:        req.DeviceID,
		Location:        req.Location,
		Prediction:      outcome.Prediction,
		RiskScore:       outcome.RiskScore,
		Confidence:      outcome.Confidence,
		MLFeatures:      outcome.Features,
		IPAddress:       meta.IPAddress,
		UserAgent:       meta.UserAgent,
		AnalyzedAt:      now,
	}

	if err := s.txRepo.Create(tx); err != nil {
		return nil, err
	}

	return &Result{
		Prediction:    outcome.Prediction,
		RiskScore:     outcome.RiskScore,
		IsFraud:       outcome.Prediction == models.PredictionFraud,
		Confidence:    outcome.Confidence,
		TransactionID: tx.TransactionID,
		Timestamp:     now.UTC().Format(time.RFC3339),
		Details:       req,
	}, nil
}

func (s *Service) score(ctx context.Context, req Request) (Outcome, error) {
	if s.useRemote {
		outcome, err := s.remote.Score(ctx, req)
		if err == nil {
			return outcome, nil
		}
		log.Printf("remote scoring unavailable, using fallback: %v", err)
	}
	return s.fallback.Score(ctx, req)
}
