// Package transaction provides user-scoped queries and actions over scored
// transactions: history, stats, manual review, deletion and CSV export.
package transaction

import (
	"context"
	"log"
	"time"

	"github.com/upishield/upishield/internal/models"
	"github.com/upishield/upishield/internal/repositories"
	"github.com/upishield/upishield/internal/repositories/cache"
)

const statsCacheTTL = 2 * time.Minute

// Stats bundles the overview aggregate with the 30-day time series.
type Stats struct {
	Overview   *repositories.StatsOverview    `json:"overview"`
	TimeSeries []repositories.TimeSeriesPoint `json:"timeSeries"`
}

// Service exposes the transaction history operations.
type Service struct {
	txRepo repositories.TransactionRepository
	cache  *cache.CacheService
}

// NewService creates the transaction service.
func NewService(txRepo repositories.TransactionRepository, cacheSvc *cache.CacheService) *Service {
	return &Service{
		txRepo: txRepo,
		cache:  cacheSvc,
	}
}

// List returns a filtered page of the user's transactions.
func (s *Service) List(userID uint, filter repositories.ListFilter) ([]models.Transaction, int64, error) {
	return s.txRepo.List(userID, filter)
}

// Get fetches one transaction by its public identifier.
func (s *Service) Get(userID uint, transactionID string) (*models.Transaction, error) {
	return s.txRepo.GetByTransactionID(userID, transactionID)
}

// Review applies a manual review decision and invalidates cached stats.
func (s *Service) Review(ctx context.Context, userID uint, transactionID, status, notes string) (*models.Transaction, error) {
	tx, err := s.txRepo.Review(userID, transactionID, status, notes, userID)
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, userID)
	return tx, nil
}

// Delete removes a transaction and invalidates cached stats.
func (s *Service) Delete(ctx context.Context, userID uint, transactionID string) error {
	if err := s.txRepo.Delete(userID, transactionID); err != nil {
		return err
	}
	s.invalidateStats(ctx, userID)
	return nil
}

// Stats returns the aggregate overview plus the trailing 30-day series,
// served from the cache when fresh.
func (s *Service) Stats(ctx context.Context, userID uint) (*Stats, error) {
	key := s.cache.GenerateKey("stats", userID)

	var cached Stats
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	overview, err := s.txRepo.Stats(userID)
	if err != nil {
		return nil, err
	}
	series, err := s.txRepo.TimeSeries(userID, 30)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Overview: overview, TimeSeries: series}
	if err := s.cache.SetJSON(ctx, key, stats, statsCacheTTL); err != nil {
		log.Printf("failed to cache stats for user %d: %v", userID, err)
	}
	return stats, nil
}

// InvalidateStats drops the cached stats after a new transaction is scored.
func (s *Service) InvalidateStats(ctx context.Context, userID uint) {
	s.invalidateStats(ctx, userID)
}

func (s *Service) invalidateStats(ctx context.Context, userID uint) {
	key := s.cache.GenerateKey("stats", userID)
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Printf("failed to invalidate stats cache for user %d: %v", userID, err)
	}
}
