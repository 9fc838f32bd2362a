package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/upishield/upishield/internal/models"
	"github.com/upishield/upishield/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(tx *models.Transaction) error {
	args := m.Called(tx)
	return args.Error(0)
}

func (m *MockTransactionRepo) GetByTransactionID(userID uint, transactionID string) (*models.Transaction, error) {
	args := m.Called(userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) List(userID uint, filter repositories.ListFilter) ([]models.Transaction, int64, error) {
	args := m.Called(userID, filter)
	return nil, 0, args.Error(2)
}

func (m *MockTransactionRepo) ListAll(userID uint) ([]models.Transaction, error) {
	args := m.Called(userID)
	return nil, args.Error(1)
}

func (m *MockTransactionRepo) Review(userID uint, transactionID, status, notes string, reviewerID uint) (*models.Transaction, error) {
	args := m.Called(userID, transactionID, status, notes, reviewerID)
	return nil, args.Error(1)
}

func (m *MockTransactionRepo) Delete(userID uint, transactionID string) error {
	args := m.Called(userID, transactionID)
	return args.Error(0)
}

func (m *MockTransactionRepo) Stats(userID uint) (*repositories.StatsOverview, error) {
	args := m.Called(userID)
	return nil, args.Error(1)
}

func (m *MockTransactionRepo) TimeSeries(userID uint, days int) ([]repositories.TimeSeriesPoint, error) {
	args := m.Called(userID, days)
	return nil, args.Error(1)
}

// failingScorer simulates a dead remote scoring service.
type failingScorer struct{}

func (failingScorer) Score(context.Context, Request) (Outcome, error) {
	return Outcome{}, errors.New("connection refused")
}

// fixedScorer always returns the same outcome.
type fixedScorer struct{ out Outcome }

func (s fixedScorer) Score(context.Context, Request) (Outcome, error) {
	return s.out, nil
}

func TestService_RemoteFailureFallsBackTransparently(t *testing.T) {
	repo := new(MockTransactionRepo)
	repo.On("Create", mock.AnythingOfType("*models.Transaction")).Return(nil)

	svc := NewService(failingScorer{}, NewHeuristicScorer(), repo)

	result, err := svc.Detect(context.Background(), 7, Request{
		Amount:        150000,
		SenderUpiID:   "john@paytm",
		ReceiverUpiID: "sarah@googlepay",
	}, RequestMeta{})

	// The remote outage must never surface; the fallback answers.
	require.NoError(t, err)
	assert.Equal(t, models.PredictionFraud, result.Prediction)
	assert.GreaterOrEqual(t, result.RiskScore, 85)
	assert.Less(t, result.RiskScore, 100)
	repo.AssertExpectations(t)
}

func TestService_RemoteOutcomeIsUsedWhenAvailable(t *testing.T) {
	repo := new(MockTransactionRepo)
	repo.On("Create", mock.AnythingOfType("*models.Transaction")).Return(nil)

	remote := fixedScorer{out: Outcome{
		Prediction: models.PredictionFraud,
		RiskScore:  91,
		Confidence: 0.93,
	}}
	svc := NewService(remote, NewHeuristicScorer(), repo)

	result, err := svc.Detect(context.Background(), 7, Request{
		Amount:        100, // heuristic would say Valid
		SenderUpiID:   "john@paytm",
		ReceiverUpiID: "sarah@googlepay",
	}, RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, models.PredictionFraud, result.Prediction)
	assert.Equal(t, 91, result.RiskScore)
	assert.True(t, result.IsFraud)
}

func TestService_PersistsSanitizedTransaction(t *testing.T) {
	repo := new(MockTransactionRepo)
	var saved *models.Transaction
	repo.On("Create", mock.AnythingOfType("*models.Transaction")).
		Run(func(args mock.Arguments) {
			saved = args.Get(0).(*models.Transaction)
		}).Return(nil)

	svc := NewService(nil, NewHeuristicScorer(), repo)

	result, err := svc.Detect(context.Background(), 42, Request{
		Amount:        500,
		SenderUpiID:   "  John@Paytm ",
		ReceiverUpiID: "Sarah@GooglePay",
	}, RequestMeta{IPAddress: "10.0.0.1", UserAgent: "test-agent"})

	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, uint(42), saved.UserID)
	assert.Equal(t, "john@paytm", saved.SenderUpiID)
	assert.Equal(t, "sarah@googlepay", saved.ReceiverUpiID)
	assert.Equal(t, models.TransactionTypeP2P, saved.TransactionType)
	assert.Equal(t, result.TransactionID, saved.TransactionID)
	assert.Equal(t, result.Prediction, saved.Prediction)
	assert.Equal(t, result.RiskScore, saved.RiskScore)
	assert.Equal(t, "10.0.0.1", saved.IPAddress)

	// Echoed details carry the sanitized input.
	assert.Equal(t, "john@paytm", result.Details.SenderUpiID)
}

func TestService_PersistenceFailureSurfaces(t *testing.T) {
	repo := new(MockTransactionRepo)
	repo.On("Create", mock.AnythingOfType("*models.Transaction")).
		Return(repositories.ErrDatabaseOperation)

	svc := NewService(nil, NewHeuristicScorer(), repo)

	_, err := svc.Detect(context.Background(), 1, Request{
		Amount:        500,
		SenderUpiID:   "john@paytm",
		ReceiverUpiID: "sarah@googlepay",
	}, RequestMeta{})

	assert.Error(t, err)
}

func TestNewTransactionID_Shape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewTransactionID()
		assert.True(t, strings.HasPrefix(id, "UPI"))
		assert.GreaterOrEqual(t, len(id), len("UPI")+13+3)
		seen[id] = true
	}
	// Collisions within a tight loop are possible but should be rare.
	assert.Greater(t, len(seen), 90)
}
