// Command seed provisions a demo user and a batch of representative
// transactions scored through the local heuristic, for exercising the
// dashboards without real traffic.
package main

import (
	"context"
	"log"

	"github.com/upishield/upishield/internal/config"
	"github.com/upishield/upishield/internal/models"
	"github.com/upishield/upishield/internal/repositories"
	"github.com/upishield/upishield/internal/services/scoring"

	"golang.org/x/crypto/bcrypt"
)

var demoTransactions = []scoring.Request{
	{Amount: 500, SenderUpiID: "john.doe@paytm", ReceiverUpiID: "sarah.kumar@googlepay", TransactionType: models.TransactionTypeP2P, DeviceID: "DEVICE-12345", Location: "Mumbai, Maharashtra"},
	{Amount: 2500, SenderUpiID: "rajesh.sharma@phonepe", ReceiverUpiID: "swiggy.merchant@paytm", TransactionType: models.TransactionTypeP2M, DeviceID: "DEVICE-67890", Location: "Bangalore, Karnataka"},
	{Amount: 12000, SenderUpiID: "priya.patel@paytm", ReceiverUpiID: "amazon.india@icici", TransactionType: models.TransactionTypeP2M, DeviceID: "DEVICE-24680", Location: "Delhi"},
	{Amount: 30000, SenderUpiID: "amit.singh@upi", ReceiverUpiID: "vikram.mehta@icici", TransactionType: models.TransactionTypeP2P, DeviceID: "DEVICE-13579", Location: "Pune, Maharashtra"},
	{Amount: 65000, SenderUpiID: "neha.reddy@okaxis", ReceiverUpiID: "anjali.gupta@hdfcbank", TransactionType: models.TransactionTypeP2P, DeviceID: "DEVICE-11223", Location: "Hyderabad, Telangana"},
	{Amount: 85000, SenderUpiID: "flipkart.payments@axis", ReceiverUpiID: "bigbasket.store@icici", TransactionType: models.TransactionTypeBusiness, DeviceID: "DEVICE-44556", Location: "Chennai, Tamil Nadu"},
	{Amount: 150000, SenderUpiID: "john.doe@paytm", ReceiverUpiID: "rajesh.sharma@phonepe", TransactionType: models.TransactionTypeP2P, DeviceID: "DEVICE-77889", Location: "Kolkata, West Bengal"},
	{Amount: 3200, SenderUpiID: "fake.account@paytm", ReceiverUpiID: "priya.patel@paytm", TransactionType: models.TransactionTypeP2P, DeviceID: "DEVICE-99001", Location: "Jaipur, Rajasthan"},
	{Amount: 7800, SenderUpiID: "amit.singh@upi", ReceiverUpiID: "scam.user@upi", TransactionType: models.TransactionTypeP2P, DeviceID: "DEVICE-22334", Location: "Lucknow, Uttar Pradesh"},
	{Amount: 950, SenderUpiID: "anjali.gupta@hdfcbank", ReceiverUpiID: "zomato.orders@hdfcbank", TransactionType: models.TransactionTypeP2M, DeviceID: "DEVICE-55667", Location: "Ahmedabad, Gujarat"},
}

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			sqlDB.Close()
		}
		if repositories.CacheService != nil {
			repositories.CacheService.Close()
		}
	}()

	userRepo := repositories.NewUserRepository(repositories.DB)
	txRepo := repositories.NewTransactionRepository(repositories.DB)

	username := config.GetEnv("SEED_USERNAME", "demo")
	demoUser, err := userRepo.GetByUsername(username)
	if err != nil {
		hashed, err := bcrypt.GenerateFromPassword(
			[]byte(config.GetEnv("SEED_PASSWORD", "Demo12345")), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		demoUser = &models.User{
			Username: username,
			Email:    config.GetEnv("SEED_EMAIL", "demo@upishield.local"),
			Password: string(hashed),
			Role:     models.RoleUser,
			Status:   models.UserStatusActive,
		}
		if err := userRepo.Create(demoUser); err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}
		log.Printf("Created demo user %q", username)
	} else {
		log.Printf("Demo user %q already exists", username)
	}

	// Score through the heuristic only; seeding must not depend on the
	// remote service being up.
	scoringService := scoring.NewService(nil, scoring.NewHeuristicScorer(), txRepo)

	ctx := context.Background()

	// Drop any cached stats from a previous run.
	if err := repositories.CacheService.FlushAll(ctx); err != nil {
		log.Printf("Failed to flush cache: %v", err)
	}

	for _, req := range demoTransactions {
		result, err := scoringService.Detect(ctx, demoUser.ID, req, scoring.RequestMeta{})
		if err != nil {
			log.Printf("Failed to seed transaction: %v", err)
			continue
		}
		log.Printf("Seeded %s: %s (risk %d)", result.TransactionID, result.Prediction, result.RiskScore)
	}
}
