// Package notification is a minimal outbound notification service. Delivery
// is logged; a mail or SMS provider slots in behind the same methods.
package notification

import (
	"context"
	"log"
)

// Service is a minimal notification service implementation.
type Service struct{}

// NewService creates a new notification service.
func NewService() *Service { return &Service{} }

// SendPasswordResetOTP delivers a password-reset code to the user.
func (s *Service) SendPasswordResetOTP(_ context.Context, email, code string) {
	log.Printf("password reset code for %s: %s", email, code)
}

// SendFraudAlert notifies the user that a transaction was blocked.
func (s *Service) SendFraudAlert(_ context.Context, email, transactionID string) {
	log.Printf("fraud alert for %s: transaction %s blocked", email, transactionID)
}
