// Package auth implements credential checks, session tokens, account
// lockout, and the password-reset OTP flow.
package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/upishield/upishield/internal/models"
	"github.com/upishield/upishield/internal/repositories"
	"github.com/upishield/upishield/internal/repositories/cache"
	"github.com/upishield/upishield/internal/services/notification"
	"github.com/upishield/upishield/internal/utils"
	"github.com/upishield/upishield/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked due to repeated failed logins")
	ErrMFARequired        = errors.New("two-factor code required")
	ErrInvalidOTP         = errors.New("invalid or expired code")
	ErrInvalidResetTicket = errors.New("invalid or expired reset ticket")
	ErrTokenTooOld        = errors.New("token too old to refresh")
)

const (
	otpDigits      = 6
	otpTTL         = 10 * time.Minute
	resetTicketTTL = 15 * time.Minute
)

// Service handles authentication and password recovery.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	RefreshToken(token string) (string, error)
	GetUserByID(id uint) (*models.User, error)
	ChangePassword(userID uint, oldPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (string, error)
	ResetPassword(ctx context.Context, ticket, newPassword string) error
}

type service struct {
	userRepo repositories.UserRepository
	cache    *cache.CacheService
	notifier *notification.Service
}

// NewService creates the auth service.
func NewService(userRepo repositories.UserRepository, cacheSvc *cache.CacheService, notifier *notification.Service) Service {
	return &service{
		userRepo: userRepo,
		cache:    cacheSvc,
		notifier: notifier,
	}
}

// Login verifies credentials and issues a bearer token. Five consecutive
// failures lock the account for two hours; a success resets the counter.
// When 2FA is enabled the token is withheld and ErrMFARequired returned.
func (s *service) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	// Usernames are stored lowercased at registration.
	username = strings.ToLower(strings.TrimSpace(username))

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if user.IsLocked() {
		return nil, "", ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if err := s.userRepo.RecordFailedLogin(user); err != nil {
			log.Printf("failed to record login failure for user %d: %v", user.ID, err)
		}
		return nil, "", ErrInvalidCredentials
	}

	if err := s.userRepo.ResetFailedLogins(user); err != nil {
		log.Printf("failed to reset login failures for user %d: %v", user.ID, err)
	}

	if user.TwoFactorEnabled {
		return user, "", ErrMFARequired
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// RefreshToken exchanges a valid or recently expired token for a fresh one.
// The signature must still verify and the token must have expired no more
// than the refresh window ago; anything older requires a new login.
func (s *service) RefreshToken(token string) (string, error) {
	claims, err := utils.ParseExpiredToken(token)
	if err != nil {
		return "", err
	}

	if claims.ExpiresAt == nil || time.Since(claims.ExpiresAt.Time) > utils.RefreshWindow {
		return "", ErrTokenTooOld
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return "", utils.ErrTokenInvalid
	}

	return utils.GenerateToken(user)
}

func (s *service) GetUserByID(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

func (s *service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	v := validation.New()
	v.Password("newPassword", newPassword)
	if !v.Valid() {
		return errors.New(v.Messages()[0])
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(userID, string(hashed))
}

// ForgotPassword parks a 6-digit OTP in the cache and sends it. An unknown
// email is not an error, so the endpoint cannot be used to probe accounts.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return err
	}

	code, err := utils.GenerateOTP(otpDigits)
	if err != nil {
		return err
	}

	key := s.cache.GenerateKey("otp", email)
	if err := s.cache.Set(ctx, key, code, otpTTL); err != nil {
		return err
	}

	s.notifier.SendPasswordResetOTP(ctx, user.Email, code)
	return nil
}

// VerifyOTP exchanges a valid OTP for a single-use reset ticket.
func (s *service) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	key := s.cache.GenerateKey("otp", email)
	stored, err := s.cache.Get(ctx, key)
	if err != nil || stored != code {
		return "", ErrInvalidOTP
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Printf("failed to delete consumed otp: %v", err)
	}

	ticket := uuid.NewString()
	ticketKey := s.cache.GenerateKey("reset", ticket)
	if err := s.cache.Set(ctx, ticketKey, email, resetTicketTTL); err != nil {
		return "", err
	}
	return ticket, nil
}

// ResetPassword consumes a reset ticket and stores the new password hash.
func (s *service) ResetPassword(ctx context.Context, ticket, newPassword string) error {
	ticketKey := s.cache.GenerateKey("reset", ticket)
	email, err := s.cache.GetDel(ctx, ticketKey)
	if err != nil {
		return ErrInvalidResetTicket
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return ErrInvalidResetTicket
	}

	v := validation.New()
	v.Password("newPassword", newPassword)
	if !v.Valid() {
		return errors.New(v.Messages()[0])
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(user.ID, string(hashed))
}
