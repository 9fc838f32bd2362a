// Package twofactor implements TOTP-based second-factor enrollment and
// verification. Secrets are parked in the expiring cache until the user
// proves possession of the authenticator; codes are validated with a real
// TOTP computation, never a fixed demo value.
package twofactor

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/upishield/upishield/internal/models"
	"github.com/upishield/upishield/internal/repositories"
	"github.com/upishield/upishield/internal/repositories/cache"
	"github.com/upishield/upishield/internal/utils"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCode    = errors.New("invalid two-factor code")
	ErrNotEnabled     = errors.New("two-factor authentication is not enabled")
	ErrNoPendingSetup = errors.New("no pending two-factor setup")
)

const (
	issuer          = "UPI Shield"
	pendingTTL      = 10 * time.Minute
	backupCodeCount = 8
)

// SetupResponse carries the provisioning data for an authenticator app.
type SetupResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

// Service manages 2FA enrollment and login verification.
type Service struct {
	userRepo repositories.UserRepository
	cache    *cache.CacheService
}

// NewService creates the two-factor service.
func NewService(userRepo repositories.UserRepository, cacheSvc *cache.CacheService) *Service {
	return &Service{
		userRepo: userRepo,
		cache:    cacheSvc,
	}
}

// Setup generates a TOTP secret and parks it until verified.
func (s *Service) Setup(ctx context.Context, userID uint) (*SetupResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: user.Username,
	})
	if err != nil {
		return nil, err
	}

	cacheKey := s.cache.GenerateKey("2fa-pending", userID)
	if err := s.cache.Set(ctx, cacheKey, key.Secret(), pendingTTL); err != nil {
		return nil, err
	}

	return &SetupResponse{
		Secret: key.Secret(),
		URL:    key.URL(),
	}, nil
}

// Enable validates the first code against the pending secret, persists it
// and returns freshly generated single-use backup codes.
func (s *Service) Enable(ctx context.Context, userID uint, code string) ([]string, error) {
	cacheKey := s.cache.GenerateKey("2fa-pending", userID)
	secret, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		return nil, ErrNoPendingSetup
	}

	if !totp.Validate(code, secret) {
		return nil, ErrInvalidCode
	}

	codes := make([]string, 0, backupCodeCount)
	for i := 0; i < backupCodeCount; i++ {
		c, err := utils.GenerateBackupCode()
		if err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	user.TwoFactorEnabled = true
	user.TwoFactorSecret = secret
	user.BackupCodes = models.StringSlice(codes)
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		log.Printf("failed to delete pending 2fa secret: %v", err)
	}

	return codes, nil
}

// VerifyLogin completes an MFA-gated login. It accepts a current TOTP code
// or one unused backup code and issues the session token.
func (s *Service) VerifyLogin(username, code string) (*models.User, string, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, "", ErrInvalidCode
	}
	if !user.TwoFactorEnabled {
		return nil, "", ErrNotEnabled
	}

	if !s.checkCode(user, code) {
		return nil, "", ErrInvalidCode
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Disable turns 2FA off after the user proves a valid code or password.
func (s *Service) Disable(userID uint, code, password string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if !user.TwoFactorEnabled {
		return ErrNotEnabled
	}

	authorized := s.checkCode(user, code)
	if !authorized && password != "" {
		authorized = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
	}
	if !authorized {
		return ErrInvalidCode
	}

	user.TwoFactorEnabled = false
	user.TwoFactorSecret = ""
	user.BackupCodes = nil
	return s.userRepo.Update(user)
}

// checkCode accepts a valid TOTP code, or consumes a matching backup code.
func (s *Service) checkCode(user *models.User, code string) bool {
	if code == "" {
		return false
	}
	if totp.Validate(code, user.TwoFactorSecret) {
		return true
	}

	for i, backup := range user.BackupCodes {
		if backup == code {
			user.BackupCodes = append(user.BackupCodes[:i], user.BackupCodes[i+1:]...)
			if err := s.userRepo.Update(user); err != nil {
				log.Printf("failed to consume backup code for user %d: %v", user.ID, err)
				return false
			}
			return true
		}
	}
	return false
}
