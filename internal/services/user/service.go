// Package user handles registration, profile access and account deletion.
package user

import (
	"errors"
	"strings"

	"github.com/upishield/upishield/internal/models"
	"github.com/upishield/upishield/internal/repositories"
	"github.com/upishield/upishield/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

var ErrUsernameTaken = errors.New("username already taken")

// RegisterInput carries the registration form.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service manages user accounts.
type Service interface {
	Register(input RegisterInput) (*models.User, error)
	GetProfile(userID uint) (*models.User, error)
	DeleteAccount(userID uint) error
}

type service struct {
	userRepo repositories.UserRepository
}

// NewService creates the user service.
func NewService(userRepo repositories.UserRepository) Service {
	return &service{userRepo: userRepo}
}

func (s *service) Register(input RegisterInput) (*models.User, error) {
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))
	input.Email = strings.TrimSpace(input.Email)

	v := validation.New()
	v.Required("username", input.Username)
	v.MinLength("username", input.Username, 3)
	v.MaxLength("username", input.Username, 50)
	v.Password("password", input.Password)
	if input.Email != "" {
		v.Email("email", input.Email)
	}
	if !v.Valid() {
		return nil, errors.New(strings.Join(v.Messages(), "; "))
	}

	if _, err := s.userRepo.GetByUsername(input.Username); err == nil {
		return nil, ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashed),
		Role:     models.RoleUser,
		Status:   models.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) GetProfile(userID uint) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// DeleteAccount removes the user along with their transactions.
func (s *service) DeleteAccount(userID uint) error {
	return s.userRepo.Delete(userID)
}
