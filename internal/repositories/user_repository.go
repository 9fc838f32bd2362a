package repositories

import "github.com/upishield/upishield/internal/models"

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(id uint) (*models.User, error)

	// GetByUsername retrieves a user by their username
	GetByUsername(username string) (*models.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(email string) (*models.User, error)

	// Update updates an existing user's information
	Update(user *models.User) error

	// UpdatePassword updates the user's password hash
	UpdatePassword(userID uint, hashedPassword string) error

	// RecordFailedLogin increments the failure counter and returns the
	// updated user; the fifth consecutive failure sets the lockout window.
	RecordFailedLogin(user *models.User) error

	// ResetFailedLogins clears the failure counter and lockout after a
	// successful login.
	ResetFailedLogins(user *models.User) error

	// Delete removes a user and their transactions
	Delete(id uint) error
}
