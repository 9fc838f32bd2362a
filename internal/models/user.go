package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles and statuses
const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
	UserStatusPending = "pending"
)

// Lockout policy: 5 consecutive failed logins lock the account for 2 hours.
const (
	MaxFailedLoginAttempts = 5
	AccountLockoutDuration = 2 * time.Hour
)

type User struct {
	ID                  uint   `gorm:"primarykey"`
	Username            string `gorm:"uniqueIndex;not null"`
	Email               string `gorm:"index"`
	Password            string `gorm:"not null"` // bcrypt hash
	Role                string `gorm:"default:'user'"`
	Status              string `gorm:"default:'active'"`
	TwoFactorEnabled    bool   `gorm:"default:false"`
	TwoFactorSecret     string
	BackupCodes         StringSlice `gorm:"type:jsonb"`
	FailedLoginAttempts int         `gorm:"default:0"`
	AccountLockoutUntil *time.Time
	LastLoginAt         time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

// IsLocked reports whether the account is currently locked out.
func (u *User) IsLocked() bool {
	return u.AccountLockoutUntil != nil && u.AccountLockoutUntil.After(time.Now())
}

// RegisterFailedLogin advances the consecutive-failure counter and sets the
// lockout window on the fifth failure. A failure after an expired lockout
// starts a fresh series rather than re-locking immediately.
func (u *User) RegisterFailedLogin(now time.Time) {
	if u.AccountLockoutUntil != nil && u.AccountLockoutUntil.Before(now) {
		u.FailedLoginAttempts = 0
		u.AccountLockoutUntil = nil
	}

	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= MaxFailedLoginAttempts {
		until := now.Add(AccountLockoutDuration)
		u.AccountLockoutUntil = &until
	}
}
