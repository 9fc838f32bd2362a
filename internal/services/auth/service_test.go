package auth

import (
	"context"
	"testing"
	"time"

	"github.com/upishield/upishield/internal/models"
	"github.com/upishield/upishield/internal/repositories"
	"github.com/upishield/upishield/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepo) UpdatePassword(userID uint, hashedPassword string) error {
	return m.Called(userID, hashedPassword).Error(0)
}

func (m *MockUserRepo) RecordFailedLogin(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepo) ResetFailedLogins(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepo) Delete(id uint) error {
	return m.Called(id).Error(0)
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:       1,
		Username: "john",
		Email:    "john@example.com",
		Password: string(hashed),
		Status:   models.UserStatusActive,
	}
}

func TestLogin_Success(t *testing.T) {
	repo := new(MockUserRepo)
	user := testUser(t, "Secret123")
	repo.On("GetByUsername", "john").Return(user, nil)
	repo.On("ResetFailedLogins", user).Return(nil)

	svc := NewService(repo, nil, nil)
	got, token, err := svc.Login(context.Background(), "john", "Secret123")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)
	repo.AssertExpectations(t)
}

func TestLogin_UsernameIsNormalized(t *testing.T) {
	repo := new(MockUserRepo)
	user := testUser(t, "Secret123")
	// Registration stores the lowercased username; login must match it.
	repo.On("GetByUsername", "john").Return(user, nil)
	repo.On("ResetFailedLogins", user).Return(nil)

	svc := NewService(repo, nil, nil)
	_, token, err := svc.Login(context.Background(), "  John ", "Secret123")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	repo.AssertExpectations(t)
}

func TestLogin_WrongPasswordRecordsFailure(t *testing.T) {
	repo := new(MockUserRepo)
	user := testUser(t, "Secret123")
	repo.On("GetByUsername", "john").Return(user, nil)
	repo.On("RecordFailedLogin", user).Return(nil)

	svc := NewService(repo, nil, nil)
	_, _, err := svc.Login(context.Background(), "john", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	repo.AssertCalled(t, "RecordFailedLogin", user)
	repo.AssertNotCalled(t, "ResetFailedLogins", mock.Anything)
}

func TestLogin_UnknownUserIsInvalidCredentials(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("GetByUsername", "ghost").Return(nil, repositories.ErrUserNotFound)

	svc := NewService(repo, nil, nil)
	_, _, err := svc.Login(context.Background(), "ghost", "whatever")

	// Same error as a wrong password, so usernames cannot be probed.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_LockedAccountRejectsEvenCorrectPassword(t *testing.T) {
	repo := new(MockUserRepo)
	user := testUser(t, "Secret123")
	until := time.Now().Add(time.Hour)
	user.FailedLoginAttempts = models.MaxFailedLoginAttempts
	user.AccountLockoutUntil = &until
	repo.On("GetByUsername", "john").Return(user, nil)

	svc := NewService(repo, nil, nil)
	_, _, err := svc.Login(context.Background(), "john", "Secret123")

	assert.ErrorIs(t, err, ErrAccountLocked)
	repo.AssertNotCalled(t, "RecordFailedLogin", mock.Anything)
}

func TestLogin_ExpiredLockoutAdmitsUser(t *testing.T) {
	repo := new(MockUserRepo)
	user := testUser(t, "Secret123")
	until := time.Now().Add(-time.Minute)
	user.FailedLoginAttempts = models.MaxFailedLoginAttempts
	user.AccountLockoutUntil = &until
	repo.On("GetByUsername", "john").Return(user, nil)
	repo.On("ResetFailedLogins", user).Return(nil)

	svc := NewService(repo, nil, nil)
	_, token, err := svc.Login(context.Background(), "john", "Secret123")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLogin_TwoFactorWithholdsToken(t *testing.T) {
	repo := new(MockUserRepo)
	user := testUser(t, "Secret123")
	user.TwoFactorEnabled = true
	repo.On("GetByUsername", "john").Return(user, nil)
	repo.On("ResetFailedLogins", user).Return(nil)

	svc := NewService(repo, nil, nil)
	got, token, err := svc.Login(context.Background(), "john", "Secret123")

	assert.ErrorIs(t, err, ErrMFARequired)
	assert.Empty(t, token)
	assert.NotNil(t, got)
}

func expiredTokenFor(t *testing.T, userID uint, expiredFor time.Duration, secret string) string {
	t.Helper()
	claims := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-expiredFor)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-expiredFor - utils.TokenValidity)),
		},
		UserID:   userID,
		Username: "john",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestRefreshToken_LiveToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := new(MockUserRepo)
	user := testUser(t, "Secret123")
	repo.On("GetByID", uint(1)).Return(user, nil)

	token, err := utils.GenerateToken(user)
	require.NoError(t, err)

	svc := NewService(repo, nil, nil)
	fresh, err := svc.RefreshToken(token)
	require.NoError(t, err)

	claims, err := utils.ParseToken(fresh)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
}

func TestRefreshToken_ExpiredWithinWindow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := new(MockUserRepo)
	user := testUser(t, "Secret123")
	repo.On("GetByID", uint(1)).Return(user, nil)

	svc := NewService(repo, nil, nil)
	fresh, err := svc.RefreshToken(expiredTokenFor(t, 1, 48*time.Hour, "test-secret"))
	require.NoError(t, err)
	assert.NotEmpty(t, fresh)
}

func TestRefreshToken_TooOld(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(new(MockUserRepo), nil, nil)

	_, err := svc.RefreshToken(expiredTokenFor(t, 1, utils.RefreshWindow+time.Hour, "test-secret"))
	assert.ErrorIs(t, err, ErrTokenTooOld)
}

func TestRefreshToken_BadSignature(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(new(MockUserRepo), nil, nil)

	_, err := svc.RefreshToken(expiredTokenFor(t, 1, time.Hour, "other-secret"))
	assert.ErrorIs(t, err, utils.ErrTokenInvalid)

	_, err = svc.RefreshToken("not.a.token")
	assert.ErrorIs(t, err, utils.ErrTokenInvalid)
}

func TestRefreshToken_DeletedUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := new(MockUserRepo)
	repo.On("GetByID", uint(9)).Return(nil, repositories.ErrUserNotFound)

	svc := NewService(repo, nil, nil)
	_, err := svc.RefreshToken(expiredTokenFor(t, 9, time.Hour, "test-secret"))
	assert.ErrorIs(t, err, utils.ErrTokenInvalid)
}

func TestChangePassword(t *testing.T) {
	repo := new(MockUserRepo)
	user := testUser(t, "Secret123")
	repo.On("GetByID", uint(1)).Return(user, nil)
	repo.On("UpdatePassword", uint(1), mock.AnythingOfType("string")).Return(nil)

	svc := NewService(repo, nil, nil)

	assert.ErrorIs(t, svc.ChangePassword(1, "wrong", "NewSecret123"), ErrInvalidCredentials)
	assert.Error(t, svc.ChangePassword(1, "Secret123", "weak"))
	assert.NoError(t, svc.ChangePassword(1, "Secret123", "NewSecret123"))
}

func TestUserIsLocked(t *testing.T) {
	u := &models.User{}
	assert.False(t, u.IsLocked())

	future := time.Now().Add(time.Hour)
	u.AccountLockoutUntil = &future
	assert.True(t, u.IsLocked())

	past := time.Now().Add(-time.Hour)
	u.AccountLockoutUntil = &past
	assert.False(t, u.IsLocked())
}
