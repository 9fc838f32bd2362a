package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/upishield/upishield/internal/config"
	"github.com/upishield/upishield/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Token lifetime for bearer sessions.
const TokenValidity = 24 * time.Hour

// RefreshWindow is how long after expiry a token may still be exchanged for
// a fresh one.
const RefreshWindow = 7 * 24 * time.Hour

// Sentinel errors so handlers can report expired vs malformed distinctly.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

func jwtSecret() []byte {
	return []byte(config.GetEnv("JWT_SECRET", "upishield-dev-secret"))
}

// GenerateToken issues a 24h HS256 bearer token for the user.
func GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenValidity)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "upishield-api",
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
		},
		UserID:   user.ID,
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ParseToken parses and validates a bearer token, mapping failures onto
// ErrTokenExpired or ErrTokenInvalid.
func ParseToken(tokenStr string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// ParseExpiredToken verifies the signature but tolerates an expired token,
// for the refresh flow. The caller decides how stale is acceptable.
func ParseExpiredToken(tokenStr string) (*models.UserClaims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
