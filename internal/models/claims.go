package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT payload carried by bearer tokens.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}
