// File: internal/domain/models/token.go
package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the bearer-token payload. The token is self-contained: it is
// not re-checked against the users table on each request, so it stays
// valid until exp regardless of account changes.
type Claims struct {
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}
