package services

import (
	"context"
	"errors"
)

// Claims are the verified identity attributes returned by the provider.
type Claims struct {
	SubjectID     string `json:"subject_id"`
	Email         string `json:"email"`
	DisplayName   string `json:"display_name,omitempty"`
	PhotoURL      string `json:"photo_url,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	ExpiresAt     int64  `json:"expires_at"`
}

// Verification failures are classified so the middleware can map them to
// the right response code.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenVerifier validates an opaque bearer credential against the identity
// provider and returns the verified claims.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*Claims, error)
}
