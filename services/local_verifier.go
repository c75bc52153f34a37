package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// LocalVerifier validates HS256 tokens minted by development tooling. It is
// selected at startup when no Firebase credentials are configured, so the
// middleware chain behaves identically in local and deployed environments.
type LocalVerifier struct {
	secret []byte
}

func NewLocalVerifier() (*LocalVerifier, error) {
	secret := os.Getenv("DEV_JWT_SECRET")
	if secret == "" {
		return nil, errors.New("DEV_JWT_SECRET must be set when Firebase credentials are absent")
	}
	return &LocalVerifier{secret: []byte(secret)}, nil
}

func (v *LocalVerifier) VerifyToken(_ context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || mapClaims["sub"] == nil {
		return nil, ErrTokenInvalid
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok || sub == "" {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{SubjectID: sub}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if verified, ok := mapClaims["email_verified"].(bool); ok {
		claims.EmailVerified = verified
	}
	if name, ok := mapClaims["name"].(string); ok {
		claims.DisplayName = name
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = int64(exp)
	}

	return claims, nil
}
