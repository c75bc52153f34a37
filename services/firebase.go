package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseVerifier verifies ID tokens issued by Firebase Authentication.
type FirebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier initializes the Firebase app from the environment and
// returns a verifier backed by its auth client. Credentials come from either
// GOOGLE_APPLICATION_CREDENTIALS (a file path) or
// FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 (an inline key).
func NewFirebaseVerifier(ctx context.Context) (*FirebaseVerifier, error) {
	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	if projectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID must be set")
	}

	var opts []option.ClientOption
	credsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	credsJSONBase64 := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64")

	switch {
	case credsPath != "":
		opts = append(opts, option.WithCredentialsFile(credsPath))
	case credsJSONBase64 != "":
		jsonKey, err := base64.StdEncoding.DecodeString(credsJSONBase64)
		if err != nil {
			return nil, errors.New("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is not valid base64")
		}
		opts = append(opts, option.WithCredentialsJSON(jsonKey))
	default:
		return nil, errors.New("either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 must be set")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase auth client: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) VerifyToken(ctx context.Context, token string) (*Claims, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		if auth.IsIDTokenExpired(err) {
			return nil, ErrTokenExpired
		}
		if auth.IsIDTokenInvalid(err) || strings.Contains(err.Error(), "malformed") {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	claims := &Claims{
		SubjectID: decoded.UID,
		ExpiresAt: decoded.Expires,
	}
	if email, ok := decoded.Claims["email"].(string); ok {
		claims.Email = email
	}
	if verified, ok := decoded.Claims["email_verified"].(bool); ok {
		claims.EmailVerified = verified
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		claims.DisplayName = name
	}
	if picture, ok := decoded.Claims["picture"].(string); ok {
		claims.PhotoURL = picture
	}

	return claims, nil
}
