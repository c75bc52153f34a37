package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notekeeper/model"
	"notekeeper/services"

	"github.com/gin-gonic/gin"
)

// stubVerifier resolves tokens from a fixed table.
type stubVerifier struct {
	tokens map[string]*services.Claims
	errs   map[string]error
}

func (s *stubVerifier) VerifyToken(_ context.Context, token string) (*services.Claims, error) {
	if err, ok := s.errs[token]; ok {
		return nil, err
	}
	if claims, ok := s.tokens[token]; ok {
		return claims, nil
	}
	return nil, services.ErrTokenInvalid
}

// stubDirectory provisions users straight from claims and records calls.
type stubDirectory struct {
	resolved int
	inactive bool
}

func (s *stubDirectory) ResolveFromClaims(_ context.Context, claims *services.Claims, _ string) (*model.User, error) {
	s.resolved++
	return &model.User{
		UserID:      "local-" + claims.SubjectID,
		FirebaseUID: claims.SubjectID,
		Email:       claims.Email,
		IsActive:    !s.inactive,
		Role:        model.RoleUser,
	}, nil
}

// memoryCache is an in-process ClaimsCache for tests.
type memoryCache struct {
	store map[string]*services.Claims
	sets  int
}

func (m *memoryCache) Get(_ context.Context, token string) (*services.Claims, error) {
	return m.store[token], nil
}

func (m *memoryCache) Set(_ context.Context, token string, claims *services.Claims) error {
	m.sets++
	m.store[token] = claims
	return nil
}

func validClaims() *services.Claims {
	return &services.Claims{
		SubjectID:     "uid-1",
		Email:         "user@example.com",
		EmailVerified: true,
		ExpiresAt:     time.Now().Add(time.Hour).Unix(),
	}
}

func authRouter(verifier services.TokenVerifier, users UserDirectory, cache ClaimsCache) *gin.Engine {
	router := gin.New()
	router.GET("/me", RequireAuth(verifier, users, cache), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"user_id": user.UserID})
	})
	return router
}

func authRequest(router *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	verifier := &stubVerifier{
		tokens: map[string]*services.Claims{"good-token": validClaims()},
		errs: map[string]error{
			"expired-token": services.ErrTokenExpired,
			"bad-token":     services.ErrTokenInvalid,
		},
	}

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Valid Token",
			header:         "Bearer good-token",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing Header",
			header:         "",
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "AUTH_FAILED",
		},
		{
			name:           "Malformed Header",
			header:         "good-token",
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "AUTH_FAILED",
		},
		{
			name:           "Expired Token",
			header:         "Bearer expired-token",
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "TOKEN_EXPIRED",
		},
		{
			name:           "Invalid Token",
			header:         "Bearer bad-token",
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "INVALID_TOKEN",
		},
		{
			name:           "Lowercase Bearer Scheme",
			header:         "bearer good-token",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := authRouter(verifier, &stubDirectory{}, nil)
			w := authRequest(router, tt.header)
			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if tt.expectedCode != "" {
				var body map[string]interface{}
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("failed to parse response: %v", err)
				}
				if body["code"] != tt.expectedCode {
					t.Errorf("code = %v, want %v", body["code"], tt.expectedCode)
				}
			}
		})
	}
}

func TestRequireAuthAttachesIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	verifier := &stubVerifier{tokens: map[string]*services.Claims{"good-token": validClaims()}}
	router := gin.New()
	router.GET("/me", RequireAuth(verifier, &stubDirectory{}, nil), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			t.Error("expected user in context")
		}
		claims, ok := CurrentClaims(c)
		if !ok {
			t.Error("expected claims in context")
		}
		if user.FirebaseUID != claims.SubjectID {
			t.Errorf("user subject %q does not match claims %q", user.FirebaseUID, claims.SubjectID)
		}
		c.Status(http.StatusOK)
	})

	if w := authRequest(router, "Bearer good-token"); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestRequireAuthUsesCache(t *testing.T) {
	gin.SetMode(gin.TestMode)

	verifier := &stubVerifier{tokens: map[string]*services.Claims{"good-token": validClaims()}}
	cache := &memoryCache{store: make(map[string]*services.Claims)}
	router := authRouter(verifier, &stubDirectory{}, cache)

	if w := authRequest(router, "Bearer good-token"); w.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", w.Code)
	}
	if cache.sets != 1 {
		t.Fatalf("cache writes = %d, want 1", cache.sets)
	}

	// Second request is served from the cache without another write.
	if w := authRequest(router, "Bearer good-token"); w.Code != http.StatusOK {
		t.Fatalf("second request: status = %d, want 200", w.Code)
	}
	if cache.sets != 1 {
		t.Errorf("cache writes after hit = %d, want 1", cache.sets)
	}
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	verifier := &stubVerifier{tokens: map[string]*services.Claims{"good-token": validClaims()}}
	router := gin.New()
	router.GET("/feed", OptionalAuth(verifier, &stubDirectory{}, nil), func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.JSON(http.StatusOK, gin.H{"authenticated": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
	})

	tests := []struct {
		name          string
		header        string
		authenticated bool
	}{
		{"With Token", "Bearer good-token", true},
		{"Without Token", "", false},
		{"With Garbage Token", "Bearer nope", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/feed", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (optional auth never rejects)", w.Code)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if body["authenticated"] != tt.authenticated {
				t.Errorf("authenticated = %v, want %v", body["authenticated"], tt.authenticated)
			}
		})
	}
}
