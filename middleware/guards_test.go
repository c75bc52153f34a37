package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"notekeeper/model"
	"notekeeper/repository"
	"notekeeper/services"

	"github.com/gin-gonic/gin"
)

func asClaims(claims *services.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxClaims, claims)
	}
}

func asUser(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxUser, user)
		c.Set(CtxUserID, user.UserID)
	}
}

func performRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRequireActiveAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		user           *model.User
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Active Account",
			user:           &model.User{UserID: "user-1", IsActive: true},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Deactivated Account",
			user:           &model.User{UserID: "user-1", IsActive: false},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "ACCOUNT_INACTIVE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/protected", asUser(tt.user), RequireActiveAccount(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := performRequest(router, http.MethodGet, "/protected")
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

func TestRequireActiveAccountWithoutUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireActiveAccount(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	if w := performRequest(router, http.MethodGet, "/protected"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireVerifiedEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		claims         *services.Claims
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Verified Email",
			claims:         &services.Claims{SubjectID: "uid-1", Email: "a@b.com", EmailVerified: true},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Unverified Email",
			claims:         &services.Claims{SubjectID: "uid-1", Email: "a@b.com", EmailVerified: false},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "EMAIL_NOT_VERIFIED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/upload", asClaims(tt.claims), RequireVerifiedEmail(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := performRequest(router, http.MethodPost, "/upload")
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

func TestRequireVerifiedEmailWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/upload", RequireVerifiedEmail(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	if w := performRequest(router, http.MethodPost, "/upload"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		role           model.Role
		expectedStatus int
	}{
		{"Admin Allowed", model.RoleAdmin, http.StatusOK},
		{"Moderator Rejected", model.RoleModerator, http.StatusForbidden},
		{"User Rejected", model.RoleUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			user := &model.User{UserID: "user-1", IsActive: true, Role: tt.role}
			router.GET("/admin", asUser(user), RequireRole(model.RoleAdmin), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := performRequest(router, http.MethodGet, "/admin")
			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if tt.expectedStatus == http.StatusForbidden {
				var body map[string]interface{}
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("failed to parse response: %v", err)
				}
				if body["code"] != "INSUFFICIENT_ROLE" {
					t.Errorf("code = %v, want INSUFFICIENT_ROLE", body["code"])
				}
				if body["current"] != string(tt.role) {
					t.Errorf("current = %v, want %v", body["current"], tt.role)
				}
			}
		})
	}
}

func TestRequireOwnership(t *testing.T) {
	gin.SetMode(gin.TestMode)

	note := &model.Note{
		NoteID:      "note-1",
		UserID:      "owner-id",
		FirebaseUID: "owner-uid",
		Title:       "Owned",
	}
	loader := func(ctx context.Context, id string) (Owned, error) {
		if id == note.NoteID {
			return note, nil
		}
		return nil, repository.ErrNotFound
	}

	newRouter := func(user *model.User) *gin.Engine {
		router := gin.New()
		router.GET("/notes/:id", asUser(user), RequireOwnership(loader, "id"), func(c *gin.Context) {
			resource, ok := LoadedResource(c)
			if !ok {
				t.Error("expected resource attached to context")
			}
			if _, isNote := resource.(*model.Note); !isNote {
				t.Error("expected attached resource to be the loaded note")
			}
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("Owner By Internal ID", func(t *testing.T) {
		router := newRouter(&model.User{UserID: "owner-id", FirebaseUID: "other-uid"})
		if w := performRequest(router, http.MethodGet, "/notes/note-1"); w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("Owner By Subject ID", func(t *testing.T) {
		router := newRouter(&model.User{UserID: "other-id", FirebaseUID: "owner-uid"})
		if w := performRequest(router, http.MethodGet, "/notes/note-1"); w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("Non Owner Rejected", func(t *testing.T) {
		router := newRouter(&model.User{UserID: "stranger", FirebaseUID: "stranger-uid"})
		w := performRequest(router, http.MethodGet, "/notes/note-1")
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
		var body map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if body["code"] != "ACCESS_DENIED" {
			t.Errorf("code = %v, want ACCESS_DENIED", body["code"])
		}
	})

	t.Run("Missing Resource", func(t *testing.T) {
		router := newRouter(&model.User{UserID: "owner-id"})
		if w := performRequest(router, http.MethodGet, "/notes/absent"); w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}
