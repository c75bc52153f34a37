package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestSizeLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/echo", RequestSizeLimiter(16), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("Small Body Passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/echo", strings.NewReader("ok"))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("Oversized Body Rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 64)))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("status = %d, want 413", w.Code)
		}
		var body map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if body["code"] != "PAYLOAD_TOO_LARGE" {
			t.Errorf("code = %v, want PAYLOAD_TOO_LARGE", body["code"])
		}
	})
}
