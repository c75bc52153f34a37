package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestRequestTracingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(seen *string) *gin.Engine {
		router := gin.New()
		router.GET("/ping", RequestTracingMiddleware(), func(c *gin.Context) {
			*seen = RequestID(c)
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("Assigns Fresh ID", func(t *testing.T) {
		var seen string
		router := newRouter(&seen)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		router.ServeHTTP(w, req)

		header := w.Header().Get("X-Request-ID")
		if header == "" {
			t.Fatal("expected X-Request-ID response header")
		}
		if _, err := uuid.Parse(header); err != nil {
			t.Errorf("X-Request-ID = %q, want a uuid: %v", header, err)
		}
		if seen != header {
			t.Errorf("context id = %q, header = %q", seen, header)
		}
	})

	t.Run("Reuses Caller ID", func(t *testing.T) {
		var seen string
		router := newRouter(&seen)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-ID", "upstream-trace-42")
		router.ServeHTTP(w, req)

		if got := w.Header().Get("X-Request-ID"); got != "upstream-trace-42" {
			t.Errorf("X-Request-ID = %q, want upstream-trace-42", got)
		}
		if seen != "upstream-trace-42" {
			t.Errorf("context id = %q, want upstream-trace-42", seen)
		}
	})

	t.Run("Replaces Oversized ID", func(t *testing.T) {
		var seen string
		router := newRouter(&seen)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("x", 200))
		router.ServeHTTP(w, req)

		header := w.Header().Get("X-Request-ID")
		if _, err := uuid.Parse(header); err != nil {
			t.Errorf("X-Request-ID = %q, want a fresh uuid: %v", header, err)
		}
	})
}
