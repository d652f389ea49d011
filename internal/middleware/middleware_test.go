package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/ieltsprep/config"
	"github.com/lshigami/ieltsprep/internal/auth"
	"github.com/lshigami/ieltsprep/internal/model"
)

func newRouter(tokens *auth.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	api := r.Group("/api", Authenticate(tokens))
	api.GET("/me", func(c *gin.Context) {
		p := Principal(c)
		fromCtx, _ := auth.FromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"id": p.UserID, "role": p.Role, "ctx": fromCtx.UserID})
	})
	api.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestAuthenticate(t *testing.T) {
	cfg := &config.Config{JWT: config.JWT{Secret: "test-secret", Issuer: "ieltsprep"}}
	tokens := auth.NewTokenService(cfg)
	r := newRouter(tokens)

	studentToken, err := tokens.Issue(auth.Principal{UserID: 5, Role: model.RoleStudent}, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	adminToken, err := tokens.Issue(auth.Principal{UserID: 1, Role: model.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no header", "/api/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/api/me", "Basic " + studentToken, http.StatusUnauthorized},
		{"garbage token", "/api/me", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"student", "/api/me", "Bearer " + studentToken, http.StatusOK},
		{"student on admin route", "/api/admin", "Bearer " + studentToken, http.StatusForbidden},
		{"admin on admin route", "/api/admin", "Bearer " + adminToken, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := newRouter(auth.NewTokenService(&config.Config{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("expected caller id to be echoed, got %q", got)
	}
}
