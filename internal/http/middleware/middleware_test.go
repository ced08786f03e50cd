package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth struct{}

func (fakeAuth) Authenticate(token string) (domain.Actor, error) {
	switch token {
	case "admin":
		return domain.Actor{UserID: "admin", Name: "Admin User", Role: models.RoleAdmin}, nil
	case "staff":
		return domain.Actor{UserID: "ali.h", Name: "Ali Hassan", Role: models.RoleStaff}, nil
	}
	return domain.Actor{}, errors.New("invalid token")
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDKeepsClientValue(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc-123" || w.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("request id not propagated: body=%q header=%q", w.Body.String(), w.Header().Get("X-Request-ID"))
	}

	w = serve(r, http.MethodGet, "/", "")
	if len(w.Body.String()) != 36 {
		t.Fatalf("expected generated uuid, got %q", w.Body.String())
	}
}

func TestRequireAuthAndRoles(t *testing.T) {
	r := gin.New()
	r.Use(RequireAuth(fakeAuth{}))
	r.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, GetActor(c).Name) })
	r.DELETE("/thing", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	if w := serve(r, http.MethodGet, "/me", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: got %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/me", "bogus"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: got %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/me", "staff"); w.Code != http.StatusOK || w.Body.String() != "Ali Hassan" {
		t.Fatalf("staff: got %d %q", w.Code, w.Body.String())
	}
	if w := serve(r, http.MethodDelete, "/thing", "staff"); w.Code != http.StatusForbidden {
		t.Fatalf("staff delete: got %d", w.Code)
	}
	if w := serve(r, http.MethodDelete, "/thing", "admin"); w.Code != http.StatusNoContent {
		t.Fatalf("admin delete: got %d", w.Code)
	}
}

func TestIPRateLimiter(t *testing.T) {
	r := gin.New()
	r.POST("/login", NewIPRateLimiter(1, 2).Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := serve(r, http.MethodPost, "/login", ""); w.Code != http.StatusOK {
			t.Fatalf("attempt %d: got %d", i+1, w.Code)
		}
	}
	if w := serve(r, http.MethodPost, "/login", ""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("third attempt: got %d, want 429", w.Code)
	}
}

func TestIPRateLimiterEvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(20, 5)
	l.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		l.get(fmt.Sprintf("10.0.0.%d", i))
	}
	if got := l.tracked(); got != 50 {
		t.Fatalf("tracked: got %d, want 50", got)
	}

	now = now.Add(limiterIdleTTL / 2)
	l.get("10.0.0.1")
	now = now.Add(limiterIdleTTL/2 + time.Second)
	l.get("192.168.1.1")
	if got := l.tracked(); got != 2 {
		t.Fatalf("after sweep: got %d buckets, want the recent one and the new one", got)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow-origin: got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign origin: got %d", w.Code)
	}
}
