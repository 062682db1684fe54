package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type testJWTConfig string

func (s testJWTConfig) GetJWTAccessSecret() string { return string(s) }

const testSecret = testJWTConfig("test-secret")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newAuthRouter(seen *Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthRequired(testSecret), func(c *gin.Context) {
		id := MustGetIdentity(c)
		if id == nil {
			return
		}
		*seen = id
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	userID, workspaceID := uuid.New(), uuid.New()
	valid := jwt.MapClaims{
		"sub":          userID.String(),
		"workspace_id": workspaceID.String(),
		"type":         "access",
		"roles":        []string{"admin"},
		"exp":          time.Now().Add(time.Hour).Unix(),
	}

	tests := []struct {
		name   string
		header func(t *testing.T) string
		want   int
	}{
		{"valid token", func(t *testing.T) string { return "Bearer " + signToken(t, valid) }, http.StatusNoContent},
		{"missing header", func(*testing.T) string { return "" }, http.StatusUnauthorized},
		{"wrong scheme", func(t *testing.T) string { return "Basic " + signToken(t, valid) }, http.StatusUnauthorized},
		{"refresh token", func(t *testing.T) string {
			return "Bearer " + signToken(t, jwt.MapClaims{"sub": userID.String(), "workspace_id": workspaceID.String(), "type": "refresh"})
		}, http.StatusUnauthorized},
		{"missing workspace", func(t *testing.T) string {
			return "Bearer " + signToken(t, jwt.MapClaims{"sub": userID.String(), "type": "access"})
		}, http.StatusUnauthorized},
		{"expired", func(t *testing.T) string {
			return "Bearer " + signToken(t, jwt.MapClaims{"sub": userID.String(), "workspace_id": workspaceID.String(), "type": "access", "exp": time.Now().Add(-time.Minute).Unix()})
		}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen Identity
			r := newAuthRouter(&seen)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if h := tt.header(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if tt.want != http.StatusNoContent {
				return
			}
			if seen.WorkspaceID() != workspaceID || seen.UserID() != userID {
				t.Fatalf("identity = %v/%v, want %v/%v", seen.UserID(), seen.WorkspaceID(), userID, workspaceID)
			}
			if !seen.HasRole("admin") {
				t.Fatal("expected admin role from token")
			}
		})
	}
}

func TestRateLimitPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewIPRateLimiter(rate.Limit(0.001), 1, nil).RateLimit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(ip string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	if got := do("10.0.0.1"); got != http.StatusOK {
		t.Fatalf("first request = %d", got)
	}
	if got := do("10.0.0.1"); got != http.StatusTooManyRequests {
		t.Fatalf("second request = %d, want 429", got)
	}
	if got := do("10.0.0.2"); got != http.StatusOK {
		t.Fatalf("other ip = %d", got)
	}
}

func TestRequestIDReusesInboundHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("X-Request-ID = %q", got)
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	newRouter := func(roles ...string) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			SetIdentity(c, uuid.New(), uuid.New(), roles...)
			c.Next()
		})
		r.GET("/admin", RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return r
	}

	tests := []struct {
		name  string
		roles []string
		want  int
	}{
		{"has role", []string{"member", "admin"}, http.StatusNoContent},
		{"missing role", []string{"member"}, http.StatusForbidden},
		{"no roles", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newRouter(tt.roles...).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
