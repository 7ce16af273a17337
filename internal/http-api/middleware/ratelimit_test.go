package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")
	c.Request = req
	return c, w
}

func TestRateLimiterKey(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	c, _ := testContext(t)

	// IP fallback when unauthenticated
	key := rl.key(c)
	if !strings.HasPrefix(key, "ip:") || !strings.Contains(key, "203.0.113.9") {
		t.Fatalf("expected ip-based key, got %q", key)
	}

	// Authenticated requests are keyed by user
	c.Set("userID", "u123")
	if got := rl.key(c); got != "user:u123" {
		t.Fatalf("expected user-based key, got %q", got)
	}
}

func TestRateLimiterBurstCoercion(t *testing.T) {
	rl := NewRateLimiter(2.0, 0)
	if rl.burst != 1 {
		t.Fatalf("burst coercion failed, got %d", rl.burst)
	}
}

func TestRateLimiterLimiterReuse(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	first := rl.limiterFor("k1")
	if first == nil {
		t.Fatal("expected limiter")
	}
	if got := rl.limiterFor("k1"); got != first {
		t.Fatal("expected the same limiter instance per key")
	}
}

func TestRateLimiterHandler_ExhaustedBucketIs429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(0.001, 2)

	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", w.Code)
	}
}
