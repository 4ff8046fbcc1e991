package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(discardLogger(), false))
	r.POST("/login", rl.RateLimiterMiddleware("login", KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func hit(r http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	r := newLimitedRouter(NewRateLimiter(NewMemoryCounter(), 2, time.Minute, discardLogger()))

	for i := 0; i < 2; i++ {
		if w := hit(r, "10.0.0.1"); w.Code != http.StatusOK {
			t.Fatalf("request %d: got %d", i, w.Code)
		}
	}

	w := hit(r, "10.0.0.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: got %d want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}

	// other clients are unaffected
	if w := hit(r, "10.0.0.2"); w.Code != http.StatusOK {
		t.Fatalf("other ip: got %d", w.Code)
	}
}

func TestMemoryCounterWindowResets(t *testing.T) {
	c := NewMemoryCounter()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	for i := 1; i <= 3; i++ {
		n, _, _ := c.Hit(context.Background(), "k", time.Minute)
		if n != i {
			t.Fatalf("hit %d: count %d", i, n)
		}
	}

	now = now.Add(61 * time.Second)
	n, resetIn, _ := c.Hit(context.Background(), "k", time.Minute)
	if n != 1 {
		t.Fatalf("after window: count %d want 1", n)
	}
	if resetIn != time.Minute {
		t.Fatalf("resetIn: got %v", resetIn)
	}
}

type failingCounter struct{}

func (failingCounter) Hit(context.Context, string, time.Duration) (int, time.Duration, error) {
	return 0, 0, errors.New("redis down")
}

func TestRateLimiterFailsOpen(t *testing.T) {
	r := newLimitedRouter(NewRateLimiter(failingCounter{}, 1, time.Minute, discardLogger()))

	for i := 0; i < 3; i++ {
		if w := hit(r, "10.0.0.1"); w.Code != http.StatusOK {
			t.Fatalf("request %d: got %d", i, w.Code)
		}
	}
}
