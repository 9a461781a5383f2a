package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitBlocksBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetRateLimitConfig(time.Minute, 3)
	t.Cleanup(func() { SetRateLimitConfig(10*time.Second, 20) })

	r := gin.New()
	r.POST("/", RateLimit(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})

	hit := func() int {
		req := httptest.NewRequest("POST", "/", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 3; i++ {
		if code := hit(); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
	if code := hit(); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", code)
	}

	// a different client has its own bucket
	req := httptest.NewRequest("POST", "/", nil)
	req.RemoteAddr = "10.0.0.2:12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected separate bucket per client, got %d", w.Code)
	}
}
