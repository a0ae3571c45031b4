package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func TestRateLimiter(t *testing.T) {
	tests := []struct {
		name     string
		rate     rate.Limit
		burst    int
		requests int
		allowed  int
	}{
		{"within burst", 1, 5, 5, 5},
		{"over burst", 0.001, 3, 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(tt.rate, tt.burst)
			allowed := 0
			for i := 0; i < tt.requests; i++ {
				if rl.getLimiter("192.0.2.1").Allow() {
					allowed++
				}
			}
			if allowed != tt.allowed {
				t.Errorf("allowed = %d, want %d", allowed, tt.allowed)
			}
		})
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	if !rl.getLimiter("192.0.2.1").Allow() {
		t.Fatal("first request should pass")
	}
	if rl.getLimiter("192.0.2.1").Allow() {
		t.Error("second request from same IP should be limited")
	}
	if !rl.getLimiter("192.0.2.2").Allow() {
		t.Error("other IP should have its own bucket")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(NewRateLimiter(0.001, 2)))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.RemoteAddr = "198.51.100.7:5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests = %v, want 200s", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", codes[2])
	}
}

func TestMaxBytesMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(MaxBytesMiddleware(16))
	r.POST("/x", func(c *gin.Context) {
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"small", "hello", http.StatusOK},
		{"declared too large", "this body is definitely longer than sixteen bytes", http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(tt.body)))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestClientIP(t *testing.T) {
	r := gin.New()
	var got string
	r.GET("/", func(c *gin.Context) { got = clientIP(c) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:41000"
	r.ServeHTTP(httptest.NewRecorder(), req)
	if got != "203.0.113.9" {
		t.Errorf("clientIP() = %q, want 203.0.113.9", got)
	}
}
