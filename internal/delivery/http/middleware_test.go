package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lookscan/backend/internal/infrastructure/cache"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		want           bool
	}{
		{
			name:           "exact match",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{"http://localhost:3000"},
			want:           true,
		},
		{
			name:           "wildcard match",
			origin:         "https://beta.lookscan.app",
			allowedOrigins: []string{"https://*"},
			want:           true,
		},
		{
			name:           "multiple allowed origins - matches first",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{"http://localhost:3000", "https://lookscan.app"},
			want:           true,
		},
		{
			name:           "multiple allowed origins - matches second",
			origin:         "https://lookscan.app",
			allowedOrigins: []string{"http://localhost:3000", "https://lookscan.app"},
			want:           true,
		},
		{
			name:           "no match",
			origin:         "http://evil.com",
			allowedOrigins: []string{"https://lookscan.app"},
			want:           false,
		},
		{
			name:           "empty origin",
			origin:         "",
			allowedOrigins: []string{"https://lookscan.app"},
			want:           false,
		},
		{
			name:           "empty allowed list",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{},
			want:           false,
		},
		{
			name:           "partial wildcard match",
			origin:         "https://beta.lookscan.app",
			allowedOrigins: []string{"https://beta.*"},
			want:           true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isAllowedOrigin(tt.origin, tt.allowedOrigins)
			if got != tt.want {
				t.Errorf("isAllowedOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		method         string
		wantStatus     int
		wantCORS       bool
	}{
		{
			name:           "allowed origin - GET request",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{"http://localhost:3000"},
			method:         "GET",
			wantStatus:     http.StatusOK,
			wantCORS:       true,
		},
		{
			name:           "allowed origin - OPTIONS request",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{"http://localhost:3000"},
			method:         "OPTIONS",
			wantStatus:     http.StatusNoContent,
			wantCORS:       true,
		},
		{
			name:           "disallowed origin",
			origin:         "http://evil.com",
			allowedOrigins: []string{"http://localhost:3000"},
			method:         "GET",
			wantStatus:     http.StatusOK,
			wantCORS:       false,
		},
		{
			name:           "no origin header",
			origin:         "",
			allowedOrigins: []string{"http://localhost:3000"},
			method:         "GET",
			wantStatus:     http.StatusOK,
			wantCORS:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware(tt.allowedOrigins))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", w.Code, tt.wantStatus)
			}

			corsHeader := w.Header().Get("Access-Control-Allow-Origin")
			if tt.wantCORS {
				if corsHeader != tt.origin {
					t.Errorf("Access-Control-Allow-Origin = %s, want %s", corsHeader, tt.origin)
				}
				if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
					t.Errorf("Access-Control-Allow-Credentials not set to true")
				}
			} else {
				if corsHeader != "" {
					t.Errorf("Access-Control-Allow-Origin should not be set for disallowed origin, got %s", corsHeader)
				}
			}
		})
	}
}

func TestCORSMiddleware_PreflightRequest(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	router.POST("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest("OPTIONS", "/test", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Should return 204 No Content
	if w.Code != http.StatusNoContent {
		t.Errorf("Preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}

	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin not set correctly")
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Errorf("Access-Control-Allow-Methods not set")
	}
	if w.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Errorf("Access-Control-Allow-Headers not set")
	}
	if w.Header().Get("Access-Control-Max-Age") == "" {
		t.Errorf("Access-Control-Max-Age not set")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	setupRateLimitedRouter := func(perMinute int) *gin.Engine {
		router := gin.New()
		router.Use(RateLimitMiddleware(cache.NewLimiterStore(perMinute)))
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "OK")
		})
		return router
	}

	t.Run("allows requests within budget", func(t *testing.T) {
		router := setupRateLimitedRouter(10)

		for i := 0; i < 10; i++ {
			req := httptest.NewRequest("GET", "/test", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Request %d: Status = %d, want %d", i+1, w.Code, http.StatusOK)
			}
		}
	})

	t.Run("rejects requests over budget", func(t *testing.T) {
		router := setupRateLimitedRouter(2)

		statuses := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest("GET", "/test", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)
			statuses = append(statuses, w.Code)
		}

		if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
			t.Errorf("first two requests = %v, want 200s", statuses[:2])
		}
		if statuses[2] != http.StatusTooManyRequests {
			t.Errorf("third request = %d, want %d", statuses[2], http.StatusTooManyRequests)
		}
	})
}
