package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/config"
)

func transcribeRateLimitRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/courses/transcribe-video/", TranscribeRateLimitMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})
	return router
}

func postTranscribeFrom(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/courses/transcribe-video/", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTranscribeRateLimitBlocksAfterBudget(t *testing.T) {
	cfg := &config.Config{
		TranscribeRateLimitRequests: 2,
		TranscribeRateLimitWindow:   300,
	}
	router := transcribeRateLimitRouter(cfg)

	for i := 0; i < 2; i++ {
		if w := postTranscribeFrom(router, "10.1.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, w.Code)
		}
	}

	w := postTranscribeFrom(router, "10.1.0.1:1234")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
}

func TestTranscribeRateLimitTracksPerIP(t *testing.T) {
	cfg := &config.Config{
		TranscribeRateLimitRequests: 1,
		TranscribeRateLimitWindow:   300,
	}
	router := transcribeRateLimitRouter(cfg)

	if w := postTranscribeFrom(router, "10.2.0.1:1234"); w.Code != http.StatusOK {
		t.Fatalf("first ip: status = %d, want 200", w.Code)
	}
	if w := postTranscribeFrom(router, "10.2.0.1:1234"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("first ip again: status = %d, want 429", w.Code)
	}
	if w := postTranscribeFrom(router, "10.2.0.2:1234"); w.Code != http.StatusOK {
		t.Fatalf("second ip: status = %d, want 200", w.Code)
	}
}

func TestTranscribeRateLimitDisabledWithZeroBudget(t *testing.T) {
	cfg := &config.Config{}
	router := transcribeRateLimitRouter(cfg)

	for i := 0; i < 5; i++ {
		if w := postTranscribeFrom(router, "10.3.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, w.Code)
		}
	}
}

func TestUploadRateLimitBlocksAfterBudget(t *testing.T) {
	cfg := &config.Config{
		UploadRateLimitRequests: 1,
		UploadRateLimitWindow:   300,
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/profile/picture", UploadRateLimitMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	first := httptest.NewRequest(http.MethodPost, "/api/v1/profile/picture", nil)
	first.RemoteAddr = "10.4.0.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, first)
	if w.Code != http.StatusOK {
		t.Fatalf("first upload: status = %d, want 200", w.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/profile/picture", nil)
	second.RemoteAddr = "10.4.0.1:1234"
	w = httptest.NewRecorder()
	router.ServeHTTP(w, second)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second upload: status = %d, want 429", w.Code)
	}
}
