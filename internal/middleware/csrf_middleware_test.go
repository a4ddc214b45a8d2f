package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func csrfRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CSRFMiddleware())
	router.POST("/courses/transcribe-video/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/courses/list", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestCSRFAllowsMatchingToken(t *testing.T) {
	router := csrfRouter()

	req := httptest.NewRequest(http.MethodPost, "/courses/transcribe-video/", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "jwt"})
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok123"})
	req.Header.Set(CSRFHeaderName, "tok123")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestCSRFRejectsMissingHeader(t *testing.T) {
	router := csrfRouter()

	req := httptest.NewRequest(http.MethodPost, "/courses/transcribe-video/", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "jwt"})
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok123"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestCSRFRejectsMismatchedToken(t *testing.T) {
	router := csrfRouter()

	req := httptest.NewRequest(http.MethodPost, "/courses/transcribe-video/", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "jwt"})
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok123"})
	req.Header.Set(CSRFHeaderName, "other")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestCSRFSkipsSafeMethodsAndBearerAuth(t *testing.T) {
	router := csrfRouter()

	req := httptest.NewRequest(http.MethodGet, "/courses/list", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "jwt"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/courses/transcribe-video/", nil)
	req.Header.Set("Authorization", "Bearer jwt")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("bearer POST status = %d, want 200", w.Code)
	}
}
