package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/middleware"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/models"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

const (
	authTokenTTLSeconds = 72 * 60 * 60
	csrfTokenBytes      = 32
)

type cookieConfig struct {
	name     string
	value    string
	maxAge   int
	httpOnly bool
}

func generateCSRFToken() (string, error) {
	token := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(token); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(token), nil
}

func (h *AuthHandler) setCookie(c *gin.Context, cfg cookieConfig) {
	secure := c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.name, cfg.value, cfg.maxAge, "/", "", secure, cfg.httpOnly)
}

// issueSession sets the auth token cookie plus the csrftoken cookie the
// editor echoes back in the X-CSRFToken header.
func (h *AuthHandler) issueSession(c *gin.Context, token string) error {
	h.setCookie(c, cookieConfig{
		name:     middleware.AuthCookieName,
		value:    token,
		maxAge:   authTokenTTLSeconds,
		httpOnly: true,
	})

	csrfToken, err := generateCSRFToken()
	if err != nil {
		return err
	}
	h.setCookie(c, cookieConfig{
		name:     middleware.CSRFCookieName,
		value:    csrfToken,
		maxAge:   authTokenTTLSeconds,
		httpOnly: false,
	})
	return nil
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.authService.Login(req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := h.issueSession(c, token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to establish session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, cookieConfig{name: middleware.AuthCookieName, maxAge: -1, httpOnly: true})
	h.setCookie(c, cookieConfig{name: middleware.CSRFCookieName, maxAge: -1})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetUint("user_id")
	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
