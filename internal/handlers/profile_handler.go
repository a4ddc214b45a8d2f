package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/models"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UploadProfilePicture replaces the authenticated user's avatar.
func (h *ProfileHandler) UploadProfilePicture(c *gin.Context) {
	userID := c.GetUint("user_id")

	file, err := c.FormFile("profile_picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile_picture file is required"})
		return
	}

	user, err := h.profileService.UpdateProfilePicture(userID, file)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profile_picture": user.ProfilePicture})
}

// UpdateProfile changes the username or the dark mode preference.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if req.DarkMode != nil {
		if err := h.profileService.SetDarkMode(userID, *req.DarkMode); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preference"})
			return
		}
	}

	if req.Username != "" {
		if _, err := h.profileService.UpdateUsername(userID, req.Username); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// EmailVerificationStatus is polled by the profile page while a
// verification email is pending.
func (h *ProfileHandler) EmailVerificationStatus(c *gin.Context) {
	userID := c.GetUint("user_id")

	verified, err := h.profileService.EmailVerified(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"email_verified": verified})
}
