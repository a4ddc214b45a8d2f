package service

import (
	"errors"
	"mime/multipart"
	"strings"

	"gorm.io/gorm"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/models"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/repository"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/logger"
)

var ErrUserNotFound = errors.New("user not found")

// ProfileService manages the profile page concerns: picture uploads,
// the dark mode preference and email verification polling.
type ProfileService struct {
	userRepo repository.UserRepository
	uploads  *UploadService
}

func NewProfileService(userRepo repository.UserRepository, uploads *UploadService) *ProfileService {
	return &ProfileService{userRepo: userRepo, uploads: uploads}
}

// UpdateProfilePicture stores the uploaded image and swaps it in,
// removing the previous managed upload.
func (s *ProfileService) UpdateProfilePicture(userID uint, file *multipart.FileHeader) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if err := s.uploads.ValidateImage(file); err != nil {
		return nil, err
	}

	url, _, err := s.uploads.UploadImage(file, user.Username+"-avatar")
	if err != nil {
		return nil, err
	}

	previous := user.ProfilePicture
	user.ProfilePicture = url
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	if s.uploads.IsManagedURL(previous) {
		if err := s.uploads.DeleteImage(previous); err != nil {
			logger.Warn("Failed to remove previous profile picture", map[string]interface{}{
				"user_id": userID,
				"url":     previous,
			})
		}
	}

	return user, nil
}

func (s *ProfileService) SetDarkMode(userID uint, enabled bool) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return ErrUserNotFound
	}

	user.DarkMode = enabled
	return s.userRepo.Update(user)
}

func (s *ProfileService) UpdateUsername(userID uint, username string) (*models.User, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return nil, errors.New("username is required")
	}

	existing, err := s.userRepo.GetByUsername(trimmed)
	if err == nil && existing != nil && existing.ID != userID {
		return nil, errors.New("username is already taken")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user.Username = trimmed
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// EmailVerified reports the current verification flag; the profile page
// polls this while a verification email is unresolved.
func (s *ProfileService) EmailVerified(userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return false, ErrUserNotFound
	}
	return user.EmailVerified, nil
}
