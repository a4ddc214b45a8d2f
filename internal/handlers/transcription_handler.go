package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/service"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/logger"
)

type TranscriptionHandler struct {
	transcriptionService *service.TranscriptionService
}

func NewTranscriptionHandler(transcriptionService *service.TranscriptionService) *TranscriptionHandler {
	return &TranscriptionHandler{transcriptionService: transcriptionService}
}

// TranscribeVideo transcribes the posted video URL. The editor polls
// nothing; the request blocks until the transcript is ready or fails.
func (h *TranscriptionHandler) TranscribeVideo(c *gin.Context) {
	videoURL := strings.TrimSpace(c.PostForm("video_url"))
	if videoURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "video_url is required",
		})
		return
	}

	spans, err := h.transcriptionService.Transcribe(c.Request.Context(), videoURL)
	if err != nil {
		if errors.Is(err, service.ErrMissingVideoURL) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "video_url is required",
			})
			return
		}
		logger.Error(err, "Transcription failed", map[string]interface{}{
			"video_url": videoURL,
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Transcription failed. Please try again.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"transcription": spans,
	})
}
