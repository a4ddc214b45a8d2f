package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/models"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/service"
)

type QuizHandler struct {
	quizService *service.QuizService
}

func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// SubmitAnswer checks a learner's answer. Wrong answers get the correct
// one back so the course page can reveal it.
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	var req models.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload"})
		return
	}

	userID := c.GetUint("user_id")

	check, err := h.quizService.SubmitAnswer(userID, req.QuizID, req.Answer)
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Quiz not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to check answer"})
		return
	}

	response := gin.H{"success": true, "is_correct": check.IsCorrect}
	if !check.IsCorrect {
		response["correct_answer"] = check.CorrectAnswer
	}
	c.JSON(http.StatusOK, response)
}
