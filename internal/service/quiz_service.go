package service

import (
	"errors"
	"strings"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/models"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/repository"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/logger"
)

var ErrQuizNotFound = errors.New("quiz not found")

// QuizService checks learner answers against the stored correct answer.
type QuizService struct {
	quizRepo repository.QuizRepository
}

func NewQuizService(quizRepo repository.QuizRepository) *QuizService {
	return &QuizService{quizRepo: quizRepo}
}

// AnswerCheck is the outcome of one submitted answer. CorrectAnswer is
// only populated when the submission was wrong.
type AnswerCheck struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
}

// SubmitAnswer compares the submission to the stored answer ignoring
// case and surrounding whitespace, and records the attempt.
func (s *QuizService) SubmitAnswer(userID, quizID uint, answer string) (*AnswerCheck, error) {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return nil, ErrQuizNotFound
	}

	submitted := strings.TrimSpace(answer)
	correct := strings.EqualFold(submitted, strings.TrimSpace(quiz.CorrectAnswer))

	record := &models.Answer{
		UserID:    userID,
		QuizID:    quiz.ID,
		Answer:    submitted,
		IsCorrect: correct,
	}
	if err := s.quizRepo.RecordAnswer(record); err != nil {
		logger.Error(err, "Failed to record quiz answer", map[string]interface{}{
			"quiz_id": quiz.ID,
			"user_id": userID,
		})
	}

	check := &AnswerCheck{IsCorrect: correct}
	if !correct {
		check.CorrectAnswer = quiz.CorrectAnswer
	}
	return check, nil
}
