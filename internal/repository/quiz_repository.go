package repository

import (
	"gorm.io/gorm"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/models"
)

type QuizRepository interface {
	GetByID(id uint) (*models.Quiz, error)
	RecordAnswer(answer *models.Answer) error
	AnswersByUser(userID uint) ([]models.Answer, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) GetByID(id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.First(&quiz, id).Error
	return &quiz, err
}

func (r *quizRepository) RecordAnswer(answer *models.Answer) error {
	return r.db.Create(answer).Error
}

func (r *quizRepository) AnswersByUser(userID uint) ([]models.Answer, error) {
	var answers []models.Answer
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&answers).Error
	return answers, err
}
