package service

import (
	"errors"
	"testing"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/models"
)

type fakeQuizRepo struct {
	quiz     *models.Quiz
	recorded []models.Answer
}

func (r *fakeQuizRepo) GetByID(id uint) (*models.Quiz, error) {
	if r.quiz == nil || r.quiz.ID != id {
		return nil, errors.New("not found")
	}
	return r.quiz, nil
}

func (r *fakeQuizRepo) RecordAnswer(answer *models.Answer) error {
	r.recorded = append(r.recorded, *answer)
	return nil
}

func (r *fakeQuizRepo) AnswersByUser(userID uint) ([]models.Answer, error) {
	return r.recorded, nil
}

func TestSubmitAnswerIgnoresCaseAndWhitespace(t *testing.T) {
	repo := &fakeQuizRepo{quiz: &models.Quiz{ID: 1, Question: "2+2?", CorrectAnswer: "Four"}}
	svc := NewQuizService(repo)

	check, err := svc.SubmitAnswer(5, 1, "  four ")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !check.IsCorrect {
		t.Fatal("expected answer to be accepted")
	}
	if check.CorrectAnswer != "" {
		t.Fatalf("CorrectAnswer should be withheld on success, got %q", check.CorrectAnswer)
	}
	if len(repo.recorded) != 1 || !repo.recorded[0].IsCorrect {
		t.Fatalf("unexpected recorded attempts: %+v", repo.recorded)
	}
}

func TestSubmitAnswerRevealsCorrectOnMiss(t *testing.T) {
	repo := &fakeQuizRepo{quiz: &models.Quiz{ID: 2, Question: "3*3?", CorrectAnswer: "9"}}
	svc := NewQuizService(repo)

	check, err := svc.SubmitAnswer(5, 2, "6")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if check.IsCorrect {
		t.Fatal("expected answer to be rejected")
	}
	if check.CorrectAnswer != "9" {
		t.Fatalf("CorrectAnswer = %q, want 9", check.CorrectAnswer)
	}
}

func TestSubmitAnswerUnknownQuiz(t *testing.T) {
	svc := NewQuizService(&fakeQuizRepo{})

	if _, err := svc.SubmitAnswer(5, 42, "x"); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("err = %v, want ErrQuizNotFound", err)
	}
}
