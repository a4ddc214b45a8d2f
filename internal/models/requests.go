package models

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SubmitAnswerRequest is the quiz answer check payload.
type SubmitAnswerRequest struct {
	QuizID uint   `json:"quiz_id" binding:"required"`
	Answer string `json:"answer"`
}

type UpdateProfileRequest struct {
	Username string `json:"username"`
	DarkMode *bool  `json:"dark_mode"`
}
