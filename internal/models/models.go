package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Course difficulty levels.
const (
	DifficultyJunior       = "junior"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advance"
)

// Course lifecycle statuses.
const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
)

// User roles.
const (
	RoleNormalUser     = "normal_user"
	RoleContentManager = "content_manager"
)

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"type:varchar(32);default:'normal_user'" json:"role"`

	EmailVerified  bool   `gorm:"default:false" json:"email_verified"`
	ProfilePicture string `json:"profile_picture"`
	DarkMode       bool   `gorm:"default:false" json:"dark_mode"`

	Courses []Course `gorm:"foreignKey:CreatedByID" json:"courses,omitempty"`
	Answers []Answer `gorm:"foreignKey:UserID" json:"answers,omitempty"`
}

type Course struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title                   string `gorm:"uniqueIndex;not null" json:"title"`
	Slug                    string `gorm:"uniqueIndex;not null" json:"slug"`
	Description             string `gorm:"type:text" json:"description"`
	Difficulty              string `gorm:"type:varchar(15);not null" json:"difficulty"`
	EstimatedCompletionTime int    `json:"estimated_completion_time"`
	Status                  string `gorm:"type:varchar(15);default:'draft'" json:"status"`

	CreatedByID uint `gorm:"not null" json:"created_by_id"`
	CreatedBy   User `gorm:"foreignKey:CreatedByID" json:"created_by"`

	Sections []Section `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
}

type Section struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CourseID    uint   `gorm:"not null;index" json:"course_id"`
	Title       string `json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Order       int    `gorm:"not null;default:0" json:"order"`

	Contents []Content `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"contents,omitempty"`
	Quizzes  []Quiz    `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"quizzes,omitempty"`
}

// Content block variants.
const (
	ContentTypeText  = "text"
	ContentTypeImage = "image"
	ContentTypeVideo = "video"
)

type Content struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	SectionID   uint   `gorm:"not null;index" json:"section_id"`
	ContentType string `gorm:"type:varchar(5);not null" json:"content_type"`
	Order       int    `gorm:"not null;default:0" json:"order"`

	TextContent string `gorm:"type:text" json:"text_content,omitempty"`

	Image   string `json:"image,omitempty"`
	AltText string `json:"alt_text,omitempty"`

	VideoURL      string             `json:"video_url,omitempty"`
	Transcription TranscriptSegments `gorm:"type:jsonb" json:"transcription,omitempty"`
}

type Quiz struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	SectionID uint   `gorm:"not null;index" json:"section_id"`
	Order     int    `gorm:"not null;default:0" json:"order"`
	Question  string `gorm:"type:text;not null" json:"question"`
	// CorrectAnswer is never serialized to normal users; the answer check
	// endpoint decides what to reveal.
	CorrectAnswer string `gorm:"type:text;not null" json:"-"`
}

type Answer struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID    uint   `gorm:"not null;index" json:"user_id"`
	QuizID    uint   `gorm:"not null;index" json:"quiz_id"`
	Answer    string `gorm:"type:text;not null" json:"answer"`
	IsCorrect bool   `json:"is_correct"`
}

// TranscriptSegment is one stored transcript span in integer seconds.
type TranscriptSegment struct {
	StartTime int    `json:"start_time"`
	EndTime   int    `json:"end_time"`
	Text      string `json:"text"`
}

// TranscriptSegments stores a video's whole transcript as one jsonb value.
type TranscriptSegments []TranscriptSegment

func (ts *TranscriptSegments) Scan(value interface{}) error {
	if value == nil {
		*ts = TranscriptSegments{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan TranscriptSegments")
	}

	return json.Unmarshal(bytes, ts)
}

func (ts TranscriptSegments) Value() (driver.Value, error) {
	if len(ts) == 0 {
		return nil, nil
	}
	return json.Marshal(ts)
}
