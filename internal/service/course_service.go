package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/editor"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/formset"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/models"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/repository"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/cache"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/logger"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/media"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/utils"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/validator"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrInvalidAction    = errors.New("invalid submit action")
	ErrCourseIncomplete = errors.New("course is incomplete")
	ErrNotCourseOwner   = errors.New("course belongs to another content manager")
)

// CourseService persists course submissions arriving in the indexed
// formset encoding and renders the hydration payload for the edit page.
type CourseService struct {
	courseRepo repository.CourseRepository
	cache      *cache.Cache
}

func NewCourseService(courseRepo repository.CourseRepository, cache *cache.Cache) *CourseService {
	return &CourseService{courseRepo: courseRepo, cache: cache}
}

// SubmitResult reports what a submission did.
type SubmitResult struct {
	Course  *models.Course `json:"course,omitempty"`
	Deleted bool           `json:"deleted"`
}

// Submit handles one course form submission. slug is empty for the
// create page. The action field selects publish, save_draft or
// delete_course; publish re-runs the completeness checks server-side,
// trusting nothing the client validated.
func (s *CourseService) Submit(userID uint, slug string, form url.Values) (*SubmitResult, error) {
	action := editor.Action(form.Get("action"))

	var course *models.Course
	if slug != "" {
		existing, err := s.courseRepo.GetBySlug(slug)
		if err != nil {
			return nil, ErrCourseNotFound
		}
		if existing.CreatedByID != userID {
			return nil, ErrNotCourseOwner
		}
		course = existing
	}

	switch action {
	case editor.ActionDeleteCourse:
		if course == nil {
			return nil, ErrCourseNotFound
		}
		if err := s.courseRepo.Delete(course.ID); err != nil {
			return nil, err
		}
		s.invalidate(course.Slug)
		return &SubmitResult{Deleted: true}, nil
	case editor.ActionPublish, editor.ActionSaveDraft:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	if course == nil {
		course = &models.Course{CreatedByID: userID}
	}

	if err := s.applyCourseFields(course, form); err != nil {
		return nil, err
	}

	sections, deleted, err := s.decodeTree(course, form)
	if err != nil {
		return nil, err
	}
	course.Sections = sections

	if action == editor.ActionPublish {
		if err := validateTree(sections); err != nil {
			return nil, err
		}
		course.Status = models.CourseStatusPublished
	} else {
		course.Status = models.CourseStatusDraft
	}

	if err := s.courseRepo.SaveTree(course, deleted); err != nil {
		return nil, err
	}
	s.invalidate(course.Slug)

	return &SubmitResult{Course: course}, nil
}

// BuilderPayload renders the hydration payload the editor consumes on the
// edit page: course fields plus every section, typed content block and
// quiz keyed by its section's order.
func (s *CourseService) BuilderPayload(slug string) (*editor.CoursePayload, error) {
	course, err := s.courseRepo.GetBySlug(slug)
	if err != nil {
		return nil, ErrCourseNotFound
	}

	payload := &editor.CoursePayload{
		Title:                   course.Title,
		Description:             course.Description,
		Difficulty:              course.Difficulty,
		EstimatedCompletionTime: course.EstimatedCompletionTime,
	}

	for _, section := range course.Sections {
		payload.Sections = append(payload.Sections, editor.SectionRecord{
			ID:          section.ID,
			Title:       section.Title,
			Description: section.Description,
			Order:       section.Order,
		})

		for _, content := range section.Contents {
			switch content.ContentType {
			case models.ContentTypeText:
				payload.TextContents = append(payload.TextContents, editor.TextContentRecord{
					ID:           content.ID,
					SectionOrder: section.Order,
					Order:        content.Order,
					TextContent:  content.TextContent,
				})
			case models.ContentTypeImage:
				payload.ImageContents = append(payload.ImageContents, editor.ImageContentRecord{
					ID:           content.ID,
					SectionOrder: section.Order,
					Order:        content.Order,
					ImageURL:     content.Image,
					AltText:      content.AltText,
				})
			case models.ContentTypeVideo:
				record := editor.VideoContentRecord{
					ID:           content.ID,
					SectionOrder: section.Order,
					Order:        content.Order,
					VideoURL:     content.VideoURL,
				}
				for _, segment := range content.Transcription {
					record.Transcription = append(record.Transcription, editor.TranscriptSegment{
						StartTime: segment.StartTime,
						EndTime:   segment.EndTime,
						Text:      segment.Text,
					})
				}
				payload.VideoContents = append(payload.VideoContents, record)
			}
		}

		for _, quiz := range section.Quizzes {
			payload.Quizzes = append(payload.Quizzes, editor.QuizRecord{
				ID:            quiz.ID,
				SectionOrder:  section.Order,
				Order:         quiz.Order,
				Question:      quiz.Question,
				CorrectAnswer: quiz.CorrectAnswer,
			})
		}
	}

	return payload, nil
}

func (s *CourseService) applyCourseFields(course *models.Course, form url.Values) error {
	title := strings.TrimSpace(form.Get("title"))
	if title == "" {
		return fmt.Errorf("%w: course title is required", ErrCourseIncomplete)
	}

	course.Title = validator.SanitizeString(title)
	course.Description = validator.SanitizeString(strings.TrimSpace(form.Get("description")))

	difficulty := form.Get("difficulty")
	switch difficulty {
	case models.DifficultyJunior, models.DifficultyIntermediate, models.DifficultyAdvanced:
		course.Difficulty = difficulty
	default:
		return fmt.Errorf("%w: unknown difficulty %q", ErrCourseIncomplete, difficulty)
	}

	if raw := form.Get("estimated_completion_time"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 0 {
			return fmt.Errorf("%w: invalid estimated completion time", ErrCourseIncomplete)
		}
		course.EstimatedCompletionTime = minutes
	}

	if course.Slug == "" {
		course.Slug = utils.GenerateSlug(course.Title)
	}

	return nil
}

// decodeTree rebuilds the course tree from the five formset prefixes.
// Rows marked deleted contribute their persisted ids to the deletion set
// instead of the tree; never-persisted deleted rows vanish entirely.
func (s *CourseService) decodeTree(course *models.Course, form url.Values) ([]models.Section, repository.DeletedIDs, error) {
	var deleted repository.DeletedIDs

	sectionRows, err := formset.Decode(form, formset.PrefixSection)
	if err != nil {
		return nil, deleted, err
	}

	bySectionOrder := make(map[int]*models.Section)
	var sections []models.Section
	for _, row := range sectionRows {
		if row.Deleted {
			if id := rowID(row); id != 0 {
				deleted.Sections = append(deleted.Sections, id)
			}
			continue
		}
		order, _ := strconv.Atoi(row.Fields["order"])
		sections = append(sections, models.Section{
			ID:          rowID(row),
			Title:       validator.SanitizeString(row.Fields["title"]),
			Description: validator.SanitizeString(row.Fields["description"]),
			Order:       order,
		})
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })
	for i := range sections {
		bySectionOrder[sections[i].Order] = &sections[i]
	}

	contentPrefixes := map[string]string{
		formset.PrefixTextContent:  models.ContentTypeText,
		formset.PrefixImageContent: models.ContentTypeImage,
		formset.PrefixVideoContent: models.ContentTypeVideo,
	}
	for prefix, contentType := range contentPrefixes {
		rows, err := formset.Decode(form, prefix)
		if err != nil {
			if errors.Is(err, formset.ErrMissingManagement) {
				continue
			}
			return nil, deleted, err
		}
		for _, row := range rows {
			if row.Deleted {
				if id := rowID(row); id != 0 {
					deleted.Contents = append(deleted.Contents, id)
				}
				continue
			}
			content, err := decodeContent(contentType, row)
			if err != nil {
				return nil, deleted, err
			}
			section, ok := bySectionOrder[atoi(row.Fields["section_order"])]
			if !ok {
				logger.Warn("Content row references unknown section", map[string]interface{}{
					"prefix":        prefix,
					"section_order": row.Fields["section_order"],
				})
				continue
			}
			section.Contents = append(section.Contents, *content)
		}
	}

	quizRows, err := formset.Decode(form, formset.PrefixQuiz)
	if err != nil && !errors.Is(err, formset.ErrMissingManagement) {
		return nil, deleted, err
	}
	for _, row := range quizRows {
		if row.Deleted {
			if id := rowID(row); id != 0 {
				deleted.Quizzes = append(deleted.Quizzes, id)
			}
			continue
		}
		section, ok := bySectionOrder[atoi(row.Fields["section_order"])]
		if !ok {
			logger.Warn("Quiz row references unknown section", map[string]interface{}{
				"section_order": row.Fields["section_order"],
			})
			continue
		}
		section.Quizzes = append(section.Quizzes, models.Quiz{
			ID:            rowID(row),
			Order:         atoi(row.Fields["order"]),
			Question:      validator.SanitizeString(row.Fields["question"]),
			CorrectAnswer: strings.TrimSpace(row.Fields["correct_answer"]),
		})
	}

	return sections, deleted, nil
}

func decodeContent(contentType string, row formset.Row) (*models.Content, error) {
	content := &models.Content{
		ID:          rowID(row),
		ContentType: contentType,
		Order:       atoi(row.Fields["order"]),
	}

	switch contentType {
	case models.ContentTypeText:
		content.TextContent = validator.SanitizeHTML(row.Fields["text_content"])
	case models.ContentTypeImage:
		content.Image = strings.TrimSpace(row.Fields["image"])
		content.AltText = validator.SanitizeString(row.Fields["alt_text"])
	case models.ContentTypeVideo:
		content.VideoURL = media.CanonicalizeVideoURL(strings.TrimSpace(row.Fields["video_url"]))
		if raw := row.Fields["transcription"]; raw != "" && raw != "null" {
			var segments models.TranscriptSegments
			if err := json.Unmarshal([]byte(raw), &segments); err != nil {
				return nil, fmt.Errorf("%w: malformed transcription payload", ErrCourseIncomplete)
			}
			content.Transcription = segments
		}
	}

	return content, nil
}

// validateTree is the server-side publish gate: every section needs at
// least one content block and one quiz, videos need a transcript.
func validateTree(sections []models.Section) error {
	if len(sections) == 0 {
		return fmt.Errorf("%w: a published course needs at least one section", ErrCourseIncomplete)
	}

	for i, section := range sections {
		number := i + 1
		if len(section.Contents) == 0 {
			return fmt.Errorf("%w: Section %d must have at least one content block", ErrCourseIncomplete, number)
		}
		if len(section.Quizzes) == 0 {
			return fmt.Errorf("%w: Section %d must have at least one quiz", ErrCourseIncomplete, number)
		}
		for _, content := range section.Contents {
			if content.ContentType == models.ContentTypeVideo && len(content.Transcription) == 0 {
				return fmt.Errorf("%w: every video in Section %d needs a transcription", ErrCourseIncomplete, number)
			}
		}
		for _, quiz := range section.Quizzes {
			if strings.TrimSpace(quiz.Question) == "" || strings.TrimSpace(quiz.CorrectAnswer) == "" {
				return fmt.Errorf("%w: Section %d has an incomplete quiz", ErrCourseIncomplete, number)
			}
		}
	}

	return nil
}

func (s *CourseService) invalidate(slug string) {
	if s.cache == nil || slug == "" {
		return
	}
	if err := s.cache.Delete("course:" + slug); err != nil {
		logger.Warn("Failed to invalidate course cache", map[string]interface{}{"slug": slug})
	}
}

func rowID(row formset.Row) uint {
	id, err := strconv.ParseUint(row.Fields["id"], 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
