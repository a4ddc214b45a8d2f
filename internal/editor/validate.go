package editor

import (
	"fmt"
	"strings"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/formset"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/timecode"
)

// ValidationError is a blocking pre-publish failure. SectionNumber is the
// 1-based display number of the offending section (0 when no section
// applies) and Field names the submitted field to focus.
type ValidationError struct {
	SectionNumber int
	Field         string
	Message       string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate runs the publish gate over the whole tree, short-circuiting on
// the first failure. Deleted blocks are invisible to every check but stay
// in the tree for serialization.
func (e *Editor) Validate() error {
	sections := e.Sections()
	if len(sections) == 0 {
		return &ValidationError{Message: "You must add at least one section."}
	}

	for i, section := range sections {
		if len(section.Contents()) == 0 {
			return &ValidationError{
				SectionNumber: i + 1,
				Message:       fmt.Sprintf("Section %d must have at least one content (text, image, or video).", i+1),
			}
		}
	}

	for i, section := range sections {
		if err := contentFieldsFilled(section, i+1); err != nil {
			return err
		}
	}

	for i, section := range sections {
		if len(section.Quizzes()) == 0 {
			return &ValidationError{
				SectionNumber: i + 1,
				Message:       fmt.Sprintf("Section %d must have at least one quiz.", i+1),
			}
		}
	}

	for i, section := range sections {
		if err := quizFieldsFilled(section, i+1); err != nil {
			return err
		}
	}

	for i, section := range sections {
		if err := transcriptsWellFormed(section, i+1); err != nil {
			return err
		}
	}

	return nil
}

// contentFieldsFilled checks every visible field of every non-deleted
// content block. Hidden bookkeeping fields (ids, orders, deletion markers)
// are exempt.
func contentFieldsFilled(section *Section, number int) error {
	for _, block := range section.Contents() {
		for _, field := range requiredContentFields(block) {
			if strings.TrimSpace(field.value) == "" {
				return &ValidationError{
					SectionNumber: number,
					Field:         formset.FieldName(formsetPrefix(block.kind), block.index, field.name),
					Message:       fmt.Sprintf("Please fill in all content fields in Section %d.", number),
				}
			}
		}
	}
	return nil
}

type requiredField struct {
	name  string
	value string
}

func requiredContentFields(block *ContentBlock) []requiredField {
	switch block.kind {
	case KindText:
		return []requiredField{{"text_content", block.Text}}
	case KindImage:
		image := block.ImageFile
		if image == "" {
			image = block.ImageURL
		}
		return []requiredField{{"image", image}, {"alt_text", block.AltText}}
	case KindVideo:
		return []requiredField{{"video_url", block.VideoURL}}
	default:
		return nil
	}
}

func quizFieldsFilled(section *Section, number int) error {
	for _, quiz := range section.Quizzes() {
		fields := []requiredField{
			{"question", quiz.Question},
			{"correct_answer", quiz.CorrectAnswer},
		}
		for _, field := range fields {
			if strings.TrimSpace(field.value) == "" {
				return &ValidationError{
					SectionNumber: number,
					Field:         formset.FieldName(formset.PrefixQuiz, quiz.index, field.name),
					Message:       fmt.Sprintf("Please fill in all quiz fields in Section %d.", number),
				}
			}
		}
	}
	return nil
}

// transcriptsWellFormed requires every non-deleted video block to carry at
// least one row, with strictly formatted times and non-empty text.
func transcriptsWellFormed(section *Section, number int) error {
	for _, block := range section.Contents() {
		if block.kind != KindVideo || block.Transcript == nil {
			continue
		}

		rows := block.Transcript.Rows()
		if len(rows) == 0 {
			return &ValidationError{
				SectionNumber: number,
				Field:         formset.FieldName(formset.PrefixVideoContent, block.index, "transcription"),
				Message:       fmt.Sprintf("Every video in Section %d must have at least one transcription row.", number),
			}
		}

		for _, row := range rows {
			if !timecode.Valid(row.Start) || !timecode.Valid(row.End) || strings.TrimSpace(row.Text) == "" {
				return &ValidationError{
					SectionNumber: number,
					Field:         formset.FieldName(formset.PrefixVideoContent, block.index, "transcription"),
					Message:       fmt.Sprintf("Please complete all transcription rows in Section %d (times as hh:mm:ss or mm:ss).", number),
				}
			}
		}
	}
	return nil
}
