package editor

import (
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/formset"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/logger"
)

// Record types mirror the hydration payload the server renders for the
// edit page. The same shapes are produced by the course builder endpoint.

type SectionRecord struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type TextContentRecord struct {
	ID           uint   `json:"id"`
	SectionOrder int    `json:"section_order"`
	Order        int    `json:"order"`
	TextContent  string `json:"text_content"`
}

type ImageContentRecord struct {
	ID           uint   `json:"id"`
	SectionOrder int    `json:"section_order"`
	Order        int    `json:"order"`
	ImageURL     string `json:"image_url"`
	AltText      string `json:"alt_text"`
}

type VideoContentRecord struct {
	ID            uint                `json:"id"`
	SectionOrder  int                 `json:"section_order"`
	Order         int                 `json:"order"`
	VideoURL      string              `json:"video_url"`
	Transcription []TranscriptSegment `json:"transcription"`
}

// TranscriptSegment is a stored transcript span in integer seconds.
type TranscriptSegment struct {
	StartTime int    `json:"start_time"`
	EndTime   int    `json:"end_time"`
	Text      string `json:"text"`
}

type QuizRecord struct {
	ID            uint   `json:"id"`
	SectionOrder  int    `json:"section_order"`
	Order         int    `json:"order"`
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
}

// CoursePayload is everything the edit page needs to rebuild the editor
// tree from persisted data.
type CoursePayload struct {
	Title                   string               `json:"title"`
	Description             string               `json:"description"`
	Difficulty              string               `json:"difficulty"`
	EstimatedCompletionTime int                  `json:"estimated_completion_time"`
	Sections                []SectionRecord      `json:"existing_sections"`
	TextContents            []TextContentRecord  `json:"existing_text_contents"`
	ImageContents           []ImageContentRecord `json:"existing_image_contents"`
	VideoContents           []VideoContentRecord `json:"existing_video_contents"`
	Quizzes                 []QuizRecord         `json:"existing_quizzes"`
}

// Hydrate rebuilds the editor tree from persisted records: one fresh slot
// per record, populated in place, with the section of order zero left
// active. Records referencing an unknown section order are skipped with a
// warning rather than failing the whole page.
func (e *Editor) Hydrate(payload CoursePayload) error {
	e.Details = CourseDetails{
		Title:                   payload.Title,
		Description:             payload.Description,
		Difficulty:              payload.Difficulty,
		EstimatedCompletionTime: payload.EstimatedCompletionTime,
	}

	for _, record := range payload.Sections {
		index, err := e.counters.Allocate(formset.PrefixSection)
		if err != nil {
			return err
		}
		e.counters.MarkInitial(formset.PrefixSection)

		section := &Section{
			index:       index,
			persistedID: record.ID,
			Order:       record.Order,
			Title:       record.Title,
			Description: record.Description,
		}
		e.sections = append(e.sections, section)
	}

	for _, record := range payload.TextContents {
		section := e.sectionByOrder(record.SectionOrder)
		if section == nil {
			logger.Warn("No section found for content", map[string]interface{}{"section_order": record.SectionOrder})
			continue
		}
		index, err := e.counters.Allocate(formset.PrefixTextContent)
		if err != nil {
			return err
		}
		e.counters.MarkInitial(formset.PrefixTextContent)

		section.contents = append(section.contents, &ContentBlock{
			kind:         KindText,
			index:        index,
			persistedID:  record.ID,
			SectionOrder: record.SectionOrder,
			Order:        record.Order,
			Text:         record.TextContent,
		})
	}

	for _, record := range payload.ImageContents {
		section := e.sectionByOrder(record.SectionOrder)
		if section == nil {
			logger.Warn("No section found for content", map[string]interface{}{"section_order": record.SectionOrder})
			continue
		}
		index, err := e.counters.Allocate(formset.PrefixImageContent)
		if err != nil {
			return err
		}
		e.counters.MarkInitial(formset.PrefixImageContent)

		section.contents = append(section.contents, &ContentBlock{
			kind:         KindImage,
			index:        index,
			persistedID:  record.ID,
			SectionOrder: record.SectionOrder,
			Order:        record.Order,
			ImageURL:     record.ImageURL,
			AltText:      record.AltText,
		})
	}

	for _, record := range payload.VideoContents {
		section := e.sectionByOrder(record.SectionOrder)
		if section == nil {
			logger.Warn("No section found for content", map[string]interface{}{"section_order": record.SectionOrder})
			continue
		}
		index, err := e.counters.Allocate(formset.PrefixVideoContent)
		if err != nil {
			return err
		}
		e.counters.MarkInitial(formset.PrefixVideoContent)

		block := &ContentBlock{
			kind:         KindVideo,
			index:        index,
			persistedID:  record.ID,
			SectionOrder: record.SectionOrder,
			Order:        record.Order,
			VideoURL:     record.VideoURL,
			Transcript:   NewTranscriptEditor(),
		}
		block.Transcript.LoadSegments(record.Transcription)
		section.contents = append(section.contents, block)
	}

	for _, record := range payload.Quizzes {
		section := e.sectionByOrder(record.SectionOrder)
		if section == nil {
			logger.Warn("No section found for quiz", map[string]interface{}{"section_order": record.SectionOrder})
			continue
		}
		index, err := e.counters.Allocate(formset.PrefixQuiz)
		if err != nil {
			return err
		}
		e.counters.MarkInitial(formset.PrefixQuiz)

		section.quizzes = append(section.quizzes, &QuizBlock{
			index:         index,
			persistedID:   record.ID,
			SectionOrder:  record.SectionOrder,
			Order:         record.Order,
			Question:      record.Question,
			CorrectAnswer: record.CorrectAnswer,
		})
	}

	if first := e.sectionByOrder(0); first != nil {
		e.active = first
	}

	// Hydration reflects saved state; the tree starts clean.
	e.dirty = false
	return nil
}

func (e *Editor) sectionByOrder(order int) *Section {
	for _, section := range e.sections {
		if !section.Deleted() && section.Order == order {
			return section
		}
	}
	return nil
}
