package editor

import (
	"net/url"
	"strconv"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/formset"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/media"
)

// Action is the named submit control's value, mirrored into the form.
type Action string

const (
	ActionPublish      Action = "publish"
	ActionSaveDraft    Action = "save_draft"
	ActionDeleteCourse Action = "delete_course"
)

// EncodeSubmission validates (publish only), canonicalizes every video URL
// to its embed form, serializes transcript rows into their hidden fields
// and renders the whole tree as the indexed form payload the server's
// formsets expect. On success the unload guard is released; a validation
// failure leaves it armed.
func (e *Editor) EncodeSubmission(action Action) (url.Values, error) {
	// Draft saves skip completeness checks but still canonicalize URLs.
	e.canonicalizeVideoURLs()

	if action == ActionPublish {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}

	e.BeginSubmit()

	values := url.Values{}
	values.Set("action", string(action))
	values.Set("title", e.Details.Title)
	values.Set("description", e.Details.Description)
	values.Set("difficulty", e.Details.Difficulty)
	values.Set("estimated_completion_time", strconv.Itoa(e.Details.EstimatedCompletionTime))

	for _, prefix := range []string{
		formset.PrefixSection,
		formset.PrefixTextContent,
		formset.PrefixImageContent,
		formset.PrefixVideoContent,
		formset.PrefixQuiz,
	} {
		if err := formset.WriteManagement(values, prefix, e.counters); err != nil {
			e.AbortSubmit()
			return nil, err
		}
	}

	for _, section := range e.sections {
		formset.EncodeRow(values, formset.PrefixSection, formset.Row{
			Index:   section.index,
			Deleted: section.Deleted(),
			Fields: withID(section.persistedID, map[string]string{
				"title":       section.Title,
				"description": section.Description,
				"order":       strconv.Itoa(section.Order),
			}),
		})

		for _, block := range section.contents {
			formset.EncodeRow(values, formsetPrefix(block.kind), formset.Row{
				Index:   block.index,
				Deleted: block.Deleted(),
				Fields:  withID(block.persistedID, contentFields(block)),
			})
		}

		for _, quiz := range section.quizzes {
			formset.EncodeRow(values, formset.PrefixQuiz, formset.Row{
				Index:   quiz.index,
				Deleted: quiz.Deleted(),
				Fields: withID(quiz.persistedID, map[string]string{
					"question":       quiz.Question,
					"correct_answer": quiz.CorrectAnswer,
					"section_order":  strconv.Itoa(quiz.SectionOrder),
					"order":          strconv.Itoa(quiz.Order),
				}),
			})
		}
	}

	return values, nil
}

// canonicalizeVideoURLs rewrites every video block's URL to the embed
// form. Runs for publish and draft alike.
func (e *Editor) canonicalizeVideoURLs() {
	for _, section := range e.sections {
		for _, block := range section.contents {
			if block.kind == KindVideo && block.VideoURL != "" {
				block.VideoURL = media.CanonicalizeVideoURL(block.VideoURL)
			}
		}
	}
}

func contentFields(block *ContentBlock) map[string]string {
	fields := map[string]string{
		"section_order": strconv.Itoa(block.SectionOrder),
		"order":         strconv.Itoa(block.Order),
	}

	switch block.kind {
	case KindText:
		fields["text_content"] = block.Text
	case KindImage:
		// The image binary rides the multipart body natively; only the
		// textual fields appear here.
		fields["alt_text"] = block.AltText
	case KindVideo:
		fields["video_url"] = block.VideoURL
		if block.Transcript != nil {
			fields["transcription"] = block.Transcript.SerializeField()
		} else {
			fields["transcription"] = "null"
		}
	}

	return fields
}

func withID(persistedID uint, fields map[string]string) map[string]string {
	if persistedID != 0 {
		fields["id"] = strconv.FormatUint(uint64(persistedID), 10)
	}
	return fields
}
