package editor

import (
	"strconv"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/formset"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/media"
)

// Lifecycle is the tri-state lifecycle of every block in the editor tree.
// Persisted blocks are never removed outright: the server must still
// receive their deletion marker, so they move to MarkedForDeletion and
// keep their allocated formset slot.
type Lifecycle int

const (
	// LifecycleActive blocks are visible, editable and validated.
	LifecycleActive Lifecycle = iota
	// LifecycleMarkedForDeletion blocks are hidden but still serialize,
	// carrying their deletion marker to the server.
	LifecycleMarkedForDeletion
	// LifecycleRemoved blocks never had a server identity and were undone
	// client-side. They keep their wire slot (counters are monotonic) but
	// serialize as deleted and are excluded from everything else.
	LifecycleRemoved
)

// ContentKind discriminates the content block variants.
type ContentKind string

const (
	KindText  ContentKind = "text"
	KindImage ContentKind = "image"
	KindVideo ContentKind = "video"
	KindQuiz  ContentKind = "quiz"
)

// formsetPrefix maps a block kind to its formset prefix.
func formsetPrefix(kind ContentKind) string {
	switch kind {
	case KindText:
		return formset.PrefixTextContent
	case KindImage:
		return formset.PrefixImageContent
	case KindVideo:
		return formset.PrefixVideoContent
	case KindQuiz:
		return formset.PrefixQuiz
	default:
		return ""
	}
}

// Section is a top-level ordered unit of the course. It owns its content
// and quiz blocks; ownership never changes after creation.
type Section struct {
	index       int
	persistedID uint
	lifecycle   Lifecycle

	Order       int
	Title       string
	Description string

	contents []*ContentBlock
	quizzes  []*QuizBlock
}

// Index returns the section's allocated formset slot.
func (s *Section) Index() int { return s.index }

// Deleted reports whether the section is marked for deletion or removed.
func (s *Section) Deleted() bool { return s.lifecycle != LifecycleActive }

// DisplayTitle is the visible "Section N" label, derived from order.
func (s *Section) DisplayTitle() string {
	return "Section " + strconv.Itoa(s.Order+1)
}

// Contents returns the section's non-deleted content blocks in order.
func (s *Section) Contents() []*ContentBlock {
	live := make([]*ContentBlock, 0, len(s.contents))
	for _, block := range s.contents {
		if !block.Deleted() {
			live = append(live, block)
		}
	}
	return live
}

// Quizzes returns the section's non-deleted quiz blocks in order.
func (s *Section) Quizzes() []*QuizBlock {
	live := make([]*QuizBlock, 0, len(s.quizzes))
	for _, quiz := range s.quizzes {
		if !quiz.Deleted() {
			live = append(live, quiz)
		}
	}
	return live
}

// ContentBlock is a text, image or video unit belonging to one section.
// SectionOrder mirrors the owning section's order into the submitted
// fields; it is a denormalized back-reference, not ownership.
type ContentBlock struct {
	kind        ContentKind
	index       int
	persistedID uint
	lifecycle   Lifecycle

	SectionOrder int
	Order        int

	// Text payload.
	Text string

	// Image payload. ImageFile is a local file selection not yet uploaded;
	// ImageURL is the preview source for already-persisted images.
	ImageFile string
	ImageURL  string
	AltText   string

	// Video payload.
	VideoURL   string
	Transcript *TranscriptEditor
}

// Kind returns the block's content variant.
func (b *ContentBlock) Kind() ContentKind { return b.kind }

// Index returns the block's allocated formset slot.
func (b *ContentBlock) Index() int { return b.index }

// Deleted reports whether the block is marked for deletion or removed.
func (b *ContentBlock) Deleted() bool { return b.lifecycle != LifecycleActive }

// EmbedPreviewURL derives the preview embed source from the video URL.
// Empty when the URL does not contain a recognisable video identifier.
func (b *ContentBlock) EmbedPreviewURL() string {
	id, ok := media.YouTubeID(b.VideoURL)
	if !ok {
		return ""
	}
	return media.EmbedURL(id)
}

// QuizBlock is one question and correct-answer pair belonging to a section.
type QuizBlock struct {
	index       int
	persistedID uint
	lifecycle   Lifecycle

	SectionOrder int
	Order        int

	Question      string
	CorrectAnswer string
}

// Index returns the quiz's allocated formset slot.
func (q *QuizBlock) Index() int { return q.index }

// Deleted reports whether the quiz is marked for deletion or removed.
func (q *QuizBlock) Deleted() bool { return q.lifecycle != LifecycleActive }
