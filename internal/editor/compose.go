package editor

import (
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/logger"
)

// AddBlock creates a block of the given kind inside the active section.
// Text, image and video blocks go into the content container; quiz blocks
// into the quiz container. The new block's order is one past the highest
// order already present in that container, tolerating gaps left by prior
// deletions.
func (e *Editor) AddBlock(kind ContentKind) (interface{}, error) {
	if e.active == nil {
		return nil, ErrNoActiveSection
	}

	prefix := formsetPrefix(kind)
	if prefix == "" {
		return nil, nil
	}

	index, err := e.counters.Allocate(prefix)
	if err != nil {
		logger.Error(err, "Management form not found", map[string]interface{}{"prefix": prefix})
		return nil, err
	}

	if kind == KindQuiz {
		quiz := &QuizBlock{
			index:        index,
			SectionOrder: e.active.Order,
			Order:        e.nextQuizOrder(e.active),
		}
		e.active.quizzes = append(e.active.quizzes, quiz)
		e.markStructureChanged()
		return quiz, nil
	}

	block := &ContentBlock{
		kind:         kind,
		index:        index,
		SectionOrder: e.active.Order,
		Order:        e.nextContentOrder(e.active),
	}
	if kind == KindVideo {
		block.Transcript = NewTranscriptEditor()
	}
	e.active.contents = append(e.active.contents, block)
	e.markStructureChanged()
	return block, nil
}

// AddContent is AddBlock narrowed to the content variants.
func (e *Editor) AddContent(kind ContentKind) (*ContentBlock, error) {
	created, err := e.AddBlock(kind)
	if err != nil {
		return nil, err
	}
	block, _ := created.(*ContentBlock)
	return block, nil
}

// AddQuiz is AddBlock narrowed to quiz blocks.
func (e *Editor) AddQuiz() (*QuizBlock, error) {
	created, err := e.AddBlock(KindQuiz)
	if err != nil {
		return nil, err
	}
	quiz, _ := created.(*QuizBlock)
	return quiz, nil
}

// nextContentOrder computes max(existing orders)+1 over every content
// block in the section, deleted ones included, so a slot is never reused.
func (e *Editor) nextContentOrder(section *Section) int {
	max := -1
	for _, block := range section.contents {
		if block.Order > max {
			max = block.Order
		}
	}
	return max + 1
}

func (e *Editor) nextQuizOrder(section *Section) int {
	max := -1
	for _, quiz := range section.quizzes {
		if quiz.Order > max {
			max = quiz.Order
		}
	}
	return max + 1
}

// DeleteContent marks a content block deleted and renumbers the remaining
// content blocks of its section. Blocks are never structurally removed:
// the server still needs their deletion marker.
func (e *Editor) DeleteContent(block *ContentBlock) {
	if block == nil {
		return
	}
	e.deleteContent(block)
	if section := e.owningSection(func(s *Section) bool {
		for _, b := range s.contents {
			if b == block {
				return true
			}
		}
		return false
	}); section != nil {
		renumberContents(section)
	}
	e.markStructureChanged()
}

// DeleteQuiz marks a quiz block deleted and renumbers the remaining quiz
// blocks of its section.
func (e *Editor) DeleteQuiz(quiz *QuizBlock) {
	if quiz == nil {
		return
	}
	e.deleteQuiz(quiz)
	if section := e.owningSection(func(s *Section) bool {
		for _, q := range s.quizzes {
			if q == quiz {
				return true
			}
		}
		return false
	}); section != nil {
		renumberQuizzes(section)
	}
	e.markStructureChanged()
}

func (e *Editor) deleteContent(block *ContentBlock) {
	if block.lifecycle != LifecycleActive {
		return
	}
	if block.persistedID == 0 {
		block.lifecycle = LifecycleRemoved
	} else {
		block.lifecycle = LifecycleMarkedForDeletion
	}
}

func (e *Editor) deleteQuiz(quiz *QuizBlock) {
	if quiz.lifecycle != LifecycleActive {
		return
	}
	if quiz.persistedID == 0 {
		quiz.lifecycle = LifecycleRemoved
	} else {
		quiz.lifecycle = LifecycleMarkedForDeletion
	}
}

func (e *Editor) owningSection(contains func(*Section) bool) *Section {
	for _, section := range e.sections {
		if contains(section) {
			return section
		}
	}
	return nil
}

func renumberContents(section *Section) {
	order := 0
	for _, block := range section.contents {
		if block.Deleted() {
			continue
		}
		block.Order = order
		order++
	}
}

func renumberQuizzes(section *Section) {
	order := 0
	for _, quiz := range section.quizzes {
		if quiz.Deleted() {
			continue
		}
		quiz.Order = order
		order++
	}
}
