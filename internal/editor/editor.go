// Package editor implements the course form-builder as an explicit
// in-memory tree: sections own content and quiz blocks, one section is
// active at a time, and the whole tree serializes into the indexed
// formset naming scheme the server consumes. The rendered document is a
// projection of this state, never the other way around.
package editor

import (
	"errors"
	"strings"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/formset"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/logger"
)

var (
	// ErrNoActiveSection is reported when a block operation runs without a
	// selected section.
	ErrNoActiveSection = errors.New("editor: please select a section first")
	// ErrSectionDeleted guards against activating a section that carries a
	// deletion marker.
	ErrSectionDeleted = errors.New("editor: section is marked for deletion")
)

// CourseDetails are the course-level form fields outside any section.
type CourseDetails struct {
	Title                   string
	Description             string
	Difficulty              string
	EstimatedCompletionTime int
}

// Editor owns the whole course-editing state: the ordered section list,
// the active-section pointer, the per-kind formset counters and the
// dirty/submitting flags that drive the navigation guard.
type Editor struct {
	Details CourseDetails

	counters *formset.Counters
	sections []*Section
	active   *Section

	dirty      bool
	submitting bool
}

// New returns an empty editor with all five formset counters at zero.
func New() *Editor {
	return &Editor{counters: formset.DefaultCounters()}
}

// Counters exposes the formset counters, mainly for tests and serialization.
func (e *Editor) Counters() *formset.Counters { return e.counters }

// Sections returns the non-deleted sections in order.
func (e *Editor) Sections() []*Section {
	live := make([]*Section, 0, len(e.sections))
	for _, section := range e.sections {
		if !section.Deleted() {
			live = append(live, section)
		}
	}
	return live
}

// Active returns the currently active section, or nil.
func (e *Editor) Active() *Section { return e.active }

// AddSection allocates the next section slot, appends a fresh section,
// activates it, renumbers, and seeds it with one text block and one quiz
// block so the non-empty invariants hold from the start.
func (e *Editor) AddSection() (*Section, error) {
	index, err := e.counters.Allocate(formset.PrefixSection)
	if err != nil {
		// Missing management counter degrades to a logged no-op.
		logger.Error(err, "Management form for section not found", nil)
		return nil, err
	}

	section := &Section{index: index}
	e.sections = append(e.sections, section)
	e.active = section
	e.renumberSections()
	e.markStructureChanged()

	if _, err := e.AddBlock(KindText); err != nil {
		return nil, err
	}
	if _, err := e.AddBlock(KindQuiz); err != nil {
		return nil, err
	}

	return section, nil
}

// SetActive switches the active section. Sections carrying a deletion
// marker can no longer be activated.
func (e *Editor) SetActive(section *Section) error {
	if section == nil {
		e.active = nil
		return nil
	}
	if section.Deleted() {
		return ErrSectionDeleted
	}
	e.active = section
	return nil
}

// RemoveActive marks the active section deleted, cascades the deletion
// marker to all of its content and quiz blocks, clears the active pointer
// and renumbers the remaining sections.
func (e *Editor) RemoveActive() {
	section := e.active
	if section == nil {
		return
	}

	if section.persistedID == 0 {
		section.lifecycle = LifecycleRemoved
	} else {
		section.lifecycle = LifecycleMarkedForDeletion
	}

	for _, block := range section.contents {
		e.deleteContent(block)
	}
	for _, quiz := range section.quizzes {
		e.deleteQuiz(quiz)
	}

	e.active = nil
	e.renumberSections()
	e.markStructureChanged()
}

// renumberSections assigns dense zero-based orders across the non-deleted
// sections in document order and refreshes the mirrored section orders of
// their child blocks.
func (e *Editor) renumberSections() {
	order := 0
	for _, section := range e.sections {
		if section.Deleted() {
			continue
		}
		section.Order = order
		for _, block := range section.contents {
			block.SectionOrder = order
		}
		for _, quiz := range section.quizzes {
			quiz.SectionOrder = order
		}
		order++
	}
}

// MarkFieldChanged records a user edit. Only non-empty values flip the
// dirty flag, mirroring the input listeners of the original editor.
func (e *Editor) MarkFieldChanged(value string) {
	if strings.TrimSpace(value) != "" {
		e.dirty = true
	}
}

// markStructureChanged flips the dirty flag for structural mutations.
func (e *Editor) markStructureChanged() { e.dirty = true }

// Dirty reports whether there are unsaved changes.
func (e *Editor) Dirty() bool { return e.dirty }

// UnloadGuardActive reports whether navigating away should be blocked:
// unsaved changes exist and no submission is underway.
func (e *Editor) UnloadGuardActive() bool {
	return e.dirty && !e.submitting
}

// BeginSubmit flags a submission as underway, releasing the unload guard.
func (e *Editor) BeginSubmit() { e.submitting = true }

// AbortSubmit restores the guard after a blocked or failed submission.
func (e *Editor) AbortSubmit() { e.submitting = false }
