package editor

import (
	"errors"
	"strconv"
	"testing"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/formset"
)

func TestAddSectionSeedsTextAndQuiz(t *testing.T) {
	e := New()

	section, err := e.AddSection()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if e.Active() != section {
		t.Fatalf("expected the new section to be active")
	}
	if len(e.Sections()) != 1 {
		t.Fatalf("expected 1 section, got %d", len(e.Sections()))
	}
	if section.Order != 0 {
		t.Fatalf("expected order 0, got %d", section.Order)
	}
	if section.DisplayTitle() != "Section 1" {
		t.Fatalf("unexpected display title %q", section.DisplayTitle())
	}

	contents := section.Contents()
	if len(contents) != 1 || contents[0].Kind() != KindText {
		t.Fatalf("expected exactly one seeded text block, got %#v", contents)
	}
	if len(section.Quizzes()) != 1 {
		t.Fatalf("expected exactly one seeded quiz block")
	}

	for prefix, want := range map[string]int{
		formset.PrefixSection:     1,
		formset.PrefixTextContent: 1,
		formset.PrefixQuiz:        1,
	} {
		total, _ := e.Counters().Total(prefix)
		if total != want {
			t.Fatalf("expected %s total %d, got %d", prefix, want, total)
		}
	}
}

func TestOrdersStayDenseAcrossAddAndRemove(t *testing.T) {
	e := New()

	for i := 0; i < 4; i++ {
		if _, err := e.AddSection(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Remove the second section, then add another.
	if err := e.SetActive(e.Sections()[1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.RemoveActive()
	if _, err := e.AddSection(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sections := e.Sections()
	if len(sections) != 4 {
		t.Fatalf("expected 4 live sections, got %d", len(sections))
	}
	for i, section := range sections {
		if section.Order != i {
			t.Fatalf("expected dense orders, section %d has order %d", i, section.Order)
		}
		if section.DisplayTitle() != "Section "+strconv.Itoa(i+1) {
			t.Fatalf("unexpected title %q at position %d", section.DisplayTitle(), i)
		}
	}
}

func TestIndicesAreNeverReused(t *testing.T) {
	e := New()
	seen := make(map[int]bool)

	for i := 0; i < 3; i++ {
		section, err := e.AddSection()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[section.Index()] {
			t.Fatalf("index %d allocated twice", section.Index())
		}
		seen[section.Index()] = true
		e.RemoveActive()
	}

	total, _ := e.Counters().Total(formset.PrefixSection)
	if total != 3 {
		t.Fatalf("expected monotonic total 3, got %d", total)
	}
}

func TestAddBlockRequiresActiveSection(t *testing.T) {
	e := New()

	if _, err := e.AddContent(KindText); !errors.Is(err, ErrNoActiveSection) {
		t.Fatalf("expected ErrNoActiveSection, got %v", err)
	}
}

func TestAddBlockOrderToleratesGaps(t *testing.T) {
	e := New()
	if _, err := e.AddSection(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Seeded text block holds order 0; add two more, delete the middle one.
	second, err := e.AddContent(KindImage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Order != 1 {
		t.Fatalf("expected order 1, got %d", second.Order)
	}
	second.AltText = "diagram"
	e.DeleteContent(second)

	third, err := e.AddContent(KindVideo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Deleted blocks keep occupying their order slot for allocation.
	if third.Order != 2 {
		t.Fatalf("expected order 2 (max+1 over all blocks), got %d", third.Order)
	}
}

func TestDeletedBlocksStayInTree(t *testing.T) {
	e := New()
	section, err := e.AddSection()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	block := section.Contents()[0]
	e.DeleteContent(block)

	if len(section.Contents()) != 0 {
		t.Fatalf("deleted block still listed as live")
	}
	if len(section.contents) != 1 {
		t.Fatalf("deleted block was structurally removed")
	}
}

func TestSetActiveRejectsDeletedSection(t *testing.T) {
	e := New()
	section, err := e.AddSection()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.RemoveActive()

	if err := e.SetActive(section); !errors.Is(err, ErrSectionDeleted) {
		t.Fatalf("expected ErrSectionDeleted, got %v", err)
	}
	if e.Active() != nil {
		t.Fatalf("active pointer must stay cleared")
	}
}

func TestRemoveActiveCascadesToChildren(t *testing.T) {
	e := New()
	section, err := e.AddSection()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.AddContent(KindVideo); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e.RemoveActive()

	for _, block := range section.contents {
		if !block.Deleted() {
			t.Fatalf("expected cascaded deletion of content blocks")
		}
	}
	for _, quiz := range section.quizzes {
		if !quiz.Deleted() {
			t.Fatalf("expected cascaded deletion of quiz blocks")
		}
	}
}

func TestDirtyTrackingAndUnloadGuard(t *testing.T) {
	e := New()

	e.MarkFieldChanged("   ")
	if e.Dirty() {
		t.Fatalf("whitespace-only edits must not set the dirty flag")
	}

	e.MarkFieldChanged("Pythagoras")
	if !e.UnloadGuardActive() {
		t.Fatalf("expected the unload guard to arm after an edit")
	}

	e.BeginSubmit()
	if e.UnloadGuardActive() {
		t.Fatalf("expected the guard to release once submission is underway")
	}

	e.AbortSubmit()
	if !e.UnloadGuardActive() {
		t.Fatalf("expected the guard to re-arm after an aborted submission")
	}
}

func TestHydrateRebuildsTree(t *testing.T) {
	e := New()

	err := e.Hydrate(CoursePayload{
		Title: "Algebra Basics",
		Sections: []SectionRecord{
			{ID: 11, Title: "Intro", Order: 0},
			{ID: 12, Title: "Equations", Order: 1},
		},
		TextContents: []TextContentRecord{
			{ID: 21, SectionOrder: 1, Order: 0, TextContent: "Solve for x."},
		},
		VideoContents: []VideoContentRecord{
			{
				ID: 22, SectionOrder: 0, Order: 0,
				VideoURL:      "https://www.youtube.com/embed/abcdefgh123",
				Transcription: []TranscriptSegment{{StartTime: 5, EndTime: 10, Text: "hi"}},
			},
		},
		Quizzes: []QuizRecord{
			{ID: 31, SectionOrder: 0, Order: 0, Question: "2+2?", CorrectAnswer: "4"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sections := e.Sections()
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if e.Active() != sections[0] {
		t.Fatalf("expected the order-0 section to be active after hydration")
	}
	if e.Dirty() {
		t.Fatalf("hydration must not mark the editor dirty")
	}

	video := sections[0].Contents()[0]
	if video.Kind() != KindVideo {
		t.Fatalf("expected a video block in section 1")
	}
	rows := video.Transcript.Rows()
	if len(rows) != 1 || rows[0].Start != "0:05" || rows[0].End != "0:10" || rows[0].Text != "hi" {
		t.Fatalf("unexpected hydrated transcript rows: %#v", rows)
	}

	if sections[1].Contents()[0].Text != "Solve for x." {
		t.Fatalf("text content not hydrated")
	}
	if sections[0].Quizzes()[0].CorrectAnswer != "4" {
		t.Fatalf("quiz not hydrated")
	}
}

func TestHydrateSkipsOrphanRecords(t *testing.T) {
	e := New()

	err := e.Hydrate(CoursePayload{
		Sections: []SectionRecord{{ID: 1, Order: 0}},
		Quizzes:  []QuizRecord{{ID: 2, SectionOrder: 7, Question: "?"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(e.Sections()[0].Quizzes()) != 0 {
		t.Fatalf("orphan quiz must be skipped, not attached")
	}
}
