package editor

import (
	"errors"
	"testing"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/transcribe"
)

func TestTranscriptRequestSuccess(t *testing.T) {
	editor := NewTranscriptEditor()
	editor.AddRow()
	editor.SetRow(0, TranscriptRow{Start: "0:01", End: "0:02", Text: "old"})

	req, err := editor.Begin("https://youtu.be/XXXXXXXXXXX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if editor.State() != TranscriptRequesting {
		t.Fatalf("expected Requesting state")
	}

	req.Succeed([]transcribe.Segment{{Start: 5, End: 10, Text: "hi"}})

	if editor.State() != TranscriptSucceeded {
		t.Fatalf("expected Succeeded state")
	}
	rows := editor.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected existing rows to be replaced, got %d rows", len(rows))
	}
	if rows[0].Start != "0:05" || rows[0].End != "0:10" || rows[0].Text != "hi" {
		t.Fatalf("unexpected row %#v", rows[0])
	}

	editor.Dismiss()
	if editor.State() != TranscriptIdle {
		t.Fatalf("expected auto-dismiss back to Idle")
	}
}

func TestTranscriptRequestEmptyURLFailsImmediately(t *testing.T) {
	editor := NewTranscriptEditor()

	_, err := editor.Begin("   ")
	if !errors.Is(err, transcribe.ErrMissingVideoURL) {
		t.Fatalf("expected ErrMissingVideoURL, got %v", err)
	}
	if editor.State() != TranscriptFailed {
		t.Fatalf("expected immediate Failed state")
	}
}

func TestTranscriptCancelDiscardsLateResponse(t *testing.T) {
	editor := NewTranscriptEditor()
	editor.AddRow()
	editor.SetRow(0, TranscriptRow{Start: "0:01", End: "0:02", Text: "keep me"})

	req, err := editor.Begin("https://youtu.be/XXXXXXXXXXX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	editor.Cancel()

	if editor.State() != TranscriptCancelled {
		t.Fatalf("expected Cancelled state")
	}
	select {
	case <-req.Context.Done():
	default:
		t.Fatalf("expected the cancellation token to fire")
	}

	// The late response arrives after cancellation and must change nothing.
	req.Succeed([]transcribe.Segment{{Start: 0, End: 1, Text: "late"}})
	if editor.State() != TranscriptCancelled {
		t.Fatalf("late response must not change state")
	}
	if editor.Rows()[0].Text != "keep me" {
		t.Fatalf("late response must not replace rows")
	}
}

func TestTranscriptSupersededRequestIsStale(t *testing.T) {
	editor := NewTranscriptEditor()

	first, err := editor.Begin("https://youtu.be/XXXXXXXXXXX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	editor.Cancel()
	editor.Dismiss()

	second, err := editor.Begin("https://youtu.be/YYYYYYYYYYY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first.Fail("stale failure")
	if editor.State() != TranscriptRequesting {
		t.Fatalf("stale failure must not disturb the active request")
	}

	second.Fail("server exploded")
	if editor.State() != TranscriptFailed || editor.StatusText() != "server exploded" {
		t.Fatalf("expected the active request's failure to land, got %v %q", editor.State(), editor.StatusText())
	}
}

func TestManualRowEditingNeverChangesState(t *testing.T) {
	editor := NewTranscriptEditor()

	if _, err := editor.Begin("https://youtu.be/XXXXXXXXXXX"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	editor.AddRow()
	editor.RemoveRow(0)

	if editor.State() != TranscriptRequesting {
		t.Fatalf("manual row edits must not change state")
	}
}

func TestSerializeFieldProducesSecondsJSON(t *testing.T) {
	editor := NewTranscriptEditor()
	editor.AddRow()
	editor.AddRow()
	editor.AddRow()
	editor.SetRow(0, TranscriptRow{Start: "1:02:03", End: "1:02:10", Text: "alpha"})
	editor.SetRow(1, TranscriptRow{Start: "0:05", End: "", Text: "incomplete"})
	editor.SetRow(2, TranscriptRow{Start: "2:05", End: "2:30", Text: " beta "})

	got := editor.SerializeField()
	want := `[{"start_time":3723,"end_time":3730,"text":"alpha"},{"start_time":125,"end_time":150,"text":"beta"}]`
	if got != want {
		t.Fatalf("unexpected serialization:\n got %s\nwant %s", got, want)
	}
}

func TestSerializeFieldEmptyIsNull(t *testing.T) {
	editor := NewTranscriptEditor()
	editor.AddRow()
	if got := editor.SerializeField(); got != "null" {
		t.Fatalf("expected null for no complete rows, got %s", got)
	}
}
