package editor

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/transcribe"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/timecode"
)

// TranscriptState is the per-video transcription request state.
type TranscriptState int

const (
	TranscriptIdle TranscriptState = iota
	TranscriptRequesting
	TranscriptSucceeded
	TranscriptFailed
	TranscriptCancelled
)

// TranscriptRow is one timestamped text segment as displayed: start and
// end are "h:mm:ss"/"m:ss" strings, parsed back to seconds at submit.
type TranscriptRow struct {
	Start string
	End   string
	Text  string
}

// serializedSegment is the wire shape written into the hidden
// transcription field before submit.
type serializedSegment struct {
	StartTime int    `json:"start_time"`
	EndTime   int    `json:"end_time"`
	Text      string `json:"text"`
}

// TranscriptEditor manages the ordered transcript rows of a single video
// block and at most one outstanding transcription request. Manual row
// editing is allowed in every state and never changes state.
type TranscriptEditor struct {
	state      TranscriptState
	rows       []TranscriptRow
	statusText string
	generation int
	cancel     context.CancelFunc
}

// NewTranscriptEditor starts in the Idle state with no rows.
func NewTranscriptEditor() *TranscriptEditor {
	return &TranscriptEditor{}
}

// State returns the current request state.
func (t *TranscriptEditor) State() TranscriptState { return t.state }

// StatusText is the message shown next to the busy/error indicator.
func (t *TranscriptEditor) StatusText() string { return t.statusText }

// Rows returns the transcript rows in order.
func (t *TranscriptEditor) Rows() []TranscriptRow { return t.rows }

// LoadSegments fills the rows from stored integer-second segments, used
// when hydrating a persisted video block.
func (t *TranscriptEditor) LoadSegments(segments []TranscriptSegment) {
	rows := make([]TranscriptRow, 0, len(segments))
	for _, segment := range segments {
		rows = append(rows, TranscriptRow{
			Start: timecode.Format(segment.StartTime),
			End:   timecode.Format(segment.EndTime),
			Text:  segment.Text,
		})
	}
	t.rows = rows
}

// AddRow appends an empty row for manual editing.
func (t *TranscriptEditor) AddRow() {
	t.rows = append(t.rows, TranscriptRow{})
}

// SetRow overwrites the row at the given position; out-of-range positions
// are ignored.
func (t *TranscriptEditor) SetRow(i int, row TranscriptRow) {
	if i < 0 || i >= len(t.rows) {
		return
	}
	t.rows[i] = row
}

// RemoveRow deletes the row at the given position; out-of-range positions
// are ignored.
func (t *TranscriptEditor) RemoveRow(i int) {
	if i < 0 || i >= len(t.rows) {
		return
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
}

// Request is a handle to one outstanding transcription attempt. Completing
// a stale handle (cancelled, or superseded by a newer request) is a no-op,
// which is how a late response is discarded without aborting anything.
type Request struct {
	editor     *TranscriptEditor
	generation int

	// Context carries the cancellation token. Implementations may pass it
	// to the HTTP client for a genuine abort; the editor itself only
	// discards the eventual result.
	Context context.Context
}

// Begin transitions to Requesting and returns the request handle. An empty
// video URL fails immediately without a state excursion through Requesting.
func (t *TranscriptEditor) Begin(videoURL string) (*Request, error) {
	if strings.TrimSpace(videoURL) == "" {
		t.state = TranscriptFailed
		t.statusText = "Please enter a video URL first."
		return nil, transcribe.ErrMissingVideoURL
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.generation++
	t.state = TranscriptRequesting
	t.statusText = "Transcribing..."
	t.cancel = cancel

	return &Request{editor: t, generation: t.generation, Context: ctx}, nil
}

// Cancel transitions to Cancelled. The in-flight request keeps running;
// its result is discarded on arrival.
func (t *TranscriptEditor) Cancel() {
	if t.state != TranscriptRequesting {
		return
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.state = TranscriptCancelled
	t.statusText = "Transcription cancelled."
}

// Succeed replaces every existing row with the formatted segments. Stale
// handles are ignored.
func (r *Request) Succeed(segments []transcribe.Segment) {
	t := r.editor
	if !r.current() {
		return
	}

	rows := make([]TranscriptRow, 0, len(segments))
	for _, segment := range segments {
		rows = append(rows, TranscriptRow{
			Start: timecode.Format(int(math.Floor(segment.Start))),
			End:   timecode.Format(int(math.Floor(segment.End))),
			Text:  segment.Text,
		})
	}

	t.rows = rows
	t.state = TranscriptSucceeded
	t.statusText = "Transcription complete."
	t.cancel = nil
}

// Fail records a terminal failure for this attempt. Stale handles are
// ignored.
func (r *Request) Fail(message string) {
	t := r.editor
	if !r.current() {
		return
	}
	if message == "" {
		message = "Transcription failed. Please try again."
	}
	t.state = TranscriptFailed
	t.statusText = message
	t.cancel = nil
}

func (r *Request) current() bool {
	return r.generation == r.editor.generation && r.editor.state == TranscriptRequesting
}

// Dismiss is the timed auto-dismiss of the status indicator: Succeeded and
// Failed return to Idle. Cancelled also settles back to Idle so a new
// request can start.
func (t *TranscriptEditor) Dismiss() {
	switch t.state {
	case TranscriptSucceeded, TranscriptFailed, TranscriptCancelled:
		t.state = TranscriptIdle
		t.statusText = ""
	}
}

// SerializeField renders the rows into the hidden transcription field: a
// JSON array of {start_time, end_time, text} objects covering every row
// with all three fields filled, or the JSON null literal when none are.
func (t *TranscriptEditor) SerializeField() string {
	segments := make([]serializedSegment, 0, len(t.rows))
	for _, row := range t.rows {
		if strings.TrimSpace(row.Start) == "" ||
			strings.TrimSpace(row.End) == "" ||
			strings.TrimSpace(row.Text) == "" {
			continue
		}
		start, err := timecode.Parse(row.Start)
		if err != nil {
			continue
		}
		end, err := timecode.Parse(row.End)
		if err != nil {
			continue
		}
		segments = append(segments, serializedSegment{
			StartTime: start,
			EndTime:   end,
			Text:      strings.TrimSpace(row.Text),
		})
	}

	if len(segments) == 0 {
		return "null"
	}

	encoded, err := json.Marshal(segments)
	if err != nil {
		return "null"
	}
	return string(encoded)
}
