package transcribe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTranscribeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != DefaultEndpointPath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostFormValue("video_url"); got != "https://youtu.be/XXXXXXXXXXX" {
			t.Errorf("unexpected video_url %q", got)
		}
		if got := r.Header.Get(CSRFHeaderName); got != "tok123" {
			t.Errorf("expected CSRF header echo, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","transcription":[{"start":5,"end":10,"text":"hi"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok123")
	segments, err := client.Transcribe(context.Background(), "https://youtu.be/XXXXXXXXXXX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segments) != 1 || segments[0].Start != 5 || segments[0].End != 10 || segments[0].Text != "hi" {
		t.Fatalf("unexpected segments %#v", segments)
	}
}

func TestTranscribeServerReportedFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"error","message":"could not download audio"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.Transcribe(context.Background(), "https://youtu.be/XXXXXXXXXXX")

	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected a RemoteError, got %v", err)
	}
	if remote.Message != "could not download audio" {
		t.Fatalf("unexpected message %q", remote.Message)
	}
}

func TestTranscribeRequiresURL(t *testing.T) {
	client := NewClient("http://localhost:0", "")
	if _, err := client.Transcribe(context.Background(), "  "); !errors.Is(err, ErrMissingVideoURL) {
		t.Fatalf("expected ErrMissingVideoURL, got %v", err)
	}
}
