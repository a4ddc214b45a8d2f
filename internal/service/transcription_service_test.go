package service

import (
	"context"
	"errors"
	"testing"
)

type stubProvider struct {
	spans []TranscriptSpan
	err   error
	calls int
}

func (p *stubProvider) Transcribe(ctx context.Context, videoURL string) ([]TranscriptSpan, error) {
	p.calls++
	return p.spans, p.err
}

func TestTranscribeRequiresVideoURL(t *testing.T) {
	svc := NewTranscriptionService(&stubProvider{}, nil)

	if _, err := svc.Transcribe(context.Background(), "   "); !errors.Is(err, ErrMissingVideoURL) {
		t.Fatalf("err = %v, want ErrMissingVideoURL", err)
	}
}

func TestTranscribeReturnsProviderSpans(t *testing.T) {
	provider := &stubProvider{spans: []TranscriptSpan{
		{Start: 0, End: 4.5, Text: "hello"},
		{Start: 4.5, End: 9, Text: "world"},
	}}
	svc := NewTranscriptionService(provider, nil)

	spans, err := svc.Transcribe(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(spans) != 2 || spans[1].Text != "world" {
		t.Fatalf("unexpected spans: %+v", spans)
	}
	if provider.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.calls)
	}
}

func TestTranscribeEmptyResultIsFailure(t *testing.T) {
	svc := NewTranscriptionService(&stubProvider{}, nil)

	if _, err := svc.Transcribe(context.Background(), "https://youtu.be/dQw4w9WgXcQ"); !errors.Is(err, ErrTranscriptionFailed) {
		t.Fatalf("err = %v, want ErrTranscriptionFailed", err)
	}
}

func TestTranscribeWithoutProvider(t *testing.T) {
	svc := NewTranscriptionService(nil, nil)

	if _, err := svc.Transcribe(context.Background(), "https://youtu.be/dQw4w9WgXcQ"); err == nil {
		t.Fatal("expected error when no provider is configured")
	}
}
