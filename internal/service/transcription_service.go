package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/cache"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/logger"
	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/pkg/media"
)

var (
	ErrMissingVideoURL     = errors.New("video url is required")
	ErrTranscriptionFailed = errors.New("transcription failed")
)

// TranscriptSpan is one transcribed span in fractional seconds, the
// shape the transcription endpoint returns to the editor.
type TranscriptSpan struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranscriptionProvider produces a transcript for a video URL.
type TranscriptionProvider interface {
	Transcribe(ctx context.Context, videoURL string) ([]TranscriptSpan, error)
}

// TranscriptionService fronts a provider with a cache keyed by the
// canonical video URL, so re-transcribing the same video is free.
type TranscriptionService struct {
	provider TranscriptionProvider
	cache    *cache.Cache
	ttl      time.Duration
}

func NewTranscriptionService(provider TranscriptionProvider, cache *cache.Cache) *TranscriptionService {
	return &TranscriptionService{
		provider: provider,
		cache:    cache,
		ttl:      24 * time.Hour,
	}
}

func (s *TranscriptionService) Transcribe(ctx context.Context, videoURL string) ([]TranscriptSpan, error) {
	trimmed := strings.TrimSpace(videoURL)
	if trimmed == "" {
		return nil, ErrMissingVideoURL
	}
	if s.provider == nil {
		return nil, errors.New("transcription provider is not configured")
	}

	key := "transcription:" + media.CanonicalizeVideoURL(trimmed)

	if s.cache != nil {
		var cached []TranscriptSpan
		if err := s.cache.Get(key, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	spans, err := s.provider.Transcribe(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return nil, ErrTranscriptionFailed
	}

	if s.cache != nil {
		if err := s.cache.Set(key, spans, s.ttl); err != nil {
			logger.Warn("Failed to cache transcription", map[string]interface{}{
				"video_url": trimmed,
			})
		}
	}

	return spans, nil
}
