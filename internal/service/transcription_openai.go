package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultWhisperEndpoint = "https://api.openai.com/v1/audio/transcriptions"

// WhisperOptions controls the OpenAI Whisper transcription provider.
type WhisperOptions struct {
	Model      string
	Language   string
	Endpoint   string
	HTTPClient *http.Client
	// ResolveAudio maps a video URL to a fetchable audio stream URL.
	// Defaults to the identity mapping for directly hosted media.
	ResolveAudio func(ctx context.Context, videoURL string) (string, error)
}

// WhisperProvider transcribes videos through the OpenAI Whisper API,
// streaming the audio into a multipart upload and asking for segment
// level timestamps.
type WhisperProvider struct {
	apiKey       string
	model        string
	language     string
	endpoint     string
	client       *http.Client
	resolveAudio func(ctx context.Context, videoURL string) (string, error)
}

func NewWhisperProvider(apiKey string, opts WhisperOptions) (*WhisperProvider, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errors.New("openai api key is required for transcription")
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "whisper-1"
	}

	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = defaultWhisperEndpoint
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}

	resolve := opts.ResolveAudio
	if resolve == nil {
		resolve = func(_ context.Context, videoURL string) (string, error) {
			return videoURL, nil
		}
	}

	return &WhisperProvider{
		apiKey:       trimmedKey,
		model:        model,
		language:     strings.TrimSpace(opts.Language),
		endpoint:     endpoint,
		client:       client,
		resolveAudio: resolve,
	}, nil
}

type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type whisperResponse struct {
	Segments []whisperSegment `json:"segments"`
}

func (p *WhisperProvider) Transcribe(ctx context.Context, videoURL string) ([]TranscriptSpan, error) {
	audioURL, err := p.resolveAudio(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("whisper: failed to resolve audio stream: %w", err)
	}

	audio, err := p.fetchAudio(ctx, audioURL)
	if err != nil {
		return nil, err
	}
	defer audio.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.mp3")
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("whisper: failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		writer.Close()
		return nil, fmt.Errorf("whisper: failed to stream audio: %w", err)
	}

	if err := writer.WriteField("model", p.model); err != nil {
		writer.Close()
		return nil, fmt.Errorf("whisper: failed to write model field: %w", err)
	}
	if err := writer.WriteField("response_format", "verbose_json"); err != nil {
		writer.Close()
		return nil, fmt.Errorf("whisper: failed to set response format: %w", err)
	}
	if err := writer.WriteField("timestamp_granularities[]", "segment"); err != nil {
		writer.Close()
		return nil, fmt.Errorf("whisper: failed to request segment timestamps: %w", err)
	}
	if p.language != "" {
		if err := writer.WriteField("language", p.language); err != nil {
			writer.Close()
			return nil, fmt.Errorf("whisper: failed to write language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("whisper: failed to finalize request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("whisper: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("whisper: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var parsed whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("whisper: failed to decode response: %w", err)
	}

	spans := make([]TranscriptSpan, 0, len(parsed.Segments))
	for _, segment := range parsed.Segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		spans = append(spans, TranscriptSpan{Start: segment.Start, End: segment.End, Text: text})
	}
	return spans, nil
}

func (p *WhisperProvider) fetchAudio(ctx context.Context, audioURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, fmt.Errorf("whisper: failed to build audio request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper: failed to fetch audio: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("whisper: audio fetch returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
