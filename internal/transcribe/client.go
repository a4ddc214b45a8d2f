// Package transcribe is the client side of the video transcription
// endpoint: one fire-and-forget POST per user action, no retries.
package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpointPath is where the server exposes transcription.
const DefaultEndpointPath = "/courses/transcribe-video/"

// CSRF cookie and header names the server pairs on mutating requests.
const (
	CSRFCookieName = "csrftoken"
	CSRFHeaderName = "X-CSRFToken"
)

// Segment is one transcribed span in numeric seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// response mirrors the transcription endpoint's JSON body.
type response struct {
	Status        string    `json:"status"`
	Transcription []Segment `json:"transcription"`
	Message       string    `json:"message"`
}

var (
	// ErrMissingVideoURL is returned before any request is issued.
	ErrMissingVideoURL = errors.New("transcribe: video URL is required")
)

// RemoteError is a server-reported transcription failure; its message is
// shown to the user verbatim.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return "transcription failed"
	}
	return e.Message
}

// Client issues transcription requests against a course server, echoing
// the csrftoken cookie into the X-CSRFToken header.
type Client struct {
	baseURL   string
	csrfToken string
	http      *http.Client
}

// NewClient builds a client for the given server base URL. csrfToken is
// the value of the csrftoken cookie; it may be empty for test servers
// that do not enforce CSRF.
func NewClient(baseURL, csrfToken string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		csrfToken: csrfToken,
		http:      &http.Client{Timeout: 5 * time.Minute},
	}
}

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.http = client
	return c
}

// Transcribe posts the video URL and returns the ordered transcription
// segments. A non-success status or transport failure is terminal for
// this attempt; the caller re-triggers manually if desired.
func (c *Client) Transcribe(ctx context.Context, videoURL string) ([]Segment, error) {
	trimmed := strings.TrimSpace(videoURL)
	if trimmed == "" {
		return nil, ErrMissingVideoURL
	}

	form := url.Values{}
	form.Set("video_url", trimmed)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+DefaultEndpointPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("transcribe: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.csrfToken != "" {
		req.Header.Set(CSRFHeaderName, c.csrfToken)
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: c.csrfToken})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcribe: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("transcribe: read response: %w", err)
	}

	var parsed response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("transcribe: malformed response: %w", err)
	}

	if parsed.Status != "success" {
		return nil, &RemoteError{Message: parsed.Message}
	}

	return parsed.Transcription, nil
}
