package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Shadowress/Customizable-Mathematics-Learning-Website/internal/service"
)

type stubTranscriptionProvider struct {
	spans []service.TranscriptSpan
}

func (p *stubTranscriptionProvider) Transcribe(ctx context.Context, videoURL string) ([]service.TranscriptSpan, error) {
	return p.spans, nil
}

func transcriptionRouter(provider service.TranscriptionProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewTranscriptionHandler(service.NewTranscriptionService(provider, nil))
	router := gin.New()
	router.POST("/courses/transcribe-video/", handler.TranscribeVideo)
	return router
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTranscribeVideoSuccess(t *testing.T) {
	router := transcriptionRouter(&stubTranscriptionProvider{spans: []service.TranscriptSpan{
		{Start: 0, End: 5.2, Text: "hello"},
	}})

	form := url.Values{}
	form.Set("video_url", "https://youtu.be/dQw4w9WgXcQ")
	w := postForm(router, "/courses/transcribe-video/", form)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status        string `json:"status"`
		Transcription []struct {
			Start float64 `json:"start"`
			End   float64 `json:"end"`
			Text  string  `json:"text"`
		} `json:"transcription"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "success" {
		t.Fatalf("status = %q, want success", resp.Status)
	}
	if len(resp.Transcription) != 1 || resp.Transcription[0].Text != "hello" {
		t.Fatalf("unexpected transcription: %+v", resp.Transcription)
	}
}

func TestTranscribeVideoMissingURL(t *testing.T) {
	router := transcriptionRouter(&stubTranscriptionProvider{})

	w := postForm(router, "/courses/transcribe-video/", url.Values{})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "video_url is required") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestTranscribeVideoProviderFailure(t *testing.T) {
	router := transcriptionRouter(&stubTranscriptionProvider{spans: nil})

	form := url.Values{}
	form.Set("video_url", "https://youtu.be/dQw4w9WgXcQ")
	w := postForm(router, "/courses/transcribe-video/", form)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["status"] != "error" {
		t.Fatalf("status = %v, want error", resp["status"])
	}
}
