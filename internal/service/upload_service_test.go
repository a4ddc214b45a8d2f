package service

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func multipartImage(t *testing.T, field, filename string) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte("fake image bytes")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	return req.MultipartForm.File[field][0]
}

func TestUploadImageStoresFile(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, 0)

	url, filename, err := svc.UploadImage(multipartImage(t, "image", "Diagram One.png"), "")
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") {
		t.Fatalf("url = %q, want /uploads/ prefix", url)
	}
	if filename != "diagram-one.png" {
		t.Fatalf("filename = %q, want diagram-one.png", filename)
	}
	if _, err := os.Stat(filepath.Join(dir, filename)); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
}

func TestUploadImageHonorsConfiguredMaxSize(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 4)

	if _, _, err := svc.UploadImage(multipartImage(t, "image", "big.png"), ""); err == nil {
		t.Fatal("expected size limit rejection")
	}
}

func TestUploadImageRejectsUnknownExtension(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 0)

	if _, _, err := svc.UploadImage(multipartImage(t, "image", "script.exe"), ""); err == nil {
		t.Fatal("expected extension rejection")
	}
}

func TestUploadImageAvoidsNameCollisions(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 0)

	_, first, err := svc.UploadImage(multipartImage(t, "image", "graph.png"), "")
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	_, second, err := svc.UploadImage(multipartImage(t, "image", "graph.png"), "")
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct filenames, both %q", first)
	}
}

func TestIsManagedURL(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 0)

	if !svc.IsManagedURL("/uploads/a.png") {
		t.Fatal("expected managed url")
	}
	if svc.IsManagedURL("https://cdn.example.com/a.png") {
		t.Fatal("external url must not be managed")
	}
	if svc.IsManagedURL("") {
		t.Fatal("empty url must not be managed")
	}
}
