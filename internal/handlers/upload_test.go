package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/lecture-insights/internal/queue"
)

func newUploadApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	tempDir := t.TempDir()

	pool := queue.NewWorkerPool(0, nil, nil, nil, nil, nil, nil, queue.AnalysisOptions{})
	handler := NewUploadHandler(pool, tempDir, 10)

	app := fiber.New()
	app.Post("/upload", handler.Handle)
	return app, tempDir
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	writer.Close()

	return &buf, writer.FormDataContentType()
}

func TestUploadRejectsMissingFile(t *testing.T) {
	app, _ := newUploadApp(t)

	req := httptest.NewRequest("POST", "/upload", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUploadRejectsUnsupportedFormat(t *testing.T) {
	app, _ := newUploadApp(t)

	body, contentType := multipartBody(t, "slides.pdf", []byte("%PDF"))
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var payload map[string]string
	data, _ := io.ReadAll(resp.Body)
	json.Unmarshal(data, &payload)
	if payload["code"] != "ERR_INVALID_FORMAT" {
		t.Errorf("code = %s, want ERR_INVALID_FORMAT", payload["code"])
	}
}

func TestUploadAcceptsVideo(t *testing.T) {
	app, tempDir := newUploadApp(t)

	body, contentType := multipartBody(t, "lecture.mp4", []byte("fake video data"))
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var payload map[string]string
	data, _ := io.ReadAll(resp.Body)
	json.Unmarshal(data, &payload)
	if payload["job_id"] == "" {
		t.Error("response missing job_id")
	}

	// The upload landed in the temp dir under the job ID
	saved := filepath.Join(tempDir, payload["job_id"]+".mp4")
	if _, err := os.Stat(saved); err != nil {
		t.Errorf("uploaded file not saved: %v", err)
	}
}
