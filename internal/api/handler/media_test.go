package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iconidentify/vgrabba/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestMediaHandler_Info_Success(t *testing.T) {
	svc := &mockMediaService{
		info: &domain.VideoInfo{
			Title:     "Clip",
			Thumbnail: "https://i.ytimg.com/vi/x/hq.jpg",
			Duration:  "1m 5s",
			Author:    "Someone",
			Options: []domain.DownloadOption{
				{ID: "18", Label: "mp4 - 360p", Format: "mp4", Quality: "360p", SizeLabel: strPtr("1.00 MB")},
				{ID: "140", Label: "Audio only - medium", Format: "m4a", Quality: "medium"},
			},
		},
	}
	handler := NewMediaHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/info?url=https%3A%2F%2Fwww.youtube.com%2Fwatch%3Fv%3Dx", nil)
	w := httptest.NewRecorder()

	handler.Info(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if svc.lastURL != "https://www.youtube.com/watch?v=x" {
		t.Errorf("url = %q, want decoded query value", svc.lastURL)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	for _, key := range []string{"title", "thumbnail", "duration", "author", "options"} {
		if _, ok := body[key]; !ok {
			t.Errorf("response missing key %q", key)
		}
	}

	options := body["options"].([]interface{})
	if len(options) != 2 {
		t.Fatalf("options = %d, want 2", len(options))
	}
	second := options[1].(map[string]interface{})
	if v, ok := second["size"]; !ok || v != nil {
		t.Errorf("audio option size = %v, want explicit null", v)
	}
}

func TestMediaHandler_Info_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "invalid request",
			err:        mediaErr("resolve", domain.ErrInvalidRequest, "missing video URL"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "missing video URL",
		},
		{
			name:       "unavailable",
			err:        domain.NewMediaError("u", "resolve", domain.ErrUnavailable),
			wantStatus: http.StatusNotFound,
			wantMsg:    "video unavailable",
		},
		{
			name:       "extraction failure",
			err:        mediaErr("resolve", domain.ErrExtractionFailure, "Unsupported URL"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "error fetching video info: Unsupported URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewMediaHandler(&mockMediaService{err: tt.err}, testLogger())

			req := httptest.NewRequest(http.MethodGet, "/info", nil)
			w := httptest.NewRecorder()

			handler.Info(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			var resp map[string]string
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp["error"] != tt.wantMsg {
				t.Errorf("error = %q, want %q", resp["error"], tt.wantMsg)
			}
		})
	}
}

func TestMediaHandler_Download_Success(t *testing.T) {
	svc := &mockMediaService{
		artifact: &domain.Artifact{
			Filename:    "My Clip.mp4",
			ContentType: "video/mp4",
			Data:        []byte("0123456789"),
		},
	}
	handler := NewMediaHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/download?url=https://youtu.be/x&formatId=18", nil)
	w := httptest.NewRecorder()

	handler.Download(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if svc.lastFormat != "18" {
		t.Errorf("formatId = %q, want %q", svc.lastFormat, "18")
	}
	if ct := w.Header().Get("Content-Type"); ct != "video/mp4" {
		t.Errorf("Content-Type = %q, want video/mp4", ct)
	}
	if cl := w.Header().Get("Content-Length"); cl != "10" {
		t.Errorf("Content-Length = %q, want 10", cl)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, "attachment;") {
		t.Errorf("Content-Disposition = %q, want attachment", cd)
	}
	if !strings.Contains(cd, `filename="My Clip.mp4"`) {
		t.Errorf("Content-Disposition = %q, want filename", cd)
	}
	if w.Body.String() != "0123456789" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestMediaHandler_Download_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "missing params",
			err:        mediaErr("download", domain.ErrInvalidRequest, "missing parameters (url or formatId)"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "missing parameters (url or formatId)",
		},
		{
			name:       "unavailable",
			err:        domain.NewMediaError("u", "download", domain.ErrUnavailable),
			wantStatus: http.StatusNotFound,
			wantMsg:    "video unavailable",
		},
		{
			name:       "storage inconsistency",
			err:        mediaErr("download", domain.ErrStorageInconsistency, "stat /tmp/x: no such file"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "downloaded file not found",
		},
		{
			name:       "extraction failure",
			err:        mediaErr("download", domain.ErrExtractionFailure, "Requested format is not available"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "error during download: Requested format is not available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewMediaHandler(&mockMediaService{err: tt.err}, testLogger())

			req := httptest.NewRequest(http.MethodGet, "/download?url=x&formatId=y", nil)
			w := httptest.NewRecorder()

			handler.Download(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if cd := w.Header().Get("Content-Disposition"); cd != "" {
				t.Errorf("error response should not carry Content-Disposition, got %q", cd)
			}

			var resp map[string]string
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp["error"] != tt.wantMsg {
				t.Errorf("error = %q, want %q", resp["error"], tt.wantMsg)
			}
		})
	}
}
