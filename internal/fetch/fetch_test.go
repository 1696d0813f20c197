package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/scorefinder/internal/shared"
)

func TestDownloader(t *testing.T) {
	t.Run("Fetch", func(t *testing.T) {
		t.Run("buffers body and infers filename from URL", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/xml")
				w.Write([]byte("<score-partwise/>"))
			}))
			defer server.Close()

			d := NewDownloader(nil)
			dl, err := d.Fetch(context.Background(), server.URL+"/scores/song.musicxml")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if string(dl.Body) != "<score-partwise/>" {
				t.Errorf("unexpected body %q", dl.Body)
			}
			if dl.Filename != "song.musicxml" {
				t.Errorf("expected filename song.musicxml, got %s", dl.Filename)
			}
			if dl.IsHTML() {
				t.Error("xml payload should not be detected as HTML")
			}
		})

		t.Run("prefers Content-Disposition filename", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Disposition", `attachment; filename="drums.mid"`)
				w.Write([]byte{0x4D, 0x54, 0x68, 0x64})
			}))
			defer server.Close()

			d := NewDownloader(nil)
			dl, err := d.Fetch(context.Background(), server.URL+"/download?id=42")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if dl.Filename != "drums.mid" {
				t.Errorf("expected filename drums.mid, got %s", dl.Filename)
			}
		})

		t.Run("generates a default filename", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("data"))
			}))
			defer server.Close()

			d := NewDownloader(nil)
			dl, err := d.Fetch(context.Background(), server.URL+"/")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.HasPrefix(dl.Filename, "download_") {
				t.Errorf("expected generated filename, got %s", dl.Filename)
			}
		})

		t.Run("non-2xx status is a download failure", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			d := NewDownloader(nil)
			_, err := d.Fetch(context.Background(), server.URL+"/missing.mid")
			if !errors.Is(err, shared.ErrDownloadFailed) {
				t.Errorf("expected ErrDownloadFailed, got %v", err)
			}
		})

		t.Run("connection errors are download failures", func(t *testing.T) {
			d := NewDownloader(nil)
			_, err := d.Fetch(context.Background(), "http://127.0.0.1:1/unreachable")
			if !errors.Is(err, shared.ErrDownloadFailed) {
				t.Errorf("expected ErrDownloadFailed, got %v", err)
			}
		})
	})

	t.Run("IsHTML", func(t *testing.T) {
		t.Run("by content type", func(t *testing.T) {
			dl := &Download{ContentType: "text/html; charset=utf-8", Body: []byte("x")}
			if !dl.IsHTML() {
				t.Error("expected HTML detection from content type")
			}
		})

		t.Run("by sniffing", func(t *testing.T) {
			dl := &Download{Body: []byte("<!DOCTYPE html><html><head></head></html>")}
			if !dl.IsHTML() {
				t.Error("expected HTML detection from body")
			}
		})

		t.Run("binary payload", func(t *testing.T) {
			dl := &Download{ContentType: "application/octet-stream", Body: []byte{0x4D, 0x54, 0x68, 0x64}}
			if dl.IsHTML() {
				t.Error("midi payload misdetected as HTML")
			}
		})
	})
}
