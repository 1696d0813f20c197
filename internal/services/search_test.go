package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/scorefinder/internal/models"
	"github.com/desertthunder/scorefinder/internal/shared"
)

func TestSearchService(t *testing.T) {
	t.Run("NewSearchService", func(t *testing.T) {
		t.Run("creates service with default URL", func(t *testing.T) {
			if svc := NewSearchService("", "key", "cx"); svc == nil {
				t.Fatal("expected service to be created")
			} else if svc.baseURL != defaultSearchBaseURL {
				t.Errorf("expected baseURL to be %s, got %s", defaultSearchBaseURL, svc.baseURL)
			}
		})

		t.Run("creates service with custom URL", func(t *testing.T) {
			customURL := "http://localhost:9000"
			if svc := NewSearchService(customURL, "key", "cx"); svc.baseURL != customURL {
				t.Errorf("expected baseURL to be %s, got %s", customURL, svc.baseURL)
			}
		})
	})

	t.Run("Name", func(t *testing.T) {
		if svc := NewSearchService("", "k", "c"); svc.Name() != "Google Custom Search" {
			t.Errorf("expected name to be 'Google Custom Search', got %s", svc.Name())
		}
	})

	t.Run("BuildQuery", func(t *testing.T) {
		query := BuildQuery("Seven Nation Army", "The White Stripes")
		if !strings.HasPrefix(query, "Seven Nation Army The White Stripes") {
			t.Errorf("expected query to start with title and artist, got %q", query)
		}
		for _, kw := range []string{"drum", "musicxml", "midi", "sheet music"} {
			if !strings.Contains(query, kw) {
				t.Errorf("expected query to contain %q", kw)
			}
		}

		if q := BuildQuery("Song A", ""); strings.Contains(q, "  ") {
			t.Errorf("expected no empty artist segment, got %q", q)
		}
	})

	t.Run("Search", func(t *testing.T) {
		mockItems := []map[string]any{
			{
				"title":   "Song A drum score (MusicXML)",
				"link":    "https://example.com/song-a.musicxml",
				"snippet": "Download the full drum score",
			},
			{
				"title":   "Song A drums MIDI",
				"link":    "https://example.com/song-a.mid",
				"snippet": "MIDI file",
			},
			{
				"title":   "Song A tab page",
				"link":    "https://example.com/song-a-tab",
				"snippet": "guitar lesson",
			},
		}

		t.Run("maps items to ranked results", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/customsearch/v1" {
					t.Errorf("expected path /customsearch/v1, got %s", r.URL.Path)
				}
				if r.URL.Query().Get("key") != "test-key" {
					t.Errorf("expected key query parameter")
				}
				if r.URL.Query().Get("cx") != "test-cx" {
					t.Errorf("expected cx query parameter")
				}
				if q := r.URL.Query().Get("q"); !strings.Contains(q, "Song A") {
					t.Errorf("expected query to contain title, got %q", q)
				}

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{"items": mockItems})
			}))
			defer server.Close()

			svc := NewSearchService(server.URL, "test-key", "test-cx")
			results, err := svc.Search(context.Background(), "Song A", "Artist B", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(results) != 3 {
				t.Fatalf("expected 3 results, got %d", len(results))
			}

			if results[0].Format != models.FormatMusicXML {
				t.Errorf("expected first result format musicxml, got %s", results[0].Format)
			}
			if results[1].Format != models.FormatMIDI {
				t.Errorf("expected second result format midi, got %s", results[1].Format)
			}
			if results[2].Format != models.FormatOther {
				t.Errorf("expected third result format other, got %s", results[2].Format)
			}

			for i, r := range results {
				if r.Rank != i+1 {
					t.Errorf("expected rank %d, got %d", i+1, r.Rank)
				}
			}
		})

		t.Run("excludes failed URLs", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"items": mockItems})
			}))
			defer server.Close()

			exclude := map[string]struct{}{"https://example.com/song-a.mid": {}}

			svc := NewSearchService(server.URL, "k", "c")
			results, err := svc.Search(context.Background(), "Song A", "", exclude)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(results) != 2 {
				t.Fatalf("expected 2 results after exclusion, got %d", len(results))
			}
			for _, r := range results {
				if r.URL == "https://example.com/song-a.mid" {
					t.Error("excluded URL should not appear in results")
				}
			}
			if results[1].Rank != 2 {
				t.Errorf("expected ranks to stay contiguous, got %d", results[1].Rank)
			}
		})

		t.Run("empty item list is not an error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{})
			}))
			defer server.Close()

			svc := NewSearchService(server.URL, "k", "c")
			results, err := svc.Search(context.Background(), "Song A", "", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(results) != 0 {
				t.Errorf("expected empty results, got %d", len(results))
			}
		})

		t.Run("propagates API errors", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"message": "quota exceeded"},
				})
			}))
			defer server.Close()

			svc := NewSearchService(server.URL, "k", "c")
			_, err := svc.Search(context.Background(), "Song A", "", nil)
			if err == nil {
				t.Fatal("expected error for 403 response")
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if !strings.Contains(err.Error(), "quota exceeded") {
				t.Errorf("expected error to include API message, got %v", err)
			}
		})

		t.Run("fails without a title", func(t *testing.T) {
			svc := NewSearchService("", "k", "c")
			if _, err := svc.Search(context.Background(), "", "", nil); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})
}
