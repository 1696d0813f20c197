package shared

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Run("creates logger with custom writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello")
		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain message, got %q", buf.String())
		}
	})

	t.Run("defaults to stderr when writer is nil", func(t *testing.T) {
		if logger := NewLogger(nil); logger == nil {
			t.Fatal("expected logger to be created")
		}
	})
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	SetLogLevel(logger, "error")
	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("expected info log to be suppressed at error level, got %q", buf.String())
	}

	logger.Error("reported")
	if !strings.Contains(buf.String(), "reported") {
		t.Error("expected error log to be emitted")
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected generated IDs to be unique")
	}
	if len(a) != 36 {
		t.Errorf("expected UUID string length 36, got %d", len(a))
	}
}

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		want  string
		exact bool
	}{
		{"spaces become underscores", "Song A", "Song_A", true},
		{"punctuation dropped", "Don't Stop (Live!)", "Dont_Stop_Live", true},
		{"collapses repeated spaces", "a    b", "a_b", true},
		{"keeps hyphens and digits", "Track-01", "Track-01", true},
		{"trims trailing separator", "name  ", "name", true},
		{"empty title gets generated name", "", "score_", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeTitle(tc.in)
			if tc.exact && got != tc.want {
				t.Errorf("SanitizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
			}
			if !tc.exact && !strings.HasPrefix(got, tc.want) {
				t.Errorf("SanitizeTitle(%q) = %q, want prefix %q", tc.in, got, tc.want)
			}
		})
	}
}
