// package shared defines shared helpers
package shared

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger] from a level name.
//
// Unknown names leave the logger at its current level.
func SetLogLevel(l *log.Logger, name string) {
	if ll, err := log.ParseLevel(name); err == nil {
		l.SetLevel(ll)
	}
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// SanitizeTitle converts a song title into a filesystem-safe base filename.
//
// Letters, digits, hyphens and underscores survive; spaces collapse to a
// single underscore; everything else is dropped.
func SanitizeTitle(title string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
			lastUnderscore = false
		case r == ' ':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	name := strings.TrimRight(b.String(), "_")
	if name == "" {
		name = "score_" + GenerateID()[:8]
	}
	return name
}
