// package models defines the data model for the score finder pipeline
package models

import (
	"path"
	"strings"
)

// Format identifies a music notation file format.
type Format string

const (
	FormatMusicXML  Format = "musicxml"
	FormatMIDI      Format = "midi"
	FormatPDF       Format = "pdf"
	FormatABC       Format = "abc"
	FormatGuitarPro Format = "guitarpro"
	FormatOther     Format = "other"
)

// Extension returns the file extension used when persisting a file of this format.
func (f Format) Extension() string {
	switch f {
	case FormatMusicXML:
		return "musicxml"
	case FormatMIDI:
		return "mid"
	case FormatPDF:
		return "pdf"
	case FormatABC:
		return "abc"
	case FormatGuitarPro:
		return "gp"
	default:
		return "bin"
	}
}

// NeedsConversion reports whether files of this format must pass through the
// converter before verification. MusicXML and MIDI are verified directly.
func (f Format) NeedsConversion() bool {
	return f != FormatMusicXML && f != FormatMIDI
}

// SearchResult represents one ranked hit from the notation search.
//
// Results are immutable once returned; Rank preserves the search API order.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Format  Format `json:"format"`
	Rank    int    `json:"rank"`
}

// VerificationResult captures the outcome of a structural validity check.
type VerificationResult struct {
	Valid   bool           `json:"valid"`
	Format  Format         `json:"format"`
	Details map[string]int `json:"details,omitempty"`
	Message string         `json:"message,omitempty"`
}

// Score describes a persisted notation artifact.
type Score struct {
	Title  string `json:"title"`
	Path   string `json:"path"`
	Format Format `json:"format"`
	Source string `json:"source"`
}

// DetectFormat infers a notation format from a URL or filename extension.
func DetectFormat(rawURL string) Format {
	cleaned := rawURL
	if i := strings.IndexAny(cleaned, "?#"); i >= 0 {
		cleaned = cleaned[:i]
	}

	switch strings.ToLower(path.Ext(cleaned)) {
	case ".xml", ".musicxml", ".mxl":
		return FormatMusicXML
	case ".mid", ".midi":
		return FormatMIDI
	case ".pdf":
		return FormatPDF
	case ".abc":
		return FormatABC
	case ".gp", ".gp3", ".gp4", ".gp5", ".gpx", ".ptb":
		return FormatGuitarPro
	default:
		return FormatOther
	}
}

// DetectFormatWithSnippet infers a format from the URL, falling back to
// keywords in the search snippet when the extension is inconclusive.
func DetectFormatWithSnippet(rawURL, snippet string) Format {
	if f := DetectFormat(rawURL); f != FormatOther {
		return f
	}

	lower := strings.ToLower(snippet)
	switch {
	case strings.Contains(lower, "musicxml"):
		return FormatMusicXML
	case strings.Contains(lower, "midi"):
		return FormatMIDI
	case strings.Contains(lower, "guitar pro"):
		return FormatGuitarPro
	case strings.Contains(lower, "pdf"):
		return FormatPDF
	default:
		return FormatOther
	}
}
