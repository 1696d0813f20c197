// package verifier performs shallow structural validity checks on notation
// files before they are persisted.
//
// Verification is distinct from musical correctness: the checks confirm the
// file parses and carries at least one part, measure, and note. The converter
// output is untrusted model text, so it passes through the same gate as
// downloaded files.
package verifier

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/desertthunder/scorefinder/internal/models"
)

// Verifier checks notation files for structural validity.
type Verifier struct{}

// New creates a Verifier.
func New() *Verifier {
	return &Verifier{}
}

// Verify routes file bytes to the checker for the declared format.
//
// Formats other than MusicXML and MIDI cannot be verified structurally and
// pass through; the orchestrator only sends direct or converted formats here.
func (v *Verifier) Verify(data []byte, format models.Format) models.VerificationResult {
	switch format {
	case models.FormatMusicXML:
		return v.VerifyMusicXML(data)
	case models.FormatMIDI:
		return v.VerifyMIDI(data)
	default:
		return models.VerificationResult{
			Valid:   true,
			Format:  format,
			Message: fmt.Sprintf("cannot verify %s content", format),
		}
	}
}

// VerifyMusicXML parses the document and checks for a score root, at least
// one part, one measure, and one note-bearing element. Counts are collected
// into Details. A per-part measure consistency pass is best-effort and never
// blocks validity.
func (v *Verifier) VerifyMusicXML(data []byte) models.VerificationResult {
	result := models.VerificationResult{Format: models.FormatMusicXML}

	dec := xml.NewDecoder(bytes.NewReader(data))

	var root string
	var parts, measures, notes int
	var partMeasures []int
	inNote, noteHasRest := false, false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Message = fmt.Sprintf("XML parse error: %v", err)
			return result
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if root == "" {
				root = name
				if root != "score-partwise" && root != "score-timewise" {
					result.Message = fmt.Sprintf("not a MusicXML score: root element is %q", root)
					return result
				}
			}
			switch name {
			case "part":
				parts++
				partMeasures = append(partMeasures, 0)
			case "measure":
				measures++
				if len(partMeasures) > 0 {
					partMeasures[len(partMeasures)-1]++
				}
			case "note":
				inNote, noteHasRest = true, false
			case "rest":
				if inNote {
					noteHasRest = true
				}
			}
		case xml.EndElement:
			if t.Name.Local == "note" {
				if !noteHasRest {
					notes++
				}
				inNote = false
			}
		}
	}

	if root == "" {
		result.Message = "empty document"
		return result
	}

	result.Details = map[string]int{"parts": parts, "measures": measures, "notes": notes}

	switch {
	case parts == 0:
		result.Message = "score has no part element"
	case measures == 0:
		result.Message = "score has no measure element"
	case notes == 0:
		result.Message = "score contains no notes"
	default:
		result.Valid = true
		result.Message = "valid MusicXML"
		if !consistentMeasures(partMeasures) {
			result.Message = "valid MusicXML (measure counts differ across parts)"
		}
	}

	return result
}

func consistentMeasures(partMeasures []int) bool {
	for i := 1; i < len(partMeasures); i++ {
		if partMeasures[i] != partMeasures[0] {
			return false
		}
	}
	return true
}
