package verifier

import (
	"encoding/binary"
	"fmt"

	"github.com/desertthunder/scorefinder/internal/models"
)

var midiMagic = []byte("MThd")

// VerifyMIDI checks the standard MIDI file header and declared track count.
// A deeper pass walks the track chunks and counts note-on events; when the
// chunk structure cannot be walked the deep pass is inconclusive and the
// header-level verdict stands.
func (v *Verifier) VerifyMIDI(data []byte) models.VerificationResult {
	result := models.VerificationResult{Format: models.FormatMIDI}

	if len(data) < 14 {
		result.Message = "file too short for a MIDI header"
		return result
	}

	for i, b := range midiMagic {
		if data[i] != b {
			result.Message = "missing MThd header magic"
			return result
		}
	}

	if hdrLen := binary.BigEndian.Uint32(data[4:8]); hdrLen != 6 {
		result.Message = fmt.Sprintf("unexpected MThd length %d", hdrLen)
		return result
	}

	tracks := int(binary.BigEndian.Uint16(data[10:12]))
	if tracks < 1 {
		result.Message = "header declares no tracks"
		return result
	}

	result.Details = map[string]int{
		"tracks":   tracks,
		"division": int(binary.BigEndian.Uint16(data[12:14])),
	}

	notes, walked, err := walkTrackChunks(data[14:])
	if err != nil {
		result.Valid = true
		result.Message = "valid MIDI header (track walk inconclusive)"
		return result
	}

	result.Details["notes"] = notes
	if walked == 0 {
		result.Message = "no MTrk chunks present"
		return result
	}
	if notes == 0 {
		result.Message = "MIDI file contains no notes"
		return result
	}

	result.Valid = true
	result.Message = "valid MIDI"
	return result
}

// walkTrackChunks iterates chunk headers after MThd and counts note-on events
// across MTrk chunks. Unknown chunk types are skipped.
func walkTrackChunks(data []byte) (notes, tracks int, err error) {
	off := 0
	for off < len(data) {
		if off+8 > len(data) {
			return 0, 0, fmt.Errorf("truncated chunk header at offset %d", off)
		}

		id := string(data[off : off+4])
		length := int(binary.BigEndian.Uint32(data[off+4 : off+8]))
		off += 8

		if off+length > len(data) {
			return 0, 0, fmt.Errorf("chunk %s overruns file", id)
		}

		if id == "MTrk" {
			n, err := countNoteOns(data[off : off+length])
			if err != nil {
				return 0, 0, err
			}
			notes += n
			tracks++
		}

		off += length
	}
	return notes, tracks, nil
}

// countNoteOns scans one track's event stream for note-on events with a
// non-zero velocity, honoring running status.
func countNoteOns(track []byte) (int, error) {
	var running byte
	notes := 0
	i := 0

	for i < len(track) {
		// delta time
		_, n, err := readVarint(track[i:])
		if err != nil {
			return 0, err
		}
		i += n
		if i >= len(track) {
			return 0, fmt.Errorf("event truncated after delta time")
		}

		status := track[i]
		if status&0x80 != 0 {
			i++
			if status < 0xF0 {
				running = status
			}
		} else {
			if running == 0 {
				return 0, fmt.Errorf("data byte 0x%02x with no running status", status)
			}
			status = running
		}

		switch {
		case status&0xF0 == 0x90:
			if i+1 >= len(track) {
				return 0, fmt.Errorf("truncated note-on event")
			}
			if track[i+1] > 0 {
				notes++
			}
			i += 2
		case status&0xF0 == 0x80, status&0xF0 == 0xA0, status&0xF0 == 0xB0, status&0xF0 == 0xE0:
			i += 2
		case status&0xF0 == 0xC0, status&0xF0 == 0xD0:
			i++
		case status == 0xFF:
			if i >= len(track) {
				return 0, fmt.Errorf("truncated meta event")
			}
			i++ // meta type
			length, n, err := readVarint(track[i:])
			if err != nil {
				return 0, err
			}
			i += n + int(length)
		case status == 0xF0, status == 0xF7:
			length, n, err := readVarint(track[i:])
			if err != nil {
				return 0, err
			}
			i += n + int(length)
		default:
			return 0, fmt.Errorf("unsupported status byte 0x%02x", status)
		}

		if i > len(track) {
			return 0, fmt.Errorf("event overruns track")
		}
	}

	return notes, nil
}

// readVarint decodes an SMF variable-length quantity.
func readVarint(b []byte) (uint32, int, error) {
	var value uint32
	for i := 0; i < len(b) && i < 4; i++ {
		value = value<<7 | uint32(b[i]&0x7F)
		if b[i]&0x80 == 0 {
			return value, i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("unterminated variable-length quantity")
}
