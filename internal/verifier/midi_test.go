package verifier

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

func midiFile(declaredTracks int, tracks ...[]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("MThd")
	binary.Write(&buf, binary.BigEndian, uint32(6))
	binary.Write(&buf, binary.BigEndian, uint16(1))
	binary.Write(&buf, binary.BigEndian, uint16(declaredTracks))
	binary.Write(&buf, binary.BigEndian, uint16(480))
	for _, tr := range tracks {
		buf.WriteString("MTrk")
		binary.Write(&buf, binary.BigEndian, uint32(len(tr)))
		buf.Write(tr)
	}
	return buf.Bytes()
}

var (
	endOfTrack = []byte{0x00, 0xFF, 0x2F, 0x00}

	// note-on D1 velocity 100, note-off via running status, end of track
	noteTrack = []byte{
		0x00, 0x90, 0x26, 0x64,
		0x60, 0x26, 0x00,
		0x00, 0xFF, 0x2F, 0x00,
	}
)

func TestVerifyMIDI(t *testing.T) {
	v := New()

	t.Run("valid file with notes", func(t *testing.T) {
		result := v.VerifyMIDI(midiFile(1, noteTrack))
		if !result.Valid {
			t.Fatalf("expected valid MIDI, got %s", result.Message)
		}
		if result.Details["tracks"] != 1 {
			t.Errorf("expected 1 declared track, got %d", result.Details["tracks"])
		}
		if result.Details["notes"] != 1 {
			t.Errorf("expected 1 note, got %d", result.Details["notes"])
		}
	})

	t.Run("wrong magic fails", func(t *testing.T) {
		data := midiFile(1, noteTrack)
		data[0] = 'X'
		result := v.VerifyMIDI(data)
		if result.Valid {
			t.Fatal("expected invalid result")
		}
		if !strings.Contains(result.Message, "MThd") {
			t.Errorf("expected header diagnostic, got %s", result.Message)
		}
	})

	t.Run("short input fails", func(t *testing.T) {
		if result := v.VerifyMIDI([]byte("MThd")); result.Valid {
			t.Error("expected short input to be invalid")
		}
	})

	t.Run("zero declared tracks fails", func(t *testing.T) {
		result := v.VerifyMIDI(midiFile(0))
		if result.Valid {
			t.Fatal("expected invalid result")
		}
		if !strings.Contains(result.Message, "tracks") {
			t.Errorf("expected track diagnostic, got %s", result.Message)
		}
	})

	t.Run("file with no note events fails", func(t *testing.T) {
		result := v.VerifyMIDI(midiFile(1, endOfTrack))
		if result.Valid {
			t.Fatal("expected invalid result")
		}
		if !strings.Contains(result.Message, "no notes") {
			t.Errorf("expected no-notes diagnostic, got %s", result.Message)
		}
	})

	t.Run("note-on with zero velocity is a release", func(t *testing.T) {
		silent := []byte{
			0x00, 0x90, 0x26, 0x00,
			0x00, 0xFF, 0x2F, 0x00,
		}
		result := v.VerifyMIDI(midiFile(1, silent))
		if result.Valid {
			t.Error("zero-velocity note-on should not count as a note")
		}
	})

	t.Run("unwalkable track keeps header verdict", func(t *testing.T) {
		garbage := []byte{0x00, 0x12}
		result := v.VerifyMIDI(midiFile(1, garbage))
		if !result.Valid {
			t.Fatalf("expected inconclusive walk to keep validity, got %s", result.Message)
		}
		if !strings.Contains(result.Message, "inconclusive") {
			t.Errorf("expected inconclusive message, got %s", result.Message)
		}
	})

	t.Run("counts notes across multiple tracks", func(t *testing.T) {
		result := v.VerifyMIDI(midiFile(2, noteTrack, noteTrack))
		if !result.Valid {
			t.Fatalf("expected valid MIDI, got %s", result.Message)
		}
		if result.Details["notes"] != 2 {
			t.Errorf("expected 2 notes, got %d", result.Details["notes"])
		}
	})
}

func TestReadVarint(t *testing.T) {
	cases := []struct {
		in   []byte
		want uint32
		n    int
	}{
		{[]byte{0x00}, 0, 1},
		{[]byte{0x7F}, 127, 1},
		{[]byte{0x81, 0x00}, 128, 2},
		{[]byte{0xFF, 0x7F}, 16383, 2},
	}

	for _, tc := range cases {
		got, n, err := readVarint(tc.in)
		if err != nil {
			t.Errorf("readVarint(%v) unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want || n != tc.n {
			t.Errorf("readVarint(%v) = (%d, %d), want (%d, %d)", tc.in, got, n, tc.want, tc.n)
		}
	}

	if _, _, err := readVarint([]byte{0x80, 0x80}); err == nil {
		t.Error("expected error for unterminated quantity")
	}
}
