package recording

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
	"time"
)

func testSession() *Session {
	started := time.UnixMilli(1_700_000_000_000)
	s := NewSession(3, 4, "player", started)
	s.Add(started.Add(10*time.Millisecond), []byte(`{"type":"SERVER_PERMIT_CLOSE","data":{}}`))
	s.Add(started.Add(-time.Second), []byte(`{"type":"CHARACTER_EXIT_ZONE","data":{"character_id":"c1"}}`))
	return s
}

func TestWriteRead(t *testing.T) {
	s := testSession()
	var buf bytes.Buffer
	if err := Write(&buf, s); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.WorldRow != 3 || got.WorldCol != 4 || got.CharacterID != "player" {
		t.Errorf("session = %d.%d %q, want 3.4 player", got.WorldRow, got.WorldCol, got.CharacterID)
	}
	if !got.Started.Equal(s.Started) {
		t.Errorf("Started = %v, want %v", got.Started, s.Started)
	}
	if len(got.Events) != 2 {
		t.Fatalf("Events = %d, want 2", len(got.Events))
	}
	if got.Events[0].Offset != 10*time.Millisecond {
		t.Errorf("Offset = %v, want 10ms", got.Events[0].Offset)
	}
	if got.Events[1].Offset != 0 {
		t.Errorf("Offset = %v, want 0 for an event before the start", got.Events[1].Offset)
	}
	if !bytes.Equal(got.Events[1].Payload, s.Events[1].Payload) {
		t.Errorf("Payload = %s", got.Events[1].Payload)
	}
}

func TestAddCopiesPayload(t *testing.T) {
	s := NewSession(0, 0, "p", time.Unix(0, 0))
	buf := []byte("abc")
	s.Add(time.Unix(0, 0), buf)
	buf[0] = 'x'
	if string(s.Events[0].Payload) != "abc" {
		t.Errorf("Payload = %q, want abc", s.Events[0].Payload)
	}
}

func TestReadRejects(t *testing.T) {
	var valid bytes.Buffer
	if err := Write(&valid, testSession()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	raw := valid.Bytes()

	badMagic := append([]byte("NOPE"), raw[4:]...)
	badVersion := append([]byte{}, raw...)
	badVersion[4] = 9

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"magic", badMagic},
		{"version", badVersion},
		{"truncated", raw[:len(raw)-3]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(bytes.NewReader(tt.data)); err == nil {
				t.Error("Read() error = nil")
			}
		})
	}
}

func TestReadHugeEventCount(t *testing.T) {
	header := FileHeader{Version: Version1, EventCount: math.MaxInt32}
	copy(header.Magic[:], MagicHeader)
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		t.Fatalf("binary.Write() error = %v", err)
	}

	if _, err := Read(&buf); err == nil {
		t.Error("Read() error = nil, want truncated event error")
	}
}

func TestServiceSaveLoad(t *testing.T) {
	svc, err := NewService(t.TempDir() + "/records")
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	path, err := svc.Save(testSession())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := svc.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Events) != 2 {
		t.Errorf("Events = %d, want 2", len(got.Events))
	}
}
