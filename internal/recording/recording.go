package recording

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const (
	MagicHeader string = `RGZR`
	Version1    uint32 = 1

	// MaxPayload - предел одного события, больше сервер не присылает.
	MaxPayload = 1 << 20
)

// maxPrealloc - сколько событий резервируется заранее. Счетчику из файла не верим.
const maxPrealloc = 1024

// FileHeader - заголовок файла записи.
// binary.Write пишет его целиком: только массивы и числа.
type FileHeader struct {
	Magic        [4]byte
	Version      uint32
	WorldRow     int32
	WorldCol     int32
	Started      int64 // unix ms
	EventCount   int32
	CharacterLen uint8
}

// EventHeader - заголовок каждого события.
type EventHeader struct {
	OffsetMs   uint32
	PayloadLen uint32
}

// Event - сырое входящее событие зоны и когда оно пришло от начала записи.
type Event struct {
	Offset  time.Duration
	Payload []byte
}

// Session - запись одного канала зоны.
type Session struct {
	WorldRow    int32
	WorldCol    int32
	CharacterID string
	Started     time.Time
	Events      []Event
}

func NewSession(worldRow, worldCol int32, characterID string, started time.Time) *Session {
	return &Session{WorldRow: worldRow, WorldCol: worldCol, CharacterID: characterID, Started: started}
}

// Add копирует событие: буферы канала переиспользуются.
func (s *Session) Add(at time.Time, payload []byte) {
	p := make([]byte, len(payload))
	copy(p, payload)
	offset := at.Sub(s.Started)
	if offset < 0 {
		offset = 0
	}
	s.Events = append(s.Events, Event{Offset: offset, Payload: p})
}

// Service сохраняет и читает записи в каталоге.
type Service struct {
	Dir string
}

func NewService(dir string) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create record dir: %w", err)
	}
	return &Service{Dir: dir}, nil
}

// Save пишет запись в новый файл и возвращает его путь.
func (s *Service) Save(session *Session) (string, error) {
	filename := fmt.Sprintf("zone_%d_%d_%d.rgzr", session.WorldRow, session.WorldCol, session.Started.UnixMilli())
	path := filepath.Join(s.Dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := Write(f, session); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Service) Load(path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

func Write(w io.Writer, s *Session) error {
	character := []byte(s.CharacterID)
	if len(character) > 255 {
		return fmt.Errorf("character id too long: %d", len(character))
	}

	header := FileHeader{
		Version:      Version1,
		WorldRow:     s.WorldRow,
		WorldCol:     s.WorldCol,
		Started:      s.Started.UnixMilli(),
		EventCount:   int32(len(s.Events)),
		CharacterLen: uint8(len(character)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(character); err != nil {
		return err
	}

	for _, ev := range s.Events {
		if len(ev.Payload) > MaxPayload {
			return fmt.Errorf("payload too long: %d", len(ev.Payload))
		}
		eh := EventHeader{
			OffsetMs:   uint32(ev.Offset.Milliseconds()),
			PayloadLen: uint32(len(ev.Payload)),
		}
		if err := binary.Write(w, binary.LittleEndian, &eh); err != nil {
			return err
		}
		if _, err := w.Write(ev.Payload); err != nil {
			return err
		}
	}
	return nil
}

func Read(r io.Reader) (*Session, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.EventCount < 0 {
		return nil, fmt.Errorf("invalid event count: %d", header.EventCount)
	}

	character := make([]byte, header.CharacterLen)
	if _, err := io.ReadFull(r, character); err != nil {
		return nil, fmt.Errorf("failed to read character id: %w", err)
	}

	s := &Session{
		WorldRow:    header.WorldRow,
		WorldCol:    header.WorldCol,
		CharacterID: string(character),
		Started:     time.UnixMilli(header.Started),
		Events:      make([]Event, 0, min(int(header.EventCount), maxPrealloc)),
	}
	for i := 0; i < int(header.EventCount); i++ {
		var eh EventHeader
		if err := binary.Read(r, binary.LittleEndian, &eh); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if eh.PayloadLen > MaxPayload {
			return nil, fmt.Errorf("event %d: payload too long: %d", i, eh.PayloadLen)
		}
		payload := make([]byte, eh.PayloadLen)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		s.Events = append(s.Events, Event{
			Offset:  time.Duration(eh.OffsetMs) * time.Millisecond,
			Payload: payload,
		})
	}
	return s, nil
}
