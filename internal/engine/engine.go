package engine

import (
	"time"
)

// Kind - закрытый набор режимов клиента. В каждый момент активен ровно один.
type Kind int

const (
	KindRoot Kind = iota
	KindLoadZone
	KindZone
	KindLoadDescription
	KindDescription
	KindError
	KindWorld
	KindCheckDead
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindLoadZone:
		return "load_zone"
	case KindZone:
		return "zone"
	case KindLoadDescription:
		return "load_description"
	case KindDescription:
		return "description"
	case KindError:
		return "error"
	case KindWorld:
		return "world"
	case KindCheckDead:
		return "check_dead"
	default:
		return "unknown"
	}
}

// Frame - то, что хост передает движку в каждый тик.
type Frame struct {
	// Frame - счетчик кадров анимации, Frames - сколько кадров прошло с прошлого тика.
	Frame  int64
	Frames int
	// Tick - счетчик смены спрайтов.
	Tick int64
	Now  time.Time
}

// Engine - активный экран. Tick опрашивает свои запросы, обрабатывает ввод
// и возвращает сообщения перехода. Tick никогда не блокируется.
type Engine interface {
	Kind() Kind
	Tick(f Frame, inputs []Input) []Message
}

// Closer - движок, который держит ресурсы (канал зоны) до смены экрана.
type Closer interface {
	Close()
}

// Settings - параметры конфига, которые нужны движкам.
type Settings struct {
	TileWidth       int
	TileHeight      int
	LoadZoneTimeout time.Duration
}

// Session - клиент и, если он уже известен, персонаж игрока.
type Session struct {
	Client      Client
	CharacterID string
}

func (s Session) HasCharacter() bool {
	return s.CharacterID != ""
}
