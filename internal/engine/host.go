package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/buxx/rollgui2-sub000/internal/animation"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

// Renderer рисует активный движок и отдает накопленный ввод.
// Inputs не блокируется.
type Renderer interface {
	Inputs() []Input
	Draw(e Engine, f Frame)
}

// Publisher получает снимок хоста после каждого тика (debug сервер).
type Publisher interface {
	Publish(s Snapshot)
}

// Snapshot - состояние хоста для отладки.
type Snapshot struct {
	Engine      string    `json:"engine"`
	Frame       int64     `json:"frame"`
	Tick        int64     `json:"tick"`
	InFlight    int       `json:"in_flight"`
	CharacterID string    `json:"character_id,omitempty"`
	Zone        string    `json:"zone,omitempty"`
	Characters  int       `json:"characters,omitempty"`
	Builds      int       `json:"builds,omitempty"`
	Animations  int       `json:"animations,omitempty"`
	Error       string    `json:"error,omitempty"`
	At          time.Time `json:"at"`
}

// HostConfig - зависимости цикла хоста.
type HostConfig struct {
	Client     Client
	Settings   Settings
	Clock      animation.Clock
	FrameEvery time.Duration
	TickEvery  time.Duration
	Login      string
	Password   string
	Renderer   Renderer
	Publisher  Publisher
}

// Host владеет активным движком и применяет его сообщения перехода.
type Host struct {
	client    Client
	settings  Settings
	clock     animation.Clock
	pacer     *animation.Pacer
	every     time.Duration
	renderer  Renderer
	publisher Publisher

	current Engine
}

func NewHost(cfg HostConfig) *Host {
	clock := cfg.Clock
	if clock == nil {
		clock = animation.SystemClock{}
	}
	h := &Host{
		client:    cfg.Client,
		settings:  cfg.Settings,
		clock:     clock,
		pacer:     animation.NewPacer(clock, cfg.FrameEvery, cfg.TickEvery),
		every:     cfg.FrameEvery,
		renderer:  cfg.Renderer,
		publisher: cfg.Publisher,
	}
	h.current = NewRoot(cfg.Client, cfg.Login, cfg.Password, "")
	return h
}

func (h *Host) Current() Engine {
	return h.current
}

// Step - один тик: кадры, ввод, тик движка, переходы, отрисовка.
// Возвращает true, если клиент должен завершиться.
func (h *Host) Step() bool {
	frames := h.pacer.Advance()
	f := Frame{Frame: h.pacer.Frame(), Frames: frames, Tick: h.pacer.Tick(), Now: h.clock.Now()}

	var inputs []Input
	if h.renderer != nil {
		inputs = h.renderer.Inputs()
	}
	if h.Apply(h.current.Tick(f, inputs)) {
		return true
	}
	if h.renderer != nil {
		h.renderer.Draw(h.current, f)
	}
	if h.publisher != nil {
		h.publisher.Publish(h.Snapshot(f))
	}
	return false
}

// Run крутит цикл до Quit или отмены контекста.
func (h *Host) Run(ctx context.Context) error {
	logger.Log.WithField("engine", h.current.Kind().String()).Info("Client loop started")
	every := h.every
	if every <= 0 {
		every = 16 * time.Millisecond
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if h.Step() {
			logger.Log.Info("Client loop stopped")
			return nil
		}
		select {
		case <-ctx.Done():
			h.closeCurrent()
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Apply применяет сообщения по порядку. Следующий опрос движка будет только
// после последнего сообщения.
func (h *Host) Apply(msgs []Message) (quit bool) {
	for _, msg := range msgs {
		if _, ok := msg.(Quit); ok {
			h.closeCurrent()
			return true
		}
		next := h.build(msg)
		if next == nil {
			continue
		}
		h.closeCurrent()
		logger.Log.WithFields(logrus.Fields{
			"from": h.current.Kind().String(),
			"to":   next.Kind().String(),
		}).Info("Engine switched")
		h.current = next
	}
	return false
}

func (h *Host) closeCurrent() {
	if c, ok := h.current.(Closer); ok {
		c.Close()
	}
}

func (h *Host) build(msg Message) Engine {
	switch m := msg.(type) {
	case SetRootEngine:
		return NewRoot(h.client, "", "", m.Notice)
	case SetLoadZoneEngine:
		return NewLoadZone(m.Session, h.settings, m.RequestClicks)
	case SetZoneEngine:
		return NewZone(m.Session, h.settings, m.State)
	case SetLoadDescriptionEngine:
		return NewLoadDescription(m)
	case SetDescriptionEngine:
		return NewDescription(m.Session, m.Page, m.History)
	case SetDescriptionEngineFrom:
		return NewDescriptionFrom(m.Session, m.Page, m.History, m.Error)
	case SetErrorEngine:
		logger.Log.WithField("reason", m.Reason).Error("Engine failed")
		return NewError(m.Reason)
	case SetWorldEngine:
		return NewWorld(m.Session, m.Player)
	case SetCheckDeadEngine:
		return NewCheckDead(m.Session)
	}
	logger.Log.WithField("message", fmt.Sprintf("%T", msg)).Warn("Unknown message")
	return nil
}

// Snapshot собирает отладочный снимок активного движка.
func (h *Host) Snapshot(f Frame) Snapshot {
	s := Snapshot{Engine: h.current.Kind().String(), Frame: f.Frame, Tick: f.Tick, At: f.Now}
	switch e := h.current.(type) {
	case *LoadZone:
		s.InFlight = e.InFlight()
		s.CharacterID = e.session.CharacterID
	case *Zone:
		p := e.State.Player
		s.InFlight = e.InFlight()
		s.CharacterID = p.ID
		s.Zone = fmt.Sprintf("%d.%d", p.WorldRowI, p.WorldColI)
		s.Characters = len(e.State.Characters)
		s.Builds = e.State.BuildCount()
		s.Animations = e.Animations.Len()
	case *LoadDescription:
		s.InFlight = e.InFlight()
		s.CharacterID = e.session.CharacterID
	case *Description:
		s.CharacterID = e.session.CharacterID
		s.Error = e.Page.Error
	case *Error:
		s.Error = e.Reason
	case *Root:
		if e.Waiting() {
			s.InFlight = 1
		}
		s.Error = e.Error
	}
	return s
}
