package term

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/buxx/rollgui2-sub000/internal/engine"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

// eventBuffer - сколько событий терминала ждут следующего тика. Лишние теряются.
const eventBuffer = 64

// Term - рендерер в терминал поверх tcell.
// Draw и Inputs вызываются только из цикла хоста, события читает отдельная горутина.
type Term struct {
	screen tcell.Screen
	cancel context.CancelFunc
	events chan tcell.Event
	mobile bool

	kind    engine.Kind
	pressed bool
	hits    []hit
	view    *mapView
}

// hit - кликабельная область экрана высотой h строк.
type hit struct {
	x, y, w, h int
	input      engine.Input
}

// mapView - область экрана с картой зоны и клетка в ее левом верхнем углу.
type mapView struct {
	x, y, w, h int
	row0, col0 int32
}

func (v mapView) contains(x, y int) bool {
	return x >= v.x && x < v.x+v.w && y >= v.y && y < v.y+v.h
}

// NewScreen - экран текущего терминала.
func NewScreen() (tcell.Screen, error) {
	return tcell.NewScreen()
}

// New инициализирует экран и начинает читать его события.
// cancel вызывается по Ctrl-C: в raw-режиме терминал не присылает SIGINT.
// mobile - сенсорная раскладка: кнопки выше и дальше друг от друга.
func New(screen tcell.Screen, cancel context.CancelFunc, mobile bool) (*Term, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.HideCursor()
	screen.Clear()

	t := &Term{
		screen: screen,
		cancel: cancel,
		events: make(chan tcell.Event, eventBuffer),
		mobile: mobile,
	}
	go t.poll()
	return t, nil
}

func (t *Term) poll() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		default:
			logger.Log.Debug("Terminal event dropped")
		}
	}
}

// Close возвращает терминал в обычный режим.
func (t *Term) Close() {
	t.screen.Fini()
}

// Inputs забирает накопленные события без ожидания.
func (t *Term) Inputs() []engine.Input {
	var inputs []engine.Input
	for {
		select {
		case ev := <-t.events:
			if in, ok := t.translate(ev); ok {
				inputs = append(inputs, in)
			}
		default:
			return inputs
		}
	}
}

func (t *Term) translate(ev tcell.Event) (engine.Input, bool) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventKey:
		return t.translateKey(ev)
	case *tcell.EventMouse:
		down := ev.Buttons()&tcell.Button1 != 0
		if down && !t.pressed {
			t.pressed = true
			return t.click(ev.Position())
		}
		t.pressed = down
	}
	return nil, false
}

var keys = map[tcell.Key]engine.Key{
	tcell.KeyEscape:     engine.KeyEscape,
	tcell.KeyEnter:      engine.KeyEnter,
	tcell.KeyTab:        engine.KeyTab,
	tcell.KeyBacktab:    engine.KeyBacktab,
	tcell.KeyBackspace:  engine.KeyBackspace,
	tcell.KeyBackspace2: engine.KeyBackspace,
	tcell.KeyUp:         engine.KeyUp,
	tcell.KeyDown:       engine.KeyDown,
	tcell.KeyLeft:       engine.KeyLeft,
	tcell.KeyRight:      engine.KeyRight,
}

// Функциональные клавиши зависят от экрана.
var (
	rootKeys = map[tcell.Key]engine.ButtonID{
		tcell.KeyF2:  engine.ButtonCreateAccount,
		tcell.KeyF10: engine.ButtonQuit,
	}
	descriptionKeys = map[tcell.Key]engine.ButtonID{
		tcell.KeyF1:  engine.ButtonMainActions,
		tcell.KeyF10: engine.ButtonClose,
	}
	worldKeys = map[tcell.Key]engine.ButtonID{
		tcell.KeyF10: engine.ButtonClose,
	}
)

func functionKeys(kind engine.Kind) map[tcell.Key]engine.ButtonID {
	switch kind {
	case engine.KindRoot:
		return rootKeys
	case engine.KindZone:
		return zoneKeys
	case engine.KindDescription:
		return descriptionKeys
	case engine.KindWorld:
		return worldKeys
	}
	return nil
}

func (t *Term) translateKey(ev *tcell.EventKey) (engine.Input, bool) {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		if t.cancel != nil {
			t.cancel()
		}
		return nil, false
	case tcell.KeyRune:
		return engine.KeyPress{Key: engine.KeyRune, Rune: ev.Rune()}, true
	}
	if k, ok := keys[ev.Key()]; ok {
		return engine.KeyPress{Key: k}, true
	}
	if id, ok := functionKeys(t.kind)[ev.Key()]; ok {
		return engine.Press(id), true
	}
	return nil, false
}

// click ищет кнопку под курсором, затем клетку карты.
func (t *Term) click(x, y int) (engine.Input, bool) {
	for _, h := range t.hits {
		if y >= h.y && y < h.y+h.h && x >= h.x && x < h.x+h.w {
			return h.input, true
		}
	}
	if t.view != nil && t.view.contains(x, y) {
		return engine.TileClick{
			Row: t.view.row0 + int32(y-t.view.y),
			Col: t.view.col0 + int32(x-t.view.x),
		}, true
	}
	if t.kind == engine.KindError {
		return engine.Press(engine.ButtonBack), true
	}
	return nil, false
}
