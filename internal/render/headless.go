package render

import (
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"github.com/buxx/rollgui2-sub000/internal/engine"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

// Headless - рендерер без экрана: ввод приходит через Push, отрисовка только
// отмечает смену экрана в логе. Для ботов и прогонов без терминала.
type Headless struct {
	mu     deadlock.Mutex
	queue  []engine.Input
	last   engine.Kind
	frames int64
	drawn  bool
}

func NewHeadless() *Headless {
	return &Headless{}
}

// Push ставит ввод в очередь следующего тика. Безопасно из любой горутины.
func (h *Headless) Push(inputs ...engine.Input) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queue = append(h.queue, inputs...)
}

func (h *Headless) Inputs() []engine.Input {
	h.mu.Lock()
	defer h.mu.Unlock()
	in := h.queue
	h.queue = nil
	return in
}

func (h *Headless) Draw(e engine.Engine, f engine.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.drawn || e.Kind() != h.last {
		fields := logrus.Fields{"engine": e.Kind().String(), "frame": f.Frame}
		if er, ok := e.(*engine.Error); ok {
			fields["reason"] = er.Reason
		}
		logger.Log.WithFields(fields).Debug("Screen")
	}
	h.drawn = true
	h.last = e.Kind()
	h.frames = f.Frame
}

// Last - последний отрисованный экран.
func (h *Headless) Last() (engine.Kind, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last, h.drawn
}
