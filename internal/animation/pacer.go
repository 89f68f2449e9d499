package animation

import "time"

// MaxCatchUp - сколько кадров Pacer догоняет за один вызов после долгой паузы.
const MaxCatchUp = 8

// Clock отделяет Pacer от настенных часов (в тестах - FakeClock).
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FakeClock - управляемые вручную часы.
type FakeClock struct {
	now time.Time
}

func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Unix(0, 0)}
}

func (c *FakeClock) Now() time.Time { return c.now }

func (c *FakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Pacer ведет два счетчика по порогам времени:
// frame (анимации) и tick (смена спрайтов).
// Так скорость анимаций не зависит от частоты отрисовки.
type Pacer struct {
	clock      Clock
	frameEvery time.Duration
	tickEvery  time.Duration

	lastFrame time.Time
	lastTick  time.Time
	frame     int64
	tick      int64
}

func NewPacer(clock Clock, frameEvery, tickEvery time.Duration) *Pacer {
	now := clock.Now()
	return &Pacer{
		clock:      clock,
		frameEvery: frameEvery,
		tickEvery:  tickEvery,
		lastFrame:  now,
		lastTick:   now,
	}
}

// Advance продвигает счетчики по прошедшему времени и возвращает число новых кадров.
func (p *Pacer) Advance() int {
	now := p.clock.Now()
	frames := step(now, &p.lastFrame, p.frameEvery, &p.frame)
	step(now, &p.lastTick, p.tickEvery, &p.tick)
	return frames
}

func step(now time.Time, last *time.Time, every time.Duration, counter *int64) int {
	if every <= 0 {
		return 0
	}
	n := 0
	for now.Sub(*last) >= every {
		if n == MaxCatchUp {
			// Отставание сбрасываем, иначе после паузы анимации "проматываются".
			*last = now
			break
		}
		*last = last.Add(every)
		*counter++
		n++
	}
	return n
}

func (p *Pacer) Frame() int64 { return p.frame }

func (p *Pacer) Tick() int64 { return p.tick }
