package animation

const (
	BlinkFrameTarget     = 60 * 2
	BlinkVisibleDuration = 15
)

// Blink - иконка сводки, которая мигает после изменения значения.
// Считает собственные кадры, общий счетчик не использует.
type Blink struct {
	Item    string
	counter int64
	visible bool
}

func NewBlink(item string) *Blink {
	return &Blink{Item: item, visible: true}
}

func (b *Blink) Update(int64) bool {
	b.counter++
	if b.counter%BlinkVisibleDuration == 0 {
		b.visible = !b.visible
	}
	return b.counter >= BlinkFrameTarget
}

func (b *Blink) Visible() bool {
	return b.visible
}
