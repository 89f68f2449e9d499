package animation

const (
	// PopGrowth - рост pop-анимации за кадр.
	PopGrowth = 1.1
	// DropShrink - уменьшение drop-анимации за кадр.
	DropShrink = 1.1
	// DropInitialScale - стартовый размер drop в тайлах.
	DropInitialScale = 60 * 1.1
	// DropEpsilon - доля начального размера, ниже которой drop истекает.
	DropEpsilon = 0.05
)

type tile struct {
	tileID string
	row    int32
	col    int32
	scale  float64
}

func (t *tile) TileID() string           { return t.tileID }
func (t *tile) Position() (int32, int32) { return t.row, t.col }
func (t *tile) Scale() float64           { return t.scale }

// Pop - тайл "выпрыгивает" на клетке (произведенный предмет или ресурс)
// и растет, пока не наступит кадр endFrame.
type Pop struct {
	tile
	endFrame int64
}

func NewPop(tileID string, row, col int32, endFrame int64) *Pop {
	return &Pop{tile: tile{tileID: tileID, row: row, col: col, scale: 1}, endFrame: endFrame}
}

func (p *Pop) Update(frame int64) bool {
	p.scale *= PopGrowth
	return frame >= p.endFrame
}

func (p *Pop) EndFrame() int64 { return p.endFrame }

// Drop - тайл "падает" на клетку: начинается крупным и сжимается.
type Drop struct {
	tile
	initial float64
}

func NewDrop(tileID string, row, col int32) *Drop {
	return &Drop{
		tile:    tile{tileID: tileID, row: row, col: col, scale: DropInitialScale},
		initial: DropInitialScale,
	}
}

func (d *Drop) Update(int64) bool {
	d.scale /= DropShrink
	return d.scale < d.initial*DropEpsilon
}

// Visible показывает тайл без изменений до кадра until включительно.
type Visible struct {
	tile
	until int64
}

func NewVisible(tileID string, row, col int32, until int64) *Visible {
	return &Visible{tile: tile{tileID: tileID, row: row, col: col, scale: 1}, until: until}
}

func (v *Visible) Update(frame int64) bool {
	return frame > v.until
}
