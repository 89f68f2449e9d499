package zone

import (
	"math"

	"github.com/buxx/rollgui2-sub000/pkg/api"
)

// PlayerSpeed - пикселей за кадр анимации.
const PlayerSpeed = 4.0

type Direction int

const (
	North Direction = iota
	South
	West
	East
)

// Offset - смещение клетки для направления.
func (d Direction) Offset() (int32, int32) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case West:
		return 0, -1
	default:
		return 0, 1
	}
}

func (d Direction) String() string {
	return [...]string{"north", "south", "west", "east"}[d]
}

// PlayerDisplay - непрерывная позиция игрока на экране.
// Она продвигается локально и может расходиться с Player.ZoneRowI/ZoneColI
// до следующего подтвержденного хода.
type PlayerDisplay struct {
	X, Y   float64
	VX, VY float64
	Facing Direction

	target     *Point
	tileWidth  float64
	tileHeight float64
}

func NewPlayerDisplay(player api.Character, tileWidth, tileHeight int) PlayerDisplay {
	return PlayerDisplay{
		X:          float64(player.ZoneColI) * float64(tileWidth),
		Y:          float64(player.ZoneRowI) * float64(tileHeight),
		Facing:     South,
		tileWidth:  float64(tileWidth),
		tileHeight: float64(tileHeight),
	}
}

// Moving - игрок еще идет к целевой клетке.
func (d *PlayerDisplay) Moving() bool {
	return d.target != nil
}

// WalkTo задает целевую клетку и скорость в ее сторону.
func (d *PlayerDisplay) WalkTo(dir Direction, to Point) {
	d.Facing = dir
	d.target = &to
	dr, dc := dir.Offset()
	d.VX = float64(dc) * PlayerSpeed
	d.VY = float64(dr) * PlayerSpeed
}

// Step продвигает позицию на один кадр. Возвращает клетку, если игрок на нее пришел.
func (d *PlayerDisplay) Step() (Point, bool) {
	if d.target == nil {
		return Point{}, false
	}
	tx := float64(d.target.Col) * d.tileWidth
	ty := float64(d.target.Row) * d.tileHeight
	d.X = approach(d.X, tx, d.VX)
	d.Y = approach(d.Y, ty, d.VY)
	if d.X != tx || d.Y != ty {
		return Point{}, false
	}
	arrived := *d.target
	d.target = nil
	d.VX, d.VY = 0, 0
	return arrived, true
}

// Tile - клетка под текущей позицией (округление к ближайшей).
func (d *PlayerDisplay) Tile() Point {
	return Point{
		Row: int32(math.Round(d.Y / d.tileHeight)),
		Col: int32(math.Round(d.X / d.tileWidth)),
	}
}

func approach(from, to, v float64) float64 {
	if v == 0 {
		return to
	}
	next := from + v
	if (v > 0 && next > to) || (v < 0 && next < to) {
		return to
	}
	return next
}
