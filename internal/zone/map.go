package zone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/buxx/rollgui2-sub000/pkg/api"
)

const geoMarker = "::GEO"

var (
	ErrNoGeo           = errors.New("zone source has no ::GEO section")
	ErrUnknownZoneType = errors.New("unknown zone type")
	ErrEmptyMap        = errors.New("zone map is empty")
)

// Map - сетка тайлов зоны. Строка 0 - север.
// Строки могут быть разной длины, ширина карты - самая длинная строка.
type Map struct {
	Rows       [][]string
	Background string
	Width      int
	Height     int
}

// LoadMap разбирает ответ /zones/{row}/{col}.
// Тайлы - строки после маркера ::GEO до следующей секции "::" или конца текста.
func LoadMap(src api.ZoneSource) (*Map, error) {
	background, ok := BackgroundTile(src.ZoneTypeID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZoneType, src.ZoneTypeID)
	}

	lines := strings.Split(strings.ReplaceAll(src.RawSource, "\r\n", "\n"), "\n")
	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == geoMarker {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, ErrNoGeo
	}

	m := &Map{Background: background}
	for _, line := range lines[start:] {
		if strings.HasPrefix(line, "::") {
			break
		}
		row := make([]string, 0, len(line))
		for _, r := range line {
			row = append(row, TileForRune(r))
		}
		m.Rows = append(m.Rows, row)
		if len(row) > m.Width {
			m.Width = len(row)
		}
	}

	// Хвостовые пустые строки (перевод строки в конце файла) не часть карты.
	for len(m.Rows) > 0 && len(m.Rows[len(m.Rows)-1]) == 0 {
		m.Rows = m.Rows[:len(m.Rows)-1]
	}
	m.Height = len(m.Rows)
	if m.Height == 0 || m.Width == 0 {
		return nil, ErrEmptyMap
	}
	return m, nil
}

// NewMap строит карту из готовых строк (тесты, отладка).
func NewMap(rows [][]string, background string) *Map {
	m := &Map{Rows: rows, Background: background, Height: len(rows)}
	for _, row := range rows {
		if len(row) > m.Width {
			m.Width = len(row)
		}
	}
	return m
}

// InBounds проверяет, что клетка существует в сетке.
func (m *Map) InBounds(row, col int32) bool {
	if row < 0 || col < 0 || int(row) >= m.Height {
		return false
	}
	return int(col) < len(m.Rows[row])
}

// TileAt возвращает id тайла или "" вне карты.
func (m *Map) TileAt(row, col int32) string {
	if !m.InBounds(row, col) {
		return ""
	}
	return m.Rows[row][col]
}

// ReplaceTile меняет тайл. Координаты вне карты игнорируются.
func (m *Map) ReplaceTile(row, col int32, tileID string) bool {
	if !m.InBounds(row, col) {
		return false
	}
	m.Rows[row][col] = tileID
	return true
}

// ConcreteSize - размер карты в пикселях при заданном размере тайла.
func (m *Map) ConcreteSize(tileWidth, tileHeight int) (int, int) {
	return m.Width * tileWidth, m.Height * tileHeight
}
