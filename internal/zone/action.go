package zone

import (
	"github.com/oklog/ulid/v2"

	"github.com/buxx/rollgui2-sub000/pkg/api"
)

// Action - выбранное игроком быстрое действие, готовое к вызову.
// Живет до завершения, отмены или пока сервер присылает QuickAction с тем же BaseURL.
type Action struct {
	UUID             string
	Name             string
	PostURL          string
	ExploitableTiles []api.ExploitableTile
	AllTilesAtOnce   bool
	Direct           bool
}

func NewAction(qa api.QuickAction) *Action {
	tiles := make([]api.ExploitableTile, len(qa.ExploitableTiles))
	copy(tiles, qa.ExploitableTiles)
	return &Action{
		UUID:             qa.UUID,
		Name:             qa.Name,
		PostURL:          qa.BaseURL,
		ExploitableTiles: tiles,
		AllTilesAtOnce:   qa.AllTilesAtOnce,
		Direct:           qa.DirectAction,
	}
}

// TileIndex ищет клетку среди применимых к действию.
func (a *Action) TileIndex(row, col int32) (int, bool) {
	for i, t := range a.ExploitableTiles {
		if t.ZoneRowI == row && t.ZoneColI == col {
			return i, true
		}
	}
	return 0, false
}

// Pending - клетки, запрос по которым уже отправлен, но ответ еще не пришел.
// CorrelationID связывает набор с конкретным запросом быстрого действия.
type Pending struct {
	CorrelationID string
	Tiles         map[int]struct{}
}

// Arm заменяет набор и выдает новый correlation id.
func (p *Pending) Arm(indexes ...int) string {
	p.CorrelationID = ulid.Make().String()
	p.Tiles = make(map[int]struct{}, len(indexes))
	for _, i := range indexes {
		p.Tiles[i] = struct{}{}
	}
	return p.CorrelationID
}

func (p *Pending) Reset() {
	p.CorrelationID = ""
	p.Tiles = nil
}

func (p *Pending) Has(i int) bool {
	_, ok := p.Tiles[i]
	return ok
}

func (p *Pending) Clear(i int) {
	delete(p.Tiles, i)
}

func (p *Pending) Len() int {
	return len(p.Tiles)
}

// SelectQuickAction выбирает действие по индексу. Неверный индекс снимает выбор.
func (s *State) SelectQuickAction(i int) *Action {
	s.Pending.Reset()
	if i < 0 || i >= len(s.QuickActions) {
		s.Action = nil
		return nil
	}
	s.Action = NewAction(s.QuickActions[i])
	return s.Action
}

// UseRequestClick отдает взведенный запрос кликов. Одноразовый запрос снимается.
func (s *State) UseRequestClick() (*api.RequestClicks, bool) {
	rc := s.RequestClicks
	if rc == nil {
		return nil, false
	}
	if !rc.Many {
		s.RequestClicks = nil
	}
	return rc, true
}

// Deselect снимает выбранное действие и запрос кликов.
func (s *State) Deselect() {
	s.Action = nil
	s.Pending.Reset()
	s.RequestClicks = nil
}

// SelectedQuickAction - индекс QuickAction, из которого создано текущее действие.
func (s *State) SelectedQuickAction() (int, bool) {
	if s.Action == nil {
		return 0, false
	}
	for i, qa := range s.QuickActions {
		if qa.BaseURL == s.Action.PostURL {
			return i, true
		}
	}
	return 0, false
}

// ArmExploitableTile помечает клетки как ожидающие ответа после клика по tileIndex.
func (s *State) ArmExploitableTile(tileIndex int) string {
	if s.Action == nil {
		return ""
	}
	if s.Action.AllTilesAtOnce {
		all := make([]int, len(s.Action.ExploitableTiles))
		for i := range all {
			all[i] = i
		}
		return s.Pending.Arm(all...)
	}
	return s.Pending.Arm(tileIndex)
}

// ClearPendingAt снимает ожидание с клетки, если запрос correlationID еще актуален.
// Пустой correlationID - позиционная сверка (NEW_BUILD).
func (s *State) ClearPendingAt(correlationID string, row, col int32) bool {
	if s.Action == nil || s.Pending.Len() == 0 {
		return false
	}
	if correlationID != "" && correlationID != s.Pending.CorrelationID {
		return false
	}
	i, ok := s.Action.TileIndex(row, col)
	if !ok || !s.Pending.Has(i) {
		return false
	}
	s.Pending.Clear(i)
	return true
}
