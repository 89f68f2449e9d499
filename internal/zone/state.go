package zone

import (
	"fmt"
	"sort"

	"github.com/buxx/rollgui2-sub000/pkg/api"
)

// Point - клетка зоны (row, col).
type Point struct {
	Row int32
	Col int32
}

func (p Point) String() string {
	return fmt.Sprintf("%d.%d", p.Row, p.Col)
}

// Snapshot - результат пакетной загрузки зоны (LoadZone).
type Snapshot struct {
	Player     api.Character
	Source     api.ZoneSource
	Tiles      []api.Tile
	Characters []api.Character
	Resources  []api.Resource
	Stuffs     []api.Stuff
	Builds     []api.Build
}

// Around - счетчики последнего THERE_IS_AROUND.
type Around struct {
	Stuff     int32
	Resource  int32
	Build     int32
	Character int32
}

// State - локальное зеркало одной зоны.
// Поля снаружи только читаются. Изменяют их методы State: Reduce для событий
// сервера, движок зоны для действий игрока.
type State struct {
	Map        *Map
	TileDefs   map[string]api.Tile
	Player     api.Character
	Display    PlayerDisplay
	Characters map[string]api.Character

	builds    map[int32]api.Build
	buildAt   map[Point]int32
	stuffs    map[int32]api.Stuff
	resources []api.Resource

	// AnimatedCorpses - последние известные позиции ожившых трупов.
	AnimatedCorpses map[int32]Point

	QuickActions  []api.QuickAction
	Action        *Action
	Pending       Pending
	RequestClicks *api.RequestClicks
	Around        Around

	Chat   *Chat
	TopBar TopBar
	Resume *Resume

	tileWidth  int
	tileHeight int
}

// NewState создает зеркало зоны из снимка. Сущности вне сетки отбрасываются.
func NewState(snap Snapshot, tileWidth, tileHeight int) (*State, error) {
	m, err := LoadMap(snap.Source)
	if err != nil {
		return nil, fmt.Errorf("load zone map: %w", err)
	}
	if !m.InBounds(snap.Player.ZoneRowI, snap.Player.ZoneColI) {
		return nil, fmt.Errorf("player position %d.%d is outside of zone %dx%d",
			snap.Player.ZoneRowI, snap.Player.ZoneColI, m.Height, m.Width)
	}

	s := &State{
		Map:        m,
		TileDefs:   make(map[string]api.Tile, len(snap.Tiles)),
		Player:     snap.Player,
		Characters: make(map[string]api.Character, len(snap.Characters)),
		builds:     make(map[int32]api.Build, len(snap.Builds)),
		buildAt:    make(map[Point]int32, len(snap.Builds)),
		stuffs:     make(map[int32]api.Stuff, len(snap.Stuffs)),
		Chat:       NewChat(),
		tileWidth:  tileWidth,
		tileHeight: tileHeight,
	}
	s.Display = NewPlayerDisplay(snap.Player, tileWidth, tileHeight)

	for _, t := range snap.Tiles {
		s.TileDefs[t.ID] = t
	}
	for _, c := range snap.Characters {
		s.PutCharacter(c)
	}
	for _, b := range snap.Builds {
		s.PutBuild(b)
	}
	for _, st := range snap.Stuffs {
		s.PutStuff(st)
	}
	for _, r := range snap.Resources {
		s.AddResource(r)
	}
	return s, nil
}

func (s *State) TileSize() (int, int) {
	return s.tileWidth, s.tileHeight
}

// --- ПЕРСОНАЖИ ---

func (s *State) PutCharacter(c api.Character) bool {
	if !s.Map.InBounds(c.ZoneRowI, c.ZoneColI) {
		return false
	}
	s.Characters[c.ID] = c
	return true
}

func (s *State) RemoveCharacter(id string) bool {
	if _, ok := s.Characters[id]; !ok {
		return false
	}
	delete(s.Characters, id)
	return true
}

// MoveCharacter перемещает известного персонажа. Игрок двигается только локально.
func (s *State) MoveCharacter(id string, row, col int32) bool {
	c, ok := s.Characters[id]
	if !ok || id == s.Player.ID || !s.Map.InBounds(row, col) {
		return false
	}
	c.ZoneRowI, c.ZoneColI = row, col
	s.Characters[id] = c
	return true
}

// --- ИГРОК ---

// WalkPlayer начинает шаг игрока. В непроходимую клетку игрок только
// поворачивается. Во время шага новый не начинается.
func (s *State) WalkPlayer(dir Direction) bool {
	if s.Display.Moving() {
		return false
	}
	dr, dc := dir.Offset()
	to := Point{Row: s.Player.ZoneRowI + dr, Col: s.Player.ZoneColI + dc}
	if !s.Walkable(to.Row, to.Col) {
		s.Display.Facing = dir
		return false
	}
	s.Display.WalkTo(dir, to)
	return true
}

// StepPlayer продвигает отображение на кадр. Когда игрок дошел,
// позиция подтверждается и возвращается клетка прибытия.
func (s *State) StepPlayer() (Point, bool) {
	to, arrived := s.Display.Step()
	if arrived {
		s.ConfirmPlayerMove(to)
	}
	return to, arrived
}

// ConfirmPlayerMove записывает новую клетку игрока.
func (s *State) ConfirmPlayerMove(to Point) bool {
	if !s.Map.InBounds(to.Row, to.Col) {
		return false
	}
	s.Player.ZoneRowI, s.Player.ZoneColI = to.Row, to.Col
	return true
}

// --- ПОСТРОЙКИ ---

// PutBuild вставляет или перезаписывает постройку по id.
func (s *State) PutBuild(b api.Build) bool {
	if !s.Map.InBounds(b.RowI, b.ColI) {
		return false
	}
	if old, ok := s.builds[b.ID]; ok {
		oldPos := Point{old.RowI, old.ColI}
		if s.buildAt[oldPos] == b.ID {
			delete(s.buildAt, oldPos)
		}
	}
	s.builds[b.ID] = b
	s.buildAt[Point{b.RowI, b.ColI}] = b.ID
	return true
}

// RemoveBuildsAt удаляет все постройки на клетке. Возвращает число удаленных.
func (s *State) RemoveBuildsAt(row, col int32) int {
	removed := 0
	for id, b := range s.builds {
		if b.RowI == row && b.ColI == col {
			delete(s.builds, id)
			removed++
		}
	}
	delete(s.buildAt, Point{row, col})
	return removed
}

func (s *State) Build(id int32) (api.Build, bool) {
	b, ok := s.builds[id]
	return b, ok
}

func (s *State) BuildAt(row, col int32) (api.Build, bool) {
	id, ok := s.buildAt[Point{row, col}]
	if !ok {
		return api.Build{}, false
	}
	return s.builds[id], true
}

// Builds возвращает постройки, упорядоченные по id.
func (s *State) Builds() []api.Build {
	out := make([]api.Build, 0, len(s.builds))
	for _, b := range s.builds {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *State) BuildCount() int {
	return len(s.builds)
}

// --- ПРЕДМЕТЫ ---

func (s *State) PutStuff(st api.Stuff) bool {
	if !s.Map.InBounds(st.ZoneRowI, st.ZoneColI) {
		return false
	}
	s.stuffs[st.ID] = st
	return true
}

func (s *State) RemoveStuff(id int32) bool {
	if _, ok := s.stuffs[id]; !ok {
		return false
	}
	delete(s.stuffs, id)
	return true
}

func (s *State) Stuff(id int32) (api.Stuff, bool) {
	st, ok := s.stuffs[id]
	return st, ok
}

// Stuffs возвращает предметы, упорядоченные по id.
func (s *State) Stuffs() []api.Stuff {
	out := make([]api.Stuff, 0, len(s.stuffs))
	for _, st := range s.stuffs {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *State) StuffCount() int {
	return len(s.stuffs)
}

// --- РЕСУРСЫ ---

// AddResource добавляет ресурс. Тот же ресурс на той же клетке не дублируется.
func (s *State) AddResource(r api.Resource) bool {
	if !s.Map.InBounds(r.ZoneRowI, r.ZoneColI) {
		return false
	}
	for _, existing := range s.resources {
		if existing == r {
			return false
		}
	}
	s.resources = append(s.resources, r)
	return true
}

// RemoveResource удаляет ресурс с клетки.
func (s *State) RemoveResource(id string, row, col int32) bool {
	for i, r := range s.resources {
		if r.ID == id && r.ZoneRowI == row && r.ZoneColI == col {
			s.resources = append(s.resources[:i], s.resources[i+1:]...)
			return true
		}
	}
	return false
}

// ResourcesAt возвращает ресурсы клетки в порядке появления.
func (s *State) ResourcesAt(row, col int32) []api.Resource {
	var out []api.Resource
	for _, r := range s.resources {
		if r.ZoneRowI == row && r.ZoneColI == col {
			out = append(out, r)
		}
	}
	return out
}

func (s *State) Resources() []api.Resource {
	return s.resources
}

// --- ПРОХОДИМОСТЬ ---

// Walkable сообщает, может ли игрок встать на клетку.
// Неизвестный тип тайла считается проходимым: сервер все равно проверит ход.
func (s *State) Walkable(row, col int32) bool {
	tileID := s.Map.TileAt(row, col)
	if tileID == "" || tileID == TileNothing {
		return false
	}
	if def, ok := s.TileDefs[tileID]; ok && !def.Traversable[api.TransportWalking] {
		return false
	}
	if b, ok := s.BuildAt(row, col); ok && !b.IsFloor && !b.Walkable() {
		return false
	}
	return true
}
