package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/buxx/rollgui2-sub000/internal/animation"
	"github.com/buxx/rollgui2-sub000/internal/engine"
	"github.com/buxx/rollgui2-sub000/internal/render"
	"github.com/buxx/rollgui2-sub000/internal/zone"
)

// Раскладка экрана зоны.
const (
	leftWidth  = 16
	rightWidth = 28
	logHeight  = zone.DisplayUserLogCount
)

// zoneButtons - левая панель зоны. Порядок задает и клавиши F1..F10.
var zoneButtons = []struct {
	key   tcell.Key
	label string
	id    engine.ButtonID
}{
	{tcell.KeyF1, "F1  Actions", engine.ButtonMainActions},
	{tcell.KeyF2, "F2  Personnage", engine.ButtonCharacterCard},
	{tcell.KeyF3, "F3  Construire", engine.ButtonBuildActions},
	{tcell.KeyF4, "F4  Affinités", engine.ButtonAffinities},
	{tcell.KeyF5, "F5  Inventaire", engine.ButtonInventory},
	{tcell.KeyF6, "F6  Monde", engine.ButtonWorld},
	{tcell.KeyF7, "F7  Chat", engine.ButtonChat},
	{tcell.KeyF10, "F10 Quitter", engine.ButtonExit},
}

var zoneKeys = func() map[tcell.Key]engine.ButtonID {
	m := make(map[tcell.Key]engine.ButtonID, len(zoneButtons))
	for _, b := range zoneButtons {
		m[b.key] = b.id
	}
	return m
}()

var (
	styleExploitable = tcell.StyleDefault.Background(tcell.ColorOlive)
	stylePending     = tcell.StyleDefault.Background(tcell.ColorPurple)
	stylePlayer      = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleCharacter   = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	styleAnimation   = tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true)
)

var barColors = map[zone.BarColor]tcell.Color{
	zone.BarGreen:  tcell.ColorGreen,
	zone.BarYellow: tcell.ColorYellow,
	zone.BarRed:    tcell.ColorRed,
}

func (t *Term) drawZone(z *engine.Zone) {
	s := z.State
	w, h := t.screen.Size()

	top := s.TopBar.Message
	topStyle := styleDefault
	if s.TopBar.IsError() {
		topStyle = styleError
	}
	if z.Closing() {
		top, topStyle = "Fermeture de la zone", styleDim
	}
	t.text(0, 0, topStyle, top)
	if s.RequestClicks != nil {
		t.text(leftWidth, 1, styleNotice, "Cliquez sur la carte (Échap pour annuler)")
	}

	for i, b := range zoneButtons {
		label := b.label
		if b.id == engine.ButtonChat && s.Chat != nil && s.Chat.Unread {
			label += " *"
		}
		t.tallButton(0, 2+i*t.buttonHeight(), styleButton, label, engine.Press(b.id))
	}

	view := mapView{
		x: leftWidth,
		y: 2,
		w: max(1, w-leftWidth-rightWidth),
		h: max(1, h-2-logHeight-1),
	}
	if z.ChatOpen && s.Chat != nil {
		t.drawChat(s.Chat, view)
	} else {
		t.drawMap(z, view)
	}
	if z.Inventory != nil || z.InventoryLoading() {
		t.drawInventory(z, view)
	}

	y := t.drawResume(z, w-rightWidth+1, 2)
	t.drawQuickActions(s, w-rightWidth+1, y+1)

	logY := h - logHeight
	for i, l := range z.Logs {
		style := styleDefault
		if l.Level == zone.LogError {
			style = styleError
		}
		t.text(0, logY+i, style, l.Message)
	}
}

func (t *Term) drawMap(z *engine.Zone, view mapView) {
	s := z.State
	center := s.Display.Tile()
	view.row0 = center.Row - int32(view.h/2)
	view.col0 = center.Col - int32(view.w/2)
	t.view = &view

	marks := make(map[zone.Point]tcell.Style)
	if s.Action != nil {
		for i, et := range s.Action.ExploitableTiles {
			p := zone.Point{Row: et.ZoneRowI, Col: et.ZoneColI}
			marks[p] = styleExploitable
			if s.Pending.Has(i) {
				marks[p] = stylePending
			}
		}
	}
	put := func(row, col int32, r rune, style tcell.Style) {
		x, y := view.x+int(col-view.col0), view.y+int(row-view.row0)
		if !view.contains(x, y) {
			return
		}
		if m, ok := marks[zone.Point{Row: row, Col: col}]; ok {
			_, bg, _ := m.Decompose()
			style = style.Background(bg)
		}
		t.screen.SetContent(x, y, r, nil, style)
	}

	for dy := 0; dy < view.h; dy++ {
		for dx := 0; dx < view.w; dx++ {
			row, col := view.row0+int32(dy), view.col0+int32(dx)
			if !s.Map.InBounds(row, col) {
				continue
			}
			put(row, col, render.TileGlyph(s.Map.TileAt(row, col), s.TileDefs), styleDefault)
		}
	}
	for _, b := range s.Builds() {
		put(b.RowI, b.ColI, render.BuildGlyph(b), styleDefault)
	}
	for _, r := range s.Resources() {
		put(r.ZoneRowI, r.ZoneColI, render.GlyphResource, styleDefault)
	}
	for _, st := range s.Stuffs() {
		put(st.ZoneRowI, st.ZoneColI, render.GlyphStuff, styleDefault)
	}
	for _, c := range s.Characters {
		if c.ID == s.Player.ID {
			continue
		}
		put(c.ZoneRowI, c.ZoneColI, render.GlyphCharacter, styleCharacter)
	}
	z.Animations.Each(func(a animation.Animation) {
		p, ok := a.(animation.Placed)
		if !ok {
			return
		}
		row, col := p.Position()
		put(row, col, render.TileGlyph(p.TileID(), s.TileDefs), styleAnimation)
	})
	put(center.Row, center.Col, render.GlyphPlayer, stylePlayer)
}

func (t *Term) drawChat(chat *zone.Chat, view mapView) {
	t.text(view.x, view.y, styleTitle, "Chat")
	lines := view.h - 1
	messages := chat.Messages
	if len(messages) > lines {
		messages = messages[len(messages)-lines:]
	}
	for i, m := range messages {
		style := styleDefault
		if m.System {
			style = styleDim
		}
		t.text(view.x, view.y+1+i, style, m.Text())
	}
}

func (t *Term) drawInventory(z *engine.Zone, view mapView) {
	for dy := 0; dy < view.h; dy++ {
		for dx := 0; dx < view.w; dx++ {
			t.screen.SetContent(view.x+dx, view.y+dy, ' ', nil, styleDefault)
		}
	}
	t.text(view.x, view.y, styleTitle, "Inventaire")
	if z.Inventory == nil {
		t.text(view.x, view.y+1, styleDim, "Chargement de l'inventaire")
		return
	}

	inv := z.Inventory
	y := view.y + 1
	t.text(view.x, y, styleDim, fmt.Sprintf("Poids %.0f, encombrement %.0f", inv.Weight, inv.Clutter))
	y++
	for i, st := range inv.Stuff {
		if y >= view.y+view.h {
			return
		}
		label := st.Name
		if st.Count > 1 {
			label = fmt.Sprintf("%s (x%d)", st.Name, st.Count)
		}
		t.button(view.x, y, styleButton, label, engine.PressAt(engine.ButtonInventoryStuff, i))
		y++
	}
	for i, r := range inv.Resources {
		if y >= view.y+view.h {
			return
		}
		t.button(view.x, y, styleButton, fmt.Sprintf("%s (%s)", r.Name, r.Info), engine.PressAt(engine.ButtonInventoryResource, i))
		y++
	}
}

var (
	healthTexts = map[zone.Health]string{
		zone.HealthOk:       "Ok",
		zone.HealthMiddle:   "Moyen",
		zone.HealthBad:      "Mauvais",
		zone.HealthCritical: "Critique",
	}
	availabilityTexts = map[zone.Availability]string{
		zone.AvailableYes: "Oui",
		zone.AvailableLow: "Faible",
		zone.AvailableNo:  "Non",
	}
)

func barLine(name string, bar zone.ProgressBar) (string, tcell.Style) {
	return fmt.Sprintf("%s : %d%%", name, bar.Percent), styleDefault.Foreground(barColors[bar.Color])
}

// drawResume рисует сводку и счетчики вокруг. Мигающие строки пропускаются в фазе "скрыто".
func (t *Term) drawResume(z *engine.Zone, x, y int) int {
	s := z.State
	if s.Resume == nil {
		t.text(x, y, styleDim, "Pas de résumé")
		return y + 1
	}
	r := s.Resume

	type resumeLine struct {
		icon  zone.ResumeIcon
		text  string
		style tcell.Style
	}
	health := styleDefault
	if r.Health >= zone.HealthBad {
		health = styleError
	}
	hungry, hungryStyle := barLine("Faim", r.Hungry)
	thirsty, thirstyStyle := barLine("Soif", r.Thirsty)
	tiredness, tirednessStyle := barLine("Fatigue", r.Tiredness)
	lines := []resumeLine{
		{zone.IconHeart, "PV : " + healthTexts[r.Health], health},
		{zone.IconClock, fmt.Sprintf("PA : %.1f", r.ActionPoints), styleDefault},
		{zone.IconFood, hungry, hungryStyle},
		{zone.IconWater, thirsty, thirstyStyle},
		{zone.IconSleep, tiredness, tirednessStyle},
		{zone.IconHaveWater, "A boire : " + availabilityTexts[r.CanDrink], styleDefault},
		{zone.IconHaveFood, "A manger : " + availabilityTexts[r.CanEat], styleDefault},
		{zone.IconFollow, fmt.Sprintf("Suivis : %d", r.Follow), styleDefault},
		{zone.IconFollower, fmt.Sprintf("Suiveurs : %d", r.Follower), styleDefault},
		{zone.IconShield, fmt.Sprintf("Combattants : %d", r.Fighters), styleDefault},
		{"", fmt.Sprintf("Messages : %d", r.Messages), styleDefault},
	}
	for _, l := range lines {
		if b, ok := z.Blinks[l.icon]; ok && !b.Visible() {
			y++
			continue
		}
		t.text(x, y, l.style, l.text)
		y++
	}

	a := s.Around
	y++
	t.text(x, y, styleDim, fmt.Sprintf("Autour : %d objets, %d ress.", a.Stuff, a.Resource))
	t.text(x, y+1, styleDim, fmt.Sprintf("%d bâtiments, %d personnages", a.Build, a.Character))
	return y + 2
}

func (t *Term) drawQuickActions(s *zone.State, x, y int) {
	selected, hasSelected := s.SelectedQuickAction()
	for i, qa := range s.QuickActions {
		label := qa.Name
		if qa.QuickActionKey != nil {
			label = "[" + *qa.QuickActionKey + "] " + label
		}
		style := styleButton
		if hasSelected && i == selected {
			style = styleFocus
		}
		t.button(x, y+i, style, label, engine.PressAt(engine.ButtonQuickAction, i))
	}
}
