package term

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/buxx/rollgui2-sub000/internal/engine"
	"github.com/buxx/rollgui2-sub000/internal/zone"
	"github.com/buxx/rollgui2-sub000/pkg/api"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	logger.Discard()
	os.Exit(m.Run())
}

func newTestTerm(t *testing.T, cancel context.CancelFunc) (*Term, tcell.SimulationScreen) {
	t.Helper()
	return newTestTermLayout(t, cancel, false)
}

func newTestTermLayout(t *testing.T, cancel context.CancelFunc, mobile bool) (*Term, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term, err := New(sim, cancel, mobile)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	sim.SetSize(80, 25)
	t.Cleanup(term.Close)
	return term, sim
}

func screenText(sim tcell.SimulationScreen) string {
	cells, w, h := sim.GetContents()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) > 0 {
				b.WriteRune(c.Runes[0])
			} else {
				b.WriteRune(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func findHit(t *testing.T, term *Term, want engine.Input) hit {
	t.Helper()
	for _, h := range term.hits {
		if h.input == want {
			return h
		}
	}
	t.Fatalf("no clickable area for %v", want)
	return hit{}
}

func TestTranslateKey(t *testing.T) {
	term, _ := newTestTerm(t, nil)

	tests := []struct {
		name string
		kind engine.Kind
		ev   *tcell.EventKey
		want engine.Input
	}{
		{"rune", engine.KindRoot, tcell.NewEventKey(tcell.KeyRune, 'é', tcell.ModNone), engine.KeyPress{Key: engine.KeyRune, Rune: 'é'}},
		{"escape", engine.KindZone, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), engine.KeyPress{Key: engine.KeyEscape}},
		{"backspace", engine.KindRoot, tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), engine.KeyPress{Key: engine.KeyBackspace}},
		{"arrow", engine.KindZone, tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), engine.KeyPress{Key: engine.KeyUp}},
		{"zone inventory", engine.KindZone, tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), engine.Press(engine.ButtonInventory)},
		{"zone exit", engine.KindZone, tcell.NewEventKey(tcell.KeyF10, 0, tcell.ModNone), engine.Press(engine.ButtonExit)},
		{"root quit", engine.KindRoot, tcell.NewEventKey(tcell.KeyF10, 0, tcell.ModNone), engine.Press(engine.ButtonQuit)},
		{"description close", engine.KindDescription, tcell.NewEventKey(tcell.KeyF10, 0, tcell.ModNone), engine.Press(engine.ButtonClose)},
		{"unbound", engine.KindLoadZone, tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term.kind = tt.kind
			got, ok := term.translateKey(tt.ev)
			if tt.want == nil {
				if ok {
					t.Errorf("translateKey() = %v, want nothing", got)
				}
				return
			}
			if !ok || got != tt.want {
				t.Errorf("translateKey() = %v, %v, want %v", got, ok, tt.want)
			}
		})
	}
}

func TestCtrlCCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	term, _ := newTestTerm(t, cancel)

	if _, ok := term.translateKey(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)); ok {
		t.Error("Ctrl-C produced an input")
	}
	if ctx.Err() == nil {
		t.Error("context not canceled by Ctrl-C")
	}
}

func TestDrawRoot(t *testing.T) {
	term, sim := newTestTerm(t, nil)
	r := engine.NewRoot(nil, "", "", engine.AccountCreatedNotice)
	r.Login = "bob"
	r.Password = "secret"

	term.Draw(r, engine.Frame{})
	text := screenText(sim)
	for _, want := range []string{"Identifiant", "bob", "******", engine.AccountCreatedNotice, "Connexion"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen has no %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "secret") {
		t.Error("password drawn in clear")
	}

	h := findHit(t, term, engine.Press(engine.ButtonLogin))
	if got, ok := term.click(h.x+1, h.y); !ok || got != engine.Press(engine.ButtonLogin) {
		t.Errorf("click() = %v, %v, want login", got, ok)
	}
	if _, ok := term.click(0, 0); ok {
		t.Error("click outside buttons produced an input")
	}
}

func TestInputsFromEvents(t *testing.T) {
	term, sim := newTestTerm(t, nil)
	term.Draw(engine.NewRoot(nil, "", "", ""), engine.Frame{})

	sim.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	sim.InjectKey(tcell.KeyF10, 0, tcell.ModNone)

	var got []engine.Input
	deadline := time.Now().Add(time.Second)
	for len(got) < 2 && time.Now().Before(deadline) {
		got = append(got, term.Inputs()...)
		time.Sleep(5 * time.Millisecond)
	}
	want := []engine.Input{engine.KeyPress{Key: engine.KeyRune, Rune: 'a'}, engine.Press(engine.ButtonQuit)}
	if len(got) != len(want) {
		t.Fatalf("Inputs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("input %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMouseClickOnce(t *testing.T) {
	term, _ := newTestTerm(t, nil)
	term.Draw(engine.NewError("Erreur : boom"), engine.Frame{})

	press := tcell.NewEventMouse(3, 3, tcell.Button1, tcell.ModNone)
	if got, ok := term.translate(press); !ok || got != engine.Press(engine.ButtonBack) {
		t.Errorf("translate(press) = %v, %v, want back", got, ok)
	}
	// Кнопка все еще зажата: повторного клика нет.
	if _, ok := term.translate(tcell.NewEventMouse(4, 3, tcell.Button1, tcell.ModNone)); ok {
		t.Error("drag produced a second click")
	}
	term.translate(tcell.NewEventMouse(4, 3, tcell.ButtonNone, tcell.ModNone))
	if _, ok := term.translate(press); !ok {
		t.Error("click after release ignored")
	}
}

func testZone(t *testing.T) *engine.Zone {
	t.Helper()
	state, err := zone.NewState(zone.Snapshot{
		Player: api.Character{ID: "player", Name: "Bob", ZoneRowI: 0, ZoneColI: 0},
		Source: api.ZoneSource{RawSource: "::GEO\n⁖⁖⁖⁖⁖\n⁖#⁖⁖⁖\n⁖⁖⁖⁖⁖\n", ZoneTypeID: "PLAIN"},
		Tiles: []api.Tile{
			{ID: "DIRT", Char: "⁖", Traversable: map[string]bool{api.TransportWalking: true}},
			{ID: "ROCK", Char: "#", Traversable: map[string]bool{api.TransportWalking: false}},
		},
		Characters: []api.Character{{ID: "other", ZoneRowI: 2, ZoneColI: 2}},
	}, 32, 32)
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	key := "c"
	state.QuickActions = []api.QuickAction{{UUID: "u1", Name: "Cueillir", BaseURL: "/collect", QuickActionKey: &key}}
	state.TopBar = zone.TopBar{Message: "Bienvenue"}
	return &engine.Zone{
		State: state,
		Logs:  []zone.UserLog{zone.InfoLog("Vous arrivez"), zone.ErrorLog("Trop lourd")},
	}
}

func TestDrawZone(t *testing.T) {
	term, sim := newTestTerm(t, nil)
	z := testZone(t)

	term.Draw(z, engine.Frame{})
	text := screenText(sim)
	for _, want := range []string{"Bienvenue", "F5  Inventaire", "[c] Cueillir", "Vous arrivez", "Trop lourd", "@", "#"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen has no %q:\n%s", want, text)
		}
	}

	v := term.view
	if v == nil {
		t.Fatal("map view not recorded")
	}
	x, y := v.x+int(1-v.col0), v.y+int(1-v.row0)
	if got, ok := term.click(x, y); !ok || got != (engine.TileClick{Row: 1, Col: 1}) {
		t.Errorf("click(map) = %v, %v, want tile 1.1", got, ok)
	}
	h := findHit(t, term, engine.PressAt(engine.ButtonQuickAction, 0))
	if got, _ := term.click(h.x, h.y); got != engine.PressAt(engine.ButtonQuickAction, 0) {
		t.Errorf("click(quick action) = %v", got)
	}
}

func TestZoneButtonsLayout(t *testing.T) {
	tests := []struct {
		name       string
		mobile     bool
		wantCardY  int
		belowLabel engine.Input
	}{
		{name: "desktop", mobile: false, wantCardY: 3, belowLabel: engine.Press(engine.ButtonCharacterCard)},
		{name: "mobile", mobile: true, wantCardY: 4, belowLabel: engine.Press(engine.ButtonMainActions)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, _ := newTestTermLayout(t, nil, tt.mobile)
			term.Draw(testZone(t), engine.Frame{})

			actions := findHit(t, term, engine.Press(engine.ButtonMainActions))
			card := findHit(t, term, engine.Press(engine.ButtonCharacterCard))
			if card.y != tt.wantCardY {
				t.Errorf("card.y = %d, want %d", card.y, tt.wantCardY)
			}
			if got, ok := term.click(actions.x, actions.y+1); !ok || got != tt.belowLabel {
				t.Errorf("click(below actions) = %v, %v, want %v", got, ok, tt.belowLabel)
			}
		})
	}
}

func TestDrawZoneInventory(t *testing.T) {
	term, sim := newTestTerm(t, nil)
	z := testZone(t)
	z.Inventory = &api.Inventory{
		Stuff:     []api.InventoryStuff{{IDs: []int32{7}, Name: "Hache", Count: 2}},
		Resources: []api.InventoryResource{{ID: "WOOD", Name: "Bois", Info: "3 kg"}},
	}

	term.Draw(z, engine.Frame{})
	text := screenText(sim)
	for _, want := range []string{"Inventaire", "Hache (x2)", "Bois (3 kg)"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen has no %q:\n%s", want, text)
		}
	}
	h := findHit(t, term, engine.PressAt(engine.ButtonInventoryResource, 0))
	if got, _ := term.click(h.x, h.y); got != engine.PressAt(engine.ButtonInventoryResource, 0) {
		t.Errorf("click(resource) = %v, want the inventory line before the map", got)
	}
}

func TestDrawError(t *testing.T) {
	term, sim := newTestTerm(t, nil)
	term.Draw(engine.NewError("Erreur : serveur indisponible"), engine.Frame{})
	if text := screenText(sim); !strings.Contains(text, "Erreur : serveur indisponible") {
		t.Errorf("screen has no reason:\n%s", text)
	}
}
