package engine

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/buxx/rollgui2-sub000/internal/event"
	"github.com/buxx/rollgui2-sub000/internal/transport"
	"github.com/buxx/rollgui2-sub000/internal/zone"
	"github.com/buxx/rollgui2-sub000/pkg/api"
)

func strPtr(s string) *string { return &s }

// newTestZone - зона 3x5 из грязи со скалой в 1.1, игрок в 0.0.
func newTestZone(t *testing.T) (*Zone, *fakeClient) {
	t.Helper()
	state, err := zone.NewState(zone.Snapshot{
		Player: api.Character{ID: "player", Name: "Bob", WorldRowI: 3, WorldColI: 4},
		Source: api.ZoneSource{RawSource: "::GEO\n⁖⁖⁖⁖⁖\n⁖#⁖⁖⁖\n⁖⁖⁖⁖⁖\n", ZoneTypeID: "PLAIN"},
		Tiles: []api.Tile{
			{ID: "DIRT", Traversable: map[string]bool{api.TransportWalking: true}},
			{ID: "ROCK", Traversable: map[string]bool{api.TransportWalking: false}},
		},
	}, 32, 32)
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	client := newFakeClient()
	z := NewZone(Session{Client: client, CharacterID: "player"}, testSettings, state)
	client.channel.sent = nil
	return z, client
}

func zoneTick(z *Zone, frame int64, inputs ...Input) []Message {
	return z.Tick(Frame{Frame: frame, Frames: 1, Now: time.Unix(0, 0)}, inputs)
}

func collect(baseURL string, tiles ...api.ExploitableTile) api.QuickAction {
	return api.QuickAction{UUID: "u-" + baseURL, Name: baseURL, BaseURL: baseURL, ExploitableTiles: tiles}
}

func TestZoneDial(t *testing.T) {
	state, err := zone.NewState(zone.Snapshot{
		Player: api.Character{ID: "player", ZoneRowI: 1, ZoneColI: 2},
		Source: api.ZoneSource{RawSource: "::GEO\n⁖⁖⁖\n⁖⁖⁖\n", ZoneTypeID: "PLAIN"},
	}, 32, 32)
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	client := newFakeClient()
	z := NewZone(Session{Client: client, CharacterID: "player"}, testSettings, state)

	if client.dialed != 1 {
		t.Errorf("dialed = %d, want 1", client.dialed)
	}
	want := []string{event.TagClientRequireAround, event.TagClientRequireResumeText}
	if got := client.channel.sentTags(); !slices.Equal(got, want) {
		t.Errorf("sent = %v, want %v", got, want)
	}
	if around, ok := client.channel.sent[0].(event.ClientRequireAround); !ok || around.ZoneRowI != 1 || around.ZoneColI != 2 {
		t.Errorf("first event = %+v, want around 1.2", client.channel.sent[0])
	}

	z.Close()
	if !client.channel.closed {
		t.Error("Close() did not close the channel")
	}
}

func TestZoneWalk(t *testing.T) {
	z, client := newTestZone(t)

	zoneTick(z, 1, key(KeyRight))
	if !z.State.Display.Moving() {
		t.Fatal("player is not moving after KeyRight")
	}
	// Во время шага новые нажатия игнорируются.
	zoneTick(z, 2, key(KeyDown))

	z.Tick(Frame{Frame: 12, Frames: 10, Now: time.Unix(0, 0)}, nil)
	if z.State.Display.Moving() {
		t.Fatal("player still moving after 10 frames")
	}
	if p := z.State.Player; p.ZoneRowI != 0 || p.ZoneColI != 1 {
		t.Errorf("player at %d.%d, want 0.1", p.ZoneRowI, p.ZoneColI)
	}
	want := []string{event.TagPlayerMove, event.TagClientRequireAround}
	if got := client.channel.sentTags(); !slices.Equal(got, want) {
		t.Errorf("sent = %v, want %v", got, want)
	}
	if move := client.channel.sent[0].(event.PlayerMove); move.ToRowI != 0 || move.ToColI != 1 || move.CharacterID != "player" {
		t.Errorf("move = %+v, want player to 0.1", move)
	}

	// 0.1 -> 1.1 - скала.
	zoneTick(z, 13, key(KeyDown))
	if z.State.Display.Moving() {
		t.Error("player walks into rock")
	}
	if z.State.Display.Facing != zone.South {
		t.Errorf("Facing = %v, want south", z.State.Display.Facing)
	}
}

func TestZoneEvents(t *testing.T) {
	z, client := newTestZone(t)

	client.channel.push(event.NewBuild{
		Build: api.Build{
			ID: 7, BuildID: "PLANK", RowI: 2, ColI: 1, Classes: []string{"PLANK"},
			Traversable: map[string]bool{api.TransportWalking: true},
		},
		ProducedStuffID: strPtr("PLANK"),
	})
	client.channel.inbox = append(client.channel.inbox, []byte(`{"type":"NOPE","data":{}}`))
	client.channel.push(event.CharacterEnter{ZoneRowI: 2, ZoneColI: 2, CharacterID: "other"})

	if msgs := zoneTick(z, 1); len(msgs) != 0 {
		t.Fatalf("messages = %v, want none", msgs)
	}
	if z.State.BuildCount() != 1 {
		t.Errorf("BuildCount() = %d, want 1", z.State.BuildCount())
	}
	if z.Animations.Len() != 1 {
		t.Errorf("Animations.Len() = %d, want 1", z.Animations.Len())
	}
	if _, ok := z.State.Characters["other"]; !ok {
		t.Error("event after the broken one was not applied")
	}
	if len(z.Logs) != 1 || z.Logs[0].Level != zone.LogError {
		t.Fatalf("Logs = %+v, want one error line", z.Logs)
	}
	if !strings.HasPrefix(z.Logs[0].Message, "Erreur de lecture d'un événement") {
		t.Errorf("log = %q, want decode error line", z.Logs[0].Message)
	}
}

func TestZoneLogsCapped(t *testing.T) {
	z, client := newTestZone(t)
	for i := 0; i < zone.DisplayUserLogCount+3; i++ {
		client.channel.inbox = append(client.channel.inbox, []byte(`not json`))
	}
	zoneTick(z, 1)
	if len(z.Logs) != zone.DisplayUserLogCount {
		t.Errorf("Logs = %d, want %d", len(z.Logs), zone.DisplayUserLogCount)
	}
}

func TestZoneExit(t *testing.T) {
	z, client := newTestZone(t)

	// Разрешение без запроса выхода ничего не делает.
	client.channel.push(event.ServerPermitClose{})
	if msgs := zoneTick(z, 1); len(msgs) != 0 {
		t.Fatalf("messages = %v, want none", msgs)
	}

	if msgs := zoneTick(z, 2, Press(ButtonExit)); len(msgs) != 0 {
		t.Fatalf("messages = %v, want none while waiting for the server", msgs)
	}
	if !z.Closing() {
		t.Error("Closing() = false after exit")
	}
	if got := client.channel.sentTags(); !slices.Equal(got, []string{event.TagClientWantClose}) {
		t.Errorf("sent = %v, want CLIENT_WANT_CLOSE", got)
	}

	client.channel.push(event.ServerPermitClose{})
	only[Quit](t, zoneTick(z, 3))
}

func TestZoneExitWithoutChannel(t *testing.T) {
	z, client := newTestZone(t)
	client.channel.sendErr = transport.ErrClosed
	only[Quit](t, zoneTick(z, 1, Press(ButtonExit)))
}

func TestZoneChannelLost(t *testing.T) {
	z, client := newTestZone(t)
	client.channel.state = transport.ChannelClosed
	client.channel.err = errors.New("connection reset")

	m := only[SetErrorEngine](t, zoneTick(z, 1))
	if m.Reason != "Connexion au serveur perdue : connection reset" {
		t.Errorf("Reason = %q", m.Reason)
	}
}

func TestZoneQuickAction(t *testing.T) {
	z, client := newTestZone(t)
	client.channel.push(event.ThereIsAround{QuickActions: []api.QuickAction{
		collect("/collect", api.ExploitableTile{ZoneRowI: 1, ZoneColI: 0}),
	}})
	zoneTick(z, 1)

	zoneTick(z, 2, PressAt(ButtonQuickAction, 0))
	if i, ok := z.State.SelectedQuickAction(); !ok || i != 0 {
		t.Fatalf("SelectedQuickAction() = %d, %v, want 0, true", i, ok)
	}

	zoneTick(z, 3, TileClick{Row: 1, Col: 0})
	if !client.called("quick_action u-/collect") {
		t.Fatalf("quick action not requested (calls: %v)", client.calls)
	}
	if client.lastRow == nil || *client.lastRow != 1 {
		t.Errorf("row = %v, want 1", client.lastRow)
	}
	if !z.State.Pending.Has(0) {
		t.Error("tile not pending after the click")
	}
	// Повторный клик по ожидающей клетке не шлет второй запрос.
	zoneTick(z, 4, TileClick{Row: 1, Col: 0})
	if n := len(client.calls); n != 1 {
		t.Errorf("calls = %v, want one request", client.calls)
	}
	if z.InFlight() != 1 {
		t.Errorf("InFlight() = %d, want 1", z.InFlight())
	}

	client.resolve(t, "quick_action u-/collect", `{"quick_action_response":"Ok","exploitable_success":[1,0]}`)
	if msgs := zoneTick(z, 5); len(msgs) != 0 {
		t.Fatalf("messages = %v, want none", msgs)
	}
	if z.State.Pending.Has(0) {
		t.Error("tile still pending after success")
	}
	if len(z.Logs) != 1 || z.Logs[0].Message != "Ok" {
		t.Errorf("Logs = %+v, want Ok", z.Logs)
	}
	if got := client.channel.sentTags(); !slices.Contains(got, event.TagClientRequireResumeText) {
		t.Errorf("sent = %v, want a resume request", got)
	}

	// Клик мимо снимает выбор.
	zoneTick(z, 6, TileClick{Row: 2, Col: 4})
	if z.State.Action != nil {
		t.Error("click outside exploitable tiles kept the selection")
	}
}

func TestZoneQuickActionResults(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want string
	}{
		{name: "reload zone", body: `{"reload_zone":true}`, want: "load_zone"},
		{name: "page", body: `{"title":"Ramasser","items":[{"text":"Combien ?"}]}`, want: "description"},
		{name: "server error", err: &transport.Error{Status: 400, Message: "Trop loin"}, want: "log"},
		{name: "broken body", body: `{`, want: "log"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, client := newTestZone(t)
			if tt.err != nil {
				client.respondErr("quick_action u-/pick", tt.err)
			} else {
				client.respond("quick_action u-/pick", tt.body)
			}
			client.channel.push(event.ThereIsAround{QuickActions: []api.QuickAction{
				{UUID: "u-/pick", Name: "pick", BaseURL: "/pick", DirectAction: true},
			}})
			zoneTick(z, 1)

			// Ответ уже готов: он опрашивается в том же тике, что и клик.
			msgs := zoneTick(z, 2, PressAt(ButtonQuickAction, 0))
			switch tt.want {
			case "load_zone":
				only[SetLoadZoneEngine](t, msgs)
			case "description":
				m := only[SetDescriptionEngine](t, msgs)
				if m.Page.Title() != "Ramasser" {
					t.Errorf("Title() = %q, want Ramasser", m.Page.Title())
				}
			case "log":
				if len(msgs) != 0 {
					t.Fatalf("messages = %v, want none", msgs)
				}
				if len(z.Logs) != 1 || z.Logs[0].Level != zone.LogError {
					t.Errorf("Logs = %+v, want one error line", z.Logs)
				}
			}
		})
	}
}

func TestZoneForceOpenDescription(t *testing.T) {
	z, client := newTestZone(t)
	client.channel.push(event.ThereIsAround{QuickActions: []api.QuickAction{
		{UUID: "u", Name: "build", BaseURL: "/build", ForceOpenDescription: true, QuickActionKey: strPtr("b")},
	}})
	zoneTick(z, 1)

	m := only[SetLoadDescriptionEngine](t, zoneTick(z, 2, runeKey('b')))
	if m.Request.URL != "/build" {
		t.Errorf("URL = %q, want /build", m.Request.URL)
	}
}

func TestZoneRequestClicks(t *testing.T) {
	tests := []struct {
		name string
		many bool
	}{
		{"single", false},
		{"many", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, client := newTestZone(t)
			z.State.RequestClicks = &api.RequestClicks{ActionType: "BUILD", ActionDescriptionID: "WALL", Many: tt.many}

			zoneTick(z, 1, TileClick{Row: 2, Col: 3})
			if len(client.channel.sent) != 1 {
				t.Fatalf("sent = %v, want one click", client.channel.sentTags())
			}
			click := client.channel.sent[0].(event.ClickAction)
			if click.RowI != 2 || click.ColI != 3 || click.ActionDescriptionID != "WALL" {
				t.Errorf("click = %+v, want WALL at 2.3", click)
			}
			if got := z.State.RequestClicks != nil; got != tt.many {
				t.Errorf("RequestClicks kept = %v, want %v", got, tt.many)
			}
		})
	}
}

func TestZoneButtons(t *testing.T) {
	tests := []struct {
		button ButtonID
		url    string
	}{
		{ButtonMainActions, "/_describe/character/player/main_actions"},
		{ButtonCharacterCard, "/_describe/character/player/card"},
		{ButtonBuildActions, "/_describe/character/player/build_actions"},
		{ButtonAffinities, "/affinity/player"},
	}
	for _, tt := range tests {
		t.Run(string(tt.button), func(t *testing.T) {
			z, _ := newTestZone(t)
			m := only[SetLoadDescriptionEngine](t, zoneTick(z, 1, Press(tt.button)))
			if m.Request.URL != tt.url {
				t.Errorf("URL = %q, want %q", m.Request.URL, tt.url)
			}
		})
	}

	z, _ := newTestZone(t)
	m := only[SetWorldEngine](t, zoneTick(z, 1, Press(ButtonWorld)))
	if m.Player.ID != "player" {
		t.Errorf("Player.ID = %q, want player", m.Player.ID)
	}
}

func TestZoneInventory(t *testing.T) {
	z, client := newTestZone(t)

	zoneTick(z, 1, Press(ButtonInventory))
	if !z.InventoryLoading() {
		t.Fatal("InventoryLoading() = false after opening")
	}
	client.resolve(t, "inventory", `{"stuff":[{"ids":[12,13],"stuff_id":"AXE"}],"resource":[{"id":"WOOD"}],"weight":1.5,"clutter":2}`)
	zoneTick(z, 2)
	if z.Inventory == nil || len(z.Inventory.Stuff) != 1 {
		t.Fatalf("Inventory = %+v, want one stuff", z.Inventory)
	}

	m := only[SetLoadDescriptionEngine](t, zoneTick(z, 3, PressAt(ButtonInventoryStuff, 0)))
	if m.Request.URL != "/_describe/character/player/inventory_look/12" {
		t.Errorf("URL = %q", m.Request.URL)
	}
	m = only[SetLoadDescriptionEngine](t, zoneTick(z, 4, PressAt(ButtonInventoryResource, 0)))
	if m.Request.URL != "/_describe/character/player/resource_look/WOOD" {
		t.Errorf("URL = %q", m.Request.URL)
	}

	zoneTick(z, 5, Press(ButtonInventory))
	if z.Inventory != nil {
		t.Error("inventory still open after toggle")
	}
}
