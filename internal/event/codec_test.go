package event

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/buxx/rollgui2-sub000/pkg/api"
)

func strPtr(s string) *string { return &s }

func TestRoundTripOutbound(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
	}{
		{"player move", PlayerMove{ToRowI: 3, ToColI: 4, CharacterID: "c1"}},
		{"require around", ClientRequireAround{ZoneRowI: 10, ZoneColI: 11, CharacterID: "c1"}},
		{"click action", ClickAction{ActionType: "BUILD", ActionDescriptionID: "WALL", RowI: -1, ColI: 7}},
		{"require resume", ClientRequireResumeText{}},
		{"want close", ClientWantClose{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Encode(tt.ev)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := Decode(raw)
			if err != nil {
				t.Fatalf("Decode(%s) error = %v", raw, err)
			}
			if !reflect.DeepEqual(got, tt.ev) {
				t.Errorf("Decode(Encode(ev)) = %#v, want %#v", got, tt.ev)
			}
		})
	}
}

func TestOutboundCoversEveryClientTag(t *testing.T) {
	want := map[string]bool{
		TagPlayerMove:              true,
		TagClientRequireAround:     true,
		TagClickActionEvent:        true,
		TagClientRequireResumeText: true,
		TagClientWantClose:         true,
	}
	for _, ev := range Outbound() {
		if !want[ev.Tag()] {
			t.Errorf("unexpected outbound tag %s", ev.Tag())
		}
		delete(want, ev.Tag())
	}
	if len(want) != 0 {
		t.Errorf("outbound tags not listed: %v", want)
	}
}

func TestDecodeUnknownTag(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"NOT_A_REAL_TAG","data":{}}`))
	if ev != nil {
		t.Fatalf("Decode() event = %#v, want nil", ev)
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Decode() error = %v, want *DecodeError", err)
	}
	if decodeErr.Tag != "NOT_A_REAL_TAG" {
		t.Errorf("DecodeError.Tag = %q, want NOT_A_REAL_TAG", decodeErr.Tag)
	}
	if !errors.Is(err, ErrUnknownTag) {
		t.Errorf("errors.Is(err, ErrUnknownTag) = false for %v", err)
	}
	if !strings.Contains(err.Error(), "NOT_A_REAL_TAG") {
		t.Errorf("error message %q does not name the tag", err.Error())
	}
}

func TestDecodeFieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantField string
		wantErr   error
	}{
		{
			name:      "missing field",
			raw:       `{"type":"REMOVE_BUILD","data":{"zone_row_i":1}}`,
			wantField: "zone_col_i",
			wantErr:   ErrMissingField,
		},
		{
			name:      "string instead of number",
			raw:       `{"type":"PLAYER_MOVE","data":{"to_row_i":"1","to_col_i":2,"character_id":"x"}}`,
			wantField: "to_row_i",
			wantErr:   ErrWrongType,
		},
		{
			name:      "nested build field",
			raw:       `{"type":"NEW_BUILD","data":{"build":{"id":1,"build_id":"WALL","row_i":1,"col_i":1,"classes":[],"traversable":{},"is_floor":false,"under_construction":false}}}`,
			wantField: "build.traversable.WALKING",
			wantErr:   ErrMissingField,
		},
		{
			name:      "null build traversable",
			raw:       `{"type":"NEW_BUILD","data":{"build":{"id":1,"build_id":"WALL","row_i":1,"col_i":1,"classes":[],"traversable":null,"is_floor":false,"under_construction":false}}}`,
			wantField: "build.traversable.WALKING",
			wantErr:   ErrMissingField,
		},
		{
			name:      "missing data",
			raw:       `{"type":"CHARACTER_EXIT_ZONE"}`,
			wantField: "data",
			wantErr:   ErrMissingField,
		},
		{
			name:      "optional field with wrong type",
			raw:       `{"type":"CHARACTER_ENTER_ZONE","data":{"zone_row_i":1,"zone_col_i":1,"character_id":"c","spritesheet_filename":12}}`,
			wantField: "spritesheet_filename",
			wantErr:   ErrWrongType,
		},
		{
			name:      "non string class",
			raw:       `{"type":"ZONE_GROUND_STUFF_APPEAR","data":{"id":1,"stuff_id":"AXE","zone_row_i":1,"zone_col_i":1,"classes":["A",2]}}`,
			wantField: "classes.1",
			wantErr:   ErrWrongType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("Decode() error = %v, want *DecodeError", err)
			}
			if decodeErr.Field != tt.wantField {
				t.Errorf("DecodeError.Field = %q, want %q", decodeErr.Field, tt.wantField)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeBrokenEnvelope(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"type":`},
		{"array", `[1,2]`},
		{"numeric type", `{"type":5,"data":{}}`},
		{"missing type", `{"data":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode([]byte(tt.raw))
			if err == nil {
				t.Fatalf("Decode() = %#v, want error", ev)
			}
		})
	}
}

func TestDecodeNarrowsFloatCoordinates(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"ZONE_TILE_REPLACE","data":{"zone_row_i":12.9,"zone_col_i":-3.7,"new_tile_id":"DIRT"}}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	got := ev.(ZoneTileReplace)
	want := ZoneTileReplace{RowI: 12, ColI: -3, NewTileID: "DIRT"}
	if got != want {
		t.Errorf("Decode() = %+v, want %+v", got, want)
	}
}

func TestDecodeNewBuild(t *testing.T) {
	raw := `{"type":"NEW_BUILD","data":{
		"build":{"id":7,"build_id":"CAMPFIRE","row_i":5.0,"col_i":6,"classes":["FIRE"],
			"traversable":{"WALKING":true},"is_floor":false,"under_construction":true},
		"produced_stuff_id":"AXE","produced_resource_id":null}}`

	ev, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	got, ok := ev.(NewBuild)
	if !ok {
		t.Fatalf("Decode() type = %T, want NewBuild", ev)
	}

	want := NewBuild{
		Build: api.Build{
			ID: 7, BuildID: "CAMPFIRE", RowI: 5, ColI: 6,
			Classes:           []string{"FIRE"},
			Traversable:       map[string]bool{"WALKING": true},
			UnderConstruction: true,
		},
		ProducedStuffID: strPtr("AXE"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode() = %#v, want %#v", got, want)
	}

	again, err := Decode(MustEncode(got))
	if err != nil {
		t.Fatalf("Decode(Encode()) error = %v", err)
	}
	if !reflect.DeepEqual(again, want) {
		t.Errorf("re-decoded NewBuild = %#v, want %#v", again, want)
	}
}

func TestDecodeThereIsAround(t *testing.T) {
	raw := `{"type":"THERE_IS_AROUND","data":{"stuff_count":1,"resource_count":2,"build_count":3,"character_count":4,
		"quick_actions":[{"uuid":"u1","name":"Collect","base_url":"/x?a=1","classes1":["COLLECT"],"classes2":[],
		"exploitable_tiles":[{"zone_row_i":1,"zone_col_i":2,"classes":["DIRT"]}],
		"all_tiles_at_once":false,"direct_action":false,"quick_action_key":"c","force_open_description":false}]}}`

	ev, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	got := ev.(ThereIsAround)
	if got.BuildCount != 3 || got.CharacterCount != 4 {
		t.Errorf("counts = %d/%d, want 3/4", got.BuildCount, got.CharacterCount)
	}
	if len(got.QuickActions) != 1 || got.QuickActions[0].BaseURL != "/x?a=1" {
		t.Fatalf("QuickActions = %+v", got.QuickActions)
	}
	if tiles := got.QuickActions[0].ExploitableTiles; len(tiles) != 1 || tiles[0].ZoneColI != 2 {
		t.Errorf("ExploitableTiles = %+v", tiles)
	}
}

func TestDecodeThereIsAroundRejectsIncompleteQuickAction(t *testing.T) {
	raw := `{"type":"THERE_IS_AROUND","data":{"stuff_count":0,"resource_count":0,"build_count":0,"character_count":0,
		"quick_actions":[{"uuid":"","base_url":"/x"}]}}`
	_, err := Decode([]byte(raw))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Field != "quick_actions" {
		t.Fatalf("Decode() error = %v, want quick_actions DecodeError", err)
	}
}

func TestDecodeResumeShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"items object", `{"type":"NEW_RESUME_TEXT","data":{"resume":{"items":[{"name":"PA","value_is_str":false,"value_is_float":true,"value_float":12.5,"classes":[]}]}}}`},
		{"plain list", `{"type":"NEW_RESUME_TEXT","data":{"resume":[{"name":"PA","value_is_str":false,"value_is_float":true,"value_float":12.5,"classes":[]}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			resume := ev.(NewResumeText).Resume
			if len(resume) != 1 || resume[0].Name != "PA" || *resume[0].ValueFloat != 12.5 {
				t.Errorf("Resume = %+v", resume)
			}
		})
	}
}

func TestDecodeTopBarLevel(t *testing.T) {
	tests := []struct {
		level string
		want  TopBarLevel
	}{
		{"ERROR", TopBarError},
		{"NORMAL", TopBarNormal},
		{"SOMETHING", TopBarNormal},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			ev, err := Decode([]byte(`{"type":"TOP_BAR_MESSAGE","data":{"message":"hi","type_":"` + tt.level + `"}}`))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got := ev.(TopBarMessage).Level; got != tt.want {
				t.Errorf("Level = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecodeEveryKnownTagFromEncodedFixture(t *testing.T) {
	fixtures := []Event{
		ServerPermitClose{},
		CharacterEnter{ZoneRowI: 1, ZoneColI: 2, CharacterID: "c", SpritesheetFilename: strPtr("s.png")},
		CharacterExit{CharacterID: "c"},
		CharacterSpritesheetChange{CharacterID: "c", SpritesheetFilename: "s.png"},
		RemoveBuild{ZoneRowI: 1, ZoneColI: 1},
		NewChatMessage{Message: "hello", CharacterID: strPtr("c"), Silent: true},
		AnimatedCorpseMove{ToRowI: 1, ToColI: 2, AnimatedCorpseID: 9},
		TopBarMessage{Message: "m", Level: TopBarError},
		ZoneTileReplace{RowI: 1, ColI: 2, NewTileID: "SAND"},
		ResourceRemoved{ZoneRowI: 1, ZoneColI: 2, ResourceID: "WOOD"},
		StuffRemoved{StuffID: 42},
		ResourceAppeared{ZoneRowI: 1, ZoneColI: 2, ResourceID: "WOOD"},
		StuffAppeared{ID: 42, StuffID: "AXE", ZoneRowI: 3, ZoneColI: 4, Classes: []string{"WEAPON"}},
	}
	for _, fixture := range fixtures {
		t.Run(fixture.Tag(), func(t *testing.T) {
			got, err := Decode(MustEncode(fixture))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, fixture) {
				t.Errorf("Decode() = %#v, want %#v", got, fixture)
			}
		})
	}
}

func TestDecodeDocument(t *testing.T) {
	var character api.Character
	if err := DecodeDocument("character", []byte(`{"id":"c1","zone_row_i":1,"zone_col_i":2}`), &character); err != nil {
		t.Fatalf("DecodeDocument() error = %v", err)
	}
	if character.ID != "c1" {
		t.Errorf("ID = %q, want c1", character.ID)
	}

	var anonymous api.Character
	err := DecodeDocument("character", []byte(`{"zone_row_i":1}`), &anonymous)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Tag != "character" {
		t.Errorf("DecodeDocument() error = %v, want character DecodeError", err)
	}
}
