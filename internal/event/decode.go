package event

import (
	"encoding/json"
	"fmt"

	"github.com/buxx/rollgui2-sub000/pkg/api"
	"github.com/tidwall/gjson"
)

type decodeFunc func(r *reader) Event

// decoders - фиксированная таблица тег -> разбор полей.
// Каждая ветка достает поля по имени и явно приводит типы.
var decoders = map[string]decodeFunc{
	TagPlayerMove: func(r *reader) Event {
		return PlayerMove{
			ToRowI:      r.i32("to_row_i"),
			ToColI:      r.i32("to_col_i"),
			CharacterID: r.str("character_id"),
		}
	},
	TagClientWantClose:         func(*reader) Event { return ClientWantClose{} },
	TagServerPermitClose:       func(*reader) Event { return ServerPermitClose{} },
	TagClientRequireResumeText: func(*reader) Event { return ClientRequireResumeText{} },
	TagCharacterEnterZone: func(r *reader) Event {
		return CharacterEnter{
			ZoneRowI:            r.i32("zone_row_i"),
			ZoneColI:            r.i32("zone_col_i"),
			CharacterID:         r.str("character_id"),
			SpritesheetFilename: r.optStr("spritesheet_filename"),
		}
	},
	TagCharacterSpritesheetChange: func(r *reader) Event {
		return CharacterSpritesheetChange{
			CharacterID:         r.str("character_id"),
			SpritesheetFilename: r.str("spritesheet_filename"),
		}
	},
	TagCharacterExitZone: func(r *reader) Event {
		return CharacterExit{CharacterID: r.str("character_id")}
	},
	TagClientRequireAround: func(r *reader) Event {
		return ClientRequireAround{
			ZoneRowI:    r.i32("zone_row_i"),
			ZoneColI:    r.i32("zone_col_i"),
			CharacterID: r.str("character_id"),
		}
	},
	TagThereIsAround: func(r *reader) Event {
		ev := ThereIsAround{
			StuffCount:     r.i32("stuff_count"),
			ResourceCount:  r.i32("resource_count"),
			BuildCount:     r.i32("build_count"),
			CharacterCount: r.i32("character_count"),
		}
		r.document("quick_actions", gjson.JSON, &ev.QuickActions)
		for _, qa := range ev.QuickActions {
			if err := qa.Validate(); err != nil {
				r.fail("quick_actions", fmt.Errorf("%w: %v", ErrWrongType, err))
			}
		}
		return ev
	},
	TagClickActionEvent: func(r *reader) Event {
		return ClickAction{
			ActionType:          r.str("action_type"),
			ActionDescriptionID: r.str("action_description_id"),
			RowI:                r.i16("row_i"),
			ColI:                r.i16("col_i"),
		}
	},
	TagNewResumeText: func(r *reader) Event {
		var ev NewResumeText
		// Сервер присылает {"resume": {"items": [...]}}, старые версии - сразу список.
		resume := r.data.Get("resume")
		if resume.IsArray() {
			r.document("resume", gjson.JSON, &ev.Resume)
		} else {
			r.document("resume.items", gjson.JSON, &ev.Resume)
		}
		return ev
	},
	TagNewBuild: func(r *reader) Event {
		b := r.object("build")
		ev := NewBuild{
			Build: api.Build{
				ID:                b.i32("id"),
				BuildID:           b.str("build_id"),
				RowI:              b.i32("row_i"),
				ColI:              b.i32("col_i"),
				Classes:           b.strs("classes"),
				Traversable:       map[string]bool{api.TransportWalking: b.boolean("traversable.WALKING")},
				IsFloor:           b.boolean("is_floor"),
				UnderConstruction: b.boolean("under_construction"),
			},
			ProducedResourceID:  r.optStr("produced_resource_id"),
			ProducedStuffID:     r.optStr("produced_stuff_id"),
			ProducerCharacterID: r.optStr("producer_character_id"),
		}
		r.merge(b)
		return ev
	},
	TagRemoveBuild: func(r *reader) Event {
		return RemoveBuild{
			ZoneRowI: r.i32("zone_row_i"),
			ZoneColI: r.i32("zone_col_i"),
		}
	},
	TagNewChatMessage: func(r *reader) Event {
		return NewChatMessage{
			CharacterID: r.optStr("character_id"),
			Message:     r.str("message"),
			System:      r.boolean("system"),
			Silent:      r.boolean("silent"),
		}
	},
	TagAnimatedCorpseMove: func(r *reader) Event {
		return AnimatedCorpseMove{
			ToRowI:           r.i32("to_row_i"),
			ToColI:           r.i32("to_col_i"),
			AnimatedCorpseID: r.i32("animated_corpse_id"),
		}
	},
	TagTopBarMessage: func(r *reader) Event {
		level := TopBarNormal
		if r.str("type_") == string(TopBarError) {
			level = TopBarError
		}
		return TopBarMessage{Message: r.str("message"), Level: level}
	},
	TagZoneTileReplace: func(r *reader) Event {
		return ZoneTileReplace{
			RowI:      r.i16("zone_row_i"),
			ColI:      r.i16("zone_col_i"),
			NewTileID: r.str("new_tile_id"),
		}
	},
	TagZoneGroundResourceRemove: func(r *reader) Event {
		return ResourceRemoved{
			ZoneRowI:   r.i32("zone_row_i"),
			ZoneColI:   r.i32("zone_col_i"),
			ResourceID: r.str("resource_id"),
		}
	},
	TagZoneGroundStuffRemove: func(r *reader) Event {
		return StuffRemoved{StuffID: r.i32("stuff_id")}
	},
	TagZoneGroundResourceAppear: func(r *reader) Event {
		return ResourceAppeared{
			ZoneRowI:   r.i32("zone_row_i"),
			ZoneColI:   r.i32("zone_col_i"),
			ResourceID: r.str("resource_id"),
		}
	},
	TagZoneGroundStuffAppear: func(r *reader) Event {
		return StuffAppeared{
			ID:       r.i32("id"),
			StuffID:  r.str("stuff_id"),
			ZoneRowI: r.i32("zone_row_i"),
			ZoneColI: r.i32("zone_col_i"),
			Classes:  r.strs("classes"),
		}
	},
}

// Decode разбирает конверт {"type": ..., "data": {...}} в событие.
func Decode(raw []byte) (Event, error) {
	if !gjson.ValidBytes(raw) {
		return nil, &DecodeError{Err: ErrMalformedJSON}
	}
	envelope := gjson.ParseBytes(raw)
	if !envelope.IsObject() {
		return nil, &DecodeError{Err: fmt.Errorf("%w: envelope is not an object", ErrWrongType)}
	}

	typ := envelope.Get("type")
	if typ.Type != gjson.String {
		return nil, &DecodeError{Field: "type", Err: fmt.Errorf("%w: type must be a string", ErrWrongType)}
	}
	tag := typ.Str

	decode, ok := decoders[tag]
	if !ok {
		return nil, &DecodeError{Tag: tag, Err: ErrUnknownTag}
	}

	data := envelope.Get("data")
	if !data.Exists() {
		return nil, &DecodeError{Tag: tag, Field: "data", Err: ErrMissingField}
	}
	if data.Type != gjson.Null && !data.IsObject() {
		return nil, &DecodeError{Tag: tag, Field: "data", Err: ErrWrongType}
	}

	r := &reader{tag: tag, data: data}
	ev := decode(r)
	if r.err != nil {
		return nil, r.err
	}
	return ev, nil
}

// Known сообщает, есть ли декодер для тега.
func Known(tag string) bool {
	_, ok := decoders[tag]
	return ok
}

// DecodeDocument разбирает JSON-документ HTTP ответа (описание, список сущностей...).
// kind попадает в DecodeError.Tag.
func DecodeDocument(kind string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &DecodeError{Tag: kind, Err: fmt.Errorf("%w: %v", ErrMalformedJSON, err)}
	}
	if validator, ok := v.(api.Validator); ok {
		if err := validator.Validate(); err != nil {
			return &DecodeError{Tag: kind, Err: fmt.Errorf("%w: %v", ErrWrongType, err)}
		}
	}
	return nil
}

// reader копит первую ошибку, чтобы ветки таблицы оставались плоскими.
type reader struct {
	tag    string
	prefix string
	data   gjson.Result
	err    *DecodeError
}

func (r *reader) fail(field string, err error) {
	if r.err == nil {
		r.err = &DecodeError{Tag: r.tag, Field: r.prefix + field, Err: err}
	}
}

func (r *reader) get(field string, want gjson.Type) (gjson.Result, bool) {
	v := r.data.Get(field)
	if !v.Exists() {
		r.fail(field, ErrMissingField)
		return v, false
	}
	if v.Type != want {
		r.fail(field, fmt.Errorf("%w: got %s", ErrWrongType, v.Type))
		return v, false
	}
	return v, true
}

func (r *reader) str(field string) string {
	v, ok := r.get(field, gjson.String)
	if !ok {
		return ""
	}
	return v.Str
}

func (r *reader) optStr(field string) *string {
	v := r.data.Get(field)
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	if v.Type != gjson.String {
		r.fail(field, fmt.Errorf("%w: got %s", ErrWrongType, v.Type))
		return nil
	}
	s := v.Str
	return &s
}

// number возвращает число как есть; приведение к ширине поля делают i32/i16 (отбрасывая дробную часть).
func (r *reader) number(field string) float64 {
	v, ok := r.get(field, gjson.Number)
	if !ok {
		return 0
	}
	return v.Num
}

func (r *reader) i32(field string) int32 {
	return int32(r.number(field))
}

func (r *reader) i16(field string) int16 {
	return int16(r.number(field))
}

func (r *reader) boolean(field string) bool {
	v := r.data.Get(field)
	if !v.Exists() {
		r.fail(field, ErrMissingField)
		return false
	}
	if !v.IsBool() {
		r.fail(field, fmt.Errorf("%w: got %s", ErrWrongType, v.Type))
		return false
	}
	return v.Bool()
}

func (r *reader) strs(field string) []string {
	v := r.data.Get(field)
	if !v.Exists() {
		r.fail(field, ErrMissingField)
		return nil
	}
	if !v.IsArray() {
		r.fail(field, fmt.Errorf("%w: expected array", ErrWrongType))
		return nil
	}
	items := v.Array()
	out := make([]string, 0, len(items))
	for i, item := range items {
		if item.Type != gjson.String {
			r.fail(fmt.Sprintf("%s.%d", field, i), fmt.Errorf("%w: got %s", ErrWrongType, item.Type))
			return nil
		}
		out = append(out, item.Str)
	}
	return out
}

func (r *reader) object(field string) *reader {
	v := r.data.Get(field)
	sub := &reader{tag: r.tag, prefix: r.prefix + field + ".", data: v}
	if !v.Exists() {
		r.fail(field, ErrMissingField)
	} else if !v.IsObject() {
		r.fail(field, fmt.Errorf("%w: expected object", ErrWrongType))
	}
	return sub
}

// merge поднимает ошибку вложенного reader.
func (r *reader) merge(sub *reader) {
	if r.err == nil && sub.err != nil {
		r.err = sub.err
	}
}

// document разбирает вложенный JSON-документ (массив или объект) стандартным json.
func (r *reader) document(field string, want gjson.Type, v any) {
	raw, ok := r.get(field, want)
	if !ok {
		return
	}
	if err := json.Unmarshal([]byte(raw.Raw), v); err != nil {
		r.fail(field, fmt.Errorf("%w: %v", ErrWrongType, err))
	}
}
