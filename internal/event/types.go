package event

import "github.com/buxx/rollgui2-sub000/pkg/api"

// Теги событий канала зоны. Сервер и клиент используют одни и те же строки.
const (
	TagPlayerMove                 = "PLAYER_MOVE"
	TagClientWantClose            = "CLIENT_WANT_CLOSE"
	TagServerPermitClose          = "SERVER_PERMIT_CLOSE"
	TagCharacterEnterZone         = "CHARACTER_ENTER_ZONE"
	TagCharacterSpritesheetChange = "CHARACTER_SPRITESHEET_CHANGE"
	TagCharacterExitZone          = "CHARACTER_EXIT_ZONE"
	TagClientRequireAround        = "CLIENT_REQUIRE_AROUND"
	TagThereIsAround              = "THERE_IS_AROUND"
	TagClickActionEvent           = "CLICK_ACTION_EVENT"
	TagClientRequireResumeText    = "CLIENT_REQUIRE_NEW_RESUME_TEXT"
	TagNewResumeText              = "NEW_RESUME_TEXT"
	TagNewBuild                   = "NEW_BUILD"
	TagRemoveBuild                = "REMOVE_BUILD"
	TagNewChatMessage             = "NEW_CHAT_MESSAGE"
	TagAnimatedCorpseMove         = "ANIMATED_CORPSE_MOVE"
	TagTopBarMessage              = "TOP_BAR_MESSAGE"
	TagZoneTileReplace            = "ZONE_TILE_REPLACE"
	TagZoneGroundResourceRemove   = "ZONE_GROUND_RESOURCE_REMOVE"
	TagZoneGroundStuffRemove      = "ZONE_GROUND_STUFF_REMOVE"
	TagZoneGroundResourceAppear   = "ZONE_GROUND_RESOURCE_APPEAR"
	TagZoneGroundStuffAppear      = "ZONE_GROUND_STUFF_APPEAR"
)

// Event - одно событие канала зоны. Набор вариантов закрыт: новый тег
// сначала добавляется в таблицу декодеров, иначе Decode вернет ошибку.
type Event interface {
	Tag() string
}

// --- КЛИЕНТ -> СЕРВЕР ---

type PlayerMove struct {
	ToRowI      int32  `json:"to_row_i"`
	ToColI      int32  `json:"to_col_i"`
	CharacterID string `json:"character_id"`
}

type ClientRequireAround struct {
	ZoneRowI    int32  `json:"zone_row_i"`
	ZoneColI    int32  `json:"zone_col_i"`
	CharacterID string `json:"character_id"`
}

type ClickAction struct {
	ActionType          string `json:"action_type"`
	ActionDescriptionID string `json:"action_description_id"`
	RowI                int16  `json:"row_i"`
	ColI                int16  `json:"col_i"`
}

type ClientRequireResumeText struct{}

type ClientWantClose struct{}

// --- СЕРВЕР -> КЛИЕНТ ---

type ServerPermitClose struct{}

type CharacterEnter struct {
	ZoneRowI            int32   `json:"zone_row_i"`
	ZoneColI            int32   `json:"zone_col_i"`
	CharacterID         string  `json:"character_id"`
	SpritesheetFilename *string `json:"spritesheet_filename,omitempty"`
}

type CharacterExit struct {
	CharacterID string `json:"character_id"`
}

type CharacterSpritesheetChange struct {
	CharacterID         string `json:"character_id"`
	SpritesheetFilename string `json:"spritesheet_filename"`
}

type ThereIsAround struct {
	StuffCount     int32             `json:"stuff_count"`
	ResourceCount  int32             `json:"resource_count"`
	BuildCount     int32             `json:"build_count"`
	CharacterCount int32             `json:"character_count"`
	QuickActions   []api.QuickAction `json:"quick_actions"`
}

type NewResumeText struct {
	Resume []api.ResumeItem `json:"-"`
}

// MarshalJSON повторяет форму сервера: {"resume": {"items": [...]}}.
func (e NewResumeText) MarshalJSON() ([]byte, error) {
	return marshalJSON(map[string]any{"resume": map[string]any{"items": e.Resume}})
}

type NewBuild struct {
	Build               api.Build `json:"build"`
	ProducedResourceID  *string   `json:"produced_resource_id,omitempty"`
	ProducedStuffID     *string   `json:"produced_stuff_id,omitempty"`
	ProducerCharacterID *string   `json:"producer_character_id,omitempty"`
}

type RemoveBuild struct {
	ZoneRowI int32 `json:"zone_row_i"`
	ZoneColI int32 `json:"zone_col_i"`
}

type NewChatMessage struct {
	CharacterID *string `json:"character_id,omitempty"`
	Message     string  `json:"message"`
	System      bool    `json:"system"`
	Silent      bool    `json:"silent"`
}

type AnimatedCorpseMove struct {
	ToRowI           int32 `json:"to_row_i"`
	ToColI           int32 `json:"to_col_i"`
	AnimatedCorpseID int32 `json:"animated_corpse_id"`
}

// TopBarLevel - NORMAL или ERROR. Любое другое значение читается как NORMAL.
type TopBarLevel string

const (
	TopBarNormal TopBarLevel = "NORMAL"
	TopBarError  TopBarLevel = "ERROR"
)

type TopBarMessage struct {
	Message string      `json:"message"`
	Level   TopBarLevel `json:"type_"`
}

type ZoneTileReplace struct {
	RowI      int16  `json:"zone_row_i"`
	ColI      int16  `json:"zone_col_i"`
	NewTileID string `json:"new_tile_id"`
}

type ResourceRemoved struct {
	ZoneRowI   int32  `json:"zone_row_i"`
	ZoneColI   int32  `json:"zone_col_i"`
	ResourceID string `json:"resource_id"`
}

type StuffRemoved struct {
	StuffID int32 `json:"stuff_id"`
}

type ResourceAppeared struct {
	ZoneRowI   int32  `json:"zone_row_i"`
	ZoneColI   int32  `json:"zone_col_i"`
	ResourceID string `json:"resource_id"`
}

type StuffAppeared struct {
	ID       int32    `json:"id"`
	StuffID  string   `json:"stuff_id"`
	ZoneRowI int32    `json:"zone_row_i"`
	ZoneColI int32    `json:"zone_col_i"`
	Classes  []string `json:"classes"`
}

func (PlayerMove) Tag() string                 { return TagPlayerMove }
func (ClientRequireAround) Tag() string        { return TagClientRequireAround }
func (ClickAction) Tag() string                { return TagClickActionEvent }
func (ClientRequireResumeText) Tag() string    { return TagClientRequireResumeText }
func (ClientWantClose) Tag() string            { return TagClientWantClose }
func (ServerPermitClose) Tag() string          { return TagServerPermitClose }
func (CharacterEnter) Tag() string             { return TagCharacterEnterZone }
func (CharacterExit) Tag() string              { return TagCharacterExitZone }
func (CharacterSpritesheetChange) Tag() string { return TagCharacterSpritesheetChange }
func (ThereIsAround) Tag() string              { return TagThereIsAround }
func (NewResumeText) Tag() string              { return TagNewResumeText }
func (NewBuild) Tag() string                   { return TagNewBuild }
func (RemoveBuild) Tag() string                { return TagRemoveBuild }
func (NewChatMessage) Tag() string             { return TagNewChatMessage }
func (AnimatedCorpseMove) Tag() string         { return TagAnimatedCorpseMove }
func (TopBarMessage) Tag() string              { return TagTopBarMessage }
func (ZoneTileReplace) Tag() string            { return TagZoneTileReplace }
func (ResourceRemoved) Tag() string            { return TagZoneGroundResourceRemove }
func (StuffRemoved) Tag() string               { return TagZoneGroundStuffRemove }
func (ResourceAppeared) Tag() string           { return TagZoneGroundResourceAppear }
func (StuffAppeared) Tag() string              { return TagZoneGroundStuffAppear }
