package api

import (
	"encoding/json"
	"fmt"
)

// --- СЕРВЕР -> КЛИЕНТ (HTTP) ---

// Character это персонаж, как его отдает /character/{id} и /zones/{r}/{c}/characters.
// World* - координаты зоны в мире, Zone* - координаты тайла внутри зоны.
type Character struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name,omitempty"`
	WorldRowI           int32   `json:"world_row_i"`
	WorldColI           int32   `json:"world_col_i"`
	ZoneRowI            int32   `json:"zone_row_i"`
	ZoneColI            int32   `json:"zone_col_i"`
	AvatarUUID          *string `json:"avatar_uuid,omitempty"`
	AvatarIsValidated   bool    `json:"avatar_is_validated"`
	SpritesheetFilename *string `json:"spritesheet_filename,omitempty"`
}

// Position возвращает (row, col) внутри зоны.
func (c Character) Position() (int32, int32) {
	return c.ZoneRowI, c.ZoneColI
}

// Build это постройка, занимающая один тайл.
// Traversable индексируется способом передвижения ("WALKING").
type Build struct {
	ID                int32           `json:"id"`
	BuildID           string          `json:"build_id"`
	RowI              int32           `json:"row_i"`
	ColI              int32           `json:"col_i"`
	Classes           []string        `json:"classes"`
	Traversable       map[string]bool `json:"traversable"`
	IsFloor           bool            `json:"is_floor"`
	UnderConstruction bool            `json:"under_construction"`
}

// Walkable сообщает, можно ли пройти сквозь постройку пешком.
func (b Build) Walkable() bool {
	return b.Traversable[TransportWalking]
}

// Stuff это предмет, лежащий на земле.
type Stuff struct {
	ID       int32    `json:"id"`
	StuffID  string   `json:"stuff_id"`
	ZoneRowI int32    `json:"zone_row_i"`
	ZoneColI int32    `json:"zone_col_i"`
	Classes  []string `json:"classes"`
}

// TileClasses собирает классы для поиска картинки: общий класс, свои, затем stuff_id.
func (s Stuff) TileClasses() []string {
	classes := make([]string, 0, len(s.Classes)+2)
	classes = append(classes, "STUFF_GENERIC")
	classes = append(classes, s.Classes...)
	return append(classes, s.StuffID)
}

// Resource это добываемый ресурс на земле. На одной клетке их может быть несколько.
type Resource struct {
	ID       string `json:"id"`
	ZoneRowI int32  `json:"zone_row_i"`
	ZoneColI int32  `json:"zone_col_i"`
}

const TransportWalking = "WALKING"

// Tile - описание типа тайла из /zones/tiles.
type Tile struct {
	ID          string            `json:"id"`
	Char        string            `json:"char"`
	Traversable map[string]bool   `json:"traversable"`
	Hump        map[string]string `json:"hump,omitempty"`
}

// ZoneSource - ответ /zones/{row}/{col}: текстовая карта и тип зоны.
type ZoneSource struct {
	RawSource  string `json:"raw_source"`
	ZoneTypeID string `json:"zone_type_id"`
}

// ExploitableTile - клетка (относительно зоны), к которой применимо быстрое действие.
type ExploitableTile struct {
	ZoneRowI int32    `json:"zone_row_i"`
	ZoneColI int32    `json:"zone_col_i"`
	Classes  []string `json:"classes"`
}

// QuickAction - контекстное действие, которое сервер предлагает прямо сейчас.
// Идентичность действия между обновлениями определяется BaseURL.
type QuickAction struct {
	UUID                 string            `json:"uuid"`
	Name                 string            `json:"name"`
	BaseURL              string            `json:"base_url"`
	Classes1             []string          `json:"classes1"`
	Classes2             []string          `json:"classes2"`
	ExploitableTiles     []ExploitableTile `json:"exploitable_tiles"`
	AllTilesAtOnce       bool              `json:"all_tiles_at_once"`
	DirectAction         bool              `json:"direct_action"`
	QuickActionKey       *string           `json:"quick_action_key,omitempty"`
	ForceOpenDescription bool              `json:"force_open_description"`
}

// ResumeItem - одна строка сводки персонажа (NEW_RESUME_TEXT).
type ResumeItem struct {
	Name         string   `json:"name"`
	ValueIsStr   bool     `json:"value_is_str"`
	ValueIsFloat bool     `json:"value_is_float"`
	ValueStr     *string  `json:"value_str,omitempty"`
	ValueFloat   *float64 `json:"value_float,omitempty"`
	URL          *string  `json:"url,omitempty"`
	Classes      []string `json:"classes"`
}

// WorldAsCharacter - карта мира глазами персонажа: строки id тайлов.
type WorldAsCharacter struct {
	Rows [][]string `json:"rows"`
}

// Inventory - ответ /character/{id}/inventory-data.
type Inventory struct {
	Stuff     []InventoryStuff    `json:"stuff"`
	Resources []InventoryResource `json:"resource"`
	Weight    float64             `json:"weight"`
	Clutter   float64             `json:"clutter"`
}

type InventoryStuff struct {
	IDs          []int32  `json:"ids"`
	StuffID      string   `json:"stuff_id"`
	Name         string   `json:"name"`
	Infos        string   `json:"infos"`
	Classes      []string `json:"classes"`
	IsEquipment  bool     `json:"is_equipment"`
	Count        int32    `json:"count"`
	DropBaseURL  string   `json:"drop_base_url"`
	IsHeavy      bool     `json:"is_heavy"`
	IsCumbersome bool     `json:"is_cumbersome"`
	IsEquip      bool     `json:"is_equip"`
}

type InventoryResource struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Weight   float64  `json:"weight"`
	Clutter  float64  `json:"clutter"`
	Info     string   `json:"info"`
	Classes  []string `json:"classes"`
	Quantity float64  `json:"quantity"`
}

// ErrorBody - тело ответа сервера с ошибкой.
type ErrorBody struct {
	Message string `json:"message"`
}

// --- ОПИСАНИЯ (server-rendered формы и страницы) ---

// RequestClicks просит клиента передать клики по карте (CLICK_ACTION_EVENT).
type RequestClicks struct {
	ActionType          string   `json:"action_type"`
	ActionDescriptionID string   `json:"action_description_id"`
	CursorClasses       []string `json:"cursor_classes"`
	Many                bool     `json:"many"`
}

// Part - элемент описания: текст, ссылка, форма, поле ввода, чекбокс...
// Вложенные элементы формы лежат в Items.
type Part struct {
	Text              *string  `json:"text,omitempty"`
	IsForm            bool     `json:"is_form"`
	FormAction        *string  `json:"form_action,omitempty"`
	FormValuesInQuery bool     `json:"form_values_in_query"`
	SubmitLabel       *string  `json:"submit_label,omitempty"`
	Items             []Part   `json:"items"`
	Type              *string  `json:"type_,omitempty"`
	ExpectInteger     bool     `json:"expect_integer"`
	Label             *string  `json:"label,omitempty"`
	Name              *string  `json:"name,omitempty"`
	IsLink            bool     `json:"is_link"`
	DefaultValue      *string  `json:"default_value,omitempty"`
	LinkGroupName     *string  `json:"link_group_name,omitempty"`
	Align             *string  `json:"align,omitempty"`
	Value             *string  `json:"value,omitempty"`
	IsCheckbox        bool     `json:"is_checkbox"`
	Checked           bool     `json:"checked"`
	Choices           []string `json:"choices,omitempty"`
	SearchByStr       bool     `json:"search_by_str"`
	Classes           []string `json:"classes"`
	Classes2          []string `json:"classes2"`
	IsWebBrowserLink  bool     `json:"is_web_browser_link"`
	Columns           uint8    `json:"columns"`
	IsColumn          bool     `json:"is_column"`
	Colspan           uint8    `json:"colspan"`
	MinValue          *float64 `json:"min_value,omitempty"`
	MaxValue          *float64 `json:"max_value,omitempty"`
	Cost              *float64 `json:"cost,omitempty"`
}

func (p Part) LabelText() string {
	if p.Label != nil {
		return *p.Label
	}
	if p.Text != nil {
		return *p.Text
	}
	return ""
}

func (p Part) IsInput() bool {
	return p.Name != nil && p.Type != nil
}

// IsFollowLink - ссылка вне формы.
func (p Part) IsFollowLink() bool {
	return p.FormAction != nil && !p.IsForm
}

// Description - документ, который сервер рендерит для диалогов и форм.
type Description struct {
	Type                string          `json:"type_"`
	OriginURL           *string         `json:"origin_url,omitempty"`
	Title               *string         `json:"title,omitempty"`
	Items               []Part          `json:"items"`
	FooterLinks         []Part          `json:"footer_links"`
	BackURL             *string         `json:"back_url,omitempty"`
	BackURLIsZone       bool            `json:"back_url_is_zone"`
	BackToZone          bool            `json:"back_to_zone"`
	Image               *string         `json:"image,omitempty"`
	IsLongText          bool            `json:"is_long_text"`
	NewCharacterID      *string         `json:"new_character_id,omitempty"`
	Redirect            *string         `json:"redirect,omitempty"`
	ForceBackURL        *string         `json:"force_back_url,omitempty"`
	CanBeBackURL        bool            `json:"can_be_back_url"`
	RequestClicks       *RequestClicks  `json:"request_clicks,omitempty"`
	FooterActions       bool            `json:"footer_actions"`
	FooterInventory     bool            `json:"footer_inventory"`
	IllustrationName    *string         `json:"illustration_name,omitempty"`
	AccountCreated      bool            `json:"account_created"`
	CharacterAP         *string         `json:"character_ap,omitempty"`
	QuickActionResponse *string         `json:"quick_action_response,omitempty"`
	ActionUUID          *string         `json:"action_uuid,omitempty"`
	NotEnoughAP         bool            `json:"not_enough_ap"`
	ExploitableSuccess  *Position       `json:"exploitable_success,omitempty"`
	IsQuickError        bool            `json:"is_quick_error"`
	DepositSuccess      *DepositSuccess `json:"deposit_success,omitempty"`
	IsGrid              bool            `json:"is_grid"`
	ReloadZone          bool            `json:"reload_zone"`
	ReloadInventory     bool            `json:"reload_inventory"`
}

func (d Description) TitleText() string {
	if d.Title == nil {
		return ""
	}
	return *d.Title
}

// IsQuickActionResponse - ответ на быстрое действие, а не полноценная страница.
func (d Description) IsQuickActionResponse() bool {
	return d.QuickActionResponse != nil || d.IsQuickError || d.NotEnoughAP ||
		d.ExploitableSuccess != nil || d.DepositSuccess != nil
}

// Position - пара [row, col], как ее сериализует сервер.
type Position [2]int32

func (p Position) Row() int32 { return p[0] }
func (p Position) Col() int32 { return p[1] }

// DepositSuccess приходит как [[row, col], [classes...]].
type DepositSuccess struct {
	Position Position
	Classes  []string
}

func (d *DepositSuccess) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("deposit_success: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("deposit_success: expected 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &d.Position); err != nil {
		return fmt.Errorf("deposit_success position: %w", err)
	}
	if err := json.Unmarshal(raw[1], &d.Classes); err != nil {
		return fmt.Errorf("deposit_success classes: %w", err)
	}
	return nil
}

func (d DepositSuccess) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{d.Position, d.Classes})
}
