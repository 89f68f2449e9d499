package engine

// Input - высокоуровневый ввод от рендерера.
type Input interface {
	isInput()
}

type Key int

const (
	KeyNone Key = iota
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyRune
)

// KeyPress - нажатая клавиша. Rune заполнен для KeyRune.
type KeyPress struct {
	Key  Key
	Rune rune
}

// TileClick - клик по клетке зоны.
type TileClick struct {
	Row int32
	Col int32
}

type ButtonID string

const (
	// Root
	ButtonLogin         ButtonID = "login"
	ButtonCreateAccount ButtonID = "create_account"
	ButtonQuit          ButtonID = "quit"

	// Левая панель зоны
	ButtonMainActions   ButtonID = "main_actions"
	ButtonCharacterCard ButtonID = "character_card"
	ButtonBuildActions  ButtonID = "build_actions"
	ButtonAffinities    ButtonID = "affinities"
	ButtonInventory     ButtonID = "inventory"
	ButtonWorld         ButtonID = "world"
	ButtonExit          ButtonID = "exit"
	ButtonChat          ButtonID = "chat"

	// С индексом
	ButtonQuickAction       ButtonID = "quick_action"
	ButtonInventoryStuff    ButtonID = "inventory_stuff"
	ButtonInventoryResource ButtonID = "inventory_resource"
	ButtonLine              ButtonID = "line"

	ButtonBack  ButtonID = "back"
	ButtonClose ButtonID = "close"
)

// Button - нажатие кнопки интерфейса. Index - для кнопок из списков.
type Button struct {
	ID    ButtonID
	Index int
}

func (KeyPress) isInput()  {}
func (TileClick) isInput() {}
func (Button) isInput()    {}

// Press - короткая запись для кнопки без индекса.
func Press(id ButtonID) Button {
	return Button{ID: id}
}

// PressAt - кнопка из списка.
func PressAt(id ButtonID, index int) Button {
	return Button{ID: id, Index: index}
}
