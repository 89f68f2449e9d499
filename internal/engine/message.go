package engine

import (
	"github.com/buxx/rollgui2-sub000/internal/description"
	"github.com/buxx/rollgui2-sub000/internal/zone"
	"github.com/buxx/rollgui2-sub000/pkg/api"
)

// Message - сообщение перехода. Хост применяет все сообщения тика по порядку
// до следующего опроса движка.
type Message interface {
	isMessage()
}

// SetRootEngine - экран входа. Notice - зеленое сообщение над формой.
type SetRootEngine struct {
	Notice string
}

// SetLoadZoneEngine - (пере)загрузка зоны. RequestClicks взводится в новой зоне.
type SetLoadZoneEngine struct {
	Session       Session
	RequestClicks *api.RequestClicks
}

type SetZoneEngine struct {
	Session Session
	State   *zone.State
}

// DescriptionRequest - адрес документа описания и его параметры.
// Query уходит в строку запроса, Data - телом.
type DescriptionRequest struct {
	URL   string
	Query map[string]any
	Data  map[string]any
}

// SetLoadDescriptionEngine загружает документ. Previous - страница, на которую
// можно вернуться при ошибке, History - стек навигации без нее.
type SetLoadDescriptionEngine struct {
	Session  Session
	Request  DescriptionRequest
	Previous *description.Page
	History  description.Stack
}

type SetDescriptionEngine struct {
	Session Session
	Page    *description.Page
	History description.Stack
}

// SetDescriptionEngineFrom восстанавливает прошлую страницу со встроенной ошибкой.
type SetDescriptionEngineFrom struct {
	Session Session
	Page    *description.Page
	History description.Stack
	Error   string
}

// SetErrorEngine - общий сток для неисправимых ошибок, доступен из любого режима.
type SetErrorEngine struct {
	Reason string
}

type SetWorldEngine struct {
	Session Session
	Player  api.Character
}

type SetCheckDeadEngine struct {
	Session Session
}

// Quit завершает цикл хоста с кодом 0.
type Quit struct{}

func (SetRootEngine) isMessage()            {}
func (SetLoadZoneEngine) isMessage()        {}
func (SetZoneEngine) isMessage()            {}
func (SetLoadDescriptionEngine) isMessage() {}
func (SetDescriptionEngine) isMessage()     {}
func (SetDescriptionEngineFrom) isMessage() {}
func (SetErrorEngine) isMessage()           {}
func (SetWorldEngine) isMessage()           {}
func (SetCheckDeadEngine) isMessage()       {}
func (Quit) isMessage()                     {}

// fail - короткий путь к SetErrorEngine.
func fail(reason string) []Message {
	return []Message{SetErrorEngine{Reason: reason}}
}
