package zone

import "github.com/buxx/rollgui2-sub000/internal/event"

const (
	ChatCapacity = 100
	// DisplayUserLogCount - сколько последних строк журнала показывает зона.
	DisplayUserLogCount = 5
)

type ChatMessage struct {
	Author  *string
	Message string
	System  bool
}

// Text - строка для отображения "автор: сообщение".
func (m ChatMessage) Text() string {
	if m.Author != nil {
		return *m.Author + ": " + m.Message
	}
	return m.Message
}

// Chat - ограниченный журнал сообщений чата.
type Chat struct {
	Messages []ChatMessage
	Unread   bool
}

func NewChat() *Chat {
	return &Chat{}
}

// Push добавляет сообщение и вытесняет самые старые сверх ChatCapacity.
func (c *Chat) Push(m ChatMessage, silent bool) {
	c.Messages = append(c.Messages, m)
	if over := len(c.Messages) - ChatCapacity; over > 0 {
		c.Messages = append(c.Messages[:0], c.Messages[over:]...)
	}
	if !silent {
		c.Unread = true
	}
}

// MarkRead вызывается при открытии чата.
func (c *Chat) MarkRead() {
	c.Unread = false
}

// TopBar - строка статуса над картой.
type TopBar struct {
	Message string
	Level   event.TopBarLevel
}

func (t TopBar) IsError() bool {
	return t.Level == event.TopBarError
}
