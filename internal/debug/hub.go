package debug

import (
	"github.com/oklog/ulid/v2"
	"github.com/sasha-s/go-deadlock"

	"github.com/buxx/rollgui2-sub000/internal/engine"
)

// subscriberBuffer - снимки, которые подписчик может не успеть прочитать.
const subscriberBuffer = 64

// Hub рассылает снимки хоста подписчикам /debug/stream.
type Hub struct {
	mu          deadlock.RWMutex
	subscribers map[string]chan engine.Snapshot
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]chan engine.Snapshot)}
}

// Register создает личный канал подписчика.
func (h *Hub) Register() (string, <-chan engine.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := ulid.Make().String()
	ch := make(chan engine.Snapshot, subscriberBuffer)
	h.subscribers[id] = ch
	return id, ch
}

// Unregister закрывает канал подписчика.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subscribers[id]; ok {
		close(ch)
		delete(h.subscribers, id)
	}
}

// Broadcast не ждет медленных подписчиков: полный канал пропускает снимок.
func (h *Hub) Broadcast(snap engine.Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
