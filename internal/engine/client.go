package engine

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/buxx/rollgui2-sub000/internal/event"
	"github.com/buxx/rollgui2-sub000/internal/transport"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

// Client - сетевые операции, которые нужны движкам.
// Каждый вызов сразу возвращает дескриптор, результат забирается опросом.
type Client interface {
	Anonymous() bool
	WithCredentials(login, password string) Client

	CurrentCharacterID() *transport.Handle
	Tiles() *transport.Handle
	Character(id string) *transport.Handle
	CharacterDead(id string) *transport.Handle
	Zone(worldRow, worldCol int32) *transport.Handle
	ZoneCharacters(worldRow, worldCol int32) *transport.Handle
	ZoneResources(worldRow, worldCol int32) *transport.Handle
	ZoneStuff(worldRow, worldCol int32) *transport.Handle
	ZoneBuilds(worldRow, worldCol int32) *transport.Handle
	Inventory(characterID string) *transport.Handle
	WorldAsCharacter() *transport.Handle
	Description(path string, query, data map[string]any) *transport.Handle
	QuickAction(baseURL, actionUUID string, row, col *int32) *transport.Handle

	DialZone(worldRow, worldCol int32, characterID string) ZoneChannel
}

// ZoneChannel - канал событий зоны: отправка и неблокирующий слив входящих.
type ZoneChannel interface {
	Send(ev event.Event) error
	Drain(max int) [][]byte
	State() transport.ChannelState
	Err() error
	Close()
}

// httpClient подключает transport.HTTPClient к движкам.
type httpClient struct {
	*transport.HTTPClient
}

// NewClient оборачивает HTTP клиент транспорта.
func NewClient(hc *transport.HTTPClient) Client {
	return httpClient{HTTPClient: hc}
}

func (c httpClient) WithCredentials(login, password string) Client {
	return httpClient{HTTPClient: c.HTTPClient.WithCredentials(login, password)}
}

func (c httpClient) DialZone(worldRow, worldCol int32, characterID string) ZoneChannel {
	return c.HTTPClient.DialZone(worldRow, worldCol, characterID)
}

// --- ОПРОС ЗАПРОСОВ ---

// fetch - запрос, чей JSON ответ декодируется в T.
type fetch[T any] struct {
	name   string
	handle *transport.Handle
	value  *T
}

func newFetch[T any](name string) fetch[T] {
	return fetch[T]{name: name}
}

func (f *fetch[T]) start(h *transport.Handle) {
	f.handle = h
	logger.Log.WithFields(logrus.Fields{"fetch": f.name, "request_id": h.ID()}).Debug("Request issued")
}

// started - запрос уже отправлен или результат уже есть.
func (f *fetch[T]) started() bool {
	return f.handle != nil || f.value != nil
}

func (f *fetch[T]) inFlight() bool {
	return f.handle != nil
}

func (f *fetch[T]) done() bool {
	return f.value != nil
}

// poll забирает результат, если он готов. Ошибка - сетевая или декодирования.
func (f *fetch[T]) poll() error {
	if f.handle == nil {
		return nil
	}
	r, ok := f.handle.Poll()
	if !ok {
		return nil
	}
	f.handle = nil
	if r.Err != nil {
		return r.Err
	}
	var v T
	if err := event.DecodeDocument(f.name, r.Body, &v); err != nil {
		return err
	}
	f.value = &v
	logger.Log.WithField("fetch", f.name).Info("Received")
	return nil
}

// isDecodeError - ответ пришел, но не разобрался.
func isDecodeError(err error) bool {
	var de *event.DecodeError
	return errors.As(err, &de)
}

// reasonOf - текст ошибки для экрана ошибки.
func reasonOf(err error) string {
	if isDecodeError(err) {
		return err.Error()
	}
	return transport.Message(err)
}
