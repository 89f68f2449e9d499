package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"github.com/buxx/rollgui2-sub000/internal/event"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20

	incomingBuffer = 256
	outgoingBuffer = 64
)

var ErrSendBufferFull = errors.New("send buffer full")

type ChannelState int

const (
	ChannelConnecting ChannelState = iota
	ChannelOpen
	ChannelClosed
)

func (s ChannelState) String() string {
	switch s {
	case ChannelConnecting:
		return "connecting"
	case ChannelOpen:
		return "open"
	default:
		return "closed"
	}
}

// Channel - канал событий зоны поверх WebSocket.
// Подключение, чтение и запись идут в своих горутинах, цикл тиков
// только вызывает Send и Drain и никогда не блокируется.
type Channel struct {
	url    string
	header http.Header

	mu    deadlock.Mutex
	state ChannelState
	err   error

	incoming  chan []byte
	outgoing  chan []byte
	done      chan struct{}
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// ZoneEventsURL - адрес канала событий зоны для персонажа.
func ZoneEventsURL(base string, worldRow, worldCol int32, characterID string) string {
	ws := strings.TrimRight(base, "/")
	switch {
	case strings.HasPrefix(ws, "https://"):
		ws = "wss://" + strings.TrimPrefix(ws, "https://")
	case strings.HasPrefix(ws, "http://"):
		ws = "ws://" + strings.TrimPrefix(ws, "http://")
	}
	return fmt.Sprintf("%s/ws/zones/%d/%d/events?character_id=%s", ws, worldRow, worldCol, characterID)
}

// Dial начинает подключение и сразу возвращает канал в состоянии connecting.
func Dial(url string, header http.Header) *Channel {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Channel{
		url:      url,
		header:   header,
		incoming: make(chan []byte, incomingBuffer),
		outgoing: make(chan []byte, outgoingBuffer),
		done:     make(chan struct{}),
		cancel:   cancel,
	}
	go c.run(ctx)
	return c
}

// DialZone подключается к каналу зоны с учетными данными клиента.
func (c *HTTPClient) DialZone(worldRow, worldCol int32, characterID string) *Channel {
	header := http.Header{}
	if c.login != "" {
		header.Set("Authorization", basicAuth(c.login, c.password))
	}
	return Dial(ZoneEventsURL(c.base, worldRow, worldCol, characterID), header)
}

func (c *Channel) run(ctx context.Context) {
	log := logger.Log.WithField("url", c.url)
	dialer := websocket.Dialer{HandshakeTimeout: writeWait}

	conn, _, err := dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		log.WithError(err).Warn("Zone channel dial failed")
		c.fail(networkError(err))
		return
	}

	c.mu.Lock()
	if c.state == ChannelClosed {
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	c.state = ChannelOpen
	c.mu.Unlock()
	log.Info("Zone channel connected")

	go c.writePump(conn)
	c.readPump(conn)
}

// readPump читает сообщения сервера в буфер incoming.
func (c *Channel) readPump(conn *websocket.Conn) {
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close zone channel connection")
		}
	}()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Log.WithError(err).Warn("Zone channel read error")
				c.fail(networkError(err))
			} else {
				c.fail(ErrClosed)
			}
			return
		}
		select {
		case c.incoming <- message:
		case <-c.done:
			return
		}
	}
}

// writePump отправляет исходящие события + Ping.
func (c *Channel) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-c.outgoing:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Log.WithError(err).Debug("write message failed")
				c.fail(networkError(err))
				return
			}

		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}

		case <-c.done:
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Debug("write close message failed")
			}
			_ = conn.Close()
			return
		}
	}
}

func (c *Channel) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == ChannelClosed {
		return
	}
	c.state = ChannelClosed
	c.err = err
}

// Send кодирует событие и ставит его в очередь на отправку.
// До подключения события копятся в очереди.
func (c *Channel) Send(ev event.Event) error {
	if c.State() == ChannelClosed {
		return ErrClosed
	}
	raw, err := event.Encode(ev)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ev.Tag(), err)
	}
	select {
	case c.outgoing <- raw:
		logger.Log.WithFields(logrus.Fields{"tag": ev.Tag()}).Debug("Zone event queued")
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Drain забирает не больше max полученных сообщений (max <= 0 - все). Не блокирует.
func (c *Channel) Drain(max int) [][]byte {
	var out [][]byte
	for max <= 0 || len(out) < max {
		select {
		case m := <-c.incoming:
			out = append(out, m)
		default:
			return out
		}
	}
	return out
}

func (c *Channel) State() ChannelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err - причина закрытия. ErrClosed при штатном закрытии.
func (c *Channel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close закрывает канал. Повторный вызов безопасен.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		c.fail(ErrClosed)
		close(c.done)
		c.cancel()
	})
}
