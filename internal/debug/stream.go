package debug

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/buxx/rollgui2-sub000/internal/engine"
	"github.com/buxx/rollgui2-sub000/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// /debug/stream - снимки хоста по WebSocket, по одному JSON на тик.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("Debug stream upgrade failed")
		return
	}

	id, snapshots := s.Store.Hub().Register()
	logger.Log.WithFields(logrus.Fields{"subscriber": id, "remote": r.RemoteAddr}).Info("Debug stream opened")

	done := make(chan struct{})
	go s.streamRead(conn, done)
	go func() {
		s.streamWrite(conn, snapshots, done)
		s.Store.Hub().Unregister(id)
		logger.Log.WithField("subscriber", id).Info("Debug stream closed")
	}()
}

// streamRead только держит соединение: читает pong и ловит закрытие.
func (s *Server) streamRead(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.WithError(err).Debug("Debug stream read failed")
			}
			return
		}
	}
}

func (s *Server) streamWrite(conn *websocket.Conn, snapshots <-chan engine.Snapshot, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close debug stream")
		}
	}()

	for {
		select {
		case <-done:
			return
		case snap, ok := <-snapshots:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := conn.WriteJSON(snap); err != nil {
				logger.Log.WithError(err).Debug("write snapshot failed")
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
		}
	}
}
