package websocket

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// connWrapper adapts *websocket.Conn to the Connection interface.
type connWrapper struct {
	conn *websocket.Conn
}

func (w *connWrapper) WriteMessage(messageType int, data []byte) error {
	return w.conn.WriteMessage(messageType, data)
}

func (w *connWrapper) ReadMessage() (int, []byte, error) {
	return w.conn.ReadMessage()
}

func (w *connWrapper) Close() error { return w.conn.Close() }

func (w *connWrapper) SetReadLimit(limit int64) { w.conn.SetReadLimit(limit) }

func (w *connWrapper) SetReadDeadline(t time.Time) error { return w.conn.SetReadDeadline(t) }

func (w *connWrapper) SetWriteDeadline(t time.Time) error { return w.conn.SetWriteDeadline(t) }

func (w *connWrapper) SetPongHandler(h func(appData string) error) { w.conn.SetPongHandler(h) }

func (w *connWrapper) RemoteAddr() string { return w.conn.RemoteAddr().String() }

// UpgradeConfig controls the HTTP upgrade.
type UpgradeConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// Handler returns the HTTP handler upgrading requests and attaching clients
// to the hub.
func Handler(hub *Hub, cfg UpgradeConfig, logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "websocket.handler"))

	upgrader := websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     cfg.CheckOrigin,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.ErrorContext(r.Context(), "websocket upgrade failed",
				slog.Any("error", err),
				slog.String("remote_addr", r.RemoteAddr))
			return
		}

		client := NewClient(hub, &connWrapper{conn: conn}, logger)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
