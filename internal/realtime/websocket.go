// internal/realtime/websocket.go
package realtime

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WebSocketConn wraps websocket.Conn so the hub does not depend on it.
type WebSocketConn struct {
	Conn *websocket.Conn
}

func NewWebSocketConn(c *websocket.Conn) *WebSocketConn {
	return &WebSocketConn{Conn: c}
}

// Serve registers client with the hub and pumps messages until the socket closes.
// It blocks, as the fiber websocket handler must.
func Serve(hub *Hub, client *Client, log *zap.Logger) {
	if !hub.RegisterClient(client) {
		_ = client.Conn.Conn.Close()
		return
	}

	go writePump(client, log)
	readPump(hub, client, log)
}

// readPump only drains control frames; the notification stream is one-way.
func readPump(hub *Hub, client *Client, log *zap.Logger) {
	c := client.Conn.Conn
	defer func() {
		hub.UnregisterClient(client)
		_ = c.Close()
	}()

	_ = c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("websocket read", zap.Error(err), zap.String("client_id", client.ID))
			}
			return
		}
	}
}

func writePump(client *Client, log *zap.Logger) {
	c := client.Conn.Conn
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			_ = c.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Debug("websocket write", zap.Error(err), zap.String("client_id", client.ID))
				return
			}

		case <-ticker.C:
			_ = c.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
