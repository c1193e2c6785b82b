package handlers

import (
	"encoding/json"

	"translation-backend/internal/realtime"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type clientMessage struct {
	Type string `json:"type"`
}

// UpgradeRequired guards the websocket route; non-upgrade requests get 426.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// WebSocketHandler registers the connection with the hub and serves the
// subscribe protocol until the client disconnects. Acks go through hub.Send
// so they serialize with concurrent broadcasts on the same connection.
func WebSocketHandler(hub *realtime.Hub, logger *logrus.Logger) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		hub.Register(conn)
		defer hub.Unregister(conn)

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var msg clientMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				_ = hub.Send(conn, realtime.Event{Type: "error", Message: "Invalid message format"})
				continue
			}

			switch msg.Type {
			case "subscribe":
				_ = hub.Send(conn, realtime.Event{Type: "subscribed", Message: "Subscribed to translation updates"})
			default:
				_ = hub.Send(conn, realtime.Event{Type: "error", Message: "Unknown message type: " + msg.Type})
			}
		}
	})
}
