package stream

import (
	"time"

	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// RegisterRoutes mounts the watcher endpoint. Watchers only receive; anything
// they send is read and discarded until the connection closes.
func RegisterRoutes(r fiber.Router, hub *Hub, logger *zap.Logger) {
	logger = logging.OrNop(logger)

	r.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})

	r.Get("/ws/:sessionID", websocket.New(func(c *websocket.Conn) {
		sessionID := c.Params("sessionID")
		client := hub.Register(sessionID)
		defer hub.Unregister(client)
		logger.Debug("stream watcher connected", zap.String("session_id", sessionID))

		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range client.Send {
				_ = c.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			}
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		_ = c.Close()
		hub.Unregister(client)
		<-done
		logger.Debug("stream watcher disconnected", zap.String("session_id", sessionID))
	}))
}
