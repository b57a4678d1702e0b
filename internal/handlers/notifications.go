package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/workly_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/workly_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/workly_be/internal/utils"
)

// NotificationHandler streams a user's job events over a websocket.
type NotificationHandler struct {
	Hub       *realtime.Hub
	JWTSecret string
	Log       *zap.Logger
}

func NewNotificationHandler(hub *realtime.Hub, jwtSecret string, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{Hub: hub, JWTSecret: jwtSecret, Log: log}
}

// Upgrade authenticates the ?token= query before the protocol switch,
// since browsers cannot set headers on a websocket handshake.
func (h *NotificationHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	uid, _, err := utils.ParseJWT(h.JWTSecret, c.Query("token"))
	if err != nil {
		return apperrors.Unauthorized("Token is not valid")
	}

	c.Locals("wsUserId", uid)
	return c.Next()
}

func (h *NotificationHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		uid, ok := conn.Locals("wsUserId").(uuid.UUID)
		if !ok {
			_ = conn.Close()
			return
		}

		client := realtime.NewClient(uid, realtime.NewWebSocketConn(conn))
		h.Log.Debug("notification socket opened", zap.Stringer("user_id", uid))
		realtime.Serve(h.Hub, client, h.Log)
	})
}
