package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ghm/hotel-booking/internal/chat"
	"github.com/ghm/hotel-booking/internal/middleware"
)

// ChatHandler upgrades GET /api/chat/ws to a hub connection.
type ChatHandler struct {
	Hub *chat.Hub
	Log *zap.Logger
}

func NewChatHandler(hub *chat.Hub, log *zap.Logger) *ChatHandler {
	return &ChatHandler{Hub: hub, Log: orNop(log)}
}

func (h *ChatHandler) Connect(c echo.Context) error {
	username, _ := middleware.CurrentUser(c)
	if err := h.Hub.ServeWS(c.Response(), c.Request(), username); err != nil {
		// the upgrader has already written the error response
		h.Log.Debug("websocket upgrade failed", zap.Error(err))
	}
	return nil
}
