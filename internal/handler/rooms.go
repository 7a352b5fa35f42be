package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ghm/hotel-booking/internal/model"
)

// RoomStore is implemented by repository.RoomRepo and memory.Rooms.
type RoomStore interface {
	List(ctx context.Context) ([]model.Room, error)
	Update(ctx context.Context, room model.Room) error
}

// RoomHandler lists rooms and lets staff edit them.
type RoomHandler struct {
	Rooms RoomStore
	Log   *zap.Logger
}

func NewRoomHandler(rooms RoomStore, log *zap.Logger) *RoomHandler {
	return &RoomHandler{Rooms: rooms, Log: orNop(log)}
}

type updateRoomReq struct {
	Name        string  `json:"nomecamera"`
	Description string  `json:"descrizionecamera"`
	Price       float64 `json:"prezzocamera"`
}

// List handles GET /api/camere.
func (h *RoomHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	rooms, err := h.Rooms.List(ctx)
	if err != nil {
		return writeError(c, h.Log, "list rooms", err)
	}
	return c.JSON(http.StatusOK, rooms)
}

// Update handles PUT /api/camere/:id.  The image is not editable.
func (h *RoomHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid room id")
	}
	var req updateRoomReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return fail(c, http.StatusBadRequest, "nomecamera required")
	}
	if req.Price < 0 {
		return fail(c, http.StatusBadRequest, "prezzocamera must not be negative")
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	room := model.Room{ID: id, Name: req.Name, Description: req.Description, Price: req.Price}
	if err := h.Rooms.Update(ctx, room); err != nil {
		return writeError(c, h.Log, "update room", err)
	}
	h.Log.Info("room updated", zap.Int64("idcamera", id), zap.String("by", requester(c).Username))
	return done(c)
}
