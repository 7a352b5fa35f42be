package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ghm/hotel-booking/internal/booking"
	"github.com/ghm/hotel-booking/internal/model"
)

// BookingHandler serves room, beach and restaurant bookings on top of the
// booking service.
type BookingHandler struct {
	Svc *booking.Service
	Log *zap.Logger
}

func NewBookingHandler(svc *booking.Service, log *zap.Logger) *BookingHandler {
	if svc == nil {
		panic("nil booking service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc, Log: orNop(log)}
}

type createRoomBookingReq struct {
	RoomID   int64      `json:"idcamera"`
	Username string     `json:"username"`
	Start    model.Date `json:"datainizio"`
	End      model.Date `json:"datafine"`
	Guests   int        `json:"ospiti"`
}

// ListRooms handles GET /api/prenotazioni.  ?tipo=cliente&username=x
// narrows the staff view to one user; clients always get their own rows.
// ?idcamera narrows to one room.
func (h *BookingHandler) ListRooms(c echo.Context) error {
	req := requester(c)
	var f model.BookingFilter
	if c.QueryParam("tipo") == model.RoleClient {
		f.Username = c.QueryParam("username")
	}
	if ref := c.QueryParam("idcamera"); ref != "" {
		if _, err := strconv.ParseInt(ref, 10, 64); err != nil {
			return fail(c, http.StatusBadRequest, "invalid idcamera")
		}
		f.ResourceRef = ref
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	rows, err := h.Svc.ListRoomBookings(ctx, req, f)
	if err != nil {
		return writeError(c, h.Log, "list room bookings", err)
	}
	return c.JSON(http.StatusOK, rows)
}

// CreateRoom handles POST /api/prenotazioni.  An empty username books for
// the session user.
func (h *BookingHandler) CreateRoom(c echo.Context) error {
	req := requester(c)
	var body createRoomBookingReq
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if body.Username == "" {
		body.Username = req.Username
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	id, err := h.Svc.CreateRoomBooking(ctx, req, model.RoomBooking{
		RoomID:   body.RoomID,
		Username: body.Username,
		Start:    body.Start,
		End:      body.End,
		Guests:   body.Guests,
	})
	if err != nil {
		return writeError(c, h.Log, "create room booking", err)
	}
	return created(c, http.StatusOK, id)
}

// DeleteRoom handles DELETE /api/prenotazioni/:id.
func (h *BookingHandler) DeleteRoom(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid booking id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Svc.DeleteRoomBooking(ctx, requester(c), id); err != nil {
		return writeError(c, h.Log, "delete room booking", err)
	}
	return done(c)
}
