package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ghm/hotel-booking/internal/model"
)

type createTableBookingReq struct {
	TableID  int64      `json:"idtavolo"`
	Username string     `json:"username"`
	Date     model.Date `json:"data"`
	Time     string     `json:"ora"`
	Guests   int        `json:"ospiti"`
}

// CreateTable handles POST /api/ristorante/creaPrenotazioni.
func (h *BookingHandler) CreateTable(c echo.Context) error {
	req := requester(c)
	var body createTableBookingReq
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if body.Username == "" {
		body.Username = req.Username
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	id, err := h.Svc.CreateTableBooking(ctx, req, model.TableBooking{
		TableID:  body.TableID,
		Username: body.Username,
		Date:     body.Date,
		Time:     body.Time,
		Guests:   body.Guests,
	})
	if err != nil {
		return writeError(c, h.Log, "create table booking", err)
	}
	return created(c, http.StatusCreated, id)
}

// DeleteTable handles DELETE /api/ristorante/eliminaPrenotazioni/:idtavolo/:data/:ora.
func (h *BookingHandler) DeleteTable(c echo.Context) error {
	tableID, ok := pathID(c, "idtavolo")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid idtavolo")
	}
	day, err := model.ParseDate(c.Param("data"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid data")
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	key := model.TableKey{TableID: tableID, Date: day, Time: c.Param("ora")}
	if err := h.Svc.DeleteTableBooking(ctx, requester(c), key); err != nil {
		return writeError(c, h.Log, "delete table booking", err)
	}
	return done(c)
}

// ListAllTables handles GET /api/ristorante/tutte-prenotazioni (staff).
func (h *BookingHandler) ListAllTables(c echo.Context) error {
	return h.listTables(c, model.BookingFilter{})
}

// ListUserTables handles GET /api/ristorante/mie-prenotazioni/:username.
func (h *BookingHandler) ListUserTables(c echo.Context) error {
	return h.listTables(c, model.BookingFilter{Username: c.Param("username")})
}

func (h *BookingHandler) listTables(c echo.Context, f model.BookingFilter) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	rows, err := h.Svc.ListTableBookings(ctx, requester(c), f)
	if err != nil {
		return writeError(c, h.Log, "list table bookings", err)
	}
	return c.JSON(http.StatusOK, rows)
}
