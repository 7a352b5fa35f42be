package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ghm/hotel-booking/internal/model"
)

type createBeachBookingReq struct {
	Username string     `json:"username"`
	Umbrella string     `json:"ombrellone"`
	Start    model.Date `json:"datainizio"`
	End      model.Date `json:"datafine"`
}

// Occupied handles GET /api/spiaggia/occupati?datainizio=&datafine=.
func (h *BookingHandler) Occupied(c echo.Context) error {
	rawStart, rawEnd := c.QueryParam("datainizio"), c.QueryParam("datafine")
	if rawStart == "" || rawEnd == "" {
		return fail(c, http.StatusBadRequest, "required params: datainizio, datafine")
	}
	start, err := model.ParseDate(rawStart)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid datainizio")
	}
	end, err := model.ParseDate(rawEnd)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid datafine")
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	umbrellas, err := h.Svc.OccupiedUmbrellas(ctx, start, end)
	if err != nil {
		return writeError(c, h.Log, "occupied umbrellas", err)
	}
	return c.JSON(http.StatusOK, umbrellas)
}

// ListBeach handles GET /api/spiaggia/prenotazioni[?username=&ombrellone=].
func (h *BookingHandler) ListBeach(c echo.Context) error {
	f := model.BookingFilter{
		Username:    c.QueryParam("username"),
		ResourceRef: c.QueryParam("ombrellone"),
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	rows, err := h.Svc.ListBeachBookings(ctx, requester(c), f)
	if err != nil {
		return writeError(c, h.Log, "list beach bookings", err)
	}
	return c.JSON(http.StatusOK, rows)
}

// CreateBeach handles POST /api/spiaggia/prenotazioni.
func (h *BookingHandler) CreateBeach(c echo.Context) error {
	req := requester(c)
	var body createBeachBookingReq
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if body.Username == "" {
		body.Username = req.Username
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	id, err := h.Svc.CreateBeachBooking(ctx, req, model.BeachBooking{
		Username: body.Username,
		Umbrella: body.Umbrella,
		Start:    body.Start,
		End:      body.End,
	})
	if err != nil {
		return writeError(c, h.Log, "create beach booking", err)
	}
	return created(c, http.StatusOK, id)
}

// DeleteBeach handles DELETE /api/spiaggia/prenotazioni/:id.
func (h *BookingHandler) DeleteBeach(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid booking id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Svc.DeleteBeachBooking(ctx, requester(c), id); err != nil {
		return writeError(c, h.Log, "delete beach booking", err)
	}
	return done(c)
}
