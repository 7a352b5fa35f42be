package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ghm/hotel-booking/internal/handler"
	"github.com/ghm/hotel-booking/internal/middleware"
)

// RegisterBookings registers room, beach and restaurant bookings.  Only
// the umbrella availability query is public.
func RegisterBookings(api *echo.Group, b *handler.BookingHandler) {
	api.GET("/spiaggia/occupati", b.Occupied)

	auth := middleware.RequireSession()

	api.GET("/prenotazioni", b.ListRooms, auth)
	api.POST("/prenotazioni", b.CreateRoom, auth)
	api.DELETE("/prenotazioni/:id", b.DeleteRoom, auth)

	api.GET("/spiaggia/prenotazioni", b.ListBeach, auth)
	api.POST("/spiaggia/prenotazioni", b.CreateBeach, auth)
	api.DELETE("/spiaggia/prenotazioni/:id", b.DeleteBeach, auth)

	api.POST("/ristorante/creaPrenotazioni", b.CreateTable, auth)
	api.DELETE("/ristorante/eliminaPrenotazioni/:idtavolo/:data/:ora", b.DeleteTable, auth)
	api.GET("/ristorante/tutte-prenotazioni", b.ListAllTables, auth, middleware.RequireStaff())
	api.GET("/ristorante/mie-prenotazioni/:username", b.ListUserTables, auth)
}
