package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ghm/hotel-booking/internal/handler"
	"github.com/ghm/hotel-booking/internal/middleware"
	"github.com/ghm/hotel-booking/internal/model"
)

// RegisterCatalog registers rooms and reviews.  Their GETs are served
// from the response cache and every write purges it.
func RegisterCatalog(api *echo.Group, rooms *handler.RoomHandler, reviews *handler.ReviewHandler, cache *middleware.ResponseCache) {
	var read, purge echo.MiddlewareFunc = passThrough, passThrough
	if cache != nil {
		read, purge = cache.Middleware(), cache.PurgeOnWrite()
	}

	api.GET("/camere", rooms.List, read)
	api.PUT("/camere/:id", rooms.Update, middleware.RequireStaff(), purge)

	api.GET("/recensioni", reviews.List, read)
	api.POST("/recensioni", reviews.Create, middleware.RequireRole(model.RoleClient), purge)
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
