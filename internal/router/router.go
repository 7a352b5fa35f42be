// Package router builds the echo instance: global middleware, the /api
// routes and the static frontend.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/ghm/hotel-booking/internal/config"
	"github.com/ghm/hotel-booking/internal/handler"
	"github.com/ghm/hotel-booking/internal/middleware"
)

// Deps are the handlers and optional middleware the routes are built from.
// Cache and Limiter may be nil.
type Deps struct {
	Cfg      config.Config
	Log      *zap.Logger
	Auth     *handler.AuthHandler
	Rooms    *handler.RoomHandler
	Reviews  *handler.ReviewHandler
	Bookings *handler.BookingHandler
	Chat     *handler.ChatHandler
	Cache    *middleware.ResponseCache
	Limiter  echo.MiddlewareFunc
}

// New returns an echo instance with every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     d.Cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))
	e.Use(middleware.LoadSession(d.Cfg.JWTSecret))

	RegisterRoutes(e)
	api := e.Group("/api")
	if d.Limiter != nil {
		api.Use(d.Limiter)
	}
	RegisterAuth(api, d.Auth)
	RegisterCatalog(api, d.Rooms, d.Reviews, d.Cache)
	RegisterBookings(api, d.Bookings)
	api.GET("/chat/ws", d.Chat.Connect)

	if d.Cfg.PublicDir != "" {
		e.Static("/", d.Cfg.PublicDir)
	}
	return e
}

// RegisterRoutes registers the unauthenticated probes.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers login, registration and the session profile.
func RegisterAuth(api *echo.Group, a *handler.AuthHandler) {
	api.POST("/register", a.Register)
	api.POST("/login", a.Login)
	api.POST("/logout", a.Logout)
	api.GET("/profile", a.Profile)
}
