// Package handler holds the echo HTTP handlers.  Handlers bind and
// shape requests; validation, scoping and conflicts live in the booking
// service and the stores.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ghm/hotel-booking/internal/booking"
	"github.com/ghm/hotel-booking/internal/middleware"
	"github.com/ghm/hotel-booking/internal/repository"
)

// requestTimeout bounds the store calls of a single request.
const requestTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// requester is the session identity of the request, empty when anonymous.
func requester(c echo.Context) booking.Requester {
	u, r := middleware.CurrentUser(c)
	return booking.Requester{Username: u, Role: r}
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "error": msg})
}

func created(c echo.Context, status int, id int64) error {
	return c.JSON(status, echo.Map{"success": true, "id": id})
}

func done(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// writeError maps service and store errors to status codes.  Unknown
// errors are logged and answered with a generic 500.
func writeError(c echo.Context, log *zap.Logger, op string, err error) error {
	var verr *booking.ValidationError
	switch {
	case errors.As(err, &verr):
		return fail(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, repository.ErrForbidden):
		return fail(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrConflict):
		return fail(c, http.StatusConflict, "already booked for the selected period")
	case errors.Is(err, repository.ErrUsernameExists):
		return fail(c, http.StatusConflict, "username already in use")
	case errors.Is(err, repository.ErrBusy):
		log.Warn(op+" hit lock contention", zap.Error(err), zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))
		c.Response().Header().Set("Retry-After", "1")
		return fail(c, http.StatusServiceUnavailable, "resource busy, please retry")
	}
	log.Error(op+" failed", zap.Error(err), zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))
	return fail(c, http.StatusInternalServerError, "database error")
}

func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
