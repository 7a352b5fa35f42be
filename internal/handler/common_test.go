package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ghm/hotel-booking/internal/booking"
	"github.com/ghm/hotel-booking/internal/repository"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
		logged bool
	}{
		{"validation", &booking.ValidationError{Fields: []string{"ombrellone"}, Msg: "missing required fields"}, http.StatusBadRequest, "missing required fields: ombrellone", false},
		{"forbidden", booking.ErrForbidden, http.StatusForbidden, "forbidden", false},
		{"not found", fmt.Errorf("delete: %w", repository.ErrNotFound), http.StatusNotFound, "not found", false},
		{"conflict", repository.ErrConflict, http.StatusConflict, "already booked", false},
		{"username taken", repository.ErrUsernameExists, http.StatusConflict, "username already in use", false},
		{"lock contention", &repository.StorageError{Op: "lock umbrella", Err: fmt.Errorf("%w: deadlock", repository.ErrBusy)}, http.StatusServiceUnavailable, "resource busy", true},
		{"storage", &repository.StorageError{Op: "insert beach booking", Err: errors.New("bad connection")}, http.StatusInternalServerError, "database error", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

			if err := writeError(c, zap.New(core), "op", tt.err); err != nil {
				t.Fatal(err)
			}
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if !strings.Contains(rec.Body.String(), `"success":false`) || !strings.Contains(rec.Body.String(), tt.body) {
				t.Fatalf("body = %s", rec.Body)
			}
			if got := logs.Len() > 0; got != tt.logged {
				t.Fatalf("logged = %v, want %v", got, tt.logged)
			}
			if busy := rec.Header().Get("Retry-After") != ""; busy != (tt.status == http.StatusServiceUnavailable) {
				t.Fatalf("Retry-After = %q", rec.Header().Get("Retry-After"))
			}
		})
	}
}

func TestPathID(t *testing.T) {
	e := echo.New()
	for raw, want := range map[string]bool{"7": true, "0": false, "-3": false, "x": false, "": false} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(raw)
		if _, ok := pathID(c, "id"); ok != want {
			t.Fatalf("pathID(%q) ok = %v, want %v", raw, ok, want)
		}
	}
}
