package booking

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ghm/hotel-booking/internal/model"
)

// Column widths of the booking tables, in characters.
const (
	maxUsernameLen = 64
	maxUmbrellaLen = 16
)

// tooLong rejects s when it does not fit a column of limit characters.
func tooLong(s string, limit int, field string) error {
	if utf8.RuneCountInString(s) > limit {
		return invalid("must be at most "+strconv.Itoa(limit)+" characters", field)
	}
	return nil
}

func validateRoom(b *model.RoomBooking) error {
	b.Username = strings.TrimSpace(b.Username)
	var miss []string
	if b.RoomID == 0 {
		miss = append(miss, "idcamera")
	}
	if b.Username == "" {
		miss = append(miss, "username")
	}
	if b.Start.IsZero() {
		miss = append(miss, "datainizio")
	}
	if b.End.IsZero() {
		miss = append(miss, "datafine")
	}
	if b.Guests == 0 {
		miss = append(miss, "ospiti")
	}
	if len(miss) > 0 {
		return missing(miss...)
	}
	if err := tooLong(b.Username, maxUsernameLen, "username"); err != nil {
		return err
	}
	if b.RoomID < 0 {
		return invalid("invalid room", "idcamera")
	}
	if b.Guests < 1 {
		return invalid("guests must be at least 1", "ospiti")
	}
	return validateRange(b.Start, b.End)
}

func validateBeach(b *model.BeachBooking) error {
	b.Username = strings.TrimSpace(b.Username)
	b.Umbrella = strings.TrimSpace(b.Umbrella)
	var miss []string
	if b.Username == "" {
		miss = append(miss, "username")
	}
	if b.Umbrella == "" {
		miss = append(miss, "ombrellone")
	}
	if b.Start.IsZero() {
		miss = append(miss, "datainizio")
	}
	if b.End.IsZero() {
		miss = append(miss, "datafine")
	}
	if len(miss) > 0 {
		return missing(miss...)
	}
	if err := tooLong(b.Username, maxUsernameLen, "username"); err != nil {
		return err
	}
	if err := tooLong(b.Umbrella, maxUmbrellaLen, "ombrellone"); err != nil {
		return err
	}
	return validateRange(b.Start, b.End)
}

func validateTable(b *model.TableBooking) error {
	b.Username = strings.TrimSpace(b.Username)
	var miss []string
	if b.TableID == 0 {
		miss = append(miss, "idtavolo")
	}
	if b.Username == "" {
		miss = append(miss, "username")
	}
	if b.Date.IsZero() {
		miss = append(miss, "data")
	}
	if strings.TrimSpace(b.Time) == "" {
		miss = append(miss, "ora")
	}
	if b.Guests == 0 {
		miss = append(miss, "ospiti")
	}
	if len(miss) > 0 {
		return missing(miss...)
	}
	if err := tooLong(b.Username, maxUsernameLen, "username"); err != nil {
		return err
	}
	if b.TableID < 0 {
		return invalid("invalid table", "idtavolo")
	}
	if b.Guests < 1 {
		return invalid("guests must be at least 1", "ospiti")
	}
	t, err := normalizeTime(b.Time)
	if err != nil {
		return err
	}
	b.Time = t
	return nil
}

// validateRange requires both dates and end >= start.
func validateRange(start, end model.Date) error {
	if start.IsZero() || end.IsZero() {
		return missing("datainizio", "datafine")
	}
	if end.Before(start) {
		return invalid("datafine must not be before datainizio", "datainizio", "datafine")
	}
	return nil
}

// normalizeTime accepts HH:MM or HH:MM:SS and returns HH:MM:SS, the
// form MySQL returns for a TIME column.
func normalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", invalid("invalid time, expected HH:MM", "ora")
}
