// Package memory provides in-process implementations of the stores in
// package repository.  They back STORE_DRIVER=memory and the service and
// handler tests.  Each store guards its rows with a mutex so the
// check-then-insert of an exclusive booking happens as one step.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/ghm/hotel-booking/internal/model"
	"github.com/ghm/hotel-booking/internal/repository"
)

// RoomBookings is the in-memory counterpart of repository.RoomBookingRepo.
type RoomBookings struct {
	mu     sync.Mutex
	nextID int64
	rows   []model.RoomBooking
}

func NewRoomBookings() *RoomBookings { return &RoomBookings{} }

func (s *RoomBookings) List(_ context.Context, f model.BookingFilter) ([]model.RoomBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.RoomBooking{}
	for _, b := range s.rows {
		if f.Username != "" && b.Username != f.Username {
			continue
		}
		if f.ResourceRef != "" && strconv.FormatInt(b.RoomID, 10) != f.ResourceRef {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *RoomBookings) FindOverlapping(_ context.Context, roomID int64, start, end model.Date) ([]model.RoomBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlapping(roomID, start, end), nil
}

func (s *RoomBookings) overlapping(roomID int64, start, end model.Date) []model.RoomBooking {
	out := []model.RoomBooking{}
	for _, b := range s.rows {
		if b.RoomID == roomID && model.Overlaps(b.Start, b.End, start, end) {
			out = append(out, b)
		}
	}
	return out
}

func (s *RoomBookings) InsertExclusive(_ context.Context, b *model.RoomBooking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.overlapping(b.RoomID, b.Start, b.End)) > 0 {
		return repository.ErrConflict
	}
	s.nextID++
	b.ID = s.nextID
	s.rows = append(s.rows, *b)
	return nil
}

func (s *RoomBookings) Delete(_ context.Context, id int64, owner string) (model.RoomBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.rows {
		if b.ID == id && (owner == "" || b.Username == owner) {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return b, nil
		}
	}
	return model.RoomBooking{}, repository.ErrNotFound
}

// BeachBookings is the in-memory counterpart of repository.BeachBookingRepo.
type BeachBookings struct {
	mu     sync.Mutex
	nextID int64
	rows   []model.BeachBooking
}

func NewBeachBookings() *BeachBookings { return &BeachBookings{} }

func (s *BeachBookings) List(_ context.Context, f model.BookingFilter) ([]model.BeachBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.BeachBooking{}
	for _, b := range s.rows {
		if f.Username != "" && b.Username != f.Username {
			continue
		}
		if f.ResourceRef != "" && b.Umbrella != f.ResourceRef {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *BeachBookings) FindOverlapping(_ context.Context, umbrella string, start, end model.Date) ([]model.BeachBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlapping(umbrella, start, end), nil
}

func (s *BeachBookings) overlapping(umbrella string, start, end model.Date) []model.BeachBooking {
	out := []model.BeachBooking{}
	for _, b := range s.rows {
		if b.Umbrella == umbrella && model.Overlaps(b.Start, b.End, start, end) {
			out = append(out, b)
		}
	}
	return out
}

// Occupied returns the sorted distinct umbrellas booked on a day in
// [start, end].
func (s *BeachBookings) Occupied(_ context.Context, start, end model.Date) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, b := range s.rows {
		if model.Overlaps(b.Start, b.End, start, end) && !seen[b.Umbrella] {
			seen[b.Umbrella] = true
			out = append(out, b.Umbrella)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *BeachBookings) InsertExclusive(_ context.Context, b *model.BeachBooking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.overlapping(b.Umbrella, b.Start, b.End)) > 0 {
		return repository.ErrConflict
	}
	s.nextID++
	b.ID = s.nextID
	s.rows = append(s.rows, *b)
	return nil
}

func (s *BeachBookings) Delete(_ context.Context, id int64, owner string) (model.BeachBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.rows {
		if b.ID == id && (owner == "" || b.Username == owner) {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return b, nil
		}
	}
	return model.BeachBooking{}, repository.ErrNotFound
}

// TableBookings is the in-memory counterpart of repository.TableBookingRepo.
type TableBookings struct {
	mu     sync.Mutex
	nextID int64
	rows   []model.TableBooking
}

func NewTableBookings() *TableBookings { return &TableBookings{} }

// List returns matching bookings, latest slot first.
func (s *TableBookings) List(_ context.Context, f model.BookingFilter) ([]model.TableBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.TableBooking{}
	for _, b := range s.rows {
		if f.Username != "" && b.Username != f.Username {
			continue
		}
		if f.ResourceRef != "" && strconv.FormatInt(b.TableID, 10) != f.ResourceRef {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Time > out[j].Time
	})
	return out, nil
}

func (s *TableBookings) Insert(_ context.Context, b *model.TableBooking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.rows {
		if sameSlot(cur.Key(), b.Key()) {
			return repository.ErrConflict
		}
	}
	s.nextID++
	b.ID = s.nextID
	s.rows = append(s.rows, *b)
	return nil
}

func (s *TableBookings) Delete(_ context.Context, key model.TableKey, owner string) (model.TableBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.rows {
		if sameSlot(b.Key(), key) && (owner == "" || b.Username == owner) {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return b, nil
		}
	}
	return model.TableBooking{}, repository.ErrNotFound
}

func sameSlot(a, b model.TableKey) bool {
	return a.TableID == b.TableID && a.Date.Equal(b.Date) && a.Time == b.Time
}
