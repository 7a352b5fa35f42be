// Package booking validates and orchestrates reservations of rooms, beach
// umbrellas and restaurant tables.  The service holds no state between
// requests; exclusivity is enforced by the stores' atomic inserts.
package booking

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ghm/hotel-booking/internal/model"
	"github.com/ghm/hotel-booking/internal/queue"
)

// RoomBookingStore persists room bookings.
type RoomBookingStore interface {
	List(ctx context.Context, f model.BookingFilter) ([]model.RoomBooking, error)
	InsertExclusive(ctx context.Context, b *model.RoomBooking) error
	Delete(ctx context.Context, id int64, owner string) (model.RoomBooking, error)
}

// BeachBookingStore persists umbrella bookings.
type BeachBookingStore interface {
	List(ctx context.Context, f model.BookingFilter) ([]model.BeachBooking, error)
	Occupied(ctx context.Context, start, end model.Date) ([]string, error)
	InsertExclusive(ctx context.Context, b *model.BeachBooking) error
	Delete(ctx context.Context, id int64, owner string) (model.BeachBooking, error)
}

// TableBookingStore persists restaurant bookings.
type TableBookingStore interface {
	List(ctx context.Context, f model.BookingFilter) ([]model.TableBooking, error)
	Insert(ctx context.Context, b *model.TableBooking) error
	Delete(ctx context.Context, key model.TableKey, owner string) (model.TableBooking, error)
}

// EventPublisher receives an event after every successful create or
// delete.  The RabbitMQ publisher and the chat hub implement it.
type EventPublisher interface {
	PublishBooking(ctx context.Context, ev queue.BookingEvent) error
}

// Requester is the identity a call is made on behalf of.
type Requester struct {
	Username string
	Role     string
}

// IsStaff reports whether r sees and manages every booking.
func (r Requester) IsStaff() bool { return model.IsStaffRole(r.Role) }

// owner returns the username deletes are restricted to; empty for staff.
func (r Requester) owner() string {
	if r.IsStaff() {
		return ""
	}
	return r.Username
}

// Service is the booking service.
type Service struct {
	rooms  RoomBookingStore
	beach  BeachBookingStore
	tables TableBookingStore
	log    *zap.Logger

	publishers     []EventPublisher
	publishTimeout time.Duration
	wg             sync.WaitGroup
}

// New builds a Service.  Publishers are notified in the background; a
// failing publisher is logged and never fails the booking.
func New(rooms RoomBookingStore, beach BeachBookingStore, tables TableBookingStore, log *zap.Logger, publishers ...EventPublisher) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		rooms:          rooms,
		beach:          beach,
		tables:         tables,
		log:            log,
		publishers:     publishers,
		publishTimeout: 5 * time.Second,
	}
}

// Wait blocks until every in-flight event publication has finished.
func (s *Service) Wait() { s.wg.Wait() }

// CreateRoomBooking validates b and stores it if the room is free on
// every requested day.  It returns the new booking id.
func (s *Service) CreateRoomBooking(ctx context.Context, req Requester, b model.RoomBooking) (int64, error) {
	if err := validateRoom(&b); err != nil {
		return 0, err
	}
	if err := req.mayActFor(b.Username); err != nil {
		return 0, err
	}
	if err := s.rooms.InsertExclusive(ctx, &b); err != nil {
		return 0, err
	}
	ev := queue.NewBookingEvent(queue.BookingCreated, string(model.KindRoom))
	ev.BookingID, ev.Username, ev.ResourceRef = b.ID, b.Username, strconv.FormatInt(b.RoomID, 10)
	ev.Start, ev.End = b.Start.String(), b.End.String()
	s.publish(ctx, ev)
	return b.ID, nil
}

// CreateBeachBooking validates b and stores it if the umbrella is free on
// every requested day, boundaries included.
func (s *Service) CreateBeachBooking(ctx context.Context, req Requester, b model.BeachBooking) (int64, error) {
	if err := validateBeach(&b); err != nil {
		return 0, err
	}
	if err := req.mayActFor(b.Username); err != nil {
		return 0, err
	}
	if err := s.beach.InsertExclusive(ctx, &b); err != nil {
		return 0, err
	}
	ev := queue.NewBookingEvent(queue.BookingCreated, string(model.KindBeach))
	ev.BookingID, ev.Username, ev.ResourceRef = b.ID, b.Username, b.Umbrella
	ev.Start, ev.End = b.Start.String(), b.End.String()
	s.publish(ctx, ev)
	return b.ID, nil
}

// CreateTableBooking validates b and stores it unless the table is
// already taken at that day and time.
func (s *Service) CreateTableBooking(ctx context.Context, req Requester, b model.TableBooking) (int64, error) {
	if err := validateTable(&b); err != nil {
		return 0, err
	}
	if err := req.mayActFor(b.Username); err != nil {
		return 0, err
	}
	if err := s.tables.Insert(ctx, &b); err != nil {
		return 0, err
	}
	s.publish(ctx, tableEvent(queue.BookingCreated, b.ID, b.Username, b.Key()))
	return b.ID, nil
}

// ListRoomBookings returns room bookings visible to req.
func (s *Service) ListRoomBookings(ctx context.Context, req Requester, f model.BookingFilter) ([]model.RoomBooking, error) {
	f, err := req.scope(f)
	if err != nil {
		return nil, err
	}
	return s.rooms.List(ctx, f)
}

// ListBeachBookings returns umbrella bookings visible to req.
func (s *Service) ListBeachBookings(ctx context.Context, req Requester, f model.BookingFilter) ([]model.BeachBooking, error) {
	f, err := req.scope(f)
	if err != nil {
		return nil, err
	}
	return s.beach.List(ctx, f)
}

// ListTableBookings returns restaurant bookings visible to req, newest
// first.
func (s *Service) ListTableBookings(ctx context.Context, req Requester, f model.BookingFilter) ([]model.TableBooking, error) {
	f, err := req.scope(f)
	if err != nil {
		return nil, err
	}
	return s.tables.List(ctx, f)
}

// OccupiedUmbrellas lists umbrellas booked on at least one day of
// [start, end].
func (s *Service) OccupiedUmbrellas(ctx context.Context, start, end model.Date) ([]string, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	return s.beach.Occupied(ctx, start, end)
}

// DeleteRoomBooking removes room booking id.  Clients can only remove
// their own; anything else is reported as not found.
func (s *Service) DeleteRoomBooking(ctx context.Context, req Requester, id int64) error {
	if id <= 0 {
		return invalid("invalid booking id", "id")
	}
	b, err := s.rooms.Delete(ctx, id, req.owner())
	if err != nil {
		return err
	}
	ev := queue.NewBookingEvent(queue.BookingDeleted, string(model.KindRoom))
	ev.BookingID, ev.Username, ev.ResourceRef = b.ID, b.Username, strconv.FormatInt(b.RoomID, 10)
	ev.Start, ev.End, ev.Actor = b.Start.String(), b.End.String(), req.Username
	s.publish(ctx, ev)
	return nil
}

// DeleteBeachBooking removes umbrella booking id with the same scoping
// as DeleteRoomBooking.
func (s *Service) DeleteBeachBooking(ctx context.Context, req Requester, id int64) error {
	if id <= 0 {
		return invalid("invalid booking id", "id")
	}
	b, err := s.beach.Delete(ctx, id, req.owner())
	if err != nil {
		return err
	}
	ev := queue.NewBookingEvent(queue.BookingDeleted, string(model.KindBeach))
	ev.BookingID, ev.Username, ev.ResourceRef = b.ID, b.Username, b.Umbrella
	ev.Start, ev.End, ev.Actor = b.Start.String(), b.End.String(), req.Username
	s.publish(ctx, ev)
	return nil
}

// DeleteTableBooking removes the restaurant booking at key.
func (s *Service) DeleteTableBooking(ctx context.Context, req Requester, key model.TableKey) error {
	if key.TableID <= 0 || key.Date.IsZero() || strings.TrimSpace(key.Time) == "" {
		return missing("idtavolo", "data", "ora")
	}
	t, err := normalizeTime(key.Time)
	if err != nil {
		return err
	}
	key.Time = t
	b, err := s.tables.Delete(ctx, key, req.owner())
	if err != nil {
		return err
	}
	ev := tableEvent(queue.BookingDeleted, b.ID, b.Username, key)
	ev.Actor = req.Username
	s.publish(ctx, ev)
	return nil
}

func tableEvent(typ string, id int64, username string, key model.TableKey) queue.BookingEvent {
	ev := queue.NewBookingEvent(typ, string(model.KindTable))
	ev.BookingID, ev.Username = id, username
	ev.ResourceRef = strconv.FormatInt(key.TableID, 10)
	ev.Start, ev.End, ev.Slot = key.Date.String(), key.Date.String(), key.Time
	return ev
}

// publish hands ev to every publisher in the background.  The request
// context is detached so a finished request does not abort delivery.
func (s *Service) publish(ctx context.Context, ev queue.BookingEvent) {
	if len(s.publishers) == 0 {
		return
	}
	base := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		pctx, cancel := context.WithTimeout(base, s.publishTimeout)
		defer cancel()
		for _, p := range s.publishers {
			if err := p.PublishBooking(pctx, ev); err != nil {
				s.log.Warn("booking event not published",
					zap.String("event_id", ev.ID), zap.String("type", ev.Type), zap.Error(err))
			}
		}
	}()
}

// mayActFor rejects a client creating a booking in someone else's name.
func (r Requester) mayActFor(username string) error {
	if r.IsStaff() || r.Username == username {
		return nil
	}
	return ErrForbidden
}

// scope narrows f to what r may see.  Clients only see their own rows
// and asking for another user's is forbidden; staff filters pass through.
func (r Requester) scope(f model.BookingFilter) (model.BookingFilter, error) {
	if r.IsStaff() {
		return f, nil
	}
	if f.Username != "" && f.Username != r.Username {
		return f, ErrForbidden
	}
	if r.Username == "" {
		return f, ErrForbidden
	}
	f.Username = r.Username
	return f, nil
}
