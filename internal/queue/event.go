// Package queue carries booking events over RabbitMQ: the payload type,
// a publisher used by the booking service and the consumer that keeps
// logs/booking.log.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// BookingQueue is the durable queue booking events are routed to.
const BookingQueue = "booking.events"

// Event types.
const (
	BookingCreated = "booking.created"
	BookingDeleted = "booking.deleted"
)

// BookingEvent is published after a booking is stored or removed.  It
// carries enough for consumers to log or notify without reading the
// database.  Start and End are "YYYY-MM-DD"; for restaurant bookings both
// are the booking day and Slot holds the time.  Username owns the
// booking; Actor is who removed it when that was someone else.
type BookingEvent struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Kind        string `json:"kind"`
	BookingID   int64  `json:"booking_id,omitempty"`
	Username    string `json:"username"`
	ResourceRef string `json:"resource_ref"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
	Slot        string `json:"slot,omitempty"`
	Actor       string `json:"actor,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}

// NewBookingEvent stamps a fresh id and the current UTC time.
func NewBookingEvent(typ, kind string) BookingEvent {
	return BookingEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		Kind:       kind,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
