package model

// Kind identifies the bookable resource family.  It is used as the
// namespace of the per-resource lock rows and in booking events.
type Kind string

const (
	KindRoom  Kind = "camera"
	KindBeach Kind = "ombrellone"
	KindTable Kind = "tavolo"
)

// RoomBooking is a row of the `prenotazioni` table: a room reserved by a
// user over an inclusive range of days.
//
// Fields:
//  ID        – primary key, assigned by the database.
//  RoomID    – booked room (DettagliCamera.idcamera).
//  Username  – requester; usernames are the identity used across the system.
//  Start/End – first and last day of the stay, both inclusive.
//  Guests    – number of guests.
type RoomBooking struct {
	ID       int64  `db:"idprenotazione" json:"idprenotazione"`
	RoomID   int64  `db:"idcamera" json:"idcamera"`
	Username string `db:"username" json:"username"`
	Start    Date   `db:"datainizio" json:"datainizio"`
	End      Date   `db:"datafine" json:"datafine"`
	Guests   int    `db:"ospiti" json:"ospiti"`
}

// BeachBooking is a row of `prenotazioni_spiaggia`.  Umbrella labels are
// free-form (e.g. "A12") and are the resource reference.
type BeachBooking struct {
	ID       int64  `db:"idprenotazione" json:"idprenotazione"`
	Username string `db:"username" json:"username"`
	Umbrella string `db:"ombrellone" json:"ombrellone"`
	Start    Date   `db:"datainizio" json:"datainizio"`
	End      Date   `db:"datafine" json:"datafine"`
}

// TableBooking is a row of `prenotazioni_ristorante`.  A table can be
// booked once per (date, time) slot; TableKey is that natural key.
type TableBooking struct {
	ID       int64  `db:"idprenotazione" json:"idprenotazione"`
	TableID  int64  `db:"idtavolo" json:"idtavolo"`
	Username string `db:"username" json:"username"`
	Date     Date   `db:"data" json:"data"`
	Time     string `db:"ora" json:"ora"`
	Guests   int    `db:"ospiti" json:"ospiti"`
}

// Key returns the slot the booking occupies.
func (b TableBooking) Key() TableKey {
	return TableKey{TableID: b.TableID, Date: b.Date, Time: b.Time}
}

// TableKey addresses a restaurant booking by table, day and time.
type TableKey struct {
	TableID int64
	Date    Date
	Time    string
}

// BookingFilter narrows a listing.  Empty fields do not constrain.
type BookingFilter struct {
	Username    string
	ResourceRef string
}

// Overlaps reports whether the closed intervals [aStart, aEnd] and
// [bStart, bEnd] share at least one day.  Touching boundaries count:
// a stay ending on day X conflicts with one starting on day X.
func Overlaps(aStart, aEnd, bStart, bEnd Date) bool {
	return !(aEnd.Before(bStart) || aStart.After(bEnd))
}
