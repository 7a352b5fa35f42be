package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ghm/hotel-booking/internal/model"
	"github.com/ghm/hotel-booking/internal/queue"
	"github.com/ghm/hotel-booking/internal/repository"
	"github.com/ghm/hotel-booking/internal/repository/memory"
)

func d(s string) model.Date {
	v, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return v
}

// countingBeach records every store call so tests can assert that invalid
// requests never reach it.
type countingBeach struct {
	*memory.BeachBookings
	calls atomic.Int32
}

func (c *countingBeach) InsertExclusive(ctx context.Context, b *model.BeachBooking) error {
	c.calls.Add(1)
	return c.BeachBookings.InsertExclusive(ctx, b)
}

type recorder struct {
	mu     sync.Mutex
	events []queue.BookingEvent
	err    error
}

func (r *recorder) PublishBooking(_ context.Context, ev queue.BookingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

var (
	anna  = Requester{Username: "anna", Role: model.RoleClient}
	bruno = Requester{Username: "bruno", Role: model.RoleClient}
	staff = Requester{Username: "reception", Role: model.RoleEmployee}
)

func newService(pubs ...EventPublisher) (*Service, *countingBeach) {
	beach := &countingBeach{BeachBookings: memory.NewBeachBookings()}
	return New(memory.NewRoomBookings(), beach, memory.NewTableBookings(), nil, pubs...), beach
}

func TestBeachBookingOverlap(t *testing.T) {
	tests := []struct {
		name          string
		first, second [2]string
		wantConflict  bool
	}{
		{"same range", [2]string{"2024-01-01", "2024-01-05"}, [2]string{"2024-01-01", "2024-01-05"}, true},
		{"shared boundary day", [2]string{"2024-01-01", "2024-01-05"}, [2]string{"2024-01-05", "2024-01-10"}, true},
		{"ends on next start", [2]string{"2024-01-01", "2024-01-04"}, [2]string{"2024-01-04", "2024-01-06"}, true},
		{"one day gap", [2]string{"2024-01-01", "2024-01-04"}, [2]string{"2024-01-06", "2024-01-08"}, false},
		{"adjacent days", [2]string{"2024-01-01", "2024-01-04"}, [2]string{"2024-01-05", "2024-01-08"}, false},
		{"second contains first", [2]string{"2024-01-03", "2024-01-04"}, [2]string{"2024-01-01", "2024-01-10"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService()
			ctx := context.Background()
			_, err := svc.CreateBeachBooking(ctx, anna, model.BeachBooking{
				Username: "anna", Umbrella: "A1", Start: d(tt.first[0]), End: d(tt.first[1])})
			if err != nil {
				t.Fatalf("first booking: %v", err)
			}
			_, err = svc.CreateBeachBooking(ctx, bruno, model.BeachBooking{
				Username: "bruno", Umbrella: "A1", Start: d(tt.second[0]), End: d(tt.second[1])})
			if tt.wantConflict && !errors.Is(err, repository.ErrConflict) {
				t.Fatalf("want conflict, got %v", err)
			}
			if !tt.wantConflict && err != nil {
				t.Fatalf("want success, got %v", err)
			}
		})
	}
}

func TestCreateThenListRoundTrip(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	id, err := svc.CreateBeachBooking(ctx, anna, model.BeachBooking{
		Username: "anna", Umbrella: " B7 ", Start: d("2024-07-01"), End: d("2024-07-02")})
	if err != nil {
		t.Fatal(err)
	}
	list, err := svc.ListBeachBookings(ctx, anna, model.BookingFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != id || list[0].Umbrella != "B7" {
		t.Fatalf("list = %+v, id = %d", list, id)
	}
}

func TestValidationBeforeStoreAccess(t *testing.T) {
	tests := []struct {
		name string
		b    model.BeachBooking
	}{
		{"missing datafine", model.BeachBooking{Username: "anna", Umbrella: "A1", Start: d("2024-01-01")}},
		{"missing umbrella", model.BeachBooking{Username: "anna", Start: d("2024-01-01"), End: d("2024-01-02")}},
		{"missing username", model.BeachBooking{Umbrella: "A1", Start: d("2024-01-01"), End: d("2024-01-02")}},
		{"end before start", model.BeachBooking{Username: "anna", Umbrella: "A1", Start: d("2024-01-05"), End: d("2024-01-01")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, beach := newService()
			_, err := svc.CreateBeachBooking(context.Background(), anna, tt.b)
			var ve *ValidationError
			if !errors.As(err, &ve) || !errors.Is(err, ErrValidation) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if n := beach.calls.Load(); n != 0 {
				t.Fatalf("store called %d times", n)
			}
		})
	}
}

func TestValidationMessageNamesFields(t *testing.T) {
	svc, _ := newService()
	_, err := svc.CreateRoomBooking(context.Background(), anna, model.RoomBooking{Username: "anna", RoomID: 1})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	want := []string{"datainizio", "datafine", "ospiti"}
	if len(ve.Fields) != len(want) {
		t.Fatalf("fields = %v", ve.Fields)
	}
	for i := range want {
		if ve.Fields[i] != want[i] {
			t.Fatalf("fields = %v", ve.Fields)
		}
	}
}

func TestConcurrentBeachBookings(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	const n = 50

	var wg sync.WaitGroup
	var ok, conflicts atomic.Int32
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.CreateBeachBooking(ctx, staff, model.BeachBooking{
				Username: "anna", Umbrella: "C3", Start: d("2024-08-01"), End: d("2024-08-15")})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, repository.ErrConflict):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()
	if ok.Load() != 1 || conflicts.Load() != n-1 {
		t.Fatalf("ok=%d conflicts=%d", ok.Load(), conflicts.Load())
	}
}

func TestDeleteMissingIsNotFound(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	if err := svc.DeleteBeachBooking(ctx, staff, 404); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("beach: %v", err)
	}
	if err := svc.DeleteRoomBooking(ctx, staff, 404); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("room: %v", err)
	}
	key := model.TableKey{TableID: 1, Date: d("2024-01-01"), Time: "20:00"}
	err := svc.DeleteTableBooking(ctx, staff, key)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("table: %v", err)
	}
	var se *repository.StorageError
	if errors.As(err, &se) {
		t.Fatal("not found must not be a storage error")
	}
}

func TestRoleScopedListing(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	for i, who := range []Requester{anna, bruno, anna} {
		start := d("2024-09-01").AddDays(i * 10)
		_, err := svc.CreateRoomBooking(ctx, who, model.RoomBooking{
			RoomID: 1, Username: who.Username, Start: start, End: start.AddDays(2), Guests: 2})
		if err != nil {
			t.Fatal(err)
		}
	}

	mine, err := svc.ListRoomBookings(ctx, anna, model.BookingFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 {
		t.Fatalf("anna sees %d bookings", len(mine))
	}
	for _, b := range mine {
		if b.Username != "anna" {
			t.Fatalf("client saw %s's booking", b.Username)
		}
	}
	if _, err := svc.ListRoomBookings(ctx, anna, model.BookingFilter{Username: "bruno"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("client asking for another user: %v", err)
	}
	if _, err := svc.ListRoomBookings(ctx, Requester{}, model.BookingFilter{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("anonymous listing: %v", err)
	}

	all, err := svc.ListRoomBookings(ctx, staff, model.BookingFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("staff sees %d bookings", len(all))
	}
	brunos, _ := svc.ListRoomBookings(ctx, staff, model.BookingFilter{Username: "bruno"})
	if len(brunos) != 1 {
		t.Fatalf("staff filter returned %d", len(brunos))
	}
}

func TestClientCannotBookOrDeleteForOthers(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, err := svc.CreateBeachBooking(ctx, anna, model.BeachBooking{
		Username: "bruno", Umbrella: "A1", Start: d("2024-01-01"), End: d("2024-01-01")})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("create for other user: %v", err)
	}

	id, err := svc.CreateBeachBooking(ctx, bruno, model.BeachBooking{
		Username: "bruno", Umbrella: "A1", Start: d("2024-01-01"), End: d("2024-01-01")})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteBeachBooking(ctx, anna, id); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("delete other user's booking: %v", err)
	}
	if err := svc.DeleteBeachBooking(ctx, bruno, id); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func TestRoomExclusivity(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	b := model.RoomBooking{RoomID: 3, Username: "anna", Start: d("2024-05-01"), End: d("2024-05-04"), Guests: 2}
	if _, err := svc.CreateRoomBooking(ctx, anna, b); err != nil {
		t.Fatal(err)
	}
	b.Username, b.Start, b.End = "bruno", d("2024-05-04"), d("2024-05-06")
	if _, err := svc.CreateRoomBooking(ctx, bruno, b); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("overlapping stay: %v", err)
	}
	b.Start = d("2024-05-05")
	if _, err := svc.CreateRoomBooking(ctx, bruno, b); err != nil {
		t.Fatalf("next day stay: %v", err)
	}
}

func TestTableBookings(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	b := model.TableBooking{TableID: 2, Username: "anna", Date: d("2024-06-10"), Time: "20:30", Guests: 4}
	id, err := svc.CreateTableBooking(ctx, anna, b)
	if err != nil {
		t.Fatal(err)
	}
	b.Username, b.Time = "bruno", "20:30:00"
	if _, err := svc.CreateTableBooking(ctx, bruno, b); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("same slot: %v", err)
	}
	b.Time = "25:00"
	if _, err := svc.CreateTableBooking(ctx, bruno, b); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad time: %v", err)
	}

	list, _ := svc.ListTableBookings(ctx, anna, model.BookingFilter{})
	if len(list) != 1 || list[0].ID != id || list[0].Time != "20:30:00" {
		t.Fatalf("list = %+v", list)
	}
	key := model.TableKey{TableID: 2, Date: d("2024-06-10"), Time: "20:30"}
	if err := svc.DeleteTableBooking(ctx, anna, key); err != nil {
		t.Fatalf("delete with short time: %v", err)
	}
}

func TestOccupiedUmbrellas(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	for _, u := range []string{"B2", "A1"} {
		if _, err := svc.CreateBeachBooking(ctx, anna, model.BeachBooking{
			Username: "anna", Umbrella: u, Start: d("2024-07-01"), End: d("2024-07-03")}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := svc.OccupiedUmbrellas(ctx, d("2024-07-03"), d("2024-07-09"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "A1" {
		t.Fatalf("occupied = %v", got)
	}
	if _, err := svc.OccupiedUmbrellas(ctx, d("2024-07-09"), d("2024-07-01")); !errors.Is(err, ErrValidation) {
		t.Fatalf("reversed range: %v", err)
	}
}

func TestEventsPublished(t *testing.T) {
	failing := &recorder{err: errors.New("broker down")}
	rec := &recorder{}
	svc, _ := newService(failing, rec)
	ctx, cancel := context.WithCancel(context.Background())

	id, err := svc.CreateBeachBooking(ctx, anna, model.BeachBooking{
		Username: "anna", Umbrella: "A1", Start: d("2024-07-01"), End: d("2024-07-02")})
	if err != nil {
		t.Fatalf("publisher failure must not fail the booking: %v", err)
	}
	cancel()
	if err := svc.DeleteBeachBooking(context.Background(), anna, id); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() { svc.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publishers did not finish")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 2 {
		t.Fatalf("events = %+v", rec.events)
	}
	types := map[string]queue.BookingEvent{}
	for _, ev := range rec.events {
		types[ev.Type] = ev
	}
	created := types[queue.BookingCreated]
	if created.BookingID != id || created.ResourceRef != "A1" || created.Start != "2024-07-01" {
		t.Fatalf("created event = %+v", created)
	}
	if _, ok := types[queue.BookingDeleted]; !ok {
		t.Fatal("missing delete event")
	}
}

func TestStaffDeleteEventNamesOwner(t *testing.T) {
	rec := &recorder{}
	svc, _ := newService(rec)
	ctx := context.Background()

	beachID, err := svc.CreateBeachBooking(ctx, anna, model.BeachBooking{
		Username: "anna", Umbrella: "A1", Start: d("2025-07-01"), End: d("2025-07-05")})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateTableBooking(ctx, anna, model.TableBooking{
		TableID: 4, Username: "anna", Date: d("2025-07-05"), Time: "20:00", Guests: 2}); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteBeachBooking(ctx, staff, beachID); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteTableBooking(ctx, staff, model.TableKey{TableID: 4, Date: d("2025-07-05"), Time: "20:00"}); err != nil {
		t.Fatal(err)
	}
	svc.Wait()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	var deleted []queue.BookingEvent
	for _, ev := range rec.events {
		if ev.Type == queue.BookingDeleted {
			deleted = append(deleted, ev)
		}
	}
	if len(deleted) != 2 {
		t.Fatalf("delete events = %+v", rec.events)
	}
	for _, ev := range deleted {
		if ev.Username != "anna" || ev.Actor != "reception" || ev.BookingID == 0 {
			t.Fatalf("delete event = %+v", ev)
		}
		switch ev.Kind {
		case string(model.KindBeach):
			if ev.ResourceRef != "A1" || ev.Start != "2025-07-01" || ev.End != "2025-07-05" {
				t.Fatalf("beach delete event = %+v", ev)
			}
		case string(model.KindTable):
			if ev.ResourceRef != "4" || ev.Slot != "20:00:00" {
				t.Fatalf("table delete event = %+v", ev)
			}
		default:
			t.Fatalf("unexpected kind %q", ev.Kind)
		}
	}
}

func TestFieldLengthLimits(t *testing.T) {
	svc, beach := newService()
	ctx := context.Background()
	long := func(n int) string { return strings.Repeat("x", n) }
	tests := []struct {
		name  string
		call  func() error
		field string
	}{
		{"umbrella label", func() error {
			_, err := svc.CreateBeachBooking(ctx, staff, model.BeachBooking{
				Username: "anna", Umbrella: long(maxUmbrellaLen + 1), Start: d("2025-07-01"), End: d("2025-07-01")})
			return err
		}, "ombrellone"},
		{"beach username", func() error {
			_, err := svc.CreateBeachBooking(ctx, staff, model.BeachBooking{
				Username: long(maxUsernameLen + 1), Umbrella: "A1", Start: d("2025-07-01"), End: d("2025-07-01")})
			return err
		}, "username"},
		{"room username", func() error {
			_, err := svc.CreateRoomBooking(ctx, staff, model.RoomBooking{
				RoomID: 1, Username: long(maxUsernameLen + 1), Start: d("2025-07-01"), End: d("2025-07-02"), Guests: 1})
			return err
		}, "username"},
		{"table username", func() error {
			_, err := svc.CreateTableBooking(ctx, staff, model.TableBooking{
				TableID: 1, Username: long(maxUsernameLen + 1), Date: d("2025-07-01"), Time: "20:00", Guests: 1})
			return err
		}, "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *ValidationError
			if err := tt.call(); !errors.As(err, &verr) || len(verr.Fields) != 1 || verr.Fields[0] != tt.field {
				t.Fatalf("want validation error on %s, got %v", tt.field, err)
			}
		})
	}
	if n := beach.calls.Load(); n != 0 {
		t.Fatalf("store called %d times", n)
	}

	// Limits count characters, not bytes.
	if _, err := svc.CreateBeachBooking(ctx, staff, model.BeachBooking{
		Username: "anna", Umbrella: strings.Repeat("è", maxUmbrellaLen), Start: d("2025-07-01"), End: d("2025-07-01")}); err != nil {
		t.Fatalf("label at the limit: %v", err)
	}
}
