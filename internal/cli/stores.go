package cli

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ghm/hotel-booking/internal/booking"
	"github.com/ghm/hotel-booking/internal/config"
	"github.com/ghm/hotel-booking/internal/database"
	"github.com/ghm/hotel-booking/internal/handler"
	"github.com/ghm/hotel-booking/internal/model"
	"github.com/ghm/hotel-booking/internal/repository"
	"github.com/ghm/hotel-booking/internal/repository/memory"
)

// stores is one implementation of every store the server needs.
type stores struct {
	users        handler.UserStore
	rooms        handler.RoomStore
	reviews      handler.ReviewStore
	roomBookings booking.RoomBookingStore
	beach        booking.BeachBookingStore
	tables       booking.TableBookingStore

	db *sqlx.DB // nil for the memory driver
}

func (s *stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// openStores builds the stores for cfg.StoreDriver.  With MySQL a failed
// connection is returned as an error and the caller must not serve.
func openStores(ctx context.Context, cfg config.Config, migrate bool, log *zap.Logger) (*stores, error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Warn("using in-memory store; data is lost on exit")
		return &stores{
			users:        memory.NewUsers(),
			rooms:        memory.NewRooms(demoRooms...),
			reviews:      memory.NewReviews(),
			roomBookings: memory.NewRoomBookings(),
			beach:        memory.NewBeachBookings(),
			tables:       memory.NewTableBookings(),
		}, nil
	}

	db, err := openDB(ctx, cfg, migrate, log)
	if err != nil {
		return nil, err
	}
	return &stores{
		users:        repository.NewUserRepo(db),
		rooms:        repository.NewRoomRepo(db),
		reviews:      repository.NewReviewRepo(db),
		roomBookings: repository.NewRoomBookingRepo(db),
		beach:        repository.NewBeachBookingRepo(db),
		tables:       repository.NewTableBookingRepo(db),
		db:           db,
	}, nil
}

func openDB(ctx context.Context, cfg config.Config, migrate bool, log *zap.Logger) (*sqlx.DB, error) {
	db, err := database.Open(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database %s@%s:%s/%s: %w", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName, err)
	}
	if migrate {
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("schema is up to date")
	}
	return db, nil
}

// demoRooms seed the memory store so the frontend has something to show.
var demoRooms = []model.Room{
	{ID: 1, Name: "Camera Standard", Description: "Camera doppia con vista giardino", Image: "standard.jpg", Price: 90},
	{ID: 2, Name: "Camera Deluxe", Description: "Camera doppia con balcone vista mare", Image: "deluxe.jpg", Price: 140},
	{ID: 3, Name: "Suite", Description: "Suite con salotto e terrazza", Image: "suite.jpg", Price: 260},
}
