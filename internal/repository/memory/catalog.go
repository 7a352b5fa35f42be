package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ghm/hotel-booking/internal/model"
	"github.com/ghm/hotel-booking/internal/repository"
	"github.com/ghm/hotel-booking/internal/utils"
)

// Rooms holds the room catalogue.
type Rooms struct {
	mu   sync.RWMutex
	rows map[int64]model.Room
}

// NewRooms returns a catalogue seeded with rooms.
func NewRooms(rooms ...model.Room) *Rooms {
	s := &Rooms{rows: make(map[int64]model.Room, len(rooms))}
	for _, r := range rooms {
		s.rows[r.ID] = r
	}
	return s
}

func (s *Rooms) List(_ context.Context) ([]model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Room, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Rooms) Get(_ context.Context, id int64) (model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rows[id]
	if !ok {
		return model.Room{}, repository.ErrNotFound
	}
	return r, nil
}

func (s *Rooms) Update(_ context.Context, room model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rows[room.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Name, cur.Description, cur.Price = room.Name, room.Description, room.Price
	s.rows[room.ID] = cur
	return nil
}

// Reviews holds guest reviews.
type Reviews struct {
	mu     sync.Mutex
	nextID int64
	rows   []model.Review
}

func NewReviews() *Reviews { return &Reviews{} }

// List returns reviews newest first.
func (s *Reviews) List(_ context.Context) ([]model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Review, 0, len(s.rows))
	for i := len(s.rows) - 1; i >= 0; i-- {
		out = append(out, s.rows[i])
	}
	return out, nil
}

func (s *Reviews) Insert(_ context.Context, rv *model.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	rv.ID = s.nextID
	s.rows = append(s.rows, *rv)
	return nil
}

// Users holds accounts keyed by username.
type Users struct {
	mu   sync.RWMutex
	rows map[string]model.User
}

func NewUsers() *Users { return &Users{rows: map[string]model.User{}} }

func (s *Users) Create(_ context.Context, username, password, role string, cost int) (model.User, error) {
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[username]; ok {
		return model.User{}, repository.ErrUsernameExists
	}
	u := model.User{Username: username, PasswordHash: hash, Role: role}
	s.rows[username] = u
	return u, nil
}

func (s *Users) GetByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.rows[strings.TrimSpace(username)]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}
