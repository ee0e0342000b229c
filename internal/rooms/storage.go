package rooms

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"hatparty/internal/events"
	"hatparty/internal/game"
	"hatparty/internal/metrics"
)

var (
	ErrCodeExhausted = errors.New("failed to generate unique room code after 10 attempts")
	ErrStoreClosed   = errors.New("room store closed")
)

const sweepInterval = 1 * time.Minute

type Options struct {
	Game game.Config
	// IdleTTL is how long a room may sit with no connections before the
	// sweeper removes it. Zero disables the sweeper.
	IdleTTL time.Duration
	Logger  *zap.Logger
	Events  *events.Bus
	Metrics *metrics.Metrics
}

type Store struct {
	mu     sync.Mutex
	rooms  map[string]*Room
	opts   Options
	closed bool

	quit      chan struct{}
	closeOnce sync.Once
}

func NewStore(opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Store{
		rooms: make(map[string]*Room),
		opts:  opts,
		quit:  make(chan struct{}),
	}
	if opts.IdleTTL > 0 {
		go s.sweepIdle()
	}
	return s
}

// Create opens a room under a freshly generated code.
func (s *Store) Create() (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	// Try up to 10 times to generate a unique code
	for range 10 {
		code, err := GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("generating room code: %w", err)
		}
		if _, exists := s.rooms[code]; exists {
			continue
		}
		return s.open(code), nil
	}
	return nil, ErrCodeExhausted
}

// GetOrCreate returns the room for code, opening it on first use. An empty
// code gets a generated one.
func (s *Store) GetOrCreate(code string) (*Room, error) {
	code = NormalizeCode(code)
	if code == "" {
		return s.Create()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	if room, ok := s.rooms[code]; ok {
		return room, nil
	}
	return s.open(code), nil
}

// open must be called with s.mu held.
func (s *Store) open(code string) *Room {
	room := newRoom(code, s.opts)
	s.rooms[code] = room
	s.opts.Metrics.RoomOpened()
	s.opts.Logger.Info("room opened", zap.String("room", code))
	return room
}

func (s *Store) Get(code string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[NormalizeCode(code)]
}

// Delete removes the room and stops its loop.
func (s *Store) Delete(code string) bool {
	code = NormalizeCode(code)
	s.mu.Lock()
	room, ok := s.rooms[code]
	delete(s.rooms, code)
	s.mu.Unlock()

	if ok {
		s.closeRoom(room)
	}
	return ok
}

func (s *Store) closeRoom(room *Room) {
	room.Stop()
	s.opts.Metrics.RoomClosed()
	s.opts.Logger.Info("room closed", zap.String("room", room.Code))
}

// List returns every room ordered by code.
func (s *Store) List() []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		list = append(list, r)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list
}

// Close stops the sweeper and every room. No rooms can be opened after.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
	})
	s.mu.Lock()
	s.closed = true
	rooms := make([]*Room, 0, len(s.rooms))
	for code, r := range s.rooms {
		rooms = append(rooms, r)
		delete(s.rooms, code)
	}
	s.mu.Unlock()

	for _, r := range rooms {
		s.closeRoom(r)
	}
}

func (s *Store) sweepIdle() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.quit:
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}

// Sweep removes rooms that have had no connections for longer than the
// idle TTL and reports how many it closed.
func (s *Store) Sweep(now time.Time) int {
	if s.opts.IdleTTL <= 0 {
		return 0
	}
	s.mu.Lock()
	var stale []*Room
	for code, room := range s.rooms {
		idle := room.IdleSince()
		if !idle.IsZero() && now.Sub(idle) > s.opts.IdleTTL {
			stale = append(stale, room)
			delete(s.rooms, code)
		}
	}
	s.mu.Unlock()

	for _, room := range stale {
		s.closeRoom(room)
	}
	return len(stale)
}
