package spawns

import "time"

// Store holds the live entities of one kind in spawn order. Like the player
// store it belongs to a single room loop.
type Store[T Entity] struct {
	items []T
}

func NewStore[T Entity]() *Store[T] {
	return &Store[T]{}
}

func (s *Store[T]) Add(e T) {
	s.items = append(s.items, e)
}

func (s *Store[T]) Has(id string) bool {
	for _, e := range s.items {
		if e.EntityID() == id {
			return true
		}
	}
	return false
}

// Take removes and returns the entity with the given id. The second result
// is false when the entity was already consumed or never existed.
func (s *Store[T]) Take(id string) (T, bool) {
	for i, e := range s.items {
		if e.EntityID() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return e, true
		}
	}
	var zero T
	return zero, false
}

func (s *Store[T]) GetList() []T {
	list := make([]T, len(s.items))
	copy(list, s.items)
	return list
}

func (s *Store[T]) Len() int {
	return len(s.items)
}

func (s *Store[T]) Clear() {
	s.items = nil
}

// Expire drops entities spawned more than ttl before now and reports how
// many were removed. A non-positive ttl disables expiry.
func (s *Store[T]) Expire(now time.Time, ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	kept := s.items[:0]
	removed := 0
	for _, e := range s.items {
		if now.Sub(e.Born()) > ttl {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(s.items); i++ {
		var zero T
		s.items[i] = zero
	}
	s.items = kept
	return removed
}
