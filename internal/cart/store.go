package cart

import "sync"

// Store keeps one in-progress cart per cashier. Carts live only in memory:
// they are working state, never persisted, and are discarded once their
// sale is finalized or the process restarts.
type Store struct {
	mu    sync.Mutex
	carts map[uint]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[uint]*Cart)}
}

// Get returns the cart for a user, creating it on first use.
func (s *Store) Get(userID uint) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[userID]
	if !ok {
		c = New()
		s.carts[userID] = c
	}
	return c
}

// Drop discards a user's cart entirely.
func (s *Store) Drop(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}
