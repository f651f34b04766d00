package history

import (
	"sync"

	"smsclassifier/internal/domain"
)

// DefaultCapacity is how many recent predictions are kept when none is configured.
const DefaultCapacity = 10

// Store is a bounded, newest-first list of predictions owned by a UI session.
type Store struct {
	mu       sync.RWMutex
	capacity int
	items    []domain.PredictionResult
}

// New creates a store holding at most capacity results.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity}
}

// Capacity returns the maximum number of retained results.
func (s *Store) Capacity() int { return s.capacity }

// Add inserts r at the front, dropping the oldest entry when full.
func (s *Store) Add(r domain.PredictionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, domain.PredictionResult{})
	copy(s.items[1:], s.items)
	s.items[0] = r
	if len(s.items) > s.capacity {
		s.items = s.items[:s.capacity]
	}
}

// Items returns a copy of the stored results, newest first.
func (s *Store) Items() []domain.PredictionResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.PredictionResult(nil), s.items...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clear drops all results.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}
