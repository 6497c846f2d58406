package memory

import (
	"context"
	"sync"
	"time"

	"tradejournal/internal/domain"
	"tradejournal/internal/storage"
)

// GoalStore is an in-memory implementation of storage.GoalStore.
type GoalStore struct {
	mu   sync.RWMutex
	data map[monthKey]*domain.Goal // keyed by (user, month)
}

type monthKey struct {
	userID string
	month  domain.Month
}

// NewGoalStore creates a new in-memory goal store.
func NewGoalStore() *GoalStore {
	return &GoalStore{
		data: make(map[monthKey]*domain.Goal),
	}
}

// Upsert inserts or replaces userID's goal for g.Month. An existing row
// keeps its ID and creation time; only the targets change.
func (s *GoalStore) Upsert(_ context.Context, g *domain.Goal) error {
	if g == nil || g.UserID == "" || !g.Month.Valid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := monthKey{g.UserID, g.Month}
	if cur, exists := s.data[key]; exists {
		cur.ProfitGoal = g.ProfitGoal
		cur.WinRateGoal = g.WinRateGoal
		cur.UpdatedAt = time.Now().UTC()
		return nil
	}

	copy := *g
	s.data[key] = &copy
	return nil
}

// GetByMonth retrieves userID's goal for a YYYY-MM month. Returns
// ErrNotFound if none exists.
func (s *GoalStore) GetByMonth(_ context.Context, userID string, month domain.Month) (*domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, exists := s.data[monthKey{userID, month}]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *g
	return &copy, nil
}

var _ storage.GoalStore = (*GoalStore)(nil)
