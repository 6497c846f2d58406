package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"tradejournal/internal/domain"
	"tradejournal/internal/storage"
)

// DailyEntryStore is an in-memory implementation of storage.DailyEntryStore.
// Uniqueness of (user_id, entry_date) is enforced on insert.
type DailyEntryStore struct {
	mu     sync.RWMutex
	data   map[string]*domain.DailyEntry // keyed by entry id
	byDate map[dateKey]string            // (user, date) -> entry id
}

type dateKey struct {
	userID string
	date   string
}

// NewDailyEntryStore creates a new in-memory daily entry store.
func NewDailyEntryStore() *DailyEntryStore {
	return &DailyEntryStore{
		data:   make(map[string]*domain.DailyEntry),
		byDate: make(map[dateKey]string),
	}
}

// Insert adds a new entry. Returns ErrDuplicateKey if userID already has an
// entry for the same date.
func (s *DailyEntryStore) Insert(_ context.Context, e *domain.DailyEntry) error {
	if e == nil || e.ID == "" || e.UserID == "" || e.EntryDate == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := dateKey{e.UserID, e.EntryDate}
	if _, exists := s.byDate[key]; exists {
		return storage.ErrDuplicateKey
	}
	if _, exists := s.data[e.ID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[e.ID] = copyEntry(e)
	s.byDate[key] = e.ID
	return nil
}

// GetByDate retrieves userID's entry for a YYYY-MM-DD date. Returns
// ErrNotFound if none exists.
func (s *DailyEntryStore) GetByDate(_ context.Context, userID, date string) (*domain.DailyEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byDate[dateKey{userID, date}]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyEntry(s.data[id]), nil
}

// List retrieves userID's entries with date in [from, to] (inclusive, empty
// bound means unbounded), newest first.
func (s *DailyEntryStore) List(_ context.Context, userID, from, to string) ([]*domain.DailyEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DailyEntry
	for _, e := range s.data {
		if e.UserID != userID {
			continue
		}
		if from != "" && e.EntryDate < from {
			continue
		}
		if to != "" && e.EntryDate > to {
			continue
		}
		result = append(result, copyEntry(e))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].EntryDate > result[j].EntryDate
	})

	return result, nil
}

// Update replaces the mutable fields of an existing entry. The entry date
// itself is immutable; delete and re-insert to move an entry.
func (s *DailyEntryStore) Update(_ context.Context, e *domain.DailyEntry) error {
	if e == nil || e.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, exists := s.data[e.ID]
	if !exists || cur.UserID != e.UserID {
		return storage.ErrNotFound
	}

	cur.MarketEvents = append([]byte(nil), e.MarketEvents...)
	cur.SymbolsAnalysis = append([]byte(nil), e.SymbolsAnalysis...)
	cur.PerformanceContext = e.PerformanceContext
	cur.JournalSections = append([]byte(nil), e.JournalSections...)
	cur.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete removes an entry. Returns ErrNotFound if it does not exist for
// userID.
func (s *DailyEntryStore) Delete(_ context.Context, userID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.data[entryID]
	if !exists || e.UserID != userID {
		return storage.ErrNotFound
	}

	delete(s.byDate, dateKey{e.UserID, e.EntryDate})
	delete(s.data, entryID)
	return nil
}

func copyEntry(e *domain.DailyEntry) *domain.DailyEntry {
	copy := *e
	copy.MarketEvents = append([]byte(nil), e.MarketEvents...)
	copy.SymbolsAnalysis = append([]byte(nil), e.SymbolsAnalysis...)
	copy.JournalSections = append([]byte(nil), e.JournalSections...)
	return &copy
}

var _ storage.DailyEntryStore = (*DailyEntryStore)(nil)
