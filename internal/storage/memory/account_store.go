package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"tradejournal/internal/domain"
	"tradejournal/internal/storage"
)

// AccountStore is an in-memory implementation of storage.AccountStore.
type AccountStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Account // keyed by account id
}

// NewAccountStore creates a new in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		data: make(map[string]*domain.Account),
	}
}

// Insert adds a new account. Returns ErrDuplicateKey if the ID exists.
func (s *AccountStore) Insert(_ context.Context, a *domain.Account) error {
	if a == nil || a.ID == "" || a.UserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.ID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *a
	s.data[a.ID] = &copy
	return nil
}

// GetByID retrieves an account owned by userID. Returns ErrNotFound if it
// does not exist or belongs to another user.
func (s *AccountStore) GetByID(_ context.Context, userID, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[accountID]
	if !exists || a.UserID != userID {
		return nil, storage.ErrNotFound
	}

	copy := *a
	return &copy, nil
}

// List retrieves all accounts owned by userID, newest first.
func (s *AccountStore) List(_ context.Context, userID string) ([]*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Account
	for _, a := range s.data {
		if a.UserID == userID {
			copy := *a
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

// UpdateBalance sets the advisory current balance. Returns ErrNotFound if
// the account does not exist for userID.
func (s *AccountStore) UpdateBalance(_ context.Context, userID, accountID string, balance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.data[accountID]
	if !exists || a.UserID != userID {
		return storage.ErrNotFound
	}

	a.CurrentBalance = balance
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete removes an account. Returns ErrNotFound if it does not exist for
// userID.
func (s *AccountStore) Delete(_ context.Context, userID, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.data[accountID]
	if !exists || a.UserID != userID {
		return storage.ErrNotFound
	}

	delete(s.data, accountID)
	return nil
}

var _ storage.AccountStore = (*AccountStore)(nil)
