package memory

import (
	"context"
	"sort"
	"sync"

	"tradejournal/internal/domain"
	"tradejournal/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Trade // keyed by trade id
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		data: make(map[string]*domain.Trade),
	}
}

// Insert adds a new trade. Returns ErrDuplicateKey if the ID exists.
func (s *TradeStore) Insert(_ context.Context, t *domain.Trade) error {
	if t == nil || t.ID == "" || t.UserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.ID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[t.ID] = copyTrade(t)
	return nil
}

// GetByID retrieves a trade owned by userID. Returns ErrNotFound if it does
// not exist or belongs to another user.
func (s *TradeStore) GetByID(_ context.Context, userID, tradeID string) (*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[tradeID]
	if !exists || t.UserID != userID {
		return nil, storage.ErrNotFound
	}

	return copyTrade(t), nil
}

// Query retrieves userID's trades matching the filter, ordered by sort
// (descending). An unknown sort key falls back to SortByDate.
func (s *TradeStore) Query(_ context.Context, userID string, filter domain.TradeFilter, sortBy storage.TradeSort) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Trade
	for _, t := range s.data {
		if t.UserID != userID || !filter.Matches(t) {
			continue
		}
		result = append(result, copyTrade(t))
	}

	less := tradeLess(sortBy)
	sort.SliceStable(result, less(result))
	return result, nil
}

// tradeLess returns the descending comparison for a sort key, with the
// trade ID as a deterministic tiebreaker.
func tradeLess(sortBy storage.TradeSort) func([]*domain.Trade) func(i, j int) bool {
	return func(ts []*domain.Trade) func(i, j int) bool {
		return func(i, j int) bool {
			a, b := ts[i], ts[j]
			switch sortBy {
			case storage.SortByPnL:
				pa, pb := pnlValue(a), pnlValue(b)
				if pa != pb {
					return pa > pb
				}
			case storage.SortBySymbol:
				if a.Symbol != b.Symbol {
					return a.Symbol > b.Symbol
				}
			default:
				if a.TradeDate != b.TradeDate {
					return a.TradeDate > b.TradeDate
				}
			}
			return a.ID > b.ID
		}
	}
}

func pnlValue(t *domain.Trade) float64 {
	if t.PnL == nil {
		return 0
	}
	return *t.PnL
}

// Delete removes a trade. Returns ErrNotFound if it does not exist for
// userID.
func (s *TradeStore) Delete(_ context.Context, userID, tradeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.data[tradeID]
	if !exists || t.UserID != userID {
		return storage.ErrNotFound
	}

	delete(s.data, tradeID)
	return nil
}

// DistinctModels returns the distinct non-empty model tags across userID's
// trades, sorted ascending.
func (s *TradeStore) DistinctModels(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, t := range s.data {
		if t.UserID == userID && t.Model != "" {
			seen[t.Model] = struct{}{}
		}
	}

	models := make([]string, 0, len(seen))
	for m := range seen {
		models = append(models, m)
	}
	sort.Strings(models)
	return models, nil
}

// copyTrade deep-copies a trade so callers never share slices or pointers
// with the store's map.
func copyTrade(t *domain.Trade) *domain.Trade {
	copy := *t
	if t.PnL != nil {
		v := *t.PnL
		copy.PnL = &v
	}
	if t.ExitPrice != nil {
		v := *t.ExitPrice
		copy.ExitPrice = &v
	}
	if t.StopLoss != nil {
		v := *t.StopLoss
		copy.StopLoss = &v
	}
	if t.TakeProfit != nil {
		v := *t.TakeProfit
		copy.TakeProfit = &v
	}
	if t.RiskReward != nil {
		v := *t.RiskReward
		copy.RiskReward = &v
	}
	copy.Tags = append([]string(nil), t.Tags...)
	copy.Images = append([]string(nil), t.Images...)
	return &copy
}

var _ storage.TradeStore = (*TradeStore)(nil)
