package storage

import (
	"context"

	"tradejournal/internal/domain"
)

// TradeSort selects the ordering of a trade query. All orderings are
// descending; the analytics layer re-sorts ascending in memory where a
// chart needs chronological order.
type TradeSort string

const (
	SortByDate   TradeSort = "date"
	SortByPnL    TradeSort = "pnl"
	SortBySymbol TradeSort = "symbol"
)

// Valid reports whether the sort key is one of the known values.
func (s TradeSort) Valid() bool {
	switch s {
	case SortByDate, SortByPnL, SortBySymbol:
		return true
	}
	return false
}

// AccountStore provides access to trading accounts.
type AccountStore interface {
	// Insert adds a new account. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, a *domain.Account) error

	// GetByID retrieves an account owned by userID. Returns ErrNotFound
	// if it does not exist or belongs to another user.
	GetByID(ctx context.Context, userID, accountID string) (*domain.Account, error)

	// List retrieves all accounts owned by userID, newest first.
	List(ctx context.Context, userID string) ([]*domain.Account, error)

	// UpdateBalance sets the advisory current balance.
	// Returns ErrNotFound if the account does not exist for userID.
	UpdateBalance(ctx context.Context, userID, accountID string, balance float64) error

	// Delete removes an account. Trades referencing it are kept; the
	// account breakdown reports them under an "Unknown" label.
	Delete(ctx context.Context, userID, accountID string) error
}

// TradeStore provides access to journaled trades.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, t *domain.Trade) error

	// GetByID retrieves a trade owned by userID. Returns ErrNotFound
	// if it does not exist or belongs to another user.
	GetByID(ctx context.Context, userID, tradeID string) (*domain.Trade, error)

	// Query retrieves userID's trades matching the filter, ordered by
	// sort (descending). An unknown sort key falls back to SortByDate.
	Query(ctx context.Context, userID string, filter domain.TradeFilter, sort TradeSort) ([]*domain.Trade, error)

	// Delete removes a trade. Returns ErrNotFound if it does not exist
	// for userID.
	Delete(ctx context.Context, userID, tradeID string) error

	// DistinctModels returns the distinct non-empty model tags across
	// userID's trades, sorted ascending.
	DistinctModels(ctx context.Context, userID string) ([]string, error)
}

// DailyEntryStore provides access to daily journal entries. At most one
// entry exists per user per calendar date.
type DailyEntryStore interface {
	// Insert adds a new entry. Returns ErrDuplicateKey if userID already
	// has an entry for the same date.
	Insert(ctx context.Context, e *domain.DailyEntry) error

	// GetByDate retrieves userID's entry for a YYYY-MM-DD date.
	// Returns ErrNotFound if none exists.
	GetByDate(ctx context.Context, userID, date string) (*domain.DailyEntry, error)

	// List retrieves userID's entries with date in [from, to] (inclusive,
	// empty bound means unbounded), newest first.
	List(ctx context.Context, userID, from, to string) ([]*domain.DailyEntry, error)

	// Update replaces the mutable fields of an existing entry.
	// Returns ErrNotFound if the entry does not exist for userID.
	Update(ctx context.Context, e *domain.DailyEntry) error

	// Delete removes an entry. Returns ErrNotFound if it does not exist
	// for userID.
	Delete(ctx context.Context, userID, entryID string) error
}

// GoalStore provides access to monthly goals. At most one goal row exists
// per user per month; Upsert replaces targets in place.
type GoalStore interface {
	// Upsert inserts or replaces userID's goal for g.Month.
	Upsert(ctx context.Context, g *domain.Goal) error

	// GetByMonth retrieves userID's goal for a YYYY-MM month.
	// Returns ErrNotFound if none exists.
	GetByMonth(ctx context.Context, userID string, month domain.Month) (*domain.Goal, error)
}
