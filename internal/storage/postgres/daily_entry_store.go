package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"tradejournal/internal/domain"
	"tradejournal/internal/storage"
)

// DailyEntryStore implements storage.DailyEntryStore using PostgreSQL.
// The unique index on (user_id, entry_date) enforces one entry per user
// per calendar date; violations surface as ErrDuplicateKey.
type DailyEntryStore struct {
	pool *Pool
}

// NewDailyEntryStore creates a new DailyEntryStore.
func NewDailyEntryStore(pool *Pool) *DailyEntryStore {
	return &DailyEntryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DailyEntryStore = (*DailyEntryStore)(nil)

const entryColumns = `
	id, user_id, entry_date, market_events, symbols_analysis,
	performance_context, journal_sections, created_at, updated_at`

// Insert adds a new entry. Returns ErrDuplicateKey if userID already has an
// entry for the same date.
func (s *DailyEntryStore) Insert(ctx context.Context, e *domain.DailyEntry) (err error) {
	defer observeQuery("daily_entries.insert", time.Now(), &err)
	if e == nil || e.ID == "" || e.UserID == "" || e.EntryDate == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO daily_entries (` + entryColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = s.pool.Exec(ctx, query,
		e.ID, e.UserID, e.EntryDate, []byte(e.MarketEvents), []byte(e.SymbolsAnalysis),
		e.PerformanceContext, []byte(e.JournalSections), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert daily entry: %w", err)
	}
	return nil
}

// GetByDate retrieves userID's entry for a YYYY-MM-DD date. Returns
// ErrNotFound if none exists.
func (s *DailyEntryStore) GetByDate(ctx context.Context, userID, date string) (_ *domain.DailyEntry, err error) {
	defer observeQuery("daily_entries.get", time.Now(), &err)
	query := `SELECT ` + entryColumns + ` FROM daily_entries WHERE user_id = $1 AND entry_date = $2`

	row := s.pool.QueryRow(ctx, query, userID, date)
	e, err := scanDailyEntry(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get daily entry by date: %w", err)
	}
	return e, nil
}

// List retrieves userID's entries with date in [from, to] (inclusive, empty
// bound means unbounded), newest first.
func (s *DailyEntryStore) List(ctx context.Context, userID, from, to string) (_ []*domain.DailyEntry, err error) {
	defer observeQuery("daily_entries.list", time.Now(), &err)
	query := `SELECT ` + entryColumns + ` FROM daily_entries WHERE user_id = $1`
	args := []any{userID}

	if from != "" {
		args = append(args, from)
		query += fmt.Sprintf(" AND entry_date >= $%d", len(args))
	}
	if to != "" {
		args = append(args, to)
		query += fmt.Sprintf(" AND entry_date <= $%d", len(args))
	}
	query += " ORDER BY entry_date DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list daily entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.DailyEntry
	for rows.Next() {
		e, err := scanDailyEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily entry rows: %w", err)
	}
	return entries, nil
}

// Update replaces the mutable fields of an existing entry. The entry date
// itself is immutable. Returns ErrNotFound if the entry does not exist for
// e.UserID.
func (s *DailyEntryStore) Update(ctx context.Context, e *domain.DailyEntry) (err error) {
	defer observeQuery("daily_entries.update", time.Now(), &err)
	if e == nil || e.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		UPDATE daily_entries
		SET market_events = $3, symbols_analysis = $4, performance_context = $5,
		    journal_sections = $6, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`

	tag, err := s.pool.Exec(ctx, query,
		e.ID, e.UserID, []byte(e.MarketEvents), []byte(e.SymbolsAnalysis),
		e.PerformanceContext, []byte(e.JournalSections),
	)
	if err != nil {
		return fmt.Errorf("update daily entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes an entry. Returns ErrNotFound if it does not exist for
// userID.
func (s *DailyEntryStore) Delete(ctx context.Context, userID, entryID string) (err error) {
	defer observeQuery("daily_entries.delete", time.Now(), &err)
	tag, err := s.pool.Exec(ctx, `DELETE FROM daily_entries WHERE id = $1 AND user_id = $2`, entryID, userID)
	if err != nil {
		return fmt.Errorf("delete daily entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanDailyEntry scans a single row into a DailyEntry.
func scanDailyEntry(row pgx.Row) (*domain.DailyEntry, error) {
	var e domain.DailyEntry
	var marketEvents, symbolsAnalysis, journalSections []byte
	err := row.Scan(
		&e.ID, &e.UserID, &e.EntryDate, &marketEvents, &symbolsAnalysis,
		&e.PerformanceContext, &journalSections, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.MarketEvents = marketEvents
	e.SymbolsAnalysis = symbolsAnalysis
	e.JournalSections = journalSections
	return &e, nil
}
