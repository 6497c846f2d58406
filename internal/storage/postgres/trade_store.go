package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"tradejournal/internal/domain"
	"tradejournal/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

const tradeColumns = `
	id, account_id, user_id, symbol, asset_class, trade_type,
	entry_price, exit_price, stop_loss, take_profit, position_size,
	pnl, risk_reward, strategy, model, tags, trade_date,
	before_trade_notes, post_trade_reflection, images,
	created_at, updated_at`

// Insert adds a new trade. Returns ErrDuplicateKey if the ID exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.Trade) (err error) {
	defer observeQuery("trades.insert", time.Now(), &err)
	if t == nil || t.ID == "" || t.UserID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO trades (` + tradeColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17,
			$18, $19, $20,
			$21, $22
		)
	`

	_, err = s.pool.Exec(ctx, query,
		t.ID, t.AccountID, t.UserID, t.Symbol, t.AssetClass, t.Direction,
		t.EntryPrice, t.ExitPrice, t.StopLoss, t.TakeProfit, t.PositionSize,
		t.PnL, t.RiskReward, t.Strategy, t.Model, t.Tags, t.TradeDate,
		t.BeforeTradeNotes, t.PostTradeReflection, t.Images,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// GetByID retrieves a trade owned by userID. Returns ErrNotFound if it does
// not exist or belongs to another user.
func (s *TradeStore) GetByID(ctx context.Context, userID, tradeID string) (_ *domain.Trade, err error) {
	defer observeQuery("trades.get", time.Now(), &err)
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = $1 AND user_id = $2`

	row := s.pool.QueryRow(ctx, query, tradeID, userID)
	t, err := scanTrade(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade by id: %w", err)
	}
	return t, nil
}

// Query retrieves userID's trades matching the filter, ordered by sort
// (descending). The filter predicates are pushed into SQL; date bounds are
// inclusive and compared as YYYY-MM-DD strings.
func (s *TradeStore) Query(ctx context.Context, userID string, filter domain.TradeFilter, sort storage.TradeSort) (_ []*domain.Trade, err error) {
	defer observeQuery("trades.query", time.Now(), &err)
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE user_id = $1`
	args := []any{userID}

	if filter.FilterByAccount() {
		args = append(args, filter.AccountID)
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	if filter.FilterByModel() {
		args = append(args, filter.Model)
		query += fmt.Sprintf(" AND model = $%d", len(args))
	}
	if filter.DateFrom != "" {
		args = append(args, filter.DateFrom)
		query += fmt.Sprintf(" AND trade_date >= $%d", len(args))
	}
	if filter.DateTo != "" {
		args = append(args, filter.DateTo)
		query += fmt.Sprintf(" AND trade_date <= $%d", len(args))
	}

	switch sort {
	case storage.SortByPnL:
		// Missing P&L sorts as zero, matching the in-memory store.
		query += " ORDER BY COALESCE(pnl, 0) DESC, id DESC"
	case storage.SortBySymbol:
		query += " ORDER BY symbol DESC, id DESC"
	default:
		query += " ORDER BY trade_date DESC, id DESC"
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}
	return trades, nil
}

// Delete removes a trade. Returns ErrNotFound if it does not exist for
// userID.
func (s *TradeStore) Delete(ctx context.Context, userID, tradeID string) (err error) {
	defer observeQuery("trades.delete", time.Now(), &err)
	tag, err := s.pool.Exec(ctx, `DELETE FROM trades WHERE id = $1 AND user_id = $2`, tradeID, userID)
	if err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DistinctModels returns the distinct non-empty model tags across userID's
// trades, sorted ascending.
func (s *TradeStore) DistinctModels(ctx context.Context, userID string) (_ []string, err error) {
	defer observeQuery("trades.distinct_models", time.Now(), &err)
	query := `
		SELECT DISTINCT model FROM trades
		WHERE user_id = $1 AND model <> ''
		ORDER BY model ASC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("distinct models: %w", err)
	}
	defer rows.Close()

	var models []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scan model row: %w", err)
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate model rows: %w", err)
	}
	return models, nil
}

// scanTrade scans a single row into a Trade.
func scanTrade(row pgx.Row) (*domain.Trade, error) {
	var t domain.Trade
	err := row.Scan(
		&t.ID, &t.AccountID, &t.UserID, &t.Symbol, &t.AssetClass, &t.Direction,
		&t.EntryPrice, &t.ExitPrice, &t.StopLoss, &t.TakeProfit, &t.PositionSize,
		&t.PnL, &t.RiskReward, &t.Strategy, &t.Model, &t.Tags, &t.TradeDate,
		&t.BeforeTradeNotes, &t.PostTradeReflection, &t.Images,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
