package postgres

import (
	"context"
	"fmt"
	"time"

	"tradejournal/internal/domain"
	"tradejournal/internal/storage"
)

// GoalStore implements storage.GoalStore using PostgreSQL. The unique index
// on (user_id, month) backs the upsert.
type GoalStore struct {
	pool *Pool
}

// NewGoalStore creates a new GoalStore.
func NewGoalStore(pool *Pool) *GoalStore {
	return &GoalStore{pool: pool}
}

// Compile-time interface check.
var _ storage.GoalStore = (*GoalStore)(nil)

// Upsert inserts or replaces userID's goal for g.Month. An existing row
// keeps its ID and creation time; only the targets change.
func (s *GoalStore) Upsert(ctx context.Context, g *domain.Goal) (err error) {
	defer observeQuery("goals.upsert", time.Now(), &err)
	if g == nil || g.UserID == "" || !g.Month.Valid() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO goals (id, user_id, month, profit_goal, win_rate_goal, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, month) DO UPDATE
		SET profit_goal = EXCLUDED.profit_goal,
		    win_rate_goal = EXCLUDED.win_rate_goal,
		    updated_at = now()
	`

	_, err = s.pool.Exec(ctx, query,
		g.ID, g.UserID, g.Month, g.ProfitGoal, g.WinRateGoal, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert goal: %w", err)
	}
	return nil
}

// GetByMonth retrieves userID's goal for a YYYY-MM month. Returns
// ErrNotFound if none exists.
func (s *GoalStore) GetByMonth(ctx context.Context, userID string, month domain.Month) (_ *domain.Goal, err error) {
	defer observeQuery("goals.get", time.Now(), &err)
	query := `
		SELECT id, user_id, month, profit_goal, win_rate_goal, created_at, updated_at
		FROM goals
		WHERE user_id = $1 AND month = $2
	`

	var g domain.Goal
	err = s.pool.QueryRow(ctx, query, userID, month).Scan(
		&g.ID, &g.UserID, &g.Month, &g.ProfitGoal, &g.WinRateGoal, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get goal by month: %w", err)
	}
	return &g, nil
}
