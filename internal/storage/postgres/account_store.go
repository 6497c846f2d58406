package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"tradejournal/internal/domain"
	"tradejournal/internal/storage"
)

// AccountStore implements storage.AccountStore using PostgreSQL.
type AccountStore struct {
	pool *Pool
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore(pool *Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AccountStore = (*AccountStore)(nil)

// Insert adds a new account. Returns ErrDuplicateKey if the ID exists.
func (s *AccountStore) Insert(ctx context.Context, a *domain.Account) (err error) {
	defer observeQuery("accounts.insert", time.Now(), &err)
	if a == nil || a.ID == "" || a.UserID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO accounts (
			id, user_id, name, initial_balance, current_balance, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = s.pool.Exec(ctx, query,
		a.ID, a.UserID, a.Name, a.InitialBalance, a.CurrentBalance, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID retrieves an account owned by userID. Returns ErrNotFound if it
// does not exist or belongs to another user.
func (s *AccountStore) GetByID(ctx context.Context, userID, accountID string) (_ *domain.Account, err error) {
	defer observeQuery("accounts.get", time.Now(), &err)
	query := `
		SELECT id, user_id, name, initial_balance, current_balance, created_at, updated_at
		FROM accounts
		WHERE id = $1 AND user_id = $2
	`

	row := s.pool.QueryRow(ctx, query, accountID, userID)
	a, err := scanAccount(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return a, nil
}

// List retrieves all accounts owned by userID, newest first.
func (s *AccountStore) List(ctx context.Context, userID string) (_ []*domain.Account, err error) {
	defer observeQuery("accounts.list", time.Now(), &err)
	query := `
		SELECT id, user_id, name, initial_balance, current_balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}
	return accounts, nil
}

// UpdateBalance sets the advisory current balance. Returns ErrNotFound if
// the account does not exist for userID.
func (s *AccountStore) UpdateBalance(ctx context.Context, userID, accountID string, balance float64) (err error) {
	defer observeQuery("accounts.update_balance", time.Now(), &err)
	query := `
		UPDATE accounts
		SET current_balance = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`

	tag, err := s.pool.Exec(ctx, query, accountID, userID, balance)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes an account. Returns ErrNotFound if it does not exist for
// userID. Trades referencing the account are kept.
func (s *AccountStore) Delete(ctx context.Context, userID, accountID string) (err error) {
	defer observeQuery("accounts.delete", time.Now(), &err)
	tag, err := s.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1 AND user_id = $2`, accountID, userID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanAccount scans a single row into an Account.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.InitialBalance, &a.CurrentBalance, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
