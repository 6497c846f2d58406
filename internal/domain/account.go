package domain

import "time"

// Account is a trading account owned by a user.
//
// CurrentBalance is a mutable running balance maintained by the owner. It is
// advisory only: the system never reconciles it transactionally against trade
// P&L. The derived realized P&L for an account is computed from its trades.
type Account struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	InitialBalance float64   `json:"initial_balance"`
	CurrentBalance float64   `json:"current_balance"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
