package domain

import (
	"time"
)

// Goal holds a user's monthly targets, upserted by (user, month).
type Goal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Month       Month     `json:"month"`
	ProfitGoal  float64   `json:"profit_goal"`
	WinRateGoal float64   `json:"win_rate_goal"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Month is a calendar month in YYYY-MM form. Trades belong to a month when
// their date string has the month as prefix.
type Month string

const monthLayout = "2006-01"

// Valid reports whether the month parses as YYYY-MM.
func (m Month) Valid() bool {
	_, err := time.Parse(monthLayout, string(m))
	return err == nil
}

// Time returns the first instant of the month in UTC. Invalid months return
// the zero time.
func (m Month) Time() time.Time {
	t, err := time.Parse(monthLayout, string(m))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Days returns the number of calendar days in the month (28, 29, 30 or 31).
// Invalid months return 0.
func (m Month) Days() int {
	t, err := time.Parse(monthLayout, string(m))
	if err != nil {
		return 0
	}
	// Day 0 of the next month is the last day of this one.
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CurrentMonth returns the month containing now, in UTC.
func CurrentMonth(now time.Time) Month {
	return Month(now.UTC().Format(monthLayout))
}
