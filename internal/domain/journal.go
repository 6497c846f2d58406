package domain

import (
	"encoding/json"
	"time"
)

// DailyEntry is one journal entry per user per calendar date. The nested
// sections are semi-structured and stored as JSON blobs; the application
// never interprets them beyond passing them through.
// Uniqueness of (user_id, entry_date) is enforced by the store and surfaced
// as ErrDuplicateKey.
type DailyEntry struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	EntryDate string `json:"entry_date"` // YYYY-MM-DD

	MarketEvents       json.RawMessage `json:"market_events,omitempty"`
	SymbolsAnalysis    json.RawMessage `json:"symbols_analysis,omitempty"`
	PerformanceContext string          `json:"performance_context,omitempty"`
	JournalSections    json.RawMessage `json:"journal_sections,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
