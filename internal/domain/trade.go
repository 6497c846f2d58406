package domain

import "time"

// AssetClass enumerates the markets a trade can belong to.
type AssetClass string

const (
	AssetClassFutures AssetClass = "futures"
	AssetClassForex   AssetClass = "forex"
	AssetClassStocks  AssetClass = "stocks"
	AssetClassCrypto  AssetClass = "crypto"
)

// Valid reports whether the asset class is one of the known values.
func (a AssetClass) Valid() bool {
	switch a {
	case AssetClassFutures, AssetClassForex, AssetClassStocks, AssetClassCrypto:
		return true
	}
	return false
}

// Direction is the side of a trade.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Valid reports whether the direction is long or short.
func (d Direction) Valid() bool {
	return d == DirectionLong || d == DirectionShort
}

// Trade is a single journaled trade. Nullable numeric fields are pointers;
// a nil PnL means the trade is not closed or the result was never recorded,
// and it is NOT the same as a recorded 0.
// Corresponds to the trades table.
type Trade struct {
	ID         string     `json:"id"`
	AccountID  string     `json:"account_id"`
	UserID     string     `json:"user_id"`
	Symbol     string     `json:"symbol"`
	AssetClass AssetClass `json:"asset_class"`
	Direction  Direction  `json:"trade_type"`

	EntryPrice   float64  `json:"entry_price"`
	ExitPrice    *float64 `json:"exit_price,omitempty"`
	StopLoss     *float64 `json:"stop_loss,omitempty"`
	TakeProfit   *float64 `json:"take_profit,omitempty"`
	PositionSize float64  `json:"position_size"`

	PnL        *float64 `json:"pnl,omitempty"`
	RiskReward *float64 `json:"risk_reward,omitempty"`

	// Strategy and Model are free-text tags; empty means untagged.
	Strategy string   `json:"strategy,omitempty"`
	Model    string   `json:"model,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	// TradeDate is a calendar date in YYYY-MM-DD form. Calendar bucketing
	// matches on exact string equality, so no timezone normalization is
	// applied anywhere.
	TradeDate string `json:"trade_date"`

	BeforeTradeNotes    string   `json:"before_trade_notes,omitempty"`
	PostTradeReflection string   `json:"post_trade_reflection,omitempty"`
	Images              []string `json:"images,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const dateLayout = "2006-01-02"

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
