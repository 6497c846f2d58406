package domain

// FilterAll is the sentinel meaning "no constraint" for account and model
// filters; an empty string is treated identically.
const FilterAll = "all"

// TradeFilter narrows a trade query. Empty or "all" fields are
// unconstrained; date bounds are inclusive and compared as YYYY-MM-DD
// strings, matching the store's eq/gte/lte semantics.
type TradeFilter struct {
	AccountID string `json:"accountId"`
	Model     string `json:"model"`
	DateFrom  string `json:"dateFrom"`
	DateTo    string `json:"dateTo"`
}

// FilterByAccount reports whether the filter constrains the account.
func (f TradeFilter) FilterByAccount() bool {
	return f.AccountID != "" && f.AccountID != FilterAll
}

// FilterByModel reports whether the filter constrains the model tag.
func (f TradeFilter) FilterByModel() bool {
	return f.Model != "" && f.Model != FilterAll
}

// Matches reports whether a trade passes the filter. Used by the in-memory
// store; the Postgres store pushes the same predicates into SQL.
func (f TradeFilter) Matches(t *Trade) bool {
	if t == nil {
		return false
	}
	if f.FilterByAccount() && t.AccountID != f.AccountID {
		return false
	}
	if f.FilterByModel() && t.Model != f.Model {
		return false
	}
	if f.DateFrom != "" && t.TradeDate < f.DateFrom {
		return false
	}
	if f.DateTo != "" && t.TradeDate > f.DateTo {
		return false
	}
	return true
}
