package apiserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/domain"
	"tradejournal/internal/storage/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *Server) {
	t.Helper()
	srv := NewServer(Stores{
		Accounts: memory.NewAccountStore(),
		Trades:   memory.NewTradeStore(),
		Entries:  memory.NewDailyEntryStore(),
		Goals:    memory.NewGoalStore(),
	}, nil)
	t.Cleanup(srv.Close)
	return srv.Router(), srv
}

// doJSON performs a request with the given user identity and decodes the
// JSON response into out when out is non-nil.
func doJSON(t *testing.T, router *gin.Engine, method, path, userID string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set(userHeader, userID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if out != nil && w.Code < 300 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w
}

func tradeBody(symbol, date string, pnl *float64) map[string]any {
	body := map[string]any{
		"account_id":  "acc-1",
		"symbol":      symbol,
		"asset_class": "futures",
		"trade_type":  "long",
		"entry_price": 100.5,
		"trade_date":  date,
	}
	if pnl != nil {
		body["pnl"] = *pnl
	}
	return body
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", w.Code)
	}
}

func TestRequireUser(t *testing.T) {
	router, _ := newTestRouter(t)

	paths := []string{"/v1/trades", "/v1/accounts", "/v1/analytics/summary"}
	for _, path := range paths {
		w := doJSON(t, router, http.MethodGet, path, "", nil, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without identity: status = %d, want 401", path, w.Code)
		}
	}
}

func TestTradeLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	var created domain.Trade
	w := doJSON(t, router, http.MethodPost, "/v1/trades", "user-a", tradeBody("ES", "2024-03-01", fptr(150)), &created)
	if w.Code != http.StatusCreated {
		t.Fatalf("create trade status = %d, body %s", w.Code, w.Body.String())
	}
	if created.ID == "" {
		t.Fatal("created trade has empty id")
	}
	if created.UserID != "user-a" {
		t.Errorf("created trade user = %q, want user-a", created.UserID)
	}
	if created.PnL == nil || *created.PnL != 150 {
		t.Errorf("created trade pnl = %v, want 150", created.PnL)
	}

	var fetched domain.Trade
	w = doJSON(t, router, http.MethodGet, "/v1/trades/"+created.ID, "user-a", nil, &fetched)
	if w.Code != http.StatusOK {
		t.Fatalf("get trade status = %d", w.Code)
	}
	if fetched.Symbol != "ES" {
		t.Errorf("fetched symbol = %q, want ES", fetched.Symbol)
	}

	var listing struct {
		Trades []domain.Trade `json:"trades"`
		Count  int            `json:"count"`
	}
	w = doJSON(t, router, http.MethodGet, "/v1/trades", "user-a", nil, &listing)
	if w.Code != http.StatusOK {
		t.Fatalf("list trades status = %d", w.Code)
	}
	if listing.Count != 1 || len(listing.Trades) != 1 {
		t.Fatalf("list count = %d (%d trades), want 1", listing.Count, len(listing.Trades))
	}

	w = doJSON(t, router, http.MethodDelete, "/v1/trades/"+created.ID, "user-a", nil, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete trade status = %d, want 204", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/v1/trades/"+created.ID, "user-a", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get deleted trade status = %d, want 404", w.Code)
	}
}

func TestTradeOwnershipIsolation(t *testing.T) {
	router, _ := newTestRouter(t)

	var created domain.Trade
	doJSON(t, router, http.MethodPost, "/v1/trades", "user-a", tradeBody("NQ", "2024-03-02", nil), &created)

	if w := doJSON(t, router, http.MethodGet, "/v1/trades/"+created.ID, "user-b", nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("cross-user get status = %d, want 404", w.Code)
	}
	if w := doJSON(t, router, http.MethodDelete, "/v1/trades/"+created.ID, "user-b", nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("cross-user delete status = %d, want 404", w.Code)
	}

	var listing struct {
		Count int `json:"count"`
	}
	doJSON(t, router, http.MethodGet, "/v1/trades", "user-b", nil, &listing)
	if listing.Count != 0 {
		t.Errorf("user-b sees %d trades, want 0", listing.Count)
	}
}

func TestCreateTradeValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing symbol", func(b map[string]any) { delete(b, "symbol") }},
		{"bad asset class", func(b map[string]any) { b["asset_class"] = "options" }},
		{"bad direction", func(b map[string]any) { b["trade_type"] = "sideways" }},
		{"bad date", func(b map[string]any) { b["trade_date"] = "03/01/2024" }},
	}
	for _, tc := range cases {
		body := tradeBody("ES", "2024-03-01", nil)
		tc.mutate(body)
		w := doJSON(t, router, http.MethodPost, "/v1/trades", "user-a", body, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, w.Code)
		}
	}
}

func TestListTradesInvalidSort(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/v1/trades?sort=volume", "user-a", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid sort status = %d, want 400", w.Code)
	}
}

func TestJournalDuplicateDate(t *testing.T) {
	router, _ := newTestRouter(t)

	body := map[string]any{
		"entry_date":          "2024-03-05",
		"performance_context": "quiet session",
	}
	if w := doJSON(t, router, http.MethodPost, "/v1/journal", "user-a", body, nil); w.Code != http.StatusCreated {
		t.Fatalf("first entry status = %d, want 201", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, "/v1/journal", "user-a", body, nil); w.Code != http.StatusConflict {
		t.Errorf("second entry status = %d, want 409", w.Code)
	}
	// A different user can journal the same date.
	if w := doJSON(t, router, http.MethodPost, "/v1/journal", "user-b", body, nil); w.Code != http.StatusCreated {
		t.Errorf("other user same date status = %d, want 201", w.Code)
	}

	var entry domain.DailyEntry
	w := doJSON(t, router, http.MethodGet, "/v1/journal/date/2024-03-05", "user-a", nil, &entry)
	if w.Code != http.StatusOK {
		t.Fatalf("get by date status = %d", w.Code)
	}
	if entry.PerformanceContext != "quiet session" {
		t.Errorf("performance context = %q", entry.PerformanceContext)
	}
}

func TestGoalUpsertKeepsID(t *testing.T) {
	router, _ := newTestRouter(t)

	var first domain.Goal
	w := doJSON(t, router, http.MethodPut, "/v1/goals/2024-03", "user-a", map[string]any{"profit_goal": 1000.0, "win_rate_goal": 60.0}, &first)
	if w.Code != http.StatusOK {
		t.Fatalf("first upsert status = %d, body %s", w.Code, w.Body.String())
	}
	if first.ID == "" {
		t.Fatal("goal has empty id")
	}

	var second domain.Goal
	doJSON(t, router, http.MethodPut, "/v1/goals/2024-03", "user-a", map[string]any{"profit_goal": 2000.0, "win_rate_goal": 55.0}, &second)
	if second.ID != first.ID {
		t.Errorf("upsert changed id: %q -> %q", first.ID, second.ID)
	}
	if second.ProfitGoal != 2000 {
		t.Errorf("profit goal = %v, want 2000", second.ProfitGoal)
	}

	if w := doJSON(t, router, http.MethodGet, "/v1/goals/2024-04", "user-a", nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("unset month status = %d, want 404", w.Code)
	}
}

func TestAccountLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	var account domain.Account
	w := doJSON(t, router, http.MethodPost, "/v1/accounts", "user-a", map[string]any{"name": "Funded", "initial_balance": 50000.0}, &account)
	if w.Code != http.StatusCreated {
		t.Fatalf("create account status = %d, body %s", w.Code, w.Body.String())
	}
	if account.CurrentBalance != 50000 {
		t.Errorf("current balance = %v, want initial 50000", account.CurrentBalance)
	}

	var updated domain.Account
	w = doJSON(t, router, http.MethodPatch, "/v1/accounts/"+account.ID+"/balance", "user-a", map[string]any{"current_balance": 51200.0}, &updated)
	if w.Code != http.StatusOK {
		t.Fatalf("update balance status = %d", w.Code)
	}
	if updated.CurrentBalance != 51200 {
		t.Errorf("updated balance = %v, want 51200", updated.CurrentBalance)
	}
	if updated.InitialBalance != 50000 {
		t.Errorf("initial balance changed to %v", updated.InitialBalance)
	}

	var listing struct {
		Accounts []domain.AccountOverview `json:"accounts"`
	}
	doJSON(t, router, http.MethodGet, "/v1/accounts", "user-a", nil, &listing)
	if len(listing.Accounts) != 1 {
		t.Fatalf("account overviews = %d, want 1", len(listing.Accounts))
	}
	if listing.Accounts[0].Account.ID != account.ID {
		t.Errorf("overview account id = %q, want %q", listing.Accounts[0].Account.ID, account.ID)
	}

	if w := doJSON(t, router, http.MethodDelete, "/v1/accounts/"+account.ID, "user-a", nil, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete account status = %d, want 204", w.Code)
	}
}

func TestAnalyticsSummaryEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/v1/trades", "user-a", tradeBody("ES", "2024-03-01", fptr(100)), nil)
	doJSON(t, router, http.MethodPost, "/v1/trades", "user-a", tradeBody("ES", "2024-03-02", fptr(-40)), nil)
	doJSON(t, router, http.MethodPost, "/v1/trades", "user-a", tradeBody("NQ", "2024-03-03", nil), nil)

	var summary domain.Summary
	w := doJSON(t, router, http.MethodGet, "/v1/analytics/summary", "user-a", nil, &summary)
	if w.Code != http.StatusOK {
		t.Fatalf("summary status = %d", w.Code)
	}
	if summary.NetPnL != 60 {
		t.Errorf("net pnl = %v, want 60", summary.NetPnL)
	}
	if summary.TotalTrades != 3 {
		t.Errorf("total trades = %d, want 3", summary.TotalTrades)
	}
	// The open trade counts in the denominator.
	if want := 100.0 / 3; summary.WinRate < want-0.01 || summary.WinRate > want+0.01 {
		t.Errorf("win rate = %v, want ~%v", summary.WinRate, want)
	}

	var curve struct {
		Points []domain.CumulativePoint `json:"points"`
	}
	doJSON(t, router, http.MethodGet, "/v1/analytics/cumulative-pnl", "user-a", nil, &curve)
	if len(curve.Points) != 2 {
		t.Fatalf("curve points = %d, want 2 (open trade skipped)", len(curve.Points))
	}
	if curve.Points[1].Cumulative != 60 {
		t.Errorf("final cumulative = %v, want 60", curve.Points[1].Cumulative)
	}
}

func TestAnalyticsCalendarEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/v1/trades", "user-a", tradeBody("ES", "2024-02-05", fptr(30)), nil)
	doJSON(t, router, http.MethodPost, "/v1/trades", "user-a", tradeBody("ES", "2024-02-05", fptr(-10)), nil)

	var resp struct {
		Month domain.Month          `json:"month"`
		Cells []domain.CalendarCell `json:"cells"`
	}
	w := doJSON(t, router, http.MethodGet, "/v1/analytics/calendar?month=2024-02", "user-a", nil, &resp)
	if w.Code != http.StatusOK {
		t.Fatalf("calendar status = %d", w.Code)
	}
	if len(resp.Cells) != 29 {
		t.Fatalf("february 2024 cells = %d, want 29", len(resp.Cells))
	}
	day5 := resp.Cells[4]
	if day5.PnL != 20 || day5.Category != domain.CellPositive {
		t.Errorf("day 5 = %+v, want pnl 20 positive", day5)
	}

	if w := doJSON(t, router, http.MethodGet, "/v1/analytics/calendar?month=2024-13", "user-a", nil, nil); w.Code != http.StatusBadRequest {
		t.Errorf("invalid month status = %d, want 400", w.Code)
	}
}

func TestAnalyticsBreakdownEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/v1/trades", "user-a", tradeBody("ES", "2024-03-01", fptr(100)), nil)
	doJSON(t, router, http.MethodPost, "/v1/trades", "user-a", tradeBody("NQ", "2024-03-02", fptr(-50)), nil)

	var resp struct {
		By     string             `json:"by"`
		Groups []domain.Breakdown `json:"groups"`
	}
	w := doJSON(t, router, http.MethodGet, "/v1/analytics/breakdown", "user-a", nil, &resp)
	if w.Code != http.StatusOK {
		t.Fatalf("breakdown status = %d", w.Code)
	}
	if resp.By != "symbol" {
		t.Errorf("default dimension = %q, want symbol", resp.By)
	}
	if len(resp.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(resp.Groups))
	}

	if w := doJSON(t, router, http.MethodGet, "/v1/analytics/breakdown?by=astrology", "user-a", nil, nil); w.Code != http.StatusBadRequest {
		t.Errorf("unknown dimension status = %d, want 400", w.Code)
	}
}

func TestGoalProgressEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(t, router, http.MethodPut, "/v1/goals/2024-03", "user-a", map[string]any{"profit_goal": 100.0, "win_rate_goal": 50.0}, nil)
	doJSON(t, router, http.MethodPost, "/v1/trades", "user-a", tradeBody("ES", "2024-03-01", fptr(200)), nil)

	var report domain.GoalReport
	w := doJSON(t, router, http.MethodGet, "/v1/analytics/goal-progress/2024-03", "user-a", nil, &report)
	if w.Code != http.StatusOK {
		t.Fatalf("goal progress status = %d", w.Code)
	}
	if report.ProfitProgress.Progress != 200 {
		t.Errorf("profit progress = %v, want unclamped 200", report.ProfitProgress.Progress)
	}
	if !report.ProfitProgress.Achieved {
		t.Error("profit goal should be achieved")
	}
}

func fptr(v float64) *float64 { return &v }
