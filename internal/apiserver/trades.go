package apiserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/domain"
	"tradejournal/internal/id"
	"tradejournal/internal/observability"
	"tradejournal/internal/storage"
)

type createTradeRequest struct {
	AccountID  string `json:"account_id" binding:"required"`
	Symbol     string `json:"symbol" binding:"required"`
	AssetClass string `json:"asset_class" binding:"required"`
	Direction  string `json:"trade_type" binding:"required"`

	EntryPrice   float64  `json:"entry_price" binding:"required"`
	ExitPrice    *float64 `json:"exit_price"`
	StopLoss     *float64 `json:"stop_loss"`
	TakeProfit   *float64 `json:"take_profit"`
	PositionSize float64  `json:"position_size"`

	PnL        *float64 `json:"pnl"`
	RiskReward *float64 `json:"risk_reward"`

	Strategy string   `json:"strategy"`
	Model    string   `json:"model"`
	Tags     []string `json:"tags"`

	TradeDate string `json:"trade_date" binding:"required"`

	BeforeTradeNotes    string   `json:"before_trade_notes"`
	PostTradeReflection string   `json:"post_trade_reflection"`
	Images              []string `json:"images"`
}

// handleListTrades returns the user's trades, filtered and sorted.
// Query params: account_id, model ("all" or empty means unconstrained),
// date_from, date_to, sort (date|pnl|symbol).
func (s *Server) handleListTrades(c *gin.Context) {
	filter := domain.TradeFilter{
		AccountID: c.Query("account_id"),
		Model:     c.Query("model"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
	}

	sortBy := storage.TradeSort(c.DefaultQuery("sort", string(storage.SortByDate)))
	if !sortBy.Valid() {
		badRequest(c, "invalid sort: expected date|pnl|symbol")
		return
	}

	trades, err := s.stores.Trades.Query(c.Request.Context(), currentUser(c), filter, sortBy)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trades": trades, "count": len(trades)})
}

func (s *Server) handleCreateTrade(c *gin.Context) {
	var req createTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	assetClass := domain.AssetClass(req.AssetClass)
	if !assetClass.Valid() {
		badRequest(c, "invalid asset_class: expected futures|forex|stocks|crypto")
		return
	}
	direction := domain.Direction(req.Direction)
	if !direction.Valid() {
		badRequest(c, "invalid trade_type: expected long|short")
		return
	}
	if !domain.ValidDate(req.TradeDate) {
		badRequest(c, "invalid trade_date: expected YYYY-MM-DD")
		return
	}

	userID := currentUser(c)
	now := time.Now().UTC()
	trade := &domain.Trade{
		ID:                  id.New(),
		AccountID:           req.AccountID,
		UserID:              userID,
		Symbol:              req.Symbol,
		AssetClass:          assetClass,
		Direction:           direction,
		EntryPrice:          req.EntryPrice,
		ExitPrice:           req.ExitPrice,
		StopLoss:            req.StopLoss,
		TakeProfit:          req.TakeProfit,
		PositionSize:        req.PositionSize,
		PnL:                 req.PnL,
		RiskReward:          req.RiskReward,
		Strategy:            req.Strategy,
		Model:               req.Model,
		Tags:                req.Tags,
		TradeDate:           req.TradeDate,
		BeforeTradeNotes:    req.BeforeTradeNotes,
		PostTradeReflection: req.PostTradeReflection,
		Images:              req.Images,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.stores.Trades.Insert(c.Request.Context(), trade); err != nil {
		s.respondError(c, err)
		return
	}

	observability.RecordTradeRecorded()
	s.refresher.Trigger(userID, s.filters.get(userID))
	c.JSON(http.StatusCreated, trade)
}

func (s *Server) handleGetTrade(c *gin.Context) {
	trade, err := s.stores.Trades.GetByID(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trade)
}

func (s *Server) handleDeleteTrade(c *gin.Context) {
	userID := currentUser(c)
	if err := s.stores.Trades.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}

	observability.RecordTradeDeleted()
	s.refresher.Trigger(userID, s.filters.get(userID))
	c.Status(http.StatusNoContent)
}

// handleListModels returns the distinct model tags for filter dropdowns.
func (s *Server) handleListModels(c *gin.Context) {
	models, err := s.analytics.Models(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": models})
}
