// Package apiserver exposes the journal and analytics over HTTP. Every
// route under /v1 requires an explicit user identity via the X-User-ID
// header; there is no fallback user.
package apiserver

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/analytics"
	"tradejournal/internal/observability"
	"tradejournal/internal/storage"
)

// Stores bundles the storage interfaces the server needs.
type Stores struct {
	Accounts storage.AccountStore
	Trades   storage.TradeStore
	Entries  storage.DailyEntryStore
	Goals    storage.GoalStore
}

// Server wires handlers, analytics and the live stream hub.
type Server struct {
	stores    Stores
	analytics *analytics.Service
	refresher *analytics.Refresher
	hub       *Hub
	filters   *streamFilters
	log       *slog.Logger
}

// NewServer assembles the server. The hub is started immediately; Close
// shuts it down.
func NewServer(stores Stores, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	svc := analytics.NewService(stores.Trades, stores.Accounts, stores.Goals)
	hub := NewHub(log)
	return &Server{
		stores:    stores,
		analytics: svc,
		refresher: analytics.NewRefresher(svc, hub, log),
		hub:       hub,
		filters:   newStreamFilters(),
		log:       log,
	}
}

// WithRefreshDebounce sets how long the analytics refresher waits after a
// mutation before recomputing.
func (s *Server) WithRefreshDebounce(d time.Duration) *Server {
	s.refresher.WithDebounce(d)
	return s
}

// Close releases the server's background resources.
func (s *Server) Close() {
	s.hub.Close()
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestMetrics())

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(observability.Handler()))

	api := router.Group("/v1")
	api.Use(s.requireUser())
	{
		accounts := api.Group("/accounts")
		{
			accounts.GET("", s.handleListAccounts)
			accounts.POST("", s.handleCreateAccount)
			accounts.GET("/:id", s.handleGetAccount)
			accounts.PATCH("/:id/balance", s.handleUpdateBalance)
			accounts.DELETE("/:id", s.handleDeleteAccount)
		}

		trades := api.Group("/trades")
		{
			trades.GET("", s.handleListTrades)
			trades.POST("", s.handleCreateTrade)
			trades.GET("/models", s.handleListModels)
			trades.GET("/:id", s.handleGetTrade)
			trades.DELETE("/:id", s.handleDeleteTrade)
		}

		journal := api.Group("/journal")
		{
			journal.GET("", s.handleListEntries)
			journal.POST("", s.handleCreateEntry)
			journal.GET("/date/:date", s.handleGetEntryByDate)
			journal.PUT("/:id", s.handleUpdateEntry)
			journal.DELETE("/:id", s.handleDeleteEntry)
		}

		goals := api.Group("/goals")
		{
			goals.GET("/:month", s.handleGetGoal)
			goals.PUT("/:month", s.handleUpsertGoal)
		}

		an := api.Group("/analytics")
		{
			an.GET("/summary", s.handleSummary)
			an.GET("/cumulative-pnl", s.handleCumulativePnL)
			an.GET("/calendar", s.handleCalendar)
			an.GET("/breakdown", s.handleBreakdown)
			an.GET("/insights", s.handleInsights)
			an.GET("/goal-progress/:month", s.handleGoalProgress)
			an.GET("/stream", s.handleStream)
		}
	}

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
