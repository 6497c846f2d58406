package apiserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/domain"
	"tradejournal/internal/id"
	"tradejournal/internal/observability"
)

type entryRequest struct {
	EntryDate          string          `json:"entry_date"`
	MarketEvents       json.RawMessage `json:"market_events"`
	SymbolsAnalysis    json.RawMessage `json:"symbols_analysis"`
	PerformanceContext string          `json:"performance_context"`
	JournalSections    json.RawMessage `json:"journal_sections"`
}

// handleListEntries returns the user's journal entries, optionally bounded
// by from/to dates (inclusive), newest first.
func (s *Server) handleListEntries(c *gin.Context) {
	entries, err := s.stores.Entries.List(c.Request.Context(), currentUser(c), c.Query("from"), c.Query("to"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// handleCreateEntry creates the day's journal entry. A second entry for the
// same date returns 409; the client should update the existing one instead.
func (s *Server) handleCreateEntry(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if !domain.ValidDate(req.EntryDate) {
		badRequest(c, "invalid entry_date: expected YYYY-MM-DD")
		return
	}

	now := time.Now().UTC()
	entry := &domain.DailyEntry{
		ID:                 id.New(),
		UserID:             currentUser(c),
		EntryDate:          req.EntryDate,
		MarketEvents:       req.MarketEvents,
		SymbolsAnalysis:    req.SymbolsAnalysis,
		PerformanceContext: req.PerformanceContext,
		JournalSections:    req.JournalSections,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.stores.Entries.Insert(c.Request.Context(), entry); err != nil {
		s.respondError(c, err)
		return
	}

	observability.RecordEntryRecorded()
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) handleGetEntryByDate(c *gin.Context) {
	date := c.Param("date")
	if !domain.ValidDate(date) {
		badRequest(c, "invalid date: expected YYYY-MM-DD")
		return
	}

	entry, err := s.stores.Entries.GetByDate(c.Request.Context(), currentUser(c), date)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) handleUpdateEntry(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	entry := &domain.DailyEntry{
		ID:                 c.Param("id"),
		UserID:             currentUser(c),
		MarketEvents:       req.MarketEvents,
		SymbolsAnalysis:    req.SymbolsAnalysis,
		PerformanceContext: req.PerformanceContext,
		JournalSections:    req.JournalSections,
	}

	if err := s.stores.Entries.Update(c.Request.Context(), entry); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (s *Server) handleDeleteEntry(c *gin.Context) {
	if err := s.stores.Entries.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
