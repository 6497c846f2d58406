package apiserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/analytics"
	"tradejournal/internal/domain"
)

// tradeFilterFromQuery reads the shared analytics filter params.
func tradeFilterFromQuery(c *gin.Context) domain.TradeFilter {
	return domain.TradeFilter{
		AccountID: c.Query("account_id"),
		Model:     c.Query("model"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
	}
}

func (s *Server) handleSummary(c *gin.Context) {
	summary, err := s.analytics.Summary(c.Request.Context(), currentUser(c), tradeFilterFromQuery(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleCumulativePnL(c *gin.Context) {
	points, err := s.analytics.CumulativePnL(c.Request.Context(), currentUser(c), tradeFilterFromQuery(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points})
}

// handleCalendar returns the per-day cells for ?month=YYYY-MM, defaulting
// to the current month.
func (s *Server) handleCalendar(c *gin.Context) {
	month := domain.Month(c.Query("month"))
	if month == "" {
		month = domain.CurrentMonth(time.Now())
	}
	if !month.Valid() {
		badRequest(c, "invalid month: expected YYYY-MM")
		return
	}

	cells, err := s.analytics.Calendar(c.Request.Context(), currentUser(c), month)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": month, "cells": cells})
}

// handleBreakdown returns the simple group-by for ?by=symbol|assetClass|
// strategy|model.
func (s *Server) handleBreakdown(c *gin.Context) {
	by := c.DefaultQuery("by", analytics.BySymbol)
	groups, err := s.analytics.Breakdown(c.Request.Context(), currentUser(c), tradeFilterFromQuery(c), by)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"by": by, "groups": groups})
}

// handleInsights returns the fuller per-group statistics for ?by=model|
// strategy|account.
func (s *Server) handleInsights(c *gin.Context) {
	by := c.DefaultQuery("by", analytics.ByModel)
	groups, err := s.analytics.Insights(c.Request.Context(), currentUser(c), tradeFilterFromQuery(c), by)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"by": by, "groups": groups})
}

func (s *Server) handleGoalProgress(c *gin.Context) {
	month := domain.Month(c.Param("month"))
	if !month.Valid() {
		badRequest(c, "invalid month: expected YYYY-MM")
		return
	}

	report, err := s.analytics.GoalReport(c.Request.Context(), currentUser(c), month)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
