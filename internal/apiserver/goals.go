package apiserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/domain"
	"tradejournal/internal/id"
	"tradejournal/internal/observability"
)

type goalRequest struct {
	ProfitGoal  float64 `json:"profit_goal"`
	WinRateGoal float64 `json:"win_rate_goal"`
}

// handleGetGoal returns the raw goal row for a month. A month with no goal
// returns 404; the goal-progress endpoint treats that as zero targets.
func (s *Server) handleGetGoal(c *gin.Context) {
	month := domain.Month(c.Param("month"))
	if !month.Valid() {
		badRequest(c, "invalid month: expected YYYY-MM")
		return
	}

	goal, err := s.stores.Goals.GetByMonth(c.Request.Context(), currentUser(c), month)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// handleUpsertGoal sets the month's targets, replacing any existing ones.
func (s *Server) handleUpsertGoal(c *gin.Context) {
	month := domain.Month(c.Param("month"))
	if !month.Valid() {
		badRequest(c, "invalid month: expected YYYY-MM")
		return
	}

	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	userID := currentUser(c)
	now := time.Now().UTC()
	goal := &domain.Goal{
		ID:          id.New(),
		UserID:      userID,
		Month:       month,
		ProfitGoal:  req.ProfitGoal,
		WinRateGoal: req.WinRateGoal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.stores.Goals.Upsert(c.Request.Context(), goal); err != nil {
		s.respondError(c, err)
		return
	}

	observability.RecordGoalUpserted()

	// Return the stored row so the client sees the kept ID on conflict.
	stored, err := s.stores.Goals.GetByMonth(c.Request.Context(), userID, month)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stored)
}
