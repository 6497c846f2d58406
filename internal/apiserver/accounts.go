package apiserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/domain"
	"tradejournal/internal/id"
)

type createAccountRequest struct {
	Name           string  `json:"name" binding:"required"`
	InitialBalance float64 `json:"initial_balance"`
}

type updateBalanceRequest struct {
	CurrentBalance float64 `json:"current_balance" binding:"required"`
}

// handleListAccounts returns the user's accounts with derived trade
// statistics alongside the advisory balance.
func (s *Server) handleListAccounts(c *gin.Context) {
	overviews, err := s.analytics.AccountOverviews(c.Request.Context(), currentUser(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": overviews})
}

func (s *Server) handleCreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:             id.New(),
		UserID:         currentUser(c),
		Name:           req.Name,
		InitialBalance: req.InitialBalance,
		CurrentBalance: req.InitialBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.stores.Accounts.Insert(c.Request.Context(), account); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (s *Server) handleGetAccount(c *gin.Context) {
	account, err := s.stores.Accounts.GetByID(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (s *Server) handleUpdateBalance(c *gin.Context) {
	var req updateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	userID := currentUser(c)
	accountID := c.Param("id")
	if err := s.stores.Accounts.UpdateBalance(c.Request.Context(), userID, accountID, req.CurrentBalance); err != nil {
		s.respondError(c, err)
		return
	}

	account, err := s.stores.Accounts.GetByID(c.Request.Context(), userID, accountID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (s *Server) handleDeleteAccount(c *gin.Context) {
	if err := s.stores.Accounts.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
