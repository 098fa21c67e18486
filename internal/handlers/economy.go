package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chat-casino-backend/internal/models"
	"chat-casino-backend/internal/services"
)

type EconomyHandler struct {
	ledger *services.Ledger
}

func NewEconomyHandler(ledger *services.Ledger) *EconomyHandler {
	return &EconomyHandler{ledger: ledger}
}

func accountJSON(acct *models.Account) gin.H {
	return gin.H{
		"player_id":    acct.PlayerID,
		"wallet":       acct.Wallet,
		"bank":         acct.Bank,
		"total":        acct.Total(),
		"wins":         acct.Wins,
		"losses":       acct.Losses,
		"daily_streak": acct.DailyStreak,
	}
}

func (h *EconomyHandler) GetBalance(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	acct, err := h.ledger.Balance(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet":    acct.Wallet,
		"bank":      acct.Bank,
		"total":     acct.Total(),
		"formatted": models.FormatMoney(acct.Total()),
	})
}

func (h *EconomyHandler) GetProfile(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	// /economy/profile/:id lets players look each other up.
	if idParam := c.Param("id"); idParam != "" {
		id, err := strconv.ParseInt(idParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid player id"})
			return
		}
		playerID = id
	}

	acct, err := h.ledger.Balance(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, accountJSON(acct))
}

func (h *EconomyHandler) Deposit(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	var req models.BetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	acct, err := h.ledger.Deposit(c.Request.Context(), playerID, req.Amount)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "account": accountJSON(acct)})
}

func (h *EconomyHandler) Withdraw(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	var req models.BetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	acct, err := h.ledger.Withdraw(c.Request.Context(), playerID, req.Amount)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "account": accountJSON(acct)})
}

func (h *EconomyHandler) Pay(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	var req models.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	acct, err := h.ledger.Pay(c.Request.Context(), playerID, req.TargetID, req.Amount)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "account": accountJSON(acct)})
}

func (h *EconomyHandler) ClaimDaily(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	result, err := h.ledger.ClaimDaily(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reward":  result.Reward,
		"streak":  result.Streak,
		"account": accountJSON(result.Account),
	})
}

func (h *EconomyHandler) Leaderboard(c *gin.Context) {
	limit := int64(10)
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	accounts, err := h.ledger.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	entries := make([]gin.H, 0, len(accounts))
	for i, acct := range accounts {
		entries = append(entries, gin.H{
			"rank":      i + 1,
			"player_id": acct.PlayerID,
			"total":     acct.Total(),
			"formatted": models.FormatMoney(acct.Total()),
		})
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
