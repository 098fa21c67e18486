package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chat-casino-backend/internal/models"
	"chat-casino-backend/internal/services"
)

type AdminHandler struct {
	ledger *services.Ledger
	house  *services.HouseService
}

func NewAdminHandler(ledger *services.Ledger, house *services.HouseService) *AdminHandler {
	return &AdminHandler{
		ledger: ledger,
		house:  house,
	}
}

type setEdgeRequest struct {
	Edge float64 `json:"edge"`
}

func (h *AdminHandler) SetHouseEdge(c *gin.Context) {
	var req setEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := h.house.SetEdge(c.Request.Context(), req.Edge); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "edge": req.Edge})
}

type setMaxBetRequest struct {
	MaxBet int64 `json:"max_bet" binding:"required"`
}

func (h *AdminHandler) SetMaxBet(c *gin.Context) {
	var req setMaxBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := h.house.SetMaxBet(c.Request.Context(), req.MaxBet); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "max_bet": req.MaxBet})
}

func (h *AdminHandler) AddMoney(c *gin.Context) {
	actorID := c.GetInt64("player_id")

	var req models.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	acct, err := h.ledger.AddMoney(c.Request.Context(), actorID, req.TargetID, req.Amount)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "account": accountJSON(acct)})
}

func (h *AdminHandler) RemoveMoney(c *gin.Context) {
	actorID := c.GetInt64("player_id")

	var req models.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	acct, err := h.ledger.RemoveMoney(c.Request.Context(), actorID, req.TargetID, req.Amount)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "account": accountJSON(acct)})
}

func (h *AdminHandler) AuditLog(c *gin.Context) {
	limit := int64(50)
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	entries, err := h.ledger.RecentAudit(c.Request.Context(), limit)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *AdminHandler) ResetEconomy(c *gin.Context) {
	actorID := c.GetInt64("player_id")

	if err := h.ledger.ResetEconomy(c.Request.Context(), actorID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
