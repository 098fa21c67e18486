package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-casino-backend/internal/models"
	"chat-casino-backend/internal/services"
)

type GameHandler struct {
	engine    *services.Engine
	happyHour *services.HappyHour
	house     *services.HouseService
}

func NewGameHandler(engine *services.Engine, happyHour *services.HappyHour, house *services.HouseService) *GameHandler {
	return &GameHandler{
		engine:    engine,
		happyHour: happyHour,
		house:     house,
	}
}

func bindBet(c *gin.Context) (*models.BetRequest, bool) {
	var req models.BetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return nil, false
	}
	return &req, true
}

// --- Blackjack ---

func (h *GameHandler) BlackjackStart(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	req, ok := bindBet(c)
	if !ok {
		return
	}

	view, err := h.engine.StartBlackjack(c.Request.Context(), playerID, req.Amount)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "hand": view})
}

func (h *GameHandler) BlackjackHit(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	view, err := h.engine.Hit(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "hand": view})
}

func (h *GameHandler) BlackjackStand(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	view, err := h.engine.Stand(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "hand": view})
}

func (h *GameHandler) BlackjackState(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	view, err := h.engine.BlackjackState(playerID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"hand": view})
}

// --- Crash ---

func (h *GameHandler) CrashJoin(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	var req models.CrashJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	view, err := h.engine.JoinCrash(c.Request.Context(), playerID, req.Scope, req.Amount)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "round": view})
}

func (h *GameHandler) CrashCashout(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	var req models.CrashCashoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	payout, multiplier, err := h.engine.CashOutCrash(c.Request.Context(), playerID, req.Scope)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"payout":     payout,
		"multiplier": multiplier,
	})
}

func (h *GameHandler) CrashState(c *gin.Context) {
	scope := c.Param("scope")

	view, err := h.engine.CrashState(scope)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"round": view})
}

// --- Duels ---

func (h *GameHandler) DuelChallenge(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	var req models.DuelChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	duel, err := h.engine.ChallengeDuel(c.Request.Context(), playerID, req.TargetID, req.Amount)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"duel": gin.H{
			"challenger_id": duel.ChallengerID,
			"target_id":     duel.TargetID,
			"bet":           duel.Bet,
		},
	})
}

func (h *GameHandler) DuelAccept(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	result, err := h.engine.AcceptDuel(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

func (h *GameHandler) DuelDecline(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	if err := h.engine.DeclineDuel(c.Request.Context(), playerID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- One-shot games ---

func (h *GameHandler) Coinflip(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	var req models.CoinflipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	outcome, err := h.engine.Coinflip(c.Request.Context(), playerID, req.Side, req.Amount)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "outcome": outcome})
}

func (h *GameHandler) Dice(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	var req models.DiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	outcome, err := h.engine.Dice(c.Request.Context(), playerID, req.Target, req.Amount)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "outcome": outcome})
}

func (h *GameHandler) Roulette(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	var req models.RouletteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	outcome, err := h.engine.Roulette(c.Request.Context(), playerID, req.Color, req.Amount)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "outcome": outcome})
}

func (h *GameHandler) Slots(c *gin.Context) {
	playerID := c.GetInt64("player_id")

	req, ok := bindBet(c)
	if !ok {
		return
	}

	outcome, err := h.engine.Slots(c.Request.Context(), playerID, req.Amount)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "outcome": outcome})
}

// --- House status ---

func (h *GameHandler) HouseStatus(c *gin.Context) {
	active, multiplier := h.happyHour.Snapshot()

	c.JSON(http.StatusOK, gin.H{
		"happy_hour": gin.H{
			"active":     active,
			"multiplier": multiplier,
		},
		"house_edge":   h.house.Edge(c.Request.Context()),
		"max_bet":      h.house.MaxBet(c.Request.Context()),
		"jackpot_pool": h.house.JackpotPool(c.Request.Context()),
	})
}
