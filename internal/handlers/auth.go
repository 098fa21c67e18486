package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-casino-backend/internal/config"
	"chat-casino-backend/internal/services"
	"chat-casino-backend/internal/store"
)

type AuthHandler struct {
	cfg        *config.Config
	jwtService *services.JWTService
	store      store.Store
}

func NewAuthHandler(cfg *config.Config, jwtService *services.JWTService, st store.Store) *AuthHandler {
	return &AuthHandler{
		cfg:        cfg,
		jwtService: jwtService,
		store:      st,
	}
}

type loginRequest struct {
	PlayerID int64  `json:"player_id" binding:"required"`
	AdminKey string `json:"admin_key"`
}

// Login issues a JWT for a player id. Supplying the configured admin key
// grants the admin claim; a wrong key is rejected outright.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	admin := false
	if req.AdminKey != "" {
		if h.cfg.AdminKey == "" || req.AdminKey != h.cfg.AdminKey {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid admin key"})
			return
		}
		admin = true
	}

	// Touch the account so the player exists from the first request.
	acct, err := h.store.GetAccount(c.Request.Context(), req.PlayerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
		return
	}

	token, sessionID, err := h.jwtService.GenerateToken(req.PlayerID, admin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"session_id": sessionID,
		"admin":      admin,
		"account": gin.H{
			"player_id": acct.PlayerID,
			"wallet":    acct.Wallet,
			"bank":      acct.Bank,
		},
	})
}
