package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"chat-casino-backend/internal/services"
	"chat-casino-backend/internal/store"
)

func AuthMiddleware(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
				c.Abort()
				return
			}
			tokenString = parts[1]
		} else {
			tokenString = c.Query("token")
			if tokenString == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
				c.Abort()
				return
			}
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("player_id", claims.PlayerID)
		c.Set("session_id", claims.SessionID)
		c.Set("admin", claims.Admin)

		c.Next()
	}
}

// AdminOnly gates the admin route group on the token's admin claim.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, _ := c.Get("admin")
		if isAdmin, ok := admin.(bool); !ok || !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func RateLimitMiddleware(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, exists := c.Get("player_id")
		if !exists {
			c.Next()
			return
		}

		path := c.Request.URL.Path

		var limit int
		var window time.Duration

		switch {
		case strings.Contains(path, "/crash/cashout"):
			limit = 60 // cashouts are time sensitive
			window = time.Minute
		case strings.Contains(path, "/games/"):
			limit = 30 // 30 wagers per minute
			window = time.Minute
		case strings.Contains(path, "/economy/pay"):
			limit = 10
			window = time.Minute
		default:
			c.Next()
			return
		}

		allowed, err := st.CheckRateLimit(c.Request.Context(), playerID.(int64), path, limit, window)
		if err != nil || !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": window.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
