package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"chat-casino-backend/internal/config"
	"chat-casino-backend/internal/handlers"
	"chat-casino-backend/internal/middleware"
	"chat-casino-backend/internal/services"
	"chat-casino-backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	redisStore, err := store.NewRedisStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisStore.Close()

	ctx := context.Background()

	house := services.NewHouseService(redisStore)
	if err := house.EnsureDefaults(ctx); err != nil {
		log.Fatalf("Failed to seed house config: %v", err)
	}

	jwtService := services.NewJWTService(cfg)
	clock := services.NewClock()

	wsHandler := handlers.NewWebSocketHandler(redisStore)
	notifier := wsHandler.Hub()

	happyHour := services.NewHappyHour(cfg, clock, notifier)
	go happyHour.Run(ctx)

	engine := services.NewEngine(cfg, redisStore, house, happyHour, notifier, clock)
	ledger := services.NewLedger(redisStore, notifier, clock)

	authHandler := handlers.NewAuthHandler(cfg, jwtService, redisStore)
	economyHandler := handlers.NewEconomyHandler(ledger)
	gameHandler := handlers.NewGameHandler(engine, happyHour, house)
	adminHandler := handlers.NewAdminHandler(ledger, house)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.POST("/auth/login", authHandler.Login)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.RateLimitMiddleware(redisStore))
	{
		protected.GET("/ws", wsHandler.HandleWebSocket)

		economy := protected.Group("/economy")
		{
			economy.GET("/balance", economyHandler.GetBalance)
			economy.GET("/profile", economyHandler.GetProfile)
			economy.GET("/profile/:id", economyHandler.GetProfile)
			economy.POST("/deposit", economyHandler.Deposit)
			economy.POST("/withdraw", economyHandler.Withdraw)
			economy.POST("/pay", economyHandler.Pay)
			economy.POST("/daily", economyHandler.ClaimDaily)
			economy.GET("/leaderboard", economyHandler.Leaderboard)
		}

		games := protected.Group("/games")
		{
			games.GET("/house", gameHandler.HouseStatus)

			blackjack := games.Group("/blackjack")
			{
				blackjack.POST("/start", gameHandler.BlackjackStart)
				blackjack.POST("/hit", gameHandler.BlackjackHit)
				blackjack.POST("/stand", gameHandler.BlackjackStand)
				blackjack.GET("/state", gameHandler.BlackjackState)
			}

			crash := games.Group("/crash")
			{
				crash.POST("/join", gameHandler.CrashJoin)
				crash.POST("/cashout", gameHandler.CrashCashout)
				crash.GET("/state/:scope", gameHandler.CrashState)
			}

			duel := games.Group("/duel")
			{
				duel.POST("/challenge", gameHandler.DuelChallenge)
				duel.POST("/accept", gameHandler.DuelAccept)
				duel.POST("/decline", gameHandler.DuelDecline)
			}

			games.POST("/coinflip", gameHandler.Coinflip)
			games.POST("/dice", gameHandler.Dice)
			games.POST("/roulette", gameHandler.Roulette)
			games.POST("/slots", gameHandler.Slots)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.AdminOnly())
		{
			admin.POST("/house-edge", adminHandler.SetHouseEdge)
			admin.POST("/max-bet", adminHandler.SetMaxBet)
			admin.POST("/add-money", adminHandler.AddMoney)
			admin.POST("/remove-money", adminHandler.RemoveMoney)
			admin.GET("/audit", adminHandler.AuditLog)
			admin.POST("/reset", adminHandler.ResetEconomy)
		}
	}

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
