package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"chat-casino-backend/internal/config"
	"chat-casino-backend/internal/models"
	"chat-casino-backend/internal/store"
)

func TestRedisStore(t *testing.T) {
	cfg := &config.Config{
		RedisURL:  "localhost:6379",
		RedisPass: "",
		RedisDB:   0,
	}

	redisStore, err := store.NewRedisStore(cfg)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer redisStore.Close()

	ctx := context.Background()
	playerID := int64(999999)

	acct, err := redisStore.GetAccount(ctx, playerID)
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	if acct.PlayerID != playerID {
		t.Errorf("Expected player id %d, got %d", playerID, acct.PlayerID)
	}

	start := acct.Wallet

	acct, err = redisStore.ApplyDelta(ctx, playerID, 500, 0)
	if err != nil {
		t.Fatalf("Failed to apply delta: %v", err)
	}
	if acct.Wallet != start+500 {
		t.Errorf("Expected wallet %d after credit, got %d", start+500, acct.Wallet)
	}

	acct, err = redisStore.ApplyDelta(ctx, playerID, -200, 200)
	if err != nil {
		t.Fatalf("Failed to move wallet to bank: %v", err)
	}
	if acct.Bank < 200 {
		t.Errorf("Expected bank >= 200, got %d", acct.Bank)
	}

	// Overdraw must fail atomically without touching the record.
	before := acct.Wallet
	if _, err := redisStore.ApplyDelta(ctx, playerID, -(before + 1), 0); !errors.Is(err, store.ErrInsufficientFunds) {
		t.Errorf("Expected ErrInsufficientFunds, got %v", err)
	}
	acct, err = redisStore.GetAccount(ctx, playerID)
	if err != nil {
		t.Fatalf("Failed to re-read account: %v", err)
	}
	if acct.Wallet != before {
		t.Errorf("Refused delta changed wallet: %d -> %d", before, acct.Wallet)
	}

	if err := redisStore.IncrStats(ctx, playerID, 1, 0); err != nil {
		t.Errorf("Failed to increment stats: %v", err)
	}

	entry := models.NewAuditEntry(playerID, "TEST", "redis roundtrip", time.Now())
	if err := redisStore.AppendAudit(ctx, entry); err != nil {
		t.Errorf("Failed to append audit: %v", err)
	}
	entries, err := redisStore.RecentAudit(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to read audit: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "TEST" {
		t.Errorf("Expected the TEST entry first, got %+v", entries)
	}
}
