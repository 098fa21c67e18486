package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"chat-casino-backend/internal/models"
)

func TestMemoryStoreLazyAccountCreation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	acct, err := s.GetAccount(ctx, 42)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if acct.Wallet != models.StartingWallet || acct.Bank != 0 {
		t.Errorf("new account = %d/%d, want %d/0", acct.Wallet, acct.Bank, models.StartingWallet)
	}

	// Returned accounts are copies; mutating one must not leak into the store.
	acct.Wallet = 9999
	again, _ := s.GetAccount(ctx, 42)
	if again.Wallet != models.StartingWallet {
		t.Errorf("store leaked a mutation: wallet = %d", again.Wallet)
	}
}

func TestMemoryStoreApplyDelta(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.GetAccount(ctx, 1); err != nil {
		t.Fatalf("GetAccount: %v", err)
	}

	acct, err := s.ApplyDelta(ctx, 1, -40, 40)
	if err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if acct.Wallet != 60 || acct.Bank != 40 {
		t.Errorf("after delta = %d/%d, want 60/40", acct.Wallet, acct.Bank)
	}

	// A delta that would go negative is refused outright.
	if _, err := s.ApplyDelta(ctx, 1, -100, 0); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("overdraw = %v, want ErrInsufficientFunds", err)
	}
	acct, _ = s.GetAccount(ctx, 1)
	if acct.Wallet != 60 || acct.Bank != 40 {
		t.Errorf("refused delta mutated the account: %d/%d", acct.Wallet, acct.Bank)
	}

	if _, err := s.ApplyDelta(ctx, 777, 10, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown account = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreConfig(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.GetConfig(ctx, ConfigHouseEdge); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing key = %v, want ErrNotFound", err)
	}

	if err := s.SetConfigDefault(ctx, ConfigHouseEdge, "0.05"); err != nil {
		t.Fatalf("SetConfigDefault: %v", err)
	}
	// Defaults never overwrite.
	if err := s.SetConfigDefault(ctx, ConfigHouseEdge, "0.5"); err != nil {
		t.Fatalf("SetConfigDefault repeat: %v", err)
	}
	v, err := s.GetConfig(ctx, ConfigHouseEdge)
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if v != "0.05" {
		t.Errorf("config = %q, want 0.05", v)
	}

	pool, err := s.IncrConfig(ctx, ConfigJackpotPool, 25)
	if err != nil {
		t.Fatalf("IncrConfig: %v", err)
	}
	if pool != 25 {
		t.Errorf("pool = %d, want 25", pool)
	}
}

func TestMemoryStoreAuditNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		entry := models.NewAuditEntry(1, fmt.Sprintf("ACTION_%d", i), "", time.Now())
		if err := s.AppendAudit(ctx, entry); err != nil {
			t.Fatalf("AppendAudit: %v", err)
		}
	}

	entries, err := s.RecentAudit(ctx, 2)
	if err != nil {
		t.Fatalf("RecentAudit: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Action != "ACTION_2" || entries[1].Action != "ACTION_1" {
		t.Errorf("order = %s, %s, want ACTION_2, ACTION_1", entries[0].Action, entries[1].Action)
	}
}

func TestMemoryStoreRateLimit(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := s.CheckRateLimit(ctx, 1, "bet", 3, time.Minute)
		if err != nil {
			t.Fatalf("CheckRateLimit: %v", err)
		}
		if !allowed {
			t.Fatalf("call %d blocked under the limit", i+1)
		}
	}
	allowed, err := s.CheckRateLimit(ctx, 1, "bet", 3, time.Minute)
	if err != nil {
		t.Fatalf("CheckRateLimit: %v", err)
	}
	if allowed {
		t.Error("fourth call allowed over the limit")
	}
}

func TestMemoryStoreResetEconomy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	acct, _ := s.GetAccount(ctx, 1)
	acct.Wallet = 5000
	if err := s.SaveAccount(ctx, acct); err != nil {
		t.Fatalf("SaveAccount: %v", err)
	}

	if err := s.ResetEconomy(ctx); err != nil {
		t.Fatalf("ResetEconomy: %v", err)
	}
	fresh, _ := s.GetAccount(ctx, 1)
	if fresh.Wallet != models.StartingWallet {
		t.Errorf("wallet = %d, want fresh %d", fresh.Wallet, models.StartingWallet)
	}
	if v, _ := s.GetConfig(ctx, ConfigJackpotPool); v != DefaultJackpotPool {
		t.Errorf("jackpot pool = %q, want %q", v, DefaultJackpotPool)
	}
}
