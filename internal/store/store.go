package store

import (
	"context"
	"errors"
	"time"

	"chat-casino-backend/internal/models"
)

var (
	// ErrInsufficientFunds is returned when a delta would push wallet or
	// bank below zero. The mutation is not applied.
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
)

// Store is the persistence contract the engine programs against. Accounts
// are created lazily on first reference; ApplyDelta is atomic end to end so
// two overlapping settlements can never lose an update.
type Store interface {
	GetAccount(ctx context.Context, playerID int64) (*models.Account, error)
	SaveAccount(ctx context.Context, acct *models.Account) error
	ApplyDelta(ctx context.Context, playerID int64, walletDelta, bankDelta int64) (*models.Account, error)
	IncrStats(ctx context.Context, playerID int64, winsDelta, lossesDelta int64) error
	TopAccounts(ctx context.Context, limit int64) ([]*models.Account, error)

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
	SetConfigDefault(ctx context.Context, key, value string) error
	IncrConfig(ctx context.Context, key string, delta int64) (int64, error)

	AppendAudit(ctx context.Context, entry *models.AuditEntry) error
	RecentAudit(ctx context.Context, limit int64) ([]*models.AuditEntry, error)

	CheckRateLimit(ctx context.Context, playerID int64, action string, limit int, window time.Duration) (bool, error)

	ResetEconomy(ctx context.Context) error
	Close() error
}
