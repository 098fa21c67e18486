package services

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"chat-casino-backend/internal/config"
	"chat-casino-backend/internal/models"
	"chat-casino-backend/internal/store"
)

// Engine is the concurrent game-session core: blackjack hands, crash rounds,
// duel negotiations and the one-shot wagers, all settling against the same
// ledger, house config and happy hour state.
type Engine struct {
	store     store.Store
	house     *HouseService
	happyHour *HappyHour
	registry  *Registry
	notifier  Notifier
	clock     Clock

	joinWindow  time.Duration
	duelTimeout time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand

	// newDeck allows tests to stack the deal.
	newDeck func() *models.Deck
}

func NewEngine(cfg *config.Config, st store.Store, house *HouseService, hh *HappyHour, notifier Notifier, clock Clock) *Engine {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	e := &Engine{
		store:       st,
		house:       house,
		happyHour:   hh,
		registry:    NewRegistry(),
		notifier:    notifier,
		clock:       clock,
		joinWindow:  cfg.CrashJoinWindow,
		duelTimeout: cfg.DuelTimeout,
		rng:         rng,
	}
	e.newDeck = func() *models.Deck {
		return models.NewDeck(rand.New(rand.NewSource(e.int63())))
	}
	return e
}

func (e *Engine) int63() int64 {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Int63()
}

func (e *Engine) intn(n int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Intn(n)
}

func (e *Engine) float64() float64 {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Float64()
}

func (e *Engine) expFloat64() float64 {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.ExpFloat64()
}

// validateBet parses and validates a wager against the player's wallet and
// the house max bet. Nothing is debited here.
func (e *Engine) validateBet(ctx context.Context, playerID int64, amountStr string) (int64, error) {
	acct, err := e.store.GetAccount(ctx, playerID)
	if err != nil {
		return 0, err
	}

	amount, err := models.ParseAmount(amountStr, acct.Wallet)
	if err != nil {
		return 0, err
	}
	if amount > acct.Wallet {
		return 0, ErrInsufficientFunds
	}
	if max := e.house.MaxBet(ctx); amount > max {
		return 0, ErrBetTooLarge
	}
	return amount, nil
}

// audit appends a ledger audit row. Best effort: a failed append never blocks
// a settlement that already happened.
func (e *Engine) audit(ctx context.Context, playerID int64, action, details string) {
	entry := models.NewAuditEntry(playerID, action, details, e.clock.Now())
	if err := e.store.AppendAudit(ctx, entry); err != nil {
		log.Printf("audit append failed: %v", err)
	}
}

// logAction broadcasts an audit message to the front-end log channel.
func (e *Engine) logAction(message, severity string) {
	e.notifier.Publish(Event{
		Type: EventAudit,
		Data: map[string]any{
			"message":  message,
			"severity": severity,
		},
	})
}

func (e *Engine) notifyBalance(playerID int64, acct *models.Account) {
	if acct == nil {
		return
	}
	e.notifier.Publish(Event{
		Type:     EventBalance,
		PlayerID: playerID,
		Data: map[string]any{
			"wallet": acct.Wallet,
			"bank":   acct.Bank,
		},
	})
}
