package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"chat-casino-backend/internal/models"
	"chat-casino-backend/internal/store"
)

const (
	dailyBaseReward   = 250
	dailyStreakReward = 50
)

// Ledger owns every wallet and bank mutation outside of game settlement:
// deposits, withdrawals, transfers and the daily claim.
type Ledger struct {
	store    store.Store
	notifier Notifier
	clock    Clock
}

func NewLedger(st store.Store, notifier Notifier, clock Clock) *Ledger {
	return &Ledger{store: st, notifier: notifier, clock: clock}
}

func (l *Ledger) Balance(ctx context.Context, playerID int64) (*models.Account, error) {
	return l.store.GetAccount(ctx, playerID)
}

// Deposit moves money from wallet to bank.
func (l *Ledger) Deposit(ctx context.Context, playerID int64, amountStr string) (*models.Account, error) {
	acct, err := l.store.GetAccount(ctx, playerID)
	if err != nil {
		return nil, err
	}
	amount, err := models.ParseAmount(amountStr, acct.Wallet)
	if err != nil {
		return nil, err
	}

	updated, err := l.store.ApplyDelta(ctx, playerID, -amount, amount)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	l.audit(ctx, playerID, "DEPOSIT", fmt.Sprintf("amount=%d", amount))
	return updated, nil
}

// Withdraw moves money from bank to wallet.
func (l *Ledger) Withdraw(ctx context.Context, playerID int64, amountStr string) (*models.Account, error) {
	acct, err := l.store.GetAccount(ctx, playerID)
	if err != nil {
		return nil, err
	}
	amount, err := models.ParseAmount(amountStr, acct.Bank)
	if err != nil {
		return nil, err
	}

	updated, err := l.store.ApplyDelta(ctx, playerID, amount, -amount)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	l.audit(ctx, playerID, "WITHDRAW", fmt.Sprintf("amount=%d", amount))
	return updated, nil
}

// Pay transfers wallet money between players. The debit happens first so a
// failed debit never leaves the target credited.
func (l *Ledger) Pay(ctx context.Context, fromID, toID int64, amountStr string) (*models.Account, error) {
	if fromID == toID {
		return nil, ErrSelfTarget
	}

	acct, err := l.store.GetAccount(ctx, fromID)
	if err != nil {
		return nil, err
	}
	amount, err := models.ParseAmount(amountStr, acct.Wallet)
	if err != nil {
		return nil, err
	}

	// Target account is touched first so it exists before the credit.
	if _, err := l.store.GetAccount(ctx, toID); err != nil {
		return nil, err
	}

	updated, err := l.store.ApplyDelta(ctx, fromID, -amount, 0)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	target, err := l.store.ApplyDelta(ctx, toID, amount, 0)
	if err != nil {
		// Put the money back rather than vanish it.
		if _, rbErr := l.store.ApplyDelta(ctx, fromID, amount, 0); rbErr != nil {
			log.Printf("pay rollback failed for player %d: %v", fromID, rbErr)
		}
		return nil, err
	}

	l.audit(ctx, fromID, "PAY", fmt.Sprintf("amount=%d to=%d", amount, toID))
	l.notifyBalance(toID, target)
	return updated, nil
}

type DailyResult struct {
	Reward  int64           `json:"reward"`
	Streak  int             `json:"streak"`
	Account *models.Account `json:"account"`
}

// ClaimDaily pays the daily reward once per UTC day. The streak grows while
// claims land on consecutive days and resets otherwise.
func (l *Ledger) ClaimDaily(ctx context.Context, playerID int64) (*DailyResult, error) {
	acct, err := l.store.GetAccount(ctx, playerID)
	if err != nil {
		return nil, err
	}

	now := l.clock.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	if acct.LastClaim > 0 {
		lastDay := time.Unix(acct.LastClaim, 0).UTC().Truncate(24 * time.Hour)
		if lastDay.Equal(today) {
			return nil, ErrDailyClaimed
		}
		if lastDay.Equal(today.AddDate(0, 0, -1)) {
			acct.DailyStreak++
		} else {
			acct.DailyStreak = 1
		}
	} else {
		acct.DailyStreak = 1
	}

	reward := int64(dailyBaseReward + acct.DailyStreak*dailyStreakReward)
	acct.Wallet += reward
	acct.LastClaim = now.Unix()

	if err := l.store.SaveAccount(ctx, acct); err != nil {
		return nil, err
	}

	l.audit(ctx, playerID, "DAILY", fmt.Sprintf("reward=%d streak=%d", reward, acct.DailyStreak))
	return &DailyResult{Reward: reward, Streak: acct.DailyStreak, Account: acct}, nil
}

func (l *Ledger) Leaderboard(ctx context.Context, limit int64) ([]*models.Account, error) {
	return l.store.TopAccounts(ctx, limit)
}

func (l *Ledger) RecentAudit(ctx context.Context, limit int64) ([]*models.AuditEntry, error) {
	return l.store.RecentAudit(ctx, limit)
}

// AddMoney credits a wallet by administrative action.
func (l *Ledger) AddMoney(ctx context.Context, actorID, targetID int64, amountStr string) (*models.Account, error) {
	amount, err := models.ParseAmount(amountStr, -1)
	if err != nil {
		return nil, err
	}
	if _, err := l.store.GetAccount(ctx, targetID); err != nil {
		return nil, err
	}
	updated, err := l.store.ApplyDelta(ctx, targetID, amount, 0)
	if err != nil {
		return nil, err
	}
	l.audit(ctx, actorID, "ADDMONEY", fmt.Sprintf("amount=%d to=%d", amount, targetID))
	l.notifyBalance(targetID, updated)
	return updated, nil
}

// RemoveMoney debits a wallet by administrative action, clamping at zero.
func (l *Ledger) RemoveMoney(ctx context.Context, actorID, targetID int64, amountStr string) (*models.Account, error) {
	acct, err := l.store.GetAccount(ctx, targetID)
	if err != nil {
		return nil, err
	}
	amount, err := models.ParseAmount(amountStr, acct.Wallet)
	if err != nil {
		return nil, err
	}
	if amount > acct.Wallet {
		amount = acct.Wallet
	}
	updated, err := l.store.ApplyDelta(ctx, targetID, -amount, 0)
	if err != nil {
		return nil, err
	}
	l.audit(ctx, actorID, "REMOVEMONEY", fmt.Sprintf("amount=%d from=%d", amount, targetID))
	l.notifyBalance(targetID, updated)
	return updated, nil
}

// ResetEconomy wipes every account and restores seed config values.
func (l *Ledger) ResetEconomy(ctx context.Context, actorID int64) error {
	if err := l.store.ResetEconomy(ctx); err != nil {
		return err
	}
	l.audit(ctx, actorID, "RESET_ECONOMY", "all accounts and stats cleared")
	return nil
}

func (l *Ledger) audit(ctx context.Context, playerID int64, action, details string) {
	entry := models.NewAuditEntry(playerID, action, details, l.clock.Now())
	if err := l.store.AppendAudit(ctx, entry); err != nil {
		log.Printf("audit append failed: %v", err)
	}
}

func (l *Ledger) notifyBalance(playerID int64, acct *models.Account) {
	if acct == nil {
		return
	}
	l.notifier.Publish(Event{
		Type:     EventBalance,
		PlayerID: playerID,
		Data: map[string]any{
			"wallet": acct.Wallet,
			"bank":   acct.Bank,
		},
	})
}
