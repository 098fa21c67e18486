package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"chat-casino-backend/internal/store"
)

// Duel is a pending challenge: nothing is debited until the target accepts,
// so both wallets are re-checked at accept time.
type Duel struct {
	ChallengerID int64
	TargetID     int64
	Bet          int64
	CreatedAt    time.Time

	done chan struct{}
}

type DuelResult struct {
	ChallengerID   int64 `json:"challenger_id"`
	TargetID       int64 `json:"target_id"`
	Bet            int64 `json:"bet"`
	ChallengerRoll int   `json:"challenger_roll"`
	TargetRoll     int   `json:"target_roll"`
	WinnerID       int64 `json:"winner_id"`
	Payout         int64 `json:"payout"`
}

// ChallengeDuel proposes a duel. Both parties must be able to cover the bet
// right now, but the wallets are left alone until accept.
func (e *Engine) ChallengeDuel(ctx context.Context, challengerID, targetID int64, amountStr string) (*Duel, error) {
	if challengerID == targetID {
		return nil, ErrSelfTarget
	}

	bet, err := e.validateBet(ctx, challengerID, amountStr)
	if err != nil {
		return nil, err
	}

	target, err := e.store.GetAccount(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Wallet < bet {
		return nil, ErrInsufficientFunds
	}

	duel := &Duel{
		ChallengerID: challengerID,
		TargetID:     targetID,
		Bet:          bet,
		CreatedAt:    e.clock.Now(),
		done:         make(chan struct{}),
	}
	if err := e.registry.ReserveDuel(targetID, duel); err != nil {
		return nil, err
	}

	go e.expireDuel(duel)

	e.audit(ctx, challengerID, "DUEL_CHALLENGE", fmt.Sprintf("target=%d bet=%d", targetID, bet))
	e.notifier.Publish(Event{
		Type:     EventDuelChallenge,
		PlayerID: targetID,
		Data: map[string]any{
			"challenger_id": challengerID,
			"bet":           bet,
		},
	})
	return duel, nil
}

// AcceptDuel settles a pending duel. The duel is taken out of the registry
// before any funds check, so a failed re-check discards the challenge rather
// than leaving it pending.
func (e *Engine) AcceptDuel(ctx context.Context, targetID int64) (*DuelResult, error) {
	duel, ok := e.registry.TakeDuel(targetID)
	if !ok {
		return nil, ErrNoDuel
	}
	close(duel.done)

	challenger, err := e.store.GetAccount(ctx, duel.ChallengerID)
	if err != nil {
		return nil, err
	}
	target, err := e.store.GetAccount(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if challenger.Wallet < duel.Bet || target.Wallet < duel.Bet {
		e.notifyDuelDiscarded(duel, "insufficient_funds")
		return nil, ErrInsufficientFunds
	}

	if _, err := e.store.ApplyDelta(ctx, duel.ChallengerID, -duel.Bet, 0); err != nil {
		e.notifyDuelDiscarded(duel, "insufficient_funds")
		if errors.Is(err, store.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}
	if _, err := e.store.ApplyDelta(ctx, targetID, -duel.Bet, 0); err != nil {
		// Undo the challenger debit so the failed accept costs nobody.
		if _, rbErr := e.store.ApplyDelta(ctx, duel.ChallengerID, duel.Bet, 0); rbErr != nil {
			log.Printf("duel rollback failed for player %d: %v", duel.ChallengerID, rbErr)
		}
		e.notifyDuelDiscarded(duel, "insufficient_funds")
		if errors.Is(err, store.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	challengerRoll, targetRoll := duelRolls(func() int { return e.intn(100) + 1 })

	winnerID, loserID := duel.ChallengerID, targetID
	if targetRoll > challengerRoll {
		winnerID, loserID = targetID, duel.ChallengerID
	}

	// Winner takes both stakes minus the house cut. Happy hour never touches
	// player-versus-player pots.
	payout := WinPayout(duel.Bet*2, 1.0, 1.0, e.house.Edge(ctx))

	winner, err := e.store.ApplyDelta(ctx, winnerID, payout, 0)
	if err != nil {
		return nil, err
	}
	if err := e.store.IncrStats(ctx, winnerID, 1, 0); err != nil {
		return nil, err
	}
	if err := e.store.IncrStats(ctx, loserID, 0, 1); err != nil {
		return nil, err
	}

	result := &DuelResult{
		ChallengerID:   duel.ChallengerID,
		TargetID:       targetID,
		Bet:            duel.Bet,
		ChallengerRoll: challengerRoll,
		TargetRoll:     targetRoll,
		WinnerID:       winnerID,
		Payout:         payout,
	}

	e.notifyBalance(winnerID, winner)
	e.audit(ctx, winnerID, "DUEL_WIN",
		fmt.Sprintf("opponent=%d bet=%d payout=%d rolls=%d:%d", loserID, duel.Bet, payout, challengerRoll, targetRoll))
	for _, id := range []int64{duel.ChallengerID, targetID} {
		e.notifier.Publish(Event{
			Type:     EventDuelResult,
			PlayerID: id,
			Data: map[string]any{
				"winner_id":       winnerID,
				"challenger_roll": challengerRoll,
				"target_roll":     targetRoll,
				"payout":          payout,
			},
		})
	}
	return result, nil
}

// DeclineDuel drops the pending challenge. No balance changes.
func (e *Engine) DeclineDuel(ctx context.Context, targetID int64) error {
	duel, ok := e.registry.TakeDuel(targetID)
	if !ok {
		return ErrNoDuel
	}
	close(duel.done)

	e.audit(ctx, targetID, "DUEL_DECLINE", fmt.Sprintf("challenger=%d bet=%d", duel.ChallengerID, duel.Bet))
	e.notifier.Publish(Event{
		Type:     EventDuelExpired,
		PlayerID: duel.ChallengerID,
		Data:     map[string]any{"target_id": targetID, "reason": "declined"},
	})
	return nil
}

// PendingDuel returns the target's open challenge, if any.
func (e *Engine) PendingDuel(targetID int64) (*Duel, bool) {
	return e.registry.DuelFor(targetID)
}

// expireDuel drops the challenge after the timeout unless it was already
// accepted or declined.
func (e *Engine) expireDuel(duel *Duel) {
	select {
	case <-duel.done:
		return
	case <-e.clock.After(e.duelTimeout):
	}

	if !e.registry.TakeDuelIf(duel.TargetID, duel) {
		return
	}
	for _, id := range []int64{duel.ChallengerID, duel.TargetID} {
		e.notifier.Publish(Event{
			Type:     EventDuelExpired,
			PlayerID: id,
			Data:     map[string]any{"reason": "timeout"},
		})
	}
}

// notifyDuelDiscarded tells both parties their duel was dropped. A failed
// accept already removed it from the registry, so without this the
// challenger would never learn the challenge is gone.
func (e *Engine) notifyDuelDiscarded(duel *Duel, reason string) {
	for _, id := range []int64{duel.ChallengerID, duel.TargetID} {
		e.notifier.Publish(Event{
			Type:     EventDuelExpired,
			PlayerID: id,
			Data:     map[string]any{"reason": reason},
		})
	}
}

// duelRolls draws a 1-100 roll per side, rerolling until they differ.
func duelRolls(roll func() int) (int, int) {
	for {
		a, b := roll(), roll()
		if a != b {
			return a, b
		}
	}
}
