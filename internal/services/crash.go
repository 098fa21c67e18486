package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"chat-casino-backend/internal/store"
)

const (
	CrashWaiting = "waiting"
	CrashRunning = "running"
	CrashCrashed = "crashed"
)

// CrashSession is one shared multiplier round for a scope. Players join with
// a debited bet during the waiting window, then race to cash out before the
// pre-drawn crash point.
type CrashSession struct {
	mu sync.Mutex

	Scope string

	stage      string
	settled    bool
	multiplier float64
	crashPoint float64

	players   map[int64]int64   // active player -> bet
	bets      map[int64]int64   // every join, for display
	cashedOut map[int64]float64 // player -> exit multiplier

	cancel context.CancelFunc
}

// HasPlayer reports whether the player is still riding the round.
func (s *CrashSession) HasPlayer(playerID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.players[playerID]
	return ok
}

type CrashView struct {
	Scope      string             `json:"scope"`
	Stage      string             `json:"stage"`
	Multiplier float64            `json:"multiplier"`
	Players    map[string]int64   `json:"players"`
	Bets       map[string]int64   `json:"bets"`
	CashedOut  map[string]float64 `json:"cashed_out"`
}

func (s *CrashSession) view() *CrashView {
	v := &CrashView{
		Scope:      s.Scope,
		Stage:      s.stage,
		Multiplier: s.multiplier,
		Players:    make(map[string]int64, len(s.players)),
		Bets:       make(map[string]int64, len(s.bets)),
		CashedOut:  make(map[string]float64, len(s.cashedOut)),
	}
	for id, bet := range s.players {
		v.Players[fmt.Sprintf("%d", id)] = bet
	}
	for id, bet := range s.bets {
		v.Bets[fmt.Sprintf("%d", id)] = bet
	}
	for id, m := range s.cashedOut {
		v.CashedOut[fmt.Sprintf("%d", id)] = m
	}
	return v
}

// JoinCrash puts the player into the scope's round, creating the round if the
// scope has none. The bet is debited on join and is only recovered by cashing
// out in time.
func (e *Engine) JoinCrash(ctx context.Context, playerID int64, scope, amountStr string) (*CrashView, error) {
	if e.registry.PlayerInBlackjack(playerID) {
		return nil, ErrSessionConflict
	}

	bet, err := e.validateBet(ctx, playerID, amountStr)
	if err != nil {
		return nil, err
	}

	session, ok := e.registry.CrashFor(scope)
	if !ok {
		session = e.newCrashSession(scope)
		if err := e.registry.ReserveCrash(scope, session); err != nil {
			// Lost the race; ride the round that won.
			session.cancel()
			session, ok = e.registry.CrashFor(scope)
			if !ok {
				return nil, ErrSessionConflict
			}
		} else {
			runCtx, cancel := context.WithCancel(context.Background())
			session.cancel = cancel
			go e.runCrash(runCtx, session)
		}
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.stage != CrashWaiting {
		return nil, ErrCrashInProgress
	}
	if _, joined := session.players[playerID]; joined {
		return nil, ErrAlreadyJoined
	}
	if _, joined := session.cashedOut[playerID]; joined {
		return nil, ErrAlreadyJoined
	}

	acct, err := e.store.ApplyDelta(ctx, playerID, -bet, 0)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}
	session.players[playerID] = bet
	session.bets[playerID] = bet

	e.notifyBalance(playerID, acct)
	e.audit(ctx, playerID, "CRASH_BET", fmt.Sprintf("bet=%d scope=%s", bet, scope))
	e.publishCrashStage(scope, session.stage)
	return session.view(), nil
}

// CashOutCrash exits the round at the current multiplier. Only valid while
// the round is running and only once per player.
func (e *Engine) CashOutCrash(ctx context.Context, playerID int64, scope string) (int64, float64, error) {
	session, ok := e.registry.CrashFor(scope)
	if !ok {
		return 0, 0, ErrNoSession
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.stage != CrashRunning {
		return 0, 0, ErrNotRunning
	}
	bet, riding := session.players[playerID]
	if !riding {
		return 0, 0, ErrNoSession
	}

	m := session.multiplier
	delete(session.players, playerID)
	session.cashedOut[playerID] = m

	payout := WinPayout(bet, m, e.happyHour.Multiplier(), e.house.Edge(ctx))
	acct, err := e.store.ApplyDelta(ctx, playerID, payout, 0)
	if err != nil {
		return 0, 0, err
	}
	if err := e.store.IncrStats(ctx, playerID, 1, 0); err != nil {
		return 0, 0, err
	}

	e.notifyBalance(playerID, acct)
	e.audit(ctx, playerID, "CRASH_CASHOUT",
		fmt.Sprintf("scope=%s multiplier=%.2f payout=%d", scope, m, payout))
	return payout, m, nil
}

// CrashState returns the live round view for a scope.
func (e *Engine) CrashState(scope string) (*CrashView, error) {
	session, ok := e.registry.CrashFor(scope)
	if !ok {
		return nil, ErrNoSession
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.view(), nil
}

func (e *Engine) newCrashSession(scope string) *CrashSession {
	return &CrashSession{
		Scope:      scope,
		stage:      CrashWaiting,
		multiplier: 1.0,
		crashPoint: e.drawCrashPoint(),
		players:    make(map[int64]int64),
		bets:       make(map[int64]int64),
		cashedOut:  make(map[int64]float64),
		cancel:     func() {},
	}
}

// drawCrashPoint samples the round's bust multiplier. Heavy-tailed with a
// floor just above 1x, so most rounds die early and a few run long.
func (e *Engine) drawCrashPoint() float64 {
	return 1/math.Max(0.01, e.expFloat64())*2.0 + 1.01
}

// runCrash drives one round: a join window, then the tick loop until the
// multiplier reaches the crash point. Runs on its own goroutine.
func (e *Engine) runCrash(ctx context.Context, session *CrashSession) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("crash round for scope %s panicked: %v", session.Scope, r)
			e.finishCrash(session, true)
		}
	}()

	select {
	case <-ctx.Done():
		e.finishCrash(session, true)
		return
	case <-e.clock.After(e.joinWindow):
	}

	session.mu.Lock()
	if len(session.players) == 0 {
		session.mu.Unlock()
		// Nobody showed up; fold the round quietly.
		e.finishCrash(session, true)
		return
	}
	session.stage = CrashRunning
	session.mu.Unlock()
	e.publishCrashStage(session.Scope, CrashRunning)

	for {
		session.mu.Lock()
		delay := crashTickDelay(session.multiplier)
		session.mu.Unlock()

		select {
		case <-ctx.Done():
			e.finishCrash(session, true)
			return
		case <-e.clock.After(delay):
		}

		session.mu.Lock()
		session.multiplier += 0.01 + session.multiplier*0.02
		crashed := session.multiplier >= session.crashPoint
		if crashed {
			// Flip the stage in the same critical section as the increment
			// so no cash-out can land at a multiplier past the crash point.
			session.stage = CrashCrashed
		}
		m := session.multiplier
		session.mu.Unlock()

		if crashed {
			e.finishCrash(session, false)
			return
		}
		e.notifier.Publish(Event{
			Type:  EventCrashTick,
			Scope: session.Scope,
			Data:  map[string]any{"multiplier": m},
		})
	}
}

// crashTickDelay shortens ticks as the multiplier climbs, floored at 50ms.
func crashTickDelay(m float64) time.Duration {
	millis := math.Max(50, 500/(m*0.5+1))
	return time.Duration(millis) * time.Millisecond
}

// finishCrash transitions the round to crashed exactly once, books losses
// for anyone still riding and frees the scope. Cancelled rounds skip the
// loss pass; their debits stand.
func (e *Engine) finishCrash(session *CrashSession, cancelled bool) {
	session.mu.Lock()
	if session.settled {
		session.mu.Unlock()
		return
	}
	session.settled = true
	session.stage = CrashCrashed
	remaining := make([]int64, 0, len(session.players))
	for id := range session.players {
		remaining = append(remaining, id)
	}
	point := session.crashPoint
	session.mu.Unlock()

	session.cancel()
	e.registry.ReleaseCrash(session.Scope)

	if !cancelled {
		ctx := context.Background()
		for _, playerID := range remaining {
			if err := e.store.IncrStats(ctx, playerID, 0, 1); err != nil {
				log.Printf("crash loss stat failed for player %d: %v", playerID, err)
			}
			e.audit(ctx, playerID, "CRASH_LOSS",
				fmt.Sprintf("scope=%s point=%.2f", session.Scope, point))
		}
	}
	e.publishCrashStage(session.Scope, CrashCrashed)
}

func (e *Engine) publishCrashStage(scope, stage string) {
	e.notifier.Publish(Event{
		Type:  EventCrashStage,
		Scope: scope,
		Data:  map[string]any{"stage": stage},
	})
}
