package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDuelAcceptSettlesWinnerTakesPot(t *testing.T) {
	rig := newTestRig(t)
	rig.fund(t, 1, 5000)
	rig.fund(t, 2, 5000)

	if _, err := rig.engine.ChallengeDuel(context.Background(), 1, 2, "2000"); err != nil {
		t.Fatalf("ChallengeDuel: %v", err)
	}
	// Nothing moves until accept.
	if got := rig.wallet(t, 1); got != 5000 {
		t.Errorf("challenger wallet = %d, want untouched 5000", got)
	}

	result, err := rig.engine.AcceptDuel(context.Background(), 2)
	if err != nil {
		t.Fatalf("AcceptDuel: %v", err)
	}

	// floor(2000 * 2 * 0.95) = 3800 to the winner, both stakes gone.
	if result.Payout != 3800 {
		t.Errorf("payout = %d, want 3800", result.Payout)
	}
	if result.ChallengerRoll == result.TargetRoll {
		t.Error("rolls tied in a settled duel")
	}

	loserID := int64(1)
	if result.WinnerID == 1 {
		loserID = 2
	}
	if got := rig.wallet(t, result.WinnerID); got != 6800 {
		t.Errorf("winner wallet = %d, want 6800", got)
	}
	if got := rig.wallet(t, loserID); got != 3000 {
		t.Errorf("loser wallet = %d, want 3000", got)
	}
	if acct := rig.account(t, result.WinnerID); acct.Wins != 1 {
		t.Errorf("winner wins = %d, want 1", acct.Wins)
	}
	if acct := rig.account(t, loserID); acct.Losses != 1 {
		t.Errorf("loser losses = %d, want 1", acct.Losses)
	}
}

func TestDuelRollsRerollTies(t *testing.T) {
	seq := []int{50, 50, 50, 50, 30, 70}
	i := 0
	a, b := duelRolls(func() int {
		v := seq[i]
		i++
		return v
	})
	if a != 30 || b != 70 {
		t.Errorf("rolls = %d, %d, want 30, 70 after rerolling ties", a, b)
	}
}

func TestDuelChallengeValidation(t *testing.T) {
	rig := newTestRig(t)
	rig.fund(t, 1, 5000)
	rig.fund(t, 2, 100)
	rig.fund(t, 3, 5000)

	if _, err := rig.engine.ChallengeDuel(context.Background(), 1, 1, "100"); !errors.Is(err, ErrSelfTarget) {
		t.Errorf("self challenge = %v, want ErrSelfTarget", err)
	}
	// Target cannot cover the bet.
	if _, err := rig.engine.ChallengeDuel(context.Background(), 1, 2, "2000"); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("poor target = %v, want ErrInsufficientFunds", err)
	}

	if _, err := rig.engine.ChallengeDuel(context.Background(), 1, 3, "1000"); err != nil {
		t.Fatalf("ChallengeDuel: %v", err)
	}
	// One pending duel per target.
	if _, err := rig.engine.ChallengeDuel(context.Background(), 2, 3, "50"); !errors.Is(err, ErrDuelPending) {
		t.Errorf("second challenge = %v, want ErrDuelPending", err)
	}
}

func TestDuelDeclineLeavesBalances(t *testing.T) {
	rig := newTestRig(t)
	rig.fund(t, 1, 5000)
	rig.fund(t, 2, 5000)

	if _, err := rig.engine.ChallengeDuel(context.Background(), 1, 2, "1000"); err != nil {
		t.Fatalf("ChallengeDuel: %v", err)
	}
	if err := rig.engine.DeclineDuel(context.Background(), 2); err != nil {
		t.Fatalf("DeclineDuel: %v", err)
	}

	if got := rig.wallet(t, 1); got != 5000 {
		t.Errorf("challenger wallet = %d, want 5000", got)
	}
	if got := rig.wallet(t, 2); got != 5000 {
		t.Errorf("target wallet = %d, want 5000", got)
	}
	if err := rig.engine.DeclineDuel(context.Background(), 2); !errors.Is(err, ErrNoDuel) {
		t.Errorf("second decline = %v, want ErrNoDuel", err)
	}
}

func TestDuelExpires(t *testing.T) {
	rig := newTestRig(t)
	rig.fund(t, 1, 5000)
	rig.fund(t, 2, 5000)

	if _, err := rig.engine.ChallengeDuel(context.Background(), 1, 2, "1000"); err != nil {
		t.Fatalf("ChallengeDuel: %v", err)
	}

	rig.clock.Advance(60 * time.Second)
	waitFor(t, func() bool {
		_, pending := rig.engine.PendingDuel(2)
		return !pending
	})

	if _, err := rig.engine.AcceptDuel(context.Background(), 2); !errors.Is(err, ErrNoDuel) {
		t.Errorf("accept after expiry = %v, want ErrNoDuel", err)
	}
	if got := rig.wallet(t, 1); got != 5000 {
		t.Errorf("challenger wallet = %d, want 5000 after expiry", got)
	}
}

func TestDuelAcceptRechecksFundsAndDiscards(t *testing.T) {
	rig := newTestRig(t)
	rig.fund(t, 1, 5000)
	rig.fund(t, 2, 5000)

	if _, err := rig.engine.ChallengeDuel(context.Background(), 1, 2, "2000"); err != nil {
		t.Fatalf("ChallengeDuel: %v", err)
	}

	// Target spends down before accepting.
	rig.fund(t, 2, 500)

	if _, err := rig.engine.AcceptDuel(context.Background(), 2); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("accept = %v, want ErrInsufficientFunds", err)
	}
	// The failed accept consumed the challenge.
	if _, err := rig.engine.AcceptDuel(context.Background(), 2); !errors.Is(err, ErrNoDuel) {
		t.Errorf("retry accept = %v, want ErrNoDuel", err)
	}
	// Nobody paid.
	if got := rig.wallet(t, 1); got != 5000 {
		t.Errorf("challenger wallet = %d, want 5000", got)
	}
	if got := rig.wallet(t, 2); got != 500 {
		t.Errorf("target wallet = %d, want 500", got)
	}

	// Both sides hear the duel was dropped, the challenger included.
	dropped := rig.notifier.ofType(EventDuelExpired)
	if len(dropped) != 2 {
		t.Fatalf("discard events = %d, want one per party", len(dropped))
	}
	got := map[int64]bool{}
	for _, ev := range dropped {
		got[ev.PlayerID] = true
		if ev.Data["reason"] != "insufficient_funds" {
			t.Errorf("reason = %v, want insufficient_funds", ev.Data["reason"])
		}
	}
	if !got[1] || !got[2] {
		t.Errorf("discard notified players %v, want both 1 and 2", got)
	}
}
