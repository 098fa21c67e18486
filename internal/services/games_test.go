package services

import (
	"context"
	"errors"
	"testing"
)

func TestCoinflipSettlesBothWays(t *testing.T) {
	rig := newTestRig(t)
	rig.fund(t, 1, 1000)

	outcome, err := rig.engine.Coinflip(context.Background(), 1, "heads", "100")
	if err != nil {
		t.Fatalf("Coinflip: %v", err)
	}

	acct := rig.account(t, 1)
	if outcome.Won {
		// floor(100 * 2 * 0.95) = 190 on top of the 900 after the debit.
		if outcome.Payout != 190 {
			t.Errorf("payout = %d, want 190", outcome.Payout)
		}
		if acct.Wallet != 1090 {
			t.Errorf("wallet = %d, want 1090", acct.Wallet)
		}
		if acct.Wins != 1 || acct.Losses != 0 {
			t.Errorf("stats = %d/%d, want 1/0", acct.Wins, acct.Losses)
		}
	} else {
		if outcome.Payout != 0 {
			t.Errorf("payout = %d, want 0 on a loss", outcome.Payout)
		}
		if acct.Wallet != 900 {
			t.Errorf("wallet = %d, want 900", acct.Wallet)
		}
		if acct.Wins != 0 || acct.Losses != 1 {
			t.Errorf("stats = %d/%d, want 0/1", acct.Wins, acct.Losses)
		}
	}
	if outcome.Wallet != acct.Wallet {
		t.Errorf("outcome wallet %d disagrees with store %d", outcome.Wallet, acct.Wallet)
	}
}

func TestCoinflipRejectsBadSide(t *testing.T) {
	rig := newTestRig(t)
	rig.fund(t, 1, 1000)

	if _, err := rig.engine.Coinflip(context.Background(), 1, "edge", "100"); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("bad side = %v, want ErrInvalidChoice", err)
	}
	if got := rig.wallet(t, 1); got != 1000 {
		t.Errorf("wallet = %d, rejected wager must not debit", got)
	}
}

func TestDiceValidatesTarget(t *testing.T) {
	rig := newTestRig(t)
	rig.fund(t, 1, 1000)

	for _, target := range []int{0, 100, -5} {
		if _, err := rig.engine.Dice(context.Background(), 1, target, "100"); !errors.Is(err, ErrInvalidChoice) {
			t.Errorf("target %d = %v, want ErrInvalidChoice", target, err)
		}
	}
}

func TestDicePaysFairMultiplier(t *testing.T) {
	rig := newTestRig(t)
	rig.fund(t, 1, 1000)

	outcome, err := rig.engine.Dice(context.Background(), 1, 50, "100")
	if err != nil {
		t.Fatalf("Dice: %v", err)
	}

	if outcome.Won {
		// target 50: multiplier 100/50 = 2, floor(100 * 2 * 0.95) = 190.
		if outcome.Payout != 190 {
			t.Errorf("payout = %d, want 190", outcome.Payout)
		}
	} else if outcome.Payout != 0 {
		t.Errorf("payout = %d, want 0 on a loss", outcome.Payout)
	}
	if got := rig.wallet(t, 1); got != 900+outcome.Payout {
		t.Errorf("wallet = %d, want %d", got, 900+outcome.Payout)
	}
}

func TestRouletteSettles(t *testing.T) {
	rig := newTestRig(t)
	rig.fund(t, 1, 1000)

	if _, err := rig.engine.Roulette(context.Background(), 1, "blue", "100"); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("bad color = %v, want ErrInvalidChoice", err)
	}

	outcome, err := rig.engine.Roulette(context.Background(), 1, "red", "100")
	if err != nil {
		t.Fatalf("Roulette: %v", err)
	}
	if outcome.Won {
		if outcome.Payout != 190 {
			t.Errorf("red payout = %d, want 190", outcome.Payout)
		}
	} else if outcome.Payout != 0 {
		t.Errorf("payout = %d, want 0 on a loss", outcome.Payout)
	}
}

func TestSlotsFeedsJackpotAndAccountsPayout(t *testing.T) {
	rig := newTestRig(t)
	rig.fund(t, 1, 1000)
	ctx := context.Background()

	before := rig.house.JackpotPool(ctx)

	outcome, err := rig.engine.Slots(ctx, 1, "100")
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}

	// floor(100 * 0.01) = 1 accrues per spin; a jackpot hit reseeds instead.
	after := rig.house.JackpotPool(ctx)
	if outcome.Jackpot {
		if after != 100000 {
			t.Errorf("pool = %d, want reseeded 100000", after)
		}
	} else if after != before+1 {
		t.Errorf("pool = %d, want %d", after, before+1)
	}

	if got := rig.wallet(t, 1); got != 900+outcome.Payout {
		t.Errorf("wallet = %d, want %d", got, 900+outcome.Payout)
	}
	acct := rig.account(t, 1)
	if acct.Wins+acct.Losses != 1 {
		t.Errorf("stats = %d/%d, want exactly one recorded result", acct.Wins, acct.Losses)
	}
}

func TestGamesApplyHappyHourMultiplier(t *testing.T) {
	rig := newTestRig(t)
	rig.fund(t, 1, 1000)
	rig.hh.setActive(true)

	outcome, err := rig.engine.Coinflip(context.Background(), 1, "heads", "100")
	if err != nil {
		t.Fatalf("Coinflip: %v", err)
	}
	if outcome.Won {
		want := WinPayout(100, 2.0, 1.3, 0.05)
		if outcome.Payout != want {
			t.Errorf("payout = %d, want %d with happy hour", outcome.Payout, want)
		}
		if outcome.Payout <= 190 {
			t.Errorf("payout = %d, happy hour should beat the base 190", outcome.Payout)
		}
	}
}
