package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chat-casino-backend/internal/store"
)

// GameOutcome is the settled result of a one-shot wager.
type GameOutcome struct {
	Game    string `json:"game"`
	Bet     int64  `json:"bet"`
	Won     bool   `json:"won"`
	Payout  int64  `json:"payout"`
	Detail  string `json:"detail"`
	Jackpot bool   `json:"jackpot,omitempty"`
	Wallet  int64  `json:"wallet"`
}

var rouletteReds = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true,
	16: true, 18: true, 19: true, 21: true, 23: true, 25: true, 27: true,
	30: true, 32: true, 34: true, 36: true,
}

type slotSymbol struct {
	face   string
	weight int
	mult   float64
}

// 💰 pays the jackpot pool instead of a fixed multiplier.
var slotReel = []slotSymbol{
	{"🍒", 10, 3.0},
	{"🍋", 10, 3.0},
	{"🍉", 8, 5.0},
	{"⭐", 5, 10.0},
	{"💎", 3, 25.0},
	{"💰", 1, 0},
}

// Coinflip pays 2x on a correct call.
func (e *Engine) Coinflip(ctx context.Context, playerID int64, side, amountStr string) (*GameOutcome, error) {
	if side != "heads" && side != "tails" {
		return nil, fmt.Errorf("%w: side must be heads or tails", ErrInvalidChoice)
	}

	bet, err := e.takeBet(ctx, playerID, amountStr, "COINFLIP")
	if err != nil {
		return nil, err
	}

	landed := "tails"
	if e.intn(2) == 0 {
		landed = "heads"
	}
	won := landed == side

	var payout int64
	if won {
		payout = WinPayout(bet, 2.0, e.happyHour.Multiplier(), e.house.Edge(ctx))
	}
	return e.settleGame(ctx, playerID, "coinflip", bet, payout, won, "landed "+landed)
}

// Dice wins when a 1-100 roll beats the target, paying the fair multiplier
// 100/(100-target) before the house cut.
func (e *Engine) Dice(ctx context.Context, playerID int64, target int, amountStr string) (*GameOutcome, error) {
	if target < 1 || target > 99 {
		return nil, fmt.Errorf("%w: target must be 1-99", ErrInvalidChoice)
	}

	bet, err := e.takeBet(ctx, playerID, amountStr, "DICE")
	if err != nil {
		return nil, err
	}

	roll := e.intn(100) + 1
	won := roll > target

	var payout int64
	if won {
		mult := 100.0 / float64(100-target)
		payout = WinPayout(bet, mult, e.happyHour.Multiplier(), e.house.Edge(ctx))
	}
	return e.settleGame(ctx, playerID, "dice", bet, payout, won,
		fmt.Sprintf("rolled %d over %d", roll, target))
}

// Roulette spins a 0-36 wheel. Red and black pay 2x, green (the zero) 14x.
func (e *Engine) Roulette(ctx context.Context, playerID int64, color, amountStr string) (*GameOutcome, error) {
	if color != "red" && color != "black" && color != "green" {
		return nil, fmt.Errorf("%w: color must be red, black or green", ErrInvalidChoice)
	}

	bet, err := e.takeBet(ctx, playerID, amountStr, "ROULETTE")
	if err != nil {
		return nil, err
	}

	pocket := e.intn(37)
	landed := "black"
	if pocket == 0 {
		landed = "green"
	} else if rouletteReds[pocket] {
		landed = "red"
	}
	won := landed == color

	var payout int64
	if won {
		mult := 2.0
		if landed == "green" {
			mult = 14.0
		}
		payout = WinPayout(bet, mult, e.happyHour.Multiplier(), e.house.Edge(ctx))
	}
	return e.settleGame(ctx, playerID, "roulette", bet, payout, won,
		fmt.Sprintf("landed %d (%s)", pocket, landed))
}

// Slots spins three weighted reels. Every spin feeds the jackpot pool; a
// triple money bag empties it.
func (e *Engine) Slots(ctx context.Context, playerID int64, amountStr string) (*GameOutcome, error) {
	bet, err := e.takeBet(ctx, playerID, amountStr, "SLOTS")
	if err != nil {
		return nil, err
	}

	if _, err := e.house.ContributeJackpot(ctx, bet); err != nil {
		return nil, err
	}

	reels := [3]slotSymbol{e.spinReel(), e.spinReel(), e.spinReel()}
	detail := reels[0].face + reels[1].face + reels[2].face

	triple := reels[0].face == reels[1].face && reels[1].face == reels[2].face
	pair := !triple && (reels[0].face == reels[1].face ||
		reels[1].face == reels[2].face || reels[0].face == reels[2].face)

	switch {
	case triple && reels[0].face == "💰":
		pot, err := e.house.PayJackpot(ctx)
		if err != nil {
			return nil, err
		}
		outcome, err := e.settleGame(ctx, playerID, "slots", bet, pot, true, detail+" JACKPOT")
		if err != nil {
			return nil, err
		}
		outcome.Jackpot = true
		return outcome, nil
	case triple:
		payout := WinPayout(bet, reels[0].mult, e.happyHour.Multiplier(), e.house.Edge(ctx))
		return e.settleGame(ctx, playerID, "slots", bet, payout, true, detail)
	case pair:
		// Half back, still a recorded loss.
		return e.settleGame(ctx, playerID, "slots", bet, bet/2, false, detail)
	default:
		return e.settleGame(ctx, playerID, "slots", bet, 0, false, detail)
	}
}

func (e *Engine) spinReel() slotSymbol {
	total := 0
	for _, s := range slotReel {
		total += s.weight
	}
	n := e.intn(total)
	for _, s := range slotReel {
		n -= s.weight
		if n < 0 {
			return s
		}
	}
	return slotReel[len(slotReel)-1]
}

// takeBet validates and debits a one-shot wager before any randomness runs.
func (e *Engine) takeBet(ctx context.Context, playerID int64, amountStr, action string) (int64, error) {
	bet, err := e.validateBet(ctx, playerID, amountStr)
	if err != nil {
		return 0, err
	}
	acct, err := e.store.ApplyDelta(ctx, playerID, -bet, 0)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			return 0, ErrInsufficientFunds
		}
		return 0, err
	}
	e.notifyBalance(playerID, acct)
	e.audit(ctx, playerID, action+"_BET", fmt.Sprintf("bet=%d", bet))
	return bet, nil
}

// settleGame credits a payout (zero on a clean loss), books one win or loss
// and reports the final wallet.
func (e *Engine) settleGame(ctx context.Context, playerID int64, game string, bet, payout int64, won bool, detail string) (*GameOutcome, error) {
	acct, err := e.store.GetAccount(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if payout > 0 {
		acct, err = e.store.ApplyDelta(ctx, playerID, payout, 0)
		if err != nil {
			return nil, err
		}
		e.notifyBalance(playerID, acct)
	}

	wins, losses := int64(0), int64(1)
	if won {
		wins, losses = 1, 0
	}
	if err := e.store.IncrStats(ctx, playerID, wins, losses); err != nil {
		return nil, err
	}

	e.audit(ctx, playerID, strings.ToUpper(game)+"_SETTLE",
		fmt.Sprintf("bet=%d payout=%d won=%t %s", bet, payout, won, detail))

	return &GameOutcome{
		Game:   game,
		Bet:    bet,
		Won:    won,
		Payout: payout,
		Detail: detail,
		Wallet: acct.Wallet,
	}, nil
}
