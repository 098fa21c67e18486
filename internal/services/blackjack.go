package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"chat-casino-backend/internal/models"
	"chat-casino-backend/internal/store"
)

const (
	BlackjackPlayerTurn = "player_turn"
	BlackjackDealerTurn = "dealer_turn"
	BlackjackSettled    = "settled"
)

const (
	blackjackWinMult     = 2.0
	blackjackNaturalMult = 2.5
	dealerStandScore     = 17
)

// BlackjackSession is one player's hand against the dealer. All transitions
// happen under mu; the session is removed from the registry the moment it
// settles.
type BlackjackSession struct {
	mu sync.Mutex

	ID       string
	PlayerID int64
	Bet      int64

	deck       *models.Deck
	playerHand []models.Card
	dealerHand []models.Card
	state      string
}

// BlackjackView is the client-facing snapshot. The dealer's hole card stays
// hidden until the player's turn ends.
type BlackjackView struct {
	SessionID   string   `json:"session_id"`
	State       string   `json:"state"`
	Bet         int64    `json:"bet"`
	PlayerHand  []string `json:"player_hand"`
	PlayerScore int      `json:"player_score"`
	DealerHand  []string `json:"dealer_hand"`
	DealerScore int      `json:"dealer_score,omitempty"`
	Result      string   `json:"result,omitempty"`
	Payout      int64    `json:"payout,omitempty"`
}

func (s *BlackjackSession) view() *BlackjackView {
	v := &BlackjackView{
		SessionID:   s.ID,
		State:       s.state,
		Bet:         s.Bet,
		PlayerHand:  models.HandStrings(s.playerHand),
		PlayerScore: models.HandScore(s.playerHand),
	}
	if s.state == BlackjackPlayerTurn {
		// Upcard only.
		v.DealerHand = []string{s.dealerHand[0].String(), "??"}
	} else {
		v.DealerHand = models.HandStrings(s.dealerHand)
		v.DealerScore = models.HandScore(s.dealerHand)
	}
	return v
}

// StartBlackjack debits the wager, deals the opening hands and either hands
// control to the player or settles a natural on the spot.
func (e *Engine) StartBlackjack(ctx context.Context, playerID int64, amountStr string) (*BlackjackView, error) {
	bet, err := e.validateBet(ctx, playerID, amountStr)
	if err != nil {
		return nil, err
	}

	session := &BlackjackSession{
		ID:       fmt.Sprintf("bj_%s", strings.ReplaceAll(uuid.New().String(), "-", "")[:12]),
		PlayerID: playerID,
		Bet:      bet,
		state:    BlackjackPlayerTurn,
	}
	if err := e.registry.ReserveBlackjack(playerID, session); err != nil {
		return nil, err
	}

	// Debit before any card is seen.
	acct, err := e.store.ApplyDelta(ctx, playerID, -bet, 0)
	if err != nil {
		e.registry.ReleaseBlackjack(playerID)
		if errors.Is(err, store.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}
	e.notifyBalance(playerID, acct)
	e.audit(ctx, playerID, "BLACKJACK_BET", fmt.Sprintf("bet=%d session=%s", bet, session.ID))

	session.mu.Lock()
	defer session.mu.Unlock()

	session.deck = e.newDeck()
	session.playerHand = dealCards(session.deck, 2)
	session.dealerHand = dealCards(session.deck, 2)

	if models.HandScore(session.playerHand) == 21 {
		return e.settleBlackjack(ctx, session, true)
	}

	e.publishBlackjack(session)
	return session.view(), nil
}

// Hit deals the player one card. A bust settles the hand; hitting to exactly
// 21 stands automatically.
func (e *Engine) Hit(ctx context.Context, playerID int64) (*BlackjackView, error) {
	session, ok := e.registry.BlackjackFor(playerID)
	if !ok {
		return nil, ErrNoSession
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.state != BlackjackPlayerTurn {
		return nil, ErrNotRunning
	}

	card, _ := session.deck.Deal()
	session.playerHand = append(session.playerHand, card)

	score := models.HandScore(session.playerHand)
	if score > 21 {
		return e.settleBlackjack(ctx, session, false)
	}
	if score == 21 {
		return e.playDealer(ctx, session)
	}

	e.publishBlackjack(session)
	return session.view(), nil
}

// Stand ends the player's turn and runs the dealer.
func (e *Engine) Stand(ctx context.Context, playerID int64) (*BlackjackView, error) {
	session, ok := e.registry.BlackjackFor(playerID)
	if !ok {
		return nil, ErrNoSession
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.state != BlackjackPlayerTurn {
		return nil, ErrNotRunning
	}
	return e.playDealer(ctx, session)
}

// BlackjackState returns the live hand view, or ErrNoSession.
func (e *Engine) BlackjackState(playerID int64) (*BlackjackView, error) {
	session, ok := e.registry.BlackjackFor(playerID)
	if !ok {
		return nil, ErrNoSession
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.view(), nil
}

// playDealer draws for the dealer until 17 or more, emitting a session event
// per draw, then settles. Caller holds session.mu.
func (e *Engine) playDealer(ctx context.Context, session *BlackjackSession) (*BlackjackView, error) {
	session.state = BlackjackDealerTurn
	e.publishBlackjack(session)

	for models.HandScore(session.dealerHand) < dealerStandScore {
		card, _ := session.deck.Deal()
		session.dealerHand = append(session.dealerHand, card)
		e.publishBlackjack(session)
	}
	return e.settleBlackjack(ctx, session, false)
}

// settleBlackjack resolves the hand, pays out, records stats and frees the
// player's slot. Caller holds session.mu.
func (e *Engine) settleBlackjack(ctx context.Context, session *BlackjackSession, natural bool) (*BlackjackView, error) {
	session.state = BlackjackSettled
	e.registry.ReleaseBlackjack(session.PlayerID)

	playerScore := models.HandScore(session.playerHand)
	dealerScore := models.HandScore(session.dealerHand)

	var (
		result string
		payout int64
	)
	switch {
	case natural:
		// A natural pays out immediately, before the dealer plays.
		result = "blackjack"
	case playerScore > 21:
		result = "bust"
	case dealerScore > 21 || playerScore > dealerScore:
		result = "win"
	case playerScore == dealerScore:
		result = "push"
	default:
		result = "lose"
	}

	switch result {
	case "blackjack", "win":
		mult := blackjackWinMult
		if result == "blackjack" {
			mult = blackjackNaturalMult
		}
		payout = WinPayout(session.Bet, mult, e.happyHour.Multiplier(), e.house.Edge(ctx))
		acct, err := e.store.ApplyDelta(ctx, session.PlayerID, payout, 0)
		if err != nil {
			return nil, err
		}
		if err := e.store.IncrStats(ctx, session.PlayerID, 1, 0); err != nil {
			return nil, err
		}
		e.notifyBalance(session.PlayerID, acct)
	case "push":
		// Wager back, no win or loss recorded.
		payout = session.Bet
		acct, err := e.store.ApplyDelta(ctx, session.PlayerID, session.Bet, 0)
		if err != nil {
			return nil, err
		}
		e.notifyBalance(session.PlayerID, acct)
	default:
		if err := e.store.IncrStats(ctx, session.PlayerID, 0, 1); err != nil {
			return nil, err
		}
	}

	e.audit(ctx, session.PlayerID, "BLACKJACK_SETTLE",
		fmt.Sprintf("session=%s result=%s payout=%d", session.ID, result, payout))

	view := session.view()
	view.Result = result
	view.Payout = payout

	e.notifier.Publish(Event{
		Type:     EventBlackjackUpdate,
		PlayerID: session.PlayerID,
		Data: map[string]any{
			"session_id": session.ID,
			"state":      session.state,
			"result":     result,
			"payout":     payout,
		},
	})
	return view, nil
}

// publishBlackjack pushes the current hand state to the player. Caller holds
// session.mu.
func (e *Engine) publishBlackjack(session *BlackjackSession) {
	v := session.view()
	e.notifier.Publish(Event{
		Type:     EventBlackjackUpdate,
		PlayerID: session.PlayerID,
		Data: map[string]any{
			"session_id":   v.SessionID,
			"state":        v.State,
			"player_hand":  v.PlayerHand,
			"player_score": v.PlayerScore,
			"dealer_hand":  v.DealerHand,
		},
	})
}

func dealCards(d *models.Deck, n int) []models.Card {
	hand := make([]models.Card, 0, n)
	for i := 0; i < n; i++ {
		c, _ := d.Deal()
		hand = append(hand, c)
	}
	return hand
}
