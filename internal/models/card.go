package models

import "math/rand"

var Suits = []string{"♥", "♦", "♣", "♠"}

var Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

var rankValues = map[string]int{
	"A": 11, "2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7,
	"8": 8, "9": 9, "10": 10, "J": 10, "Q": 10, "K": 10,
}

type Card struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

func (c Card) String() string {
	return c.Rank + c.Suit
}

// Deck is an ordered set of 52 unique cards. Dealing removes from the end;
// a deck is never reshuffled once play has started.
type Deck struct {
	cards []Card
}

// NewDeck builds a full 52-card deck permuted with r.
func NewDeck(r *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards = append(d.cards, Card{Suit: suit, Rank: rank})
		}
	}
	r.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	return d
}

// StackedDeck builds a deck that deals the given cards in order. Test hook.
func StackedDeck(cards ...Card) *Deck {
	reversed := make([]Card, len(cards))
	for i, c := range cards {
		reversed[len(cards)-1-i] = c
	}
	return &Deck{cards: reversed}
}

// Deal removes and returns the top card. ok is false on an exhausted deck,
// which is unreachable for blackjack hand sizes but defined anyway.
func (d *Deck) Deal() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, true
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}

// HandScore totals a blackjack hand. Aces count 11, then drop to 1 one at a
// time while the hand would bust.
func HandScore(hand []Card) int {
	score := 0
	aces := 0
	for _, c := range hand {
		score += rankValues[c.Rank]
		if c.Rank == "A" {
			aces++
		}
	}
	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}
	return score
}

// HandStrings renders a hand for clients.
func HandStrings(hand []Card) []string {
	out := make([]string, len(hand))
	for i, c := range hand {
		out[i] = c.String()
	}
	return out
}
