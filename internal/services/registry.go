package services

import "sync"

// Registry tracks which player or scope owns which live session and enforces
// the one-session invariants at the entry of every session-starting
// operation. A slot is always released on settlement or cancellation.
type Registry struct {
	mu        sync.Mutex
	blackjack map[int64]*BlackjackSession
	crash     map[string]*CrashSession
	duels     map[int64]*Duel
}

func NewRegistry() *Registry {
	return &Registry{
		blackjack: make(map[int64]*BlackjackSession),
		crash:     make(map[string]*CrashSession),
		duels:     make(map[int64]*Duel),
	}
}

// ReserveBlackjack claims the player's blackjack slot. Rejected when the
// player already has a hand in progress or is riding a crash round; the two
// game classes are mutually exclusive.
func (r *Registry) ReserveBlackjack(playerID int64, s *BlackjackSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.blackjack[playerID]; ok {
		return ErrSessionConflict
	}
	for _, cs := range r.crash {
		if cs.HasPlayer(playerID) {
			return ErrSessionConflict
		}
	}
	r.blackjack[playerID] = s
	return nil
}

func (r *Registry) BlackjackFor(playerID int64) (*BlackjackSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.blackjack[playerID]
	return s, ok
}

func (r *Registry) ReleaseBlackjack(playerID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blackjack, playerID)
}

// PlayerInBlackjack reports whether the player has a live hand. Used to keep
// blackjack players out of crash rounds.
func (r *Registry) PlayerInBlackjack(playerID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.blackjack[playerID]
	return ok
}

// ReserveCrash claims the scope's crash slot; only one round may be live per
// scope.
func (r *Registry) ReserveCrash(scope string, s *CrashSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.crash[scope]; ok {
		return ErrSessionConflict
	}
	r.crash[scope] = s
	return nil
}

func (r *Registry) CrashFor(scope string) (*CrashSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.crash[scope]
	return s, ok
}

func (r *Registry) ReleaseCrash(scope string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.crash, scope)
}

// ReserveDuel claims the target's pending-duel slot.
func (r *Registry) ReserveDuel(targetID int64, d *Duel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.duels[targetID]; ok {
		return ErrDuelPending
	}
	r.duels[targetID] = d
	return nil
}

// DuelFor returns the target's pending duel without removing it.
func (r *Registry) DuelFor(targetID int64) (*Duel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.duels[targetID]
	return d, ok
}

// TakeDuel removes and returns the target's pending duel.
func (r *Registry) TakeDuel(targetID int64) (*Duel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.duels[targetID]
	if ok {
		delete(r.duels, targetID)
	}
	return d, ok
}

// TakeDuelIf removes the pending duel only when it is still the given one,
// so an expiry timer cannot evict a newer challenge.
func (r *Registry) TakeDuelIf(targetID int64, d *Duel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.duels[targetID]
	if !ok || current != d {
		return false
	}
	delete(r.duels, targetID)
	return true
}
