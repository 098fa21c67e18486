package services

import "errors"

// Error taxonomy surfaced to the HTTP layer. Validation and conflict errors
// never mutate state; settlement errors discard the session they belong to.
var (
	ErrInsufficientFunds = errors.New("not enough money in your wallet")
	ErrBetTooLarge       = errors.New("bet exceeds the maximum allowed")
	ErrSessionConflict   = errors.New("you already have a conflicting game in progress")
	ErrNoSession         = errors.New("no active game to act on")
	ErrNotRunning        = errors.New("the game is not running")
	ErrAlreadyJoined     = errors.New("you already joined this round")
	ErrCrashInProgress   = errors.New("the crash round has already started")
	ErrNoDuel            = errors.New("you have no pending duel")
	ErrDuelPending       = errors.New("that player already has a pending duel")
	ErrSelfTarget        = errors.New("you cannot target yourself")
	ErrDailyClaimed      = errors.New("daily reward already claimed today")
	ErrInvalidChoice     = errors.New("invalid choice")
)
