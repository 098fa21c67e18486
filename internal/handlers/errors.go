package handlers

import (
	"errors"
	"net/http"

	"chat-casino-backend/internal/models"
	"chat-casino-backend/internal/services"
	"chat-casino-backend/internal/store"
)

// statusFor maps engine errors onto HTTP statuses. Anything unrecognized is
// treated as an internal failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, models.ErrAmountInvalid),
		errors.Is(err, models.ErrAmountNotPositive),
		errors.Is(err, models.ErrAllNotAllowed),
		errors.Is(err, services.ErrBetTooLarge),
		errors.Is(err, services.ErrSelfTarget),
		errors.Is(err, services.ErrInvalidChoice):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNoSession),
		errors.Is(err, services.ErrNoDuel),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSessionConflict),
		errors.Is(err, services.ErrDuelPending),
		errors.Is(err, services.ErrAlreadyJoined),
		errors.Is(err, services.ErrCrashInProgress),
		errors.Is(err, services.ErrNotRunning),
		errors.Is(err, services.ErrDailyClaimed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
