package services

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"chat-casino-backend/internal/store"
)

// HouseService reads and writes process-wide house settings. Settlement paths
// read these at the moment they settle; admin writes take effect for the next
// operation, never mid-session.
type HouseService struct {
	store store.Store
}

func NewHouseService(st store.Store) *HouseService {
	return &HouseService{store: st}
}

// EnsureDefaults seeds missing config keys. Existing values are untouched.
func (h *HouseService) EnsureDefaults(ctx context.Context) error {
	defaults := map[string]string{
		store.ConfigHouseEdge:   store.DefaultHouseEdge,
		store.ConfigMaxBet:      store.DefaultMaxBet,
		store.ConfigJackpotPool: store.DefaultJackpotPool,
		store.ConfigJackpotRate: store.DefaultJackpotRate,
	}
	for key, value := range defaults {
		if err := h.store.SetConfigDefault(ctx, key, value); err != nil {
			return fmt.Errorf("failed to seed %s: %v", key, err)
		}
	}
	return nil
}

func (h *HouseService) Edge(ctx context.Context) float64 {
	v, err := h.store.GetConfig(ctx, store.ConfigHouseEdge)
	if err != nil {
		return 0.05
	}
	edge, err := strconv.ParseFloat(v, 64)
	if err != nil || edge < 0 || edge >= 1 {
		return 0.05
	}
	return edge
}

func (h *HouseService) MaxBet(ctx context.Context) int64 {
	v, err := h.store.GetConfig(ctx, store.ConfigMaxBet)
	if err != nil {
		return 50000
	}
	max, err := strconv.ParseInt(v, 10, 64)
	if err != nil || max <= 0 {
		return 50000
	}
	return max
}

func (h *HouseService) SetEdge(ctx context.Context, edge float64) error {
	if edge < 0 || edge >= 1 {
		return fmt.Errorf("house edge must be in [0, 1), got %v", edge)
	}
	return h.store.SetConfig(ctx, store.ConfigHouseEdge, strconv.FormatFloat(edge, 'f', -1, 64))
}

func (h *HouseService) SetMaxBet(ctx context.Context, max int64) error {
	if max <= 0 {
		return fmt.Errorf("max bet must be positive, got %d", max)
	}
	return h.store.SetConfig(ctx, store.ConfigMaxBet, strconv.FormatInt(max, 10))
}

func (h *HouseService) JackpotPool(ctx context.Context) int64 {
	v, err := h.store.GetConfig(ctx, store.ConfigJackpotPool)
	if err != nil {
		return 0
	}
	pool, _ := strconv.ParseInt(v, 10, 64)
	return pool
}

// ContributeJackpot accrues floor(bet * jackpot_rate) into the pool and
// returns the new pool size.
func (h *HouseService) ContributeJackpot(ctx context.Context, bet int64) (int64, error) {
	rate := 0.01
	if v, err := h.store.GetConfig(ctx, store.ConfigJackpotRate); err == nil {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed < 1 {
			rate = parsed
		}
	}
	contribution := int64(math.Floor(float64(bet) * rate))
	if contribution == 0 {
		return h.JackpotPool(ctx), nil
	}
	return h.store.IncrConfig(ctx, store.ConfigJackpotPool, contribution)
}

// PayJackpot empties the pool to the winner and reseeds it.
func (h *HouseService) PayJackpot(ctx context.Context) (int64, error) {
	pool := h.JackpotPool(ctx)
	if err := h.store.SetConfig(ctx, store.ConfigJackpotPool, store.DefaultJackpotPool); err != nil {
		return 0, err
	}
	return pool, nil
}

// WinPayout applies the settlement pipeline: base multiplier, then the happy
// hour multiplier, then the house cut, floored to whole currency.
func WinPayout(bet int64, multiplier, happyHour, edge float64) int64 {
	return int64(math.Floor(float64(bet) * multiplier * happyHour * (1 - edge)))
}
