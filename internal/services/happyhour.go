package services

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"chat-casino-backend/internal/config"
)

// HappyHour randomly activates a bounded promotional payout multiplier.
// Settlement paths only ever read the snapshot; the scheduler is the sole
// writer.
type HappyHour struct {
	mu         sync.Mutex
	active     bool
	multiplier float64

	chance   float64
	duration time.Duration
	interval time.Duration

	clock    Clock
	rng      *rand.Rand
	notifier Notifier
}

func NewHappyHour(cfg *config.Config, clock Clock, notifier Notifier) *HappyHour {
	return &HappyHour{
		multiplier: cfg.HappyHourMultiplier,
		chance:     cfg.HappyHourChance,
		duration:   cfg.HappyHourDuration,
		interval:   cfg.HappyHourInterval,
		clock:      clock,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		notifier:   notifier,
	}
}

// Snapshot reports whether happy hour is active and the multiplier it grants.
func (h *HappyHour) Snapshot() (bool, float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active, h.multiplier
}

// Multiplier is the factor settlements apply: the bonus when active, 1.0
// otherwise.
func (h *HappyHour) Multiplier() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active {
		return h.multiplier
	}
	return 1.0
}

// Run drives the scheduler until ctx is cancelled. Each interval it rolls the
// activation chance; an activation holds for the configured duration and
// intervals are not re-rolled while active.
func (h *HappyHour) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.clock.After(h.interval):
		}

		h.mu.Lock()
		alreadyActive := h.active
		roll := h.rng.Float64()
		h.mu.Unlock()

		if alreadyActive || roll >= h.chance {
			continue
		}

		h.setActive(true)
		select {
		case <-ctx.Done():
			h.setActive(false)
			return
		case <-h.clock.After(h.duration):
		}
		h.setActive(false)
	}
}

func (h *HappyHour) setActive(active bool) {
	h.mu.Lock()
	h.active = active
	multiplier := h.multiplier
	h.mu.Unlock()

	h.notifier.Publish(Event{
		Type: EventHappyHour,
		Data: map[string]any{
			"active":     active,
			"multiplier": multiplier,
		},
	})
}
