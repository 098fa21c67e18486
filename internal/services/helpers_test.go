package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"chat-casino-backend/internal/config"
	"chat-casino-backend/internal/models"
	"chat-casino-backend/internal/store"
)

// manualClock hands every After call the same channel, so tests tick the
// engine's timers by sending on it.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
	ch  chan time.Time
}

func newManualClock() *manualClock {
	return &manualClock{
		now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		ch:  make(chan time.Time, 16),
	}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) After(d time.Duration) <-chan time.Time {
	return c.ch
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	c.mu.Unlock()
	c.ch <- now
}

// recordingNotifier captures published events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *recordingNotifier) Publish(ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) ofType(eventType string) []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Event
	for _, ev := range n.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		CrashJoinWindow:     10 * time.Second,
		DuelTimeout:         60 * time.Second,
		HappyHourInterval:   time.Hour,
		HappyHourDuration:   time.Hour,
		HappyHourChance:     0.2,
		HappyHourMultiplier: 1.3,
	}
}

type testRig struct {
	engine   *Engine
	ledger   *Ledger
	store    *store.MemoryStore
	house    *HouseService
	hh       *HappyHour
	clock    *manualClock
	notifier *recordingNotifier
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()

	cfg := testConfig()
	st := store.NewMemoryStore()
	notifier := &recordingNotifier{}
	clock := newManualClock()

	house := NewHouseService(st)
	if err := house.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("seeding house config: %v", err)
	}
	hh := NewHappyHour(cfg, clock, notifier)

	return &testRig{
		engine:   NewEngine(cfg, st, house, hh, notifier, clock),
		ledger:   NewLedger(st, notifier, clock),
		store:    st,
		house:    house,
		hh:       hh,
		clock:    clock,
		notifier: notifier,
	}
}

// fund sets a player's wallet directly.
func (r *testRig) fund(t *testing.T, playerID, wallet int64) {
	t.Helper()
	acct, err := r.store.GetAccount(context.Background(), playerID)
	if err != nil {
		t.Fatalf("getting account %d: %v", playerID, err)
	}
	acct.Wallet = wallet
	if err := r.store.SaveAccount(context.Background(), acct); err != nil {
		t.Fatalf("saving account %d: %v", playerID, err)
	}
}

func (r *testRig) wallet(t *testing.T, playerID int64) int64 {
	t.Helper()
	acct, err := r.store.GetAccount(context.Background(), playerID)
	if err != nil {
		t.Fatalf("getting account %d: %v", playerID, err)
	}
	return acct.Wallet
}

func (r *testRig) account(t *testing.T, playerID int64) *models.Account {
	t.Helper()
	acct, err := r.store.GetAccount(context.Background(), playerID)
	if err != nil {
		t.Fatalf("getting account %d: %v", playerID, err)
	}
	return acct
}
