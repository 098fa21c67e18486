package services

import (
	"context"
	"testing"
	"time"
)

func TestHappyHourMultiplier(t *testing.T) {
	rig := newTestRig(t)

	if m := rig.hh.Multiplier(); m != 1.0 {
		t.Errorf("inactive multiplier = %v, want 1.0", m)
	}

	rig.hh.setActive(true)
	if m := rig.hh.Multiplier(); m != 1.3 {
		t.Errorf("active multiplier = %v, want 1.3", m)
	}
	if active, mult := rig.hh.Snapshot(); !active || mult != 1.3 {
		t.Errorf("snapshot = %v/%v, want true/1.3", active, mult)
	}

	rig.hh.setActive(false)
	if m := rig.hh.Multiplier(); m != 1.0 {
		t.Errorf("multiplier after deactivation = %v, want 1.0", m)
	}
}

func TestHappyHourPublishesTransitions(t *testing.T) {
	rig := newTestRig(t)

	rig.hh.setActive(true)
	rig.hh.setActive(false)

	events := rig.notifier.ofType(EventHappyHour)
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if active, _ := events[0].Data["active"].(bool); !active {
		t.Error("first event should announce activation")
	}
	if active, _ := events[1].Data["active"].(bool); active {
		t.Error("second event should announce deactivation")
	}
}

func TestHappyHourSchedulerActivates(t *testing.T) {
	rig := newTestRig(t)
	rig.hh.chance = 1.0 // every interval roll activates

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rig.hh.Run(ctx)

	rig.clock.Advance(time.Hour) // interval elapses
	waitFor(t, func() bool {
		active, _ := rig.hh.Snapshot()
		return active
	})

	rig.clock.Advance(time.Hour) // duration elapses
	waitFor(t, func() bool {
		active, _ := rig.hh.Snapshot()
		return !active
	})
}
