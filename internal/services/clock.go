package services

import "time"

// Clock abstracts wall time so the crash loop, duel expiry and happy hour
// scheduler can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func NewClock() Clock { return realClock{} }
