package netfetch

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when fetches are refused because the upstream
// has been failing consistently.
var ErrCircuitOpen = errors.New("fetch circuit open")

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// breaker is a small circuit breaker guarding outbound fetches. It trips
// after maxFailures consecutive failures, refuses requests for cooldown,
// then lets a single probe through; the probe's outcome decides whether the
// circuit closes again.
type breaker struct {
	mu          sync.Mutex
	state       breakerState
	failures    int
	maxFailures int
	cooldown    time.Duration
	openedAt    time.Time
	probing     bool
}

func newBreaker(maxFailures int, cooldown time.Duration) *breaker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &breaker{maxFailures: maxFailures, cooldown: cooldown}
}

// allow reports whether a request may proceed right now.
func (b *breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateClosed:
		return nil
	case stateOpen:
		if time.Since(b.openedAt) < b.cooldown {
			return ErrCircuitOpen
		}
		b.state = stateHalfOpen
		b.probing = true
		return nil
	default: // half-open
		if b.probing {
			return ErrCircuitOpen
		}
		b.probing = true
		return nil
	}
}

// record feeds a request outcome back into the breaker.
func (b *breaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if success {
		b.state = stateClosed
		b.failures = 0
		b.probing = false
		return
	}

	if b.state == stateHalfOpen {
		b.trip()
		return
	}
	b.failures++
	if b.failures >= b.maxFailures {
		b.trip()
	}
}

func (b *breaker) trip() {
	b.state = stateOpen
	b.openedAt = time.Now()
	b.failures = 0
	b.probing = false
}
