package resilience

import (
	"errors"
	"sync"
	"time"
)

// CircuitState represents the current state of a circuit breaker.
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // outcomes flow through
	CircuitOpen                         // threshold reached, work is refused
	CircuitHalfOpen                     // one probe allowed after ResetAfter
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned by Guard when the circuit refuses work.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerConfig configures a CircuitBreaker.
type BreakerConfig struct {
	// Threshold is the number of consecutive failures that opens the circuit.
	// Zero or less disables the breaker.
	Threshold int
	// ResetAfter moves an open circuit to half-open once elapsed. Zero keeps
	// the circuit open until Reset is called.
	ResetAfter time.Duration
}

// CircuitBreaker counts consecutive failures and refuses further work once
// the threshold is reached. The runner uses it for fail-fast: a threshold of
// one skips every test after the first non-successful one.
type CircuitBreaker struct {
	mu            sync.Mutex
	cfg           BreakerConfig
	state         CircuitState
	failures      int
	openedAt      time.Time
	now           func() time.Time
	onStateChange func(from, to CircuitState)
}

// NewCircuitBreaker creates a closed breaker.
func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// OnStateChange registers a callback invoked synchronously on transitions.
// The callback must not call back into the breaker.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to CircuitState)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// State returns the current state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Failures returns the current consecutive failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// Allow reports whether the next unit of work may run.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.cfg.Threshold <= 0 {
		return true
	}
	switch cb.state {
	case CircuitClosed, CircuitHalfOpen:
		return true
	case CircuitOpen:
		if cb.cfg.ResetAfter > 0 && cb.now().Sub(cb.openedAt) >= cb.cfg.ResetAfter {
			cb.setState(CircuitHalfOpen)
			return true
		}
	}
	return false
}

// Record feeds the outcome of one unit of work into the breaker.
func (cb *CircuitBreaker) Record(ok bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.cfg.Threshold <= 0 {
		return
	}
	if ok {
		cb.failures = 0
		cb.setState(CircuitClosed)
		return
	}
	cb.failures++
	if cb.state == CircuitHalfOpen || cb.failures >= cb.cfg.Threshold {
		cb.openedAt = cb.now()
		cb.setState(CircuitOpen)
	}
}

// Guard runs fn if the circuit allows it and records whether fn reported
// success. It returns ErrCircuitOpen without running fn otherwise.
func (cb *CircuitBreaker) Guard(fn func() bool) error {
	if !cb.Allow() {
		return ErrCircuitOpen
	}
	cb.Record(fn())
	return nil
}

// Reset closes the circuit and clears the failure count.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.openedAt = time.Time{}
	cb.setState(CircuitClosed)
}

func (cb *CircuitBreaker) setState(next CircuitState) {
	if cb.state == next {
		return
	}
	prev := cb.state
	cb.state = next
	if cb.onStateChange != nil {
		cb.onStateChange(prev, next)
	}
}
