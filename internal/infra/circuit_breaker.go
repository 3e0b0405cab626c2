package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// CircuitBreaker guards calls to an external dependency (SMTP today).
// After FailureThreshold consecutive failures it opens and rejects calls with
// ErrCircuitOpen; once OpenTimeout elapses a single trial call is let through and
// SuccessThreshold trial successes close it again.
type CircuitBreaker struct {
	name string
	cfg  CircuitBreakerConfig
	now  func() time.Time

	mu        sync.Mutex
	state     CBState
	fallos    int
	exitos    int
	abiertoAt time.Time
}

type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	}
	return "unknown"
}

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
}

func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      60 * time.Second,
	}
}

// NewCircuitBreaker returns a closed breaker. Zero config values fall back to
// DefaultCBConfig.
func NewCircuitBreaker(name string, cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{name: name, cfg: cfg, now: time.Now}
}

// State is safe for concurrent use; an expired open state reads as half-open.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.vencerApertura()
	return cb.state
}

// Execute runs fn unless the breaker is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.State() == CBOpen {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.registrarFallo()
	} else {
		cb.registrarExito()
	}
	return err
}

// must hold cb.mu
func (cb *CircuitBreaker) vencerApertura() {
	if cb.state == CBOpen && cb.now().Sub(cb.abiertoAt) >= cb.cfg.OpenTimeout {
		cb.cambiar(CBHalfOpen)
	}
}

// must hold cb.mu
func (cb *CircuitBreaker) registrarFallo() {
	cb.fallos++
	switch cb.state {
	case CBClosed:
		if cb.fallos >= cb.cfg.FailureThreshold {
			cb.cambiar(CBOpen)
		}
	case CBHalfOpen:
		cb.cambiar(CBOpen)
	}
}

// must hold cb.mu
func (cb *CircuitBreaker) registrarExito() {
	switch cb.state {
	case CBClosed:
		cb.fallos = 0
	case CBHalfOpen:
		cb.exitos++
		if cb.exitos >= cb.cfg.SuccessThreshold {
			cb.cambiar(CBClosed)
		}
	}
}

// must hold cb.mu
func (cb *CircuitBreaker) cambiar(s CBState) {
	log.Warn().Str("breaker", cb.name).Str("from", cb.state.String()).Str("to", s.String()).
		Msg("circuit breaker state change")
	cb.state = s
	cb.exitos = 0
	if s == CBOpen {
		cb.abiertoAt = cb.now()
	}
	if s != CBHalfOpen {
		cb.fallos = 0
	}
}
