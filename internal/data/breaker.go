package data

import (
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"nba-feature-stats/internal/config"
)

// Breaker guards an external API with a circuit breaker. Once open, calls fail fast with
// gobreaker.ErrOpenState; callers treat that like any other failed fetch. It never retries.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewBreaker returns nil when the breaker is disabled; a nil *Breaker runs calls unprotected.
func NewBreaker(name string, cfg config.BreakerConfig, log logrus.FieldLogger) *Breaker {
	if !cfg.Enabled {
		return nil
	}
	minRequests := cfg.MinRequests
	ratio := cfg.FailureRatio
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests || counts.Requests == 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= ratio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if log == nil {
				return
			}
			log.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Warn("Circuit breaker state changed")
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs fn through the breaker.
func (b *Breaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	if b == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// State reports the breaker state; a disabled breaker is always closed.
func (b *Breaker) State() gobreaker.State {
	if b == nil {
		return gobreaker.StateClosed
	}
	return b.cb.State()
}
