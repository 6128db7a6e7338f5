// Package resilience wraps calls to external services with a circuit
// breaker, a rate limiter and a per-call timeout.
package resilience

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"readscore/config"
)

// ErrCircuitOpen is returned without calling the service while its breaker
// is open or its half-open trial budget is spent.
var ErrCircuitOpen = errors.New("circuit breaker open")

// BreakerSettings builds gobreaker settings for one named service.
func BreakerSettings(name string, cfg config.BreakerConfig, logger *slog.Logger) gobreaker.Settings {
	if logger == nil {
		logger = slog.Default()
	}
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
}

// Breaker is a named gobreaker.CircuitBreaker.
type Breaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

func NewBreaker(name string, cfg config.BreakerConfig, logger *slog.Logger) *Breaker {
	return &Breaker{
		breaker: gobreaker.NewCircuitBreaker(BreakerSettings(name, cfg, logger)),
		name:    name,
	}
}

// Execute runs fn through the breaker. Rejections are reported as
// ErrCircuitOpen.
func (b *Breaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	out, err := b.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s: %w", b.name, ErrCircuitOpen)
	}
	return out, err
}

func (b *Breaker) State() gobreaker.State {
	return b.breaker.State()
}

func (b *Breaker) Name() string {
	return b.name
}

func (b *Breaker) IsOpen() bool {
	return b.breaker.State() == gobreaker.StateOpen
}

// DefaultBreakerConfig is used where no configuration is at hand.
func DefaultBreakerConfig() config.BreakerConfig {
	return config.BreakerConfig{
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}
