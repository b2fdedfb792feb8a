// Package resilience guards calls to external services with per-service
// circuit breakers and retries with exponential backoff.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

var (
	// ErrCircuitOpen indicates the circuit breaker for a service is open.
	ErrCircuitOpen = gobreaker.ErrOpenState
	// ErrExhaustedRetries indicates retry attempts were exhausted.
	ErrExhaustedRetries = errors.New("retry attempts exhausted")
)

// Policy configures retries and circuit breaking.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	RandomFactor    float64

	// MaxFailures consecutive retryable failures open a service's breaker.
	MaxFailures int
	// OpenTimeout is how long an open breaker rejects calls before probing.
	OpenTimeout time.Duration

	// Retryable reports whether err is transient. Non-retryable errors are
	// returned at once and do not count against the breaker. Nil treats
	// every error as retryable.
	Retryable func(err error) bool
}

// DefaultPolicy returns a policy suited to interactive chat commands.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     2,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2.0,
		RandomFactor:    0.1,
		MaxFailures:     5,
		OpenTimeout:     60 * time.Second,
	}
}

func (p Policy) retryable(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	if p.Retryable == nil {
		return true
	}
	return p.Retryable(err)
}

// Guard runs operations through one circuit breaker per named service.
type Guard struct {
	policy Policy
	logger *slog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewGuard creates a Guard applying policy. Zero values in policy fall back
// to DefaultPolicy.
func NewGuard(policy Policy, logger *slog.Logger) *Guard {
	def := DefaultPolicy()
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = def.MaxAttempts
	}
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = def.InitialInterval
	}
	if policy.MaxInterval <= 0 {
		policy.MaxInterval = def.MaxInterval
	}
	if policy.Multiplier < 1 {
		policy.Multiplier = def.Multiplier
	}
	if policy.MaxFailures <= 0 {
		policy.MaxFailures = def.MaxFailures
	}
	if policy.OpenTimeout <= 0 {
		policy.OpenTimeout = def.OpenTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Guard{
		policy:   policy,
		logger:   logger.With("component", "resilience"),
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

// Do runs operation for service, retrying transient failures with backoff.
// Calls are rejected with ErrCircuitOpen while the service's breaker is open.
func (g *Guard) Do(ctx context.Context, service string, operation func(context.Context) error) error {
	cb := g.breaker(service)
	interval := g.policy.InitialInterval

	var lastErr error
	for attempt := 1; attempt <= g.policy.MaxAttempts; attempt++ {
		_, err := cb.Execute(func() (interface{}, error) {
			return nil, operation(ctx)
		})
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return fmt.Errorf("retry abandoned: %w", ctx.Err())
		}
		if !g.policy.retryable(err) {
			return err
		}
		if attempt == g.policy.MaxAttempts {
			break
		}

		g.logger.DebugContext(ctx, "Operation failed, retrying",
			"service", service,
			"attempt", attempt,
			"max_attempts", g.policy.MaxAttempts,
			"next_interval", interval,
			"error", err)

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry abandoned: %w", ctx.Err())
		case <-timer.C:
		}

		interval = g.nextInterval(interval)
	}

	if g.policy.MaxAttempts == 1 {
		return lastErr
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrExhaustedRetries, g.policy.MaxAttempts, lastErr)
}

// State returns the breaker state of service ("closed", "half-open" or "open").
func (g *Guard) State(service string) string {
	return g.breaker(service).State().String()
}

func (g *Guard) nextInterval(interval time.Duration) time.Duration {
	jitter := 1.0 + g.policy.RandomFactor*(2*rand.Float64()-1)
	next := time.Duration(float64(interval) * g.policy.Multiplier * jitter)
	if next > g.policy.MaxInterval {
		next = g.policy.MaxInterval
	}
	return next
}

func (g *Guard) breaker(service string) *gobreaker.CircuitBreaker {
	g.mu.Lock()
	defer g.mu.Unlock()

	if cb, ok := g.breakers[service]; ok {
		return cb
	}

	maxFailures := uint32(g.policy.MaxFailures)
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        service,
		MaxRequests: 1,
		Timeout:     g.policy.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !g.policy.retryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Warn("Circuit breaker state changed", "service", name, "from", from.String(), "to", to.String())
		},
	})
	g.breakers[service] = cb
	return cb
}
