package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sony/gobreaker/v2"
)

// ErrorClassification tells the breaker whether a failure counts against the
// downstream. Caller mistakes and cancellations should not trip it.
type ErrorClassification struct {
	RecordFailure bool
}

type ErrorClassifier func(err error) ErrorClassification

// Executor runs each call exactly once behind a per-operation circuit breaker.
type Executor struct {
	cfg Config

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

func NewExecutor(cfg Config) *Executor {
	return &Executor{
		cfg:      cfg.normalize(),
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

func (e *Executor) Execute(
	ctx context.Context,
	operation string,
	fn func(context.Context) error,
	classifier ErrorClassifier,
) error {
	if fn == nil {
		return fmt.Errorf("resilience: operation callback is nil")
	}
	op := strings.TrimSpace(operation)
	if op == "" {
		op = "unknown"
	}
	if classifier == nil {
		classifier = defaultClassifier
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if !e.cfg.BreakerEnabled {
		return fn(ctx)
	}

	breaker := e.circuitBreaker(op, classifier)
	_, err := breaker.Execute(func() (any, error) {
		return nil, fn(ctx)
	})
	return err
}

// State reports the breaker state for an operation, or "closed" if it has not run yet.
func (e *Executor) State(operation string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if breaker, ok := e.breakers[operation]; ok {
		return breaker.State().String()
	}
	return gobreaker.StateClosed.String()
}

func (e *Executor) circuitBreaker(operation string, classifier ErrorClassifier) *gobreaker.CircuitBreaker[any] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if breaker, ok := e.breakers[operation]; ok {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        operation,
		MaxRequests: e.cfg.BreakerHalfOpenMaxCalls,
		Timeout:     e.cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < e.cfg.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= e.cfg.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return !classifier(err).RecordFailure
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit_breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
		},
	}

	breaker := gobreaker.NewCircuitBreaker[any](settings)
	e.breakers[operation] = breaker
	return breaker
}

func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func defaultClassifier(err error) ErrorClassification {
	if errors.Is(err, context.Canceled) {
		return ErrorClassification{RecordFailure: false}
	}
	return ErrorClassification{RecordFailure: true}
}
