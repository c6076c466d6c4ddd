package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Verdict tells the executor how to treat one failed attempt.
type Verdict struct {
	// Retryable allows another attempt, backoff permitting.
	Retryable bool
	// RecordFailure counts the attempt against the circuit breaker.
	RecordFailure bool
}

// Classifier maps an attempt error to its verdict.
type Classifier func(err error) Verdict

// Executor runs calls against one unreliable dependency with bounded
// exponential-backoff retry and an optional circuit breaker. It is safe for
// concurrent use; the breaker is the only cross-request state it holds.
type Executor struct {
	operation string
	policy    Policy
	classify  Classifier
	breaker   *gobreaker.CircuitBreaker[any]
}

// NewExecutor builds an executor for a named operation. The classifier
// decides retryability per error; a nil classifier treats every failure as
// final.
func NewExecutor(operation string, policy Policy, classify Classifier) *Executor {
	if classify == nil {
		classify = func(error) Verdict { return Verdict{RecordFailure: true} }
	}
	policy = policy.normalize()

	e := &Executor{
		operation: operation,
		policy:    policy,
		classify:  classify,
	}
	if policy.BreakerEnabled {
		e.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
			Name:        operation,
			MaxRequests: policy.BreakerHalfOpenMaxCalls,
			Timeout:     policy.BreakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < policy.BreakerMinRequests {
					return false
				}
				return float64(counts.TotalFailures)/float64(counts.Requests) >= policy.BreakerFailureRatio
			},
			IsSuccessful: func(err error) bool {
				if err == nil {
					return true
				}
				return !classify(err).RecordFailure
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("circuit_breaker_state_change",
					"operation", name, "from", from.String(), "to", to.String())
			},
		})
	}
	return e
}

// Execute runs fn through the breaker and retry loop.
func (e *Executor) Execute(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("resilience: operation callback is nil")
	}
	if e.breaker == nil {
		return e.withRetry(ctx, fn)
	}
	_, err := e.breaker.Execute(func() (any, error) {
		return nil, e.withRetry(ctx, fn)
	})
	return err
}

func (e *Executor) withRetry(ctx context.Context, fn func(context.Context) error) error {
	delay := e.policy.RetryBaseDelay

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !e.classify(err).Retryable || attempt == e.policy.RetryAttempts {
			return err
		}

		slog.Warn("retry_attempt",
			"operation", e.operation,
			"attempt", attempt,
			"max_attempts", e.policy.RetryAttempts,
			"backoff_ms", delay.Milliseconds(),
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * e.policy.RetryMultiplier)
		if delay > e.policy.RetryMaxDelay {
			delay = e.policy.RetryMaxDelay
		}
	}
}

// IsCircuitOpen reports whether err came from a breaker refusing the call.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
