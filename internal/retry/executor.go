package retry

import (
	"context"
	"time"

	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// RetryFunc observes a retry before its delay starts.
type RetryFunc func(attempt int, err error, delay time.Duration)

// Executor repeats an operation while the classifier calls its error
// transient and the strategy allows another attempt. Safe for concurrent use.
type Executor struct {
	classifier airroutes.ErrorClassifier
	strategy   airroutes.BackoffStrategy
	onRetry    RetryFunc
}

// NewExecutor panics on nil arguments.
func NewExecutor(classifier airroutes.ErrorClassifier, strategy airroutes.BackoffStrategy) *Executor {
	if classifier == nil || strategy == nil {
		panic("retry: classifier and strategy are required")
	}
	return &Executor{classifier: classifier, strategy: strategy}
}

// WithOnRetry returns a copy of e that reports each retry to fn.
func (e *Executor) WithOnRetry(fn func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = fn
	return &clone
}

// Execute returns nil on success, the first non-transient error, ctx's error
// when cancelled while waiting, or the last transient error once the
// attempts run out.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := operation(ctx)
		if err == nil || !e.classifier.IsTransient(err) || attempt >= e.strategy.MaxAttempts() {
			return err
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
