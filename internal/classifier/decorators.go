package classifier

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
)

// WithTimeout bounds every call to c by d. An expired deadline surfaces as
// a *ClassificationError wrapping ErrClassificationTimeout.
func WithTimeout(c Classifier, d time.Duration) Classifier {
	if d <= 0 {
		return c
	}
	return Func(func(ctx context.Context, resumeLink, companyName string) (Result, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		type outcome struct {
			result Result
			err    error
		}
		done := make(chan outcome, 1)
		go func() {
			r, err := c.Classify(ctx, resumeLink, companyName)
			done <- outcome{r, err}
		}()

		select {
		case o := <-done:
			if o.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !IsTimeout(o.err) {
				return Result{}, timeoutError(d, o.err)
			}
			return o.result, o.err
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return Result{}, timeoutError(d, nil)
			}
			return Result{}, &ClassificationError{Message: "classification cancelled", Cause: ctx.Err()}
		}
	})
}

func timeoutError(d time.Duration, cause error) error {
	return &ClassificationError{
		Message: "no verdict within " + d.String(),
		Cause:   errors.Join(ErrClassificationTimeout, cause),
	}
}

// WithRateLimit makes every call to c wait for a token from limiter.
func WithRateLimit(c Classifier, limiter *rate.Limiter) Classifier {
	if limiter == nil {
		return c
	}
	return Func(func(ctx context.Context, resumeLink, companyName string) (Result, error) {
		if err := limiter.Wait(ctx); err != nil {
			// Wait fails early when the deadline would pass before a token frees up.
			if _, hasDeadline := ctx.Deadline(); hasDeadline && !errors.Is(ctx.Err(), context.Canceled) {
				return Result{}, &ClassificationError{Message: "rate limit wait exceeded deadline", Cause: errors.Join(ErrClassificationTimeout, err)}
			}
			return Result{}, &ClassificationError{Message: "rate limit wait failed", Cause: err}
		}
		return c.Classify(ctx, resumeLink, companyName)
	})
}

// NewLimiter returns a limiter allowing perMinute calls with the given burst.
func NewLimiter(perMinute float64, burst int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perMinute/60), burst)
}
