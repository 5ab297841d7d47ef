package classifier

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func blockingClassifier() Classifier {
	return Func(func(ctx context.Context, _, _ string) (Result, error) {
		<-ctx.Done()
		return Result{}, &ClassificationError{Message: "gave up", Cause: ctx.Err()}
	})
}

func TestWithTimeout_Expires(t *testing.T) {
	c := WithTimeout(blockingClassifier(), 20*time.Millisecond)

	_, err := c.Classify(context.Background(), driveFileLink, "Acme")

	var classErr *ClassificationError
	require.ErrorAs(t, err, &classErr)
	assert.True(t, errors.Is(err, ErrClassificationTimeout))
}

func TestWithTimeout_PassesThrough(t *testing.T) {
	c := WithTimeout(NewRuleClassifier(), time.Second)

	result, err := c.Classify(context.Background(), driveFileLink, "Acme")
	require.NoError(t, err)
	assert.True(t, result.IsValid)
}

func TestWithTimeout_ZeroIsNoop(t *testing.T) {
	inner := NewRuleClassifier()
	assert.Same(t, inner, WithTimeout(inner, 0))
}

func TestWithTimeout_CallerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := WithTimeout(blockingClassifier(), time.Minute)

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := c.Classify(ctx, driveFileLink, "Acme")

	var classErr *ClassificationError
	require.ErrorAs(t, err, &classErr)
	assert.False(t, IsTimeout(err))
}

func TestWithRateLimit_Throttles(t *testing.T) {
	var calls atomic.Int32
	inner := Func(func(_ context.Context, _, _ string) (Result, error) {
		calls.Add(1)
		return Result{IsValid: true, Tips: "ok"}, nil
	})
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	c := WithRateLimit(inner, limiter)

	_, err := c.Classify(context.Background(), driveFileLink, "Acme")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Classify(ctx, driveFileLink, "Acme")

	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewLimiter(t *testing.T) {
	assert.Equal(t, rate.Inf, NewLimiter(0, 0).Limit())

	l := NewLimiter(120, 0)
	assert.InDelta(t, 2.0, float64(l.Limit()), 1e-9)
	assert.Equal(t, 1, l.Burst())
}
