package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerboost/cv-analyzer/internal/config"
)

func TestRetryGenerate_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	got, err := retryGenerate(context.Background(), 3, time.Millisecond, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("503 overloaded")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestRetryGenerate_GivesUp(t *testing.T) {
	calls := 0
	_, err := retryGenerate(context.Background(), 2, time.Millisecond, func() (string, error) {
		calls++
		return "", errors.New("boom")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 2 attempts")
	assert.Equal(t, 2, calls)
}

func TestRetryGenerate_StopsOnOpenCircuit(t *testing.T) {
	calls := 0
	_, err := retryGenerate(context.Background(), 5, time.Millisecond, func() (string, error) {
		calls++
		return "", gobreaker.ErrOpenState
	})

	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 1, calls)
}

func TestRetryGenerate_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := retryGenerate(ctx, 3, time.Hour, func() (string, error) {
		return "", errors.New("boom")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewGenerationBreaker_Trips(t *testing.T) {
	cb := NewGenerationBreaker("test", config.BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      2,
		FailureThreshold: 0.5,
	})

	for i := 0; i < 2; i++ {
		_, err := cb.Execute(func() (string, error) { return "", errors.New("fail") })
		require.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())
	_, err := cb.Execute(func() (string, error) { return "never", nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
