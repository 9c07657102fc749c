package errs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(nil))
	assert.True(t, Retryable(errors.New("boom")))
	assert.True(t, Retryable(context.DeadlineExceeded))
	assert.True(t, Retryable(Unavailable("http 503", nil)))
	assert.False(t, Retryable(Blocked("captcha", nil)))
	assert.False(t, Retryable(fmt.Errorf("indeed: %w", InvalidInput("bad json", nil))))
	assert.False(t, Retryable(Conflict("run in flight", nil)))
}

func TestTypeOfWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", RateLimit("cooldown", nil))
	assert.Equal(t, ErrTypeRateLimit, TypeOf(err))
	assert.True(t, Is(err, ErrTypeRateLimit))
	assert.False(t, Is(err, ErrTypeInternal))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
}

func TestErrorString(t *testing.T) {
	base := errors.New("dial tcp")
	err := Unavailable("fetching feed", base)
	assert.Equal(t, "UNAVAILABLE: fetching feed: dial tcp", err.Error())
	assert.ErrorIs(t, err, base)
	assert.NotEmpty(t, err.StackTrace())
}
