package errkind

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindOther},
		{"rate limit", &StatusError{Status: 429}, KindRateLimit},
		{"server error", &StatusError{Status: 503}, KindServer},
		{"client error", &StatusError{Status: 404}, KindOther},
		{"wrapped status", fmt.Errorf("fetch page: %w", &StatusError{Status: 500}), KindServer},
		{"parse", &ParseError{Err: errors.New("bad json")}, KindParse},
		{"db", &DBError{Err: errors.New("constraint violation")}, KindDB},
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), KindTimeout},
		{"refused by message", errors.New("dial tcp: connection refused"), KindNetwork},
		{"no such host", errors.New("lookup api.example.com: no such host"), KindNetwork},
		{"timeout by message", errors.New("i/o timeout"), KindTimeout},
		{"unclassified", errors.New("something odd"), KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{Status: 429, Body: "too many requests"}
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "too many requests")
}

func TestParseAndDBErrorsUnwrap(t *testing.T) {
	inner := errors.New("boom")
	assert.ErrorIs(t, &ParseError{Err: inner}, inner)
	assert.ErrorIs(t, &DBError{Err: inner}, inner)
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(KindRateLimit))
	assert.True(t, Retryable(KindServer))
	assert.True(t, Retryable(KindTimeout))
	assert.True(t, Retryable(KindNetwork))
	assert.False(t, Retryable(KindParse))
	assert.False(t, Retryable(KindDB))
	assert.False(t, Retryable(KindOther))
}
