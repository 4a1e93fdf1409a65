// Package errkind classifies failures into the standard taxonomy shared by
// ingestion runs and engine fetches. Kinds are stable strings: they land in
// run summaries, metrics labels, and ingestion-run rows.
package errkind

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Kind is one failure category.
type Kind string

const (
	KindRateLimit Kind = "429_rate_limit"
	KindServer    Kind = "5xx_server"
	KindTimeout   Kind = "timeout"
	KindNetwork   Kind = "network"
	KindDB        Kind = "db"
	KindParse     Kind = "parse_error"
	KindOther     Kind = "other"
)

// StatusError carries an HTTP status through the retry path.
type StatusError struct {
	Status     int
	RetryAfter string
	Body       string
}

func (e *StatusError) Error() string {
	return "http status " + strings.TrimSpace(strings.Join([]string{itoa(e.Status), e.Body}, " "))
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	var b [8]byte
	i := len(b)
	for v > 0 {
		i--
		b[i] = byte('0' + v%10)
		v /= 10
	}
	return string(b[i:])
}

// ParseError marks venue payloads that failed to decode or normalize.
type ParseError struct{ Err error }

func (e *ParseError) Error() string { return "parse: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// DBError marks persistence-layer failures.
type DBError struct{ Err error }

func (e *DBError) Error() string { return "db: " + e.Err.Error() }
func (e *DBError) Unwrap() error { return e.Err }

// Classify maps any error to its taxonomy kind.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.Status == 429:
			return KindRateLimit
		case statusErr.Status >= 500:
			return KindServer
		}
		return KindOther
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return KindParse
	}
	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return KindDB
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "no such host"):
		return KindNetwork
	case strings.Contains(msg, "timeout"):
		return KindTimeout
	}
	return KindOther
}

// Retryable reports whether a retry could plausibly succeed.
func Retryable(k Kind) bool {
	switch k {
	case KindRateLimit, KindServer, KindTimeout, KindNetwork:
		return true
	}
	return false
}
