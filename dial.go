package netwayste

import (
	"context"
	"time"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/backoff"
	"github.com/Rican7/retry/strategy"
	"github.com/pkg/errors"
)

// ErrLoginRejected means the server answered Connect with something
// other than LoggedIn (a bad request or a server error).
var ErrLoginRejected = errors.New("netwayste: server rejected login")

// ErrNoServerAvailable means every retry attempt timed out or was
// rejected before the retry strategy gave up.
var ErrNoServerAvailable = errors.New("netwayste: server did not respond to login")

// RetryOption tunes DialAndLogin's retry strategy.
type RetryOption func(*retryConfig)

type retryConfig struct {
	limit          uint
	backoffFactor  time.Duration
	backoffCap     time.Duration
	attemptTimeout time.Duration
}

func defaultRetryConfig() *retryConfig {
	return &retryConfig{
		limit:          5,
		backoffFactor:  100 * time.Millisecond,
		backoffCap:     time.Second,
		attemptTimeout: 5 * time.Second,
	}
}

// WithRetryLimit caps the number of login attempts DialAndLogin makes
// before giving up. Zero means retry until ctx is done.
func WithRetryLimit(n uint) RetryOption {
	return func(c *retryConfig) { c.limit = n }
}

// WithAttemptTimeout bounds how long a single login attempt waits for
// a response before it is considered failed and retried.
func WithAttemptTimeout(d time.Duration) RetryOption {
	return func(c *retryConfig) { c.attemptTimeout = d }
}

// DialAndLogin sends Connect and waits for the server's answer,
// retrying with exponential backoff until the server logs the client
// in or the retry strategy is exhausted. An attempt the server rejects
// is retried like one that timed out. When the strategy is exhausted
// it returns ErrNoServerAvailable; if ctx is done when the next
// attempt would start, it returns ctx's error instead. The
// caller must already be running Client.Run in its own goroutine; this
// consumes Client's Notifications channel for the duration of the
// handshake, so it should be called before the caller starts its own
// notification-draining loop.
func DialAndLogin(ctx context.Context, c *Client, name string, opts ...RetryOption) (serverVersion string, err error) {
	cfg := defaultRetryConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	strategies := makeRetryStrategies(cfg.backoffFactor, cfg.backoffCap, cfg.limit)

	err = retry.Retry(func(attempt uint) error {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		attemptCtx, cancel := context.WithTimeout(ctx, cfg.attemptTimeout)
		defer cancel()
		v, attemptErr := attemptLogin(attemptCtx, c, name)
		if attemptErr != nil {
			return attemptErr
		}
		serverVersion = v
		return nil
	}, strategies...)

	if err != nil {
		return "", ErrNoServerAvailable
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return serverVersion, nil
}

func attemptLogin(ctx context.Context, c *Client, name string) (string, error) {
	c.Connect(name)
	for {
		select {
		case <-ctx.Done():
			return "", ErrNoServerAvailable
		case n, ok := <-c.Notifications():
			if !ok {
				return "", ErrNoServerAvailable
			}
			switch v := n.(type) {
			case NotifyLoggedIn:
				return v.ServerVersion, nil
			case NotifyBadRequest, NotifyServerError:
				return "", ErrLoginRejected
			}
		}
	}
}

// makeRetryStrategies mirrors the teacher's backoff construction: an
// optional attempt cap followed by binary exponential backoff capped
// at capDuration.
func makeRetryStrategies(factor, capDuration time.Duration, limit uint) []strategy.Strategy {
	limit += 1
	back := backoff.BinaryExponential(factor)

	strategies := []strategy.Strategy{}
	if limit > 1 {
		strategies = append(strategies, strategy.Limit(limit))
	}
	strategies = append(strategies, func(attempt uint) bool {
		if attempt > 0 {
			duration := back(attempt)
			if duration > capDuration || duration <= 0 {
				duration = capDuration
			}
			time.Sleep(duration)
		}
		return true
	})
	return strategies
}
