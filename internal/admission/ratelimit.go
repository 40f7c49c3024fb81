package admission

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultLimit  = 10
	DefaultWindow = 60 * time.Second

	// UnknownClient is the shared bucket for requests without a remote address.
	UnknownClient = "unknown"
)

var ErrRateLimited = errors.New("rate limit exceeded")

// Store records admitted requests per client. Admit must prune entries at
// least window old, admit only when fewer than limit remain, and record the
// admission, all as one step relative to other calls for the same key.
// A rejected call must not record anything.
type Store interface {
	Admit(ctx context.Context, key string, now time.Time) (bool, error)
	Clients() int
}

// Limiter is a trailing-window request counter keyed by client.
type Limiter struct {
	store Store
	now   func() time.Time
}

func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store, now: time.Now}
}

// Allow returns ErrRateLimited when key has used its budget for the window.
func (l *Limiter) Allow(ctx context.Context, key string) error {
	if key == "" {
		key = UnknownClient
	}
	ok, err := l.store.Admit(ctx, key, l.now())
	if err != nil {
		return fmt.Errorf("rate limit store: %w", err)
	}
	if !ok {
		return ErrRateLimited
	}
	return nil
}

// Clients reports how many client keys the store is tracking.
func (l *Limiter) Clients() int {
	return l.store.Clients()
}
