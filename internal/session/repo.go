package session

import (
	"context"
	"errors"
	"time"

	"github.com/mind-engage/mindengage-quiz/internal/quiz"
)

var ErrNotFound = errors.New("quiz session not found")

// Policy bounds how long sessions live and how many are kept.
// Zero values disable the corresponding limit.
type Policy struct {
	TTL         time.Duration
	MaxSessions int
}

type ListOpts struct {
	Limit  int
	Offset int
}

// Store holds quiz sessions keyed by their generated id. Sessions are
// immutable once stored; Put with an existing id replaces the entry.
type Store interface {
	Put(ctx context.Context, s quiz.Session) error
	Get(ctx context.Context, id string) (quiz.Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOpts) ([]quiz.Summary, error)
	// Sweep drops expired sessions and reports how many were removed.
	Sweep(ctx context.Context) (int, error)
}

type Option func(*options)

type options struct {
	now      func() time.Time
	onRemove func(id string)
}

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// WithOnRemove registers a hook run after a session leaves the store by
// expiry, eviction or deletion. It is never called with a lock held.
func WithOnRemove(fn func(id string)) Option { return func(o *options) { o.onRemove = fn } }

func buildOptions(opts []Option) options {
	o := options{now: time.Now, onRemove: func(string) {}}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func (p Policy) expiresAt(stored time.Time) time.Time {
	if p.TTL <= 0 {
		return time.Time{}
	}
	return stored.Add(p.TTL)
}

func expired(exp, now time.Time) bool {
	return !exp.IsZero() && !now.Before(exp)
}

func normalizeList(opts ListOpts) ListOpts {
	if opts.Limit <= 0 || opts.Limit > 200 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return opts
}
