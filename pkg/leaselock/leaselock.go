// Package leaselock provides a table-backed lease lock so that only one
// process at a time runs a graph rebuild, even with several workers consuming
// the same queue from different hosts.
package leaselock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrBusy = errors.New("lease lock busy")
	ErrLost = errors.New("lease lock lost")
)

type dbConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Client struct {
	db dbConn
}

type Options struct {
	TTL        time.Duration
	RenewEvery time.Duration
}

// Lease is a held lock. Context is canceled when the lease is released or
// lost, so long-running work under the lease should run off it.
type Lease struct {
	Key     string
	Token   string
	Context context.Context

	client *Client
	cancel context.CancelCauseFunc

	stopOnce sync.Once
	stopCh   chan struct{}
}

func New(pool *pgxpool.Pool) *Client {
	return &Client{db: pool}
}

// WithLease runs fn while holding the lock for key. Returns ErrBusy without
// calling fn when another holder owns the lock.
func (c *Client) WithLease(ctx context.Context, key string, opts Options, fn func(ctx context.Context) error) error {
	lease, err := c.Acquire(ctx, key, opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = lease.Release(context.Background())
	}()
	return fn(lease.Context)
}

func (c *Client) Acquire(ctx context.Context, key string, opts Options) (*Lease, error) {
	if key == "" {
		return nil, errors.New("lease lock key is empty")
	}

	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.RenewEvery <= 0 || opts.RenewEvery >= opts.TTL {
		opts.RenewEvery = max(opts.TTL/2, time.Second)
	}
	ttlMs := opts.TTL.Milliseconds()

	token, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	var returnedKey string
	err = c.db.QueryRow(ctx, tryAcquireSQL, key, token, ttlMs).Scan(&returnedKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBusy
	}
	if err != nil {
		return nil, err
	}

	leaseCtx, cancel := context.WithCancelCause(ctx)
	l := &Lease{
		Key:     key,
		Token:   token,
		Context: leaseCtx,
		client:  c,
		cancel:  cancel,
		stopCh:  make(chan struct{}),
	}

	go l.renewLoop(opts.RenewEvery, ttlMs)

	return l, nil
}

func (l *Lease) Release(ctx context.Context) error {
	l.stopOnce.Do(func() {
		close(l.stopCh)
		l.cancel(context.Canceled)
	})

	_, err := l.client.db.Exec(ctx, releaseSQL, l.Key, l.Token)
	return err
}

func (l *Lease) renewLoop(every time.Duration, ttlMs int64) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-l.Context.Done():
			return
		case <-t.C:
			if err := l.renewOnce(ttlMs); err != nil {
				l.cancel(err)
				return
			}
		}
	}
}

func (l *Lease) renewOnce(ttlMs int64) error {
	renewCtx, cancel := context.WithTimeout(l.Context, 15*time.Second)
	defer cancel()

	var returnedKey string
	err := l.client.db.QueryRow(renewCtx, renewSQL, l.Key, l.Token, ttlMs).Scan(&returnedKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrLost
	}
	return err
}

const tryAcquireSQL = `
INSERT INTO app_locks (lock_key, locked_by, expires_at)
VALUES ($1, $2, now() + ($3::bigint * interval '1 millisecond'))
ON CONFLICT (lock_key) DO UPDATE
SET locked_by  = EXCLUDED.locked_by,
    expires_at = EXCLUDED.expires_at
WHERE app_locks.expires_at < now()
   OR app_locks.locked_by = EXCLUDED.locked_by
RETURNING lock_key;
`

const renewSQL = `
UPDATE app_locks
SET expires_at = now() + ($3::bigint * interval '1 millisecond')
WHERE lock_key = $1 AND locked_by = $2
RETURNING lock_key;
`

const releaseSQL = `
DELETE FROM app_locks
WHERE lock_key = $1 AND locked_by = $2;
`
