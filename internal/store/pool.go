package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"pgtodo/internal/models"
)

// Config describes how to open a Pool.
type Config struct {
	// Driver is one of "postgres", "mysql" or "sqlite3".
	Driver string
	// URL is the connection string, or the database file for sqlite3.
	URL string

	MaxConns       int
	AcquireTimeout time.Duration
}

const (
	defaultMaxConns       = 5
	defaultAcquireTimeout = 3 * time.Second
)

func (c Config) withDefaults() Config {
	if c.MaxConns <= 0 {
		c.MaxConns = defaultMaxConns
	}
	if c.AcquireTimeout <= 0 {
		c.AcquireTimeout = defaultAcquireTimeout
	}
	return c
}

// lease is a checked-out connection. The release func runs at most once.
type lease struct {
	Querier
	once    sync.Once
	release func()
}

func newLease(q Querier, release func()) *lease {
	return &lease{Querier: q, release: release}
}

func (l *lease) Release() {
	l.once.Do(l.release)
}

// counters tracks acquire outcomes shared by both pool implementations.
type counters struct {
	acquires atomic.Int64
	timeouts atomic.Int64
	releases atomic.Int64
	closed   atomic.Bool
}

func (c *counters) checkOpen() error {
	if c.closed.Load() {
		return &Error{Kind: KindPool, Op: "acquire", Err: ErrPoolClosed}
	}
	return nil
}

// acquireContext bounds ctx by the acquire timeout.
func acquireContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// acquireError classifies an acquire failure. A deadline that came from the
// acquire timeout rather than the caller is reported as ErrPoolTimeout.
func (c *counters) acquireError(parent context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		c.timeouts.Add(1)
		return &Error{Kind: KindPool, Op: "acquire", Err: ErrPoolTimeout}
	}
	return &Error{Kind: KindPool, Op: "acquire", Err: err}
}

// pooled implements Querier for a pool by checking out one connection per
// statement.
type pooled struct {
	acquire func(ctx context.Context) (Conn, error)
}

func withConn[T any](ctx context.Context, p pooled, fn func(Conn) (T, error)) (T, error) {
	c, err := p.acquire(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	defer c.Release()

	return fn(c)
}

func (p pooled) Hello(ctx context.Context) (string, error) {
	return withConn(ctx, p, func(c Conn) (string, error) { return c.Hello(ctx) })
}

func (p pooled) SelectTodos(ctx context.Context) ([]models.Todo, error) {
	return withConn(ctx, p, func(c Conn) ([]models.Todo, error) { return c.SelectTodos(ctx) })
}

func (p pooled) SelectTodo(ctx context.Context, id int64) (models.Todo, error) {
	return withConn(ctx, p, func(c Conn) (models.Todo, error) { return c.SelectTodo(ctx, id) })
}

func (p pooled) InsertTodo(ctx context.Context, title string) (int64, error) {
	return withConn(ctx, p, func(c Conn) (int64, error) { return c.InsertTodo(ctx, title) })
}

func (p pooled) UpdateTodo(ctx context.Context, todo models.Todo) (int64, error) {
	return withConn(ctx, p, func(c Conn) (int64, error) { return c.UpdateTodo(ctx, todo) })
}

func (p pooled) DeleteTodo(ctx context.Context, id int64) (int64, error) {
	return withConn(ctx, p, func(c Conn) (int64, error) { return c.DeleteTodo(ctx, id) })
}

// WaitReady pings the pool until it answers, giving up after maxAttempts.
func WaitReady(ctx context.Context, p Pool, logger *zap.Logger, maxAttempts int, interval time.Duration) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for i := 1; i <= maxAttempts; i++ {
		if err = p.Ping(ctx); err == nil {
			return nil
		}

		logger.Warn("failed to ping database",
			zap.Int("attempt", i),
			zap.Int("maxAttempts", maxAttempts),
			zap.Error(err),
		)

		if i == maxAttempts {
			break
		}

		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return fmt.Errorf("database not reachable after %d attempts: %w", maxAttempts, err)
}
