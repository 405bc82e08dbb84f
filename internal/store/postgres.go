package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"pgtodo/internal/models"
)

// PGPool implements Pool with pgxpool. pgxpool destroys a released
// connection that is closed or still inside a transaction, and dials a
// replacement the next time one is needed.
type PGPool struct {
	pooled

	pool   *pgxpool.Pool
	cfg    Config
	logger *zap.Logger
	stats  counters
}

// OpenPostgres creates a pgx pool for databaseURL.
func OpenPostgres(ctx context.Context, databaseURL string, cfg Config, logger *zap.Logger) (*PGPool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	config.MaxConns = int32(cfg.MaxConns)
	config.MinConns = 0

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	p := &PGPool{
		pool:   pool,
		cfg:    cfg,
		logger: logger,
	}
	p.pooled = pooled{acquire: p.Acquire}
	return p, nil
}

// Acquire checks out a dedicated *pgxpool.Conn.
func (p *PGPool) Acquire(ctx context.Context) (_ Conn, err error) {
	if err := p.stats.checkOpen(); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "pool.acquire")
	defer func() { endSpan(span, err) }()

	actx, cancel := acquireContext(ctx, p.cfg.AcquireTimeout)
	defer cancel()

	c, err := p.pool.Acquire(actx)
	if err != nil {
		return nil, p.stats.acquireError(ctx, err)
	}
	p.stats.acquires.Add(1)

	return newLease(&pgQuerier{db: c}, func() {
		c.Release()
		p.stats.releases.Add(1)
	}), nil
}

// Ping checks connectivity through the pool.
func (p *PGPool) Ping(ctx context.Context) error {
	ctx, cancel := acquireContext(ctx, p.cfg.AcquireTimeout)
	defer cancel()
	return p.pool.Ping(ctx)
}

// Stat reports pgxpool usage.
func (p *PGPool) Stat() PoolStat {
	s := p.pool.Stat()
	return PoolStat{
		Acquired: int(s.AcquiredConns()),
		Idle:     int(s.IdleConns()),
		Total:    int(s.TotalConns()),
		Max:      int(s.MaxConns()),
		Acquires: p.stats.acquires.Load(),
		Timeouts: p.stats.timeouts.Load(),
		Releases: p.stats.releases.Load(),
	}
}

// Close waits for checked-out connections and closes the pool.
func (p *PGPool) Close() {
	p.stats.closed.Store(true)
	p.logger.Info("closing database pool", zap.Int32("total_conns", p.pool.Stat().TotalConns()))
	p.pool.Close()
}

// Migrate applies the postgres migrations through a database/sql view of
// the pool.
func (p *PGPool) Migrate(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(p.pool)
	defer db.Close()

	return runMigrations(ctx, db, dialectPostgres)
}

// pgExecer is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type pgExecer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgQuerier struct {
	db pgExecer
}

func (q *pgQuerier) Hello(ctx context.Context) (string, error) {
	var msg string
	if err := q.db.QueryRow(ctx, helloQuery).Scan(&msg); err != nil {
		return "", fmt.Errorf("failed to run probe query: %w", err)
	}
	return msg, nil
}

func (q *pgQuerier) SelectTodos(ctx context.Context) ([]models.Todo, error) {
	rows, err := q.db.Query(ctx, `SELECT id, title, completed FROM todos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	todos, err := pgx.CollectRows(rows, scanTodo)
	if err != nil {
		return nil, fmt.Errorf("failed to scan todos: %w", err)
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

func (q *pgQuerier) SelectTodo(ctx context.Context, id int64) (models.Todo, error) {
	rows, err := q.db.Query(ctx, `SELECT id, title, completed FROM todos WHERE id = $1`, id)
	if err != nil {
		return models.Todo{}, fmt.Errorf("failed to get todo: %w", err)
	}

	t, err := pgx.CollectExactlyOneRow(rows, scanTodo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Todo{}, ErrNoRows
		}
		return models.Todo{}, fmt.Errorf("failed to get todo: %w", err)
	}
	return t, nil
}

func (q *pgQuerier) InsertTodo(ctx context.Context, title string) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `INSERT INTO todos (title) VALUES ($1) RETURNING id`, title).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create todo: %w", err)
	}
	return id, nil
}

func (q *pgQuerier) UpdateTodo(ctx context.Context, t models.Todo) (int64, error) {
	tag, err := q.db.Exec(ctx, `UPDATE todos SET title = $2, completed = $3 WHERE id = $1`, t.ID, t.Title, t.Completed)
	if err != nil {
		return 0, fmt.Errorf("failed to update todo: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (q *pgQuerier) DeleteTodo(ctx context.Context, id int64) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete todo: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanTodo(row pgx.CollectableRow) (models.Todo, error) {
	var t models.Todo
	err := row.Scan(&t.ID, &t.Title, &t.Completed)
	return t, err
}
