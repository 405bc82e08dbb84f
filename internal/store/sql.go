package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"pgtodo/internal/models"
)

// SQLPool implements Pool on top of database/sql. A checked-out connection
// is a *sql.Conn; database/sql discards connections the driver reports as
// broken and dials replacements on demand.
type SQLPool struct {
	pooled

	db      *sql.DB
	dialect dialect
	timeout time.Duration
	logger  *zap.Logger
	stats   counters
}

// newSQLPool wraps db. The pool size is taken from cfg.MaxConns.
func newSQLPool(db *sql.DB, d dialect, cfg Config, logger *zap.Logger) *SQLPool {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)

	p := &SQLPool{
		db:      db,
		dialect: d,
		timeout: cfg.AcquireTimeout,
		logger:  logger,
	}
	p.pooled = pooled{acquire: p.Acquire}
	return p
}

// OpenSQLite opens the sqlite3 database at path.
func OpenSQLite(path string, cfg Config, logger *zap.Logger) (*SQLPool, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is its own database.
	if path == ":memory:" {
		cfg.MaxConns = 1
	}

	return newSQLPool(db, dialectSQLite, cfg, logger), nil
}

// OpenMySQL opens a MySQL database from a go-sql-driver DSN.
func OpenMySQL(dsn string, cfg Config, logger *zap.Logger) (*SQLPool, error) {
	mcfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	// Report matched rather than changed rows so a no-op update is not
	// mistaken for a vanished row.
	mcfg.ClientFoundRows = true
	mcfg.ParseTime = true

	connector, err := mysql.NewConnector(mcfg)
	if err != nil {
		return nil, fmt.Errorf("create mysql connector: %w", err)
	}

	return newSQLPool(sql.OpenDB(connector), dialectMySQL, cfg, logger), nil
}

// Acquire checks out a dedicated *sql.Conn.
func (p *SQLPool) Acquire(ctx context.Context) (_ Conn, err error) {
	if err := p.stats.checkOpen(); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "pool.acquire")
	defer func() { endSpan(span, err) }()

	actx, cancel := acquireContext(ctx, p.timeout)
	defer cancel()

	c, err := p.db.Conn(actx)
	if err != nil {
		return nil, p.stats.acquireError(ctx, err)
	}
	p.stats.acquires.Add(1)

	return newLease(&sqlQuerier{db: c}, func() {
		if err := c.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			p.logger.Warn("failed to return connection", zap.Error(err))
		}
		p.stats.releases.Add(1)
	}), nil
}

// Ping checks connectivity through the pool.
func (p *SQLPool) Ping(ctx context.Context) error {
	ctx, cancel := acquireContext(ctx, p.timeout)
	defer cancel()
	return p.db.PingContext(ctx)
}

// Stat reports database/sql pool usage.
func (p *SQLPool) Stat() PoolStat {
	s := p.db.Stats()
	return PoolStat{
		Acquired: s.InUse,
		Idle:     s.Idle,
		Total:    s.OpenConnections,
		Max:      s.MaxOpenConnections,
		Acquires: p.stats.acquires.Load(),
		Timeouts: p.stats.timeouts.Load(),
		Releases: p.stats.releases.Load(),
	}
}

// Close closes the underlying *sql.DB.
func (p *SQLPool) Close() {
	p.stats.closed.Store(true)
	p.logger.Info("closing database pool", zap.Int("open_conns", p.db.Stats().OpenConnections))
	if err := p.db.Close(); err != nil {
		p.logger.Warn("failed to close database", zap.Error(err))
	}
}

// Migrate applies the embedded migrations for the pool's dialect.
func (p *SQLPool) Migrate(ctx context.Context) error {
	return runMigrations(ctx, p.db, p.dialect)
}

// sqlExecer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type sqlExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlQuerier struct {
	db sqlExecer
}

func (q *sqlQuerier) Hello(ctx context.Context) (string, error) {
	var msg string
	if err := q.db.QueryRowContext(ctx, helloQuery).Scan(&msg); err != nil {
		return "", fmt.Errorf("failed to run probe query: %w", err)
	}
	return msg, nil
}

func (q *sqlQuerier) SelectTodos(ctx context.Context) ([]models.Todo, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, title, completed FROM todos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, t)
	}

	return todos, rows.Err()
}

func (q *sqlQuerier) SelectTodo(ctx context.Context, id int64) (models.Todo, error) {
	var t models.Todo
	err := q.db.QueryRowContext(ctx, `SELECT id, title, completed FROM todos WHERE id = ?`, id).
		Scan(&t.ID, &t.Title, &t.Completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Todo{}, ErrNoRows
		}
		return models.Todo{}, fmt.Errorf("failed to get todo: %w", err)
	}
	return t, nil
}

func (q *sqlQuerier) InsertTodo(ctx context.Context, title string) (int64, error) {
	result, err := q.db.ExecContext(ctx, `INSERT INTO todos (title) VALUES (?)`, title)
	if err != nil {
		return 0, fmt.Errorf("failed to create todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

func (q *sqlQuerier) UpdateTodo(ctx context.Context, t models.Todo) (int64, error) {
	result, err := q.db.ExecContext(ctx, `UPDATE todos SET title = ?, completed = ? WHERE id = ?`, t.Title, t.Completed, t.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to update todo: %w", err)
	}
	return result.RowsAffected()
}

func (q *sqlQuerier) DeleteTodo(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete todo: %w", err)
	}
	return result.RowsAffected()
}
