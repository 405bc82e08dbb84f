package store

import (
	"context"

	"pgtodo/internal/models"
)

// Querier issues the statements the todo operations are built from.
// It is implemented both by a Pool, where every call borrows and returns its
// own connection, and by a Conn checked out for the duration of a request.
type Querier interface {
	Hello(ctx context.Context) (string, error)
	SelectTodos(ctx context.Context) ([]models.Todo, error)
	// SelectTodo returns ErrNoRows when id does not exist.
	SelectTodo(ctx context.Context, id int64) (models.Todo, error)
	InsertTodo(ctx context.Context, title string) (int64, error)
	// UpdateTodo and DeleteTodo return the affected-row count.
	UpdateTodo(ctx context.Context, todo models.Todo) (int64, error)
	DeleteTodo(ctx context.Context, id int64) (int64, error)
}

// Conn is a single connection checked out of a Pool. It is owned by one
// caller until Release, which returns it to the pool. Release is safe to call
// more than once; the Conn must not be used afterwards.
type Conn interface {
	Querier
	Release()
}

// Pool is a bounded set of database connections shared by all requests.
type Pool interface {
	Querier

	// Acquire checks out one connection, waiting up to the configured
	// acquire timeout when every connection is in use.
	Acquire(ctx context.Context) (Conn, error)
	Ping(ctx context.Context) error
	Stat() PoolStat

	// Migrate brings the todos schema up to date.
	Migrate(ctx context.Context) error

	// Close closes every idle connection and stops handing out new ones.
	// Connections still checked out are closed as they are released.
	Close()
}

// PoolStat is a point-in-time snapshot of pool usage.
type PoolStat struct {
	Acquired int
	Idle     int
	Total    int
	Max      int

	Acquires int64
	Timeouts int64
	Releases int64
}
