package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRows is returned by Querier.SelectTodo when the row does not exist.
	ErrNoRows = errors.New("no rows in result set")

	// ErrPoolTimeout is returned by Acquire when no connection became
	// available within the acquire timeout.
	ErrPoolTimeout = errors.New("pool timed out while waiting for an open connection")

	// ErrPoolClosed is returned by Acquire after Close.
	ErrPoolClosed = errors.New("attempted to acquire a connection on a closed pool")

	errRowVanished = errors.New("row was deleted before the update was written")
)

// Kind classifies store failures.
type Kind uint8

const (
	// KindStore is any failed statement: syntax, constraint, connectivity.
	KindStore Kind = iota + 1
	// KindPool means no connection could be checked out.
	KindPool
	// KindNotFound means a delete matched no row.
	KindNotFound
	// KindMissingRow means the row an update targets is absent, either at
	// fetch time or by the time the merged row is written.
	KindMissingRow
	// KindInvalid means the operation's input was rejected before any
	// statement ran.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindStore:
		return "store"
	case KindPool:
		return "pool"
	case KindNotFound:
		return "not_found"
	case KindMissingRow:
		return "missing_row"
	case KindInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Error is the error type produced by the todo operations and pools.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err. Errors that did not come from this
// package are reported as KindStore.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}

// wrap attaches op to err, keeping the Kind of errors that are already
// classified.
func wrap(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return &Error{Kind: e.Kind, Op: op, Err: err}
	}
	return &Error{Kind: KindStore, Op: op, Err: err}
}
