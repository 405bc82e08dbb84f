package store

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pgtodo/internal/models"
)

var tracer = otel.Tracer("pgtodo/internal/store")

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Hello runs the scalar probe query.
func Hello(ctx context.Context, q Querier) (msg string, err error) {
	ctx, span := startSpan(ctx, "todos.hello")
	defer func() { endSpan(span, err) }()

	msg, err = q.Hello(ctx)
	if err != nil {
		return "", wrap("hello", err)
	}
	return msg, nil
}

// ListTodos returns every todo ordered by id, windowed by page.
func ListTodos(ctx context.Context, q Querier, page models.Pagination) (todos []models.Todo, err error) {
	ctx, span := startSpan(ctx, "todos.list", attribute.Int("page.offset", page.Offset))
	defer func() { endSpan(span, err) }()

	if page.Offset < 0 || (page.Limit != nil && *page.Limit < 0) {
		return nil, &Error{Kind: KindInvalid, Op: "list todos", Err: errors.New("offset and limit must be non-negative")}
	}

	all, err := q.SelectTodos(ctx)
	if err != nil {
		return nil, wrap("list todos", err)
	}

	return page.Window(all), nil
}

// CreateTodo inserts a new, not yet completed todo and returns its id.
func CreateTodo(ctx context.Context, q Querier, in models.CreateTodo) (id int64, err error) {
	ctx, span := startSpan(ctx, "todos.create")
	defer func() { endSpan(span, err) }()

	if err := in.Validate(); err != nil {
		return 0, &Error{Kind: KindInvalid, Op: "create todo", Err: err}
	}

	id, err = q.InsertTodo(ctx, in.Title)
	if err != nil {
		return 0, wrap("create todo", err)
	}

	span.SetAttributes(attribute.Int64("todo.id", id))
	return id, nil
}

// UpdateTodo fetches the todo, applies the supplied fields of patch and
// writes the merged row back. Both a missing row at fetch time and a row
// deleted before the write are reported as KindMissingRow.
func UpdateTodo(ctx context.Context, q Querier, id int64, patch models.TodoPatch) (todo models.Todo, err error) {
	ctx, span := startSpan(ctx, "todos.update", attribute.Int64("todo.id", id))
	defer func() { endSpan(span, err) }()

	if err := patch.Validate(); err != nil {
		return models.Todo{}, &Error{Kind: KindInvalid, Op: "update todo", Err: err}
	}

	todo, err = q.SelectTodo(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return models.Todo{}, &Error{Kind: KindMissingRow, Op: "update todo", Err: fmt.Errorf("todo %d: %w", id, err)}
		}
		return models.Todo{}, wrap("update todo", err)
	}

	patch.Apply(&todo)

	n, err := q.UpdateTodo(ctx, todo)
	if err != nil {
		return models.Todo{}, wrap("update todo", err)
	}
	if n == 0 {
		return models.Todo{}, &Error{Kind: KindMissingRow, Op: "update todo", Err: fmt.Errorf("todo %d: %w", id, errRowVanished)}
	}

	return todo, nil
}

// DeleteTodo removes the todo. Deleting an id that does not exist reports
// KindNotFound.
func DeleteTodo(ctx context.Context, q Querier, id int64) (err error) {
	ctx, span := startSpan(ctx, "todos.delete", attribute.Int64("todo.id", id))
	defer func() { endSpan(span, err) }()

	n, err := q.DeleteTodo(ctx, id)
	if err != nil {
		return wrap("delete todo", err)
	}
	if n == 0 {
		return &Error{Kind: KindNotFound, Op: "delete todo", Err: fmt.Errorf("todo %d not found", id)}
	}
	return nil
}
