package models

import (
	"errors"
	"strings"
)

// ErrTitleRequired is returned when a title is missing or blank.
var ErrTitleRequired = errors.New("title is required")

// Todo represents a single todo item.
type Todo struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// CreateTodo is the body accepted by the create endpoint.
type CreateTodo struct {
	Title string `json:"title"`
}

// Validate checks that the new todo has a usable title.
func (c *CreateTodo) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// TodoPatch is a partial update. A nil field leaves the stored value unchanged.
type TodoPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Validate checks the fields that were supplied.
func (p *TodoPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// Apply merges the supplied fields onto t.
func (p *TodoPatch) Apply(t *Todo) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}
