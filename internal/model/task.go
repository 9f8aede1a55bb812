package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists every valid status in workflow order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// ErrInvalidStatus is returned for a status outside the vocabulary.
var ErrInvalidStatus = errors.New("invalid status")

// Valid reports whether s is one of Statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Next returns the status that follows s, wrapping done back to todo.
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusTodo
	}
}

// ParseStatus matches s exactly against the status vocabulary.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w %q, must be one of: todo, in-progress, done", ErrInvalidStatus, s)
	}
	return st, nil
}

// Task is one trackable unit of work.
//
// Fields are declared in key order so the encoded document comes out with
// sorted keys.
type Task struct {
	CreatedAt   Timestamp `json:"created_at"`
	Description string    `json:"description"`
	ID          int       `json:"id"`
	Status      Status    `json:"status"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// NewTask builds a task in the todo state. The id comes from the caller's
// id counter, never from user input.
func NewTask(id int, description string, createdAt, updatedAt time.Time) Task {
	return Task{
		ID:          id,
		Description: description,
		Status:      StatusTodo,
		CreatedAt:   NewTimestamp(createdAt),
		UpdatedAt:   NewTimestamp(updatedAt),
	}
}

// Validate checks the field rules of a single record.
func (t Task) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("id must be positive, got %d", t.ID)
	}
	if strings.TrimSpace(t.Description) == "" {
		return errors.New("description is empty")
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidStatus, t.Status)
	}
	return nil
}
