// Package manager owns the task lifecycle: id assignment, lookup and the
// read-modify-write cycle against the store.
package manager

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/task-cli/internal/model"
)

var (
	ErrNotFound         = errors.New("task not found")
	ErrEmptyDescription = errors.New("description is empty")
	ErrInvalidStatus    = model.ErrInvalidStatus
	ErrStoreNil         = errors.New("task store is nil")
)

// Store is the persistence the manager needs. jsonstore.Store satisfies it.
type Store interface {
	Read() ([]model.Task, error)
	Write(tasks []model.Task) error
	Append(task model.Task, existing []model.Task) error
	Lock() (func() error, error)
}

// Update carries the optional fields of UpdateTask. Nil means unchanged.
type Update struct {
	Description *string
	Status      *model.Status
}

// Summary counts tasks per status.
type Summary struct {
	Total      int
	Todo       int
	InProgress int
	Done       int
}

// Manager is not safe for concurrent use. The id counter is seeded once in
// New; another process writing the same store may assign the same ids.
type Manager struct {
	store  Store
	logger *log.Logger
	now    func() time.Time
	nextID int
}

type Option func(*Manager)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New seeds the id counter from the highest id currently stored.
func New(store Store, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	m := &Manager{
		store:  store,
		logger: log.New(io.Discard),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}

	tasks, err := store.Read()
	if err != nil {
		return nil, fmt.Errorf("seed id counter: %w", err)
	}
	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	m.nextID = maxID + 1
	m.logger.Debug("id counter seeded", "next_id", m.nextID, "count", len(tasks))
	return m, nil
}

// NextID is the id the next AddTask will assign.
func (m *Manager) NextID() int { return m.nextID }

func (m *Manager) AddTask(description string) (model.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return model.Task{}, ErrEmptyDescription
	}

	var task model.Task
	err := m.locked(func() error {
		existing, err := m.store.Read()
		if err != nil {
			return err
		}
		now := m.now()
		task = model.NewTask(m.nextID, description, now, now)
		if err := m.store.Append(task, existing); err != nil {
			return err
		}
		m.nextID++
		return nil
	})
	if err != nil {
		return model.Task{}, err
	}
	m.logger.Debug("task added", "id", task.ID)
	return task, nil
}

// UpdateTask applies the provided fields and always refreshes updated_at,
// even when upd is empty.
func (m *Manager) UpdateTask(id int, upd Update) (model.Task, error) {
	var description string
	if upd.Description != nil {
		description = strings.TrimSpace(*upd.Description)
		if description == "" {
			return model.Task{}, ErrEmptyDescription
		}
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return model.Task{}, fmt.Errorf("%w %q", ErrInvalidStatus, *upd.Status)
	}

	var updated model.Task
	err := m.locked(func() error {
		tasks, err := m.store.Read()
		if err != nil {
			return err
		}
		i, ok := indexByID(tasks)[id]
		if !ok {
			return fmt.Errorf("%w: id=%d", ErrNotFound, id)
		}
		if upd.Description != nil {
			tasks[i].Description = description
		}
		if upd.Status != nil {
			tasks[i].Status = *upd.Status
		}
		tasks[i].UpdatedAt = model.NewTimestamp(m.now())
		if err := m.store.Write(tasks); err != nil {
			return err
		}
		updated = tasks[i]
		return nil
	})
	if err != nil {
		return model.Task{}, err
	}
	m.logger.Debug("task updated", "id", id, "status", updated.Status)
	return updated, nil
}

func (m *Manager) DeleteTask(id int) error {
	err := m.locked(func() error {
		tasks, err := m.store.Read()
		if err != nil {
			return err
		}
		i, ok := indexByID(tasks)[id]
		if !ok {
			return fmt.Errorf("%w: id=%d", ErrNotFound, id)
		}
		remaining := make([]model.Task, 0, len(tasks)-1)
		remaining = append(remaining, tasks[:i]...)
		remaining = append(remaining, tasks[i+1:]...)
		return m.store.Write(remaining)
	})
	if err != nil {
		return err
	}
	m.logger.Debug("task deleted", "id", id)
	return nil
}

func (m *Manager) MarkInProgress(id int) (model.Task, error) {
	st := model.StatusInProgress
	return m.UpdateTask(id, Update{Status: &st})
}

func (m *Manager) MarkDone(id int) (model.Task, error) {
	st := model.StatusDone
	return m.UpdateTask(id, Update{Status: &st})
}

// ListByStatus returns every task when status is empty, otherwise the tasks
// whose status matches exactly, in stored order.
func (m *Manager) ListByStatus(status model.Status) ([]model.Task, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w %q", ErrInvalidStatus, status)
	}
	tasks, err := m.store.Read()
	if err != nil {
		return nil, err
	}
	if status == "" {
		return tasks, nil
	}
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *Manager) Summary() (Summary, error) {
	tasks, err := m.store.Read()
	if err != nil {
		return Summary{}, err
	}
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case model.StatusTodo:
			s.Todo++
		case model.StatusInProgress:
			s.InProgress++
		case model.StatusDone:
			s.Done++
		}
	}
	return s, nil
}

// locked runs fn while holding the store's advisory lock.
func (m *Manager) locked(fn func() error) (err error) {
	unlock, err := m.store.Lock()
	if err != nil {
		return err
	}
	defer func() {
		if uerr := unlock(); uerr != nil && err == nil {
			err = fmt.Errorf("unlock store: %w", uerr)
		}
	}()
	return fn()
}

// indexByID maps id to position. On duplicate ids the first entry wins.
func indexByID(tasks []model.Task) map[int]int {
	idx := make(map[int]int, len(tasks))
	for i, t := range tasks {
		if _, seen := idx[t.ID]; !seen {
			idx[t.ID] = i
		}
	}
	return idx
}
