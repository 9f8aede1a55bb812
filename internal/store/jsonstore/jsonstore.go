package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"

	"github.com/idilsaglam/task-cli/internal/model"
)

// JSON-backed storage. Single file, human-readable, portable.
// Every write replaces the whole document through a temp file + rename.

const DataFileName = "tasks.json"

const indent = "    "

// Store reads and writes the full task collection at one path.
type Store struct {
	path    string
	locking bool
	logger  *log.Logger
}

type Option func(*Store)

// WithLocking toggles the advisory lock taken by Lock.
func WithLocking(enabled bool) Option {
	return func(s *Store) { s.locking = enabled }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(path string, opts ...Option) *Store {
	s := &Store{
		path:    path,
		locking: true,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultPath returns tasks.json next to the running executable, falling
// back to the working directory.
func DefaultPath() (string, error) {
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Join(filepath.Dir(exe), DataFileName), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, DataFileName), nil
}

func (s *Store) Path() string { return s.path }

// Read loads the collection. A missing document, or one that is not valid
// JSON, reads as an empty collection. Valid JSON of the wrong shape is an
// error so that the next write cannot discard it.
func (s *Store) Read() ([]model.Task, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("store missing, starting empty", "path", s.path)
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	if !json.Valid(b) {
		s.logger.Debug("store is not valid JSON, treating as empty", "path", s.path)
		return []model.Task{}, nil
	}
	// Valid JSON that is not a task list is never replaced silently.
	var tasks []model.Task
	if err := json.Unmarshal(b, &tasks); err != nil {
		s.logger.Warn("store does not decode as tasks", "path", s.path, "err", err)
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	s.logger.Debug("store read", "path", s.path, "count", len(tasks))
	return tasks, nil
}

// Write replaces the document with exactly tasks. On failure the previous
// document is left in place.
func (s *Store) Write(tasks []model.Task) error {
	b, err := encode(tasks)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := writeFileAtomic(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	s.logger.Debug("store written", "path", s.path, "count", len(tasks))
	return nil
}

// Append adds task to a previously read collection and writes the result.
func (s *Store) Append(task model.Task, existing []model.Task) error {
	out := make([]model.Task, 0, len(existing)+1)
	out = append(out, existing...)
	out = append(out, task)
	return s.Write(out)
}

// Render returns the document form of tasks without touching the disk.
func (s *Store) Render(tasks []model.Task) (string, error) {
	b, err := encode(tasks)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return string(bytes.TrimRight(b, "\n")), nil
}

// Lock takes an advisory lock on <path>.lock for one read-modify-write
// cycle. The returned func releases it.
func (s *Store) Lock() (func() error, error) {
	if !s.locking {
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	fl := flock.New(s.path + ".lock")
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("lock store: %w", err)
	}
	return fl.Unlock, nil
}

func encode(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(tasks); err != nil {
		return nil, err
	}
	return unescapeLineSeparators(buf.Bytes()), nil
}

// unescapeLineSeparators writes U+2028 and U+2029 as literal characters.
// encoding/json escapes them even with HTML escaping off.
func unescapeLineSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		// Every escape is consumed whole so an escaped backslash is never
		// read as the start of another escape.
		if rest := b[i+1:]; bytes.HasPrefix(rest, []byte("u2028")) || bytes.HasPrefix(rest, []byte("u2029")) {
			r := '\u2028'
			if rest[4] == '9' {
				r = '\u2029'
			}
			out = utf8.AppendRune(out, r)
			i += 5
			continue
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return syncDir(dir)
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	// Some filesystems refuse fsync on directories; the rename already happened.
	_ = f.Sync()
	return nil
}
