package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/task-cli/internal/config"
	"github.com/idilsaglam/task-cli/internal/manager"
	"github.com/idilsaglam/task-cli/internal/model"
	"github.com/idilsaglam/task-cli/internal/ui"
)

const (
	promptText = "task-cli "
	introText  = "Welcome to TaskCLI. Type 'help' for available commands."
)

// Store is what the shell needs beyond the manager: display and checks.
type Store interface {
	Path() string
	Render(tasks []model.Task) (string, error)
	Check() ([]string, error)
}

// Shell turns one line of input into one manager call and prints the result.
type Shell struct {
	mgr    *manager.Manager
	store  Store
	cfg    config.Config
	p      *ui.Printer
	logger *log.Logger

	commands map[string]*command
}

type command struct {
	name  string
	usage string
	help  string
	run   func(s *Shell, arg string) error
	// runArgs, when set, takes arguments that were already split by the
	// caller's shell.
	runArgs func(s *Shell, args []string) error
}

// usageError is bad or missing input. The session continues.
type usageError struct {
	msg    string
	detail string
}

func (e *usageError) Error() string {
	if e.detail == "" {
		return e.msg
	}
	return e.msg + ": " + e.detail
}

// errQuit ends the session.
var errQuit = errors.New("quit")

func NewShell(mgr *manager.Manager, store Store, cfg config.Config, p *ui.Printer, logger *log.Logger) *Shell {
	s := &Shell{
		mgr:      mgr,
		store:    store,
		cfg:      cfg,
		p:        p,
		logger:   logger,
		commands: make(map[string]*command),
	}
	for _, c := range commandTable() {
		s.commands[c.name] = c
	}
	return s
}

// Names lists command names in sorted order.
func (s *Shell) Names() []string {
	names := make([]string, 0, len(s.commands))
	for n := range s.commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Exec runs one input line. stop is true when the session should end.
// Errors have already been reported to the user; the return value only
// drives exit codes.
func (s *Shell) Exec(line string) (stop bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	c, ok := s.commands[name]
	if !ok {
		return s.unknown(name)
	}
	return s.finish(name, c.run(s, arg))
}

// ExecArgs runs one command from pre-split arguments, as given on the
// process command line.
func (s *Shell) ExecArgs(args []string) (stop bool, err error) {
	if len(args) == 0 {
		return false, nil
	}
	c, ok := s.commands[args[0]]
	if !ok || c.runArgs == nil {
		return s.Exec(strings.Join(args, " "))
	}
	return s.finish(c.name, c.runArgs(s, args[1:]))
}

func (s *Shell) unknown(name string) (bool, error) {
	err := &usageError{msg: "unknown command: " + name, detail: "Type 'help' for available commands."}
	s.report(err)
	return false, err
}

func (s *Shell) finish(name string, err error) (bool, error) {
	s.logger.Debug("command", "name", name)
	if errors.Is(err, errQuit) {
		return true, nil
	}
	if err != nil {
		s.report(err)
	}
	return false, err
}

func (s *Shell) report(err error) {
	var ue *usageError
	var nf *notFoundError
	switch {
	case errors.As(err, &ue):
		s.p.Fail(ue.msg)
		if ue.detail != "" {
			s.p.Hint(ue.detail)
		}
	case errors.As(err, &nf):
		s.p.Fail(nf.Error())
	default:
		s.logger.Debug("command failed", "err", err)
		s.p.Fail(err.Error())
	}
}

// ExitCode maps an Exec error to a process exit status:
// 0 ok, 1 failure, 2 usage.
func ExitCode(err error) int {
	var ue *usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue):
		return 2
	default:
		return 1
	}
}

type notFoundError struct {
	id int
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("No task with id=%d was found. Check!", e.id)
}

func (e *notFoundError) Unwrap() error { return manager.ErrNotFound }

// translate turns manager errors for id into user-facing errors.
func translate(id int, err error) error {
	if errors.Is(err, manager.ErrNotFound) {
		return &notFoundError{id: id}
	}
	return err
}
