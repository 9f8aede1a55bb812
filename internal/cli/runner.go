package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/idilsaglam/task-cli/internal/config"
	"github.com/idilsaglam/task-cli/internal/logging"
	"github.com/idilsaglam/task-cli/internal/manager"
	"github.com/idilsaglam/task-cli/internal/store/jsonstore"
	"github.com/idilsaglam/task-cli/internal/ui"
)

// Options carry root flags and the process streams. Nil streams default
// to the os ones.
type Options struct {
	ConfigPath string
	StorePath  string

	Stdin          io.Reader
	Stdout, Stderr io.Writer
}

func (o *Options) defaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// Run starts a session and returns an exit code (0 ok, 1 error, 2 usage).
// With no args it is interactive; "browse" opens the full-screen list;
// anything else runs as a single command.
func Run(args []string, opt Options) int {
	opt.defaults()

	cfg, err := config.Load(opt.ConfigPath)
	if err != nil {
		bare(opt).Fail(err.Error())
		return 1
	}
	if opt.StorePath != "" {
		cfg.Store.Path = opt.StorePath
	}
	path := cfg.Store.Path
	if path == "" {
		if path, err = jsonstore.DefaultPath(); err != nil {
			bare(opt).Fail(err.Error())
			return 1
		}
	}

	logger := logging.New(cfg.Log, opt.Stderr)
	store := jsonstore.New(path,
		jsonstore.WithLocking(!cfg.Store.DisableLock),
		jsonstore.WithLogger(logger),
	)
	mgr, err := manager.New(store, manager.WithLogger(logger))
	if err != nil {
		bare(opt).Fail(err.Error())
		return 1
	}
	logger.Debug("session", "store", path, "config", cfg.Source)

	theme := ui.ThemeByName(cfg.UI.Theme)
	tty := isTerminal(opt.Stdin) && isTerminal(opt.Stdout)

	switch {
	case len(args) == 0 && tty:
		// Output is captured per command and replayed above the prompt.
		color := cfg.UI.Color
		if strings.EqualFold(color, "auto") {
			color = "always"
		}
		var buf bytes.Buffer
		p := ui.NewPrinter(&buf, &buf, theme, color)
		sh := NewShell(mgr, store, cfg, p, logger)
		if err := runPrompt(sh, &buf, opt.Stdin, opt.Stdout); err != nil {
			bare(opt).Fail(err.Error())
			return 1
		}
		return 0

	case len(args) == 0:
		p := ui.NewPrinter(opt.Stdout, opt.Stderr, theme, cfg.UI.Color)
		if err := NewShell(mgr, store, cfg, p, logger).RunLines(opt.Stdin); err != nil {
			p.Fail(err.Error())
			return 1
		}
		return 0

	case args[0] == "browse":
		p := ui.NewPrinter(opt.Stdout, opt.Stderr, theme, cfg.UI.Color)
		if !tty {
			p.Fail("browse needs an interactive terminal")
			return 2
		}
		if err := runBrowse(mgr, p, opt.Stdin, opt.Stdout); err != nil {
			p.Fail(err.Error())
			return 1
		}
		return 0
	}

	p := ui.NewPrinter(opt.Stdout, opt.Stderr, theme, cfg.UI.Color)
	_, err = NewShell(mgr, store, cfg, p, logger).ExecArgs(args)
	return ExitCode(err)
}

// PrintUsage describes invocation forms. Commands are listed by 'help'.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, `task-cli - a personal task tracker

Usage:
  task-cli [flags]                 interactive shell
  task-cli [flags] browse          full-screen task list
  task-cli [flags] <command> ...   run one command and exit

Flags:
  -config <file>   TOML config file (default $TASK_CLI_CONFIG or user config dir)
  -store <file>    task file (default tasks.json next to the executable)

Examples:
  task-cli add Buy milk
  task-cli mark_done 1
  task-cli list_todo
  task-cli help
`)
}

// bare prints errors that happen before the config is known.
func bare(opt Options) *ui.Printer {
	return ui.NewPrinter(opt.Stdout, opt.Stderr, ui.ThemeByName(""), "auto")
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
