package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/idilsaglam/task-cli/internal/config"
	"github.com/idilsaglam/task-cli/internal/manager"
	"github.com/idilsaglam/task-cli/internal/model"
	"github.com/idilsaglam/task-cli/internal/ui"
)

func commandTable() []*command {
	return []*command{
		{name: "add", usage: "add <description...>", help: "Adding a task description\nExample: add My first task", run: (*Shell).doAdd},
		{name: "update", usage: "update <id> <description...>", help: "Updating the task description by ID\nExample: update 1 New description", run: (*Shell).doUpdate, runArgs: (*Shell).updateArgs},
		{name: "delete", usage: "delete <id>", help: "Deleting a task by ID\nExample: delete 1", run: (*Shell).doDelete},
		{name: "mark_in_progress", usage: "mark_in_progress <id>", help: "Marking a task as in-progress by ID\nExample: mark_in_progress 1", run: markAs(model.StatusInProgress)},
		{name: "mark_done", usage: "mark_done <id>", help: "Marking a task as done by ID\nExample: mark_done 1", run: markAs(model.StatusDone)},
		{name: "list", usage: "list", help: "Get a list of tasks", run: listBy("")},
		{name: "list_done", usage: "list_done", help: "Get a list of done tasks", run: listBy(model.StatusDone)},
		{name: "list_todo", usage: "list_todo", help: "Get a list of todo tasks", run: listBy(model.StatusTodo)},
		{name: "list_in_progress", usage: "list_in_progress", help: "Get a list of in-progress tasks", run: listBy(model.StatusInProgress)},
		{name: "summary", usage: "summary", help: "Show task counts per status", run: (*Shell).doSummary},
		{name: "check", usage: "check", help: "Validate the task file against its schema", run: (*Shell).doCheck},
		{name: "config", usage: "config", help: "Print the effective configuration", run: (*Shell).doConfig},
		{name: "help", usage: "help [command]", help: "List available commands or show help for one", run: (*Shell).doHelp},
		{name: "quit", usage: "quit", help: "Quit CLI", run: (*Shell).doQuit},
		{name: "exit", usage: "exit", help: "Quit CLI", run: (*Shell).doQuit},
	}
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, &usageError{msg: "Please, write the integer ID.", detail: err.Error()}
	}
	return id, nil
}

func (s *Shell) doAdd(arg string) error {
	if arg == "" {
		return &usageError{msg: "Please, write a description for the task after the 'add' command."}
	}
	task, err := s.mgr.AddTask(arg)
	if errors.Is(err, manager.ErrEmptyDescription) {
		return &usageError{msg: "Please, write a description for the task after the 'add' command."}
	}
	if err != nil {
		return err
	}
	s.p.OK(fmt.Sprintf("Task added successfully (ID: %d)", task.ID))
	return nil
}

func (s *Shell) doUpdate(arg string) error {
	args, err := shlex.Split(arg)
	if err != nil {
		return &usageError{msg: "Could not parse the arguments.", detail: err.Error()}
	}
	return s.updateArgs(args)
}

func (s *Shell) updateArgs(args []string) error {
	if len(args) < 2 {
		return &usageError{msg: "Please, write the id and a description for the task after the 'update' command."}
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return &usageError{
			msg:    "The first argument is an id with type int, the second argument is a description.",
			detail: err.Error(),
		}
	}
	desc := strings.Join(args[1:], " ")
	if _, err := s.mgr.UpdateTask(id, manager.Update{Description: &desc}); err != nil {
		if errors.Is(err, manager.ErrEmptyDescription) {
			return &usageError{msg: "Please, write the id and a description for the task after the 'update' command."}
		}
		return translate(id, err)
	}
	s.p.OK(fmt.Sprintf("Task with id=%d updated successfully.", id))
	return nil
}

func (s *Shell) doDelete(arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	if err := s.mgr.DeleteTask(id); err != nil {
		return translate(id, err)
	}
	s.p.OK(fmt.Sprintf("Task with id=%d deleted successfully.", id))
	return nil
}

func markAs(st model.Status) func(*Shell, string) error {
	return func(s *Shell, arg string) error {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		if _, err := s.mgr.UpdateTask(id, manager.Update{Status: &st}); err != nil {
			return translate(id, err)
		}
		s.p.OK(fmt.Sprintf("Task with id=%d updated successfully.", id))
		return nil
	}
}

func listBy(st model.Status) func(*Shell, string) error {
	return func(s *Shell, _ string) error {
		tasks, err := s.mgr.ListByStatus(st)
		if err != nil {
			return err
		}
		out, err := s.store.Render(tasks)
		if err != nil {
			return err
		}
		s.p.Println(out)
		return nil
	}
}

func (s *Shell) doSummary(string) error {
	sum, err := s.mgr.Summary()
	if err != nil {
		return err
	}
	p := s.p
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d  %s %d",
		p.Title("Tasks"),
		p.StatusStyle(model.StatusDone).Render(p.Symbol(model.StatusDone)), sum.Done,
		p.StatusStyle(model.StatusInProgress).Render(p.Symbol(model.StatusInProgress)), sum.InProgress,
		p.StatusStyle(model.StatusTodo).Render(p.Symbol(model.StatusTodo)), sum.Todo,
		p.Accent("Total"), sum.Total,
	)
	lines := []string{
		header,
		p.Muted(ui.ProgressBar(sum.Done, sum.Total, 28)),
		"",
		fmt.Sprintf("%s  %d", p.Status(model.StatusTodo), sum.Todo),
		fmt.Sprintf("%s  %d", p.Status(model.StatusInProgress), sum.InProgress),
		fmt.Sprintf("%s  %d", p.Status(model.StatusDone), sum.Done),
		"",
		p.Muted("Tip: add with `add Buy milk`"),
	}
	p.Panel(lines)
	return nil
}

func (s *Shell) doCheck(string) error {
	problems, err := s.store.Check()
	if err != nil {
		return err
	}
	if len(problems) == 0 {
		s.p.OK("task file is valid: " + s.store.Path())
		return nil
	}
	for _, pr := range problems {
		s.p.Hint(pr)
	}
	return fmt.Errorf("%d problem(s) in %s", len(problems), s.store.Path())
}

func (s *Shell) doConfig(string) error {
	if s.cfg.Source != "" {
		s.p.Println("# source: " + s.cfg.Source)
	}
	s.p.Println("# store: " + s.store.Path())
	return config.Encode(s.p.Out, s.cfg)
}

func (s *Shell) doHelp(arg string) error {
	if arg != "" {
		c, ok := s.commands[arg]
		if !ok {
			return &usageError{msg: "No help on " + arg}
		}
		s.p.Println(c.help)
		return nil
	}
	s.p.Println(HelpText(s))
	return nil
}

func (s *Shell) doQuit(string) error {
	s.p.Println("Bye!")
	return errQuit
}

// HelpText lists every command with its usage.
func HelpText(s *Shell) string {
	var b strings.Builder
	b.WriteString("Documented commands (type help <command>):\n")
	for _, name := range s.Names() {
		c := s.commands[name]
		first, _, _ := strings.Cut(c.help, "\n")
		fmt.Fprintf(&b, "  %-30s %s\n", c.usage, first)
	}
	return strings.TrimRight(b.String(), "\n")
}
