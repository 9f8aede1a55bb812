package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idilsaglam/task-cli/internal/config"
	"github.com/idilsaglam/task-cli/internal/logging"
	"github.com/idilsaglam/task-cli/internal/manager"
	"github.com/idilsaglam/task-cli/internal/model"
	"github.com/idilsaglam/task-cli/internal/store/jsonstore"
	"github.com/idilsaglam/task-cli/internal/ui"
)

type harness struct {
	sh          *Shell
	mgr         *manager.Manager
	store       *jsonstore.Store
	out, errOut *bytes.Buffer
}

func testConfig() config.Config {
	return config.Config{
		Log: config.LogConfig{Level: "warn", Format: "text"},
		UI:  config.UIConfig{Theme: "mono", Color: "never"},
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := jsonstore.New(filepath.Join(t.TempDir(), jsonstore.DataFileName))
	mgr, err := manager.New(store)
	if err != nil {
		t.Fatalf("manager.New: %v", err)
	}
	h := &harness{mgr: mgr, store: store, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	p := ui.NewPrinter(h.out, h.errOut, ui.ThemeByName("mono"), "never")
	h.sh = NewShell(mgr, store, testConfig(), p, logging.Discard())
	return h
}

// run executes line and returns what it printed, resetting the buffers.
func (h *harness) run(t *testing.T, line string) (out, errOut string, err error) {
	t.Helper()
	h.out.Reset()
	h.errOut.Reset()
	_, err = h.sh.Exec(line)
	return h.out.String(), h.errOut.String(), err
}

func (h *harness) list(t *testing.T, cmd string) []model.Task {
	t.Helper()
	out, errOut, err := h.run(t, cmd)
	if err != nil {
		t.Fatalf("%s: %v (%s)", cmd, err, errOut)
	}
	var tasks []model.Task
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		t.Fatalf("%s output is not JSON: %v\n%s", cmd, err, out)
	}
	return tasks
}

func TestExec_Messages(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		line     string
		wantOut  string
		wantErr  string
		wantCode int
	}{
		{"add Buy milk", "ok: Task added successfully (ID: 1)\n", "", 0},
		{"add   Walk the dog  ", "ok: Task added successfully (ID: 2)\n", "", 0},
		{"add", "", "error: Please, write a description for the task after the 'add' command.\n", 2},
		{`update 1 "Buy oat milk"`, "ok: Task with id=1 updated successfully.\n", "", 0},
		{"update 1", "", "error: Please, write the id and a description for the task after the 'update' command.\n", 2},
		{"update one two", "", "error: The first argument is an id with type int, the second argument is a description.\n", 2},
		{"update 9 nothing", "", "error: No task with id=9 was found. Check!\n", 1},
		{"mark_in_progress 2", "ok: Task with id=2 updated successfully.\n", "", 0},
		{"mark_done 1", "ok: Task with id=1 updated successfully.\n", "", 0},
		{"mark_done 7", "", "error: No task with id=7 was found. Check!\n", 1},
		{"delete abc", "", "error: Please, write the integer ID.\n", 2},
		{"delete 2", "ok: Task with id=2 deleted successfully.\n", "", 0},
		{"delete 2", "", "error: No task with id=2 was found. Check!\n", 1},
		{"", "", "", 0},
	}
	for _, tt := range tests {
		out, errOut, err := h.run(t, tt.line)
		if out != tt.wantOut {
			t.Errorf("%q: stdout = %q, want %q", tt.line, out, tt.wantOut)
		}
		if !strings.HasPrefix(errOut, tt.wantErr) {
			t.Errorf("%q: stderr = %q, want prefix %q", tt.line, errOut, tt.wantErr)
		}
		if got := ExitCode(err); got != tt.wantCode {
			t.Errorf("%q: exit code = %d, want %d (err %v)", tt.line, got, tt.wantCode, err)
		}
	}

	tasks := h.list(t, "list")
	if len(tasks) != 1 {
		t.Fatalf("list = %+v, want one task", tasks)
	}
	if tasks[0].ID != 1 || tasks[0].Description != "Buy oat milk" || tasks[0].Status != model.StatusDone {
		t.Fatalf("remaining task = %+v", tasks[0])
	}
}

func TestExecArgs(t *testing.T) {
	h := newHarness(t)
	if _, err := h.sh.ExecArgs([]string{"add", "It's", "late"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	h.out.Reset()
	if _, err := h.sh.ExecArgs([]string{"update", "1", "it's  done"}); err != nil {
		t.Fatalf("update: %v (%s)", err, h.errOut.String())
	}
	tasks := h.list(t, "list")
	if len(tasks) != 1 || tasks[0].Description != "it's  done" {
		t.Fatalf("tasks = %+v", tasks)
	}
	_, err := h.sh.ExecArgs([]string{"update", "x", "y"})
	if ExitCode(err) != 2 {
		t.Fatalf("update x y exit code = %d", ExitCode(err))
	}
}

func TestExec_UnknownCommand(t *testing.T) {
	h := newHarness(t)
	out, errOut, err := h.run(t, "frobnicate now")
	if out != "" {
		t.Errorf("stdout = %q, want empty", out)
	}
	if !strings.Contains(errOut, "unknown command: frobnicate") || !strings.Contains(errOut, "help") {
		t.Errorf("stderr = %q", errOut)
	}
	if ExitCode(err) != 2 {
		t.Errorf("exit code = %d, want 2", ExitCode(err))
	}
}

func TestExec_ListFilters(t *testing.T) {
	h := newHarness(t)
	for _, line := range []string{"add a", "add b", "add c", "mark_in_progress 2", "mark_done 3"} {
		if _, errOut, err := h.run(t, line); err != nil {
			t.Fatalf("%s: %v (%s)", line, err, errOut)
		}
	}
	cases := map[string][]int{
		"list":             {1, 2, 3},
		"list_todo":        {1},
		"list_in_progress": {2},
		"list_done":        {3},
	}
	for cmd, want := range cases {
		tasks := h.list(t, cmd)
		var ids []int
		for _, tk := range tasks {
			ids = append(ids, tk.ID)
		}
		if len(ids) != len(want) {
			t.Errorf("%s ids = %v, want %v", cmd, ids, want)
			continue
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("%s ids = %v, want %v", cmd, ids, want)
				break
			}
		}
	}
}

func TestExec_ListEmpty(t *testing.T) {
	h := newHarness(t)
	out, _, err := h.run(t, "list_done")
	if err != nil {
		t.Fatal(err)
	}
	if out != "[]\n" {
		t.Fatalf("list_done on empty store = %q, want %q", out, "[]\n")
	}
}

func TestExec_ListMatchesFileFormat(t *testing.T) {
	h := newHarness(t)
	if _, _, err := h.run(t, "add Write report"); err != nil {
		t.Fatal(err)
	}
	out, _, err := h.run(t, "list")
	if err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(h.store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if out != string(raw) {
		t.Fatalf("list output differs from the file:\n%s\nvs\n%s", out, raw)
	}
}

func TestExec_Summary(t *testing.T) {
	h := newHarness(t)
	for _, line := range []string{"add a", "add b", "mark_done 1"} {
		if _, _, err := h.run(t, line); err != nil {
			t.Fatal(err)
		}
	}
	out, _, err := h.run(t, "summary")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Tasks", "[x] done  1", "[ ] todo  1", "[~] in-progress  0", "50%"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestExec_Check(t *testing.T) {
	h := newHarness(t)
	if _, _, err := h.run(t, "add a"); err != nil {
		t.Fatal(err)
	}
	out, _, err := h.run(t, "check")
	if err != nil || !strings.Contains(out, "task file is valid") {
		t.Fatalf("check on a written file: err=%v out=%q", err, out)
	}

	bad := `[{"id": 0, "description": "", "status": "later"}]`
	if err := os.WriteFile(h.store.Path(), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	_, errOut, err := h.run(t, "check")
	if ExitCode(err) != 1 {
		t.Fatalf("check on a bad file: exit code %d, err %v", ExitCode(err), err)
	}
	if !strings.Contains(errOut, "problem(s)") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestExec_Config(t *testing.T) {
	h := newHarness(t)
	out, _, err := h.run(t, "config")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# store: " + h.store.Path(), "[log]", `theme = "mono"`} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestExec_Help(t *testing.T) {
	h := newHarness(t)
	out, _, err := h.run(t, "help")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range h.sh.Names() {
		if !strings.Contains(out, name) {
			t.Errorf("help does not mention %q", name)
		}
	}

	out, _, err = h.run(t, "help add")
	if err != nil || !strings.Contains(out, "Example: add My first task") {
		t.Fatalf("help add: err=%v out=%q", err, out)
	}

	_, errOut, err := h.run(t, "help nope")
	if ExitCode(err) != 2 || !strings.Contains(errOut, "No help on nope") {
		t.Fatalf("help nope: err=%v stderr=%q", err, errOut)
	}
}

func TestExec_Quit(t *testing.T) {
	for _, name := range []string{"quit", "exit"} {
		h := newHarness(t)
		stop, err := h.sh.Exec(name)
		if !stop || err != nil {
			t.Fatalf("%s: stop=%v err=%v", name, stop, err)
		}
		if h.out.String() != "Bye!\n" {
			t.Fatalf("%s wrote %q", name, h.out.String())
		}
	}
}

func TestRunLines_ScriptedSession(t *testing.T) {
	h := newHarness(t)
	in := strings.NewReader("add Buy milk\n\nmark_done 1\nquit\nadd never runs\n")
	if err := h.sh.RunLines(in); err != nil {
		t.Fatal(err)
	}
	want := introText + "\n" +
		"ok: Task added successfully (ID: 1)\n\n" +
		"\n" +
		"ok: Task with id=1 updated successfully.\n\n" +
		"Bye!\n\n"
	if got := h.out.String(); got != want {
		t.Fatalf("session output =\n%q\nwant\n%q", got, want)
	}
	tasks, err := h.mgr.ListByStatus("")
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Status != model.StatusDone {
		t.Fatalf("tasks after session = %+v", tasks)
	}
}

func TestRunLines_EOFEndsSession(t *testing.T) {
	h := newHarness(t)
	if err := h.sh.RunLines(strings.NewReader("add x")); err != nil {
		t.Fatal(err)
	}
	if h.mgr.NextID() != 2 {
		t.Fatalf("NextID = %d, want 2", h.mgr.NextID())
	}
}
