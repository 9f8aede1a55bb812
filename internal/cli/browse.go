package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/task-cli/internal/manager"
	"github.com/idilsaglam/task-cli/internal/model"
	"github.com/idilsaglam/task-cli/internal/ui"
)

// listItem adapts model.Task to bubbles/list.Item.
type listItem struct {
	task model.Task
}

func (i listItem) Title() string       { return i.task.Description }
func (i listItem) Description() string { return string(i.task.Status) }
func (i listItem) FilterValue() string { return i.task.Description }

// taskDelegate renders one task per line.
type taskDelegate struct {
	p *ui.Printer
}

func (d taskDelegate) Height() int                               { return 1 }
func (d taskDelegate) Spacing() int                              { return 0 }
func (d taskDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	st := it.task.Status
	text := it.task.Description
	if st == model.StatusDone {
		text = d.p.Muted(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = d.p.Accent("> ")
	}
	fmt.Fprintf(w, "%s%s %s %s", prefix,
		d.p.StatusStyle(st).Render(d.p.Symbol(st)),
		d.p.Muted(fmt.Sprintf("#%d", it.task.ID)),
		text)
}

type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputEdit
)

// browseModel is the full-screen task list. Every change goes through
// the manager immediately, so quitting never loses work.
type browseModel struct {
	mgr  *manager.Manager
	p    *ui.Printer
	list list.Model

	ti       textinput.Model
	mode     inputMode
	editID   int
	inputErr string
}

func newBrowseModel(mgr *manager.Manager, p *ui.Printer) (browseModel, error) {
	l := list.New(nil, taskDelegate{p: p}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	cycleBind := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "cycle status"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	extra := func() []key.Binding { return []key.Binding{cycleBind, addBind, editBind, delBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 500

	m := browseModel{mgr: mgr, p: p, list: l, ti: ti}
	if err := m.reload(); err != nil {
		return browseModel{}, err
	}
	return m, nil
}

// reload replaces the list with the stored tasks and refreshes the header.
func (m *browseModel) reload() error {
	tasks, err := m.mgr.ListByStatus("")
	if err != nil {
		return err
	}
	sum, err := m.mgr.Summary()
	if err != nil {
		return err
	}
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, listItem{task: t})
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
	m.list.Title = fmt.Sprintf("Tasks   %s %d  %s %d  %s %d",
		m.p.Symbol(model.StatusDone), sum.Done,
		m.p.Symbol(model.StatusInProgress), sum.InProgress,
		m.p.Symbol(model.StatusTodo), sum.Todo,
	)
	return nil
}

func (m browseModel) selected() (model.Task, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it.task, ok
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.list.SetSize(ws.Width-4, ws.Height-6)
		return m, nil
	}
	if m.mode != inputNone {
		return m.updateInput(msg)
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch k.String() {
	case "q", "esc":
		return m, tea.Quit
	case " ":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		next := t.Status.Next()
		if _, err := m.mgr.UpdateTask(t.ID, manager.Update{Status: &next}); err != nil {
			cmd := m.list.NewStatusMessage(m.p.Error(err.Error()))
			return m, cmd
		}
		cmd := m.afterChange(fmt.Sprintf("#%d is %s", t.ID, next))
		return m, cmd
	case "d":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.mgr.DeleteTask(t.ID); err != nil {
			cmd := m.list.NewStatusMessage(m.p.Error(err.Error()))
			return m, cmd
		}
		cmd := m.afterChange(fmt.Sprintf("#%d deleted", t.ID))
		return m, cmd
	case "a":
		m.mode = inputAdd
		m.inputErr = ""
		m.ti.SetValue("")
		m.ti.Placeholder = "New task description..."
		cmd := m.ti.Focus()
		return m, cmd
	case "e":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = inputEdit
		m.editID = t.ID
		m.inputErr = ""
		m.ti.SetValue(t.Description)
		m.ti.CursorEnd()
		m.ti.Placeholder = "Edit description..."
		cmd := m.ti.Focus()
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browseModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			m.closeInput()
			return m, nil
		case "enter":
			desc := strings.TrimSpace(m.ti.Value())
			if desc == "" {
				m.inputErr = "Description cannot be empty"
				return m, nil
			}
			var status string
			if m.mode == inputAdd {
				t, err := m.mgr.AddTask(desc)
				if err != nil {
					m.inputErr = err.Error()
					return m, nil
				}
				status = fmt.Sprintf("#%d added", t.ID)
			} else {
				if _, err := m.mgr.UpdateTask(m.editID, manager.Update{Description: &desc}); err != nil {
					m.inputErr = err.Error()
					return m, nil
				}
				status = fmt.Sprintf("#%d updated", m.editID)
			}
			m.closeInput()
			cmd := m.afterChange(status)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *browseModel) closeInput() {
	m.mode = inputNone
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

// afterChange reloads from the store and flashes status.
func (m *browseModel) afterChange(status string) tea.Cmd {
	if err := m.reload(); err != nil {
		return m.list.NewStatusMessage(m.p.Error(err.Error()))
	}
	return m.list.NewStatusMessage(status)
}

func (m browseModel) View() string {
	content := m.list.View()
	if m.mode != inputNone {
		title := "Add task"
		if m.mode == inputEdit {
			title = fmt.Sprintf("Edit task #%d", m.editID)
		}
		if m.inputErr != "" {
			title += ": " + m.p.Error(m.inputErr)
		}
		content += "\n" + m.p.Frame(title+"\n"+m.ti.View())
	}
	return m.p.Frame(content)
}

// runBrowse starts the full-screen list on the alternate screen.
func runBrowse(mgr *manager.Manager, p *ui.Printer, in io.Reader, out io.Writer) error {
	m, err := newBrowseModel(mgr, p)
	if err != nil {
		return err
	}
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithInput(in), tea.WithOutput(out))
	_, err = prog.Run()
	return err
}
