package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// RunLines drives the shell from r, one command per line, until EOF or
// quit. Used when input is piped.
func (s *Shell) RunLines(r io.Reader) error {
	s.p.Println(introText)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		stop, _ := s.Exec(scanner.Text())
		// Every line, empty or quit included, is followed by a blank line.
		fmt.Fprintln(s.p.Out)
		if stop {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// promptModel is the interactive shell: a single input line with the
// command output printed above it.
type promptModel struct {
	sh       *Shell
	buf      *bytes.Buffer // the shell's output writer
	ti       textinput.Model
	quitting bool
}

func newPromptModel(sh *Shell, buf *bytes.Buffer) promptModel {
	ti := textinput.New()
	ti.Prompt = promptText
	ti.Placeholder = "help"
	ti.CharLimit = 500
	ti.ShowSuggestions = true
	ti.SetSuggestions(sh.Names())
	ti.Focus()
	return promptModel{sh: sh, buf: buf, ti: ti}
}

func (m promptModel) Init() tea.Cmd {
	return tea.Sequence(tea.Println(introText), textinput.Blink)
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			m.quitting = true
			return m, tea.Sequence(tea.Println("Bye!"), tea.Quit)
		case tea.KeyEnter:
			return m.submit()
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m promptModel) submit() (tea.Model, tea.Cmd) {
	line := m.ti.Value()
	m.ti.Reset()

	m.buf.Reset()
	stop, _ := m.sh.Exec(line)
	out := strings.TrimRight(m.buf.String(), "\n")

	cmds := []tea.Cmd{tea.Println(promptText + line)}
	if out != "" {
		cmds = append(cmds, tea.Println(out+"\n"))
	}
	if stop {
		m.quitting = true
		cmds = append(cmds, tea.Quit)
	}
	return m, tea.Sequence(cmds...)
}

func (m promptModel) View() string {
	if m.quitting {
		return ""
	}
	return m.ti.View()
}

// runPrompt starts the interactive shell. sh must write to buf.
func runPrompt(sh *Shell, buf *bytes.Buffer, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(newPromptModel(sh, buf), tea.WithInput(in), tea.WithOutput(out))
	_, err := p.Run()
	return err
}
