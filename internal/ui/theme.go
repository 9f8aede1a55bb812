package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette, status symbols and the panel border.
type Theme struct {
	Name                                          string
	Title, Muted, Accent, Success, Error, Pending lipgloss.TerminalColor
	Border                                        lipgloss.Border

	SymTodo, SymInProgress, SymDone string
	SymOK, SymFail                  string

	// Plain disables color regardless of the terminal.
	Plain bool
}

// ThemeByName returns classic for unknown names.
func ThemeByName(name string) Theme {
	switch strings.ToLower(name) {
	case "neon":
		return Theme{
			Name:  "neon",
			Title: lipgloss.Color("13"), Muted: lipgloss.Color("8"), Accent: lipgloss.Color("14"),
			Success: lipgloss.Color("10"), Error: lipgloss.Color("9"), Pending: lipgloss.Color("11"),
			Border:  lipgloss.RoundedBorder(),
			SymTodo: "◻", SymInProgress: "◧", SymDone: "◼",
			SymOK: "✔", SymFail: "✖",
		}
	case "mono":
		return Theme{
			Name:  "mono",
			Title: lipgloss.NoColor{}, Muted: lipgloss.NoColor{}, Accent: lipgloss.NoColor{},
			Success: lipgloss.NoColor{}, Error: lipgloss.NoColor{}, Pending: lipgloss.NoColor{},
			Border:  lipgloss.NormalBorder(),
			SymTodo: "[ ]", SymInProgress: "[~]", SymDone: "[x]",
			SymOK: "ok:", SymFail: "error:",
			Plain: true,
		}
	default:
		return Theme{
			Name:  "classic",
			Title: lipgloss.NoColor{}, Muted: lipgloss.Color("8"), Accent: lipgloss.Color("12"),
			Success: lipgloss.Color("42"), Error: lipgloss.Color("9"), Pending: lipgloss.Color("214"),
			Border:  lipgloss.RoundedBorder(),
			SymTodo: "☐", SymInProgress: "◐", SymDone: "☑",
			SymOK: "✔", SymFail: "✖",
		}
	}
}
