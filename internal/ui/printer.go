// Package ui renders user-facing output: result lines, status labels and
// panels. Log lines go through internal/logging instead.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/idilsaglam/task-cli/internal/model"
)

// Printer writes styled output for one pair of writers.
type Printer struct {
	Out, Err io.Writer

	theme Theme
	r     *lipgloss.Renderer

	titleStyle, mutedStyle, accentStyle   lipgloss.Style
	successStyle, errorStyle, pendingStyle lipgloss.Style
}

// NewPrinter binds styles to out. color is auto, always or never.
func NewPrinter(out, errOut io.Writer, theme Theme, color string) *Printer {
	r := lipgloss.NewRenderer(out)
	switch {
	case theme.Plain || strings.EqualFold(color, "never"):
		r.SetColorProfile(termenv.Ascii)
	case strings.EqualFold(color, "always"):
		r.SetColorProfile(termenv.ANSI256)
	}
	return &Printer{
		Out:          out,
		Err:          errOut,
		theme:        theme,
		r:            r,
		titleStyle:   r.NewStyle().Bold(true).Foreground(theme.Title),
		mutedStyle:   r.NewStyle().Foreground(theme.Muted).Faint(true),
		accentStyle:  r.NewStyle().Foreground(theme.Accent),
		successStyle: r.NewStyle().Foreground(theme.Success),
		errorStyle:   r.NewStyle().Foreground(theme.Error).Bold(true),
		pendingStyle: r.NewStyle().Foreground(theme.Pending),
	}
}

func (p *Printer) Theme() Theme { return p.theme }

func (p *Printer) OK(msg string) {
	fmt.Fprintln(p.Out, p.successStyle.Render(p.theme.SymOK+" "+msg))
}

func (p *Printer) Fail(msg string) {
	fmt.Fprintln(p.Err, p.errorStyle.Render(p.theme.SymFail+" "+msg))
}

// Hint is a muted follow-up line on the error writer.
func (p *Printer) Hint(msg string) {
	fmt.Fprintln(p.Err, p.mutedStyle.Render(msg))
}

// Println writes an unstyled line.
func (p *Printer) Println(msg string) {
	fmt.Fprintln(p.Out, msg)
}

func (p *Printer) Title(s string) string  { return p.titleStyle.Render(s) }
func (p *Printer) Muted(s string) string  { return p.mutedStyle.Render(s) }
func (p *Printer) Accent(s string) string { return p.accentStyle.Render(s) }
func (p *Printer) Error(s string) string  { return p.errorStyle.Render(s) }

// Symbol is the theme glyph for st.
func (p *Printer) Symbol(st model.Status) string {
	switch st {
	case model.StatusInProgress:
		return p.theme.SymInProgress
	case model.StatusDone:
		return p.theme.SymDone
	default:
		return p.theme.SymTodo
	}
}

// StatusStyle colors text by status.
func (p *Printer) StatusStyle(st model.Status) lipgloss.Style {
	switch st {
	case model.StatusInProgress:
		return p.pendingStyle
	case model.StatusDone:
		return p.successStyle
	default:
		return p.mutedStyle
	}
}

// Status renders the colored symbol followed by the status name.
func (p *Printer) Status(st model.Status) string {
	return p.StatusStyle(st).Render(p.Symbol(st) + " " + string(st))
}
