package ui

import (
	"fmt"
	"strings"
)

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Panel draws a framed box around lines using the theme border.
func (p *Printer) Panel(lines []string) {
	fmt.Fprintln(p.Out, p.Frame(strings.Join(lines, "\n")))
}

// Frame returns inner wrapped in the theme border.
func (p *Printer) Frame(inner string) string {
	box := p.r.NewStyle().
		Border(p.theme.Border).
		BorderForeground(p.theme.Muted).
		Padding(0, 1)
	return box.Render(inner)
}
