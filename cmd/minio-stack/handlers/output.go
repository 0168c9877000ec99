package handlers

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9fafb"))
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

// isInteractiveTTY is a variable so tests can force plain output.
var isInteractiveTTY = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// printer writes styled output on a terminal and plain lines otherwise.
type printer struct {
	styled bool
}

func newPrinter() *printer {
	return &printer{styled: isInteractiveTTY()}
}

func (p *printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

func (p *printer) title(s string) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, p.render(titleStyle, "  "+s))
	fmt.Fprintln(stdout)
}

func (p *printer) field(name, value string) {
	fmt.Fprintf(stdout, "  %s  %s\n", p.render(nameStyle, fmt.Sprintf("%-16s", name)), p.render(valueStyle, value))
}

func (p *printer) status(name string, ok bool, extra string) {
	indicator := p.render(valueStyle, "ok")
	if !ok {
		indicator = p.render(errorStyle, "missing")
	}
	if extra != "" {
		fmt.Fprintf(stdout, "  %-8s %-24s %s\n", indicator, name, p.render(dimStyle, extra))
		return
	}
	fmt.Fprintf(stdout, "  %-8s %s\n", indicator, name)
}

func (p *printer) hint(s string) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, p.render(dimStyle, "  "+s))
	fmt.Fprintln(stdout)
}
