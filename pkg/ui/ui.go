// Package ui renders user-facing messages for the terminal.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes styled messages. Styles degrade to plain text when the
// underlying writer is not a terminal.
type Printer struct {
	out, err io.Writer
	warn     lipgloss.Style
	fail     lipgloss.Style
	muted    lipgloss.Style
}

// NewPrinter returns a Printer writing regular output to out and
// warnings/errors to errOut.
func NewPrinter(out, errOut io.Writer) *Printer {
	r := lipgloss.NewRenderer(errOut)
	return &Printer{
		out:   out,
		err:   errOut,
		warn:  r.NewStyle().Foreground(lipgloss.Color("3")),
		fail:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		muted: lipgloss.NewRenderer(out).NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Println writes a plain line to the regular output.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Printf writes formatted text to the regular output.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Muted writes a de-emphasised line to the regular output.
func (p *Printer) Muted(msg string) {
	fmt.Fprintln(p.out, p.muted.Render(msg))
}

// Warn writes a warning line to the error output.
func (p *Printer) Warn(format string, a ...any) {
	fmt.Fprintln(p.err, p.warn.Render("Warning: "+fmt.Sprintf(format, a...)))
}

// Error writes an error line to the error output.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.err, p.fail.Render(msg))
}
