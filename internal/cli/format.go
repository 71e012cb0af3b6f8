package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/JonMunkholm/confprogram/internal/core"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

// Printer writes human-readable output. fatih/color drops the escape codes
// when the output is not a terminal.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Section prints a section header.
func (p *Printer) Section(title string) {
	_, _ = headerColor.Fprintf(p.w, "▸ %s\n", title)
}

// Success prints a message with a checkmark.
func (p *Printer) Success(msg string) {
	_, _ = successColor.Fprintf(p.w, "✓ %s\n", msg)
}

// Warning prints a message with a warning sign.
func (p *Printer) Warning(msg string) {
	_, _ = warningColor.Fprintf(p.w, "⚠ %s\n", msg)
}

// LabelValue prints an indented label-value pair.
func (p *Printer) LabelValue(label, value string) {
	_, _ = labelColor.Fprintf(p.w, "  %-8s ", label)
	_, _ = dimColor.Fprintln(p.w, value)
}

// Diagnostics prints one line per diagnostic. Duplicate poster numbers are
// red because two posters would share a board.
func (p *Printer) Diagnostics(diags []core.Diagnostic) {
	for _, d := range diags {
		switch d.Kind {
		case core.DiagDuplicatePosterNumber:
			_, _ = errorColor.Fprintf(p.w, "⚠ %s\n", d.Message)
		default:
			p.Warning(d.Message)
		}
	}
}

// Summary prints the counts of a program.
func (p *Printer) Summary(prog *core.Program) {
	line := fmt.Sprintf("%s: %s", prog.Event, summary(prog))
	if len(prog.Diagnostics) > 0 {
		p.Warning(line)
	} else {
		p.Success(line)
	}
	_, _ = dimColor.Fprintf(p.w, "  run %s\n", prog.RunID)
}

// Error prints err with its user-facing message, suggested action and code.
// Errors without a specific code are printed as they are.
func (p *Printer) Error(err error) {
	if errors.Is(err, ErrDiagnostics) || !core.IsUserFacing(err) {
		_, _ = errorColor.Fprintf(p.w, "✗ %v\n", err)
		return
	}

	msg := core.MapError(err)
	_, _ = errorColor.Fprintf(p.w, "✗ %s: %v\n", msg.Message, err)
	if msg.Action != "" {
		_, _ = fmt.Fprintf(p.w, "  %s\n", msg.Action)
	}
	_, _ = dimColor.Fprintf(p.w, "  code %s\n", msg.Code)
}
