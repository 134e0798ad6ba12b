// Package ui renders the colored status lines the user watches during an
// install or uninstall. It is presentation only: nothing here affects
// control flow, and diagnostic detail belongs to the log package instead.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	infoTag    = color.New(color.FgBlue, color.Bold).SprintFunc()
	successTag = color.New(color.FgGreen, color.Bold).SprintFunc()
	warnTag    = color.New(color.FgYellow, color.Bold).SprintFunc()
	errorTag   = color.New(color.FgRed, color.Bold).SprintFunc()
	headline   = color.New(color.FgBlue, color.Bold).SprintFunc()
	tagline    = color.New(color.FgYellow).SprintFunc()
)

// Printer writes tagged status lines. Status messages go to Out; errors
// go to Err. The fatih/color library disables coloring by itself when the
// destination is not a terminal.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// New returns a Printer writing to the given streams.
func New(out, errOut io.Writer) *Printer {
	return &Printer{Out: out, Err: errOut}
}

// Default is the process-wide printer, writing to stdout/stderr.
var Default = New(os.Stdout, os.Stderr)

// Info prints a blue [INFO] status line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.Out, "%s %s\n", infoTag("[INFO]"), fmt.Sprintf(format, args...))
}

// Success prints a green [YAY!] status line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.Out, "%s %s\n", successTag("[YAY!]"), fmt.Sprintf(format, args...))
}

// Warn prints a yellow [WARN] status line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.Out, "%s %s\n", warnTag("[WARN]"), fmt.Sprintf(format, args...))
}

// Error prints a red [ERR] line to the error stream.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintf(p.Err, "%s %s\n", errorTag("[ERR]"), fmt.Sprintf(format, args...))
}

// Blank prints an empty line, separating phases of output.
func (p *Printer) Blank() {
	fmt.Fprintln(p.Out)
}

// Banner prints the two-line header shown at the start of an install run.
func (p *Printer) Banner(version string) {
	fmt.Fprintf(p.Out, "%s\n", headline(fmt.Sprintf("Kipper v%s - The Kopi Language Installer", version)))
	fmt.Fprintf(p.Out, "%s\n", tagline("Fast, modern, and lightweight scripting language"))
	p.Blank()
}
