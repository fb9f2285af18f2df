// Package printer formats the per-package status lines shown to the user.
package printer

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/pydev-tools/uvdev/internal/pyproject"
)

// Color labels - fatih/color handles TTY detection automatically.
var (
	okColor    = color.New(color.FgGreen, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
	errorColor = color.New(color.FgRed, color.Bold)
	infoColor  = color.New(color.FgBlue, color.Bold)
)

// Printer reports categorized, single-line status messages per package.
type Printer interface {
	// SourceSet reports the entry that was written for pkg.
	SourceSet(pkg string, src pyproject.Source)

	// IndexDefault reports that the source override for pkg was removed.
	IndexDefault(pkg string)

	// IndexDefaultAlready reports that pkg had no override to remove.
	IndexDefaultAlready(pkg string)

	// FoundEditable reports an editable package discovered during a scan.
	FoundEditable(pkg string, path string)

	// Info reports an informational message about pkg.
	Info(pkg string, msg string)

	// Warning reports a recoverable problem affecting pkg.
	Warning(pkg string, msg string)

	// Error reports a fatal problem affecting pkg.
	Error(pkg string, msg string)
}

// ConsolePrinter writes colored status lines to a single writer.
type ConsolePrinter struct {
	w io.Writer
}

// NewConsolePrinter returns a ConsolePrinter writing to w (stdout when nil).
func NewConsolePrinter(w io.Writer) *ConsolePrinter {
	if w == nil {
		w = os.Stdout
	}
	return &ConsolePrinter{w: w}
}

func (p *ConsolePrinter) SourceSet(pkg string, src pyproject.Source) {
	switch src.Kind() {
	case pyproject.KindLocal:
		p.line(okColor, "✓", "Set %s source to local path: %s", pkg, src.Path)
	case pyproject.KindPublished:
		rev := ""
		if src.Rev != "" {
			rev = fmt.Sprintf(" (branch: %s)", src.Rev)
		}
		p.line(okColor, "✓", "Set %s source to Git repo: %s%s", pkg, src.Git, rev)
	default:
		p.line(okColor, "✓", "Set %s source to: %+v", pkg, src)
	}
}

func (p *ConsolePrinter) IndexDefault(pkg string) {
	p.line(okColor, "✓", "Removing custom source for %s to use PyPI version", pkg)
}

func (p *ConsolePrinter) IndexDefaultAlready(pkg string) {
	p.line(okColor, "✓", "Already using PyPI version for %s", pkg)
}

func (p *ConsolePrinter) FoundEditable(pkg string, path string) {
	p.line(warnColor, "!", "Found editable package %s: %s", pkg, path)
}

func (p *ConsolePrinter) Info(pkg string, msg string) {
	p.line(infoColor, "i", "%s for %s", msg, pkg)
}

func (p *ConsolePrinter) Warning(pkg string, msg string) {
	p.line(warnColor, "!", "Warning: %s for %s", msg, pkg)
}

func (p *ConsolePrinter) Error(pkg string, msg string) {
	p.line(errorColor, "✗", "Error: %s for %s", msg, pkg)
}

// line writes one status line with a colored label prefix.
func (p *ConsolePrinter) line(c *color.Color, label string, format string, args ...any) {
	_, _ = c.Fprint(p.w, label)
	_, _ = fmt.Fprintf(p.w, " "+format+"\n", args...)
}
