// Package report renders plans and change events for a terminal.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/schaermu/guildsync/internal/diff"
	"github.com/schaermu/guildsync/internal/reconcile"
)

// Printer writes human readable reports to w.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Step prints a progress line.
func (p *Printer) Step(format string, args ...any) {
	fmt.Fprintf(p.w, "> "+format+"\n", args...)
}

// Changes prints every change of a plan, with the diff tree of updates.
func (p *Printer) Changes(changes []reconcile.Change) {
	if len(changes) == 0 {
		p.Step("No change to be applied.")
		return
	}
	p.Step("Found the following changes:")
	for _, c := range changes {
		switch c.Action {
		case reconcile.ActionCreate:
			fmt.Fprintf(p.w, "\n* Adding %s %s\n", c.Entity, c.Name)
		case reconcile.ActionDelete:
			fmt.Fprintf(p.w, "\n* Removing %s %s\n", c.Entity, c.Name)
		case reconcile.ActionUpdate:
			fmt.Fprintf(p.w, "\n* Updating %s %s with diffs:\n", c.Entity, c.Name)
			for _, d := range c.Diffs {
				fmt.Fprint(p.w, FormatDiff(d))
			}
		}
	}
	fmt.Fprintln(p.w)
}

// Handle prints the outcome of one executed command.
func (p *Printer) Handle(event reconcile.Event) {
	if event.Err != nil {
		fmt.Fprintf(p.w, "[ERROR] %s: %v\n", event.Change, event.Err)
		return
	}
	fmt.Fprintf(p.w, "[OK] %s\n", event.Change)
}

// FormatDiff renders a diff tree, one line per line of description. Nested
// nodes are indented by two spaces per level.
func FormatDiff(d diff.Diff) string {
	var b strings.Builder
	formatDiff(&b, 0, d)
	return b.String()
}

func formatDiff(b *strings.Builder, indent int, d diff.Diff) {
	switch d.Kind {
	case diff.KindAdd:
		indentLines(b, " + ", indent, d.Description)
	case diff.KindRemove:
		indentLines(b, " - ", indent, d.Description)
	case diff.KindUpdate:
		indentLines(b, "   ", indent, d.Description+":")
		for _, c := range d.Children {
			formatDiff(b, indent+2, c)
		}
	}
}

func indentLines(b *strings.Builder, prefix string, indent int, text string) {
	pad := strings.Repeat(" ", indent)
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(prefix + pad + line + "\n")
	}
}

// Confirm asks question on out and reads the answer from in. Only "y" and
// "yes" are accepted as approval.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
