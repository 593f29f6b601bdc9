package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	// fatih/color disables these when stdout is not a TTY
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	valueColor   = color.New(color.FgHiBlack)
	dimColor     = color.New(color.FgHiBlack)
)

// printer writes human-readable command output.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) printer {
	return printer{w: w}
}

// Section prints a section header.
func (p printer) Section(title string) {
	_, _ = fmt.Fprintln(p.w)
	_, _ = headerColor.Fprintf(p.w, "▸ %s\n", title)
	_, _ = fmt.Fprintln(p.w)
}

// Success prints a message with a checkmark.
func (p printer) Success(msg string) {
	_, _ = successColor.Fprintf(p.w, "✓ %s\n", msg)
}

// Warning prints a message with a warning symbol.
func (p printer) Warning(msg string) {
	_, _ = warningColor.Fprintf(p.w, "⚠ %s\n", msg)
}

// LabelValue prints an indented label-value pair. clr colors the value;
// nil means the default value color.
func (p printer) LabelValue(label, value string, clr *color.Color) {
	if clr == nil {
		clr = valueColor
	}
	_, _ = labelColor.Fprintf(p.w, "  %s: ", label)
	_, _ = clr.Fprintln(p.w, value)
}

// List prints items as bullet points.
func (p printer) List(items []string, indent int) {
	prefix := strings.Repeat("  ", indent)
	for _, item := range items {
		_, _ = infoColor.Fprintf(p.w, "%s• %s\n", prefix, item)
	}
}

// Table prints rows under headers with left-aligned columns.
func (p printer) Table(headers []string, rows [][]string) {
	if len(headers) == 0 || len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string, clr *color.Color) {
		_, _ = fmt.Fprint(p.w, " ")
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			_, _ = clr.Fprintf(p.w, " %-*s", w, cell)
		}
		_, _ = fmt.Fprintln(p.w)
	}

	line(headers, headerColor)
	rules := make([]string, len(widths))
	for i, w := range widths {
		rules[i] = strings.Repeat("-", w)
	}
	line(rules, dimColor)
	for _, row := range rows {
		line(row, valueColor)
	}
}

// Empty prints a dimmed placeholder when there's nothing to show.
func (p printer) Empty(msg string) {
	_, _ = dimColor.Fprintf(p.w, "  %s\n", msg)
}

// countOf formats a count with the singular or plural noun.
func countOf(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
