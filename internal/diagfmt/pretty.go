package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/woupiestek/rlox/internal/diag"
	"github.com/woupiestek/rlox/internal/source"
)

// Pretty renders diagnostics human-readably. It walks bag.Items() in order,
// so callers sort the bag first. Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	  <source line>
//	  <caret underline>
//
// followed by its notes in the same shape.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	sevColor := map[diag.Severity]*color.Color{
		diag.SevInfo:    color.New(color.FgCyan),
		diag.SevWarning: color.New(color.FgYellow),
		diag.SevError:   color.New(color.FgRed, color.Bold),
	}
	for _, c := range sevColor {
		if !opts.Color {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}

	for _, d := range bag.Items() {
		printHeading(w, fs, d.Primary, sevColor[d.Severity], d.Severity, d.Code, d.Message, opts)
		printContext(w, fs, d.Primary, sevColor[d.Severity])
		if opts.ShowNotes {
			noteColor := sevColor[diag.SevInfo]
			for _, n := range d.Notes {
				printHeading(w, fs, n.Span, noteColor, diag.SevInfo, diag.UnknownCode, n.Msg, opts)
				printContext(w, fs, n.Span, noteColor)
			}
		}
	}
}

func printHeading(w io.Writer, fs *source.FileSet, span source.Span, c *color.Color,
	sev diag.Severity, code diag.Code, msg string, opts PrettyOpts) {
	path := "<unknown>"
	line, col := uint32(0), uint32(0)
	if f := fs.Get(span.File); f != nil {
		path = f.Path
		if opts.PathMode == PathModeBasename {
			path = filepath.Base(path)
		}
		start, _ := fs.Resolve(span)
		line, col = start.Line, start.Col
	}
	label := c.Sprintf("%s %s", sev, code)
	if code == diag.UnknownCode {
		label = c.Sprint(sev.String())
	}
	fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", path, line, col, label, msg)
}

// printContext prints the source line under the span with a caret
// underline. Widths go through runewidth so wide runes keep the carets
// aligned; a tab counts as zero columns.
func printContext(w io.Writer, fs *source.FileSet, span source.Span, c *color.Color) {
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(span)
	text := f.GetLine(start.Line)
	if text == "" {
		return
	}

	fmt.Fprintf(w, "  %s\n", text)

	prefixEnd := int(start.Col) - 1
	if prefixEnd > len(text) {
		prefixEnd = len(text)
	}
	pad := runewidth.StringWidth(text[:prefixEnd])

	spanLen := 1
	if end.Line == start.Line && end.Col > start.Col {
		caretEnd := int(end.Col) - 1
		if caretEnd > len(text) {
			caretEnd = len(text)
		}
		spanLen = runewidth.StringWidth(text[prefixEnd:caretEnd])
		if spanLen < 1 {
			spanLen = 1
		}
	}

	underline := "^" + strings.Repeat("~", spanLen-1)
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), c.Sprint(underline))
}
