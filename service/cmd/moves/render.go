package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bgrundmann/finding-the-way-home-sub000/engine/move"
)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

func isParseError(err error) bool {
	var perr *move.ParseError
	return errors.As(err, &perr)
}

// renderError formats a parse or evaluation error against the source it
// came from.
func renderError(src string, err error) string {
	var perr *move.ParseError
	if errors.As(err, &perr) {
		return move.FormatProblems(src, perr.Problems)
	}
	var eerr *move.EvalError
	if !errors.As(err, &eerr) {
		return err.Error() + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "error: %s\n", eerr.Problem)
	if len(eerr.Backtrace) > 0 {
		at := eerr.Backtrace[0].At
		b.WriteString(snippet(src, at))
	}
	for _, f := range eerr.Backtrace {
		fmt.Fprintf(&b, "  at %s: %s\n", f.At, f.Step)
	}
	return b.String()
}

// snippet is the source line at loc with a caret under its column.
func snippet(src string, loc move.Location) string {
	lines := strings.Split(src, "\n")
	if loc.Row < 1 || loc.Row > len(lines) {
		return ""
	}
	pad := loc.Col - 1
	if pad < 0 {
		pad = 0
	}
	return fmt.Sprintf("%4d | %s\n     | %s^\n", loc.Row, lines[loc.Row-1], strings.Repeat(" ", pad))
}

// printDefinitions writes one line per definition: its call form and the
// first line of its documentation.
func printDefinitions(w io.Writer, defs []move.MoveDefinition) {
	for _, d := range defs {
		call := d.Name
		for _, a := range d.Args {
			call += " " + a.Name
		}
		doc, _, _ := strings.Cut(d.Doc, "\n")
		if doc == "" {
			fmt.Fprintln(w, call)
			continue
		}
		fmt.Fprintf(w, "%-32s %s\n", call, doc)
	}
}
