// errors.go — typed error values and user-facing rendering.
//
// Two channels exist for diagnostics:
//
//   - The Reporter sink receives recoverable static errors (unexpected
//     characters, syntax errors the parser resynchronized past). It is
//     purely observational and never alters control flow.
//   - Fatal errors (resolver rejections, runtime failures) come back as
//     Go errors: *ResolveError and *RuntimeError. WrapErrorWithSource
//     upgrades them to a caret-annotated snippet of the offending line.
//
// Line numbers are 1-based throughout; columns are 0-based internally
// and rendered 1-based.
package lox

import (
	"fmt"
	"io"
	"strings"
)

// Reporter is the diagnostics sink for recoverable lexer/parser errors.
// where is a location hint such as " at 'foo'" or " at end"; it may be
// empty.
type Reporter interface {
	Report(line int, where string, message string)
}

// ConsoleReporter writes classic "[line N] Error...: message" lines to
// an io.Writer and remembers whether anything was reported.
type ConsoleReporter struct {
	Out      io.Writer
	HadError bool
}

func (r *ConsoleReporter) Report(line int, where, message string) {
	r.HadError = true
	fmt.Fprintf(r.Out, "[line %d] Error%s: %s\n", line, where, message)
}

// CollectReporter accumulates formatted diagnostics in memory. Used by
// tests and by Run to decide whether a parse produced errors.
type CollectReporter struct {
	Diags []string
}

func (r *CollectReporter) Report(line int, where, message string) {
	r.Diags = append(r.Diags, fmt.Sprintf("[line %d] Error%s: %s", line, where, message))
}

type discardReporter struct{}

func (discardReporter) Report(int, string, string) {}

// reportToken routes a token-anchored diagnostic with the conventional
// location hint.
func reportToken(rep Reporter, tok Token, message string) {
	if tok.Type == EOF {
		rep.Report(tok.Line, " at end", message)
	} else {
		rep.Report(tok.Line, fmt.Sprintf(" at '%s'", tok.Lexeme), message)
	}
}

// ResolveError is a fatal static error found by the resolver. Execution
// must not proceed past one.
type ResolveError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("RESOLVE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// RuntimeError is a fatal dynamic error. It aborts the whole Run
// invocation; there is no user-level recovery construct in the guest
// language.
type RuntimeError struct {
	Line int
	Col  int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// WrapErrorWithSource augments resolve/runtime errors with a
// caret-annotated snippet of the source. Other errors pass through
// unchanged.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *ResolveError:
		return fmt.Errorf("%s", caretSnippet(src, "RESOLVE ERROR", e.Line, e.Col+1, e.Msg))
	case *RuntimeError:
		return fmt.Errorf("%s", caretSnippet(src, "RUNTIME ERROR", e.Line, e.Col+1, e.Msg))
	default:
		return err
	}
}

// caretSnippet renders a plain-text snippet with up to one context line
// on each side and a caret under the 1-based column:
//
//	RUNTIME ERROR at 3:9: Operands must be numbers.
//
//	   2 | var a = 1;
//	   3 | print a + "x";
//	     |         ^
//	   4 | print a;
func caretSnippet(src, label string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	cur := lines[line-1]
	if col < 1 {
		col = 1
	}
	if col > len(cur)+1 {
		col = len(cur) + 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", label, line, col, msg)

	num := func(n int) string { return fmt.Sprintf("%4d | ", n) }
	if line >= 2 {
		b.WriteString(num(line-1) + lines[line-2] + "\n")
	}
	b.WriteString(num(line) + cur + "\n")
	b.WriteString("     | " + strings.Repeat(" ", col-1) + "^\n")
	if line < len(lines) {
		b.WriteString(num(line+1) + lines[line])
	}
	return strings.TrimRight(b.String(), "\n")
}
