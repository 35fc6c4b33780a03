// Package cmderr implements the error taxonomy of spec.md §7: four tagged
// error kinds, each a plain error value, plus the fatal/warn sinks every
// fallible command passes its errors to.
package cmderr

import (
	"fmt"
	"os"
)

// ParseError covers unknown/duplicate options, missing command names, bad
// argument counts, malformed operators or atom literals.
type ParseError struct{ msg string }

func (e *ParseError) Error() string { return e.msg }

func Parse(format string, args ...any) error {
	return &ParseError{msg: fmt.Sprintf(format, args...)}
}

// ResolveError covers unknown/ambiguous tables and columns, missing rows or
// map keys when must_exist holds, and ambiguous row-id index matches.
type ResolveError struct{ msg string }

func (e *ResolveError) Error() string { return e.msg }

func Resolve(format string, args ...any) error {
	return &ResolveError{msg: fmt.Sprintf(format, args...)}
}

// SemanticError covers :KEY on a non-map column, --id reuse, --id with
// --if-exists on get, --all misuse on destroy, writes to read-only
// columns, and cardinality violations.
type SemanticError struct{ msg string }

func (e *SemanticError) Error() string { return e.msg }

func Semantic(format string, args ...any) error {
	return &SemanticError{msg: fmt.Sprintf(format, args...)}
}

// SymbolError covers @id without a leading "@" and undefined symbol
// references.
type SymbolError struct{ msg string }

func (e *SymbolError) Error() string { return e.msg }

func Symbol(format string, args ...any) error {
	return &SymbolError{msg: fmt.Sprintf(format, args...)}
}

// ExitFunc is the host-provided exit hook from spec.md §6's init(). It runs
// before the process terminates (e.g. to close a db connection) and may be
// swapped out in tests so Fatal doesn't actually call os.Exit.
var ExitFunc func()

// osExit is what Fatal calls to terminate the process with os.Exit(1);
// tests replace it, and stub ExitFunc, so Fatal does not end the test run.
var osExit = os.Exit

// Fatal logs err to stderr, runs the host exit hook if one is registered,
// and terminates the process with exit code 1. There is no partial-commit
// path: a fatal is always raised before or during transaction assembly.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "dbctl: %s\n", err)
	if ExitFunc != nil {
		ExitFunc()
	}
	osExit(1)
}

// Warn logs a non-fatal warning. Warnings (e.g. "get" with no arguments on
// a terminal, "create" on a non-root table without --id) never abort the
// stream.
func Warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "dbctl: warning: "+format+"\n", args...)
}
