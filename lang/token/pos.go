package token

import "fmt"

// Location identifies a point in a source file: its name and a 1-based line
// number. tinyc compiles a single file at a time and does not track columns,
// so Location is deliberately smaller than a full line/column position.
type Location struct {
	File string
	Line int
}

// String renders the location in the "file:line" form errors are prefixed
// with (spec §6, "Error format").
func (l Location) String() string {
	if l.File == "" && l.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Error is a single compilation error tied to a Location.
type Error struct {
	Loc Location
	Msg string
}

func (e Error) Error() string {
	if loc := e.Loc.String(); loc != "" {
		return loc + ": " + e.Msg
	}
	return e.Msg
}

// ErrorList accumulates compilation errors across a phase. It mirrors the
// accumulate-then-report shape used across the front end: a phase keeps
// scanning/parsing after an error where it safely can, then the caller
// decides whether to abort based on the first error.
type ErrorList []Error

// Add appends a new error at the given location.
func (l *ErrorList) Add(loc Location, msg string) {
	*l = append(*l, Error{Loc: loc, Msg: msg})
}

// Err returns the error list as an error, or nil if the list is empty.
// tinyc's phases are fail-fast (spec §7): callers use this right after the
// first error is added rather than accumulating a full list, but the list
// shape is kept for parity with the front end's diagnostics style and to
// allow batch-reporting call sites (e.g. the tokenize/parse CLI subcommands).
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Unwrap lets errors.Is/errors.As traverse the individual errors in the list.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}
