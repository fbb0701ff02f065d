package html

import (
	"fmt"
)

// ParseError is a diagnostic for malformed markup. Parse errors never abort
// parsing; they are collected and reported with the result.
type ParseError struct {
	Offset int    // byte offset in the decoded input
	Line   int    // line number, starting at 1
	Msg    string // description
}

func (e ParseError) Error() string {
	return fmt.Sprintf("html:%d: %s", e.Line, e.Msg)
}

// DefaultMaxErrors is the number of parse errors kept per document if not
// configured otherwise.
const DefaultMaxErrors = 100

// diagnostics collects parse errors up to a limit.
type diagnostics struct {
	max     int
	errors  []ParseError
	dropped int
}

func (d *diagnostics) add(offset, line int, msg string) {
	if d.max > 0 && len(d.errors) >= d.max {
		d.dropped++
		return
	}
	tracer().Debugf("html:%d: %s", line, msg)
	d.errors = append(d.errors, ParseError{Offset: offset, Line: line, Msg: msg})
}

func (d *diagnostics) tokenError(tok *Token, format string, args ...interface{}) {
	d.add(tok.Offset, tok.Line, fmt.Sprintf(format, args...))
}
