package kormarc

import (
	"fmt"
	"strings"
)

// ValidationError reports a construction-time rejection of an invalid
// model value, such as an out-of-enumeration leader code or a field
// tag outside its range. It is fatal to the construction call and is
// never silently coerced.
type ValidationError struct {
	// Field names the offending model field (e.g. "record_status").
	Field string

	// Value is the rejected input.
	Value string

	// Allowed lists the accepted values, when the field is drawn from
	// a closed set.
	Allowed []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("invalid %s %q: must be one of [%s]",
			e.Field, e.Value, strings.Join(e.Allowed, " "))
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

// LeaderLengthError reports a leader string that is not exactly
// LeaderLength characters. It carries the length that was found.
type LeaderLengthError struct {
	Length int
}

// Error implements the error interface.
func (e *LeaderLengthError) Error() string {
	return fmt.Sprintf("leader must be exactly %d characters, got %d characters",
		LeaderLength, e.Length)
}

// ParseError reports a failure to parse a record, a leader, or a
// single field line. It is fatal to the parse call that produced it;
// callers may catch it and skip the whole record.
type ParseError struct {
	// Msg describes the failure.
	Msg string

	// Tag is the offending field tag, when the failure is attributable
	// to one field.
	Tag string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Tag != "" {
		msg = fmt.Sprintf("%s (tag %s)", msg, e.Tag)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}
