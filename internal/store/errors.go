package store

import (
	"errors"
	"fmt"
)

// ErrLocked is returned by Lock when another crawl holds the database
var ErrLocked = errors.New("database is locked by another crawl")

// MalformedInputError reports a database file that cannot be loaded
type MalformedInputError struct {
	// Line is the 1-based line of the offending row, 0 when unknown
	Line   int
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	msg := "malformed database"
	if e.Line > 0 {
		msg = fmt.Sprintf("%s: line %d", msg, e.Line)
	}
	msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// IOError reports a database that could not be read or written
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s database: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s database %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
