package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a resume or job row does not exist.
var ErrNotFound = errors.New("not found")

// PersistenceError is a failed read or write of one section.
type PersistenceError struct {
	Section string
	Op      string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Section, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Wrap tags err with section and op unless it is nil or already a PersistenceError.
func Wrap(section, op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Section: section, Op: op, Err: err}
}
