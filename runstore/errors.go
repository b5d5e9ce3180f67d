package runstore

import "errors"

var (
	// ErrNotFound indicates the requested run does not exist.
	ErrNotFound = errors.New("runstore: run not found")

	// ErrAlreadyPaid indicates a recipient is already covered by an
	// earlier run.
	ErrAlreadyPaid = errors.New("runstore: recipient already paid")

	// ErrEmptyField indicates a run record is missing a required field.
	ErrEmptyField = errors.New("runstore: empty required field")
)
