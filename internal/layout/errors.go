package layout

import "errors"

// Logical errors raised by workspace operations. These are surfaced to
// IPC clients as error{message} and never roll back already-applied
// mutations (spec: layout-engine logical errors do not mutate state on
// failure, by construction — every operation below validates before
// mutating).
var (
	ErrColumnOutOfBounds     = errors.New("column index out of bounds")
	ErrWindowNotFound        = errors.New("window not found")
	ErrCannotRemoveLastColumn = errors.New("cannot remove the last column")
	ErrEmptyColumn           = errors.New("column is empty")
	ErrWindowAlreadyPresent  = errors.New("window already present in workspace")
)
