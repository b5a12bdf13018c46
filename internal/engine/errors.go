package engine

import "fmt"

// SnapshotError indicates a persisted snapshot is structurally unusable.
// Domain conditions never produce errors; this is reserved for bad input
// handed over by the persistence layer.
type SnapshotError struct {
	Version int
	Reason  string
}

func (e SnapshotError) Error() string {
	if e.Version > 0 {
		return fmt.Sprintf("invalid snapshot (version %d): %s", e.Version, e.Reason)
	}
	return fmt.Sprintf("invalid snapshot: %s", e.Reason)
}

// InputError is returned by creation commands when a required field is missing.
type InputError struct {
	Field  string
	Reason string
}

func (e InputError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
