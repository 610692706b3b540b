package sanity

import (
	"errors"
	"fmt"
)

// ErrStructuralViolation marks a graph that is not a proper tree.
var ErrStructuralViolation = errors.New("structural violation")

func violation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructuralViolation, fmt.Sprintf(format, args...))
}

// CheckError is returned by a failed check. It wraps the failure found by
// the walk.
type CheckError struct {
	CheckID string
	// RootID is the id of the root that was dumped.
	RootID string
	// DumpPath is where the root was written, or "" if the dump failed.
	DumpPath string
	Err      error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("tree check %s failed: %v", e.CheckID, e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}
