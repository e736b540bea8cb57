package execution

import (
	"fmt"
)

// ExecutionError wraps the failure thrown by a unit of work, carrying the
// unit's display identity.
type ExecutionError struct {
	DisplayName string
	Cause       error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution of %s failed: %v", e.DisplayName, e.Cause)
}

// CancelledError reports that cancellation was requested while a unit of
// work was executing.
type CancelledError struct {
	DisplayName string
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("build cancelled during executing %s", e.DisplayName)
}
