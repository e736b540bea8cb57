package execution

import (
	"fmt"
)

// Outcome reports what a successfully classified unit of work did.
type Outcome int

const (
	// An unambiguous 0-value.
	UNKNOWN Outcome = iota
	// The unit performed work.
	EXECUTED
	// The unit determined no work was necessary.
	UPTODATE
)

func (o Outcome) String() string {
	switch o {
	case UNKNOWN:
		return "UNKNOWN"
	case EXECUTED:
		return "EXECUTED"
	case UPTODATE:
		return "UPTODATE"
	default:
		panic(fmt.Sprintf("Unexpected Outcome %v", int(o)))
	}
}

// Result is the terminal classification of one unit of work: either a
// successful Outcome, or a failure carried in Err (an *ExecutionError or a
// *CancelledError). Neither failure is retried here; retry policy belongs to
// the caller.
type Result struct {
	Outcome Outcome
	Err     error
}

func (r Result) Success() bool {
	return r.Err == nil
}

// Helper functions to create Results

func SuccessResult(outcome Outcome) (r Result) {
	r.Outcome = outcome
	return r
}

func FailureResult(err error) (r Result) {
	r.Err = err
	return r
}
