// Package execution classifies the outcome of a unit of work: executed,
// up-to-date, cancelled or failed. Execution is synchronous; cancellation is
// cooperative and checked once after the unit returns, never polled during
// execution.
package execution

import (
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

// UnitOfWork is an opaque external task. Execute reports whether work
// actually happened; an error means the unit failed.
type UnitOfWork interface {
	Execute() (didWork bool, err error)
	DisplayName() string
}

// CancellationToken exposes an externally-owned cancellation flag.
type CancellationToken interface {
	IsCancellationRequested() bool
}

// Token is a CancellationToken writable by the owner of the build.
type Token struct {
	cancelled int32
}

func (t *Token) Cancel() {
	atomic.StoreInt32(&t.cancelled, 1)
}

func (t *Token) IsCancellationRequested() bool {
	return atomic.LoadInt32(&t.cancelled) != 0
}

// ExecuteStep runs units of work and classifies their results against a
// cancellation token.
type ExecuteStep struct {
	token CancellationToken
}

func NewExecuteStep(token CancellationToken) *ExecuteStep {
	return &ExecuteStep{token: token}
}

// Execute runs work to completion on the calling goroutine and classifies it:
//   - a failure is always reported as an ExecutionError wrapping the cause,
//     regardless of cancellation state;
//   - cancellation observed after a nominally successful execution takes
//     precedence over the result;
//   - otherwise the Result is EXECUTED or UPTODATE by whether work happened.
func (s *ExecuteStep) Execute(work UnitOfWork) Result {
	didWork, err := work.Execute()
	if err != nil {
		log.Debugf("%s failed: %v", work.DisplayName(), err)
		return FailureResult(&ExecutionError{DisplayName: work.DisplayName(), Cause: err})
	}
	if s.token.IsCancellationRequested() {
		return FailureResult(&CancelledError{DisplayName: work.DisplayName()})
	}
	if didWork {
		return SuccessResult(EXECUTED)
	}
	return SuccessResult(UPTODATE)
}
