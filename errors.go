package lmfit

import (
	"fmt"
	"sync"
)

// FitError is a call-level error: it aborts the whole Fit call before any
// output is produced. Message is a human-readable diagnostic; Err, if
// non-nil, is the underlying cause.
type FitError struct {
	Message string
	Err     error
}

func (e *FitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lmfit: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("lmfit: %s", e.Message)
}

func (e *FitError) Unwrap() error { return e.Err }

func newFitError(message string, err error) *FitError {
	fe := &FitError{Message: message, Err: err}
	setLastError(fe.Error())
	return fe
}

var lastErrorMu sync.Mutex
var lastError string

func setLastError(s string) {
	lastErrorMu.Lock()
	lastError = s
	lastErrorMu.Unlock()
}

// LastError returns the message of the most recent call-level error
// produced by Fit, for callers that prefer polling a status string over
// Go's error return. Returns the empty string if no call has ever failed.
func LastError() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastError
}
