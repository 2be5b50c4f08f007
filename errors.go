package shellexpand

import (
	"errors"
	"fmt"
)

// ErrVariableNotSet is the lookup cause reported by Env and Full when a
// referenced variable is not present in the process environment.
var ErrVariableNotSet = errors.New("variable not set")

// LookupError is the only error type produced by the expansion engine. It
// carries the name of the variable whose lookup failed together with the
// cause returned by the caller's LookupFunc. The cause is opaque to the
// engine; callers recover their own error types through errors.Is and
// errors.As.
type LookupError struct {
	// Name is the variable name whose lookup failed.
	Name string
	// Cause is the error returned by the lookup function. Never nil.
	Cause error
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("error looking up variable %q: %v", e.Name, e.Cause)
}

// Unwrap returns the caller-supplied cause.
func (e *LookupError) Unwrap() error {
	return e.Cause
}
