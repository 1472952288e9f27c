package typegraph

import "fmt"

// InvariantError is the error the boundary package returns when a
// caller-facing operation was given arguments that would violate a
// data-model invariant (a nil variable, CFG node or handle where one is
// required, or a handle that was never bound). The typegraph package itself
// returns no errors; its operations either succeed or hit a programmer
// error (see assertf).
type InvariantError struct {
	Op      string
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("typegraph: %s: %s", e.Op, e.Message)
}

func invariantErrorf(op, format string, args ...any) *InvariantError {
	return &InvariantError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// assertf panics with a diagnostic. It is used only for conditions the
// public API makes unreachable from valid use (e.g. the solver discovering
// two goals for the same variable that were never checked for conflict) -
// the Go analogue of the original implementation's CHECK(...) macros.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("typegraph: internal invariant violated: "+format, args...))
	}
}
