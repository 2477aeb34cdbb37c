package nfa

import "fmt"

// BuildError represents a failure while compiling an AST into an NFA:
// an undefined or unsupported backreference, Repeat.Min > Repeat.Max,
// a negative exact repeat count, or a state budget overrun.
type BuildError struct {
	Message string
	StateID StateID
}

func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("NFA build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}
