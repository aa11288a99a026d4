package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyWorkload is returned when no process was submitted. No simulation runs.
var ErrEmptyWorkload = errors.New("no processes submitted")

// ValidationError describes one rejected field of a submitted process.
type ValidationError struct {
	Index  int    `json:"index"`
	PID    string `json:"process_id"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s %s", e.PID, e.Field, e.Reason)
}

// ValidationErrors collects every problem found in a batch. A batch with any
// validation error is rejected as a whole.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	messages := make([]string, len(e))
	for i, err := range e {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// InvariantViolation is raised with panic when the engine reaches a state a
// correct schedule can never produce.
type InvariantViolation struct {
	Message string
}

func (e *InvariantViolation) Error() string {
	return "mlfq invariant violated: " + e.Message
}

func invariant(ok bool, format string, args ...interface{}) {
	if !ok {
		panic(&InvariantViolation{Message: fmt.Sprintf(format, args...)})
	}
}
