package internal

import (
	"fmt"
	"slices"
)

// Stop represents the reason for flow control.
type Stop int

// Control flow reasons.
const (
	// NoStop indicates normal execution.
	NoStop Stop = iota
	// ContinueStop should be interpreted by loops as a signal to end the
	// current iteration and re-test.
	ContinueStop
	// BreakStop should be interpreted by loops, switches, and labeled
	// statements as a signal to exit.
	BreakStop
	// ReturnStop should be interpreted by function bodies as a signal to
	// exit with a value.
	ReturnStop
	// ExceptionStop propagates a thrown value until a catch clause or the
	// top level receives it.
	ExceptionStop
)

var stopNames = [...]string{"normal", "continue", "break", "return", "exception"}

// String returns a string representation of the Stop.
func (s Stop) String() string {
	if s < NoStop || s > ExceptionStop {
		return fmt.Sprintf("Stop(%d)", s)
	}
	return stopNames[s]
}

// Err returns nil if s is NoStop or an error value otherwise. Panics if s is
// not a valid Stop.
func (s Stop) Err() error {
	switch s {
	case NoStop:
		return nil
	case ContinueStop, BreakStop, ReturnStop, ExceptionStop:
		return stopError(s)
	default:
		panic(fmt.Sprintf("protocore: invalid Stop: %v", s))
	}
}

type stopError Stop

func (err stopError) Error() string {
	return Stop(err).String()
}

// Completion is the result of executing a statement.
type Completion struct {
	// Value is the completion value: the thrown value for exceptions, the
	// returned value for returns, and the last expression value otherwise.
	Value Value
	// Control is the kind of control transfer.
	Control Stop
	// Label is the target label of a break or continue, or empty.
	Label string
}

// Normal returns a normal completion holding v.
func Normal(v Value) Completion {
	return Completion{Value: v}
}

// Throw returns an exception completion holding v.
func Throw(v Value) Completion {
	return Completion{Value: v, Control: ExceptionStop}
}

// Abrupt reports whether c transfers control.
func (c Completion) Abrupt() bool {
	return c.Control != NoStop
}

// targets reports whether a break or continue completion is aimed at a
// construct owning labels. Unlabeled completions target the innermost
// construct.
func (c Completion) targets(labels []string) bool {
	return c.Label == "" || slices.Contains(labels, c.Label)
}

// String formats the completion for diagnostics.
func (c Completion) String() string {
	if c.Label != "" {
		return fmt.Sprintf("%s %s (%v)", c.Control, c.Label, c.Value)
	}
	return fmt.Sprintf("%s (%v)", c.Control, c.Value)
}
