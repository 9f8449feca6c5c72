package internal

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for property and prototype contract violations.
var (
	ErrNotWritable      = errors.New("property is not writable")
	ErrNotExtensible    = errors.New("object is not extensible")
	ErrNotConfigurable  = errors.New("property is not configurable")
	ErrCyclicPrototype  = errors.New("cyclic prototype chain")
	ErrNotObject        = errors.New("not an object")
	ErrNotFunction      = errors.New("not a function")
	ErrCallDepth        = errors.New("maximum call depth exceeded")
	ErrStrayControlFlow = errors.New("control flow escaped its construct")
)

// PropertyError describes a failed write to a property.
type PropertyError struct {
	Op  string
	Key string
	Err error
}

func (err *PropertyError) Error() string {
	return fmt.Sprintf("cannot %s property %q: %v", err.Op, err.Key, err.Err)
}

func (err *PropertyError) Unwrap() error {
	return err.Err
}

// ProtoError describes a rejected prototype assignment.
type ProtoError struct {
	Obj *Object
	Err error
}

func (err *ProtoError) Error() string {
	return "cannot set prototype: " + err.Err.Error()
}

func (err *ProtoError) Unwrap() error {
	return err.Err
}

// TypeError is a Go error that becomes a TypeError exception when thrown.
type TypeError struct {
	Msg string
	Err error
}

func (err *TypeError) Error() string {
	if err.Err != nil {
		return err.Msg + ": " + err.Err.Error()
	}
	return err.Msg
}

func (err *TypeError) Unwrap() error {
	return err.Err
}

// RangeError is a Go error that becomes a RangeError exception when thrown.
type RangeError struct {
	Msg string
	Err error
}

func (err *RangeError) Error() string {
	return err.Msg
}

func (err *RangeError) Unwrap() error {
	return err.Err
}

// ReferenceError reports a read of an undeclared name.
type ReferenceError struct {
	Name string
}

func (err *ReferenceError) Error() string {
	return err.Name + " is not defined"
}

// SyntaxError is a Go error that becomes a SyntaxError exception when thrown.
type SyntaxError struct {
	Msg string
	Err error
}

func (err *SyntaxError) Error() string {
	return err.Msg
}

func (err *SyntaxError) Unwrap() error {
	return err.Err
}

// Exception is the Value of error objects.
type Exception struct {
	// Message is the message the error was constructed with.
	Message string
	// Stack holds the names of the active functions when the error was
	// created, innermost last.
	Stack []string
}

// NewError creates an error object inheriting from proto, which should be
// ErrorProto or one of its descendants. The current call stack is recorded.
func (vm *VM) NewError(proto *Object, msg string) *Object {
	if proto == nil {
		proto = vm.ErrorProto
	}
	return vm.ObjectWith(proto, &Exception{Message: msg, Stack: vm.StackTrace()}, ErrorTag)
}

// StackTrace returns the names of the functions currently executing,
// innermost last. The program itself appears as "<program>".
func (vm *VM) StackTrace() []string {
	r := make([]string, len(vm.frames))
	for i, f := range vm.frames {
		r[i] = f.Name()
	}
	return r
}

// ThrowError converts a Go error into an exception object and returns it with
// ExceptionStop. The exception's prototype is chosen by the error's type:
// TypeError, RangeError, ReferenceError, and SyntaxError map to their
// namesakes; property and prototype violations are TypeErrors; anything else
// is a plain Error.
func (vm *VM) ThrowError(err error) (Value, Stop) {
	return ObjectValue(vm.NewError(vm.errorProtoFor(err), err.Error())), ExceptionStop
}

func (vm *VM) errorProtoFor(err error) *Object {
	var (
		te *TypeError
		re *RangeError
		fe *ReferenceError
		se *SyntaxError
		pe *PropertyError
		ce *ProtoError
	)
	switch {
	case errors.As(err, &te), errors.As(err, &pe), errors.As(err, &ce):
		return vm.TypeErrorProto
	case errors.As(err, &re):
		return vm.RangeErrorProto
	case errors.As(err, &fe):
		return vm.ReferenceErrorProto
	case errors.As(err, &se):
		return vm.SyntaxErrorProto
	case errors.Is(err, ErrNotObject), errors.Is(err, ErrNotFunction):
		return vm.TypeErrorProto
	}
	return vm.ErrorProto
}

// Throwf creates an exception inheriting from proto with a formatted message
// and returns it with ExceptionStop.
func (vm *VM) Throwf(proto *Object, format string, args ...interface{}) (Value, Stop) {
	return ObjectValue(vm.NewError(proto, fmt.Sprintf(format, args...))), ExceptionStop
}

// ErrorName returns the name property visible from an error object, falling
// back to "Error".
func ErrorName(o *Object) string {
	if v := o.Get("name"); v.Kind() == String {
		return v.Str()
	}
	return "Error"
}

// UncaughtError reports an exception that escaped a program.
type UncaughtError struct {
	// Value is the thrown value.
	Value Value
	// Message describes the thrown value.
	Message string
	// Stack is the recorded call stack for error objects, innermost last.
	Stack []string
}

func (err *UncaughtError) Error() string {
	return "uncaught exception: " + err.Message
}

// Uncaught describes a thrown value for the embedder without running any
// program code.
func (vm *VM) Uncaught(v Value) *UncaughtError {
	err := &UncaughtError{Value: v}
	if o := v.Object(); o != nil {
		if ex, ok := o.Value.(*Exception); ok {
			err.Message = ErrorName(o) + ": " + ex.Message
			err.Stack = ex.Stack
			return err
		}
	}
	if v.Kind() == String {
		err.Message = v.Str()
	} else {
		err.Message = v.String()
	}
	return err
}

// FormatStack renders a recorded stack one frame per line, innermost first.
func FormatStack(stack []string) string {
	var b strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteString("\tat ")
		b.WriteString(stack[i])
		b.WriteByte('\n')
	}
	return b.String()
}
