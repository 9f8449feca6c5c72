package protocore

import (
	"github.com/zephyrtronium/protocore/config"
	"github.com/zephyrtronium/protocore/internal"
)

// VM is an object for executing programs.
type VM = internal.VM

// Value is a tagged union of undefined, null, boolean, number, string, and
// object values.
type Value = internal.Value

// Kind identifies the variant held by a Value.
type Kind = internal.Kind

// Object is a set of ordered properties with a prototype edge.
type Object = internal.Object

// Property is a data property descriptor.
type Property = internal.Property

// Env is a lexical scope.
type Env = internal.Env

// Fn is a native function which can be called in a VM.
type Fn = internal.Fn

// Function is the callable record held by function objects.
type Function = internal.Function

// Stop is a control flow reason.
type Stop = internal.Stop

// Completion is the result of executing a statement.
type Completion = internal.Completion

// Handle is a reference-counted diagnostic record.
type Handle = internal.Handle

// Tracker is a VM's handle registry.
type Tracker = internal.Tracker

// Tag is a type indicator for objects.
type Tag = internal.Tag

// UncaughtError is an exception that escaped a program.
type UncaughtError = internal.UncaughtError

// Exception is the value of error objects.
type Exception = internal.Exception

// Value kinds.
const (
	Undefined  = internal.Undefined
	Null       = internal.Null
	Boolean    = internal.Boolean
	Number     = internal.Number
	String     = internal.String
	ObjectKind = internal.ObjectKind
)

// Control flow reasons.
const (
	NoStop        = internal.NoStop
	ContinueStop  = internal.ContinueStop
	BreakStop     = internal.BreakStop
	ReturnStop    = internal.ReturnStop
	ExceptionStop = internal.ExceptionStop
)

// Tag variables for builtin types.
var (
	ObjectTag    = internal.ObjectTag
	FunctionTag  = internal.FunctionTag
	ArrayTag     = internal.ArrayTag
	ArgumentsTag = internal.ArgumentsTag
	ErrorTag     = internal.ErrorTag
	HookTag      = internal.HookTag
)

// Predeclared values.
var (
	UndefinedValue = internal.UndefinedValue
	NullValue      = internal.NullValue
	TrueValue      = internal.TrueValue
	FalseValue     = internal.FalseValue
)

// NewVM prepares a new VM configured by cfg. A nil cfg uses the defaults
// from package config.
func NewVM(cfg *config.Config) *VM {
	return internal.NewVM(cfg)
}

// NumberValue creates a number.
func NumberValue(f float64) Value {
	return internal.NumberValue(f)
}

// StringValue creates a string.
func StringValue(s string) Value {
	return internal.StringValue(s)
}

// BoolValue converts a Go bool.
func BoolValue(b bool) Value {
	return internal.BoolValue(b)
}

// ObjectValue wraps an object. A nil object becomes null.
func ObjectValue(o *Object) Value {
	return internal.ObjectValue(o)
}

// Arg returns the i'th argument, or undefined if there are fewer.
func Arg(args []Value, i int) Value {
	return internal.Arg(args, i)
}

// PlatformVersion describes the host operating system.
func PlatformVersion() string {
	return internal.PlatformVersion()
}

// Version is the engine version.
const Version = internal.Version

// FormatStack renders a recorded stack one frame per line, innermost first.
func FormatStack(stack []string) string {
	return internal.FormatStack(stack)
}
