package internal

import (
	"fmt"
	"math"
)

// Kind identifies the variant held by a Value.
type Kind uint8

// Value kinds. The zero Value is Undefined.
const (
	Undefined Kind = iota
	Null
	Boolean
	Number
	String
	// ObjectKind covers every object, including functions.
	ObjectKind
)

var kindNames = [...]string{"undefined", "null", "boolean", "number", "string", "object"}

func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindNames[k]
}

// Value is a tagged union of the engine's runtime values. Values are small
// and passed by value; objects are shared by reference.
type Value struct {
	kind Kind
	num  float64
	str  string
	obj  *Object
}

// Predeclared values.
var (
	UndefinedValue = Value{}
	NullValue      = Value{kind: Null}
	TrueValue      = Value{kind: Boolean, num: 1}
	FalseValue     = Value{kind: Boolean}
	NaN            = Value{kind: Number, num: math.NaN()}
)

// NumberValue creates a number.
func NumberValue(f float64) Value {
	return Value{kind: Number, num: f}
}

// StringValue creates a string.
func StringValue(s string) Value {
	return Value{kind: String, str: s}
}

// BoolValue converts a Go bool.
func BoolValue(b bool) Value {
	if b {
		return TrueValue
	}
	return FalseValue
}

// ObjectValue wraps an object. A nil object becomes null.
func ObjectValue(o *Object) Value {
	if o == nil {
		return NullValue
	}
	return Value{kind: ObjectKind, obj: o}
}

// Kind returns the value's variant.
func (v Value) Kind() Kind {
	return v.kind
}

// IsUndefined reports whether v is undefined.
func (v Value) IsUndefined() bool { return v.kind == Undefined }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == Null }

// IsNullish reports whether v is null or undefined.
func (v Value) IsNullish() bool { return v.kind <= Null }

// IsObject reports whether v is an object, including functions.
func (v Value) IsObject() bool { return v.kind == ObjectKind }

// IsFunction reports whether v is a callable object.
func (v Value) IsFunction() bool {
	return v.kind == ObjectKind && v.obj.IsFunction()
}

// Object returns the object v refers to, or nil if v is not an object.
func (v Value) Object() *Object {
	return v.obj
}

// Float returns the number held by v. It is meaningful only for Number and
// Boolean values.
func (v Value) Float() float64 {
	return v.num
}

// Bool returns the boolean held by v. It is meaningful only for Boolean
// values.
func (v Value) Bool() bool {
	return v.num != 0
}

// Str returns the string held by v. It is meaningful only for String values.
func (v Value) Str() string {
	return v.str
}

// Handle returns the tracked handle v refers to, if any.
func (v Value) Handle() *Handle {
	if v.kind != ObjectKind {
		return nil
	}
	h, _ := v.obj.Value.(*Handle)
	return h
}

// String returns a debugging representation of v. Use VM.ToString for the
// language's string conversion.
func (v Value) String() string {
	switch v.kind {
	case Undefined, Null:
		return v.kind.String()
	case Boolean:
		if v.Bool() {
			return "true"
		}
		return "false"
	case Number:
		return FormatNumber(v.num)
	case String:
		return v.str
	default:
		return fmt.Sprintf("[object %s]", v.obj.Tag())
	}
}
