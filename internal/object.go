package internal

import (
	"sync/atomic"

	"github.com/iancoleman/orderedmap"
)

// Object is an ObjectRecord: an insertion-ordered table of own properties, a
// single prototype edge, and an extensibility flag. Functions, arrays,
// errors, and handles are objects distinguished by their tag and Value.
//
// Always use VM.NewObject, VM.ObjectWith, or a type-specific constructor to
// obtain new objects. Objects are not safe for concurrent use; a VM and all
// of its objects belong to a single goroutine.
type Object struct {
	// props maps each own key to its *Property, in insertion order.
	props *orderedmap.OrderedMap
	// proto is the object's prototype edge. Write it only through
	// VM.SetPrototype, which maintains acyclicity.
	proto *Object
	// extensible is false once the object has been made non-extensible.
	extensible bool

	// Value is the object's type-specific primitive value, e.g. a *Function
	// for functions or an *Exception for errors.
	Value interface{}
	// tag is the type indicator of the object.
	tag Tag

	// id is the object's unique ID.
	id uintptr
}

// Tag is a type indicator for objects. Tags for different types must not be
// equal.
type Tag interface {
	// String returns the name of the type associated with this tag.
	String() string
}

// BasicTag is a Tag for object types with no behavior beyond their name.
type BasicTag string

// String returns the receiver.
func (t BasicTag) String() string {
	return string(t)
}

// Tags of the builtin object types.
var (
	ObjectTag    Tag = BasicTag("Object")
	FunctionTag  Tag = BasicTag("Function")
	ArrayTag     Tag = BasicTag("Array")
	ArgumentsTag Tag = BasicTag("Arguments")
	ErrorTag     Tag = BasicTag("Error")
	HookTag      Tag = BasicTag("Hook")
)

// objcounter is the global counter for object IDs. All accesses to this must
// be atomic.
var objcounter uintptr

// nextObject increments the object counter and returns its value as a unique
// ID for a new object.
func nextObject() uintptr {
	return atomic.AddUintptr(&objcounter, 1)
}

// newObject allocates an empty extensible object.
func newObject(proto *Object, value interface{}, tag Tag) *Object {
	if tag == nil {
		tag = ObjectTag
	}
	return &Object{
		props:      orderedmap.New(),
		proto:      proto,
		extensible: true,
		Value:      value,
		tag:        tag,
		id:         nextObject(),
	}
}

// ObjectWith creates a new object with the given prototype, value, and tag.
// A nil proto creates an object with no prototype.
func (vm *VM) ObjectWith(proto *Object, value interface{}, tag Tag) *Object {
	return newObject(proto, value, tag)
}

// NewObject creates a new plain object inheriting from Object.prototype.
func (vm *VM) NewObject() *Object {
	return newObject(vm.ObjectProto, nil, ObjectTag)
}

// Tag returns the object's type indicator.
func (o *Object) Tag() Tag {
	return o.tag
}

// UniqueID returns the object's unique ID.
func (o *Object) UniqueID() uintptr {
	return o.id
}

// IsFunction returns whether the object is callable.
func (o *Object) IsFunction() bool {
	_, ok := o.Value.(*Function)
	return ok
}

// Function returns the object's function record, or nil if the object is not
// callable.
func (o *Object) Function() *Function {
	f, _ := o.Value.(*Function)
	return f
}

// IsExtensible reports whether new properties may be added to the object.
func (o *Object) IsExtensible() bool {
	return o.extensible
}

// PreventExtensions makes the object non-extensible. It cannot be undone.
func (o *Object) PreventExtensions() {
	o.extensible = false
}

// Len returns the number of own properties.
func (o *Object) Len() int {
	return len(o.props.Keys())
}
