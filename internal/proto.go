package internal

import (
	"context"
	"log/slog"

	"github.com/zephyrtronium/contains"
)

// Proto returns the object's prototype, or nil if it has none. Repeated calls
// on an object whose prototype has not been reassigned return the identical
// object.
func (o *Object) Proto() *Object {
	return o.proto
}

// SetPrototype rewires the prototype edge of o to proto, which may be nil.
// The candidate chain is checked before anything is written: if o is
// reachable from proto, or proto is o, the edge is left unchanged and an
// error wrapping ErrCyclicPrototype is returned. A non-extensible object
// cannot change its prototype.
func (vm *VM) SetPrototype(o, proto *Object) error {
	if o.proto == proto {
		return nil
	}
	if !o.extensible {
		return &ProtoError{Obj: o, Err: ErrNotExtensible}
	}
	vm.protoSet.Reset()
	for p := proto; p != nil; p = p.proto {
		if p == o {
			return &ProtoError{Obj: o, Err: ErrCyclicPrototype}
		}
		if !vm.protoSet.Add(p.UniqueID()) {
			// The existing graph is acyclic, so this cannot happen unless
			// an edge was written around SetPrototype.
			return &ProtoError{Obj: o, Err: ErrCyclicPrototype}
		}
	}
	o.proto = proto
	if proto != nil {
		escape(ObjectValue(proto))
	}
	if vm.Logger.Enabled(context.Background(), slog.LevelDebug) {
		vm.Logger.Debug("prototype rewired", slog.Uint64("object", uint64(o.UniqueID())), slog.Any("proto", protoID(proto)))
	}
	return nil
}

func protoID(p *Object) interface{} {
	if p == nil {
		return nil
	}
	return uint64(p.UniqueID())
}

// InheritsFrom reports whether proto appears in the prototype chain of o,
// not counting o itself.
func (o *Object) InheritsFrom(proto *Object) bool {
	if proto == nil {
		return false
	}
	set := contains.Set{}
	for p := o.proto; p != nil; p = p.proto {
		if p == proto {
			return true
		}
		if !set.Add(p.UniqueID()) {
			return false
		}
	}
	return false
}

// IsKindOf reports whether o is kind or has kind anywhere in its prototype
// chain.
func (o *Object) IsKindOf(kind *Object) bool {
	return o == kind || o.InheritsFrom(kind)
}

// PrototypeOf returns the first link of the prototype chain used for lookups
// on v. Objects use their own edge; strings start at String.prototype,
// numbers at Number.prototype, and booleans at Boolean.prototype. null and
// undefined have no chain.
func (vm *VM) PrototypeOf(v Value) *Object {
	switch v.Kind() {
	case ObjectKind:
		return v.obj.proto
	case String:
		return vm.StringProto
	case Number:
		return vm.NumberProto
	case Boolean:
		return vm.BooleanProto
	}
	return nil
}

// ConstructorOf returns the value of the constructor property visible from
// v, or undefined.
func (vm *VM) ConstructorOf(v Value) Value {
	if v.IsObject() {
		return v.obj.Get("constructor")
	}
	if p := vm.PrototypeOf(v); p != nil {
		return p.Get("constructor")
	}
	return UndefinedValue
}

// InstanceOf reports whether the prototype object of the function fn appears
// in the prototype chain of v. It fails with a TypeError if fn is not a
// function or its prototype property is not an object.
func (vm *VM) InstanceOf(v, fn Value) (bool, error) {
	if !fn.IsFunction() {
		return false, &TypeError{Msg: "right-hand side of instanceof is not callable"}
	}
	pv := fn.obj.Get("prototype")
	if !pv.IsObject() {
		return false, &TypeError{Msg: "function has non-object prototype in instanceof check"}
	}
	proto := pv.obj
	start := vm.PrototypeOf(v)
	if v.IsNullish() || start == nil {
		return false, nil
	}
	return start == proto || start.InheritsFrom(proto), nil
}
