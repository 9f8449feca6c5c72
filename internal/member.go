package internal

import (
	"fmt"
	"strconv"
	"unicode/utf16"
)

// GetMember reads the property key of base. Strings, numbers, and booleans
// resolve through their builtin prototypes; strings also have a length and
// index properties. Reading from null or undefined throws a TypeError.
func (vm *VM) GetMember(base Value, key string) (Value, Stop) {
	switch base.Kind() {
	case ObjectKind:
		return base.obj.Get(key), NoStop
	case Undefined, Null:
		return vm.ThrowError(&TypeError{Msg: fmt.Sprintf("cannot read property %q of %s", key, base.Kind()), Err: ErrNotObject})
	case String:
		if key == "length" {
			return NumberValue(float64(StringLength(base.str))), NoStop
		}
		if i, ok := arrayIndex(key); ok {
			if c, ok := charAt(base.str, i); ok {
				return StringValue(c), NoStop
			}
			return UndefinedValue, NoStop
		}
	}
	if p := vm.PrototypeOf(base); p != nil {
		return p.Get(key), NoStop
	}
	return UndefinedValue, NoStop
}

// SetMember writes v to the property key of base. A write that would change
// a non-writable own or inherited property, or add to a non-extensible
// object, does nothing, or throws a TypeError in strict mode. Writes to
// primitives are ignored likewise. Writing to null or undefined throws a
// TypeError.
func (vm *VM) SetMember(base Value, key string, v Value) (Value, Stop) {
	switch base.Kind() {
	case Undefined, Null:
		return vm.ThrowError(&TypeError{Msg: fmt.Sprintf("cannot set property %q of %s", key, base.Kind()), Err: ErrNotObject})
	case ObjectKind:
		// handled below
	default:
		if vm.Strict {
			return vm.ThrowError(&TypeError{Msg: fmt.Sprintf("cannot create property %q on %s", key, base.Kind()), Err: ErrNotObject})
		}
		return v, NoStop
	}
	obj := base.obj
	escape(v)
	if !obj.HasOwn(key) {
		if p, _ := obj.Lookup(key); p != nil && !p.Writable {
			err := &PropertyError{Op: "assign to inherited", Key: key, Err: ErrNotWritable}
			if vm.Strict {
				return vm.ThrowError(err)
			}
			return v, NoStop
		}
	}
	if obj.Tag() == ArrayTag {
		if err := vm.arraySet(obj, key, v); err != nil {
			if vm.Strict {
				return vm.ThrowError(err)
			}
		}
		return v, NoStop
	}
	if err := obj.SetOwn(key, v); err != nil && vm.Strict {
		return vm.ThrowError(err)
	}
	return v, NoStop
}

// arrayIndex parses a canonical array index.
func arrayIndex(key string) (int, bool) {
	if key == "" || len(key) > 1 && key[0] == '0' {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == 1<<32-1 {
		return 0, false
	}
	return int(n), true
}

// charAt returns the UTF-16 code unit at index i of s as a string.
func charAt(s string, i int) (string, bool) {
	u := utf16.Encode([]rune(s))
	if i < 0 || i >= len(u) {
		return "", false
	}
	return string(utf16.Decode(u[i : i+1])), true
}

// stringKeys returns an object holding the index properties of s, for
// enumeration.
func (vm *VM) stringKeys(s string) *Object {
	obj := vm.ObjectWith(nil, nil, ObjectTag)
	for i, n := 0, StringLength(s); i < n; i++ {
		c, _ := charAt(s, i)
		obj.SetOwn(strconv.Itoa(i), StringValue(c))
	}
	return obj
}
