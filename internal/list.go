package internal

import (
	"strconv"
	"strings"
)

// NewArray creates an array holding items. Arrays are objects with index
// properties and a non-enumerable length.
func (vm *VM) NewArray(items []Value) *Object {
	obj := vm.ObjectWith(vm.ArrayProto, nil, ArrayTag)
	for i, v := range items {
		escape(v)
		obj.SetOwn(strconv.Itoa(i), v)
	}
	obj.DefineOwn("length", Property{Value: NumberValue(float64(len(items))), Writable: true})
	return obj
}

// ArrayLength returns the length of an array-like object: the value of its
// length property as an unsigned 32-bit integer.
func ArrayLength(obj *Object) int {
	v := obj.Get("length")
	if v.Kind() != Number {
		return 0
	}
	return int(ToUint32(v.Float()))
}

// ArrayItems returns the elements of an array-like object in index order.
// Missing elements are undefined.
func ArrayItems(obj *Object) []Value {
	n := ArrayLength(obj)
	r := make([]Value, n)
	for i := range r {
		r[i] = obj.Get(strconv.Itoa(i))
	}
	return r
}

// arraySet writes to a property of an array, keeping length one past the
// largest index. Writing a smaller length removes the elements beyond it.
func (vm *VM) arraySet(obj *Object, key string, v Value) error {
	lp, _ := obj.GetOwn("length")
	if key == "length" {
		n := PrimitiveToNumber(v)
		if v.IsObject() || float64(ToUint32(n)) != n {
			return &RangeError{Msg: "invalid array length"}
		}
		if lp != nil && !lp.Writable {
			return &PropertyError{Op: "assign to", Key: key, Err: ErrNotWritable}
		}
		for i := int(n); i < ArrayLength(obj); i++ {
			obj.RemoveOwn(strconv.Itoa(i))
		}
		return obj.SetOwn("length", NumberValue(n))
	}
	if err := obj.SetOwn(key, v); err != nil {
		return err
	}
	if i, ok := arrayIndex(key); ok && lp != nil && i >= ArrayLength(obj) {
		lp.Value = NumberValue(float64(i + 1))
	}
	return nil
}

// Push appends items to an array and returns its new length.
func (vm *VM) Push(obj *Object, items ...Value) (int, error) {
	n := ArrayLength(obj)
	for _, v := range items {
		escape(v)
		if err := vm.arraySet(obj, strconv.Itoa(n), v); err != nil {
			return n, err
		}
		n++
	}
	if obj.Tag() != ArrayTag {
		if err := obj.SetOwn("length", NumberValue(float64(n))); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Join converts each element of an array-like object to a string and joins
// them with sep. null and undefined elements become empty strings.
func (vm *VM) Join(obj *Object, sep string) (string, Value, Stop) {
	var b strings.Builder
	for i, v := range ArrayItems(obj) {
		if i > 0 {
			b.WriteString(sep)
		}
		if v.IsNullish() {
			continue
		}
		s, exc, stop := vm.ToString(v)
		if stop != NoStop {
			return "", exc, stop
		}
		b.WriteString(s)
	}
	return b.String(), UndefinedValue, NoStop
}
