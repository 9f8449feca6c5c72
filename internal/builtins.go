package internal

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

// method defines a builtin method on obj. Builtin methods are not enumerable.
func (vm *VM) method(obj *Object, name string, fn Fn, length int) {
	obj.DefineOwn(name, HiddenAttrs.With(ObjectValue(vm.NewNativeFunction(name, fn, length))))
}

// class creates a builtin constructor named name whose prototype property is
// proto, links proto back to it, and binds it globally.
func (vm *VM) class(name string, ctor Fn, length int, proto *Object) *Object {
	c := vm.NewNativeFunction(name, ctor, length)
	c.DefineOwn("prototype", FrozenAttrs.With(ObjectValue(proto)))
	proto.DefineOwn("constructor", HiddenAttrs.With(ObjectValue(c)))
	vm.SetGlobal(name, ObjectValue(c))
	return c
}

// thisObject returns the receiver as an object or a TypeError.
func (vm *VM) thisObject(this Value, what string) (*Object, Value, Stop) {
	if !this.IsObject() {
		v, s := vm.ThrowError(&TypeError{Msg: what + " called on non-object", Err: ErrNotObject})
		return nil, v, s
	}
	return this.obj, UndefinedValue, NoStop
}

func (vm *VM) initObject() {
	vm.ObjectProto = vm.ObjectWith(nil, nil, ObjectTag)
	// FunctionProto must exist before any function is created.
	vm.FunctionProto = vm.ObjectWith(vm.ObjectProto, nil, ObjectTag)
	p := vm.ObjectProto
	vm.method(p, "toString", objectToString, 0)
	vm.method(p, "valueOf", objectValueOf, 0)
	vm.method(p, "hasOwnProperty", objectHasOwnProperty, 1)
	vm.method(p, "isPrototypeOf", objectIsPrototypeOf, 1)
	vm.method(p, "proto", objectProto, 0)
	c := vm.class("Object", objectCall, 1, p)
	vm.method(c, "getPrototypeOf", objectGetPrototypeOf, 1)
	vm.method(c, "setPrototypeOf", objectSetPrototypeOf, 2)
	vm.method(c, "getConstructorOf", objectGetConstructorOf, 1)
	vm.method(c, "create", objectCreate, 1)
	vm.method(c, "preventExtensions", objectPreventExtensions, 1)
	vm.method(c, "isExtensible", objectIsExtensible, 1)
	vm.method(c, "defineProperty", objectDefineProperty, 3)
	vm.method(c, "keys", objectKeys, 1)
}

// objectCall is the Object constructor. It returns objects unchanged and
// creates a new object for null or undefined.
func objectCall(vm *VM, this Value, args []Value) (Value, Stop) {
	v := Arg(args, 0)
	if v.IsNullish() {
		return ObjectValue(vm.NewObject()), NoStop
	}
	return v, NoStop
}

func objectToString(vm *VM, this Value, args []Value) (Value, Stop) {
	switch this.Kind() {
	case Undefined:
		return StringValue("[object Undefined]"), NoStop
	case Null:
		return StringValue("[object Null]"), NoStop
	case ObjectKind:
		return StringValue("[object " + this.obj.Tag().String() + "]"), NoStop
	}
	return StringValue(PrimitiveToString(this)), NoStop
}

func objectValueOf(vm *VM, this Value, args []Value) (Value, Stop) {
	return this, NoStop
}

func objectHasOwnProperty(vm *VM, this Value, args []Value) (Value, Stop) {
	k, exc, stop := vm.ToPropertyKey(Arg(args, 0))
	if stop != NoStop {
		return exc, stop
	}
	if this.Kind() == String {
		if k == "length" {
			return TrueValue, NoStop
		}
		i, ok := arrayIndex(k)
		return BoolValue(ok && i < StringLength(this.str)), NoStop
	}
	obj, exc, stop := vm.thisObject(this, "hasOwnProperty")
	if stop != NoStop {
		return exc, stop
	}
	return BoolValue(obj.HasOwn(k)), NoStop
}

func objectIsPrototypeOf(vm *VM, this Value, args []Value) (Value, Stop) {
	v := Arg(args, 0)
	if !this.IsObject() || !v.IsObject() {
		return FalseValue, NoStop
	}
	return BoolValue(v.obj.InheritsFrom(this.obj)), NoStop
}

// objectProto returns the receiver's prototype, or null.
func objectProto(vm *VM, this Value, args []Value) (Value, Stop) {
	return ObjectValue(vm.PrototypeOf(this)), NoStop
}

func objectGetPrototypeOf(vm *VM, this Value, args []Value) (Value, Stop) {
	v := Arg(args, 0)
	if v.IsNullish() {
		return vm.ThrowError(&TypeError{Msg: "cannot get prototype of " + v.Kind().String(), Err: ErrNotObject})
	}
	return ObjectValue(vm.PrototypeOf(v)), NoStop
}

func objectSetPrototypeOf(vm *VM, this Value, args []Value) (Value, Stop) {
	o, p := Arg(args, 0), Arg(args, 1)
	if o.IsNullish() {
		return vm.ThrowError(&TypeError{Msg: "cannot set prototype of " + o.Kind().String(), Err: ErrNotObject})
	}
	if !p.IsObject() && !p.IsNull() {
		return vm.ThrowError(&TypeError{Msg: "object prototype may only be an object or null", Err: ErrNotObject})
	}
	if !o.IsObject() {
		return o, NoStop
	}
	if err := vm.SetPrototype(o.obj, p.Object()); err != nil {
		return vm.ThrowError(err)
	}
	return o, NoStop
}

func objectGetConstructorOf(vm *VM, this Value, args []Value) (Value, Stop) {
	return vm.ConstructorOf(Arg(args, 0)), NoStop
}

func objectCreate(vm *VM, this Value, args []Value) (Value, Stop) {
	p := Arg(args, 0)
	if !p.IsObject() && !p.IsNull() {
		return vm.ThrowError(&TypeError{Msg: "object prototype may only be an object or null", Err: ErrNotObject})
	}
	escape(p)
	return ObjectValue(vm.ObjectWith(p.Object(), nil, ObjectTag)), NoStop
}

func objectPreventExtensions(vm *VM, this Value, args []Value) (Value, Stop) {
	v := Arg(args, 0)
	if v.IsObject() {
		v.obj.PreventExtensions()
	}
	return v, NoStop
}

func objectIsExtensible(vm *VM, this Value, args []Value) (Value, Stop) {
	v := Arg(args, 0)
	return BoolValue(v.IsObject() && v.obj.IsExtensible()), NoStop
}

// objectDefineProperty defines a data property from a descriptor object.
// Fields missing from the descriptor keep their current values, or are false
// for a new property.
func objectDefineProperty(vm *VM, this Value, args []Value) (Value, Stop) {
	o, d := Arg(args, 0), Arg(args, 2)
	if !o.IsObject() {
		return vm.ThrowError(&TypeError{Msg: "Object.defineProperty called on non-object", Err: ErrNotObject})
	}
	if !d.IsObject() {
		return vm.ThrowError(&TypeError{Msg: "property description must be an object", Err: ErrNotObject})
	}
	k, exc, stop := vm.ToPropertyKey(Arg(args, 1))
	if stop != NoStop {
		return exc, stop
	}
	var desc Property
	if p, ok := o.obj.GetOwn(k); ok {
		desc = *p
	}
	if d.obj.Has("value") {
		desc.Value = d.obj.Get("value")
		escape(desc.Value)
	}
	for name, flag := range map[string]*bool{"writable": &desc.Writable, "enumerable": &desc.Enumerable, "configurable": &desc.Configurable} {
		if d.obj.Has(name) {
			*flag = ToBoolean(d.obj.Get(name))
		}
	}
	if err := o.obj.DefineOwn(k, desc); err != nil {
		return vm.ThrowError(err)
	}
	return o, NoStop
}

func objectKeys(vm *VM, this Value, args []Value) (Value, Stop) {
	v := Arg(args, 0)
	if !v.IsObject() {
		return vm.ThrowError(&TypeError{Msg: "Object.keys called on non-object", Err: ErrNotObject})
	}
	var keys []Value
	v.obj.ForeachProperty(func(key string, p *Property) bool {
		if p.Enumerable {
			keys = append(keys, StringValue(key))
		}
		return true
	})
	return ObjectValue(vm.NewArray(keys)), NoStop
}

func (vm *VM) initFunction() {
	p := vm.FunctionProto
	vm.method(p, "call", functionCall, 1)
	vm.method(p, "apply", functionApply, 2)
	vm.method(p, "toString", functionToString, 0)
	vm.class("Function", functionCtor, 0, p)
}

// functionCtor creates an empty anonymous function.
func functionCtor(vm *VM, this Value, args []Value) (Value, Stop) {
	return ObjectValue(vm.NewNativeFunction("", func(vm *VM, this Value, args []Value) (Value, Stop) {
		return UndefinedValue, NoStop
	}, 0)), NoStop
}

func functionCall(vm *VM, this Value, args []Value) (Value, Stop) {
	if len(args) == 0 {
		return vm.Call(this, UndefinedValue, nil)
	}
	return vm.Call(this, args[0], args[1:])
}

func functionApply(vm *VM, this Value, args []Value) (Value, Stop) {
	l := Arg(args, 1)
	var items []Value
	switch {
	case l.IsNullish():
	case l.IsObject():
		items = ArrayItems(l.obj)
	default:
		return vm.ThrowError(&TypeError{Msg: "argument list must be an object", Err: ErrNotObject})
	}
	return vm.Call(this, Arg(args, 0), items)
}

func functionToString(vm *VM, this Value, args []Value) (Value, Stop) {
	if !this.IsFunction() {
		return vm.ThrowError(&TypeError{Msg: "Function.prototype.toString called on non-function", Err: ErrNotFunction})
	}
	f := this.obj.Function()
	if f.Native != nil {
		return StringValue("function " + f.Name + "() { [native code] }"), NoStop
	}
	return StringValue("function " + f.Name + "(" + strings.Join(f.Decl.Params, ", ") + ") {...}"), NoStop
}

func (vm *VM) initArray() {
	p := vm.ObjectWith(vm.ObjectProto, nil, ObjectTag)
	vm.ArrayProto = p
	vm.method(p, "push", arrayPush, 1)
	vm.method(p, "pop", arrayPop, 0)
	vm.method(p, "join", arrayJoin, 1)
	vm.method(p, "indexOf", arrayIndexOf, 1)
	vm.method(p, "toString", arrayToString, 0)
	c := vm.class("Array", arrayCtor, 1, p)
	vm.method(c, "isArray", arrayIsArray, 1)
}

// arrayCtor creates an array. A single number argument is the new array's
// length; otherwise the arguments are its elements.
func arrayCtor(vm *VM, this Value, args []Value) (Value, Stop) {
	if len(args) == 1 && args[0].Kind() == Number {
		n := args[0].Float()
		if float64(ToUint32(n)) != n {
			return vm.Throwf(vm.RangeErrorProto, "invalid array length")
		}
		a := vm.NewArray(nil)
		a.SetOwn("length", args[0])
		return ObjectValue(a), NoStop
	}
	return ObjectValue(vm.NewArray(append([]Value(nil), args...))), NoStop
}

func arrayIsArray(vm *VM, this Value, args []Value) (Value, Stop) {
	v := Arg(args, 0)
	return BoolValue(v.IsObject() && v.obj.Tag() == ArrayTag), NoStop
}

func arrayPush(vm *VM, this Value, args []Value) (Value, Stop) {
	obj, exc, stop := vm.thisObject(this, "Array.prototype.push")
	if stop != NoStop {
		return exc, stop
	}
	n, err := vm.Push(obj, args...)
	if err != nil {
		return vm.ThrowError(err)
	}
	return NumberValue(float64(n)), NoStop
}

func arrayPop(vm *VM, this Value, args []Value) (Value, Stop) {
	obj, exc, stop := vm.thisObject(this, "Array.prototype.pop")
	if stop != NoStop {
		return exc, stop
	}
	n := ArrayLength(obj)
	if n == 0 {
		return UndefinedValue, NoStop
	}
	k := strconv.Itoa(n - 1)
	v := obj.Get(k)
	obj.RemoveOwn(k)
	if obj.Tag() == ArrayTag {
		if err := vm.arraySet(obj, "length", NumberValue(float64(n-1))); err != nil {
			return vm.ThrowError(err)
		}
	} else if err := obj.SetOwn("length", NumberValue(float64(n-1))); err != nil {
		return vm.ThrowError(err)
	}
	return v, NoStop
}

func arrayJoin(vm *VM, this Value, args []Value) (Value, Stop) {
	obj, exc, stop := vm.thisObject(this, "Array.prototype.join")
	if stop != NoStop {
		return exc, stop
	}
	sep := ","
	if s := Arg(args, 0); !s.IsUndefined() {
		if sep, exc, stop = vm.ToString(s); stop != NoStop {
			return exc, stop
		}
	}
	r, exc, stop := vm.Join(obj, sep)
	if stop != NoStop {
		return exc, stop
	}
	return StringValue(r), NoStop
}

func arrayIndexOf(vm *VM, this Value, args []Value) (Value, Stop) {
	obj, exc, stop := vm.thisObject(this, "Array.prototype.indexOf")
	if stop != NoStop {
		return exc, stop
	}
	want := Arg(args, 0)
	for i, v := range ArrayItems(obj) {
		if StrictEquals(v, want) {
			return NumberValue(float64(i)), NoStop
		}
	}
	return NumberValue(-1), NoStop
}

// arrayToString joins the elements with ", ".
func arrayToString(vm *VM, this Value, args []Value) (Value, Stop) {
	obj, exc, stop := vm.thisObject(this, "Array.prototype.toString")
	if stop != NoStop {
		return exc, stop
	}
	r, exc, stop := vm.Join(obj, ", ")
	if stop != NoStop {
		return exc, stop
	}
	return StringValue(r), NoStop
}

func (vm *VM) initString() {
	p := vm.ObjectWith(vm.ObjectProto, nil, ObjectTag)
	vm.StringProto = p
	vm.method(p, "toString", stringValueOf, 0)
	vm.method(p, "valueOf", stringValueOf, 0)
	vm.method(p, "charAt", stringCharAt, 1)
	vm.method(p, "indexOf", stringIndexOf, 1)
	vm.method(p, "toUpperCase", stringToUpperCase, 0)
	vm.method(p, "toLowerCase", stringToLowerCase, 0)
	vm.class("String", stringCtor, 1, p)
}

func stringCtor(vm *VM, this Value, args []Value) (Value, Stop) {
	if len(args) == 0 {
		return StringValue(""), NoStop
	}
	s, exc, stop := vm.ToString(args[0])
	if stop != NoStop {
		return exc, stop
	}
	return StringValue(s), NoStop
}

func thisString(vm *VM, this Value, what string) (string, Value, Stop) {
	if this.Kind() != String {
		v, s := vm.ThrowError(&TypeError{Msg: "String.prototype." + what + " requires a string receiver"})
		return "", v, s
	}
	return this.str, UndefinedValue, NoStop
}

func stringValueOf(vm *VM, this Value, args []Value) (Value, Stop) {
	s, exc, stop := thisString(vm, this, "valueOf")
	if stop != NoStop {
		return exc, stop
	}
	return StringValue(s), NoStop
}

func stringCharAt(vm *VM, this Value, args []Value) (Value, Stop) {
	s, exc, stop := thisString(vm, this, "charAt")
	if stop != NoStop {
		return exc, stop
	}
	n, exc, stop := vm.ToNumber(Arg(args, 0))
	if stop != NoStop {
		return exc, stop
	}
	if math.IsNaN(n) {
		n = 0
	}
	c, _ := charAt(s, int(math.Trunc(math.Max(-1, math.Min(n, float64(math.MaxInt32))))))
	return StringValue(c), NoStop
}

func stringIndexOf(vm *VM, this Value, args []Value) (Value, Stop) {
	s, exc, stop := thisString(vm, this, "indexOf")
	if stop != NoStop {
		return exc, stop
	}
	sub, exc, stop := vm.ToString(Arg(args, 0))
	if stop != NoStop {
		return exc, stop
	}
	i := strings.Index(s, sub)
	if i < 0 {
		return NumberValue(-1), NoStop
	}
	return NumberValue(float64(len(utf16.Encode([]rune(s[:i]))))), NoStop
}

func stringToUpperCase(vm *VM, this Value, args []Value) (Value, Stop) {
	s, exc, stop := thisString(vm, this, "toUpperCase")
	if stop != NoStop {
		return exc, stop
	}
	return StringValue(strings.ToUpper(s)), NoStop
}

func stringToLowerCase(vm *VM, this Value, args []Value) (Value, Stop) {
	s, exc, stop := thisString(vm, this, "toLowerCase")
	if stop != NoStop {
		return exc, stop
	}
	return StringValue(strings.ToLower(s)), NoStop
}

func (vm *VM) initNumber() {
	p := vm.ObjectWith(vm.ObjectProto, nil, ObjectTag)
	vm.NumberProto = p
	vm.method(p, "toString", numberToString, 1)
	vm.method(p, "valueOf", numberValueOf, 0)
	vm.class("Number", numberCtor, 1, p)
}

func numberCtor(vm *VM, this Value, args []Value) (Value, Stop) {
	if len(args) == 0 {
		return NumberValue(0), NoStop
	}
	n, exc, stop := vm.ToNumber(args[0])
	if stop != NoStop {
		return exc, stop
	}
	return NumberValue(n), NoStop
}

func numberValueOf(vm *VM, this Value, args []Value) (Value, Stop) {
	if this.Kind() != Number {
		return vm.ThrowError(&TypeError{Msg: "Number.prototype.valueOf requires a number receiver"})
	}
	return this, NoStop
}

// numberToString formats the receiver. A radix other than 10 is supported
// for integers.
func numberToString(vm *VM, this Value, args []Value) (Value, Stop) {
	if this.Kind() != Number {
		return vm.ThrowError(&TypeError{Msg: "Number.prototype.toString requires a number receiver"})
	}
	radix := 10
	if r := Arg(args, 0); !r.IsUndefined() {
		n, exc, stop := vm.ToNumber(r)
		if stop != NoStop {
			return exc, stop
		}
		if n < 2 || n > 36 || n != math.Trunc(n) {
			return vm.Throwf(vm.RangeErrorProto, "radix must be an integer between 2 and 36")
		}
		radix = int(n)
	}
	f := this.Float()
	if radix == 10 || f != math.Trunc(f) || math.Abs(f) >= 1<<63 {
		return StringValue(FormatNumber(f)), NoStop
	}
	return StringValue(strconv.FormatInt(int64(f), radix)), NoStop
}

func (vm *VM) initBoolean() {
	p := vm.ObjectWith(vm.ObjectProto, nil, ObjectTag)
	vm.BooleanProto = p
	vm.method(p, "toString", booleanToString, 0)
	vm.method(p, "valueOf", booleanValueOf, 0)
	vm.class("Boolean", booleanCtor, 1, p)
}

func booleanCtor(vm *VM, this Value, args []Value) (Value, Stop) {
	return BoolValue(ToBoolean(Arg(args, 0))), NoStop
}

func booleanToString(vm *VM, this Value, args []Value) (Value, Stop) {
	if this.Kind() != Boolean {
		return vm.ThrowError(&TypeError{Msg: "Boolean.prototype.toString requires a boolean receiver"})
	}
	return StringValue(this.String()), NoStop
}

func booleanValueOf(vm *VM, this Value, args []Value) (Value, Stop) {
	if this.Kind() != Boolean {
		return vm.ThrowError(&TypeError{Msg: "Boolean.prototype.valueOf requires a boolean receiver"})
	}
	return this, NoStop
}

func (vm *VM) initError() {
	vm.ErrorProto = vm.errorClass("Error", vm.ObjectProto)
	vm.method(vm.ErrorProto, "message", errorMessage, 0)
	vm.method(vm.ErrorProto, "toString", errorToString, 0)
	vm.TypeErrorProto = vm.errorClass("TypeError", vm.ErrorProto)
	vm.RangeErrorProto = vm.errorClass("RangeError", vm.ErrorProto)
	vm.ReferenceErrorProto = vm.errorClass("ReferenceError", vm.ErrorProto)
	vm.SyntaxErrorProto = vm.errorClass("SyntaxError", vm.ErrorProto)
}

// errorClass creates an error constructor that may be called with or
// without new.
func (vm *VM) errorClass(name string, parent *Object) *Object {
	p := vm.ObjectWith(parent, nil, ObjectTag)
	p.DefineOwn("name", HiddenAttrs.With(StringValue(name)))
	vm.class(name, func(vm *VM, this Value, args []Value) (Value, Stop) {
		msg := ""
		if m := Arg(args, 0); !m.IsUndefined() {
			s, exc, stop := vm.ToString(m)
			if stop != NoStop {
				return exc, stop
			}
			msg = s
		}
		return ObjectValue(vm.NewError(p, msg)), NoStop
	}, 1, p)
	return p
}

// errorMessage returns the message the receiver was created with.
func errorMessage(vm *VM, this Value, args []Value) (Value, Stop) {
	if o := this.Object(); o != nil {
		if ex, ok := o.Value.(*Exception); ok {
			return StringValue(ex.Message), NoStop
		}
	}
	return StringValue(""), NoStop
}

func errorToString(vm *VM, this Value, args []Value) (Value, Stop) {
	obj, exc, stop := vm.thisObject(this, "Error.prototype.toString")
	if stop != NoStop {
		return exc, stop
	}
	name := ErrorName(obj)
	if ex, ok := obj.Value.(*Exception); ok && ex.Message != "" {
		return StringValue(name + ": " + ex.Message), NoStop
	}
	return StringValue(name), NoStop
}

func (vm *VM) initHook() {
	p := vm.ObjectWith(vm.ObjectProto, nil, ObjectTag)
	vm.HookProto = p
	vm.method(p, "toString", hookToString, 0)
	vm.method(p, "count", hookCount, 0)
}

func hookToString(vm *VM, this Value, args []Value) (Value, Stop) {
	h := this.Handle()
	if h == nil {
		return vm.ThrowError(&TypeError{Msg: "receiver is not a hook"})
	}
	return StringValue("[hook " + h.Name + "]"), NoStop
}

// hookCount returns the receiver's current strong count.
func hookCount(vm *VM, this Value, args []Value) (Value, Stop) {
	h := this.Handle()
	if h == nil {
		return vm.ThrowError(&TypeError{Msg: "receiver is not a hook"})
	}
	return NumberValue(float64(h.Count())), NoStop
}

func (vm *VM) initGlobals() {
	vm.DeclareConst(vm.Global, "undefined", UndefinedValue)
	vm.DeclareConst(vm.Global, "NaN", NaN)
	vm.DeclareConst(vm.Global, "Infinity", NumberValue(math.Inf(1)))
	vm.DeclareConst(vm.Global, "platform", StringValue(PlatformVersion()))
}
