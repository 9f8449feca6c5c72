package internal

import (
	"strconv"

	"github.com/zephyrtronium/protocore/ast"
)

// An Fn is a statically compiled function which can be executed by a VM. It
// receives the receiver supplied by the call site and the evaluated
// arguments.
type Fn func(vm *VM, this Value, args []Value) (Value, Stop)

// Function is the Value of callable objects. A function pairs code with the
// scope it closes over; the receiver is never part of it.
type Function struct {
	// Name is the function's name, possibly empty.
	Name string
	// Decl is the function's code for interpreted functions.
	Decl *ast.FuncLit
	// Scope is the scope the function closes over.
	Scope *Env
	// Native is the implementation of builtin functions.
	Native Fn
}

// Frame is an activation record of a call.
type Frame struct {
	// Fn is the function executing in this frame, or nil for the program.
	Fn *Function
	// This is the receiver supplied by the call site.
	This Value
	// Args are the evaluated arguments.
	Args []Value

	// temps are handles held as unadopted temporaries by this frame.
	temps []*Handle
}

// Name returns the name of the frame's function for stack traces.
func (f *Frame) Name() string {
	switch {
	case f.Fn == nil:
		return "<program>"
	case f.Fn.Name == "":
		return "<anonymous>"
	}
	return f.Fn.Name
}

// Frame returns the innermost active frame.
func (vm *VM) Frame() *Frame {
	return vm.frames[len(vm.frames)-1]
}

// Depth returns the number of active frames, including the program's.
func (vm *VM) Depth() int {
	return len(vm.frames)
}

func (vm *VM) pushFrame(f *Frame) {
	vm.frames = append(vm.frames, f)
}

func (vm *VM) popFrame() {
	f := vm.Frame()
	vm.Tracker.Settle(f)
	vm.frames[len(vm.frames)-1] = nil
	vm.frames = vm.frames[:len(vm.frames)-1]
}

// NewFunction creates a function object for interpreted code closing over
// scope. The function receives a fresh prototype object whose constructor
// property refers back to it.
func (vm *VM) NewFunction(decl *ast.FuncLit, scope *Env) *Object {
	f := &Function{Name: decl.Name, Decl: decl, Scope: scope}
	obj := vm.ObjectWith(vm.FunctionProto, f, FunctionTag)
	obj.DefineOwn("length", FrozenAttrs.With(NumberValue(float64(len(decl.Params)))))
	obj.DefineOwn("name", FrozenAttrs.With(StringValue(decl.Name)))
	proto := vm.NewObject()
	proto.DefineOwn("constructor", HiddenAttrs.With(ObjectValue(obj)))
	obj.DefineOwn("prototype", Property{Value: ObjectValue(proto), Writable: true})
	return obj
}

// NewNativeFunction creates a builtin function object. Builtins have no
// prototype property unless one is added for constructors.
func (vm *VM) NewNativeFunction(name string, fn Fn, length int) *Object {
	f := &Function{Name: name, Native: fn}
	obj := vm.ObjectWith(vm.FunctionProto, f, FunctionTag)
	obj.DefineOwn("length", FrozenAttrs.With(NumberValue(float64(length))))
	obj.DefineOwn("name", FrozenAttrs.With(StringValue(name)))
	return obj
}

// Call invokes fn with the given receiver and arguments.
func (vm *VM) Call(fn, this Value, args []Value) (Value, Stop) {
	if !fn.IsFunction() {
		return vm.ThrowError(&TypeError{Msg: PrimitiveToString(fn) + " is not a function", Err: ErrNotFunction})
	}
	return vm.invoke(fn.obj.Function(), this, args)
}

// Construct invokes fn as a constructor. The new object's prototype is the
// value of fn's prototype property at the time of the call, or
// Object.prototype if that is not an object. If fn returns an object, that
// object is the result instead of the new one.
func (vm *VM) Construct(fn Value, args []Value) (Value, Stop) {
	if !fn.IsFunction() {
		return vm.ThrowError(&TypeError{Msg: PrimitiveToString(fn) + " is not a constructor", Err: ErrNotFunction})
	}
	proto := vm.ObjectProto
	if p := fn.obj.Get("prototype"); p.IsObject() {
		proto = p.obj
	}
	this := ObjectValue(vm.ObjectWith(proto, nil, ObjectTag))
	r, stop := vm.invoke(fn.obj.Function(), this, args)
	if stop != NoStop {
		return r, stop
	}
	if r.IsObject() {
		return r, NoStop
	}
	return this, NoStop
}

func (vm *VM) invoke(f *Function, this Value, args []Value) (result Value, stop Stop) {
	if vm.MaxDepth > 0 && vm.calls >= vm.MaxDepth {
		return vm.ThrowError(&RangeError{Msg: "maximum call depth exceeded", Err: ErrCallDepth})
	}
	caller := vm.Frame()
	frame := &Frame{Fn: f, This: this, Args: args}
	vm.pushFrame(frame)
	vm.calls++
	var env *Env
	if f.Native != nil {
		result, stop = f.Native(vm, this, args)
	} else {
		env = vm.enterFunction(f, args)
		c := vm.execList(f.Decl.Body, env)
		switch c.Control {
		case NoStop:
			result, stop = UndefinedValue, NoStop
		case ReturnStop:
			result, stop = c.Value, NoStop
		case ExceptionStop:
			result, stop = c.Value, ExceptionStop
		default:
			result, stop = vm.ThrowError(&SyntaxError{Msg: "illegal " + c.Control.String() + " statement", Err: ErrStrayControlFlow})
		}
	}
	// A returned or thrown handle survives the callee's scope as a
	// temporary of the caller.
	if h := result.Handle(); h != nil {
		vm.Tracker.Hold(h, caller)
	}
	escape(result)
	vm.calls--
	vm.popFrame()
	if env != nil {
		vm.release(env)
	}
	return result, stop
}

// enterFunction creates the scope for a call of f: parameters, the arguments
// object, and hoisted declarations.
func (vm *VM) enterFunction(f *Function, args []Value) *Env {
	env := NewEnv(f.Scope, true)
	for i, name := range f.Decl.Params {
		v := UndefinedValue
		if i < len(args) {
			v = args[i]
		}
		if b, ok := env.own(name); ok {
			// Repeated parameter names take the last argument.
			vm.assign(b, v)
			continue
		}
		vm.Declare(env, name, v)
	}
	if _, ok := env.own("arguments"); !ok {
		vm.Declare(env, "arguments", ObjectValue(vm.NewArguments(args)))
	}
	vm.hoist(f.Decl.Body, env)
	return env
}

// NewArguments creates an arguments object: an indexable, length-bearing
// record of every argument regardless of declared arity.
func (vm *VM) NewArguments(args []Value) *Object {
	obj := vm.ObjectWith(vm.ObjectProto, nil, ArgumentsTag)
	for i, v := range args {
		escape(v)
		obj.SetOwn(strconv.Itoa(i), v)
	}
	obj.DefineOwn("length", HiddenAttrs.With(NumberValue(float64(len(args)))))
	return obj
}

// Arg returns the i'th argument, or undefined if there are too few.
func Arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return UndefinedValue
}
