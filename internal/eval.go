package internal

import (
	"fmt"
	"strings"

	"github.com/zephyrtronium/protocore/ast"
)

// Eval evaluates an expression in env. The Stop is NoStop or ExceptionStop;
// with ExceptionStop, the value is the thrown value.
func (vm *VM) Eval(x ast.Expr, env *Env) (Value, Stop) {
	switch x := x.(type) {
	case *ast.Number:
		return NumberValue(x.Value), NoStop
	case *ast.String:
		return StringValue(x.Value), NoStop
	case *ast.Bool:
		return BoolValue(x.Value), NoStop
	case *ast.Null:
		return NullValue, NoStop
	case *ast.Ident:
		if v, ok := env.Get(x.Name); ok {
			return v, NoStop
		}
		return vm.ThrowError(&ReferenceError{Name: x.Name})
	case *ast.This:
		return vm.Frame().This, NoStop
	case *ast.ObjectLit:
		obj := vm.NewObject()
		for _, p := range x.Props {
			v, stop := vm.Eval(p.Value, env)
			if stop != NoStop {
				return v, stop
			}
			escape(v)
			obj.SetOwn(p.Key, v)
		}
		return ObjectValue(obj), NoStop
	case *ast.ArrayLit:
		elems := make([]Value, len(x.Elems))
		for i, e := range x.Elems {
			v, stop := vm.Eval(e, env)
			if stop != NoStop {
				return v, stop
			}
			elems[i] = v
		}
		return ObjectValue(vm.NewArray(elems)), NoStop
	case *ast.FuncLit:
		return vm.evalFuncLit(x, env), NoStop
	case *ast.Member, *ast.Index:
		r, exc, stop := vm.evalRef(x, env)
		if stop != NoStop {
			return exc, stop
		}
		return r.get(vm)
	case *ast.Call:
		return vm.evalCall(x, env)
	case *ast.New:
		fn, stop := vm.Eval(x.Callee, env)
		if stop != NoStop {
			return fn, stop
		}
		args, exc, stop := vm.evalArgs(x.Args, env)
		if stop != NoStop {
			return exc, stop
		}
		if !fn.IsFunction() {
			return vm.ThrowError(&TypeError{Msg: describe(x.Callee) + " is not a constructor", Err: ErrNotFunction})
		}
		return vm.Construct(fn, args)
	case *ast.Unary:
		return vm.evalUnary(x, env)
	case *ast.Update:
		return vm.evalUpdate(x, env)
	case *ast.Binary:
		a, stop := vm.Eval(x.L, env)
		if stop != NoStop {
			return a, stop
		}
		b, stop := vm.Eval(x.R, env)
		if stop != NoStop {
			return b, stop
		}
		return vm.BinaryOp(x.Op, a, b)
	case *ast.Logical:
		a, stop := vm.Eval(x.L, env)
		if stop != NoStop {
			return a, stop
		}
		if ToBoolean(a) == (x.Op == "||") {
			return a, NoStop
		}
		return vm.Eval(x.R, env)
	case *ast.Assign:
		return vm.evalAssign(x, env)
	case *ast.Conditional:
		c, stop := vm.Eval(x.Test, env)
		if stop != NoStop {
			return c, stop
		}
		if ToBoolean(c) {
			return vm.Eval(x.Cons, env)
		}
		return vm.Eval(x.Alt, env)
	case *ast.Sequence:
		r := UndefinedValue
		for _, e := range x.Exprs {
			v, stop := vm.Eval(e, env)
			if stop != NoStop {
				return v, stop
			}
			r = v
		}
		return r, NoStop
	}
	panic(fmt.Sprintf("protocore: unknown expression %T", x))
}

// evalFuncLit creates a function object. A named function expression sees
// its own name in a scope between its body and env.
func (vm *VM) evalFuncLit(x *ast.FuncLit, env *Env) Value {
	if x.Name == "" {
		return ObjectValue(vm.NewFunction(x, env))
	}
	fenv := NewEnv(env, false)
	fn := ObjectValue(vm.NewFunction(x, fenv))
	vm.DeclareConst(fenv, x.Name, fn)
	return fn
}

func (vm *VM) evalArgs(xs []ast.Expr, env *Env) ([]Value, Value, Stop) {
	args := make([]Value, len(xs))
	for i, e := range xs {
		v, stop := vm.Eval(e, env)
		if stop != NoStop {
			return nil, v, stop
		}
		args[i] = v
	}
	return args, UndefinedValue, NoStop
}

// evalCall evaluates a call. Calls through a member expression receive the
// member's object as the receiver; other calls receive undefined.
func (vm *VM) evalCall(x *ast.Call, env *Env) (Value, Stop) {
	var fn, this Value
	switch x.Callee.(type) {
	case *ast.Member, *ast.Index:
		r, exc, stop := vm.evalRef(x.Callee, env)
		if stop != NoStop {
			return exc, stop
		}
		fn, stop = r.get(vm)
		if stop != NoStop {
			return fn, stop
		}
		this = r.base
	default:
		var stop Stop
		fn, stop = vm.Eval(x.Callee, env)
		if stop != NoStop {
			return fn, stop
		}
		this = UndefinedValue
	}
	args, exc, stop := vm.evalArgs(x.Args, env)
	if stop != NoStop {
		return exc, stop
	}
	if !fn.IsFunction() {
		return vm.ThrowError(&TypeError{Msg: describe(x.Callee) + " is not a function", Err: ErrNotFunction})
	}
	return vm.Call(fn, this, args)
}

// describe renders a callee expression for error messages.
func describe(x ast.Expr) string {
	switch x := x.(type) {
	case *ast.Ident:
		return x.Name
	case *ast.Member:
		return describe(x.Object) + "." + x.Property
	case *ast.Index:
		return describe(x.Object) + "[...]"
	case *ast.This:
		return "this"
	case *ast.Call:
		return describe(x.Callee) + "(...)"
	}
	return "expression"
}

func (vm *VM) evalUnary(x *ast.Unary, env *Env) (Value, Stop) {
	switch x.Op {
	case "typeof":
		if id, ok := x.X.(*ast.Ident); ok {
			// Undeclared names are undefined here rather than errors.
			v, _ := env.Get(id.Name)
			return StringValue(TypeOf(v)), NoStop
		}
	case "delete":
		return vm.evalDelete(x, env)
	}
	v, stop := vm.Eval(x.X, env)
	if stop != NoStop {
		return v, stop
	}
	return vm.UnaryOp(x.Op, v)
}

// evalDelete removes an own property. The receiver must be an object.
func (vm *VM) evalDelete(x *ast.Unary, env *Env) (Value, Stop) {
	switch x.X.(type) {
	case *ast.Member, *ast.Index:
	case *ast.Ident:
		// Variables cannot be deleted.
		return FalseValue, NoStop
	default:
		v, stop := vm.Eval(x.X, env)
		if stop != NoStop {
			return v, stop
		}
		return TrueValue, NoStop
	}
	r, exc, stop := vm.evalRef(x.X, env)
	if stop != NoStop {
		return exc, stop
	}
	return vm.Delete(r.base, r.key)
}

// Delete removes the own property key from base. Removing from anything
// other than an object throws a TypeError. Removing a non-configurable
// property yields false, or throws a TypeError in strict mode.
func (vm *VM) Delete(base Value, key string) (Value, Stop) {
	if !base.IsObject() {
		return vm.ThrowError(&TypeError{Msg: fmt.Sprintf("cannot delete property %q of %s", key, PrimitiveToString(base)), Err: ErrNotObject})
	}
	if base.obj.RemoveOwn(key) {
		return TrueValue, NoStop
	}
	if vm.Strict {
		return vm.ThrowError(&PropertyError{Op: "delete", Key: key, Err: ErrNotConfigurable})
	}
	return FalseValue, NoStop
}

func (vm *VM) evalUpdate(x *ast.Update, env *Env) (Value, Stop) {
	r, exc, stop := vm.evalRef(x.X, env)
	if stop != NoStop {
		return exc, stop
	}
	old, stop := r.get(vm)
	if stop != NoStop {
		return old, stop
	}
	n, exc, stop := vm.ToNumber(old)
	if stop != NoStop {
		return exc, stop
	}
	m := n + 1
	if x.Op == "--" {
		m = n - 1
	}
	if v, stop := r.put(vm, NumberValue(m)); stop != NoStop {
		return v, stop
	}
	if x.Prefix {
		return NumberValue(m), NoStop
	}
	return NumberValue(n), NoStop
}

func (vm *VM) evalAssign(x *ast.Assign, env *Env) (Value, Stop) {
	r, exc, stop := vm.evalRef(x.Target, env)
	if stop != NoStop {
		return exc, stop
	}
	var v Value
	if x.Op == "=" {
		if v, stop = vm.Eval(x.Value, env); stop != NoStop {
			return v, stop
		}
	} else {
		old, stop := r.get(vm)
		if stop != NoStop {
			return old, stop
		}
		rhs, stop := vm.Eval(x.Value, env)
		if stop != NoStop {
			return rhs, stop
		}
		if v, stop = vm.BinaryOp(strings.TrimSuffix(x.Op, "="), old, rhs); stop != NoStop {
			return v, stop
		}
	}
	return r.put(vm, v)
}

// reference is a resolved assignment target: a variable or a property of a
// base value.
type reference struct {
	env  *Env
	name string

	base Value
	key  string
}

func (vm *VM) evalRef(x ast.Expr, env *Env) (reference, Value, Stop) {
	switch x := x.(type) {
	case *ast.Ident:
		return reference{env: env, name: x.Name}, UndefinedValue, NoStop
	case *ast.Member:
		base, stop := vm.Eval(x.Object, env)
		if stop != NoStop {
			return reference{}, base, stop
		}
		return reference{base: base, key: x.Property}, UndefinedValue, NoStop
	case *ast.Index:
		base, stop := vm.Eval(x.Object, env)
		if stop != NoStop {
			return reference{}, base, stop
		}
		k, stop := vm.Eval(x.Index, env)
		if stop != NoStop {
			return reference{}, k, stop
		}
		key, exc, stop := vm.ToPropertyKey(k)
		if stop != NoStop {
			return reference{}, exc, stop
		}
		return reference{base: base, key: key}, UndefinedValue, NoStop
	}
	v, _ := vm.ThrowError(&SyntaxError{Msg: "invalid assignment target"})
	return reference{}, v, ExceptionStop
}

func (r reference) get(vm *VM) (Value, Stop) {
	if r.env != nil {
		if v, ok := r.env.Get(r.name); ok {
			return v, NoStop
		}
		return vm.ThrowError(&ReferenceError{Name: r.name})
	}
	return vm.GetMember(r.base, r.key)
}

func (r reference) put(vm *VM, v Value) (Value, Stop) {
	if r.env != nil {
		return vm.SetVar(r.env, r.name, v)
	}
	return vm.SetMember(r.base, r.key, v)
}
