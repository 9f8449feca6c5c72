package internal

import (
	"fmt"

	"github.com/zephyrtronium/protocore/ast"
)

// Exec executes a statement in env and returns its completion.
func (vm *VM) Exec(s ast.Stmt, env *Env) Completion {
	switch s := s.(type) {
	case *ast.ExprStmt:
		v, stop := vm.Eval(s.X, env)
		// Handles produced by the statement and never bound are released
		// here.
		vm.settle(v, stop)
		if stop != NoStop {
			return Completion{Value: v, Control: stop}
		}
		return Normal(v)
	case *ast.VarDecl:
		if s.Init == nil {
			return Normal(UndefinedValue)
		}
		v, stop := vm.Eval(s.Init, env)
		if stop == NoStop {
			v, stop = vm.SetVar(env, s.Name, v)
		}
		vm.settle(v, stop)
		if stop != NoStop {
			return Throw(v)
		}
		return Normal(UndefinedValue)
	case *ast.FuncDecl, *ast.Empty:
		// Function declarations are bound during hoisting.
		return Normal(UndefinedValue)
	case *ast.Block:
		return vm.execList(s.Body, env)
	case *ast.If:
		c, stop := vm.Eval(s.Cond, env)
		vm.settle(c, stop)
		if stop != NoStop {
			return Throw(c)
		}
		if ToBoolean(c) {
			return vm.Exec(s.Then, env)
		}
		if s.Else != nil {
			return vm.Exec(s.Else, env)
		}
		return Normal(UndefinedValue)
	case *ast.While, *ast.DoWhile, *ast.For, *ast.ForIn:
		return vm.execLoop(s, env, nil)
	case *ast.Labeled:
		return vm.execLabeled(s, env)
	case *ast.Break:
		return Completion{Control: BreakStop, Label: s.Label}
	case *ast.Continue:
		return Completion{Control: ContinueStop, Label: s.Label}
	case *ast.Return:
		if s.X == nil {
			return Completion{Control: ReturnStop}
		}
		v, stop := vm.Eval(s.X, env)
		vm.settleKeeping(v)
		if stop != NoStop {
			return Throw(v)
		}
		return Completion{Value: v, Control: ReturnStop}
	case *ast.Throw:
		// If evaluating the operand throws, that exception is thrown instead.
		v, _ := vm.Eval(s.X, env)
		vm.settleKeeping(v)
		return Throw(v)
	case *ast.Try:
		return vm.execTry(s, env)
	case *ast.Switch:
		return vm.execSwitch(s, env, nil)
	}
	panic(fmt.Sprintf("protocore: unknown statement %T", s))
}

// execList executes statements in order. The first abrupt completion ends
// the list and propagates.
func (vm *VM) execList(body []ast.Stmt, env *Env) Completion {
	last := UndefinedValue
	for _, s := range body {
		c := vm.Exec(s, env)
		if c.Abrupt() {
			return c
		}
		if _, ok := s.(*ast.ExprStmt); ok || !c.Value.IsUndefined() {
			last = c.Value
		}
	}
	return Normal(last)
}

// execLabeled gathers directly nested labels and executes their body.
func (vm *VM) execLabeled(s *ast.Labeled, env *Env) Completion {
	labels := []string{s.Label}
	body := s.Body
	for {
		l, ok := body.(*ast.Labeled)
		if !ok {
			break
		}
		labels = append(labels, l.Label)
		body = l.Body
	}
	var c Completion
	switch b := body.(type) {
	case *ast.While, *ast.DoWhile, *ast.For, *ast.ForIn:
		c = vm.execLoop(b, env, labels)
	case *ast.Switch:
		c = vm.execSwitch(b, env, labels)
	default:
		c = vm.Exec(b, env)
	}
	switch c.Control {
	case BreakStop:
		if c.Label != "" && c.targets(labels) {
			return Normal(c.Value)
		}
	case ContinueStop:
		if c.Label != "" && c.targets(labels) {
			// Only loops may be the target of a labeled continue.
			v, _ := vm.ThrowError(&SyntaxError{Msg: "continue target " + c.Label + " is not a loop", Err: ErrStrayControlFlow})
			return Throw(v)
		}
	}
	return c
}

// loopBody interprets the completion of one iteration. done is true when the
// loop must end with c.
func loopBody(c Completion, labels []string) (r Completion, done bool) {
	switch c.Control {
	case NoStop:
		return c, false
	case ContinueStop:
		if c.targets(labels) {
			return Normal(c.Value), false
		}
	case BreakStop:
		if c.targets(labels) {
			return Normal(c.Value), true
		}
	}
	return c, true
}

// execLoop runs a loop statement owning labels.
func (vm *VM) execLoop(s ast.Stmt, env *Env, labels []string) Completion {
	last := UndefinedValue
	test := func(x ast.Expr) (bool, Completion) {
		if x == nil {
			return true, Completion{}
		}
		v, stop := vm.Eval(x, env)
		vm.settle(v, stop)
		if stop != NoStop {
			return false, Throw(v)
		}
		return ToBoolean(v), Completion{}
	}
	switch s := s.(type) {
	case *ast.While:
		for {
			ok, c := test(s.Cond)
			if c.Abrupt() {
				return c
			}
			if !ok {
				return Normal(last)
			}
			c, done := loopBody(vm.Exec(s.Body, env), labels)
			last = c.Value
			if done {
				return c
			}
		}
	case *ast.DoWhile:
		for {
			c, done := loopBody(vm.Exec(s.Body, env), labels)
			last = c.Value
			if done {
				return c
			}
			ok, c := test(s.Cond)
			if c.Abrupt() {
				return c
			}
			if !ok {
				return Normal(last)
			}
		}
	case *ast.For:
		if s.Init != nil {
			if c := vm.Exec(s.Init, env); c.Abrupt() {
				return c
			}
		}
		for {
			ok, c := test(s.Cond)
			if c.Abrupt() {
				return c
			}
			if !ok {
				return Normal(last)
			}
			c, done := loopBody(vm.Exec(s.Body, env), labels)
			last = c.Value
			if done {
				return c
			}
			if s.Update != nil {
				v, stop := vm.Eval(s.Update, env)
				vm.settle(v, stop)
				if stop != NoStop {
					return Throw(v)
				}
			}
		}
	case *ast.ForIn:
		return vm.execForIn(s, env, labels)
	}
	panic(fmt.Sprintf("protocore: %T is not a loop", s))
}

// execForIn enumerates the keys of an object and its prototype chain. The
// key sequence is fixed when the loop begins, except that keys deleted before
// they are reached are skipped.
func (vm *VM) execForIn(s *ast.ForIn, env *Env, labels []string) Completion {
	v, stop := vm.Eval(s.Object, env)
	vm.settle(v, stop)
	if stop != NoStop {
		return Throw(v)
	}
	var it *KeyIterator
	switch {
	case v.IsObject():
		it = v.obj.Enumerate()
	case v.Kind() == String:
		it = vm.stringKeys(v.str).Enumerate()
	default:
		return Normal(UndefinedValue)
	}
	last := UndefinedValue
	for k, ok := it.Next(); ok; k, ok = it.Next() {
		if r, stop := vm.SetVar(env, s.Name, StringValue(k)); stop != NoStop {
			return Throw(r)
		}
		c, done := loopBody(vm.Exec(s.Body, env), labels)
		last = c.Value
		if done {
			return c
		}
	}
	return Normal(last)
}

// execSwitch compares the discriminant against each case with strict
// equality and falls through from the first match.
func (vm *VM) execSwitch(s *ast.Switch, env *Env, labels []string) Completion {
	d, stop := vm.Eval(s.Disc, env)
	vm.settle(d, stop)
	if stop != NoStop {
		return Throw(d)
	}
	start := -1
	for i, c := range s.Cases {
		if c.Test == nil {
			continue
		}
		v, stop := vm.Eval(c.Test, env)
		vm.settle(v, stop)
		if stop != NoStop {
			return Throw(v)
		}
		if StrictEquals(d, v) {
			start = i
			break
		}
	}
	if start < 0 {
		for i, c := range s.Cases {
			if c.Test == nil {
				start = i
				break
			}
		}
	}
	if start < 0 {
		return Normal(UndefinedValue)
	}
	last := UndefinedValue
	for _, c := range s.Cases[start:] {
		r := vm.execList(c.Body, env)
		switch r.Control {
		case NoStop:
			last = r.Value
			continue
		case BreakStop:
			if r.targets(labels) {
				return Normal(last)
			}
		}
		return r
	}
	return Normal(last)
}

// execTry runs a try statement. The pending completion is the try block's,
// or the catch block's if it ran. A finally block always runs next, and an
// abrupt completion from it replaces the pending one.
func (vm *VM) execTry(s *ast.Try, env *Env) Completion {
	c := vm.execList(s.Block.Body, env)
	if c.Control == ExceptionStop && s.Catch != nil {
		cenv := env
		if s.Param != "" {
			cenv = NewEnv(env, false)
			vm.Declare(cenv, s.Param, c.Value)
		}
		c = vm.execList(s.Catch.Body, cenv)
		if cenv != env {
			vm.release(cenv)
		}
	}
	if s.Finally != nil {
		// The pending completion's handle must survive the statements of
		// the finally block.
		h := c.Value.Handle()
		if h != nil {
			vm.Tracker.Pin(h)
		}
		f := vm.execList(s.Finally.Body, env)
		if f.Abrupt() {
			if h != nil {
				vm.Tracker.Drop(h)
			}
			return f
		}
		if h != nil {
			vm.Tracker.Unpin(h, vm.Frame())
		}
	}
	return c
}

// settle drops the current frame's temporaries after a statement or clause
// finishes evaluating an expression. A thrown value stays a temporary so
// that a catch clause can adopt it.
func (vm *VM) settle(v Value, stop Stop) {
	if stop == ExceptionStop {
		vm.settleKeeping(v)
		return
	}
	vm.Tracker.Settle(vm.Frame())
}

// settleKeeping drops the current frame's temporaries except for v's handle,
// which remains a temporary of the frame.
func (vm *VM) settleKeeping(v Value) {
	f := vm.Frame()
	h := v.Handle()
	if h == nil {
		vm.Tracker.Settle(f)
		return
	}
	vm.Tracker.Pin(h)
	vm.Tracker.Settle(f)
	vm.Tracker.Unpin(h, f)
}

// hoist declares the var and function declarations of body in env, without
// descending into nested functions.
func (vm *VM) hoist(body []ast.Stmt, env *Env) {
	for _, s := range body {
		vm.hoistStmt(s, env)
	}
}

func (vm *VM) hoistStmt(s ast.Stmt, env *Env) {
	switch s := s.(type) {
	case *ast.VarDecl:
		vm.Declare(env, s.Name, UndefinedValue)
	case *ast.FuncDecl:
		fn := ObjectValue(vm.NewFunction(s.Func, env))
		if b, ok := env.own(s.Func.Name); ok {
			vm.assign(b, fn)
		} else {
			vm.Declare(env, s.Func.Name, fn)
		}
	case *ast.Block:
		vm.hoist(s.Body, env)
	case *ast.If:
		vm.hoistStmt(s.Then, env)
		if s.Else != nil {
			vm.hoistStmt(s.Else, env)
		}
	case *ast.While:
		vm.hoistStmt(s.Body, env)
	case *ast.DoWhile:
		vm.hoistStmt(s.Body, env)
	case *ast.For:
		if s.Init != nil {
			vm.hoistStmt(s.Init, env)
		}
		vm.hoistStmt(s.Body, env)
	case *ast.ForIn:
		if s.Decl {
			vm.Declare(env, s.Name, UndefinedValue)
		}
		vm.hoistStmt(s.Body, env)
	case *ast.Labeled:
		vm.hoistStmt(s.Body, env)
	case *ast.Try:
		vm.hoist(s.Block.Body, env)
		if s.Catch != nil {
			vm.hoist(s.Catch.Body, env)
		}
		if s.Finally != nil {
			vm.hoist(s.Finally.Body, env)
		}
	case *ast.Switch:
		for _, c := range s.Cases {
			vm.hoist(c.Body, env)
		}
	}
}
