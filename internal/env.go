package internal

import (
	"github.com/iancoleman/orderedmap"
)

// Env is a lexical binding frame. Function and program scopes receive var
// declarations; other scopes, such as those for catch parameters and named
// function expressions, hold a single name.
type Env struct {
	parent *Env
	// vars maps names to *binding in declaration order, which is also the
	// order in which bindings are released.
	vars *orderedmap.OrderedMap
	// function is true for scopes that receive hoisted declarations.
	function bool
	// captured is set once a closure over this scope outlives the code
	// that created it.
	captured bool
}

type binding struct {
	value    Value
	readonly bool
	// env is the scope holding the binding.
	env *Env
}

// NewEnv creates a scope whose parent is parent. A function scope receives
// hoisted declarations.
func NewEnv(parent *Env, function bool) *Env {
	return &Env{parent: parent, vars: orderedmap.New(), function: function}
}

// Parent returns the enclosing scope.
func (e *Env) Parent() *Env {
	return e.parent
}

func (e *Env) own(name string) (*binding, bool) {
	b, ok := e.vars.Get(name)
	if !ok {
		return nil, false
	}
	return b.(*binding), true
}

// lookup finds the closest binding of name.
func (e *Env) lookup(name string) (*binding, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if b, ok := cur.own(name); ok {
			return b, true
		}
	}
	return nil, false
}

// Get returns the value of the closest binding of name.
func (e *Env) Get(name string) (Value, bool) {
	b, ok := e.lookup(name)
	if !ok {
		return UndefinedValue, false
	}
	return b.value, true
}

// Names returns the names bound directly in e.
func (e *Env) Names() []string {
	keys := e.vars.Keys()
	r := make([]string, len(keys))
	copy(r, keys)
	return r
}

// varScope returns the closest function scope.
func (e *Env) varScope() *Env {
	cur := e
	for !cur.function && cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// capture marks e and every enclosing scope as referenced by a closure.
func (e *Env) capture() {
	for cur := e; cur != nil && !cur.captured; cur = cur.parent {
		cur.captured = true
	}
}

// within reports whether e is s or a scope nested in it.
func (e *Env) within(s *Env) bool {
	for cur := e; cur != nil; cur = cur.parent {
		if cur == s {
			return true
		}
	}
	return false
}

// closureScope returns the scope an interpreted function value closes over,
// or nil if v is not one.
func closureScope(v Value) *Env {
	if !v.IsFunction() {
		return nil
	}
	return v.obj.Function().Scope
}

// escape records that v may outlive the scopes active where it was created.
// If v is a closure, its scopes keep their bindings when they exit.
func escape(v Value) {
	if s := closureScope(v); s != nil {
		s.capture()
	}
}

// escapeTo is escape for a value bound in e. A binding inside the closure's
// own scope ends with that scope, so it does not capture it.
func escapeTo(v Value, e *Env) {
	if s := closureScope(v); s != nil && !e.within(s) {
		s.capture()
	}
}

// Declare creates a binding of name in e if there is none, initialized to v.
// An existing binding keeps its value.
func (vm *VM) Declare(e *Env, name string, v Value) {
	if _, ok := e.own(name); ok {
		return
	}
	vm.bindValue(e, v)
	e.vars.Set(name, &binding{value: v, env: e})
}

// DeclareConst creates a read-only binding of name in e.
func (vm *VM) DeclareConst(e *Env, name string, v Value) {
	vm.bindValue(e, v)
	e.vars.Set(name, &binding{value: v, readonly: true, env: e})
}

// assign writes v to b. The new value is bound before the old one is dropped
// so that rebinding a handle to itself never releases it.
func (vm *VM) assign(b *binding, v Value) {
	old := b.value
	vm.bindValue(b.env, v)
	b.value = v
	vm.dropValue(old)
}

// SetVar assigns to the closest binding of name. If there is none, a binding
// is created in the global scope, or a ReferenceError is thrown in strict
// mode. Writes to read-only bindings are ignored, or throw a TypeError in
// strict mode.
func (vm *VM) SetVar(e *Env, name string, v Value) (Value, Stop) {
	b, ok := e.lookup(name)
	if !ok {
		if vm.Strict {
			return vm.ThrowError(&ReferenceError{Name: name})
		}
		vm.Declare(vm.Global, name, v)
		return v, NoStop
	}
	if b.readonly {
		if vm.Strict {
			return vm.ThrowError(&TypeError{Msg: "assignment to constant variable " + name})
		}
		return v, NoStop
	}
	vm.assign(b, v)
	return v, NoStop
}

// release drops every binding in e unless a closure that escaped captured
// it.
func (vm *VM) release(e *Env) {
	if e.captured {
		return
	}
	for _, k := range e.Names() {
		b, _ := e.own(k)
		v := b.value
		b.value = UndefinedValue
		vm.dropValue(v)
	}
}
