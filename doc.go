/*
Package protocore implements a small prototype-based object runtime: objects
with insertion-ordered properties and a single prototype edge, numeric
coercion with 32-bit wraparound, a tree-walking evaluator whose statements
produce structured completions, and a reference tracker that counts variable
bindings of diagnostic handles synchronously.

Programs are statement trees from package ast. A front end may build them
directly or decode them from YAML with ast.Decode:

	- [var, greeting, "hello"]
	- [call, [id, println], [+, [id, greeting], ", world"]]

To run one, create a VM and hand it the program:

	vm := protocore.NewVM(nil)
	p, err := ast.DecodeBytes(src, "hello.yaml")
	if err != nil {
		// ...
	}
	v, err := vm.Run(p)

Run reports an exception that escapes the program as an *UncaughtError
carrying the thrown value, its message, and the stack at the point it was
created. Inside the engine, failures of every kind travel as exception
completions, so programs can catch engine-raised TypeErrors and RangeErrors
the same way they catch their own thrown values.

Completions

Every statement produces a Completion: a value, a Stop reason, and an
optional label. NoStop is normal completion. ContinueStop and BreakStop carry
a label when they target a labeled statement. ReturnStop leaves the current
function. ExceptionStop carries the thrown value. A finally block always runs
once its try block is entered; if it completes abruptly, its completion
replaces whatever was pending.

Prototypes

Each object has at most one prototype, and VM.SetPrototype refuses any edge
that would make the chain cyclic. Constructing an object with new uses the
constructor's prototype property as it is at the moment of construction.
Strings inherit from String.prototype for member access, Object.getPrototypeOf,
and instanceof.

Handles

new_hook(name), provided by package coreext/hooks, acquires a tracked handle.
The handle's count is the number of variable bindings that hold it. A binding
that is overwritten, or whose scope ends, drops its reference immediately,
and a handle whose count reaches zero leaves the live set at once, so
show_hooks() always reports the exact number of reachable handles.

Extensions

Packages under coreext add globals to every VM. Import
github.com/zephyrtronium/protocore/coreext to get all of them, or import the
individual packages. Extensions register themselves with internal.Register
during init, so they must be imported before the first VM is created.
*/
package protocore
