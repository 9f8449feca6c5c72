package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/zephyrtronium/contains"

	"github.com/zephyrtronium/protocore/ast"
	"github.com/zephyrtronium/protocore/config"
	"github.com/zephyrtronium/protocore/console"
)

// Version is the engine version, reported by the CLI.
const Version = "1"

// Printer is the console collaborator: a synchronous sink for lines of
// program output.
type Printer interface {
	Println(s string) error
}

// VM is an object for executing programs. A VM and its objects belong to a
// single goroutine; separate VMs are independent and may run concurrently.
type VM struct {
	// Global is the outermost scope. Builtins live here, as do names
	// assigned without declaration.
	Global *Env

	// Builtin prototypes.
	ObjectProto         *Object
	FunctionProto       *Object
	ArrayProto          *Object
	StringProto         *Object
	NumberProto         *Object
	BooleanProto        *Object
	ErrorProto          *Object
	TypeErrorProto      *Object
	RangeErrorProto     *Object
	ReferenceErrorProto *Object
	SyntaxErrorProto    *Object
	HookProto           *Object

	// Tracker is the VM's handle registry.
	Tracker *Tracker
	// Logger receives diagnostics. It never affects execution.
	Logger *slog.Logger
	// Console receives program output.
	Console Printer

	// Strict enables strict enforcement of failed writes and deletes.
	Strict bool
	// MaxDepth is the maximum number of nested function calls. Zero means no
	// limit.
	MaxDepth int

	// frames is the call stack. frames[0] is a root frame for calls made
	// from Go outside of any program.
	frames []*Frame
	// calls is the number of active function calls, which excludes root and
	// program frames.
	calls int

	// protoSet is the set of protos checked during SetPrototype.
	protoSet contains.Set
}

// NewVM prepares a new VM configured by cfg. A nil cfg uses config.Default.
// Diagnostics go to standard error and program output to standard output.
func NewVM(cfg *config.Config) *VM {
	haveVM.Store(true)
	if cfg == nil {
		cfg = config.Default()
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	vm := &VM{
		Global:   NewEnv(nil, true),
		Tracker:  NewTracker(logger),
		Logger:   logger,
		Strict:   cfg.Strict,
		MaxDepth: cfg.MaxCallDepth,
		frames:   []*Frame{{This: UndefinedValue}},
	}
	vm.Tracker.Trace = cfg.Hooks.Trace
	vm.SetOutput(os.Stdout, cfg.Console.Encoding)

	vm.initObject()
	vm.initFunction()
	vm.initArray()
	vm.initString()
	vm.initNumber()
	vm.initBoolean()
	vm.initError()
	vm.initHook()
	vm.initGlobals()

	for _, ext := range coreExt {
		ext(vm)
	}
	return vm
}

// SetLogger replaces the VM's logger, including the tracker's.
func (vm *VM) SetLogger(l *slog.Logger) {
	vm.Logger = l
	vm.Tracker.Logger = l
}

// SetOutput directs program output to w in the named encoding. An unknown
// encoding falls back to UTF-8 with a warning.
func (vm *VM) SetOutput(w io.Writer, encoding string) {
	c, err := console.New(w, encoding)
	if err != nil {
		vm.Logger.Warn("falling back to utf-8 console", slog.Any("err", err))
		c, _ = console.New(w, console.UTF8)
	}
	vm.Console = c
}

// DoProgram executes a program in a fresh program scope whose parent is the
// global scope. Declarations are hoisted first. The result is the program's
// completion value, or the thrown value with ExceptionStop.
func (vm *VM) DoProgram(p *ast.Program) (Value, Stop) {
	frame := &Frame{This: UndefinedValue}
	vm.pushFrame(frame)
	env := NewEnv(vm.Global, true)
	vm.hoist(p.Body, env)
	c := vm.execList(p.Body, env)
	escape(c.Value)
	vm.popFrame()
	vm.release(env)
	switch c.Control {
	case NoStop, ReturnStop:
		return c.Value, NoStop
	case ExceptionStop:
		if vm.Logger.Enabled(context.Background(), slog.LevelDebug) {
			vm.Logger.Debug("uncaught exception", slog.String("program", p.Name), slog.String("err", vm.Uncaught(c.Value).Message))
		}
		return c.Value, ExceptionStop
	}
	return vm.ThrowError(&SyntaxError{Msg: fmt.Sprintf("illegal %s statement", c.Control), Err: ErrStrayControlFlow})
}

// Run executes a program and reports an escaping exception as an
// *UncaughtError.
func (vm *VM) Run(p *ast.Program) (Value, error) {
	v, stop := vm.DoProgram(p)
	if stop == ExceptionStop {
		err := vm.Uncaught(v)
		vm.Logger.Warn("uncaught exception", slog.String("program", p.Name), slog.String("err", err.Message))
		return v, err
	}
	return v, nil
}

// DoReader decodes a YAML program from r and runs it.
func (vm *VM) DoReader(r io.Reader, name string) (Value, error) {
	p, err := ast.Decode(r, name)
	if err != nil {
		return UndefinedValue, err
	}
	return vm.Run(p)
}

// DoFile decodes and runs the YAML program at path.
func (vm *VM) DoFile(path string) (Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return UndefinedValue, err
	}
	defer f.Close()
	return vm.DoReader(f, path)
}

// SetGlobal creates or replaces a global binding.
func (vm *VM) SetGlobal(name string, v Value) {
	if b, ok := vm.Global.own(name); ok {
		vm.assign(b, v)
		return
	}
	vm.Declare(vm.Global, name, v)
}

// Register registers a core extension. Each function is called in the order it
// is registered; extensions that depend on other extensions need only import
// them. Register should be called from within init funcs. Panics if NewVM has
// been called.
func Register(f func(*VM)) {
	if haveVM.Load() {
		panic("protocore/internal: Register must be called before any VM is created")
	}
	coreExt = append(coreExt, f)
}

// coreExt is a list of core extensions that have been registered.
var coreExt = make([]func(*VM), 0, 4)

// haveVM becomes true once NewVM has been called.
var haveVM atomic.Bool
