// Package hooks exposes the VM's handle tracker to programs.
//
// new_hook(name) acquires a handle and returns a hook object wrapping it.
// show_hooks() returns the number of live handles. print_hook(h) writes a
// description of a hook to the console, and live_hooks() returns the names
// of the live handles in acquisition order.
package hooks

import (
	"log/slog"
	"strconv"

	"github.com/zephyrtronium/protocore"
	"github.com/zephyrtronium/protocore/internal"
)

func init() {
	internal.Register(initHooks)
}

func initHooks(vm *protocore.VM) {
	fns := []struct {
		name   string
		fn     protocore.Fn
		length int
	}{
		{"new_hook", newHook, 1},
		{"show_hooks", showHooks, 0},
		{"print_hook", printHook, 1},
		{"live_hooks", liveHooks, 0},
	}
	for _, f := range fns {
		vm.SetGlobal(f.name, protocore.ObjectValue(vm.NewNativeFunction(f.name, f.fn, f.length)))
	}
	vm.Tracker.OnRelease = func(h *protocore.Handle) {
		vm.Logger.Debug("hook released", slog.Uint64("handle", h.ID), slog.String("name", h.Name))
	}
}

// newHook is a global function.
//
// new_hook acquires a handle named by its argument. The handle stays live
// while any variable binding holds the returned hook.
func newHook(vm *protocore.VM, this protocore.Value, args []protocore.Value) (protocore.Value, protocore.Stop) {
	name, exc, stop := vm.ToString(protocore.Arg(args, 0))
	if stop != protocore.NoStop {
		return exc, stop
	}
	return protocore.ObjectValue(vm.NewHook(name)), protocore.NoStop
}

// showHooks is a global function.
//
// show_hooks returns the number of live handles.
func showHooks(vm *protocore.VM, this protocore.Value, args []protocore.Value) (protocore.Value, protocore.Stop) {
	return protocore.NumberValue(float64(vm.Tracker.LiveCount())), protocore.NoStop
}

// printHook is a global function.
//
// print_hook writes the name, ID, and count of its argument to the console.
func printHook(vm *protocore.VM, this protocore.Value, args []protocore.Value) (protocore.Value, protocore.Stop) {
	h := protocore.Arg(args, 0).Handle()
	if h == nil {
		return vm.ThrowError(&internal.TypeError{Msg: "print_hook requires a hook", Err: internal.ErrNotObject})
	}
	if err := vm.Console.Println(Describe(h)); err != nil {
		return vm.ThrowError(err)
	}
	return protocore.UndefinedValue, protocore.NoStop
}

// liveHooks is a global function.
//
// live_hooks returns an array of the names of live handles in the order they
// were acquired.
func liveHooks(vm *protocore.VM, this protocore.Value, args []protocore.Value) (protocore.Value, protocore.Stop) {
	live := vm.Tracker.Live()
	names := make([]protocore.Value, len(live))
	for i, h := range live {
		names[i] = protocore.StringValue(h.Name)
	}
	return protocore.ObjectValue(vm.NewArray(names)), protocore.NoStop
}

// Describe formats a handle the way print_hook writes it.
func Describe(h *protocore.Handle) string {
	return "hook " + h.Name + " #" + strconv.FormatUint(h.ID, 10) + " count " + strconv.Itoa(h.Count())
}
