// Package console provides program output: the console object with its log
// method, and the println global.
package console

import (
	"strings"

	"github.com/zephyrtronium/protocore"
	"github.com/zephyrtronium/protocore/internal"
)

func init() {
	internal.Register(initConsole)
}

func initConsole(vm *protocore.VM) {
	c := vm.NewObject()
	c.DefineOwn("log", internal.HiddenAttrs.With(protocore.ObjectValue(vm.NewNativeFunction("log", log, 0))))
	vm.SetGlobal("console", protocore.ObjectValue(c))
	vm.SetGlobal("println", protocore.ObjectValue(vm.NewNativeFunction("println", println, 1)))
}

// log is a console method.
//
// log converts each argument to a string and writes them separated by
// spaces on one line.
func log(vm *protocore.VM, this protocore.Value, args []protocore.Value) (protocore.Value, protocore.Stop) {
	parts := make([]string, len(args))
	for i, v := range args {
		s, exc, stop := vm.ToString(v)
		if stop != protocore.NoStop {
			return exc, stop
		}
		parts[i] = s
	}
	return write(vm, strings.Join(parts, " "))
}

// println is a global function.
//
// println writes its argument converted to a string on its own line.
func println(vm *protocore.VM, this protocore.Value, args []protocore.Value) (protocore.Value, protocore.Stop) {
	s, exc, stop := vm.ToString(protocore.Arg(args, 0))
	if stop != protocore.NoStop {
		return exc, stop
	}
	return write(vm, s)
}

func write(vm *protocore.VM, s string) (protocore.Value, protocore.Stop) {
	if err := vm.Console.Println(s); err != nil {
		return vm.ThrowError(err)
	}
	return protocore.UndefinedValue, protocore.NoStop
}
