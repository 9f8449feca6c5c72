// Package assert provides the assert global.
package assert

import (
	"github.com/zephyrtronium/protocore"
	"github.com/zephyrtronium/protocore/internal"
)

func init() {
	internal.Register(initAssert)
}

func initAssert(vm *protocore.VM) {
	vm.SetGlobal("assert", protocore.ObjectValue(vm.NewNativeFunction("assert", assert, 2)))
}

// assert is a global function.
//
// assert(cond, msg) throws an Error with the message "ASSERT: msg" if cond is
// falsy. Otherwise it returns undefined.
func assert(vm *protocore.VM, this protocore.Value, args []protocore.Value) (protocore.Value, protocore.Stop) {
	if internal.ToBoolean(protocore.Arg(args, 0)) {
		return protocore.UndefinedValue, protocore.NoStop
	}
	msg, exc, stop := vm.ToString(protocore.Arg(args, 1))
	if stop != protocore.NoStop {
		return exc, stop
	}
	return vm.Throwf(vm.ErrorProto, "ASSERT: %s", msg)
}
