// Package testutils provides utilities for testing programs in Go.
package testutils

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/zephyrtronium/protocore/ast"
	_ "github.com/zephyrtronium/protocore/coreext" // side effects
	"github.com/zephyrtronium/protocore/internal"
)

// testVM is the VM used for all tests.
var testVM *internal.VM

var testVMInit sync.Once

// VM returns a VM for testing. The VM is shared by all tests that use this
// package. Its console output and logs are discarded.
func VM() *internal.VM {
	testVMInit.Do(ResetVM)
	return testVM
}

// ResetVM reinitializes the VM returned by VM. It is not safe to call this in
// parallel tests.
func ResetVM() {
	testVM = NewVM(io.Discard)
}

// NewVM creates a private VM with default configuration whose console writes
// to out. Logs are discarded.
func NewVM(out io.Writer) *internal.VM {
	vm := internal.NewVM(nil)
	vm.SetLogger(slog.New(slog.DiscardHandler))
	vm.SetOutput(out, "utf-8")
	return vm
}

// A ProgramTestCase is a test case containing a YAML program and a predicate
// to check the result.
type ProgramTestCase struct {
	// Source is the program to execute, in the format read by ast.Decode.
	Source string
	// Pass is a predicate taking the result of executing Source. If Pass
	// returns false, then the test fails.
	Pass func(result internal.Value, control internal.Stop) bool
}

// TestFunc returns a test function for the test case. This uses VM to decode
// and execute the program.
func (c ProgramTestCase) TestFunc(name string) func(*testing.T) {
	return func(t *testing.T) {
		c.Run(t, VM(), name)
	}
}

// Run decodes and executes the test case's program in vm.
func (c ProgramTestCase) Run(t *testing.T, vm *internal.VM, name string) {
	t.Helper()
	p, err := ast.DecodeBytes([]byte(c.Source), name)
	if err != nil {
		t.Fatalf("could not decode %q: %v", c.Source, err)
	}
	r, s := vm.DoProgram(p)
	if c.Pass(r, s) {
		return
	}
	if s == internal.ExceptionStop {
		w := strings.Builder{}
		ex := vm.Uncaught(r)
		fmt.Fprintf(&w, "%q produced wrong result; an exception occurred:\n", c.Source)
		w.WriteString(internal.FormatStack(ex.Stack))
		w.WriteString(ex.Message)
		t.Error(w.String())
	} else {
		t.Errorf("%q produced wrong result; got %v (%s) (%s)", c.Source, r, r.Kind(), s)
	}
}

// PassEqual returns a Pass function for a ProgramTestCase that predicates on
// equality under SameValue, so NaN equals NaN. If the Stop is not NoStop,
// then the predicate returns false.
func PassEqual(want internal.Value) func(internal.Value, internal.Stop) bool {
	return func(result internal.Value, control internal.Stop) bool {
		if control != internal.NoStop {
			return false
		}
		return internal.SameValue(want, result)
	}
}

// PassIdentical returns a Pass function for a ProgramTestCase that predicates
// on identity, i.e. the result must be exactly the given object. If the Stop
// is not NoStop, then the predicate returns false.
func PassIdentical(want *internal.Object) func(internal.Value, internal.Stop) bool {
	return func(result internal.Value, control internal.Stop) bool {
		if control != internal.NoStop {
			return false
		}
		return result.Object() == want
	}
}

// PassControl returns a Pass function for a ProgramTestCase that predicates on
// equality with a certain control flow status. The control flow check precedes
// the value check. Equality here has the same semantics as in PassEqual.
func PassControl(want internal.Value, stop internal.Stop) func(internal.Value, internal.Stop) bool {
	return func(result internal.Value, control internal.Stop) bool {
		if control != stop {
			return false
		}
		return internal.SameValue(want, result)
	}
}

// PassTag returns a Pass function for a ProgramTestCase that predicates on
// the tag of an object result. If the Stop is not NoStop, then the predicate
// returns false.
func PassTag(want internal.Tag) func(internal.Value, internal.Stop) bool {
	return func(result internal.Value, control internal.Stop) bool {
		if control != internal.NoStop || !result.IsObject() {
			return false
		}
		return result.Object().Tag() == want
	}
}

// PassFailure returns a Pass function for a ProgramTestCase that returns true
// iff the result is a thrown exception.
func PassFailure() func(internal.Value, internal.Stop) bool {
	return func(result internal.Value, control internal.Stop) bool {
		return control == internal.ExceptionStop
	}
}

// PassErrorType returns a Pass function for a ProgramTestCase that returns
// true iff the result is a thrown error object whose name is name, e.g.
// "TypeError".
func PassErrorType(name string) func(internal.Value, internal.Stop) bool {
	return func(result internal.Value, control internal.Stop) bool {
		if control != internal.ExceptionStop || !result.IsObject() {
			return false
		}
		o := result.Object()
		return o.Tag() == internal.ErrorTag && internal.ErrorName(o) == name
	}
}

// PassSuccess returns a Pass function for a ProgramTestCase that returns true
// iff the control flow status is NoStop.
func PassSuccess() func(internal.Value, internal.Stop) bool {
	return func(result internal.Value, control internal.Stop) bool {
		return control == internal.NoStop
	}
}

// CheckGlobals is a testing helper to check that each of names is bound in
// vm's global scope.
func CheckGlobals(t *testing.T, vm *internal.VM, names []string) {
	t.Helper()
	for _, name := range names {
		t.Run("Have_"+name, func(t *testing.T) {
			v, ok := vm.Global.Get(name)
			if !ok {
				t.Fatal("no global", name)
			}
			if v.IsUndefined() && name != "undefined" {
				t.Fatal("global", name, "is undefined")
			}
		})
	}
}

// CheckProperties is a testing helper to check whether an object has exactly
// the own properties we expect.
func CheckProperties(t *testing.T, obj *internal.Object, keys []string) {
	t.Helper()
	checked := make(map[string]bool, len(keys))
	for _, key := range keys {
		checked[key] = true
		t.Run("Have_"+key, func(t *testing.T) {
			if !obj.HasOwn(key) {
				t.Fatal("no property", key)
			}
		})
	}
	for _, key := range obj.OwnKeys() {
		t.Run("Want_"+key, func(t *testing.T) {
			if !checked[key] {
				t.Fatal("unexpected property", key)
			}
		})
	}
}
