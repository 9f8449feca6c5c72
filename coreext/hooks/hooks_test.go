package hooks_test

import (
	"bytes"
	"testing"

	"github.com/zephyrtronium/protocore"
	_ "github.com/zephyrtronium/protocore/coreext/hooks" // side effects
	"github.com/zephyrtronium/protocore/testutils"
)

func TestRegister(t *testing.T) {
	testutils.CheckGlobals(t, testutils.VM(), []string{"new_hook", "show_hooks", "print_hook", "live_hooks"})
}

// TestHookCounts runs each case in a fresh VM so that live counts are exact.
func TestHookCounts(t *testing.T) {
	cases := map[string]testutils.ProgramTestCase{
		"TwoBindings": {
			Source: `
- [var, counts, [array]]
- [defun, test_hook1, ~,
    [var, a, [call, [id, new_hook], kaka]],
    [var, b, [id, a]],
    [call, [., [id, counts], push], [call, [id, show_hooks]]],
    ["=", [id, a], null],
    [call, [., [id, counts], push], [call, [id, show_hooks]]],
    ["=", [id, b], null],
    [call, [., [id, counts], push], [call, [id, show_hooks]]]]
- [call, [id, test_hook1]]
- [call, [., [id, counts], join], ","]
`,
			Pass: testutils.PassEqual(protocore.StringValue("1,1,0")),
		},
		"Unbound": {
			Source: `
- [call, [id, new_hook], temp]
- [call, [id, show_hooks]]
`,
			Pass: testutils.PassEqual(protocore.NumberValue(0)),
		},
		"Returned": {
			Source: `
- [defun, make, ~, [var, h, [call, [id, new_hook], made]], [return, [id, h]]]
- [var, x, [call, [id, make]]]
- [call, [id, show_hooks]]
`,
			Pass: testutils.PassEqual(protocore.NumberValue(1)),
		},
		"ReturnedUnbound": {
			Source: `
- [defun, make, ~, [return, [call, [id, new_hook], made]]]
- [call, [id, make]]
- [call, [id, show_hooks]]
`,
			Pass: testutils.PassEqual(protocore.NumberValue(0)),
		},
		"ScopeEnd": {
			Source: `
- [defun, f, ~, [var, h, [call, [id, new_hook], local]], [return, [call, [id, show_hooks]]]]
- [var, inside, [call, [id, f]]]
- [array, [id, inside], [call, [id, show_hooks]]]
`,
			Pass: func(result protocore.Value, control protocore.Stop) bool {
				if control != protocore.NoStop || !result.IsObject() {
					return false
				}
				o := result.Object()
				return o.Get("0").Float() == 1 && o.Get("1").Float() == 0
			},
		},
		"Closure": {
			Source: `
- [defun, keep, ~,
    [var, h, [call, [id, new_hook], kept]],
    [return, [function, ~, ~, [return, [id, h]]]]]
- [var, k, [call, [id, keep]]]
- [call, [id, show_hooks]]
`,
			Pass: testutils.PassEqual(protocore.NumberValue(1)),
		},
		"Parameter": {
			Source: `
- [var, h, [call, [id, new_hook], p]]
- [defun, count, [x], [return, [call, [., [id, x], count]]]]
- [array, [call, [id, count], [id, h]], [call, [., [id, h], count]]]
`,
			Pass: func(result protocore.Value, control protocore.Stop) bool {
				if control != protocore.NoStop || !result.IsObject() {
					return false
				}
				o := result.Object()
				return o.Get("0").Float() == 2 && o.Get("1").Float() == 1
			},
		},
		"ReturnThroughFinally": {
			Source: `
- [defun, make, ~, [try, [block, [return, [call, [id, new_hook], a]]], ~, ~, [block, [expr, 1]]]]
- [var, x, [call, [id, make]]]
- [array, [call, [id, show_hooks]], [call, [., [id, x], count]]]
`,
			Pass: passCounts(1, 1),
		},
		"FinallyOverridesReturn": {
			Source: `
- [defun, make, ~, [try, [block, [return, [call, [id, new_hook], a]]], ~, ~, [block, [return, 0]]]]
- [var, x, [call, [id, make]]]
- [array, [call, [id, show_hooks]], [id, x]]
`,
			Pass: passCounts(0, 0),
		},
		"Caught": {
			Source: `
- [try, [block, [throw, [call, [id, new_hook], a]]], e,
    [block, [array, [call, [id, show_hooks]], [call, [., [id, e], count]]]], ~]
`,
			Pass: passCounts(1, 1),
		},
		"CaughtReleased": {
			Source: `
- [try, [block, [throw, [call, [id, new_hook], a]]], e, [block, [id, e]], ~]
- [var, n, [call, [id, show_hooks]]]
- [id, n]
`,
			Pass: testutils.PassEqual(protocore.NumberValue(0)),
		},
		"ThrownFromCall": {
			Source: `
- [defun, fail, ~, [throw, [call, [id, new_hook], a]]]
- [try, [block, [call, [id, fail]]], e,
    [block, [array, [call, [id, show_hooks]], [call, [., [id, e], count]]]], ~]
`,
			Pass: passCounts(1, 1),
		},
		"ThrownThroughFinally": {
			Source: `
- [try,
    [block, [try, [block, [throw, [call, [id, new_hook], a]]], ~, ~, [block, [expr, 1]]]],
    e,
    [block, [array, [call, [id, show_hooks]], [call, [., [id, e], count]]]],
    ~]
`,
			Pass: passCounts(1, 1),
		},
		"Condition": {
			Source: `
- [if, [call, [id, new_hook], a], [block]]
- [var, n, [call, [id, show_hooks]]]
- [id, n]
`,
			Pass: testutils.PassEqual(protocore.NumberValue(0)),
		},
		"LoopCondition": {
			Source: `
- [while, [call, [id, new_hook], a], [break]]
- [var, n, [call, [id, show_hooks]]]
- [id, n]
`,
			Pass: testutils.PassEqual(protocore.NumberValue(0)),
		},
		"Discriminant": {
			Source: `
- [switch, [call, [id, new_hook], a], [default]]
- [var, n, [call, [id, show_hooks]]]
- [id, n]
`,
			Pass: testutils.PassEqual(protocore.NumberValue(0)),
		},
		"UncalledClosure": {
			Source: `
- [defun, f, ~, [var, h, [call, [id, new_hook], a]], [call, [function, ~, ~]]]
- [call, [id, f]]
- [call, [id, show_hooks]]
`,
			Pass: testutils.PassEqual(protocore.NumberValue(0)),
		},
		"LocalFunction": {
			Source: `
- [defun, f, ~,
    [var, h, [call, [id, new_hook], a]],
    [defun, g, ~, [return, [id, h]]],
    [call, [id, g]]]
- [call, [id, f]]
- [call, [id, show_hooks]]
`,
			Pass: testutils.PassEqual(protocore.NumberValue(0)),
		},
		"StoredClosure": {
			Source: `
- [var, o, [object]]
- [defun, f, ~,
    [var, h, [call, [id, new_hook], a]],
    ["=", [., [id, o], g], [function, ~, ~, [return, [id, h]]]]]
- [call, [id, f]]
- [array, [call, [id, show_hooks]], [call, [., [call, [., [id, o], g]], count]]]
`,
			// The returned hook is also a temporary while count runs.
			Pass: passCounts(1, 2),
		},
		"PropertiesDoNotCount": {
			Source: `
- [var, o, [object]]
- ["=", [., [id, o], h], [call, [id, new_hook], prop]]
- [call, [id, show_hooks]]
`,
			Pass: testutils.PassEqual(protocore.NumberValue(0)),
		},
		"LiveNames": {
			Source: `
- [var, a, [call, [id, new_hook], first]]
- [var, b, [call, [id, new_hook], second]]
- [call, [., [call, [id, live_hooks]], join], ","]
`,
			Pass: testutils.PassEqual(protocore.StringValue("first,second")),
		},
		"PrintNonHook": {
			Source: `- [call, [id, print_hook], 1]`,
			Pass:   testutils.PassErrorType("TypeError"),
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			c.Run(t, testutils.NewVM(&bytes.Buffer{}), name)
		})
	}
}

func TestPrintHook(t *testing.T) {
	var out bytes.Buffer
	vm := testutils.NewVM(&out)
	c := testutils.ProgramTestCase{
		Source: `
- [var, a, [call, [id, new_hook], kaka]]
- [var, b, [id, a]]
- ["=", [id, a], null]
- [call, [id, print_hook], [id, b]]
`,
		Pass: testutils.PassSuccess(),
	}
	c.Run(t, vm, "PrintHook")
	if got, want := out.String(), "hook kaka #1 count 1\n"; got != want {
		t.Errorf("wrong output: want %q, got %q", want, got)
	}
	if n := vm.Tracker.LiveCount(); n != 0 {
		t.Errorf("%d handles live after program end", n)
	}
}

func TestReleaseCallback(t *testing.T) {
	vm := testutils.NewVM(&bytes.Buffer{})
	var released []string
	vm.Tracker.OnRelease = func(h *protocore.Handle) {
		released = append(released, h.Name)
	}
	c := testutils.ProgramTestCase{
		Source: `
- [var, a, [call, [id, new_hook], old]]
- ["=", [id, a], [call, [id, new_hook], new]]
- [call, [id, live_hooks]]
`,
		Pass: testutils.PassTag(protocore.ArrayTag),
	}
	c.Run(t, vm, "ReleaseCallback")
	if len(released) != 2 || released[0] != "old" || released[1] != "new" {
		t.Errorf("wrong release order: %q", released)
	}
}

// passCounts checks for a two-element array result.
func passCounts(a, b float64) func(protocore.Value, protocore.Stop) bool {
	return func(result protocore.Value, control protocore.Stop) bool {
		if control != protocore.NoStop || !result.IsObject() {
			return false
		}
		o := result.Object()
		return o.Get("0").Float() == a && o.Get("1").Float() == b
	}
}
