package internal_test

import (
	"testing"

	"github.com/zephyrtronium/protocore/internal"
	"github.com/zephyrtronium/protocore/testutils"
)

func runCases(t *testing.T, cases map[string]testutils.ProgramTestCase) {
	t.Helper()
	vm := testutils.VM()
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			c.Run(t, vm, name)
		})
	}
}

func TestTry(t *testing.T) {
	cases := map[string]testutils.ProgramTestCase{
		"FinallyOnBreak": {
			Source: `
- [var, s, ""]
- [while, true, [block,
    [try, [block, ["+=", [id, s], t], [break]], ~, ~, [block, ["+=", [id, s], f]]]]]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.StringValue("tf")),
		},
		"NestedCatchFinally": {
			Source: `
- [var, s, ""]
- [try,
    [block,
      [try, [block, ["+=", [id, s], t], [throw, [new, [id, Error], a]]], ~, ~,
        [block, ["+=", [id, s], f]]]],
    e,
    [block, ["+=", [id, s], [call, [., [id, e], message]]]],
    [block, ["+=", [id, s], g]]]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.StringValue("tfag")),
		},
		"FinallyReplacesReturn": {
			Source: `
- [defun, f, ~, [try, [block, [return, 1]], ~, ~, [block, [return, 2]]]]
- [call, [id, f]]
`,
			Pass: testutils.PassEqual(internal.NumberValue(2)),
		},
		"FinallyReplacesThrow": {
			Source: `
- [defun, f, ~, [try, [block, [throw, 1]], ~, ~, [block, [return, 3]]]]
- [call, [id, f]]
`,
			Pass: testutils.PassEqual(internal.NumberValue(3)),
		},
		"FinallyBreakDiscardsThrow": {
			Source: `
- [var, n, 0]
- [while, true, [try, [block, [throw, 1]], ~, ~, [block, [postinc, [id, n]], [break]]]]
- [id, n]
`,
			Pass: testutils.PassEqual(internal.NumberValue(1)),
		},
		"NormalFinallyKeepsReturn": {
			Source: `
- [var, s, ""]
- [defun, f, ~, [try, [block, [return, 1]], ~, ~, [block, ["=", [id, s], done]]]]
- ["+", [call, [id, f]], [id, s]]
`,
			Pass: testutils.PassEqual(internal.StringValue("1done")),
		},
		"FinallyAfterCatchThrow": {
			Source: `
- [var, s, ""]
- [try,
    [block, [try, [block, [throw, 1]], e, [block, [throw, 2]], [block, ["+=", [id, s], f]]]],
    e,
    [block, ["+=", [id, s], [id, e]]],
    ~]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.StringValue("f2")),
		},
		"CatchPrimitive": {
			Source: `[[try, [block, [throw, 5]], e, [block, [id, e]], ~]]`,
			Pass:   testutils.PassEqual(internal.NumberValue(5)),
		},
		"CatchScope": {
			Source: `
- [try, [block, [throw, 5]], caught, [block, [id, caught]], ~]
- [typeof, [id, caught]]
`,
			Pass: testutils.PassEqual(internal.StringValue("undefined")),
		},
		"Uncaught": {
			Source: `[[try, [block, [throw, [new, [id, RangeError], x]]], ~, ~, [block, 1]]]`,
			Pass:   testutils.PassErrorType("RangeError"),
		},
		"ThrowOperandThrows": {
			Source: `[[throw, [id, noSuchThrowOperand]]]`,
			Pass:   testutils.PassErrorType("ReferenceError"),
		},
	}
	runCases(t, cases)
}

func TestForIn(t *testing.T) {
	const setup = `
- [var, p, [object, [z, 3]]]
- [var, o, [call, [., [id, Object], create], [id, p]]]
- ["=", [., [id, o], x], 1]
- ["=", [index, [id, o], "y"], 2]
- [var, s, ""]
`
	cases := map[string]testutils.ProgramTestCase{
		"All": {
			Source: setup + `
- [forin, [var, k], [id, o], ["+=", [id, s], [id, k]]]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.StringValue("xyz")),
		},
		"Continue": {
			Source: setup + `
- [forin, [var, k], [id, o], [block,
    [if, ["===", [id, k], "y"], [continue]],
    ["+=", [id, s], [id, k]]]]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.StringValue("xz")),
		},
		"Break": {
			Source: setup + `
- [forin, [var, k], [id, o], [block,
    [if, ["===", [id, k], z], [break]],
    ["+=", [id, s], [id, k]]]]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.StringValue("xy")),
		},
		"Shadowed": {
			Source: setup + `
- [call, [., [id, Object], defineProperty], [id, o], z, [object, [value, 0]]]
- [forin, [var, k], [id, o], ["+=", [id, s], [id, k]]]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.StringValue("xy")),
		},
		"DeleteAhead": {
			Source: setup + `
- [forin, [var, k], [id, o], [block,
    [delete, [., [id, p], z]],
    ["+=", [id, s], [id, k]]]]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.StringValue("xy")),
		},
		"AddedNotVisited": {
			Source: setup + `
- [forin, [var, k], [id, o], [block,
    ["=", [., [id, o], w], 0],
    ["+=", [id, s], [id, k]]]]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.StringValue("xyz")),
		},
		"String": {
			Source: `
- [var, s, ""]
- [forin, [var, k], abc, ["+=", [id, s], [id, k]]]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.StringValue("012")),
		},
		"Null": {
			Source: `
- [var, n, 0]
- [forin, [var, k], ~, [postinc, [id, n]]]
- [id, n]
`,
			Pass: testutils.PassEqual(internal.NumberValue(0)),
		},
		"ExistingBinding": {
			Source: `
- [var, k, ""]
- [forin, [id, k], [object, [a, 1]], [empty]]
- [id, k]
`,
			Pass: testutils.PassEqual(internal.StringValue("a")),
		},
	}
	runCases(t, cases)
}

func TestLoops(t *testing.T) {
	cases := map[string]testutils.ProgramTestCase{
		"While": {
			Source: `
- [var, n, 0]
- [while, ["<", [id, n], 5], [preinc, [id, n]]]
- [id, n]
`,
			Pass: testutils.PassEqual(internal.NumberValue(5)),
		},
		"DoRunsOnce": {
			Source: `
- [var, n, 0]
- [do, [postinc, [id, n]], false]
- [id, n]
`,
			Pass: testutils.PassEqual(internal.NumberValue(1)),
		},
		"DoContinue": {
			Source: `
- [var, n, 0]
- [do, [block, [preinc, [id, n]], [continue]], ["<", [id, n], 3]]
- [id, n]
`,
			Pass: testutils.PassEqual(internal.NumberValue(3)),
		},
		"For": {
			Source: `
- [var, s, 0]
- [for, [var, i, 0], ["<", [id, i], 4], [postinc, [id, i]], ["+=", [id, s], [id, i]]]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.NumberValue(6)),
		},
		"ForEmptyHead": {
			Source: `
- [var, i, 0]
- [for, ~, ~, ~, [if, [">=", [preinc, [id, i]], 10], [break]]]
- [id, i]
`,
			Pass: testutils.PassEqual(internal.NumberValue(10)),
		},
		"ForContinueRunsUpdate": {
			Source: `
- [var, s, ""]
- [for, [var, i, 0], ["<", [id, i], 3], [postinc, [id, i]], [block,
    [if, ["===", [id, i], 1], [continue]],
    ["+=", [id, s], [id, i]]]]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.StringValue("02")),
		},
		"CompletionValue": {
			Source: `
- [var, i, 0]
- [while, ["<", [id, i], 3], [preinc, [id, i]]]
`,
			Pass: testutils.PassEqual(internal.NumberValue(3)),
		},
	}
	runCases(t, cases)
}

func TestLabels(t *testing.T) {
	cases := map[string]testutils.ProgramTestCase{
		"BreakOuter": {
			Source: `
- [var, s, ""]
- [label, outer, [for, [var, i, 0], ["<", [id, i], 3], [postinc, [id, i]],
    [for, [var, j, 0], ["<", [id, j], 3], [postinc, [id, j]], [block,
      [if, ["===", [id, j], 1], [continue, outer]],
      [if, ["===", [id, i], 2], [break, outer]],
      ["+=", [id, s], ["+", [id, i], [id, j]]]]]]]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.StringValue("01")),
		},
		"Block": {
			Source: `
- [var, s, ""]
- [label, l, [block, ["+=", [id, s], a], [break, l], ["+=", [id, s], b]]]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.StringValue("a")),
		},
		"Stacked": {
			Source: `
- [var, n, 0]
- [label, a, [label, b, [while, true, [block,
    [if, ["===", [preinc, [id, n]], 3], [break, a]],
    [continue, b]]]]]
- [id, n]
`,
			Pass: testutils.PassEqual(internal.NumberValue(3)),
		},
		"ContinueNonLoop": {
			Source: `[[label, l, [block, [continue, l]]]]`,
			Pass:   testutils.PassErrorType("SyntaxError"),
		},
		"BreakThroughFinally": {
			Source: `
- [var, s, ""]
- [label, out, [while, true, [while, true,
    [try, [block, [break, out]], ~, ~, [block, ["+=", [id, s], f]]]]]]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.StringValue("f")),
		},
	}
	runCases(t, cases)
}

func TestSwitch(t *testing.T) {
	const body = `
  [case, 1, ["+=", [id, s], a]],
  [case, 2, ["+=", [id, s], b]],
  [default, ["+=", [id, s], c]],
  [case, 3, ["+=", [id, s], d], [break]],
  [case, 4, ["+=", [id, s], e]]]
- [id, s]
`
	program := func(disc string) string {
		return "- [var, s, \"\"]\n- [switch, " + disc + "," + body
	}
	cases := map[string]testutils.ProgramTestCase{
		"FallThrough": {
			Source: program("2"),
			Pass:   testutils.PassEqual(internal.StringValue("bcd")),
		},
		"Default": {
			Source: program("9"),
			Pass:   testutils.PassEqual(internal.StringValue("cd")),
		},
		"Strict": {
			Source: program(`"2"`),
			Pass:   testutils.PassEqual(internal.StringValue("cd")),
		},
		"Last": {
			Source: program("4"),
			Pass:   testutils.PassEqual(internal.StringValue("e")),
		},
		"NoMatch": {
			Source: `
- [var, s, ""]
- [switch, 9, [case, 1, ["+=", [id, s], a]]]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.StringValue("")),
		},
		"ContinueInLoop": {
			Source: `
- [var, s, ""]
- [for, [var, i, 0], ["<", [id, i], 3], [postinc, [id, i]],
    [switch, [id, i], [case, 1, [continue]], [default, ["+=", [id, s], [id, i]], [break]]]]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.StringValue("02")),
		},
		"LabeledBreak": {
			Source: `
- [var, s, ""]
- [label, sw, [switch, 1, [case, 1, ["+=", [id, s], a], [break, sw]], [case, 2, ["+=", [id, s], b]]]]
- [id, s]
`,
			Pass: testutils.PassEqual(internal.StringValue("a")),
		},
	}
	runCases(t, cases)
}

func TestHoisting(t *testing.T) {
	cases := map[string]testutils.ProgramTestCase{
		"FunctionBeforeDeclaration": {
			Source: `
- [var, r, [call, [id, f]]]
- [defun, f, ~, [return, 5]]
- [id, r]
`,
			Pass: testutils.PassEqual(internal.NumberValue(5)),
		},
		"VarBeforeDeclaration": {
			Source: `
- [id, v]
- [var, v, 1]
`,
			Pass: testutils.PassEqual(internal.UndefinedValue),
		},
		"NestedBlocks": {
			Source: `
- [defun, f, ~,
    [if, false, [block, [var, inner, 1]]],
    [return, [id, inner]]]
- [call, [id, f]]
`,
			Pass: testutils.PassEqual(internal.UndefinedValue),
		},
		"FunctionLocal": {
			Source: `
- [defun, f, ~, [var, local, 1], [return, [id, local]]]
- [call, [id, f]]
- [typeof, [id, local]]
`,
			Pass: testutils.PassEqual(internal.StringValue("undefined")),
		},
		"LaterDeclarationWins": {
			Source: `
- [defun, f, ~, [return, 1]]
- [defun, f, ~, [return, 2]]
- [call, [id, f]]
`,
			Pass: testutils.PassEqual(internal.NumberValue(2)),
		},
	}
	runCases(t, cases)
}

func TestDelete(t *testing.T) {
	cases := map[string]testutils.ProgramTestCase{
		"NonConfigurable": {
			Source: `
- [var, o, [object]]
- [call, [., [id, Object], defineProperty], [id, o], x, [object, [value, 1]]]
- ["&&", ["===", [delete, [., [id, o], x]], false], ["===", [., [id, o], x], 1]]
`,
			Pass: testutils.PassEqual(internal.TrueValue),
		},
		"Configurable": {
			Source: `
- [var, o, [object, [x, 1]]]
- ["&&", [delete, [., [id, o], x]], ["!", [in, x, [id, o]]]]
`,
			Pass: testutils.PassEqual(internal.TrueValue),
		},
		"Missing": {
			Source: `[[delete, [., [object], x]]]`,
			Pass:   testutils.PassEqual(internal.TrueValue),
		},
		"InheritedUntouched": {
			Source: `
- [var, p, [object, [x, 1]]]
- [var, o, [call, [., [id, Object], create], [id, p]]]
- [delete, [., [id, o], x]]
- [., [id, o], x]
`,
			Pass: testutils.PassEqual(internal.NumberValue(1)),
		},
		"Index": {
			Source: `
- [var, o, [object, [k, 1]]]
- [delete, [index, [id, o], k]]
- [typeof, [., [id, o], k]]
`,
			Pass: testutils.PassEqual(internal.StringValue("undefined")),
		},
		"Primitive": {
			Source: `[[delete, [., 5, x]]]`,
			Pass:   testutils.PassErrorType("TypeError"),
		},
		"Undefined": {
			Source: `[[delete, [., [id, undefined], x]]]`,
			Pass:   testutils.PassErrorType("TypeError"),
		},
		"Variable": {
			Source: `
- [var, v, 1]
- [delete, [id, v]]
`,
			Pass: testutils.PassEqual(internal.FalseValue),
		},
	}
	runCases(t, cases)
}

func TestReceiver(t *testing.T) {
	const setup = `
- [defun, who, ~, [return, [., [this], name]]]
- [var, a, [object, [name, a], [who, [id, who]]]]
- [var, b, [object, [name, b], [who, [., [id, a], who]]]]
`
	cases := map[string]testutils.ProgramTestCase{
		"PerCallSite": {
			Source: setup + `
- ["+", [call, [., [id, a], who]], [call, [., [id, b], who]]]
`,
			Pass: testutils.PassEqual(internal.StringValue("ab")),
		},
		"Index": {
			Source: setup + `
- [call, [index, [id, b], who]]
`,
			Pass: testutils.PassEqual(internal.StringValue("b")),
		},
		"Call": {
			Source: setup + `
- [call, [., [id, who], call], [id, b]]
`,
			Pass: testutils.PassEqual(internal.StringValue("b")),
		},
		"Apply": {
			Source: setup + `
- [call, [., [., [id, a], who], apply], [id, b], [array]]
`,
			Pass: testutils.PassEqual(internal.StringValue("b")),
		},
		"Unbound": {
			Source: `
- [defun, f, ~, [return, [typeof, [this]]]]
- [call, [id, f]]
`,
			Pass: testutils.PassEqual(internal.StringValue("undefined")),
		},
		"Primitive": {
			Source: `
- ["=", [., [., [id, String], prototype], self], [function, ~, ~, [return, [this]]]]
- [call, [., abc, self]]
`,
			Pass: testutils.PassEqual(internal.StringValue("abc")),
		},
	}
	runCases(t, cases)
}

func TestArguments(t *testing.T) {
	cases := map[string]testutils.ProgramTestCase{
		"BeyondArity": {
			Source: `
- [defun, f, [a], [return, ["+", [., [id, arguments], length], [index, [id, arguments], 2]]]]
- [call, [id, f], 1, 2, 3]
`,
			Pass: testutils.PassEqual(internal.NumberValue(6)),
		},
		"Missing": {
			Source: `
- [defun, f, [a, b], [return, [typeof, [id, b]]]]
- [call, [id, f], 1]
`,
			Pass: testutils.PassEqual(internal.StringValue("undefined")),
		},
		"RepeatedParameter": {
			Source: `
- [defun, f, [a, a], [return, [id, a]]]
- [call, [id, f], 1, 2]
`,
			Pass: testutils.PassEqual(internal.NumberValue(2)),
		},
		"Length": {
			Source: `
- [defun, f, [a, b, c], [return, 0]]
- [., [id, f], length]
`,
			Pass: testutils.PassEqual(internal.NumberValue(3)),
		},
		"NoReturn": {
			Source: `
- [defun, f, ~, [expr, 1]]
- [call, [id, f]]
`,
			Pass: testutils.PassEqual(internal.UndefinedValue),
		},
		"Closure": {
			Source: `
- [defun, counter, ~, [var, n, 0], [return, [function, ~, ~, [return, [preinc, [id, n]]]]]]
- [var, c, [call, [id, counter]]]
- [call, [id, c]]
- [call, [id, c]]
- [call, [call, [id, counter]]]
- ["+", [call, [id, c]], 0]
`,
			Pass: testutils.PassEqual(internal.NumberValue(3)),
		},
	}
	runCases(t, cases)
}
