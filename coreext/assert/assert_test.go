package assert_test

import (
	"testing"

	"github.com/zephyrtronium/protocore"
	_ "github.com/zephyrtronium/protocore/coreext/assert" // side effects
	"github.com/zephyrtronium/protocore/testutils"
)

func TestRegister(t *testing.T) {
	testutils.CheckGlobals(t, testutils.VM(), []string{"assert"})
}

func TestAssert(t *testing.T) {
	cases := map[string]testutils.ProgramTestCase{
		"True":      {Source: `- [call, [id, assert], true, ok]`, Pass: testutils.PassEqual(protocore.UndefinedValue)},
		"Truthy":    {Source: `- [call, [id, assert], [object], ok]`, Pass: testutils.PassEqual(protocore.UndefinedValue)},
		"False":     {Source: `- [call, [id, assert], false, bad]`, Pass: testutils.PassErrorType("Error")},
		"Zero":      {Source: `- [call, [id, assert], 0, bad]`, Pass: testutils.PassFailure()},
		"EmptyArgs": {Source: `- [call, [id, assert]]`, Pass: testutils.PassFailure()},
		"Message": {
			Source: `
- [try, [block, [call, [id, assert], [==, 1, 2], nope]], e,
    [block, [call, [., [id, e], message]]], ~]
`,
			Pass: testutils.PassEqual(protocore.StringValue("ASSERT: nope")),
		},
		"ToString": {
			Source: `
- [try, [block, [call, [id, assert], null, [+, "n", 1]]], e,
    [block, [call, [., [id, e], toString]]], ~]
`,
			Pass: testutils.PassEqual(protocore.StringValue("Error: ASSERT: n1")),
		},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc(name))
	}
}
