package parser_test

import (
	"testing"

	"github.com/mna/tinyc/lang/ast"
	"github.com/mna/tinyc/lang/parser"
	"github.com/mna/tinyc/lang/types"
	"github.com/stretchr/testify/require"
)

func newContext() *ast.Context {
	return ast.NewContext(map[string]ast.ExternBinding{
		"print": {Addr: 1, Ret: types.NoneT, Params: []types.Type{types.NewPointer(types.CharT)}},
	})
}

func TestParseArithmeticFunction(t *testing.T) {
	src := `fn main() { return 1 + 2 * 4 + 5 * (6 - 7) * 8 + (9 + 10) * 11 + (12 % 13) * 14; }`
	items, err := parser.New(newContext()).ParseProgram("t.tc", []byte(src))
	require.NoError(t, err)
	require.Len(t, items, 1)
	fn, ok := items[0].(*ast.Function)
	require.True(t, ok)
	require.Equal(t, "main", fn.Name)
}

func TestParseIfElseAssignment(t *testing.T) {
	src := `fn main() {
		mut ret = 0;
		if 1 { ret = ret + 5; } else { ret = ret - 1; }
		return ret;
	}`
	items, err := parser.New(newContext()).ParseProgram("t.tc", []byte(src))
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestParseWhileLoop(t *testing.T) {
	src := `fn main() {
		mut i = 0; mut r = 0;
		while i != 100 { r = r + 5; i = i + 1; }
		return r;
	}`
	_, err := parser.New(newContext()).ParseProgram("t.tc", []byte(src))
	require.NoError(t, err)
}

func TestParseForwardFunctionReference(t *testing.T) {
	src := `fn main() { return f(); } fn f() { return 123; }`
	items, err := parser.New(newContext()).ParseProgram("t.tc", []byte(src))
	require.NoError(t, err)
	require.Len(t, items, 2)

	main := items[0].(*ast.Function)
	call, ok := main.Body.Body[0].(*ast.ReturnStatement).Value.(*ast.CallStatement)
	require.True(t, ok)
	rel, ok := call.Callee.(*ast.Relative)
	require.True(t, ok)
	require.Equal(t, "f", rel.Name)
}

func TestParseTwoArgCall(t *testing.T) {
	src := `fn main() { return sum(4, 5); } fn sum(x:i64, y:i64) { return x + y; }`
	items, err := parser.New(newContext()).ParseProgram("t.tc", []byte(src))
	require.NoError(t, err)
	require.Len(t, items, 2)
	sum := items[1].(*ast.Function)
	require.Len(t, sum.Params, 2)
	require.Equal(t, 16, sum.FrameSize)
}

func TestParseAssignmentRequiresReferenceLHS(t *testing.T) {
	src := `fn main() { return 1; }
	fn bad() { 1 = 2; return 0; }`
	items, err := parser.New(newContext()).ParseProgram("t.tc", []byte(src))
	require.NoError(t, err) // parses fine, fails at type-check
	bad := items[1].(*ast.Function)
	ctx := newContext()
	require.NoError(t, bad.PreTypeCheck(ctx))
	_, err = bad.TypeCheck(ctx)
	require.Error(t, err)
}

func TestParseExternCallResolvesBeforeLocalOrRelative(t *testing.T) {
	src := `fn main() { print("hi"); return 0; }`
	items, err := parser.New(newContext()).ParseProgram("t.tc", []byte(src))
	require.NoError(t, err)
	main := items[0].(*ast.Function)
	call := main.Body.Body[0].(*ast.CallStatement)
	_, ok := call.Callee.(*ast.ExternFunction)
	require.True(t, ok)
}

func TestParseMissingSemicolonIsParseError(t *testing.T) {
	src := `fn main() { return 1 }`
	_, err := parser.New(newContext()).ParseProgram("t.tc", []byte(src))
	require.Error(t, err)
	var perr *parser.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseUnaryMinusAndNot(t *testing.T) {
	src := `fn main() { return -1 + !0; }`
	_, err := parser.New(newContext()).ParseProgram("t.tc", []byte(src))
	require.NoError(t, err)
}
