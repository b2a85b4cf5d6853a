package ast_test

import (
	"testing"

	"github.com/mna/tinyc/lang/ast"
	"github.com/mna/tinyc/lang/token"
	"github.com/mna/tinyc/lang/types"
	"github.com/stretchr/testify/require"
)

func newCtx() *ast.Context {
	return ast.NewContext(map[string]ast.ExternBinding{
		"print": {Addr: 1, Ret: types.NoneT, Params: []types.Type{types.NewPointer(types.CharT)}},
	})
}

func TestContextMaxArgsDefaultsToEmitterCeiling(t *testing.T) {
	ctx := newCtx()
	require.Equal(t, 2, ctx.MaxArgs())
}

func TestContextSetMaxArgsCannotExceedEmitterCeiling(t *testing.T) {
	ctx := newCtx()
	ctx.SetMaxArgs(5)
	require.Equal(t, 2, ctx.MaxArgs(), "raising past the emitter's fixed argument-register table must be ignored")
}

func TestContextSetMaxArgsLowersLimit(t *testing.T) {
	ctx := newCtx()
	ctx.SetMaxArgs(1)
	require.Equal(t, 1, ctx.MaxArgs())
}

func TestCallStatementTypeCheckRejectsArityOverLimit(t *testing.T) {
	ctx := newCtx()
	ctx.SetMaxArgs(1)

	sig := ast.FuncSig{Ret: types.I64T, Params: []types.Type{types.I64T, types.I64T}}
	ctx.DeclareFunction("sum", sig)

	loc := token.Location{File: "t.tc", Line: 1}
	callee := ast.NewRelative(loc, "sum")
	call := ast.NewCallStatement(loc, callee, []ast.Node{ast.NewInteger(loc, 1), ast.NewInteger(loc, 2)})

	_, err := call.TypeCheck(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "limit is 1")
}

func TestFunctionTypeCheckRejectsParamCountOverLimit(t *testing.T) {
	ctx := newCtx()
	ctx.SetMaxArgs(1)

	loc := token.Location{File: "t.tc", Line: 1}
	body := ast.NewScope(loc, []ast.Node{ast.NewReturnStatement(loc, ast.NewInteger(loc, 0))})
	fn := ast.NewFunction(loc, "sum", types.I64T, []types.Type{types.I64T, types.I64T}, []int{0, 8}, body, 16)

	_, err := fn.TypeCheck(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "limit is 1")
}

func TestDereferenceRequiresReferenceOperand(t *testing.T) {
	loc := token.Location{File: "t.tc", Line: 1}
	_, err := ast.NewDereference(loc, ast.NewInteger(loc, 1)).TypeCheck(newCtx())
	require.Error(t, err)
}

func TestStackIsReferenceOnlyOnStackNodes(t *testing.T) {
	loc := token.Location{File: "t.tc", Line: 1}
	require.True(t, ast.NewStack(loc, "x", types.I64T, 0, 8).IsReference())
	require.False(t, ast.NewInteger(loc, 1).IsReference())
}

func TestBinaryOperationAssignmentRequiresReferenceLHS(t *testing.T) {
	loc := token.Location{File: "t.tc", Line: 1}
	bad := ast.NewBinaryOperation(loc, ast.Assign, ast.NewInteger(loc, 1), ast.NewInteger(loc, 2))
	_, err := bad.TypeCheck(newCtx())
	require.Error(t, err)
}

func TestBinaryOperationRequiresMatchingOperandTypes(t *testing.T) {
	loc := token.Location{File: "t.tc", Line: 1}
	str := ast.NewExternString(loc, []byte("x"))
	mismatched := ast.NewBinaryOperation(loc, ast.Add, ast.NewInteger(loc, 1), str)
	_, err := mismatched.TypeCheck(newCtx())
	require.Error(t, err)
}

func TestRelativeTypeCheckRequiresDeclaration(t *testing.T) {
	loc := token.Location{File: "t.tc", Line: 1}
	_, err := ast.NewRelative(loc, "missing").TypeCheck(newCtx())
	require.Error(t, err)
	require.Contains(t, err.Error(), "undefined function")
}

func TestScopePreTypeCheckRegistersNestedFunctions(t *testing.T) {
	ctx := newCtx()
	loc := token.Location{File: "t.tc", Line: 1}
	body := ast.NewScope(loc, []ast.Node{ast.NewReturnStatement(loc, ast.NewInteger(loc, 1))})
	fn := ast.NewFunction(loc, "f", types.I64T, nil, nil, body, 0)
	scope := ast.NewScope(loc, []ast.Node{fn})

	require.NoError(t, scope.PreTypeCheck(ctx))
	sig, ok := ctx.LookupDeclared("f")
	require.True(t, ok)
	require.True(t, sig.Ret.Equal(types.I64T))
}
