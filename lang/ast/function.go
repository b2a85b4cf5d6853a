package ast

import (
	"github.com/mna/tinyc/lang/compiler"
	"github.com/mna/tinyc/lang/token"
	"github.com/mna/tinyc/lang/types"
)

// Function is a top-level function definition: name, fixed I64 return type
// (spec §4.2, "The return type is fixed to I64"), parameter types in
// declaration order, the body scope, and the rounded-to-16 frame size the
// statement parser computed by popping the function's frame (spec §3,
// "Scope frame").
type Function struct {
	baseNode
	Name string
	Ret  types.Type

	Params       []types.Type
	ParamOffsets []int

	Body      *Scope
	FrameSize int
}

// NewFunction returns a Function node. paramOffsets[i] is the frame offset
// the parser's Frame.Alloc assigned to parameter i when pre-binding it as a
// Stack node.
func NewFunction(loc token.Location, name string, ret types.Type, params []types.Type, paramOffsets []int, body *Scope, frameSize int) *Function {
	return &Function{
		baseNode:     baseNode{loc: loc},
		Name:         name,
		Ret:          ret,
		Params:       params,
		ParamOffsets: paramOffsets,
		Body:         body,
		FrameSize:    frameSize,
	}
}

// PreTypeCheck registers this function's signature in the declared-function
// table (spec §4.4 pass 1) and recurses into the body for any nested
// function definitions.
func (n *Function) PreTypeCheck(ctx *Context) error {
	ctx.DeclareFunction(n.Name, FuncSig{Ret: n.Ret, Params: n.Params})
	return n.Body.PreTypeCheck(ctx)
}

func (n *Function) TypeCheck(ctx *Context) (types.Type, error) {
	if len(n.Params) > ctx.MaxArgs() {
		return types.Type{}, typeErrorf(n.loc, "function %s declares %d parameters, limit is %d", n.Name, len(n.Params), ctx.MaxArgs())
	}
	if _, err := n.Body.TypeCheck(ctx); err != nil {
		return types.Type{}, err
	}
	return types.NoneT, nil
}

// Emit records the function's entry label, emits its prologue, spills each
// incoming argument register into its frame slot in declaration order, then
// emits the body (spec §4.5, "Function prologue").
func (n *Function) Emit(cb *compiler.CodeBuffer) error {
	if len(n.Params) > maxCallArgs {
		panic("ast: function with more than 2 parameters")
	}
	entry := cb.EmitFunctionPrologue(int32(n.FrameSize))
	cb.DeclareFunctionLabel(n.Name, entry)

	for i, pt := range n.Params {
		reg := argRegs[i]
		size := int32(pt.Size())
		cb.EmitStoreFrameOffset(int32(n.ParamOffsets[i])+size, reg)
	}

	return n.Body.Emit(cb)
}
