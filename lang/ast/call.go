package ast

import (
	"github.com/mna/tinyc/lang/compiler"
	"github.com/mna/tinyc/lang/token"
	"github.com/mna/tinyc/lang/types"
)

// maxCallArgs is the System V argument-register budget this core supports:
// rdi and rsi only (spec §1, "at most two arguments per call").
const maxCallArgs = 2

var argRegs = [maxCallArgs]compiler.Reg{compiler.RDI, compiler.RSI}

// CallStatement invokes a callee — an ExternFunction, Relative, or any other
// Function-typed expression — with up to two arguments (spec §3, §4.4,
// §4.5).
type CallStatement struct {
	baseNode
	Callee Node
	Args   []Node
}

// NewCallStatement returns a CallStatement node.
func NewCallStatement(loc token.Location, callee Node, args []Node) *CallStatement {
	return &CallStatement{baseNode: baseNode{loc: loc}, Callee: callee, Args: args}
}

func (n *CallStatement) TypeCheck(ctx *Context) (types.Type, error) {
	if len(n.Args) > ctx.MaxArgs() {
		return types.Type{}, typeErrorf(n.loc, "call passes %d arguments, limit is %d", len(n.Args), ctx.MaxArgs())
	}
	ct, err := n.Callee.TypeCheck(ctx)
	if err != nil {
		return types.Type{}, err
	}
	if ct.Kind != types.Function {
		return types.Type{}, typeErrorf(n.loc, "cannot call non-function type %s", ct)
	}
	if len(n.Args) != len(ct.Params) {
		return types.Type{}, typeErrorf(n.loc, "wrong argument count: expected %d, got %d", len(ct.Params), len(n.Args))
	}
	for i, arg := range n.Args {
		at, err := arg.TypeCheck(ctx)
		if err != nil {
			return types.Type{}, err
		}
		if !at.Equal(ct.Params[i]) {
			return types.Type{}, typeErrorf(n.loc, "argument %d: expected %s, got %s", i, ct.Params[i], at)
		}
	}
	return *ct.Ret, nil
}

// Emit implements spec §4.5's call-site sequence: save rdi, marshal
// arguments into rdi/rsi in order, emit the callee address into rax, pad
// the compile-time stack counter back to 16-byte alignment around the
// call, then restore rdi.
func (n *CallStatement) Emit(cb *compiler.CodeBuffer) error {
	cb.EmitPush(compiler.RDI)
	for i, arg := range n.Args {
		if err := arg.Emit(cb); err != nil {
			return err
		}
		cb.EmitMovReg(argRegs[i], compiler.RAX)
	}
	if err := n.Callee.Emit(cb); err != nil {
		return err
	}

	bytesToAlign := int32(16 - (cb.StackSize % 16))
	cb.EmitSubRSPImm32(bytesToAlign)
	cb.EmitCallRAX()
	cb.EmitAddRSPImm32(bytesToAlign)

	cb.EmitPop(compiler.RDI)
	return nil
}
