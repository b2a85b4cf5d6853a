package ast

import (
	"github.com/mna/tinyc/lang/compiler"
	"github.com/mna/tinyc/lang/token"
	"github.com/mna/tinyc/lang/types"
)

// BinaryOp identifies one of the operators BinaryOperation implements (spec
// §4.3's precedence table plus assignment).
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Neq
	And
	Or
	Assign
)

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	case Eq:
		return "=="
	case Neq:
		return "!="
	case And:
		return "&&"
	case Or:
		return "||"
	case Assign:
		return "="
	default:
		return "?"
	}
}

// BinaryOperation is a two-operand operator node (spec §3, §4.4, §4.5). Its
// Emit method follows a distinct instruction sequence per Op, all sharing a
// push/pop-rbx envelope so nested evaluation nests correctly.
type BinaryOperation struct {
	baseNode
	Op       BinaryOp
	LHS, RHS Node
}

// NewBinaryOperation returns a BinaryOperation node.
func NewBinaryOperation(loc token.Location, op BinaryOp, lhs, rhs Node) *BinaryOperation {
	return &BinaryOperation{baseNode: baseNode{loc: loc}, Op: op, LHS: lhs, RHS: rhs}
}

func (n *BinaryOperation) TypeCheck(ctx *Context) (types.Type, error) {
	lt, err := n.LHS.TypeCheck(ctx)
	if err != nil {
		return types.Type{}, err
	}
	rt, err := n.RHS.TypeCheck(ctx)
	if err != nil {
		return types.Type{}, err
	}
	if n.Op == Assign {
		if lt.Kind != types.Reference {
			return types.Type{}, typeErrorf(n.loc, "left-hand side of assignment is not a reference")
		}
		if !lt.Elem.Equal(rt) {
			return types.Type{}, typeErrorf(n.loc, "cannot assign %s to %s", rt, *lt.Elem)
		}
		return types.NoneT, nil
	}
	if !lt.Equal(rt) {
		return types.Type{}, typeErrorf(n.loc, "operand type mismatch: %s %s %s", lt, n.Op, rt)
	}
	return lt, nil
}

// Emit implements the per-operator instruction sequences of spec §4.5.
func (n *BinaryOperation) Emit(cb *compiler.CodeBuffer) error {
	if n.Op == Assign {
		return n.emitAssign(cb)
	}

	cb.EmitPush(compiler.RBX)
	switch n.Op {
	case Add, Mul, Eq:
		if err := n.LHS.Emit(cb); err != nil {
			return err
		}
		cb.EmitMovReg(compiler.RBX, compiler.RAX)
		if err := n.RHS.Emit(cb); err != nil {
			return err
		}
		switch n.Op {
		case Add:
			cb.EmitAdd()
		case Mul:
			cb.EmitIMul()
		case Eq:
			cb.EmitCmp()
			cb.EmitSeteAL()
		}
	case Neq:
		if err := n.LHS.Emit(cb); err != nil {
			return err
		}
		cb.EmitMovReg(compiler.RBX, compiler.RAX)
		if err := n.RHS.Emit(cb); err != nil {
			return err
		}
		cb.EmitCmp()
		cb.EmitSeteAL()
		cb.EmitXorALImm8(1)
	case Sub, Div, Mod:
		if err := n.RHS.Emit(cb); err != nil {
			return err
		}
		cb.EmitMovReg(compiler.RBX, compiler.RAX)
		if err := n.LHS.Emit(cb); err != nil {
			return err
		}
		switch n.Op {
		case Sub:
			cb.EmitSub()
		case Div, Mod:
			cb.EmitPush(compiler.RDX)
			cb.EmitXorRDX()
			cb.EmitIDiv()
			if n.Op == Mod {
				cb.EmitMovReg(compiler.RAX, compiler.RDX)
			}
			cb.EmitPop(compiler.RDX)
		}
	case And, Or:
		if err := n.LHS.Emit(cb); err != nil {
			return err
		}
		cb.EmitTestRAX()
		cb.EmitSetneBL()
		if err := n.RHS.Emit(cb); err != nil {
			return err
		}
		cb.EmitTestRAX()
		cb.EmitSetneAL()
		if n.Op == And {
			cb.EmitAndALBL()
		} else {
			cb.EmitOrALBL()
		}
	}
	cb.EmitPop(compiler.RBX)
	return nil
}

func (n *BinaryOperation) emitAssign(cb *compiler.CodeBuffer) error {
	cb.EmitPush(compiler.RBX)
	if err := n.LHS.Emit(cb); err != nil {
		return err
	}
	cb.EmitMovReg(compiler.RBX, compiler.RAX)
	if err := n.RHS.Emit(cb); err != nil {
		return err
	}
	cb.EmitStoreRBX()
	cb.EmitPop(compiler.RBX)
	return nil
}

// UnaryOp identifies a prefix operator (supplemented from the donor
// implementation; the distilled grammar's binary operator table has no
// unary row, see SPEC_FULL.md).
type UnaryOp int

const (
	Negate UnaryOp = iota
	Not
)

func (op UnaryOp) String() string {
	if op == Not {
		return "!"
	}
	return "-"
}

// UnaryOperation is a single-operand prefix operator: numeric negation or
// logical not. Grounded in the donor source's unary-minus/not handling
// (SPEC_FULL.md, "Supplemented features").
type UnaryOperation struct {
	baseNode
	Op    UnaryOp
	Child Node
}

// NewUnaryOperation returns a UnaryOperation node.
func NewUnaryOperation(loc token.Location, op UnaryOp, child Node) *UnaryOperation {
	return &UnaryOperation{baseNode: baseNode{loc: loc}, Op: op, Child: child}
}

func (n *UnaryOperation) TypeCheck(ctx *Context) (types.Type, error) {
	t, err := n.Child.TypeCheck(ctx)
	if err != nil {
		return types.Type{}, err
	}
	if !t.Equal(types.I64T) {
		return types.Type{}, typeErrorf(n.loc, "unary %s requires i64, got %s", n.Op, t)
	}
	return types.I64T, nil
}

func (n *UnaryOperation) Emit(cb *compiler.CodeBuffer) error {
	if err := n.Child.Emit(cb); err != nil {
		return err
	}
	switch n.Op {
	case Negate:
		cb.EmitNeg()
	case Not:
		cb.EmitTestRAX()
		cb.EmitSeteAL()
	}
	return nil
}
