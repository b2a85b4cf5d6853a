package ast

import (
	"github.com/mna/tinyc/lang/compiler"
	"github.com/mna/tinyc/lang/token"
	"github.com/mna/tinyc/lang/types"
)

// Scope is an ordered sequence of statements sharing the enclosing
// function's frame (spec §3; this core has no block scoping, see
// SPEC_FULL.md).
type Scope struct {
	baseNode
	Body []Node
}

// NewScope returns a Scope wrapping body in source order.
func NewScope(loc token.Location, body []Node) *Scope {
	return &Scope{baseNode: baseNode{loc: loc}, Body: body}
}

func (n *Scope) PreTypeCheck(ctx *Context) error {
	for _, c := range n.Body {
		if err := c.PreTypeCheck(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (n *Scope) TypeCheck(ctx *Context) (types.Type, error) {
	for _, c := range n.Body {
		if _, err := c.TypeCheck(ctx); err != nil {
			return types.Type{}, err
		}
	}
	return types.NoneT, nil
}

func (n *Scope) Emit(cb *compiler.CodeBuffer) error {
	for _, c := range n.Body {
		if err := c.Emit(cb); err != nil {
			return err
		}
	}
	return nil
}

// IfStatement evaluates Cond and runs Then when it is nonzero, otherwise
// Else when present (spec §4.2 parses no else clause; the else branch here
// is a supplemented extension of the redesign flag noted in SPEC_FULL.md —
// §9 "Unimplemented keywords" treats `else` as an extension point, not a
// bug).
type IfStatement struct {
	baseNode
	Cond Node
	Then *Scope
	Else *Scope
}

// NewIfStatement returns an IfStatement. els may be nil.
func NewIfStatement(loc token.Location, cond Node, then, els *Scope) *IfStatement {
	return &IfStatement{baseNode: baseNode{loc: loc}, Cond: cond, Then: then, Else: els}
}

func (n *IfStatement) PreTypeCheck(ctx *Context) error {
	if err := n.Then.PreTypeCheck(ctx); err != nil {
		return err
	}
	if n.Else != nil {
		return n.Else.PreTypeCheck(ctx)
	}
	return nil
}

func (n *IfStatement) TypeCheck(ctx *Context) (types.Type, error) {
	ct, err := n.Cond.TypeCheck(ctx)
	if err != nil {
		return types.Type{}, err
	}
	if !ct.Equal(types.I64T) {
		return types.Type{}, typeErrorf(n.loc, "if condition must be i64, got %s", ct)
	}
	if _, err := n.Then.TypeCheck(ctx); err != nil {
		return types.Type{}, err
	}
	if n.Else != nil {
		if _, err := n.Else.TypeCheck(ctx); err != nil {
			return types.Type{}, err
		}
	}
	return types.NoneT, nil
}

// Emit implements spec §4.5's branch sequence, extended with an else arm:
// emit cond; test rax,rax; jz L_else_or_end; emit then; [jmp L_end; L_else:
// emit else;] L_end:.
func (n *IfStatement) Emit(cb *compiler.CodeBuffer) error {
	if err := n.Cond.Emit(cb); err != nil {
		return err
	}
	cb.EmitTestRAX()
	jz := cb.EmitJZ()

	if err := n.Then.Emit(cb); err != nil {
		return err
	}

	if n.Else == nil {
		end := cb.Label()
		cb.PatchTarget(jz, end)
		return nil
	}

	jmpEnd := cb.EmitJMP()
	elseLabel := cb.Label()
	cb.PatchTarget(jz, elseLabel)
	if err := n.Else.Emit(cb); err != nil {
		return err
	}
	end := cb.Label()
	cb.PatchTarget(jmpEnd, end)
	return nil
}

// WhileStatement repeats Body while Cond is nonzero (spec §4.5).
type WhileStatement struct {
	baseNode
	Cond Node
	Body *Scope
}

// NewWhileStatement returns a WhileStatement node.
func NewWhileStatement(loc token.Location, cond Node, body *Scope) *WhileStatement {
	return &WhileStatement{baseNode: baseNode{loc: loc}, Cond: cond, Body: body}
}

func (n *WhileStatement) PreTypeCheck(ctx *Context) error { return n.Body.PreTypeCheck(ctx) }

func (n *WhileStatement) TypeCheck(ctx *Context) (types.Type, error) {
	ct, err := n.Cond.TypeCheck(ctx)
	if err != nil {
		return types.Type{}, err
	}
	if !ct.Equal(types.I64T) {
		return types.Type{}, typeErrorf(n.loc, "while condition must be i64, got %s", ct)
	}
	if _, err := n.Body.TypeCheck(ctx); err != nil {
		return types.Type{}, err
	}
	return types.NoneT, nil
}

func (n *WhileStatement) Emit(cb *compiler.CodeBuffer) error {
	condLabel := cb.Label()
	if err := n.Cond.Emit(cb); err != nil {
		return err
	}
	cb.EmitTestRAX()
	jz := cb.EmitJZ()

	if err := n.Body.Emit(cb); err != nil {
		return err
	}
	jmp := cb.EmitJMP()
	cb.PatchTarget(jmp, condLabel)

	end := cb.Label()
	cb.PatchTarget(jz, end)
	return nil
}

// ReturnStatement evaluates Value into rax and unwinds the current
// function's frame (spec §4.4 requires Value to be I64; §4.5's sequence is
// `mov rsp, rbp; pop rbp; ret`).
type ReturnStatement struct {
	baseNode
	Value Node
}

// NewReturnStatement returns a ReturnStatement node.
func NewReturnStatement(loc token.Location, value Node) *ReturnStatement {
	return &ReturnStatement{baseNode: baseNode{loc: loc}, Value: value}
}

func (n *ReturnStatement) TypeCheck(ctx *Context) (types.Type, error) {
	vt, err := n.Value.TypeCheck(ctx)
	if err != nil {
		return types.Type{}, err
	}
	if !vt.Equal(types.I64T) {
		return types.Type{}, typeErrorf(n.loc, "return value must be i64, got %s", vt)
	}
	return types.NoneT, nil
}

func (n *ReturnStatement) Emit(cb *compiler.CodeBuffer) error {
	if err := n.Value.Emit(cb); err != nil {
		return err
	}
	cb.EmitReturn()
	return nil
}
