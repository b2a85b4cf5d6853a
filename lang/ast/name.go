package ast

import (
	"github.com/mna/tinyc/lang/compiler"
	"github.com/mna/tinyc/lang/token"
	"github.com/mna/tinyc/lang/types"
)

// Relative is a pending reference to a function declared elsewhere in this
// compilation unit, resolved at link time against the entry label the
// referenced Function node records (spec §3, "Relative node"; glossary
// "Late binding").
type Relative struct {
	baseNode
	Name string
}

// NewRelative returns a Relative node referencing the named function.
func NewRelative(loc token.Location, name string) *Relative {
	return &Relative{baseNode: baseNode{loc: loc}, Name: name}
}

func (n *Relative) TypeCheck(ctx *Context) (types.Type, error) {
	sig, ok := ctx.LookupDeclared(n.Name)
	if !ok {
		return types.Type{}, typeErrorf(n.loc, "undefined function: %s", n.Name)
	}
	return types.NewFunction(sig.Ret, sig.Params), nil
}

func (n *Relative) Emit(cb *compiler.CodeBuffer) error {
	idx := cb.EmitLeaRIP()
	cb.AddPendingCall(n.Name, idx)
	return nil
}

// Stack is a local variable's storage: a frame-relative offset and size
// bound by the parsing context at declaration time. It is the only node
// kind that reports IsReference() true (spec §3); consuming it as a value
// requires wrapping it in Dereference (spec §4.3, "L-value / R-value
// coercion").
type Stack struct {
	baseNode
	Name   string
	Typ    types.Type
	Offset int
	Size   int
}

// NewStack returns a Stack node bound to the given frame slot.
func NewStack(loc token.Location, name string, typ types.Type, offset, size int) *Stack {
	return &Stack{baseNode: baseNode{loc: loc}, Name: name, Typ: typ, Offset: offset, Size: size}
}

func (n *Stack) IsReference() bool { return true }

func (n *Stack) TypeCheck(ctx *Context) (types.Type, error) {
	return types.NewReference(n.Typ), nil
}

func (n *Stack) Emit(cb *compiler.CodeBuffer) error {
	cb.EmitLeaFrameOffset(int32(n.Offset + n.Size))
	return nil
}

// Dereference loads the value addressed by a reference-typed child (spec
// §4.4, "Dereference(x) requires type_of(x) = Reference(T), yields T").
type Dereference struct {
	baseNode
	Child Node
}

// NewDereference returns a Dereference node wrapping child.
func NewDereference(loc token.Location, child Node) *Dereference {
	return &Dereference{baseNode: baseNode{loc: loc}, Child: child}
}

func (n *Dereference) TypeCheck(ctx *Context) (types.Type, error) {
	t, err := n.Child.TypeCheck(ctx)
	if err != nil {
		return types.Type{}, err
	}
	if t.Kind != types.Reference {
		return types.Type{}, typeErrorf(n.loc, "cannot dereference non-reference type %s", t)
	}
	return *t.Elem, nil
}

func (n *Dereference) Emit(cb *compiler.CodeBuffer) error {
	if err := n.Child.Emit(cb); err != nil {
		return err
	}
	cb.EmitLoad()
	return nil
}
