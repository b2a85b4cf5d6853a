package ast

import (
	"unsafe"

	"github.com/mna/tinyc/lang/compiler"
	"github.com/mna/tinyc/lang/token"
	"github.com/mna/tinyc/lang/types"
)

// Integer is a literal i64 constant (spec §3).
type Integer struct {
	baseNode
	Value int64
}

// NewInteger returns an Integer node at loc holding value.
func NewInteger(loc token.Location, value int64) *Integer {
	return &Integer{baseNode: baseNode{loc: loc}, Value: value}
}

func (n *Integer) TypeCheck(ctx *Context) (types.Type, error) { return types.I64T, nil }

func (n *Integer) Emit(cb *compiler.CodeBuffer) error {
	cb.EmitMovImm64(compiler.RAX, n.Value)
	return nil
}

// ExternString is a string literal: a NUL-terminated byte sequence baked
// into a heap allocation whose address is emitted as a 64-bit immediate.
// The allocation is never freed explicitly: cb.Pinned keeps it reachable for
// the Go garbage collector for as long as the CodeBuffer (and the Program it
// produces) is alive, and once both are unreachable the collector may
// reclaim it.
type ExternString struct {
	baseNode
	Value []byte
}

// NewExternString returns an ExternString node at loc holding the decoded
// byte sequence value.
func NewExternString(loc token.Location, value []byte) *ExternString {
	return &ExternString{baseNode: baseNode{loc: loc}, Value: value}
}

func (n *ExternString) TypeCheck(ctx *Context) (types.Type, error) {
	return types.NewPointer(types.CharT), nil
}

func (n *ExternString) Emit(cb *compiler.CodeBuffer) error {
	buf := make([]byte, len(n.Value)+1)
	copy(buf, n.Value)
	cb.Pinned = append(cb.Pinned, buf)
	addr := int64(uintptr(unsafe.Pointer(&buf[0])))
	cb.EmitMovImm64(compiler.RAX, addr)
	return nil
}

// ExternFunction is a reference to a native function the host registered
// before parsing. Its address, return type and argument types came from the
// extern table at identifier-resolution time (spec §4.3).
type ExternFunction struct {
	baseNode
	Name   string
	Addr   int64
	Ret    types.Type
	Params []types.Type
}

// NewExternFunction returns an ExternFunction node referencing the named
// extern binding.
func NewExternFunction(loc token.Location, name string, b ExternBinding) *ExternFunction {
	return &ExternFunction{baseNode: baseNode{loc: loc}, Name: name, Addr: b.Addr, Ret: b.Ret, Params: b.Params}
}

func (n *ExternFunction) TypeCheck(ctx *Context) (types.Type, error) {
	return types.NewFunction(n.Ret, n.Params), nil
}

func (n *ExternFunction) Emit(cb *compiler.CodeBuffer) error {
	cb.EmitMovImm64(compiler.RAX, n.Addr)
	return nil
}
