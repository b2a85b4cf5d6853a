// Package ast defines tinyc's program-tree node family (spec §3). Each node
// kind is a small struct that knows how to check its own type and emit its
// own x86-64 bytes: there is no separate visitor or resolver pass walking
// the tree from outside, the tree walks itself.
package ast

import (
	"github.com/mna/tinyc/lang/compiler"
	"github.com/mna/tinyc/lang/token"
	"github.com/mna/tinyc/lang/types"
)

// Node is the operation set spec §3 requires of every program-tree node:
// pre_type_check, type_check, emit, and is_reference.
type Node interface {
	// Loc returns the node's originating source location, used to prefix
	// error messages.
	Loc() token.Location

	// IsReference reports whether this node denotes the address of storage
	// (an lvalue) rather than a loaded value. Only Stack nodes return true;
	// every other kind inherits the default of false from baseNode.
	IsReference() bool

	// PreTypeCheck runs the declaration-collection pass (spec §4.4's first
	// phase): Function overrides it to register its signature in the
	// declared-function table before any call site is type-checked, and
	// Scope, IfStatement and WhileStatement override it to recurse into the
	// bodies they hold.
	PreTypeCheck(ctx *Context) error

	// TypeCheck runs the second pass, returning this node's type or the first
	// type error encountered.
	TypeCheck(ctx *Context) (types.Type, error)

	// Emit appends this node's x86-64 byte sequence to cb.
	Emit(cb *compiler.CodeBuffer) error
}

// baseNode supplies the defaults most node kinds share: a location and a
// false IsReference/no-op PreTypeCheck. Concrete node types embed it and
// override only what differs.
type baseNode struct {
	loc token.Location
}

func (b baseNode) Loc() token.Location             { return b.loc }
func (b baseNode) IsReference() bool               { return false }
func (b baseNode) PreTypeCheck(ctx *Context) error { return nil }
