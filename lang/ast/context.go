package ast

import (
	"fmt"

	"github.com/dolthub/swiss"

	"github.com/mna/tinyc/lang/token"
	"github.com/mna/tinyc/lang/types"
)

// ExternBinding is a native function the host registered with the compiler
// before parsing: an opaque (address, signature) pair (spec §3, "Extern
// table").
type ExternBinding struct {
	Addr   int64
	Ret    types.Type
	Params []types.Type
}

// FuncSig is the signature of a function declared in this compilation unit,
// recorded by the pre_type_check pass (spec §3, "Declared-function table").
type FuncSig struct {
	Ret    types.Type
	Params []types.Type
}

// localVar is one binding in a Frame: the variable's type and the byte
// offset/size of its stack slot.
type localVar struct {
	typ    types.Type
	offset int
	size   int
}

// Frame is a single function's scope: a flat hash table from name to local
// variable plus the running bump-allocator offset used to lay out slots in
// declaration order (spec §3, "Scope frame (per function)"). tinyc has a
// single frame per function; block scoping is not implemented (spec §9).
//
// The lookup table is a dolthub/swiss open-addressing map rather than a
// plain Go map: this is the hottest name-resolution path in the front end
// (every identifier use in every expression probes it), the same
// justification the teacher's own machine.Map gives for using swiss over
// the builtin map (SPEC_FULL.md §2).
type Frame struct {
	vars          *swiss.Map[string, localVar]
	currentOffset int
}

func newFrame() *Frame {
	return &Frame{vars: swiss.NewMap[string, localVar](8)}
}

// Alloc reserves size bytes in the frame for a new local and returns the
// offset to record on its Stack node (spec §4.5: the node's emitted address
// is `[rbp - (offset + size)]`).
func (f *Frame) Alloc(size int) int {
	offset := f.currentOffset
	f.currentOffset += size
	return offset
}

// Bind records name as bound to a slot of the given type/offset/size.
func (f *Frame) Bind(name string, typ types.Type, offset, size int) {
	f.vars.Put(name, localVar{typ: typ, offset: offset, size: size})
}

func (f *Frame) lookup(name string) (localVar, bool) {
	return f.vars.Get(name)
}

// Size rounds the frame's total local storage up to a multiple of 16, the
// function prologue's frame size (spec §3 invariant, "Frame sizes are
// rounded up to a multiple of 16").
func (f *Frame) Size() int {
	n := f.currentOffset
	if rem := n % 16; rem != 0 {
		n += 16 - rem
	}
	return n
}

// Context is the parsing/checking context threaded through the front end: a
// stack of per-function frames, the host-provided extern table, and the
// declared-function table built by the pre_type_check pass (spec §2,
// "Parsing context"). The extern and declared-function tables are also
// swiss.Map-backed for the same reason as Frame above; NewContext and
// DeclareFunction take/return plain Go maps and structs at the boundary so
// callers (lang/machine, lang/parser) never need to import dolthub/swiss
// themselves.
type Context struct {
	externs  *swiss.Map[string, ExternBinding]
	declared *swiss.Map[string, FuncSig]

	frames  []*Frame
	maxArgs int
}

// NewContext returns a context seeded with the given extern table. The call
// arity limit defaults to the emitter's hard backstop of two arguments
// (spec §1, "At most two arguments per call"); SetMaxArgs may only lower it
// further, since the emitter's argument-register table has exactly two
// entries (ast.maxCallArgs, lang/ast/call.go).
func NewContext(externs map[string]ExternBinding) *Context {
	m := swiss.NewMap[string, ExternBinding](uint32(len(externs)))
	for k, v := range externs {
		m.Put(k, v)
	}
	return &Context{
		externs:  m,
		declared: swiss.NewMap[string, FuncSig](8),
		maxArgs:  maxCallArgs,
	}
}

// SetMaxArgs lowers the number of arguments a call site or function
// definition may declare, for hosts that want a stricter limit than the
// emitter's own two-argument ceiling (internal/maincmd.RuntimeConfig.
// MaxCallArgs wires this from the environment). Values <= 0 or above the
// emitter's ceiling are ignored.
func (c *Context) SetMaxArgs(n int) {
	if n > 0 && n <= maxCallArgs {
		c.maxArgs = n
	}
}

// MaxArgs returns the current call arity limit, checked by CallStatement
// and Function against their argument/parameter counts.
func (c *Context) MaxArgs() int {
	return c.maxArgs
}

// Extern looks up name in the host-provided extern table (spec §4.3
// identifier resolution, step 1).
func (c *Context) Extern(name string) (ExternBinding, bool) {
	return c.externs.Get(name)
}

// PushFrame enters a new function scope.
func (c *Context) PushFrame() *Frame {
	f := newFrame()
	c.frames = append(c.frames, f)
	return f
}

// PopFrame exits the current function scope and returns it (so the caller
// can read its final Size()).
func (c *Context) PopFrame() *Frame {
	f := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	return f
}

// CurrentFrame returns the innermost active frame, or nil at top level.
func (c *Context) CurrentFrame() *Frame {
	if len(c.frames) == 0 {
		return nil
	}
	return c.frames[len(c.frames)-1]
}

// LookupLocal looks up name in the current function's frame only (tinyc has
// no nested block scopes and no closures, spec §9).
func (c *Context) LookupLocal(name string) (typ types.Type, offset, size int, ok bool) {
	f := c.CurrentFrame()
	if f == nil {
		return types.Type{}, 0, 0, false
	}
	v, ok := f.lookup(name)
	if !ok {
		return types.Type{}, 0, 0, false
	}
	return v.typ, v.offset, v.size, true
}

// DeclareFunction registers name's signature in the declared-function table.
func (c *Context) DeclareFunction(name string, sig FuncSig) {
	c.declared.Put(name, sig)
}

// LookupDeclared looks up a function declared somewhere in this compilation
// unit, populated by the pre_type_check pass over the top-level scope (spec
// §4.4, "declared-function table").
func (c *Context) LookupDeclared(name string) (FuncSig, bool) {
	return c.declared.Get(name)
}

// TypeError is a type-checking failure carrying the source location it was
// detected at (spec §7).
type TypeError struct {
	Loc token.Location
	Msg string
}

func (e *TypeError) Error() string {
	if loc := e.Loc.String(); loc != "" {
		return loc + ": " + e.Msg
	}
	return e.Msg
}

func typeErrorf(loc token.Location, format string, args ...any) error {
	return &TypeError{Loc: loc, Msg: fmt.Sprintf(format, args...)}
}
