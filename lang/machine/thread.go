package machine

import (
	"unsafe"

	"github.com/mna/tinyc/lang/ast"
	"github.com/mna/tinyc/lang/compiler"
)

// Thread owns the extern table a compilation unit resolves identifiers
// against and drives one compile-and-run cycle (spec §4.6, §5). It mirrors
// the teacher's Thread/RunProgram shape: a small value that owns execution
// state and exposes a single entry point, repurposed here to own the RWX
// memory lifecycle instead of a bytecode interpreter loop.
type Thread struct {
	Externs map[string]ast.ExternBinding

	// PageSize, if non-zero, rounds every RWX allocation up to a multiple of
	// it (internal/maincmd.RuntimeConfig.ExecPageSize wires this from the
	// environment). Zero allocates exactly len(prog.Code) bytes.
	PageSize int
}

// NewThread returns a Thread seeded with the default extern roster.
func NewThread() *Thread {
	return &Thread{Externs: DefaultExterns()}
}

// Context returns a fresh parsing/checking context bound to this thread's
// externs, ready to hand to lang/parser.New.
func (t *Thread) Context() *ast.Context {
	return ast.NewContext(t.Externs)
}

// Run installs prog's code into executable memory, invokes its "main" entry
// point with no arguments, and releases the mapping before returning (spec
// §4.6, §5's scoped-release-guard requirement). There is no sandboxing: the
// emitted code executes with the full privileges of this process.
func (t *Thread) Run(prog *compiler.Program) (result int64, err error) {
	size := len(prog.Code)
	if t.PageSize > 0 {
		if rem := size % t.PageSize; rem != 0 {
			size += t.PageSize - rem
		}
	}
	mem, err := allocateExecutable(size)
	if err != nil {
		return 0, err
	}
	defer func() {
		if relErr := mem.release(); relErr != nil && err == nil {
			err = relErr
		}
	}()

	copy(mem.region, prog.Code)

	base := uintptr(unsafe.Pointer(&mem.region[0]))
	result = invoke(base + uintptr(prog.MainOffset))
	return result, nil
}

// invoke casts the native code at entry to a Go function value and calls
// it, following the donor JIT's trampoline pattern (SPEC_FULL.md,
// `launix-de/memcp`'s scm-jit): a Go func value is a pointer to a word
// holding the entry PC, so a local variable holding entry, reinterpreted as
// *func() int64 and dereferenced, is exactly that shape.
func invoke(entry uintptr) int64 {
	fnval := unsafe.Pointer(entry)
	fn := *(*func() int64)(unsafe.Pointer(&fnval))
	return fn()
}
