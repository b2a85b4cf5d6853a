package compiler

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// pendingCall is a late-bound reference to an intra-unit function: the
// Relative node at InstrIndex emitted a `lea rax, [rip + disp32]` whose
// displacement cannot be computed until every function has been emitted and
// assigned an entry label (spec §3, "Each Relative node records a 4-byte
// pending displacement that must be resolved before the buffer is
// linearized").
type pendingCall struct {
	FuncName   string
	InstrIndex int
}

// CodeBuffer is the code generator's output: an ordered list of
// Instructions, the compile-time push/pop stack-depth counter used for
// call-site alignment, the list of pending late-bound function references,
// and the map from function name to its entry instruction index.
type CodeBuffer struct {
	Instructions []*Instruction

	// StackSize tracks the net bytes pushed by explicit Push/Pop calls since
	// the last time it returned to zero. It does NOT include the frame-size
	// adjustment a function prologue's `sub rsp, frame_size` makes; call
	// sites use it to compute how many bytes of padding restore 16-byte
	// alignment (spec §4.5, "Call-site alignment").
	StackSize int

	// Pinned holds the backing arrays of every string literal emitted so far.
	// ExternString.Emit appends to it so the Go garbage collector cannot
	// reclaim an allocation whose only live reference is a raw address baked
	// into machine code as an immediate. The allocations live as long as
	// this CodeBuffer does; nothing frees them earlier.
	Pinned [][]byte

	pendingCalls []pendingCall
	funcLabels   map[string]int
}

// NewCodeBuffer returns an empty code buffer ready to accept emitted
// instructions.
func NewCodeBuffer() *CodeBuffer {
	return &CodeBuffer{funcLabels: make(map[string]int)}
}

// Label returns the index that the next call to emit will assign to the
// instruction it appends. Used to record jump targets (the "position" a
// branch should land on) before the target instruction exists yet.
func (cb *CodeBuffer) Label() int { return len(cb.Instructions) }

// emit appends a new instruction holding the given bytes and returns its
// index (to be used as a jump/call target or patched later).
func (cb *CodeBuffer) emit(bytes []byte) int {
	idx := len(cb.Instructions)
	cb.Instructions = append(cb.Instructions, &Instruction{Bytes: bytes})
	return idx
}

// emitPending appends an instruction whose trailing 4 bytes are a
// placeholder relative displacement to label. The displacement is written
// during Finalize; until then the target can be set with PatchTarget.
func (cb *CodeBuffer) emitPending(bytes []byte, label int) int {
	idx := cb.emit(bytes)
	cb.Instructions[idx].pending = &pendingTarget{label: label, width: 4}
	return idx
}

// PatchTarget sets the jump/call target of the instruction at instrIdx
// (previously emitted with an unresolved placeholder) to label.
func (cb *CodeBuffer) PatchTarget(instrIdx, label int) {
	in := cb.Instructions[instrIdx]
	if in.pending == nil {
		panic("compiler: PatchTarget called on an instruction with no pending target")
	}
	in.pending.label = label
}

// DeclareFunctionLabel records that function name's entry point is the
// instruction at the given index. Must be called once per function, before
// Finalize.
func (cb *CodeBuffer) DeclareFunctionLabel(name string, index int) {
	cb.funcLabels[name] = index
}

// FunctionLabel looks up a previously declared function's entry instruction
// index.
func (cb *CodeBuffer) FunctionLabel(name string) (int, bool) {
	idx, ok := cb.funcLabels[name]
	return idx, ok
}

// FunctionNames returns every declared function's name, sorted, for
// deterministic iteration over cb.funcLabels in debug output (the
// disassembly listing annotates entry points by name; map iteration order
// is otherwise random, which would make golden-file tests flaky).
func (cb *CodeBuffer) FunctionNames() []string {
	names := maps.Keys(cb.funcLabels)
	slices.Sort(names)
	return names
}

// PendingCallCount reports how many late-bound function references have been
// recorded with AddPendingCall. Finalize resolves them without removing them,
// so it does not change the count. Used by tests asserting every Relative node registered
// exactly one pending call.
func (cb *CodeBuffer) PendingCallCount() int {
	return len(cb.pendingCalls)
}

// AddPendingCall records a late-bound reference emitted by a Relative node:
// the instruction at instrIndex ends with a placeholder disp32 that must
// resolve to funcName's entry label once every function has been emitted.
func (cb *CodeBuffer) AddPendingCall(funcName string, instrIndex int) {
	cb.pendingCalls = append(cb.pendingCalls, pendingCall{FuncName: funcName, InstrIndex: instrIndex})
	cb.Instructions[instrIndex].pending = &pendingTarget{label: -1, width: 4}
}

// LinkError reports that a pending reference to a function could not be
// resolved because that function was never defined in this compilation
// unit (spec §7).
type LinkError struct {
	FuncName string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("undefined function referenced: %s", e.FuncName)
}

// Finalize resolves every pending call, assigns each instruction its byte
// position, patches every pending relative displacement, and concatenates
// the instructions into one contiguous byte blob (spec §4.5, "Finalization
// of the code buffer").
func (cb *CodeBuffer) Finalize() ([]byte, error) {
	for _, pc := range cb.pendingCalls {
		target, ok := cb.funcLabels[pc.FuncName]
		if !ok {
			return nil, &LinkError{FuncName: pc.FuncName}
		}
		cb.Instructions[pc.InstrIndex].pending.label = target
	}

	pos := 0
	for _, in := range cb.Instructions {
		in.pos = pos
		pos += len(in.Bytes)
	}

	for _, in := range cb.Instructions {
		if in.pending == nil {
			continue
		}
		target := cb.Instructions[in.pending.label]
		end := in.pos + len(in.Bytes)
		disp := int32(target.pos - end)
		n := len(in.Bytes)
		in.Bytes[n-4] = byte(disp)
		in.Bytes[n-3] = byte(disp >> 8)
		in.Bytes[n-2] = byte(disp >> 16)
		in.Bytes[n-1] = byte(disp >> 24)
	}

	blob := make([]byte, pos)
	off := 0
	for _, in := range cb.Instructions {
		off += copy(blob[off:], in.Bytes)
	}
	return blob, nil
}
