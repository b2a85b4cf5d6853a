package compiler

// Program is the finished output of a compile: the linearized machine code
// blob, the byte offset of the "main" function's entry point within it, and
// the raw instruction list that produced it (kept for disassembly/debugging
// only — the blob is what actually gets executed).
type Program struct {
	Code       []byte
	MainOffset int
	Buffer     *CodeBuffer
}

// Compile finalizes the code buffer the emitter has been appending to and
// locates the entry point named "main", returning the artifact lang/machine
// installs into executable memory and invokes (spec §4.6).
func Compile(cb *CodeBuffer) (*Program, error) {
	if cb.StackSize != 0 {
		panic("compiler: stack counter is non-zero at top-level end, a push was leaked")
	}
	entry, ok := cb.FunctionLabel("main")
	if !ok {
		panic("compiler: no function named main")
	}

	blob, err := cb.Finalize()
	if err != nil {
		return nil, err
	}
	mainPos := cb.Instructions[entry].Pos()
	return &Program{Code: blob, MainOffset: mainPos, Buffer: cb}, nil
}
