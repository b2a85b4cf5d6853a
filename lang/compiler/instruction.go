// Package compiler implements tinyc's code buffer: an ordered list of raw
// x86-64 instruction byte sequences with pending relative-displacement
// patches, plus the finalization pass that linearizes it into one
// contiguous, directly executable byte blob (spec §3, §4.5).
package compiler

import "fmt"

// pendingTarget records that the last 4 bytes of an Instruction's Bytes are
// a placeholder for a 32-bit relative displacement to another instruction,
// identified by its index in the owning CodeBuffer. The displacement is
// computed and written in during Finalize.
type pendingTarget struct {
	label int // index into CodeBuffer.Instructions of the target instruction
	width int // displacement width in bytes; always 4 in this core
}

// Instruction is one entry in the code buffer: a mutable byte vector holding
// an opcode, its immediate operands, and (for control-flow and call
// instructions) a placeholder relative displacement, plus an optional
// pending target describing how to resolve that placeholder, and the byte
// position this instruction is assigned once the buffer is linearized.
type Instruction struct {
	Bytes   []byte
	pending *pendingTarget
	pos     int // valid only after Finalize has run
}

// Pos returns the instruction's byte offset within the finalized buffer. It
// must only be called after Finalize.
func (in *Instruction) Pos() int { return in.pos }

func (in *Instruction) String() string {
	return fmt.Sprintf("% x", in.Bytes)
}
