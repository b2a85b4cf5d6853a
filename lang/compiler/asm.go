package compiler

import (
	"fmt"
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// Disassemble decodes a finalized byte blob back into an x86-64 instruction
// listing, one mnemonic per line prefixed with its byte offset. It is used
// by the `--print-asm` CLI flag and by tests that assert the emitter
// produced the intended instructions, the way mewmew-x/x's x86 lifter
// decodes machine code with x86asm.Decode for inspection.
func Disassemble(code []byte) (string, error) {
	var sb strings.Builder
	for off := 0; off < len(code); {
		inst, err := x86asm.Decode(code[off:], 64)
		if err != nil {
			return sb.String(), fmt.Errorf("disassemble at offset %d: %w", off, err)
		}
		fmt.Fprintf(&sb, "%04x: %s\n", off, x86asm.GNUSyntax(inst, uint64(off), nil))
		off += inst.Len
	}
	return sb.String(), nil
}

// DisassembleProgram is like Disassemble but prefixes each declared
// function's entry point with a "name:" label line, the way an objdump-
// style tool annotates symbols. Function names are visited in sorted order
// (CodeBuffer.FunctionNames) so the listing is reproducible across runs
// despite funcLabels being a plain map internally.
func DisassembleProgram(prog *Program) (string, error) {
	byPos := make(map[int]string, len(prog.Buffer.funcLabels))
	for _, name := range prog.Buffer.FunctionNames() {
		idx := prog.Buffer.funcLabels[name]
		byPos[prog.Buffer.Instructions[idx].Pos()] = name
	}

	var sb strings.Builder
	for off := 0; off < len(prog.Code); {
		if name, ok := byPos[off]; ok {
			fmt.Fprintf(&sb, "%s:\n", name)
		}
		inst, err := x86asm.Decode(prog.Code[off:], 64)
		if err != nil {
			return sb.String(), fmt.Errorf("disassemble at offset %d: %w", off, err)
		}
		fmt.Fprintf(&sb, "%04x: %s\n", off, x86asm.GNUSyntax(inst, uint64(off), nil))
		off += inst.Len
	}
	return sb.String(), nil
}
