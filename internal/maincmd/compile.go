package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/tinyc/lang/ast"
	"github.com/mna/tinyc/lang/compiler"
	"github.com/mna/tinyc/lang/machine"
	"github.com/mna/tinyc/lang/parser"
)

// Compile drives the full pipeline spec §4.6 and §5 describe: lex, parse,
// pre-type-check, type-check, emit, finalize, install into executable
// memory, invoke "main", release the mapping, print the result. This is
// tinyc's default command.
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	file, src, err := readSource(args)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	cfg, err := LoadRuntimeConfig()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	externs, err := c.loadExterns()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	th := machine.NewThread()
	th.Externs = externs
	th.PageSize = cfg.ExecPageSize

	pctx := th.Context()
	pctx.SetMaxArgs(cfg.MaxCallArgs)

	prog, err := compileProgram(pctx, file, src)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	if c.PrintAsm || cfg.VerboseAsm {
		text, dErr := compiler.DisassembleProgram(prog)
		if dErr != nil {
			fmt.Fprintf(stdio.Stderr, "disassembly: %s\n", dErr)
		} else {
			fmt.Fprint(stdio.Stderr, text)
		}
	}

	result, err := th.Run(prog)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	fmt.Fprintln(stdio.Stdout, result)
	return nil
}

// compileProgram runs every phase strictly in the order spec §5 requires:
// parse (which may invoke TypeCheck on variable initializers as it goes) <
// pre_type_check < type_check < emit < finalize.
func compileProgram(pctx *ast.Context, file string, src []byte) (*compiler.Program, error) {
	items, err := parser.New(pctx).ParseProgram(file, src)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := item.PreTypeCheck(pctx); err != nil {
			return nil, err
		}
	}
	for _, item := range items {
		if _, err := item.TypeCheck(pctx); err != nil {
			return nil, err
		}
	}

	cb := compiler.NewCodeBuffer()
	for _, item := range items {
		if err := item.Emit(cb); err != nil {
			return nil, err
		}
	}

	return compiler.Compile(cb)
}
