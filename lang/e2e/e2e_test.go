// Package e2e drives the whole tinyc pipeline — lex, parse, type-check,
// emit, install into executable memory, run — against the golden source
// files in testdata/: arithmetic precedence, if/assignment, if/else, while
// loops, forward function references and two-argument calls. It is the
// teacher's golden-file pattern
// (internal/filetest) adapted from diffing printed ASTs to diffing a
// program's returned integer.
package e2e_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/tinyc/internal/filetest"
	"github.com/mna/tinyc/lang/ast"
	"github.com/mna/tinyc/lang/compiler"
	"github.com/mna/tinyc/lang/machine"
	"github.com/mna/tinyc/lang/parser"
	"github.com/stretchr/testify/require"
)

// compileAndRun lexes, parses, type-checks, emits, installs and invokes the
// "main" function of src, returning its 64-bit signed result (spec §4.6).
func compileAndRun(t *testing.T, file string, src []byte) int64 {
	t.Helper()

	pctx := ast.NewContext(machine.DefaultExterns())
	items, err := parser.New(pctx).ParseProgram(file, src)
	require.NoError(t, err)

	for _, item := range items {
		require.NoError(t, item.PreTypeCheck(pctx))
	}
	for _, item := range items {
		_, err := item.TypeCheck(pctx)
		require.NoError(t, err)
	}

	cb := compiler.NewCodeBuffer()
	for _, item := range items {
		require.NoError(t, item.Emit(cb))
	}
	require.Equal(t, 0, cb.StackSize, "compile-time stack counter leaked a push")

	prog, err := compiler.Compile(cb)
	require.NoError(t, err)

	th := machine.NewThread()
	result, err := th.Run(prog)
	require.NoError(t, err)
	return result
}

func TestGoldenPrograms(t *testing.T) {
	const dir = "testdata"
	for _, fi := range filetest.SourceFiles(t, dir, ".tc") {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			src := readFile(t, filepath.Join(dir, fi.Name()))
			result := compileAndRun(t, fi.Name(), src)
			filetest.DiffOutput(t, fi, fmt.Sprintf("%d\n", result), dir, new(bool))
		})
	}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return b
}
