package machine_test

import (
	"testing"

	"github.com/mna/tinyc/lang/compiler"
	"github.com/mna/tinyc/lang/machine"
	"github.com/mna/tinyc/lang/types"
	"github.com/stretchr/testify/require"
)

func TestDefaultExternsRoster(t *testing.T) {
	externs := machine.DefaultExterns()
	require.Contains(t, externs, "print")
	require.Contains(t, externs, "to_string")
	require.Contains(t, externs, "bp")

	require.True(t, externs["print"].Ret.Equal(types.NoneT))
	require.True(t, externs["to_string"].Ret.Equal(types.NewPointer(types.CharT)))
	require.Empty(t, externs["bp"].Params)

	for name, b := range externs {
		require.NotZero(t, b.Addr, "extern %s has no resolved address", name)
	}
}

func TestLoadExternManifestMergesWithBase(t *testing.T) {
	doc := []byte(`
externs:
  - name: abort
    ret: none
    params: []
  - name: add2
    ret: i64
    params: [i64, i64]
`)
	addrs := map[string]int64{"abort": 0x1000, "add2": 0x2000}
	merged, err := machine.LoadExternManifest(doc, addrs, machine.DefaultExterns())
	require.NoError(t, err)

	require.Contains(t, merged, "print") // base roster preserved
	require.Equal(t, int64(0x1000), merged["abort"].Addr)
	require.Len(t, merged["add2"].Params, 2)
	require.True(t, merged["add2"].Params[0].Equal(types.I64T))
}

func TestLoadExternManifestMissingAddressFails(t *testing.T) {
	doc := []byte(`
externs:
  - name: mystery
    ret: none
    params: []
`)
	_, err := machine.LoadExternManifest(doc, nil, machine.DefaultExterns())
	require.Error(t, err)
}

func TestThreadRunExecutesCompiledMain(t *testing.T) {
	cb := compiler.NewCodeBuffer()
	entry := cb.EmitFunctionPrologue(0)
	cb.DeclareFunctionLabel("main", entry)
	cb.EmitMovImm64(compiler.RAX, 42)
	cb.EmitReturn()

	prog, err := compiler.Compile(cb)
	require.NoError(t, err)

	th := machine.NewThread()
	result, err := th.Run(prog)
	require.NoError(t, err)
	require.Equal(t, int64(42), result)
}
