package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/kylelemons/godebug/pretty"
	"github.com/mna/mainer"
	"github.com/mna/tinyc/lang/ast"
	"github.com/mna/tinyc/lang/machine"
	"github.com/mna/tinyc/lang/parser"
)

// Parse runs the lexer and statement/expression parser phases and prints the
// resulting program tree (spec §3, "Program-tree node"), one item per line
// using a readable diff-friendly rendering (SPEC_FULL.md, godebug/pretty).
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	file, src, err := readSource(args)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	externs, err := c.loadExterns()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	pctx := ast.NewContext(externs)
	items, err := parser.New(pctx).ParseProgram(file, src)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	for _, item := range items {
		fmt.Fprintln(stdio.Stdout, pretty.Sprint(item))
	}
	return nil
}

// loadExterns returns the default extern roster, merged with the manifest at
// c.ExternsYAML when one is set. The manifest can only describe externs
// whose address the running binary already knows (the built-ins); a host
// that wants to register a genuinely new native function does so through
// lang/machine's Go API, not this CLI (spec §1, "externs... the core
// consumes them as opaque (function-pointer, signature) pairs").
func (c *Cmd) loadExterns() (map[string]ast.ExternBinding, error) {
	base := machine.DefaultExterns()
	if c.ExternsYAML == "" {
		return base, nil
	}
	doc, err := os.ReadFile(c.ExternsYAML)
	if err != nil {
		return nil, fmt.Errorf("reading externs manifest %s: %w", c.ExternsYAML, err)
	}
	addrs := make(map[string]int64, len(base))
	for name, b := range base {
		addrs[name] = b.Addr
	}
	return machine.LoadExternManifest(doc, addrs, base)
}
