package maincmd

import (
	"context"
	"fmt"

	"github.com/kylelemons/godebug/pretty"
	"github.com/mna/mainer"
	"github.com/mna/tinyc/lang/lexer"
)

// Tokenize runs the lexer phase only, printing each token's location, kind
// and decoded value (spec §4.1).
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	file, src, err := readSource(args)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	toks, err := lexer.ScanAll(file, src)
	for _, tv := range toks {
		fmt.Fprintf(stdio.Stdout, "%s: %s", tv.Loc, tv.Token)
		switch {
		case tv.Value.String != nil:
			fmt.Fprintf(stdio.Stdout, " %s", pretty.Sprint(tv.Value.String))
		case tv.Value.Raw != "":
			fmt.Fprintf(stdio.Stdout, " %s", tv.Value.Raw)
		}
		fmt.Fprintln(stdio.Stdout)
	}
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
	}
	return err
}
