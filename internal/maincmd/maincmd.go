// Package maincmd wires tinyc's CLI: flag parsing, command dispatch and
// stdio plumbing, grounded on the teacher's mainer.Cmd shape.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "tinyc"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> <path>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> <path>
       %[1]s -h|--help
       %[1]s -v|--version

Compiler and runner for the tinyc programming language.

The <command> can be one of:
       compile                   Compile and run the program, printing the
                                  64-bit signed return value of main (default).
       tokenize                  Run the lexer phase only and print the
                                  resulting token stream.
       parse                     Run the lexer and parser phases and print
                                  the resulting program tree.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --print-asm               Disassemble the emitted machine code to
                                  stderr before running it.
       --externs PATH            Load an additional externs.yaml manifest
                                  merged with the default print/to_string/bp
                                  roster.

Environment variables (see internal/maincmd.RuntimeConfig, prefix TINYC_)
override the defaults for flags not explicitly passed.
`, binName)
)

// Cmd is the top-level command, populated by mainer.Parser from flags and
// (for RuntimeConfig) the environment.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	PrintAsm    bool   `flag:"print-asm"`
	ExternsYAML string `flag:"externs"`

	args  []string
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string)          { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	cmdName := "compile"
	rest := c.args
	if len(c.args) > 0 {
		if _, isCmd := commandNames[c.args[0]]; isCmd {
			cmdName = c.args[0]
			rest = c.args[1:]
		}
	}

	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}
	if len(rest) == 0 {
		return errors.New("a source file path is required")
	}
	c.args = rest
	return nil
}

var commandNames = map[string]bool{"compile": true, "tokenize": true, "parse": true}

// Main is tinyc's entry point, called by cmd/tinyc/main.go.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   true,
		EnvPrefix: strings.ToUpper(binName) + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args); err != nil {
		return mainer.Failure
	}
	return mainer.Success
}

// buildCmds collects every method on v shaped like a subcommand handler:
// func(context.Context, mainer.Stdio, []string) error, keyed by lowercased
// method name.
func buildCmds(v any) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}

// readSource reads the one source file path a command accepts and returns
// its contents alongside the file name recorded in every token.Location.
func readSource(args []string) (file string, src []byte, err error) {
	if len(args) != 1 {
		return "", nil, fmt.Errorf("exactly one source file path is required, got %d", len(args))
	}
	file = args[0]
	src, err = os.ReadFile(file)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", file, err)
	}
	return file, src, nil
}
