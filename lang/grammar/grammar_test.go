// Package grammar holds tinyc's grammar as an EBNF document and a test that
// verifies it is well-formed: every production reachable from Program is
// defined, and every defined production is reachable (spec §6, "Source
// language grammar"), grounded on the teacher's own lang/grammar package,
// which checks its language's grammar the same way.
package grammar

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

func TestEBNF(t *testing.T) {
	f, err := os.Open("grammar.ebnf")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := ebnf.Parse("grammar.ebnf", f)
	if err != nil {
		t.Fatal(err)
	}
	if err := ebnf.Verify(g, "Program"); err != nil {
		t.Fatal(err)
	}
}
