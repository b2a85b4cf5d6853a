package lexer

import "strconv"

// parseInt decodes a decimal integer literal. The lexer's grammar only ever
// feeds it a non-empty run of ASCII digits (spec §6: "integers are base-10
// non-negative literals"), so the only failure mode is range overflow.
func parseInt(lit string) (int64, error) {
	return strconv.ParseInt(lit, 10, 64)
}
