package parser

import (
	"github.com/mna/tinyc/lang/ast"
	"github.com/mna/tinyc/lang/token"
)

// opInfo describes one binary operator's precedence-climbing entry: its
// ast.BinaryOp, binding precedence, and whether it is the assignment
// operator (which keeps its left operand a raw reference instead of
// coercing it to a value; spec §4.3's "L-value / R-value coercion").
type opInfo struct {
	op       ast.BinaryOp
	prec     int
	isAssign bool
}

// binOps is spec §4.3's precedence table, low to high: `=` (0), `&&`/`||`
// (1), `==`/`!=` (2), `+`/`-`/`%` (3), `*`/`/` (4).
var binOps = map[token.Token]opInfo{
	token.EQ:       {ast.Assign, 0, true},
	token.AMPAMP:   {ast.And, 1, false},
	token.PIPEPIPE: {ast.Or, 1, false},
	token.EQEQ:     {ast.Eq, 2, false},
	token.NEQ:      {ast.Neq, 2, false},
	token.PLUS:     {ast.Add, 3, false},
	token.MINUS:    {ast.Sub, 3, false},
	token.PERCENT:  {ast.Mod, 3, false},
	token.STAR:     {ast.Mul, 4, false},
	token.SLASH:    {ast.Div, 4, false},
}

// coerce wraps n in Dereference if it reports IsReference (spec §4.3).
func (p *Parser) coerce(n ast.Node) ast.Node {
	if n.IsReference() {
		return ast.NewDereference(n.Loc(), n)
	}
	return n
}

// parseValue parses an expression at the given minimum precedence and
// coerces the result to a value. Use this at every consumption point that
// is not an assignment's left-hand side: return values, conditions, call
// arguments, variable initializers.
func (p *Parser) parseValue(minPrec int) (ast.Node, error) {
	n, err := p.parseExpr(minPrec)
	if err != nil {
		return nil, err
	}
	return p.coerce(n), nil
}

// parseExpr is the precedence-climbing core (spec §4.3). Binary operators
// parse their right operand at precedence+1, so a chain of operators of equal
// precedence groups to the left (`10 - 3 - 2` is `(10 - 3) - 2`). Assignment
// parses its right operand at its own precedence and so groups to the right.
func (p *Parser) parseExpr(minPrec int) (ast.Node, error) {
	lhs, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		info, ok := binOps[p.tok]
		if !ok || info.prec < minPrec {
			break
		}
		loc := p.loc
		p.advance()

		if !info.isAssign {
			lhs = p.coerce(lhs)
		}
		next := info.prec + 1
		if info.isAssign {
			next = info.prec
		}
		rhs, err := p.parseExpr(next)
		if err != nil {
			return nil, err
		}
		rhs = p.coerce(rhs)
		lhs = ast.NewBinaryOperation(loc, info.op, lhs, rhs)
	}
	return lhs, nil
}

// parsePrefix handles the supplemented unary operators (spec §9's
// "Unimplemented keywords" extension-point note; grounded on the donor
// source, see SPEC_FULL.md) before falling through to a primary value.
func (p *Parser) parsePrefix() (ast.Node, error) {
	switch p.tok {
	case token.MINUS:
		loc := p.loc
		p.advance()
		child, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOperation(loc, ast.Negate, p.coerce(child)), nil
	case token.BANG:
		loc := p.loc
		p.advance()
		child, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOperation(loc, ast.Not, p.coerce(child)), nil
	default:
		return p.parseCallChain()
	}
}

// parseCallChain parses a primary value followed by zero or more call
// argument lists (spec §4.3, "After parsing a value, a `(` immediately
// following it starts a call").
func (p *Parser) parseCallChain() (ast.Node, error) {
	prim, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.tok == token.LPAREN {
		loc := p.loc
		callee := p.coerce(prim)
		args, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		prim = ast.NewCallStatement(loc, callee, args)
	}
	return prim, nil
}

func (p *Parser) parseArgList() ([]ast.Node, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Node
	for p.tok != token.RPAREN {
		arg, err := p.parseValue(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.tok == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// parsePrimary parses a parenthesized sub-expression, an identifier, an
// integer literal, or a string literal (spec §4.3, "A value is one of").
func (p *Parser) parsePrimary() (ast.Node, error) {
	switch p.tok {
	case token.LPAREN:
		p.advance()
		inner, err := p.parseValue(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil

	case token.INT:
		loc, v := p.loc, p.val
		p.advance()
		return ast.NewInteger(loc, v.Int), nil

	case token.STRING:
		loc, v := p.loc, p.val
		p.advance()
		return ast.NewExternString(loc, v.String), nil

	case token.IDENT:
		loc, name := p.loc, p.val.Raw
		p.advance()
		return p.resolveIdent(loc, name), nil

	default:
		return nil, p.errorf("expected a value, found %s", p.tok.GoString())
	}
}

// resolveIdent implements spec §4.3's identifier-resolution order: extern,
// then local variable, then a pending intra-unit function reference.
func (p *Parser) resolveIdent(loc token.Location, name string) ast.Node {
	if b, ok := p.ctx.Extern(name); ok {
		return ast.NewExternFunction(loc, name, b)
	}
	if typ, offset, size, ok := p.ctx.LookupLocal(name); ok {
		return ast.NewStack(loc, name, typ, offset, size)
	}
	return ast.NewRelative(loc, name)
}
