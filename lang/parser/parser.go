// Package parser implements tinyc's statement parser and precedence-climbing
// expression parser (spec §4.2, §4.3): a linear, backtracking-free top-down
// descent over the token stream produced by lang/lexer, consuming
// lang/ast.Context for name resolution and building lang/ast node trees.
//
// Unlike the scanner/parser pair this core is descended from, every parse
// method here returns an error instead of panicking into a recovery point:
// spec §5 and §7 require fail-fast, single-error compilation with no partial
// results, so there is nothing to recover into.
package parser

import (
	"fmt"

	"github.com/mna/tinyc/lang/ast"
	"github.com/mna/tinyc/lang/lexer"
	"github.com/mna/tinyc/lang/token"
	"github.com/mna/tinyc/lang/types"
)

// ParseError is a syntax-level failure: an unexpected or missing token (spec
// §7, "ParseError").
type ParseError struct {
	Loc token.Location
	Msg string
}

func (e *ParseError) Error() string {
	if loc := e.Loc.String(); loc != "" {
		return loc + ": " + e.Msg
	}
	return e.Msg
}

// Parser turns a token stream into a slice of top-level ast.Node (functions
// and bare statements), threading name resolution through ctx.
type Parser struct {
	lex *lexer.Lexer
	ctx *ast.Context

	tok token.Token
	loc token.Location
	val token.Value
}

// New returns a parser that resolves identifiers against ctx (its extern
// table must already be populated; spec §3, "Extern table... Populated
// before parsing by the driver").
func New(ctx *ast.Context) *Parser {
	return &Parser{ctx: ctx, lex: &lexer.Lexer{}}
}

// ParseProgram lexes and parses the whole of src, returning the top-level
// items (functions and bare statements) in source order.
func (p *Parser) ParseProgram(file string, src []byte) ([]ast.Node, error) {
	var lexErrs token.ErrorList
	p.lex.Init(file, src, lexErrs.Add)
	p.advance()
	if err := lexErrs.Err(); err != nil {
		return nil, err
	}

	var items []ast.Node
	for p.tok != token.EOF {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		if err := lexErrs.Err(); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (p *Parser) advance() {
	p.tok, p.loc, p.val = p.lex.Scan()
}

func (p *Parser) expect(tok token.Token) (token.Location, error) {
	if p.tok != tok {
		return token.Location{}, p.errorExpectedf(tok)
	}
	loc := p.loc
	p.advance()
	return loc, nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{Loc: p.loc, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) errorExpectedf(want token.Token) error {
	return &ParseError{Loc: p.loc, Msg: fmt.Sprintf("expected %s, found %s", want.GoString(), p.tok.GoString())}
}

// parseItem dispatches to the first statement/definition rule that matches
// the current leading token (spec §4.2).
func (p *Parser) parseItem() (ast.Node, error) {
	switch p.tok {
	case token.RETURN:
		return p.parseReturn()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.MUT, token.IMM:
		return p.parseVarDecl()
	case token.FN:
		return p.parseFunction()
	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) parseReturn() (ast.Node, error) {
	loc, err := p.expect(token.RETURN)
	if err != nil {
		return nil, err
	}
	value, err := p.parseValue(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return ast.NewReturnStatement(loc, value), nil
}

func (p *Parser) parseIf() (ast.Node, error) {
	loc, err := p.expect(token.IF)
	if err != nil {
		return nil, err
	}
	cond, err := p.parseValue(0)
	if err != nil {
		return nil, err
	}
	then, err := p.parseScopeBlock()
	if err != nil {
		return nil, err
	}
	var els *ast.Scope
	if p.tok == token.ELSE {
		p.advance()
		els, err = p.parseScopeBlock()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIfStatement(loc, cond, then, els), nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	loc, err := p.expect(token.WHILE)
	if err != nil {
		return nil, err
	}
	cond, err := p.parseValue(0)
	if err != nil {
		return nil, err
	}
	body, err := p.parseScopeBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileStatement(loc, cond, body), nil
}

// parseScopeBlock consumes a balanced `{ … }` pair and parses its contents
// as a sequence of items (spec §4.2, "pop_scope").
func (p *Parser) parseScopeBlock() (*ast.Scope, error) {
	loc, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	var body []ast.Node
	for p.tok != token.RBRACE {
		if p.tok == token.EOF {
			return nil, p.errorf("unexpected end of file, expected %s", token.RBRACE.GoString())
		}
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		body = append(body, item)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return ast.NewScope(loc, body), nil
}

// parseVarDecl implements `(mut|imm) NAME = EXPR ;`: the initializer is
// type-checked immediately to size its frame slot (spec §4.2's acknowledged
// parser/checker layering; see SPEC_FULL.md).
func (p *Parser) parseVarDecl() (ast.Node, error) {
	loc := p.loc
	p.advance() // mut | imm
	if p.tok != token.IDENT {
		return nil, p.errorExpectedf(token.IDENT)
	}
	name := p.val.Raw
	p.advance()
	if _, err := p.expect(token.EQ); err != nil {
		return nil, err
	}
	value, err := p.parseValue(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}

	vt, err := value.TypeCheck(p.ctx)
	if err != nil {
		return nil, err
	}
	frame := p.ctx.CurrentFrame()
	if frame == nil {
		return nil, &ParseError{Loc: loc, Msg: "variable declaration outside of a function"}
	}
	size := vt.Size()
	offset := frame.Alloc(size)
	frame.Bind(name, vt, offset, size)

	target := ast.NewStack(loc, name, vt, offset, size)
	return ast.NewBinaryOperation(loc, ast.Assign, target, value), nil
}

// parseFunction implements `fn NAME ( PARAMS ) { … }` (spec §4.2). The
// return type is fixed to I64.
func (p *Parser) parseFunction() (ast.Node, error) {
	loc, err := p.expect(token.FN)
	if err != nil {
		return nil, err
	}
	if p.tok != token.IDENT {
		return nil, p.errorExpectedf(token.IDENT)
	}
	name := p.val.Raw
	p.advance()

	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	type paramSpec struct {
		name string
		typ  types.Type
	}
	var params []paramSpec
	for p.tok != token.RPAREN {
		if p.tok != token.IDENT {
			return nil, p.errorExpectedf(token.IDENT)
		}
		pname := p.val.Raw
		p.advance()
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.I64); err != nil {
			return nil, err
		}
		params = append(params, paramSpec{name: pname, typ: types.I64T})
		if p.tok == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	frame := p.ctx.PushFrame()
	paramTypes := make([]types.Type, len(params))
	paramOffsets := make([]int, len(params))
	for i, ps := range params {
		size := ps.typ.Size()
		offset := frame.Alloc(size)
		frame.Bind(ps.name, ps.typ, offset, size)
		paramTypes[i] = ps.typ
		paramOffsets[i] = offset
	}

	body, err := p.parseScopeBlock()
	if err != nil {
		p.ctx.PopFrame()
		return nil, err
	}
	finished := p.ctx.PopFrame()

	return ast.NewFunction(loc, name, types.I64T, paramTypes, paramOffsets, body, finished.Size()), nil
}

func (p *Parser) parseExprStatement() (ast.Node, error) {
	value, err := p.parseValue(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return value, nil
}
