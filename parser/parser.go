// Package parser implements a recursive-descent parser over the token
// stream produced by package lexer, producing the AST that package nfa
// consumes.
//
// Grammar (precedence fixed by recursion; alternation binds loosest,
// then concatenation, then quantifier, then atom):
//
//	regex   := term ('|' term)*
//	term    := factor+              (empty term => Empty)
//	factor  := atom ( '*' | '+' | '?' | '{' n (',' m?)? '}' )*
//	atom    := LITERAL | ESCAPED_CHAR | DIGIT | ANY_CHAR | '(' regex ')'
//	         | '(?:' regex ')' | '[' charset ']' | '$' | BACKREF
//	charset := '^'? item+ ; item := char | char '-' char
package parser

import (
	"fmt"
	"strconv"

	"github.com/coregx/coregex-classic/ast"
	"github.com/coregx/coregex-classic/lexer"
	"github.com/coregx/coregex-classic/token"
)

// Error reports a syntax error together with the byte offset in the
// original pattern where it was detected.
type Error struct {
	Pos     int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Message)
}

// Parse lexes and parses pattern, returning its AST.
func Parse(pattern string) (ast.Node, error) {
	toks, err := tokenize(pattern)
	if err != nil {
		if le, ok := err.(*lexer.Error); ok {
			return nil, &Error{Pos: le.Pos, Message: le.Message}
		}
		return nil, err
	}

	p := &Parser{toks: toks}
	node, err := p.parseRegex()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != token.END {
		return nil, &Error{Pos: p.cur().Pos, Message: fmt.Sprintf("unexpected token %s", p.cur().Kind)}
	}
	return node, nil
}

func tokenize(pattern string) ([]token.Token, error) {
	lx := lexer.New(pattern)
	var toks []token.Token
	for {
		t, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.Kind == token.END {
			return toks, nil
		}
	}
}

// Parser consumes a pre-lexed token slice. Tokenizing up front (rather
// than pulling from the Lexer lazily) keeps lookahead trivial: charset
// range parsing needs to peek past the current token to decide whether a
// '-' is a range separator or a literal hyphen.
type Parser struct {
	toks         []token.Token
	pos          int
	groupCounter int
}

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peek(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		idx = len(p.toks) - 1
	}
	return p.toks[idx]
}

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) parseRegex() (ast.Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == token.OR {
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.Alt{L: left, R: right}
	}
	return left, nil
}

func (p *Parser) atTermEnd() bool {
	switch p.cur().Kind {
	case token.OR, token.GROUP_END, token.END:
		return true
	default:
		return false
	}
}

func (p *Parser) parseTerm() (ast.Node, error) {
	var node ast.Node
	for !p.atTermEnd() {
		f, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		if node == nil {
			node = f
		} else {
			node = &ast.Concat{L: node, R: f}
		}
	}
	if node == nil {
		return &ast.Empty{}, nil
	}
	return node, nil
}

func (p *Parser) parseFactor() (ast.Node, error) {
	atomNode, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case token.STAR:
			p.advance()
			atomNode = &ast.Star{Child: atomNode}
		case token.PLUS:
			p.advance()
			atomNode = &ast.Repeat{Child: atomNode, Min: 1, Max: nil}
		case token.QUESTION:
			p.advance()
			one := 1
			atomNode = &ast.Repeat{Child: atomNode, Min: 0, Max: &one}
		case token.REPEAT_START:
			next, err := p.parseRepeatBound(atomNode)
			if err != nil {
				return nil, err
			}
			atomNode = next
		default:
			return atomNode, nil
		}
	}
}

// maxRepeatBound caps the value parseNumber accepts for a repeat count.
// No pattern encountered in practice needs a bound anywhere near this
// large; the limit exists so a long digit run in {n,m} fails loudly as
// a parse error instead of silently wrapping past the range of int.
const maxRepeatBound = 1 << 30

func (p *Parser) parseNumber() (int, bool) {
	if p.cur().Kind != token.DIGIT {
		return 0, false
	}
	n := 0
	for p.cur().Kind == token.DIGIT {
		n = n*10 + int(p.cur().Lexeme[0]-'0')
		if n > maxRepeatBound {
			for p.cur().Kind == token.DIGIT {
				p.advance()
			}
			return maxRepeatBound + 1, true
		}
		p.advance()
	}
	return n, true
}

func (p *Parser) parseRepeatBound(child ast.Node) (ast.Node, error) {
	startPos := p.cur().Pos
	p.advance() // consume '{'

	n, ok := p.parseNumber()
	if !ok {
		return nil, &Error{Pos: startPos, Message: "malformed repeat: expected a number after '{'"}
	}
	if n > maxRepeatBound {
		return nil, &Error{Pos: startPos, Message: fmt.Sprintf("repeat count exceeds the maximum of %d", maxRepeatBound)}
	}

	if p.cur().Kind == token.REPEAT_END {
		p.advance()
		return &ast.RepeatExact{Child: child, N: n}, nil
	}
	if p.cur().Kind != token.COMMA {
		return nil, &Error{Pos: p.cur().Pos, Message: "malformed repeat: expected ',' or '}'"}
	}
	p.advance() // consume ','

	if p.cur().Kind == token.REPEAT_END {
		p.advance()
		return &ast.Repeat{Child: child, Min: n, Max: nil}, nil
	}

	m, ok := p.parseNumber()
	if !ok {
		return nil, &Error{Pos: p.cur().Pos, Message: "malformed repeat: expected a number or '}'"}
	}
	if m > maxRepeatBound {
		return nil, &Error{Pos: startPos, Message: fmt.Sprintf("repeat count exceeds the maximum of %d", maxRepeatBound)}
	}
	if p.cur().Kind != token.REPEAT_END {
		return nil, &Error{Pos: p.cur().Pos, Message: "malformed repeat: expected '}'"}
	}
	p.advance()

	if n > m {
		return nil, &Error{Pos: startPos, Message: fmt.Sprintf("invalid repeat range: min %d > max %d", n, m)}
	}
	return &ast.Repeat{Child: child, Min: n, Max: &m}, nil
}

func (p *Parser) parseAtom() (ast.Node, error) {
	t := p.cur()
	switch t.Kind {
	case token.LITERAL, token.ESCAPED_CHAR, token.DIGIT:
		p.advance()
		return &ast.Char{C: t.Lexeme[0]}, nil
	case token.ANY_CHAR:
		p.advance()
		return &ast.Range{Items: []ast.RangeItem{{Lo: ast.PrintableLo, Hi: ast.PrintableHi}}}, nil
	case token.EMPTY:
		p.advance()
		return &ast.Empty{}, nil
	case token.BACKREF:
		p.advance()
		n, err := strconv.Atoi(t.Lexeme)
		if err != nil {
			return nil, &Error{Pos: t.Pos, Message: "malformed backreference"}
		}
		return &ast.Backref{GroupNum: n}, nil
	case token.GROUP_START:
		p.advance()
		p.groupCounter++
		num := p.groupCounter
		inner, err := p.parseRegex()
		if err != nil {
			return nil, err
		}
		if p.cur().Kind != token.GROUP_END {
			return nil, &Error{Pos: t.Pos, Message: "unterminated group"}
		}
		p.advance()
		return &ast.Group{Child: inner, Capturing: true, GroupNum: num}, nil
	case token.NON_CAPTURING_GROUP_START:
		p.advance()
		inner, err := p.parseRegex()
		if err != nil {
			return nil, err
		}
		if p.cur().Kind != token.GROUP_END {
			return nil, &Error{Pos: t.Pos, Message: "unterminated group"}
		}
		p.advance()
		return &ast.Group{Child: inner, Capturing: false}, nil
	case token.RANGE_START:
		p.advance()
		return p.parseCharset(t.Pos)
	default:
		return nil, &Error{Pos: t.Pos, Message: fmt.Sprintf("unknown atom: unexpected token %s", t.Kind)}
	}
}

// parseCharset parses the contents of a [...] class, having already
// consumed '['. Metacharacters lose their special meaning inside a
// class; only ']' terminates it and '-' separates a range.
func (p *Parser) parseCharset(startPos int) (ast.Node, error) {
	negated := false
	if p.cur().Kind == token.LITERAL && p.cur().Lexeme == "^" {
		negated = true
		p.advance()
	}

	var items []ast.RangeItem
	for p.cur().Kind != token.RANGE_END {
		if p.cur().Kind == token.END {
			return nil, &Error{Pos: startPos, Message: "unterminated character class"}
		}

		loTok := p.cur()
		if loTok.Kind == token.NON_CAPTURING_GROUP_START {
			// "(?:" is lexed as one token; inside a class it is three literals.
			for i := 0; i < len(loTok.Lexeme); i++ {
				items = append(items, ast.RangeItem{Lo: loTok.Lexeme[i], Hi: loTok.Lexeme[i]})
			}
			p.advance()
			continue
		}
		lo, err := classByte(loTok)
		if err != nil {
			return nil, err
		}
		p.advance()

		isRange := p.cur().Kind == token.LITERAL && p.cur().Lexeme == "-" &&
			p.peek(1).Kind != token.RANGE_END && p.peek(1).Kind != token.END
		if isRange {
			p.advance() // consume '-'
			hiTok := p.cur()
			hi, err := classByte(hiTok)
			if err != nil {
				return nil, err
			}
			p.advance()
			if lo > hi {
				return nil, &Error{Pos: loTok.Pos, Message: fmt.Sprintf("invalid range: %q > %q", lo, hi)}
			}
			items = append(items, ast.RangeItem{Lo: lo, Hi: hi})
		} else {
			items = append(items, ast.RangeItem{Lo: lo, Hi: lo})
		}
	}
	p.advance() // consume ']'

	if len(items) == 0 {
		return nil, &Error{Pos: startPos, Message: "empty character class"}
	}
	return &ast.Range{Items: items, Negated: negated}, nil
}

// classByte extracts the literal byte a token contributes when it
// appears inside a character class. Every token except END carries a
// non-empty lexeme, and the caller's loop stops before END and RANGE_END.
func classByte(t token.Token) (byte, error) {
	if len(t.Lexeme) == 0 {
		return 0, &Error{Pos: t.Pos, Message: fmt.Sprintf("unexpected token %s in character class", t.Kind)}
	}
	return t.Lexeme[0], nil
}
