package compiler

import (
	"errors"
	"fmt"
	"strconv"

	"gocalc/pkg/arith"
)

// Syntax errors. UnexpectedTokenError and NumberRangeError match
// ErrUnexpectedToken and ErrNumberOutOfRange with errors.Is.
var (
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")
	ErrUnexpectedToken      = errors.New("unexpected token")
	ErrUnmatchedParenthesis = errors.New("expected a closing parenthesis")
	ErrNumberOutOfRange     = errors.New("number out of range")
)

// UnexpectedTokenError names the token found where a value was expected.
type UnexpectedTokenError struct {
	Token string
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("unexpected token %q", e.Token)
}

func (e *UnexpectedTokenError) Is(target error) bool {
	return target == ErrUnexpectedToken
}

// NumberRangeError reports a literal that does not fit in an int64.
type NumberRangeError struct {
	Token string
}

func (e *NumberRangeError) Error() string {
	return fmt.Sprintf("number %s out of range", e.Token)
}

func (e *NumberRangeError) Is(target error) bool {
	return target == ErrNumberOutOfRange
}

// Parser consumes a token slice front to back and builds an Expr.
//
// Grammar (precedence low → high, every level left-associative):
//
//	program → term
//	term    → factor ( ("+" | "-") factor )*
//	factor  → primary ( ("*" | "/") primary )*
//	primary → NUMBER | "(" term ")"
type Parser struct {
	tokens []string
	pos    int
}

func NewParser(tokens []string) *Parser {
	return &Parser{tokens: tokens}
}

// peek returns the current token without consuming it, or "" at end of input.
func (p *Parser) peek() string {
	if p.pos >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.pos]
}

// advance consumes and returns the current token.
func (p *Parser) advance() string {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// matches reports whether the current token has one of the given kinds.
func (p *Parser) matches(kinds ...TokenKind) bool {
	if p.pos >= len(p.tokens) {
		return false
	}
	k := Classify(p.peek())
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// Remaining returns the tokens not consumed yet.
func (p *Parser) Remaining() []string {
	return p.tokens[p.pos:]
}

// ParseProgram parses a single term starting at the cursor.
func (p *Parser) ParseProgram() (Expr, error) {
	return p.parseTerm()
}

// parseTerm handles + and -
func (p *Parser) parseTerm() (Expr, error) {
	expr, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.matches(PLUS, MINUS) {
		op, _ := arith.ParseOperator(p.advance())
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		expr = &Binary{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

// parseFactor handles * and /
func (p *Parser) parseFactor() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.matches(STAR, SLASH) {
		op, _ := arith.ParseOperator(p.advance())
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		expr = &Binary{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	if p.pos >= len(p.tokens) {
		return nil, ErrUnexpectedEndOfInput
	}

	tok := p.peek()
	switch {
	case Classify(tok) == NUMBER && isDigits(tok):
		p.advance()
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, &NumberRangeError{Token: tok}
		}
		return &Number{Value: v}, nil

	case Classify(tok) == LPAREN:
		p.advance()
		expr, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if p.pos >= len(p.tokens) || Classify(p.advance()) != RPAREN {
			return nil, ErrUnmatchedParenthesis
		}
		return expr, nil
	}

	return nil, &UnexpectedTokenError{Token: tok}
}

// Parse builds the tree for tokens. Tokens left over after the expression are
// ignored, so "1 2" parses as 1; use ParseStrict to reject them.
func Parse(tokens []string) (Expr, error) {
	return NewParser(tokens).ParseProgram()
}

// ParseStrict is Parse, but fails with an UnexpectedTokenError naming the
// first token left over after the expression.
func ParseStrict(tokens []string) (Expr, error) {
	p := NewParser(tokens)
	expr, err := p.ParseProgram()
	if err != nil {
		return nil, err
	}
	if rest := p.Remaining(); len(rest) > 0 {
		return nil, &UnexpectedTokenError{Token: rest[0]}
	}
	return expr, nil
}
