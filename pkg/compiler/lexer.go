package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnrecognizedCharacter is matched by the error Lex returns for a byte
// that is neither whitespace nor part of a token.
var ErrUnrecognizedCharacter = errors.New("unrecognized character")

// UnrecognizedCharacterError carries the offending byte and its offset.
type UnrecognizedCharacterError struct {
	Char   byte
	Offset int
}

func (e *UnrecognizedCharacterError) Error() string {
	return fmt.Sprintf("unrecognized character %q at offset %d", e.Char, e.Offset)
}

func (e *UnrecognizedCharacterError) Is(target error) bool {
	return target == ErrUnrecognizedCharacter
}

// Lexer holds the state for a single scan over src.
type Lexer struct {
	src []byte
	pos int // index of the next byte to consume

	// strict turns dropped bytes into an error.
	strict bool
}

func newLexer(src string, strict bool) *Lexer {
	return &Lexer{src: []byte(src), strict: strict}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isWordByte(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// scanWord collects a maximal run of letters and digits.
// The first byte must still be at l.peek().
func (l *Lexer) scanWord() string {
	start := l.pos
	for l.pos < len(l.src) && isWordByte(l.peek()) {
		l.pos++
	}
	return string(l.src[start:l.pos])
}

// nextToken returns the next token, or "" at end of input.
func (l *Lexer) nextToken() (string, error) {
	for l.pos < len(l.src) {
		b := l.peek()
		switch {
		case isWordByte(b):
			return l.scanWord(), nil
		case punctuation[b] != ILLEGAL:
			l.pos++
			return string(b), nil
		case isSpace(b) || !l.strict:
			l.pos++
		default:
			return "", &UnrecognizedCharacterError{Char: b, Offset: l.pos}
		}
	}
	return "", nil
}

func (l *Lexer) all() ([]string, error) {
	var tokens []string
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		if tok == "" {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Tokenize splits source into tokens: maximal runs of letters/digits, or a
// single character from "+-*/=()". Every other byte, whitespace included, is
// dropped. Tokenize never fails; empty input yields no tokens.
func Tokenize(source string) []string {
	tokens, _ := newLexer(source, false).all()
	return tokens
}

// Lex is the strict form of Tokenize: it rejects the first byte that is
// neither whitespace nor part of a token.
func Lex(source string) ([]string, error) {
	return newLexer(source, true).all()
}

// SplitFields tokenizes by whitespace alone, so "1+2" is a single token.
// Expressions must be written with spaces around every operator and
// parenthesis for the parser to accept them.
func SplitFields(source string) []string {
	return strings.Fields(source)
}
