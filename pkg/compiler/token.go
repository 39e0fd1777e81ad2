package compiler

import "fmt"

// TokenKind identifies the category of a token. Tokens themselves are plain
// strings; the kind is derived from their content by Classify.
type TokenKind int

const (
	ILLEGAL TokenKind = iota // empty string or anything the scanner never emits

	NUMBER // maximal run of letters/digits, e.g. "12" (or "a", which the parser rejects)

	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	ASSIGN // = (lexed, never accepted by the grammar)

	LPAREN // (
	RPAREN // )
)

var tokenNames = [...]string{
	ILLEGAL: "ILLEGAL",
	NUMBER:  "NUMBER",
	PLUS:    "PLUS",
	MINUS:   "MINUS",
	STAR:    "STAR",
	SLASH:   "SLASH",
	ASSIGN:  "ASSIGN",
	LPAREN:  "LPAREN",
	RPAREN:  "RPAREN",
}

func (k TokenKind) String() string {
	if int(k) >= 0 && int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// punctuation maps every single-character token to its kind.
var punctuation = map[byte]TokenKind{
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	'=': ASSIGN,
	'(': LPAREN,
	')': RPAREN,
}

// Classify returns the kind of a token string.
func Classify(tok string) TokenKind {
	if tok == "" {
		return ILLEGAL
	}
	if len(tok) == 1 {
		if k, ok := punctuation[tok[0]]; ok {
			return k
		}
	}
	for i := 0; i < len(tok); i++ {
		if !isWordByte(tok[i]) {
			return ILLEGAL
		}
	}
	return NUMBER
}

// isDigits reports whether a NUMBER token denotes a decimal integer.
func isDigits(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		if !isDigit(tok[i]) {
			return false
		}
	}
	return true
}
