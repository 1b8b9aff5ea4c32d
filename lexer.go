// lexer.go — hand-written scanner for Lox source text.
//
// The lexer makes a single left-to-right pass over the source with one
// character of lookahead (peek/peekN) for the two-character operators
// (!=, ==, <=, >=), line comments and fractional number literals. It
// produces a flat token slice terminated by exactly one EOF token.
//
// Unrecognized characters are reported through the diagnostics sink and
// skipped, so one scan can surface several lexical errors; the token
// stream itself stays well-formed.
package lox

import (
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Single-character tokens
	LPAREN TokenType = iota // "("
	RPAREN                  // ")"
	LBRACE                  // "{"
	RBRACE                  // "}"
	COMMA                   // ","
	DOT                     // "."
	MINUS                   // "-"
	PLUS                    // "+"
	SEMICOLON               // ";"
	SLASH                   // "/"
	STAR                    // "*"

	// One- or two-character tokens
	BANG       // "!"
	BANG_EQ    // "!="
	EQUAL      // "="
	EQUAL_EQ   // "=="
	GREATER    // ">"
	GREATER_EQ // ">="
	LESS       // "<"
	LESS_EQ    // "<="

	// Literals & identifiers
	IDENTIFIER
	STRING
	NUMBER

	// Keywords
	AND
	BREAK
	CLASS
	ELSE
	FALSE
	FOR
	FUN
	IF
	NIL
	OR
	PRINT
	RETURN
	SUPER
	THIS
	TRUE
	VAR
	WHILE

	EOF
)

// Token is a lexical token with optional literal value.
// Line is 1-based, Col is 0-based within the line.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any // float32 for NUMBER, string for STRING, nil otherwise
	Line    int
	Col     int
}

var keywords = map[string]TokenType{
	"and":    AND,
	"break":  BREAK,
	"class":  CLASS,
	"else":   ELSE,
	"false":  FALSE,
	"for":    FOR,
	"fun":    FUN,
	"if":     IF,
	"nil":    NIL,
	"or":     OR,
	"print":  PRINT,
	"return": RETURN,
	"super":  SUPER,
	"this":   THIS,
	"true":   TRUE,
	"var":    VAR,
	"while":  WHILE,
}

// Lexer scans a Lox source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 0-based column within line
	tokens []Token
	rep    Reporter

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a lexer for the given source. Lexical errors are
// reported through rep; a nil rep discards them.
func NewLexer(src string, rep Reporter) *Lexer {
	if rep == nil {
		rep = discardReporter{}
	}
	return &Lexer{src: src, line: 1, rep: rep}
}

// Scan tokenizes the whole source and returns the token slice,
// terminated by one EOF token.
func (l *Lexer) Scan() []Token {
	for !l.isAtEnd() {
		l.start = l.cur
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		l.scanToken()
	}
	l.tokens = append(l.tokens, Token{Type: EOF, Line: l.line, Col: l.col})
	return l.tokens
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

// matchNext consumes the next byte iff it equals want.
func (l *Lexer) matchNext(want byte) bool {
	b, ok := l.peek()
	if !ok || b != want {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) addToken(tt TokenType, lit any) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	})
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

func (l *Lexer) scanToken() {
	ch, _ := l.advance()
	switch ch {
	case '(':
		l.addToken(LPAREN, nil)
	case ')':
		l.addToken(RPAREN, nil)
	case '{':
		l.addToken(LBRACE, nil)
	case '}':
		l.addToken(RBRACE, nil)
	case ',':
		l.addToken(COMMA, nil)
	case '.':
		l.addToken(DOT, nil)
	case '-':
		l.addToken(MINUS, nil)
	case '+':
		l.addToken(PLUS, nil)
	case ';':
		l.addToken(SEMICOLON, nil)
	case '*':
		l.addToken(STAR, nil)
	case '!':
		if l.matchNext('=') {
			l.addToken(BANG_EQ, nil)
		} else {
			l.addToken(BANG, nil)
		}
	case '=':
		if l.matchNext('=') {
			l.addToken(EQUAL_EQ, nil)
		} else {
			l.addToken(EQUAL, nil)
		}
	case '<':
		if l.matchNext('=') {
			l.addToken(LESS_EQ, nil)
		} else {
			l.addToken(LESS, nil)
		}
	case '>':
		if l.matchNext('=') {
			l.addToken(GREATER_EQ, nil)
		} else {
			l.addToken(GREATER, nil)
		}
	case '/':
		if l.matchNext('/') {
			l.ignoreUntilNewline()
		} else {
			l.addToken(SLASH, nil)
		}
	case ' ', '\r', '\t', '\n':
		// advance() already bumped line/col
	case '"':
		l.scanString()
	default:
		if isDigit(ch) {
			l.scanNumber()
		} else if isAlpha(ch) {
			l.scanIdentifier()
		} else {
			l.rep.Report(l.tokStartLine, "", "Unexpected character.")
		}
	}
}

// ignoreUntilNewline eats a // comment body up to '\n' or EOF.
func (l *Lexer) ignoreUntilNewline() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return
		}
		l.advance()
	}
}

// scanString reads a double-quoted literal. No escape processing;
// embedded newlines are legal and tracked for line counting.
func (l *Lexer) scanString() {
	for {
		b, ok := l.peek()
		if !ok {
			l.rep.Report(l.tokStartLine, "", "Unterminated string.")
			return
		}
		if b == '"' {
			l.advance()
			break
		}
		l.advance()
	}
	// trim the surrounding quotes
	l.addToken(STRING, l.src[l.start+1:l.cur-1])
}

// scanNumber reads digits with an optional single fraction. The decimal
// point is only consumed when a digit follows it, so "12." lexes as the
// number 12 followed by a DOT.
func (l *Lexer) scanNumber() {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}
	if b, ok := l.peek(); ok && b == '.' {
		if b2, ok2 := l.peekN(1); ok2 && isDigit(b2) {
			l.advance() // consume '.'
			for {
				b, ok := l.peek()
				if !ok || !isDigit(b) {
					break
				}
				l.advance()
			}
		}
	}
	v, err := strconv.ParseFloat(l.src[l.start:l.cur], 32)
	if err != nil {
		l.rep.Report(l.tokStartLine, "", "Invalid number literal.")
		return
	}
	l.addToken(NUMBER, float32(v))
}

func (l *Lexer) scanIdentifier() {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	word := l.src[l.start:l.cur]
	if kw, ok := keywords[word]; ok {
		l.addToken(kw, nil)
		return
	}
	l.addToken(IDENTIFIER, nil)
}
