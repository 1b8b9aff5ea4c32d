// lexer_test.go
package lox

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	rep := &CollectReporter{}
	got := NewLexer(src, rep).Scan()
	if len(rep.Diags) > 0 {
		t.Fatalf("unexpected lex diagnostics for %q: %v", src, rep.Diags)
	}
	return got
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	if end == 0 {
		return nil
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	if diff := cmp.Diff(want, typesWithoutEOF(got)); diff != "" {
		t.Fatalf("token types mismatch for %q (-want +got):\n%s", src, diff)
	}
	return got
}

func Test_Lexer_Operators_OneAndTwoChar(t *testing.T) {
	wantTypes(t, "( ) { } , . - + ; / *",
		[]TokenType{LPAREN, RPAREN, LBRACE, RBRACE, COMMA, DOT, MINUS, PLUS, SEMICOLON, SLASH, STAR})
	wantTypes(t, "! != = == > >= < <=",
		[]TokenType{BANG, BANG_EQ, EQUAL, EQUAL_EQ, GREATER, GREATER_EQ, LESS, LESS_EQ})
}

func Test_Lexer_Keywords_FullTable(t *testing.T) {
	src := "and break class else false for fun if nil or print return super this true var while"
	wantTypes(t, src, []TokenType{
		AND, BREAK, CLASS, ELSE, FALSE, FOR, FUN, IF, NIL, OR,
		PRINT, RETURN, SUPER, THIS, TRUE, VAR, WHILE,
	})
}

func Test_Lexer_Identifiers_NotKeywords(t *testing.T) {
	got := wantTypes(t, "classy _for forty orchid", []TokenType{IDENTIFIER, IDENTIFIER, IDENTIFIER, IDENTIFIER})
	if got[0].Lexeme != "classy" || got[1].Lexeme != "_for" {
		t.Fatalf("lexemes wrong: %v %v", got[0].Lexeme, got[1].Lexeme)
	}
}

func Test_Lexer_Numbers(t *testing.T) {
	got := wantTypes(t, "1 42 3.14 0.5", []TokenType{NUMBER, NUMBER, NUMBER, NUMBER})
	want := []float32{1, 42, 3.14, 0.5}
	for i, w := range want {
		if got[i].Literal.(float32) != w {
			t.Fatalf("literal %d: want %g, got %v", i, w, got[i].Literal)
		}
	}
}

func Test_Lexer_Number_TrailingDotIsNotFraction(t *testing.T) {
	// "12." must lex as the number 12 followed by DOT: the fractional
	// part requires a following digit.
	wantTypes(t, "12.", []TokenType{NUMBER, DOT})
	wantTypes(t, "12.name", []TokenType{NUMBER, DOT, IDENTIFIER})
}

func Test_Lexer_Strings(t *testing.T) {
	got := wantTypes(t, `"hello" ""`, []TokenType{STRING, STRING})
	if got[0].Literal.(string) != "hello" {
		t.Fatalf("want literal %q, got %v", "hello", got[0].Literal)
	}
	if got[1].Literal.(string) != "" {
		t.Fatalf("want empty literal, got %v", got[1].Literal)
	}
}

func Test_Lexer_String_NoEscapeProcessing(t *testing.T) {
	got := wantTypes(t, `"a\nb"`, []TokenType{STRING})
	if got[0].Literal.(string) != `a\nb` {
		t.Fatalf("escapes must stay raw, got %q", got[0].Literal)
	}
}

func Test_Lexer_String_MultilineTracksLines(t *testing.T) {
	got := wantTypes(t, "\"a\nb\"\nx", []TokenType{STRING, IDENTIFIER})
	if got[1].Line != 3 {
		t.Fatalf("identifier after multiline string: want line 3, got %d", got[1].Line)
	}
}

func Test_Lexer_Comments_ToEndOfLine(t *testing.T) {
	wantTypes(t, "1 // comment ( ) { } \"unclosed\n2", []TokenType{NUMBER, NUMBER})
	wantTypes(t, "// only a comment", nil)
	wantTypes(t, "4 / 2", []TokenType{NUMBER, SLASH, NUMBER})
}

func Test_Lexer_LineNumbers(t *testing.T) {
	got := toks(t, "a\nb\n\nc")
	wantLines := []int{1, 2, 4}
	for i, w := range wantLines {
		if got[i].Line != w {
			t.Fatalf("token %d: want line %d, got %d", i, w, got[i].Line)
		}
	}
}

func Test_Lexer_UnexpectedChar_ReportedAndSkipped(t *testing.T) {
	rep := &CollectReporter{}
	got := NewLexer("var a = 1; @ # var b = 2;", rep).Scan()
	if len(rep.Diags) != 2 {
		t.Fatalf("want 2 diagnostics (one per bad char), got %v", rep.Diags)
	}
	if !strings.Contains(rep.Diags[0], "Unexpected character") {
		t.Fatalf("unexpected diagnostic: %q", rep.Diags[0])
	}
	// the scan keeps going and the surrounding tokens survive
	want := []TokenType{VAR, IDENTIFIER, EQUAL, NUMBER, SEMICOLON, VAR, IDENTIFIER, EQUAL, NUMBER, SEMICOLON}
	if diff := cmp.Diff(want, typesWithoutEOF(got)); diff != "" {
		t.Fatalf("token types mismatch (-want +got):\n%s", diff)
	}
}

func Test_Lexer_UnterminatedString_Reported(t *testing.T) {
	rep := &CollectReporter{}
	NewLexer("\"never closed", rep).Scan()
	if len(rep.Diags) != 1 || !strings.Contains(rep.Diags[0], "Unterminated string") {
		t.Fatalf("want unterminated-string diagnostic, got %v", rep.Diags)
	}
}

func Test_Lexer_EOFTerminated(t *testing.T) {
	got := toks(t, "1 + 2")
	if got[len(got)-1].Type != EOF {
		t.Fatalf("token stream must end with EOF, got %v", got[len(got)-1])
	}
}
