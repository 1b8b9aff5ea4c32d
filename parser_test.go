// parser_test.go
package lox

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func parseProgram(t *testing.T, src string) ([]Stmt, *CollectReporter) {
	t.Helper()
	rep := &CollectReporter{}
	stmts := NewParser(NewLexer(src, rep).Scan(), rep).Parse()
	return stmts, rep
}

func wantAST(t *testing.T, src, want string) {
	t.Helper()
	stmts, rep := parseProgram(t, src)
	if len(rep.Diags) > 0 {
		t.Fatalf("unexpected diagnostics for %q: %v", src, rep.Diags)
	}
	if diff := cmp.Diff(want, PrintAST(stmts)); diff != "" {
		t.Fatalf("AST mismatch for %q (-want +got):\n%s", src, diff)
	}
}

func Test_Parser_Precedence_FactorOverTerm(t *testing.T) {
	wantAST(t, "1 + 2 * 3;", "(expr (+ 1 (* 2 3)))")
	wantAST(t, "(1 + 2) * 3;", "(expr (* (group (+ 1 2)) 3))")
	wantAST(t, "1 - 2 - 3;", "(expr (- (- 1 2) 3))")
}

func Test_Parser_Precedence_ComparisonOverEquality(t *testing.T) {
	wantAST(t, "2 < 1 == true;", "(expr (== (< 2 1) true))")
}

func Test_Parser_Precedence_UnaryBindsTightest(t *testing.T) {
	wantAST(t, "-1 * 2;", "(expr (* (- 1) 2))")
	wantAST(t, "!false == true;", "(expr (== (! false) true))")
	wantAST(t, "!!true;", "(expr (! (! true)))")
}

func Test_Parser_Logical_OrLowerThanAnd(t *testing.T) {
	wantAST(t, "a or b and c;", "(expr (or a (and b c)))")
}

func Test_Parser_Assignment_RightAssociative(t *testing.T) {
	wantAST(t, "a = b = 1;", "(expr (= a (= b 1)))")
}

func Test_Parser_Assignment_PropertyTargetBecomesSet(t *testing.T) {
	wantAST(t, "obj.field = 1;", "(expr (= (. obj field) 1))")
}

func Test_Parser_Assignment_InvalidTarget(t *testing.T) {
	_, rep := parseProgram(t, "1 + 2 = 3;")
	if len(rep.Diags) == 0 || !strings.Contains(rep.Diags[0], "Invalid assignment target") {
		t.Fatalf("want invalid-assignment diagnostic, got %v", rep.Diags)
	}
}

func Test_Parser_CallChaining(t *testing.T) {
	wantAST(t, "obj.method().field;", "(expr (. (call (. obj method)) field))")
	wantAST(t, "f(1)(2);", "(expr (call (call f 1) 2))")
	wantAST(t, "f(a, b, c);", "(expr (call f a b c))")
}

func Test_Parser_VarDeclaration(t *testing.T) {
	wantAST(t, "var a = 42;", "(var a 42)")
	wantAST(t, "var a;", "(var a)")
}

func Test_Parser_IfElse(t *testing.T) {
	wantAST(t, "if (a) print 1; else print 2;",
		"(if a (print 1) (print 2))")
	wantAST(t, "if (a) { print 1; }",
		"(if a (block (print 1)))")
}

func Test_Parser_While(t *testing.T) {
	wantAST(t, "while (a) print 1;", "(while a (print 1))")
}

func Test_Parser_For_DesugarsToWhile(t *testing.T) {
	wantAST(t, "for (var i = 0; i < 3; i = i + 1) print i;",
		"(block (var i 0) (while (< i 3) (block (print i) (expr (= i (+ i 1))))))")
}

func Test_Parser_For_EmptyClausesDefaultToTrue(t *testing.T) {
	wantAST(t, "for (;;) print 1;", "(while true (print 1))")
}

func Test_Parser_For_NoInitializer(t *testing.T) {
	wantAST(t, "for (; i < 3;) print i;", "(while (< i 3) (print i))")
}

func Test_Parser_Function(t *testing.T) {
	wantAST(t, "fun add(a, b) { return a + b; }",
		"(fun add (a b) (return (+ a b)))")
	wantAST(t, "fun none() { return; }",
		"(fun none () (return))")
}

func Test_Parser_Break(t *testing.T) {
	wantAST(t, "while (true) break;", "(while true (break))")
}

func Test_Parser_Class(t *testing.T) {
	wantAST(t, "class Bagel {}", "(class Bagel)")
	wantAST(t, "class Cruller < Bagel { finish() { print 1; } }",
		"(class Cruller (< Bagel) (method finish () (print 1)))")
}

func Test_Parser_Super(t *testing.T) {
	wantAST(t, "class B < A { m() { super.m(); } }",
		"(class B (< A) (method m () (expr (call (super m)))))")
}

func Test_Parser_This(t *testing.T) {
	wantAST(t, "class C { m() { return this.x; } }",
		"(class C (method m () (return (. this x))))")
}

func Test_Parser_ErrorRecovery_LaterStatementsSurvive(t *testing.T) {
	stmts, rep := parseProgram(t, "var = 1;\nprint 1;\nprint 2;")
	if len(rep.Diags) == 0 {
		t.Fatalf("want a diagnostic for the malformed declaration")
	}
	if len(stmts) != 2 {
		t.Fatalf("want the two well-formed statements, got %d: %s", len(stmts), PrintAST(stmts))
	}
	if got := PrintAST(stmts); got != "(print 1)\n(print 2)" {
		t.Fatalf("recovered statements wrong:\n%s", got)
	}
}

func Test_Parser_ErrorRecovery_MultipleErrorsOneRun(t *testing.T) {
	_, rep := parseProgram(t, "var = 1; print ; var a = 2 var b;")
	if len(rep.Diags) < 2 {
		t.Fatalf("want several diagnostics from one parse, got %v", rep.Diags)
	}
}

func Test_Parser_ErrorRecovery_InsideBlock(t *testing.T) {
	stmts, rep := parseProgram(t, "{ var = 1; print 2; }")
	if len(rep.Diags) == 0 {
		t.Fatalf("want a diagnostic for the bad statement")
	}
	if got := PrintAST(stmts); got != "(block (print 2))" {
		t.Fatalf("block should keep its good statement, got %s", got)
	}
}

func Test_Parser_EOFDiagnosticSaysAtEnd(t *testing.T) {
	_, rep := parseProgram(t, "print 1")
	if len(rep.Diags) != 1 || !strings.Contains(rep.Diags[0], "at end") {
		t.Fatalf("want an 'at end' diagnostic, got %v", rep.Diags)
	}
}
