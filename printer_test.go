// printer_test.go
package lox

import "testing"

func Test_Printer_LiteralForms(t *testing.T) {
	cases := []struct {
		expr Expr
		want string
	}{
		{&LiteralExpr{Value: nil}, "nil"},
		{&LiteralExpr{Value: true}, "true"},
		{&LiteralExpr{Value: float32(3.14)}, "3.14"},
		{&LiteralExpr{Value: "hi"}, `"hi"`},
	}
	for _, c := range cases {
		if got := PrintExpr(c.expr); got != c.want {
			t.Fatalf("want %q, got %q", c.want, got)
		}
	}
}

func Test_Printer_NestedExpr(t *testing.T) {
	// (+ 1 (* 2 3)) built by hand, independent of the parser
	e := &BinaryExpr{
		Op:   Token{Type: PLUS, Lexeme: "+"},
		Left: &LiteralExpr{Value: float32(1)},
		Right: &BinaryExpr{
			Op:    Token{Type: STAR, Lexeme: "*"},
			Left:  &LiteralExpr{Value: float32(2)},
			Right: &LiteralExpr{Value: float32(3)},
		},
	}
	if got := PrintExpr(e); got != "(+ 1 (* 2 3))" {
		t.Fatalf("got %q", got)
	}
}

func Test_Printer_ClassMethodsSortedByName(t *testing.T) {
	rep := &CollectReporter{}
	stmts := NewParser(NewLexer("class C { zebra() {} alpha() {} }", rep).Scan(), rep).Parse()
	if len(rep.Diags) > 0 {
		t.Fatalf("diagnostics: %v", rep.Diags)
	}
	want := "(class C (method alpha ()) (method zebra ()))"
	if got := PrintAST(stmts); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
