// resolver_test.go
package lox

import (
	"strings"
	"testing"
)

// resolveSrc parses src (which must be syntactically clean) and runs
// the resolver over it against a fresh interpreter.
func resolveSrc(t *testing.T, src string) error {
	t.Helper()
	rep := &CollectReporter{}
	stmts := NewParser(NewLexer(src, rep).Scan(), rep).Parse()
	if len(rep.Diags) > 0 {
		t.Fatalf("source must parse cleanly, got %v", rep.Diags)
	}
	return NewResolver(NewInterpreter()).Resolve(stmts)
}

func wantResolveError(t *testing.T, src, substr string) {
	t.Helper()
	err := resolveSrc(t, src)
	if err == nil {
		t.Fatalf("want resolve error containing %q, got nil\nsource:\n%s", substr, src)
	}
	if _, ok := err.(*ResolveError); !ok {
		t.Fatalf("want *ResolveError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("want error containing %q, got %q", substr, err.Error())
	}
}

func wantResolveOK(t *testing.T, src string) {
	t.Helper()
	if err := resolveSrc(t, src); err != nil {
		t.Fatalf("want clean resolution, got %v\nsource:\n%s", err, src)
	}
}

func Test_Resolver_ReturnOutsideFunction(t *testing.T) {
	wantResolveError(t, "return 1;", "Can't return from top-level code.")
}

func Test_Resolver_ReturnValueFromInitializer(t *testing.T) {
	wantResolveError(t,
		"class C { init() { return 1; } }",
		"Can't return a value from an initializer.")
	// a bare return in init is fine
	wantResolveOK(t, "class C { init() { return; } }")
}

func Test_Resolver_ThisOutsideClass(t *testing.T) {
	wantResolveError(t, "print this;", "Can't use 'this' outside of a class.")
	wantResolveError(t, "fun f() { return this; }", "Can't use 'this' outside of a class.")
	wantResolveOK(t, "class C { m() { return this; } }")
}

func Test_Resolver_SuperOutsideClass(t *testing.T) {
	wantResolveError(t, "fun f() { super.m(); }", "Can't use 'super' outside of a class.")
}

func Test_Resolver_SuperWithoutSuperclass(t *testing.T) {
	wantResolveError(t,
		"class C { m() { super.m(); } }",
		"Can't use 'super' in a class with no superclass.")
	wantResolveOK(t, "class A {} class B < A { m() { super.m(); } }")
}

func Test_Resolver_SelfInitializerRead(t *testing.T) {
	wantResolveError(t,
		"{ var a = 1; { var a = a; } }",
		"Can't read local variable in its own initializer.")
	// the global scope is not tracked; this resolves dynamically
	wantResolveOK(t, "var a = 1; { var b = a; }")
}

func Test_Resolver_DuplicateLocal(t *testing.T) {
	wantResolveError(t,
		"{ var a = 1; var a = 2; }",
		"Already a variable with this name in this scope.")
	// shadowing in a nested scope is fine
	wantResolveOK(t, "{ var a = 1; { var a = 2; } }")
	// and globals may redeclare freely
	wantResolveOK(t, "var a = 1; var a = 2;")
}

func Test_Resolver_BreakOutsideLoop(t *testing.T) {
	wantResolveError(t, "break;", "Can't use 'break' outside of a loop.")
	wantResolveError(t, "if (true) break;", "Can't use 'break' outside of a loop.")
	// a function body does not inherit the enclosing loop
	wantResolveError(t,
		"while (true) { fun f() { break; } }",
		"Can't use 'break' outside of a loop.")
	wantResolveOK(t, "while (true) break;")
	wantResolveOK(t, "for (;;) { if (true) break; }")
}

func Test_Resolver_InheritFromSelf(t *testing.T) {
	wantResolveError(t, "class C < C {}", "A class can't inherit from itself.")
}

func Test_Resolver_FunctionCanRecurse(t *testing.T) {
	wantResolveOK(t, "fun f(n) { if (n > 0) f(n - 1); }")
}

func Test_Resolver_DistancesRecorded(t *testing.T) {
	ip := NewInterpreter()
	rep := &CollectReporter{}
	src := "var g = 1; { var a = 2; { print a; print g; } }"
	stmts := NewParser(NewLexer(src, rep).Scan(), rep).Parse()
	if err := NewResolver(ip).Resolve(stmts); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// exactly one local reference gets a distance: `a` at one hop;
	// `g` is global and resolves dynamically.
	var dists []int
	for _, d := range ip.locals {
		dists = append(dists, d)
	}
	if len(dists) != 1 || dists[0] != 1 {
		t.Fatalf("want one recorded distance of 1, got %v", dists)
	}
}
