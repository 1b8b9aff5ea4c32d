// resolver.go — static scope resolution pass.
//
// The resolver walks the tree once, before anything executes, with an
// explicit stack of lexical scopes (name → "fully initialized"). For
// every Variable/Assign/This/Super occurrence it records the hop
// distance to the declaring scope into the interpreter's resolution
// table; a total miss means the name is assumed global and resolved
// dynamically at evaluation time.
//
// Resolution errors are fatal: they mean the program is definitionally
// invalid (this outside a class, return outside a function, a variable
// read in its own initializer, ...), so Resolve fails fast and the
// driver must not execute the statements.
package lox

type funcKind int

const (
	funcNone funcKind = iota
	funcFunction
	funcMethod
	funcInitializer
)

type classKind int

const (
	classNone classKind = iota
	classClass
	classSubclass
)

// resolveSink receives (reference node, hop distance) pairs. The
// Interpreter is the only implementation; the indirection keeps the
// resolver free of evaluation concerns.
type resolveSink interface {
	resolve(ref Expr, dist int)
}

// Resolver computes lexical distances for a statement list.
type Resolver struct {
	sink      resolveSink
	scopes    []map[string]bool // true once the name is fully initialized
	curFunc   funcKind
	curClass  classKind
	loopDepth int
}

// NewResolver creates a resolver feeding the given interpreter's
// resolution table.
func NewResolver(ip *Interpreter) *Resolver {
	return &Resolver{sink: ip}
}

// Resolve walks the full statement list. On the first error it stops
// and returns it; the table may then be partially filled and the
// program must not run.
func (r *Resolver) Resolve(stmts []Stmt) error {
	for _, s := range stmts {
		if err := r.resolveStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) errAt(tok Token, msg string) error {
	return &ResolveError{Line: tok.Line, Col: tok.Col, Msg: msg}
}

// --- scope stack ---

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) innermost() map[string]bool {
	if len(r.scopes) == 0 {
		return nil
	}
	return r.scopes[len(r.scopes)-1]
}

// declare marks a name present-but-uninitialized in the innermost
// scope. Globals (empty stack) are not tracked.
func (r *Resolver) declare(name Token) error {
	scope := r.innermost()
	if scope == nil {
		return nil
	}
	if _, exists := scope[name.Lexeme]; exists {
		return r.errAt(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
	return nil
}

// define marks the name initialized.
func (r *Resolver) define(name Token) {
	if scope := r.innermost(); scope != nil {
		scope[name.Lexeme] = true
	}
}

// resolveLocal searches scopes innermost-outward and records the
// distance on a hit. A miss records nothing: the reference falls back
// to dynamic global lookup.
func (r *Resolver) resolveLocal(ref Expr, name Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.sink.resolve(ref, len(r.scopes)-1-i)
			return
		}
	}
}

// --- statements ---

func (r *Resolver) resolveStmt(s Stmt) error {
	switch st := s.(type) {
	case *ExpressionStmt:
		return r.resolveExpr(st.Expression)
	case *PrintStmt:
		return r.resolveExpr(st.Expression)
	case *VarStmt:
		if err := r.declare(st.Name); err != nil {
			return err
		}
		if st.Initializer != nil {
			if err := r.resolveExpr(st.Initializer); err != nil {
				return err
			}
		}
		r.define(st.Name)
		return nil
	case *BlockStmt:
		r.beginScope()
		defer r.endScope()
		return r.Resolve(st.Statements)
	case *IfStmt:
		if err := r.resolveExpr(st.Condition); err != nil {
			return err
		}
		if err := r.resolveStmt(st.Then); err != nil {
			return err
		}
		if st.Else != nil {
			return r.resolveStmt(st.Else)
		}
		return nil
	case *WhileStmt:
		if err := r.resolveExpr(st.Condition); err != nil {
			return err
		}
		r.loopDepth++
		defer func() { r.loopDepth-- }()
		return r.resolveStmt(st.Body)
	case *BreakStmt:
		if r.loopDepth == 0 {
			return r.errAt(st.Keyword, "Can't use 'break' outside of a loop.")
		}
		return nil
	case *FunStmt:
		if err := r.declare(st.Name); err != nil {
			return err
		}
		// defined before the body resolves, so the function can recurse
		r.define(st.Name)
		return r.resolveFunction(st, funcFunction)
	case *ReturnStmt:
		if r.curFunc == funcNone {
			return r.errAt(st.Keyword, "Can't return from top-level code.")
		}
		if st.Value != nil {
			if r.curFunc == funcInitializer {
				return r.errAt(st.Keyword, "Can't return a value from an initializer.")
			}
			return r.resolveExpr(st.Value)
		}
		return nil
	case *ClassStmt:
		return r.resolveClass(st)
	default:
		return nil
	}
}

func (r *Resolver) resolveFunction(fn *FunStmt, kind funcKind) error {
	enclosing := r.curFunc
	r.curFunc = kind
	defer func() { r.curFunc = enclosing }()

	// loops don't cross function boundaries
	enclosingLoop := r.loopDepth
	r.loopDepth = 0
	defer func() { r.loopDepth = enclosingLoop }()

	r.beginScope()
	defer r.endScope()
	for _, param := range fn.Params {
		if err := r.declare(param); err != nil {
			return err
		}
		r.define(param)
	}
	return r.Resolve(fn.Body)
}

func (r *Resolver) resolveClass(cl *ClassStmt) error {
	enclosing := r.curClass
	r.curClass = classClass
	defer func() { r.curClass = enclosing }()

	if err := r.declare(cl.Name); err != nil {
		return err
	}
	r.define(cl.Name)

	if cl.Superclass != nil {
		if cl.Superclass.Name.Lexeme == cl.Name.Lexeme {
			return r.errAt(cl.Superclass.Name, "A class can't inherit from itself.")
		}
		r.curClass = classSubclass
		if err := r.resolveExpr(cl.Superclass); err != nil {
			return err
		}
		// reserved scope binding 'super' for the whole class body
		r.beginScope()
		defer r.endScope()
		r.innermost()["super"] = true
	}

	r.beginScope()
	defer r.endScope()
	r.innermost()["this"] = true

	for _, m := range cl.Methods {
		kind := funcMethod
		if m.Name.Lexeme == "init" {
			kind = funcInitializer
		}
		if err := r.resolveFunction(m, kind); err != nil {
			return err
		}
	}
	return nil
}

// --- expressions ---

func (r *Resolver) resolveExpr(e Expr) error {
	switch ex := e.(type) {
	case *LiteralExpr:
		return nil
	case *GroupingExpr:
		return r.resolveExpr(ex.Inner)
	case *UnaryExpr:
		return r.resolveExpr(ex.Operand)
	case *BinaryExpr:
		if err := r.resolveExpr(ex.Left); err != nil {
			return err
		}
		return r.resolveExpr(ex.Right)
	case *LogicalExpr:
		if err := r.resolveExpr(ex.Left); err != nil {
			return err
		}
		return r.resolveExpr(ex.Right)
	case *VariableExpr:
		if scope := r.innermost(); scope != nil {
			if ready, declared := scope[ex.Name.Lexeme]; declared && !ready {
				return r.errAt(ex.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(ex, ex.Name)
		return nil
	case *AssignExpr:
		if err := r.resolveExpr(ex.Value); err != nil {
			return err
		}
		r.resolveLocal(ex, ex.Name)
		return nil
	case *CallExpr:
		if err := r.resolveExpr(ex.Callee); err != nil {
			return err
		}
		for _, arg := range ex.Args {
			if err := r.resolveExpr(arg); err != nil {
				return err
			}
		}
		return nil
	case *GetExpr:
		return r.resolveExpr(ex.Object)
	case *SetExpr:
		if err := r.resolveExpr(ex.Value); err != nil {
			return err
		}
		return r.resolveExpr(ex.Object)
	case *ThisExpr:
		if r.curClass == classNone {
			return r.errAt(ex.Keyword, "Can't use 'this' outside of a class.")
		}
		r.resolveLocal(ex, ex.Keyword)
		return nil
	case *SuperExpr:
		switch r.curClass {
		case classNone:
			return r.errAt(ex.Keyword, "Can't use 'super' outside of a class.")
		case classClass:
			return r.errAt(ex.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(ex, ex.Keyword)
		return nil
	default:
		return nil
	}
}
