// interpreter.go — public API surface and the tree-walking evaluator.
//
// The canonical entry point is Run(source): it drives the full
// Lexer → Parser → Resolver → Interpreter pipeline over a fresh
// interpreter and returns the program's accumulated print output.
// A long-lived *Interpreter (the REPL case) keeps its global scope and
// resolution table across RunSource calls.
//
// Error tiers:
//   - Recoverable static errors (lexer, parser) go to the Reporter sink
//     and the valid remainder of the program still executes.
//   - Resolver errors are fatal: RunSource returns them and nothing runs.
//   - Runtime errors abort the current RunSource invocation. Internally
//     they travel as an rtSig panic and are recovered at the Interpret
//     boundary into a *RuntimeError; the guest language has no recovery
//     construct of its own. The return signal is a completion value and
//     never crosses the error channel.
//
// A single *Interpreter is not re-entrant; do not call it from multiple
// goroutines. Evaluation is single-threaded, synchronous, depth-first
// recursion.
package lox

import (
	"fmt"
	"os"
	"strings"
)

// Interpreter executes resolved statement lists.
//
// Globals is the outermost scope, pre-populated with the native
// functions. Reporter receives recoverable lexer/parser diagnostics;
// it defaults to stderr.
type Interpreter struct {
	Globals  *Env
	Reporter Reporter

	env    *Env         // current scope; Globals between statements
	locals map[Expr]int // resolution table, keyed by reference identity
	out    strings.Builder
}

// NewInterpreter returns a ready interpreter with natives installed.
func NewInterpreter() *Interpreter {
	globals := NewEnv(nil)
	registerNatives(globals)
	return &Interpreter{
		Globals:  globals,
		Reporter: &ConsoleReporter{Out: os.Stderr},
		env:      globals,
		locals:   make(map[Expr]int),
	}
}

// Run executes source on a fresh interpreter and returns the
// concatenated print output. Re-running the same source yields
// identical output.
func Run(source string) (string, error) {
	return NewInterpreter().RunSource(source)
}

// RunSource runs the full pipeline against this interpreter's
// persistent global state and returns the print output of this call.
// On a runtime error the output produced up to the failure is returned
// alongside the error.
func (ip *Interpreter) RunSource(source string) (string, error) {
	toks := NewLexer(source, ip.Reporter).Scan()
	stmts := NewParser(toks, ip.Reporter).Parse()
	if err := NewResolver(ip).Resolve(stmts); err != nil {
		return "", WrapErrorWithSource(err, source)
	}
	out, err := ip.Interpret(stmts)
	if err != nil {
		err = WrapErrorWithSource(err, source)
	}
	return out, err
}

// Interpret executes an already-resolved statement list and returns
// the print output it produced. Most callers want Run or RunSource.
func (ip *Interpreter) Interpret(stmts []Stmt) (string, error) {
	ip.out.Reset()
	var rte error
	func() {
		defer func() {
			if r := recover(); r != nil {
				sig, ok := r.(rtSig)
				if !ok {
					panic(r)
				}
				rte = &RuntimeError{Line: sig.line, Col: sig.col, Msg: sig.msg}
			}
		}()
		for _, s := range stmts {
			ip.execStmt(s)
		}
	}()
	return ip.out.String(), rte
}

// resolve implements resolveSink: the resolver records one distance
// per reference node, once, before execution.
func (ip *Interpreter) resolve(ref Expr, dist int) {
	ip.locals[ref] = dist
}

// --- runtime error signalling ---

// rtSig is the internal panic payload for fatal dynamic errors. It is
// distinct from the return/break completion channel by construction.
type rtSig struct {
	line int
	col  int
	msg  string
}

func failTok(tok Token, msg string) {
	panic(rtSig{line: tok.Line, col: tok.Col, msg: msg})
}

// --- completions ---

type compKind int

const (
	compNormal compKind = iota
	compReturn
	compBreak
)

// completion is the outcome of executing a statement: ran to the end,
// is returning a value to the nearest call frame, or is breaking out
// of the innermost loop. Blocks propagate non-normal completions
// unchanged; while intercepts break; function calls intercept return.
type completion struct {
	kind  compKind
	value Value
}

var normal = completion{kind: compNormal}

// --- statement execution ---

func (ip *Interpreter) execStmt(s Stmt) completion {
	switch st := s.(type) {
	case *ExpressionStmt:
		ip.evalExpr(st.Expression)
		return normal
	case *PrintStmt:
		v := ip.evalExpr(st.Expression)
		ip.out.WriteString(v.Display())
		ip.out.WriteByte('\n')
		return normal
	case *VarStmt:
		v := NilVal
		if st.Initializer != nil {
			v = ip.evalExpr(st.Initializer)
		}
		ip.env.Define(st.Name.Lexeme, v)
		return normal
	case *BlockStmt:
		return ip.execBlock(st.Statements, NewEnv(ip.env))
	case *IfStmt:
		if ip.evalExpr(st.Condition).Truthy() {
			return ip.execStmt(st.Then)
		}
		if st.Else != nil {
			return ip.execStmt(st.Else)
		}
		return normal
	case *WhileStmt:
		for ip.evalExpr(st.Condition).Truthy() {
			c := ip.execStmt(st.Body)
			if c.kind == compReturn {
				return c
			}
			if c.kind == compBreak {
				break
			}
		}
		return normal
	case *BreakStmt:
		return completion{kind: compBreak}
	case *FunStmt:
		fn := &Fun{Decl: st, Closure: ip.env}
		ip.env.Define(st.Name.Lexeme, FunVal(fn))
		return normal
	case *ReturnStmt:
		v := NilVal
		if st.Value != nil {
			v = ip.evalExpr(st.Value)
		}
		return completion{kind: compReturn, value: v}
	case *ClassStmt:
		ip.execClass(st)
		return normal
	default:
		return normal
	}
}

// execBlock runs stmts in env, restoring the caller's scope on every
// exit path (including panics and early completions).
func (ip *Interpreter) execBlock(stmts []Stmt, env *Env) completion {
	prev := ip.env
	ip.env = env
	defer func() { ip.env = prev }()
	for _, s := range stmts {
		if c := ip.execStmt(s); c.kind != compNormal {
			return c
		}
	}
	return normal
}

// execClass performs two-phase class binding: the name is predeclared
// as nil so methods that reference their own class resolve, then the
// finished class value is assigned over it. When a superclass is
// present, the methods close over a temporary scope binding "super";
// that scope exists only in the closures.
func (ip *Interpreter) execClass(st *ClassStmt) {
	var superclass *Class
	if st.Superclass != nil {
		sv := ip.evalExpr(st.Superclass)
		if sv.Tag != VTClass {
			failTok(st.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sv.Data.(*Class)
	}

	ip.env.Define(st.Name.Lexeme, NilVal)

	methodEnv := ip.env
	if superclass != nil {
		methodEnv = NewEnv(ip.env)
		methodEnv.Define("super", ClassVal(superclass))
	}

	methods := make(map[string]*Fun, len(st.Methods))
	for _, m := range st.Methods {
		methods[m.Name.Lexeme] = &Fun{
			Decl:          m,
			Closure:       methodEnv,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	cls := &Class{Name: st.Name.Lexeme, Superclass: superclass, Methods: methods}
	if err := ip.env.Assign(st.Name.Lexeme, ClassVal(cls)); err != nil {
		failTok(st.Name, err.Error())
	}
}

// --- expression evaluation ---

func (ip *Interpreter) evalExpr(e Expr) Value {
	switch ex := e.(type) {
	case *LiteralExpr:
		switch v := ex.Value.(type) {
		case nil:
			return NilVal
		case bool:
			return Bool(v)
		case float32:
			return Num(v)
		case string:
			return Str(v)
		default:
			return NilVal
		}
	case *GroupingExpr:
		return ip.evalExpr(ex.Inner)
	case *UnaryExpr:
		return ip.evalUnary(ex)
	case *BinaryExpr:
		return ip.evalBinary(ex)
	case *LogicalExpr:
		left := ip.evalExpr(ex.Left)
		if ex.Op.Type == OR {
			if left.Truthy() {
				return left
			}
		} else if !left.Truthy() {
			return left
		}
		return ip.evalExpr(ex.Right)
	case *VariableExpr:
		return ip.lookupVariable(ex.Name, ex)
	case *AssignExpr:
		v := ip.evalExpr(ex.Value)
		if dist, ok := ip.locals[ex]; ok {
			if err := ip.env.AssignAt(dist, ex.Name.Lexeme, v); err != nil {
				failTok(ex.Name, err.Error())
			}
		} else if err := ip.Globals.Assign(ex.Name.Lexeme, v); err != nil {
			failTok(ex.Name, err.Error())
		}
		return v
	case *CallExpr:
		return ip.evalCall(ex)
	case *GetExpr:
		obj := ip.evalExpr(ex.Object)
		if obj.Tag != VTInstance {
			failTok(ex.Name, "Only instances have properties.")
		}
		v, ok := obj.Data.(*Instance).get(ex.Name.Lexeme)
		if !ok {
			failTok(ex.Name, fmt.Sprintf("Undefined property '%s'.", ex.Name.Lexeme))
		}
		return v
	case *SetExpr:
		obj := ip.evalExpr(ex.Object)
		if obj.Tag != VTInstance {
			failTok(ex.Name, "Only instances have fields.")
		}
		v := ip.evalExpr(ex.Value)
		obj.Data.(*Instance).set(ex.Name.Lexeme, v)
		return v
	case *ThisExpr:
		return ip.lookupVariable(ex.Keyword, ex)
	case *SuperExpr:
		return ip.evalSuper(ex)
	default:
		return NilVal
	}
}

// lookupVariable consults the resolution table first; a recorded
// distance is applied directly against the scope chain, a miss falls
// back to the dynamic global walk.
func (ip *Interpreter) lookupVariable(name Token, ref Expr) Value {
	if dist, ok := ip.locals[ref]; ok {
		v, err := ip.env.GetAt(dist, name.Lexeme)
		if err != nil {
			failTok(name, err.Error())
		}
		return v
	}
	v, err := ip.Globals.Get(name.Lexeme)
	if err != nil {
		failTok(name, err.Error())
	}
	return v
}

func (ip *Interpreter) evalUnary(ex *UnaryExpr) Value {
	operand := ip.evalExpr(ex.Operand)
	switch ex.Op.Type {
	case BANG:
		return Bool(!operand.Truthy())
	case MINUS:
		if operand.Tag != VTNum {
			failTok(ex.Op, "Operand must be a number.")
		}
		return Num(-operand.Data.(float32))
	}
	failTok(ex.Op, "Unknown unary operator.")
	return NilVal
}

func (ip *Interpreter) evalBinary(ex *BinaryExpr) Value {
	left := ip.evalExpr(ex.Left)
	right := ip.evalExpr(ex.Right)

	switch ex.Op.Type {
	case PLUS:
		if left.Tag == VTNum && right.Tag == VTNum {
			return Num(left.Data.(float32) + right.Data.(float32))
		}
		if left.Tag == VTStr && right.Tag == VTStr {
			return Str(left.Data.(string) + right.Data.(string))
		}
		failTok(ex.Op, "Operands must be two numbers or two strings.")
	case MINUS, STAR, SLASH:
		if left.Tag != VTNum || right.Tag != VTNum {
			failTok(ex.Op, "Operands must be numbers.")
		}
		a, b := left.Data.(float32), right.Data.(float32)
		switch ex.Op.Type {
		case MINUS:
			return Num(a - b)
		case STAR:
			return Num(a * b)
		default:
			return Num(a / b)
		}
	case GREATER, GREATER_EQ, LESS, LESS_EQ:
		return ip.evalComparison(ex.Op, left, right)
	case EQUAL_EQ:
		return Bool(left.Equal(right))
	case BANG_EQ:
		return Bool(!left.Equal(right))
	}
	failTok(ex.Op, "Unknown binary operator.")
	return NilVal
}

// evalComparison orders same-variant Num, Str or Bool operands
// (false < true); any other combination is a runtime type error.
func (ip *Interpreter) evalComparison(op Token, left, right Value) Value {
	var less, eq bool
	switch {
	case left.Tag == VTNum && right.Tag == VTNum:
		a, b := left.Data.(float32), right.Data.(float32)
		less, eq = a < b, a == b
	case left.Tag == VTStr && right.Tag == VTStr:
		a, b := left.Data.(string), right.Data.(string)
		less, eq = a < b, a == b
	case left.Tag == VTBool && right.Tag == VTBool:
		a, b := left.Data.(bool), right.Data.(bool)
		less, eq = !a && b, a == b
	default:
		failTok(op, "Operands must be two numbers, two strings or two booleans.")
	}
	switch op.Type {
	case GREATER:
		return Bool(!less && !eq)
	case GREATER_EQ:
		return Bool(!less)
	case LESS:
		return Bool(less)
	default: // LESS_EQ
		return Bool(less || eq)
	}
}

func (ip *Interpreter) evalCall(ex *CallExpr) Value {
	callee := ip.evalExpr(ex.Callee)
	args := make([]Value, 0, len(ex.Args))
	for _, a := range ex.Args {
		args = append(args, ip.evalExpr(a))
	}
	fn, ok := asCallable(callee)
	if !ok {
		failTok(ex.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.arity() {
		failTok(ex.Paren, fmt.Sprintf("Expected %d arguments but got %d.", fn.arity(), len(args)))
	}
	return fn.invoke(ip, args)
}

// evalSuper dispatches super.method: the superclass binding lives at
// the recorded distance, the receiving instance one scope nearer. The
// lookup starts at the superclass table, skipping the instance's own
// class, and the result is bound to the current instance.
func (ip *Interpreter) evalSuper(ex *SuperExpr) Value {
	dist, ok := ip.locals[ex]
	if !ok {
		failTok(ex.Keyword, "Unresolved 'super'.")
	}
	superV, err := ip.env.GetAt(dist, "super")
	if err != nil {
		failTok(ex.Keyword, err.Error())
	}
	thisV, err := ip.env.GetAt(dist-1, "this")
	if err != nil {
		failTok(ex.Keyword, err.Error())
	}
	method := superV.Data.(*Class).findMethod(ex.Method.Lexeme)
	if method == nil {
		failTok(ex.Method, fmt.Sprintf("Undefined property '%s'.", ex.Method.Lexeme))
	}
	return FunVal(method.bind(thisV.Data.(*Instance)))
}
