// printer.go — deterministic parenthesized rendering of the syntax
// tree, used by the `lox ast` subcommand and by tests that assert on
// parse shape. Expressions render in prefix form: 1 + 2 * 3 becomes
// (+ 1 (* 2 3)).
package lox

import (
	"sort"
	"strings"
)

// PrintAST renders a statement list one statement per line.
func PrintAST(stmts []Stmt) string {
	var b strings.Builder
	for i, s := range stmts {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(printStmt(s))
	}
	return b.String()
}

// PrintExpr renders one expression in prefix form.
func PrintExpr(e Expr) string { return printExpr(e) }

func parens(parts ...string) string {
	return "(" + strings.Join(parts, " ") + ")"
}

func printStmt(s Stmt) string {
	switch st := s.(type) {
	case *ExpressionStmt:
		return parens("expr", printExpr(st.Expression))
	case *PrintStmt:
		return parens("print", printExpr(st.Expression))
	case *VarStmt:
		if st.Initializer == nil {
			return parens("var", st.Name.Lexeme)
		}
		return parens("var", st.Name.Lexeme, printExpr(st.Initializer))
	case *BlockStmt:
		parts := []string{"block"}
		for _, inner := range st.Statements {
			parts = append(parts, printStmt(inner))
		}
		return parens(parts...)
	case *IfStmt:
		if st.Else == nil {
			return parens("if", printExpr(st.Condition), printStmt(st.Then))
		}
		return parens("if", printExpr(st.Condition), printStmt(st.Then), printStmt(st.Else))
	case *WhileStmt:
		return parens("while", printExpr(st.Condition), printStmt(st.Body))
	case *BreakStmt:
		return parens("break")
	case *FunStmt:
		return printFun("fun", st)
	case *ReturnStmt:
		if st.Value == nil {
			return parens("return")
		}
		return parens("return", printExpr(st.Value))
	case *ClassStmt:
		parts := []string{"class", st.Name.Lexeme}
		if st.Superclass != nil {
			parts = append(parts, "(< "+st.Superclass.Name.Lexeme+")")
		}
		// methods sort by name for stable output
		methods := append([]*FunStmt(nil), st.Methods...)
		sort.Slice(methods, func(i, j int) bool {
			return methods[i].Name.Lexeme < methods[j].Name.Lexeme
		})
		for _, m := range methods {
			parts = append(parts, printFun("method", m))
		}
		return parens(parts...)
	default:
		return "(?)"
	}
}

func printFun(tag string, fn *FunStmt) string {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Lexeme
	}
	parts := []string{tag, fn.Name.Lexeme, parens(params...)}
	for _, s := range fn.Body {
		parts = append(parts, printStmt(s))
	}
	return parens(parts...)
}

func printExpr(e Expr) string {
	switch ex := e.(type) {
	case *LiteralExpr:
		switch v := ex.Value.(type) {
		case nil:
			return "nil"
		case string:
			return `"` + v + `"`
		case float32:
			return Num(v).Display()
		case bool:
			return Bool(v).Display()
		default:
			return "?"
		}
	case *GroupingExpr:
		return parens("group", printExpr(ex.Inner))
	case *UnaryExpr:
		return parens(ex.Op.Lexeme, printExpr(ex.Operand))
	case *BinaryExpr:
		return parens(ex.Op.Lexeme, printExpr(ex.Left), printExpr(ex.Right))
	case *LogicalExpr:
		return parens(ex.Op.Lexeme, printExpr(ex.Left), printExpr(ex.Right))
	case *VariableExpr:
		return ex.Name.Lexeme
	case *AssignExpr:
		return parens("=", ex.Name.Lexeme, printExpr(ex.Value))
	case *CallExpr:
		parts := []string{"call", printExpr(ex.Callee)}
		for _, a := range ex.Args {
			parts = append(parts, printExpr(a))
		}
		return parens(parts...)
	case *GetExpr:
		return parens(".", printExpr(ex.Object), ex.Name.Lexeme)
	case *SetExpr:
		return parens("=", parens(".", printExpr(ex.Object), ex.Name.Lexeme), printExpr(ex.Value))
	case *ThisExpr:
		return "this"
	case *SuperExpr:
		return parens("super", ex.Method.Lexeme)
	default:
		return "?"
	}
}
