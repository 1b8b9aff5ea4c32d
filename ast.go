// ast.go — syntax tree node types shared by the parser, resolver,
// printer and interpreter.
//
// Expr and Stmt are small closed interfaces; one pointer struct per
// grammar production. The resolver and interpreter communicate through
// node identity: the interpreter's resolution table is keyed by the
// node pointer of each Variable/Assign/This/Super occurrence, so two
// textually identical references resolve independently and entries
// from separate parses of a long-lived interpreter never collide.
package lox

// Expr is an expression node. Every expression evaluates to exactly
// one Value.
type Expr interface{ exprNode() }

// Stmt is a statement node.
type Stmt interface{ stmtNode() }

// --- expressions ---

// LiteralExpr holds a literal value: float32, string, bool or nil.
type LiteralExpr struct {
	Value any
}

// GroupingExpr is a parenthesized expression.
type GroupingExpr struct {
	Inner Expr
}

// UnaryExpr is "!x" or "-x".
type UnaryExpr struct {
	Op      Token
	Operand Expr
}

// BinaryExpr covers arithmetic, comparison and equality operators.
type BinaryExpr struct {
	Op    Token
	Left  Expr
	Right Expr
}

// LogicalExpr is short-circuit "and"/"or". The operand value itself
// propagates, not a coerced boolean.
type LogicalExpr struct {
	Op    Token
	Left  Expr
	Right Expr
}

// VariableExpr is a variable reference. Its pointer identity keys the
// resolution table.
type VariableExpr struct {
	Name Token
}

// AssignExpr assigns to an already-declared variable.
type AssignExpr struct {
	Name  Token
	Value Expr
}

// CallExpr is callee(args...). Paren is the closing ')' token, kept
// for error reporting.
type CallExpr struct {
	Callee Expr
	Paren  Token
	Args   []Expr
}

// GetExpr reads a property: object.name.
type GetExpr struct {
	Object Expr
	Name   Token
}

// SetExpr writes a property: object.name = value.
type SetExpr struct {
	Object Expr
	Name   Token
	Value  Expr
}

// ThisExpr is a "this" reference inside a method body.
type ThisExpr struct {
	Keyword Token
}

// SuperExpr is "super.method"; Method names the superclass method to
// dispatch to.
type SuperExpr struct {
	Keyword Token
	Method  Token
}

func (*LiteralExpr) exprNode()  {}
func (*GroupingExpr) exprNode() {}
func (*UnaryExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*LogicalExpr) exprNode()  {}
func (*VariableExpr) exprNode() {}
func (*AssignExpr) exprNode()   {}
func (*CallExpr) exprNode()     {}
func (*GetExpr) exprNode()      {}
func (*SetExpr) exprNode()      {}
func (*ThisExpr) exprNode()     {}
func (*SuperExpr) exprNode()    {}

// --- statements ---

// ExpressionStmt evaluates an expression for its side effects.
type ExpressionStmt struct {
	Expression Expr
}

// PrintStmt formats and appends the value to the run's output.
type PrintStmt struct {
	Expression Expr
}

// VarStmt declares a variable; a missing initializer yields nil.
type VarStmt struct {
	Name        Token
	Initializer Expr // nil when absent
}

// BlockStmt is a brace-delimited scope.
type BlockStmt struct {
	Statements []Stmt
}

// IfStmt is a conditional with an optional else branch.
type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt // nil when absent
}

// WhileStmt loops while the condition is truthy. For-loops desugar to
// this node at parse time.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

// BreakStmt exits the innermost enclosing loop.
type BreakStmt struct {
	Keyword Token
}

// FunStmt declares a named function or a class method.
type FunStmt struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

// ReturnStmt returns from the nearest enclosing function call. Value
// is nil for a bare "return;".
type ReturnStmt struct {
	Keyword Token
	Value   Expr
}

// ClassStmt declares a class with an optional superclass and a list of
// methods.
type ClassStmt struct {
	Name       Token
	Superclass *VariableExpr // nil when absent
	Methods    []*FunStmt
}

func (*ExpressionStmt) stmtNode() {}
func (*PrintStmt) stmtNode()      {}
func (*VarStmt) stmtNode()        {}
func (*BlockStmt) stmtNode()      {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*BreakStmt) stmtNode()      {}
func (*FunStmt) stmtNode()        {}
func (*ReturnStmt) stmtNode()     {}
func (*ClassStmt) stmtNode()      {}
