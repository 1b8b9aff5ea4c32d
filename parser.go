// parser.go — recursive-descent parser for Lox.
//
// Precedence ladder, lowest to highest:
//
//	assignment → or → and → equality → comparison → term → factor →
//	unary → call/property → primary
//
// Error policy: a grammatic failure is reported through the diagnostics
// sink, then the parser discards tokens up to the next statement
// boundary (a semicolon or a statement-leading keyword) and resumes.
// Parse therefore yields as many well-formed top-level statements as it
// can reconstruct from a malformed program instead of aborting on the
// first error.
package lox

// parseErr is the internal unwinding sentinel for a single bad
// statement. The user-facing diagnostic has already been sent to the
// sink by the time one is returned.
type parseErr struct {
	tok Token
	msg string
}

func (e *parseErr) Error() string { return e.msg }

// Parser turns a token slice into a statement list.
type Parser struct {
	toks []Token
	i    int
	rep  Reporter
}

// NewParser creates a parser over toks. Syntax errors are reported
// through rep; a nil rep discards them.
func NewParser(toks []Token, rep Reporter) *Parser {
	if rep == nil {
		rep = discardReporter{}
	}
	return &Parser{toks: toks, rep: rep}
}

// Parse consumes the whole token stream and returns the statement
// list, possibly partial when synchronization skipped bad input.
func (p *Parser) Parse() []Stmt {
	var stmts []Stmt
	for !p.atEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// --- token basics ---

func (p *Parser) atEnd() bool { return p.peek().Type == EOF }

func (p *Parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *Parser) prev() Token { return p.toks[p.i-1] }

func (p *Parser) check(tt TokenType) bool { return p.peek().Type == tt }

func (p *Parser) match(tt ...TokenType) bool {
	if p.atEnd() {
		return false
	}
	for _, t := range tt {
		if p.peek().Type == t {
			p.i++
			return true
		}
	}
	return false
}

// need consumes a token of type t or returns a reported parse error.
func (p *Parser) need(t TokenType, msg string) (Token, error) {
	if p.match(t) {
		return p.prev(), nil
	}
	return Token{}, p.errAt(p.peek(), msg)
}

// errAt reports the diagnostic and builds the unwinding sentinel.
func (p *Parser) errAt(tok Token, msg string) error {
	reportToken(p.rep, tok, msg)
	return &parseErr{tok: tok, msg: msg}
}

// synchronize discards tokens until a likely statement boundary: just
// past a semicolon, or right before a statement-leading keyword.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		if p.match(SEMICOLON) {
			return
		}
		switch p.peek().Type {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN, BREAK:
			return
		}
		p.i++
	}
}

// --- declarations & statements ---

func (p *Parser) declaration() Stmt {
	var s Stmt
	var err error
	switch {
	case p.match(CLASS):
		s, err = p.classDeclaration()
	case p.match(FUN):
		s, err = p.function("function")
	case p.match(VAR):
		s, err = p.varDeclaration()
	default:
		s, err = p.statement()
	}
	if err != nil {
		p.synchronize()
		return nil
	}
	return s
}

func (p *Parser) classDeclaration() (Stmt, error) {
	name, err := p.need(IDENTIFIER, "Expect class name.")
	if err != nil {
		return nil, err
	}
	var super *VariableExpr
	if p.match(LESS) {
		sup, err := p.need(IDENTIFIER, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		super = &VariableExpr{Name: sup}
	}
	if _, err := p.need(LBRACE, "Expect '{' before class body."); err != nil {
		return nil, err
	}
	var methods []*FunStmt
	for !p.check(RBRACE) && !p.atEnd() {
		m, err := p.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if _, err := p.need(RBRACE, "Expect '}' after class body."); err != nil {
		return nil, err
	}
	return &ClassStmt{Name: name, Superclass: super, Methods: methods}, nil
}

// function parses a named function. Methods reuse it without a leading
// 'fun' keyword; kind only flavors error messages.
func (p *Parser) function(kind string) (*FunStmt, error) {
	name, err := p.need(IDENTIFIER, "Expect "+kind+" name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LPAREN, "Expect '(' after "+kind+" name."); err != nil {
		return nil, err
	}
	var params []Token
	if !p.check(RPAREN) {
		for {
			par, err := p.need(IDENTIFIER, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, par)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RPAREN, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.need(LBRACE, "Expect '{' before "+kind+" body."); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &FunStmt{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) varDeclaration() (Stmt, error) {
	name, err := p.need(IDENTIFIER, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var init Expr
	if p.match(EQUAL) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &VarStmt{Name: name, Initializer: init}, nil
}

func (p *Parser) statement() (Stmt, error) {
	switch {
	case p.match(PRINT):
		return p.printStatement()
	case p.match(RETURN):
		return p.returnStatement()
	case p.match(BREAK):
		return p.breakStatement()
	case p.match(IF):
		return p.ifStatement()
	case p.match(WHILE):
		return p.whileStatement()
	case p.match(FOR):
		return p.forStatement()
	case p.match(LBRACE):
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Statements: stmts}, nil
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() (Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &PrintStmt{Expression: value}, nil
}

func (p *Parser) returnStatement() (Stmt, error) {
	keyword := p.prev()
	var value Expr
	if !p.check(SEMICOLON) {
		var err error
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ReturnStmt{Keyword: keyword, Value: value}, nil
}

func (p *Parser) breakStatement() (Stmt, error) {
	keyword := p.prev()
	if _, err := p.need(SEMICOLON, "Expect ';' after 'break'."); err != nil {
		return nil, err
	}
	return &BreakStmt{Keyword: keyword}, nil
}

func (p *Parser) ifStatement() (Stmt, error) {
	if _, err := p.need(LPAREN, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RPAREN, "Expect ')' after if condition."); err != nil {
		return nil, err
	}
	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch Stmt
	if p.match(ELSE) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{Condition: cond, Then: thenBranch, Else: elseBranch}, nil
}

func (p *Parser) whileStatement() (Stmt, error) {
	if _, err := p.need(LPAREN, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RPAREN, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: cond, Body: body}, nil
}

// forStatement desugars at parse time:
//
//	for (init; cond; inc) body
//
// becomes
//
//	{ init; while (cond) { body; inc; } }
//
// with a missing condition defaulting to literal true.
func (p *Parser) forStatement() (Stmt, error) {
	if _, err := p.need(LPAREN, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var init Stmt
	var err error
	switch {
	case p.match(SEMICOLON):
		init = nil
	case p.match(VAR):
		init, err = p.varDeclaration()
	default:
		init, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var cond Expr
	if !p.check(SEMICOLON) {
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var inc Expr
	if !p.check(RPAREN) {
		inc, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(RPAREN, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if inc != nil {
		body = &BlockStmt{Statements: []Stmt{body, &ExpressionStmt{Expression: inc}}}
	}
	if cond == nil {
		cond = &LiteralExpr{Value: true}
	}
	var loop Stmt = &WhileStmt{Condition: cond, Body: body}
	if init != nil {
		loop = &BlockStmt{Statements: []Stmt{init, loop}}
	}
	return loop, nil
}

// block parses statements until '}'. The opening brace has already
// been consumed. Bad statements inside a block synchronize locally so
// the rest of the block still parses.
func (p *Parser) block() ([]Stmt, error) {
	var stmts []Stmt
	for !p.check(RBRACE) && !p.atEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	if _, err := p.need(RBRACE, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) expressionStatement() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMICOLON, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ExpressionStmt{Expression: expr}, nil
}

// --- expressions ---

func (p *Parser) expression() (Expr, error) { return p.assignment() }

// assignment is right-associative; only a plain variable reference or a
// property get is a valid target (rewritten to Assign/Set).
func (p *Parser) assignment() (Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.match(EQUAL) {
		equals := p.prev()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		switch target := expr.(type) {
		case *VariableExpr:
			return &AssignExpr{Name: target.Name, Value: value}, nil
		case *GetExpr:
			return &SetExpr{Object: target.Object, Name: target.Name, Value: value}, nil
		}
		return nil, p.errAt(equals, "Invalid assignment target.")
	}
	return expr, nil
}

func (p *Parser) or() (Expr, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(OR) {
		op := p.prev()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) and() (Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(AND) {
		op := p.prev()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(EQUAL_EQ, BANG_EQ) {
		op := p.prev()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) comparison() (Expr, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(GREATER, GREATER_EQ, LESS, LESS_EQ) {
		op := p.prev()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) term() (Expr, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(PLUS, MINUS) {
		op := p.prev()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) factor() (Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(STAR, SLASH) {
		op := p.prev()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) unary() (Expr, error) {
	if p.match(BANG, MINUS) {
		op := p.prev()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Operand: operand}, nil
	}
	return p.call()
}

// call greedily chains call parentheses and property accesses after a
// primary, supporting shapes like obj.method().field.
func (p *Parser) call() (Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(LPAREN):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(DOT):
			name, err := p.need(IDENTIFIER, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = &GetExpr{Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee Expr) (Expr, error) {
	var args []Expr
	if !p.check(RPAREN) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren, err := p.need(RPAREN, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &CallExpr{Callee: callee, Paren: paren, Args: args}, nil
}

func (p *Parser) primary() (Expr, error) {
	switch {
	case p.match(FALSE):
		return &LiteralExpr{Value: false}, nil
	case p.match(TRUE):
		return &LiteralExpr{Value: true}, nil
	case p.match(NIL):
		return &LiteralExpr{Value: nil}, nil
	case p.match(NUMBER, STRING):
		return &LiteralExpr{Value: p.prev().Literal}, nil
	case p.match(THIS):
		return &ThisExpr{Keyword: p.prev()}, nil
	case p.match(SUPER):
		keyword := p.prev()
		if _, err := p.need(DOT, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.need(IDENTIFIER, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return &SuperExpr{Keyword: keyword, Method: method}, nil
	case p.match(IDENTIFIER):
		return &VariableExpr{Name: p.prev()}, nil
	case p.match(LPAREN):
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RPAREN, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &GroupingExpr{Inner: inner}, nil
	}
	return nil, p.errAt(p.peek(), "Expect expression.")
}
