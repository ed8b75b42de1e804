// internal/parser/parser.go
package parser

import (
	"fmt"

	"ember/internal/errors"
	"ember/internal/lexer"
)

// DefaultMaxDepth bounds statement and expression nesting so that hostile
// input produces a syntax error instead of exhausting the Go stack.
const DefaultMaxDepth = 512

type Parser struct {
	tokens   []lexer.Token
	current  int
	depth    int
	maxDepth int
	tooDeep  bool
	Errors   []error
}

func NewParser(tokens []lexer.Token) *Parser {
	return &Parser{
		tokens:   tokens,
		current:  0,
		maxDepth: DefaultMaxDepth,
		Errors:   []error{},
	}
}

// WithMaxDepth overrides the nesting limit. Values below 1 keep the default.
func (p *Parser) WithMaxDepth(n int) *Parser {
	if n > 0 {
		p.maxDepth = n
	}
	return p
}

// Parse parses tokens into statements and returns every syntax error found
// along the way. Malformed declarations are dropped; the rest still parse.
func Parse(tokens []lexer.Token) ([]Stmt, []error) {
	p := NewParser(tokens)
	stmts := p.Parse()
	return stmts, p.Errors
}

// Parse consumes the whole token stream. Errors are collected in p.Errors.
func (p *Parser) Parse() []Stmt {
	var stmts []Stmt
	if len(p.tokens) == 0 {
		return stmts
	}
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// declaration is the recovery point: a syntax error anywhere below it is
// recorded, the parser resynchronizes, and nil is returned. A nesting
// overflow unwinds to the outermost declaration and is reported once.
func (p *Parser) declaration() (stmt Stmt) {
	start := p.current
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(*errors.Error)
			if !ok {
				panic(r)
			}
			if p.tooDeep && p.depth > 0 {
				panic(err)
			}
			p.Errors = append(p.Errors, err)
			if p.tooDeep {
				p.tooDeep = false
				p.skipDeclaration(start)
			} else {
				p.synchronize()
			}
			stmt = nil
		}
	}()

	if p.match(lexer.TokenLet) {
		return p.letDeclaration()
	}
	return p.statement()
}

func (p *Parser) letDeclaration() Stmt {
	name := p.consume(lexer.TokenIdent, "expect variable name")

	var initializer Expr
	if p.match(lexer.TokenEqual) {
		initializer = p.expression()
	}
	p.consume(lexer.TokenSemicolon, "expect ';' after variable declaration")
	return &LetStmt{Name: name, Initializer: initializer}
}

func (p *Parser) statement() Stmt {
	p.nest()
	defer p.unnest()

	if p.match(lexer.TokenPrint) {
		return p.printStatement()
	}
	if p.match(lexer.TokenLBrace) {
		return p.block()
	}
	if p.match(lexer.TokenIf) {
		return p.ifStatement()
	}
	return p.expressionStatement()
}

func (p *Parser) printStatement() Stmt {
	keyword := p.previous()
	expr := p.expression()
	p.consume(lexer.TokenSemicolon, "expect ';' after value")
	return &PrintStmt{Keyword: keyword, Expr: expr}
}

func (p *Parser) expressionStatement() Stmt {
	expr := p.expression()
	p.consume(lexer.TokenSemicolon, "expect ';' after expression")
	return &ExpressionStmt{Expr: expr}
}

func (p *Parser) block() Stmt {
	brace := p.previous()
	stmts := []Stmt{}
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(lexer.TokenRBrace, "expect '}' after block")
	return &BlockStmt{Brace: brace, Statements: stmts}
}

func (p *Parser) ifStatement() Stmt {
	keyword := p.previous()
	condition := p.expression()
	thenBranch := p.statement()

	var elseBranch Stmt
	if p.match(lexer.TokenElse) {
		elseBranch = p.statement()
	}
	return &IfStmt{Keyword: keyword, Condition: condition, Then: thenBranch, Else: elseBranch}
}

// --- Expressions, lowest precedence first ---

func (p *Parser) expression() Expr {
	p.nest()
	defer p.unnest()
	return p.assignment()
}

func (p *Parser) assignment() Expr {
	expr := p.or()

	if p.match(lexer.TokenEqual) {
		equals := p.previous()
		p.nest()
		defer p.unnest()
		value := p.assignment()

		if v, ok := expr.(*Variable); ok {
			return &Assign{Name: v.Name, Value: value}
		}
		panic(p.errorAt(equals, "invalid assignment target"))
	}
	return expr
}

func (p *Parser) or() Expr {
	expr := p.and()
	for p.match(lexer.TokenOr) {
		operator := p.previous()
		right := p.and()
		expr = &Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) and() Expr {
	expr := p.equality()
	for p.match(lexer.TokenAnd) {
		operator := p.previous()
		right := p.equality()
		expr = &Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) equality() Expr {
	expr := p.comparison()
	for p.match(lexer.TokenNotEqual, lexer.TokenDoubleEqual) {
		operator := p.previous()
		right := p.comparison()
		expr = &Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) comparison() Expr {
	expr := p.term()
	for p.match(lexer.TokenGT, lexer.TokenGE, lexer.TokenLT, lexer.TokenLE) {
		operator := p.previous()
		right := p.term()
		expr = &Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) term() Expr {
	expr := p.factor()
	for p.match(lexer.TokenMinus, lexer.TokenPlus) {
		operator := p.previous()
		right := p.factor()
		expr = &Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) factor() Expr {
	expr := p.unary()
	for p.match(lexer.TokenSlash, lexer.TokenStar) {
		operator := p.previous()
		right := p.unary()
		expr = &Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) unary() Expr {
	if p.match(lexer.TokenNot, lexer.TokenMinus) {
		p.nest()
		defer p.unnest()
		operator := p.previous()
		operand := p.unary()
		return &Unary{Operator: operator, Operand: operand}
	}
	return p.primary()
}

func (p *Parser) primary() Expr {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenFalse:
		p.advance()
		return &Literal{Token: tok, Value: false}
	case lexer.TokenTrue:
		p.advance()
		return &Literal{Token: tok, Value: true}
	case lexer.TokenNil:
		p.advance()
		return &Literal{Token: tok, Value: nil}
	case lexer.TokenNumber:
		p.advance()
		v, ok := tok.Literal.(float64)
		if !ok {
			panic(p.errorAt(tok, "number token without a numeric payload"))
		}
		return &Literal{Token: tok, Value: v}
	case lexer.TokenString:
		p.advance()
		v, ok := tok.Literal.(string)
		if !ok {
			panic(p.errorAt(tok, "string token without a text payload"))
		}
		return &Literal{Token: tok, Value: v}
	case lexer.TokenIdent:
		p.advance()
		return &Variable{Name: tok}
	case lexer.TokenLParen:
		p.advance()
		inner := p.expression()
		p.consume(lexer.TokenRParen, "expect ')' after expression")
		return &Grouping{Paren: tok, Inner: inner}
	}
	panic(p.errorAt(tok, "expect expression"))
}

// --- Utility methods ---

// synchronize discards tokens until just past a ';' or until the next
// token starts a declaration or statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == lexer.TokenSemicolon {
			return
		}
		switch p.peek().Type {
		case lexer.TokenLet, lexer.TokenPrint, lexer.TokenIf:
			return
		}
		p.advance()
	}
}

// skipDeclaration rewinds to start and discards the whole declaration:
// up to a ';' outside braces or the '}' that closes its outermost block.
func (p *Parser) skipDeclaration(start int) {
	p.current = start
	balance := 0
	for !p.isAtEnd() {
		tok := p.advance()
		switch tok.Type {
		case lexer.TokenLBrace:
			balance++
		case lexer.TokenRBrace:
			balance--
			if balance <= 0 {
				return
			}
		case lexer.TokenSemicolon:
			if balance == 0 {
				return
			}
		}
	}
}

func (p *Parser) nest() {
	p.depth++
	if p.depth > p.maxDepth {
		p.depth--
		p.tooDeep = true
		panic(p.errorAt(p.peek(), fmt.Sprintf("too deeply nested (limit %d)", p.maxDepth)))
	}
}

func (p *Parser) unnest() {
	p.depth--
}

func (p *Parser) errorAt(tok lexer.Token, msg string) *errors.Error {
	if tok.Type == lexer.TokenEOF {
		return errors.NewSyntaxErrorAtEnd(msg, tok.Line)
	}
	return errors.NewSyntaxError(msg, tok.Line, tok.Lexeme)
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t lexer.TokenType, msg string) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	panic(p.errorAt(p.peek(), msg))
}

func (p *Parser) check(t lexer.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) previous() lexer.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.TokenEOF
}
