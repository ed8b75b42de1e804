// internal/parser/stmt.go
package parser

import "ember/internal/lexer"

// Stmt represents a top-level statement.
type Stmt interface {
	Pos() lexer.Token
	stmtNode()
}

// ExpressionStmt wraps a raw expression as a statement.
type ExpressionStmt struct {
	Expr Expr
}

func (e *ExpressionStmt) Pos() lexer.Token { return e.Expr.Pos() }
func (e *ExpressionStmt) stmtNode()        {}

// PrintStmt wraps an expression to print.
type PrintStmt struct {
	Keyword lexer.Token
	Expr    Expr
}

func (p *PrintStmt) Pos() lexer.Token { return p.Keyword }
func (p *PrintStmt) stmtNode()        {}

// LetStmt represents a variable declaration: let x = expr;
// Initializer is nil when the declaration has none.
type LetStmt struct {
	Name        lexer.Token
	Initializer Expr
}

func (l *LetStmt) Pos() lexer.Token { return l.Name }
func (l *LetStmt) stmtNode()        {}

// BlockStmt is a braced list of declarations with its own scope.
type BlockStmt struct {
	Brace      lexer.Token
	Statements []Stmt
}

func (b *BlockStmt) Pos() lexer.Token { return b.Brace }
func (b *BlockStmt) stmtNode()        {}

// IfStmt: if cond stmt else stmt. Else is nil when absent.
type IfStmt struct {
	Keyword   lexer.Token
	Condition Expr
	Then      Stmt
	Else      Stmt
}

func (i *IfStmt) Pos() lexer.Token { return i.Keyword }
func (i *IfStmt) stmtNode()        {}
