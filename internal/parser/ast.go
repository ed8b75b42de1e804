package parser

import "ember/internal/lexer"

// Expr is a closed set of expression nodes. Consumers switch on the
// concrete type; exprNode keeps the set sealed to this package.
type Expr interface {
	Pos() lexer.Token
	exprNode()
}

// Literal expression: number, string, boolean or nil.
// Value is float64, string, bool or nil.
type Literal struct {
	Token lexer.Token
	Value any
}

func (l *Literal) Pos() lexer.Token { return l.Token }
func (l *Literal) exprNode()        {}

// Grouping expression: ( inner )
type Grouping struct {
	Paren lexer.Token
	Inner Expr
}

func (g *Grouping) Pos() lexer.Token { return g.Paren }
func (g *Grouping) exprNode()        {}

// Unary expression: !x, -x
type Unary struct {
	Operator lexer.Token
	Operand  Expr
}

func (u *Unary) Pos() lexer.Token { return u.Operator }
func (u *Unary) exprNode()        {}

// Binary expression: a + b
type Binary struct {
	Left     Expr
	Operator lexer.Token
	Right    Expr
}

func (b *Binary) Pos() lexer.Token { return b.Operator }
func (b *Binary) exprNode()        {}

// Logical expression: a and b, a or b
type Logical struct {
	Left     Expr
	Operator lexer.Token
	Right    Expr
}

func (l *Logical) Pos() lexer.Token { return l.Operator }
func (l *Logical) exprNode()        {}

// Variable expression: x
type Variable struct {
	Name lexer.Token
}

func (v *Variable) Pos() lexer.Token { return v.Name }
func (v *Variable) exprNode()        {}

// Assignment expression: x = 42
type Assign struct {
	Name  lexer.Token
	Value Expr
}

func (a *Assign) Pos() lexer.Token { return a.Name }
func (a *Assign) exprNode()        {}
