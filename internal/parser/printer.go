package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Sprint renders an expression or statement as a parenthesized prefix
// form, e.g. "(+ 1 (* 2 3))". It is used by the ast command and by tests
// that check precedence and associativity.
func Sprint(node any) string {
	var sb strings.Builder
	writeNode(&sb, node)
	return sb.String()
}

func writeNode(sb *strings.Builder, node any) {
	switch n := node.(type) {
	case *Literal:
		sb.WriteString(literalText(n.Value))
	case *Grouping:
		parenthesize(sb, "group", n.Inner)
	case *Unary:
		parenthesize(sb, n.Operator.Lexeme, n.Operand)
	case *Binary:
		parenthesize(sb, n.Operator.Lexeme, n.Left, n.Right)
	case *Logical:
		parenthesize(sb, n.Operator.Lexeme, n.Left, n.Right)
	case *Variable:
		sb.WriteString(n.Name.Lexeme)
	case *Assign:
		parenthesize(sb, "= "+n.Name.Lexeme, n.Value)
	case *ExpressionStmt:
		parenthesize(sb, ";", n.Expr)
	case *PrintStmt:
		parenthesize(sb, "print", n.Expr)
	case *LetStmt:
		if n.Initializer == nil {
			sb.WriteString("(let " + n.Name.Lexeme + ")")
			return
		}
		parenthesize(sb, "let "+n.Name.Lexeme, n.Initializer)
	case *BlockStmt:
		parts := make([]any, len(n.Statements))
		for i, s := range n.Statements {
			parts[i] = s
		}
		parenthesize(sb, "block", parts...)
	case *IfStmt:
		if n.Else == nil {
			parenthesize(sb, "if", n.Condition, n.Then)
			return
		}
		parenthesize(sb, "if-else", n.Condition, n.Then, n.Else)
	default:
		fmt.Fprintf(sb, "<%T>", node)
	}
}

func parenthesize(sb *strings.Builder, name string, parts ...any) {
	sb.WriteString("(")
	sb.WriteString(name)
	for _, part := range parts {
		sb.WriteString(" ")
		writeNode(sb, part)
	}
	sb.WriteString(")")
}

func literalText(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(v)
}
