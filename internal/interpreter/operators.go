package interpreter

import (
	"fmt"

	"ember/internal/errors"
	"ember/internal/lexer"
	"ember/internal/parser"
)

func (in *Interpreter) unary(e *parser.Unary) (Value, error) {
	operand, err := in.evaluate(e.Operand)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case lexer.TokenMinus:
		n, ok := operand.(Number)
		if !ok {
			return nil, typeError(e.Operator, "operand must be a number, got %s", TypeName(operand))
		}
		return -n, nil
	case lexer.TokenNot:
		return Bool(!Truthy(operand)), nil
	}
	return nil, unknownOperator(e.Operator)
}

// logical returns an operand itself rather than a coerced boolean, and
// evaluates the right operand only when the left one does not decide.
func (in *Interpreter) logical(e *parser.Logical) (Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case lexer.TokenOr:
		if Truthy(left) {
			return left, nil
		}
	case lexer.TokenAnd:
		if !Truthy(left) {
			return left, nil
		}
	default:
		return nil, unknownOperator(e.Operator)
	}
	return in.evaluate(e.Right)
}

func (in *Interpreter) binary(e *parser.Binary) (Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	op := e.Operator
	switch op.Type {
	case lexer.TokenDoubleEqual:
		return Bool(Equal(left, right)), nil
	case lexer.TokenNotEqual:
		return Bool(!Equal(left, right)), nil

	case lexer.TokenPlus:
		switch l := left.(type) {
		case Number:
			if r, ok := right.(Number); ok {
				return l + r, nil
			}
		case String:
			if r, ok := right.(String); ok {
				return l + r, nil
			}
		}
		return nil, typeError(op, "operands must be two numbers or two strings, got %s and %s", TypeName(left), TypeName(right))
	}

	l, r, err := numberOperands(op, left, right)
	if err != nil {
		return nil, err
	}
	switch op.Type {
	case lexer.TokenMinus:
		return l - r, nil
	case lexer.TokenStar:
		return l * r, nil
	case lexer.TokenSlash:
		return l / r, nil
	case lexer.TokenGT:
		return Bool(l > r), nil
	case lexer.TokenGE:
		return Bool(l >= r), nil
	case lexer.TokenLT:
		return Bool(l < r), nil
	case lexer.TokenLE:
		return Bool(l <= r), nil
	}
	return nil, unknownOperator(op)
}

func numberOperands(op lexer.Token, left, right Value) (Number, Number, error) {
	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		return 0, 0, typeError(op, "operands must be numbers, got %s and %s", TypeName(left), TypeName(right))
	}
	return l, r, nil
}

func typeError(op lexer.Token, format string, args ...any) error {
	return errors.NewTypeError(fmt.Sprintf(format, args...), op.Line, op.Lexeme)
}

func unknownOperator(op lexer.Token) error {
	return errors.NewRuntimeError(fmt.Sprintf("unknown operator '%s'", op.Lexeme), op.Line, op.Lexeme)
}
