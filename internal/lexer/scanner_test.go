package lexer

import (
	"testing"

	"ember/internal/errors"
)

func scanTypes(t *testing.T, input string) []TokenType {
	t.Helper()
	tokens, errs := NewScanner(input).ScanTokens()
	if len(errs) > 0 {
		t.Fatalf("unexpected scan errors: %v", errs)
	}
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestScanTokenTypes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{"empty", "", []TokenType{TokenEOF}},
		{"let statement", "let a = 1;", []TokenType{TokenLet, TokenIdent, TokenEqual, TokenNumber, TokenSemicolon, TokenEOF}},
		{"two char operators", "!= == >= <= ! = > <", []TokenType{TokenNotEqual, TokenDoubleEqual, TokenGE, TokenLE, TokenNot, TokenEqual, TokenGT, TokenLT, TokenEOF}},
		{"keywords", "print if else and or true false nil", []TokenType{TokenPrint, TokenIf, TokenElse, TokenAnd, TokenOr, TokenTrue, TokenFalse, TokenNil, TokenEOF}},
		{"comment", "1 // ignored ;\n2", []TokenType{TokenNumber, TokenNumber, TokenEOF}},
		{"block", "{ a; }", []TokenType{TokenLBrace, TokenIdent, TokenSemicolon, TokenRBrace, TokenEOF}},
		{"arithmetic", "(1+2)*3/4-5", []TokenType{TokenLParen, TokenNumber, TokenPlus, TokenNumber, TokenRParen, TokenStar, TokenNumber, TokenSlash, TokenNumber, TokenMinus, TokenNumber, TokenEOF}},
		{"shebang", "#!/usr/bin/env ember\nprint 1;", []TokenType{TokenPrint, TokenNumber, TokenSemicolon, TokenEOF}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := scanTypes(t, test.input)
			if len(got) != len(test.want) {
				t.Fatalf("got %v, want %v", got, test.want)
			}
			for i := range got {
				if got[i] != test.want[i] {
					t.Errorf("token %d: got %s, want %s", i, got[i], test.want[i])
				}
			}
		})
	}
}

func TestScanLiterals(t *testing.T) {
	tokens, errs := NewScanner(`12 3.25 "hi there"`).ScanTokens()
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if v, ok := tokens[0].Literal.(float64); !ok || v != 12 {
		t.Errorf("expected 12, got %#v", tokens[0].Literal)
	}
	if v, ok := tokens[1].Literal.(float64); !ok || v != 3.25 {
		t.Errorf("expected 3.25, got %#v", tokens[1].Literal)
	}
	if v, ok := tokens[2].Literal.(string); !ok || v != "hi there" {
		t.Errorf("expected string payload, got %#v", tokens[2].Literal)
	}
	if tokens[2].Lexeme != `"hi there"` {
		t.Errorf("string lexeme should keep quotes, got %s", tokens[2].Lexeme)
	}
}

func TestScanLineNumbers(t *testing.T) {
	tokens, _ := NewScanner("let a = 1;\n\nprint\na;").ScanTokens()
	wantLines := []int{1, 1, 1, 1, 1, 3, 4, 4, 4}
	for i, tok := range tokens {
		if tok.Line != wantLines[i] {
			t.Errorf("token %d (%s): got line %d, want %d", i, tok, tok.Line, wantLines[i])
		}
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errors int
	}{
		{"unexpected character", "let a = 1 @ 2;", 1},
		{"two bad characters", "# $", 2},
		{"unterminated string", `print "oops`, 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tokens, errs := NewScannerWithFile(test.input, "bad.em").ScanTokens()
			if len(errs) != test.errors {
				t.Fatalf("got %d errors, want %d: %v", len(errs), test.errors, errs)
			}
			for _, err := range errs {
				if !errors.Is(err, errors.LexError) {
					t.Errorf("expected LexError, got %v", err)
				}
			}
			if tokens[len(tokens)-1].Type != TokenEOF {
				t.Error("token stream must end with EOF")
			}
		})
	}
}
