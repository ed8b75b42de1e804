package lexer

import (
	"fmt"
	"strconv"
	"unicode"

	"ember/internal/errors"
)

type Scanner struct {
	source  string
	file    string
	tokens  []Token
	errs    []error
	start   int
	current int
	line    int
}

func NewScanner(source string) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
	}
}

func NewScannerWithFile(source, file string) *Scanner {
	s := NewScanner(source)
	s.file = file
	return s
}

// ScanTokens tokenizes the whole source. The returned slice always ends
// with exactly one EOF token, even when errors were reported.
func (s *Scanner) ScanTokens() ([]Token, []error) {
	if s.current == 0 && len(s.source) >= 2 && s.source[0] == '#' && s.source[1] == '!' {
		s.skipShebang()
	}

	for !s.isAtEnd() {
		s.sanitize()
		s.start = s.current
		if s.isAtEnd() {
			break
		}
		s.scanToken()
	}
	s.tokens = append(s.tokens, Token{Type: TokenEOF, Lexeme: "", Line: s.line})
	return s.tokens, s.errs
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.addToken(TokenLParen)
	case ')':
		s.addToken(TokenRParen)
	case '{':
		s.addToken(TokenLBrace)
	case '}':
		s.addToken(TokenRBrace)
	case ';':
		s.addToken(TokenSemicolon)
	case '+':
		s.addToken(TokenPlus)
	case '-':
		s.addToken(TokenMinus)
	case '*':
		s.addToken(TokenStar)
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
		} else {
			s.addToken(TokenSlash)
		}
	case '=':
		if s.match('=') {
			s.addToken(TokenDoubleEqual)
		} else {
			s.addToken(TokenEqual)
		}
	case '!':
		if s.match('=') {
			s.addToken(TokenNotEqual)
		} else {
			s.addToken(TokenNot)
		}
	case '<':
		if s.match('=') {
			s.addToken(TokenLE)
		} else {
			s.addToken(TokenLT)
		}
	case '>':
		if s.match('=') {
			s.addToken(TokenGE)
		} else {
			s.addToken(TokenGT)
		}
	case '"':
		s.string()
	default:
		if isDigit(c) {
			s.number()
		} else if isAlpha(c) {
			s.identifier()
		} else {
			s.errorf("unexpected character %q", c)
		}
	}
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) identifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	text := s.source[s.start:s.current]
	if kw, ok := keywords[text]; ok {
		s.addToken(kw)
		return
	}
	s.addToken(TokenIdent)
}

func (s *Scanner) number() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	text := s.source[s.start:s.current]
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		s.errorf("invalid number literal: %v", err)
		return
	}
	s.tokens = append(s.tokens, Token{Type: TokenNumber, Lexeme: text, Literal: value, Line: s.line})
}

func (s *Scanner) string() {
	startLine := s.line
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.isAtEnd() {
		err := errors.NewLexError("unterminated string", s.file, startLine, s.source[s.start:s.current])
		s.errs = append(s.errs, err)
		return
	}
	s.advance()
	value := s.source[s.start+1 : s.current-1]
	s.tokens = append(s.tokens, Token{Type: TokenString, Lexeme: s.source[s.start:s.current], Literal: value, Line: s.line})
}

func (s *Scanner) addToken(t TokenType) {
	text := s.source[s.start:s.current]
	s.tokens = append(s.tokens, Token{Type: t, Lexeme: text, Line: s.line})
}

func (s *Scanner) errorf(format string, args ...any) {
	lexeme := s.source[s.start:s.current]
	s.errs = append(s.errs, errors.NewLexError(fmt.Sprintf(format, args...), s.file, s.line, lexeme))
}

func (s *Scanner) advance() byte {
	s.current++
	return s.source[s.current-1]
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return '\000'
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return '\000'
	}
	return s.source[s.current+1]
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) sanitize() {
	for !s.isAtEnd() && unicode.IsSpace(rune(s.peek())) {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
}

func isAlpha(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// skipShebang skips over shebang line at the beginning of the file
func (s *Scanner) skipShebang() {
	for !s.isAtEnd() && s.peek() != '\n' {
		s.advance()
	}
	if !s.isAtEnd() && s.peek() == '\n' {
		s.line++
		s.advance()
	}
}
