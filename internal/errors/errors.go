// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	LexError     ErrorType = "LexError"
	SyntaxError  ErrorType = "SyntaxError"
	TypeError    ErrorType = "TypeError"
	NameError    ErrorType = "NameError"
	RuntimeError ErrorType = "RuntimeError"
)

// SourceLocation represents a location in source code
type SourceLocation struct {
	File string
	Line int
}

// Error is a diagnostic produced by the scanner, the parser or the
// interpreter. Lexeme is the offending token text; an empty Lexeme on a
// syntax error means the end of input.
type Error struct {
	Type     ErrorType
	Message  string
	Location SourceLocation
	Lexeme   string
	AtEnd    bool
	Source   string // The source line where error occurred
}

// Error implements the error interface
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s: %s", e.Type, e.Message))

	loc := fmt.Sprintf("line %d", e.Location.Line)
	if e.Location.File != "" {
		loc = fmt.Sprintf("%s:%d", e.Location.File, e.Location.Line)
	}
	if e.AtEnd {
		sb.WriteString(fmt.Sprintf("\n  at %s at end", loc))
	} else {
		sb.WriteString(fmt.Sprintf("\n  at %s near '%s'", loc, e.Lexeme))
	}

	if e.Source != "" {
		sb.WriteString(fmt.Sprintf("\n\n  %d | %s", e.Location.Line, e.Source))
	}

	return sb.String()
}

func newError(kind ErrorType, message, file string, line int, lexeme string) *Error {
	return &Error{
		Type:    kind,
		Message: message,
		Location: SourceLocation{
			File: file,
			Line: line,
		},
		Lexeme: lexeme,
	}
}

// NewLexError creates a new lexical error
func NewLexError(message, file string, line int, lexeme string) *Error {
	return newError(LexError, message, file, line, lexeme)
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string, line int, lexeme string) *Error {
	return newError(SyntaxError, message, "", line, lexeme)
}

// NewSyntaxErrorAtEnd creates a syntax error reported at end of input
func NewSyntaxErrorAtEnd(message string, line int) *Error {
	e := newError(SyntaxError, message, "", line, "")
	e.AtEnd = true
	return e
}

// NewTypeError creates an operand kind mismatch error
func NewTypeError(message string, line int, lexeme string) *Error {
	return newError(TypeError, message, "", line, lexeme)
}

// NewNameError creates an unresolved identifier error
func NewNameError(message string, line int, lexeme string) *Error {
	return newError(NameError, message, "", line, lexeme)
}

// NewRuntimeError creates a new runtime error
func NewRuntimeError(message string, line int, lexeme string) *Error {
	return newError(RuntimeError, message, "", line, lexeme)
}

// WithFile records the file the error belongs to
func (e *Error) WithFile(file string) *Error {
	e.Location.File = file
	return e
}

// WithSource adds source code context to the error
func (e *Error) WithSource(source string) *Error {
	e.Source = source
	return e
}

// Annotate attaches the file name and the offending source line to every
// *Error in errs. Other errors are left alone.
func Annotate(errs []error, file string, lines []string) {
	for _, err := range errs {
		var e *Error
		if !errors.As(err, &e) {
			continue
		}
		if e.Location.File == "" {
			e.WithFile(file)
		}
		if e.Location.Line > 0 && e.Location.Line <= len(lines) {
			e.WithSource(strings.TrimRight(lines[e.Location.Line-1], "\r"))
		}
	}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == kind
	}
	return false
}
