package interpreter

import (
	"fmt"
	"slices"

	"golang.org/x/exp/maps"

	"ember/internal/errors"
	"ember/internal/lexer"
)

// Environment is one scope in the chain. The global scope has no
// enclosing scope. A scope is linked to its parent at creation and never
// reparented.
type Environment struct {
	values    map[string]Value
	enclosing *Environment
	depth     int
}

func NewEnvironment(enclosing *Environment) *Environment {
	env := &Environment{
		values:    make(map[string]Value),
		enclosing: enclosing,
	}
	if enclosing != nil {
		env.depth = enclosing.depth + 1
	}
	return env
}

// Define binds name in this scope only, replacing any existing binding.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get resolves name from this scope outward.
func (e *Environment) Get(name lexer.Token) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name.Lexeme]; ok {
			return v, nil
		}
	}
	return nil, undefined(name)
}

// Assign updates the nearest scope that already defines name.
func (e *Environment) Assign(name lexer.Token, value Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = value
			return nil
		}
	}
	return undefined(name)
}

// Lookup reads a binding of this scope without walking outward.
func (e *Environment) Lookup(name string) (Value, bool) {
	v, ok := e.values[name]
	return v, ok
}

func (e *Environment) Enclosing() *Environment {
	return e.enclosing
}

// Depth is 0 for the global scope and grows by one per nested block.
func (e *Environment) Depth() int {
	return e.depth
}

// Names lists the bindings of this scope in sorted order.
func (e *Environment) Names() []string {
	names := maps.Keys(e.values)
	slices.Sort(names)
	return names
}

func undefined(name lexer.Token) error {
	return errors.NewNameError(fmt.Sprintf("undefined variable '%s'", name.Lexeme), name.Line, name.Lexeme)
}
