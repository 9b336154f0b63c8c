package ir

import (
	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

// This file holds small internal constructors used by the tests of
// this package, the compiler, beast2 and the root package. It is not the
// fluent expression-builder named in spec §6 -- that is an external
// collaborator authoring IR for a host program; these helpers exist
// only so East's own Go test suites can build IR fixtures tersely.

// Lit wraps a literal value into a Value node of the given type.
func Lit(t types.Type, v values.Value) *Value {
	return &Value{Type: t, Literal: v}
}

// Int is shorthand for an Integer literal node.
func Int(n int64) *Value { return Lit(types.Integer, values.Integer(n)) }

// Str is shorthand for a String literal node.
func Str(s string) *Value { return Lit(types.String, values.String(s)) }

// Bool is shorthand for a Boolean literal node.
func Bool(b bool) *Value { return Lit(types.Boolean, values.Boolean(b)) }

// Ref reads a binding by name.
func Ref(name string) *Reference { return &Reference{Binding: name} }

// Seq builds a Block out of statements followed by a result expression.
// A nil result yields a Null-typed block run for side effects.
func Seq(result Node, statements ...Node) *Block {
	return &Block{Statements: statements, Result: result}
}
