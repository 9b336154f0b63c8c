// Package runtime implements the East runtime kernel (component F):
// the fixed builtin registry, the canonical print/parse contract, and
// the container iteration guard enforcement that every Builtin
// dispatches through.
package runtime

import (
	"github.com/pkg/errors"

	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

// Check type-checks a builtin invocation: given the type parameters it
// was instantiated with and the types of its evaluated arguments, it
// returns the builtin's result type or a type error. Check functions
// never evaluate anything; the analyzer calls them, never the
// compiler.
type Check func(typeParams []types.Type, args []types.Type) (types.Type, error)

// Eval evaluates a builtin invocation against already-evaluated
// arguments. East's IR is well-typed by construction (the analyzer
// already ran Check), so Eval dispatches on the arguments' dynamic Go
// type directly rather than re-checking types.
type Eval func(typeParams []types.Type, args []values.Value) (values.Value, error)

// Builtin is one entry of the Registry: a kernel operation keyed by
// its uppercase name (spec §4.B), named here in the same casing the
// registry keys on.
type Builtin struct {
	Name  string
	Check Check
	Eval  Eval
}

// Registry is the closed, statically-known table of builtins East's
// analyzer type-checks Builtin nodes against and the compiler
// dispatches them through -- "the table's entries are statically
// known" per spec §9's Design Notes, and SPEC_FULL.md's supplemented
// "canonical Registry of builtins" feature. Grounded on
// gapil/compiler/builtins.go's static builtin-function table shape.
var Registry = map[string]Builtin{}

func register(b Builtin) {
	if _, dup := Registry[b.Name]; dup {
		panic("runtime: duplicate builtin registration for " + b.Name)
	}
	Registry[b.Name] = b
}

// Lookup returns the named builtin and whether it was found.
func Lookup(name string) (Builtin, bool) {
	b, ok := Registry[name]
	return b, ok
}

func errArity(name string, want, got int) error {
	return errors.Errorf("builtin %s expects %d argument(s), got %d", name, want, got)
}

// StackFrameType is the East type of one frame in the stack value a
// Try's catch block observes: Struct(file: String, line: Integer,
// column: Integer). Used both by the analyzer (to type the catch
// binding) and the compiler (to build the stack argument).
var StackFrameType = types.NewStruct(
	types.Field{Name: "file", Type: types.String},
	types.Field{Name: "line", Type: types.Integer},
	types.Field{Name: "column", Type: types.Integer},
)

// StackType is Array(StackFrameType), the type of the stack value
// passed to a Try catch block.
var StackType = types.NewArray(StackFrameType)
