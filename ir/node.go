// Package ir implements East's intermediate representation: a closed
// set of immutable, typed node kinds built programmatically (the
// fluent expression-builder that authors this IR is an external
// collaborator, out of scope per spec.md's Non-goals).
package ir

import (
	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

// Location is the optional source position a node was built from.
// File, Line, and Column are all optional; a programmatically built
// IR (no originating text file) leaves File empty and Line/Column at
// zero, matching SPEC_FULL.md's supplemented `ir.Location` feature.
type Location struct {
	File   string
	Line   int
	Column int
}

// Node is the interface implemented by every IR node kind. It is a
// closed set: the compiler and analyzer switch on the concrete type
// rather than doing virtual dispatch, per spec §9's "dynamic dispatch"
// design note.
type Node interface {
	isNode()
	Loc() Location
}

// base is embedded in every concrete node to carry its Location without
// repeating the field and its accessor in every node kind.
type base struct {
	Location Location
}

func (b base) Loc() Location { return b.Location }

// Value is a literal IR node: any primitive, blob, or statically-built
// composite value, typed by Type.
type Value struct {
	base
	Type    types.Type
	Literal values.Value
}

func (*Value) isNode() {}

// Block is a linear sequence of statements followed by a result
// expression; the block's type is Result's type (or types.Null if
// Result is nil, for a block run purely for side effects).
type Block struct {
	base
	Statements []Node
	Result     Node
}

func (*Block) isNode() {}

// Let introduces a mutable binding named Name, visible in the
// enclosing block's remainder, initialized to Value.
type Let struct {
	base
	Name  string
	Value Node
}

func (*Let) isNode() {}

// Assign re-assigns a binding previously introduced by Let.
type Assign struct {
	base
	Binding string
	Value   Node
}

func (*Assign) isNode() {}

// IfBranch is one (predicate, body) arm of an If chain.
type IfBranch struct {
	Predicate Node
	Body      Node
}

// If is a sequential chain of predicate/body arms with a trailing
// else body; its type is the union of every branch's type.
type If struct {
	base
	Branches []IfBranch
	Else     Node
}

func (*If) isNode() {}

// While loops while Predicate evaluates true, running Body each
// iteration. Label, if non-empty, is the name Break/Continue nodes
// inside Body may target.
type While struct {
	base
	Label     string
	Predicate Node
	Body      Node
}

func (*While) isNode() {}

// For iterates Collection (an Array, Set, or Dict), binding each
// item to ItemName (and, for Dict, each key to KeyName) while running
// Body. It carries the iteration guard described in spec §4.B/§5.
type For struct {
	base
	Label      string
	Collection Node
	ItemName   string
	KeyName    string // non-empty only when Collection is a Dict
	Body       Node
}

func (*For) isNode() {}

// Return exits the enclosing Function with Value as its result. Typed
// Never.
type Return struct {
	base
	Value Node
}

func (*Return) isNode() {}

// Break exits the nearest enclosing While/For, or the one named Label
// if non-empty. Typed Never.
type Break struct {
	base
	Label string
}

func (*Break) isNode() {}

// Continue restarts the nearest enclosing While/For, or the one named
// Label if non-empty. Typed Never.
type Continue struct {
	base
	Label string
}

func (*Continue) isNode() {}

// Error raises an EastError with the given message. Typed Never.
type Error struct {
	base
	Message Node
}

func (*Error) isNode() {}

// Try runs Body; if it raises an EastError, Catch runs instead, bound
// to MessageName and StackName (StackName may be empty to discard the
// stack).
type Try struct {
	base
	Body        Node
	MessageName string
	StackName   string
	Catch       Node
}

func (*Try) isNode() {}

// MatchArm is one case of a Match: CaseName selects the Variant case,
// BindName (if non-empty) binds the case's inner value within Body.
type MatchArm struct {
	CaseName string
	BindName string
	Body     Node
}

// Match dispatches on Scrutinee (a Variant-typed value) to the arm
// whose CaseName matches; arms must exhaustively cover the scrutinee
// type's case set (checked by the analyzer).
type Match struct {
	base
	Scrutinee Node
	Arms      []MatchArm
}

func (*Match) isNode() {}

// Call applies a user function value (Callee) to Args.
type Call struct {
	base
	Callee Node
	Args   []Node
}

func (*Call) isNode() {}

// Platform applies the declared platform function Name to Args.
type Platform struct {
	base
	Name string
	Args []Node
}

func (*Platform) isNode() {}

// Builtin applies a kernel operation from runtime.Registry, named
// Name, instantiated at TypeParams, applied to Args.
type Builtin struct {
	base
	Name       string
	TypeParams []types.Type
	Args       []Node
}

func (*Builtin) isNode() {}

// Param is one (name, type) parameter of a Function/AsyncFunction.
type Param struct {
	Name string
	Type types.Type
}

// Function introduces a synchronous closure. Captures lists the
// enclosing bindings the body references free; a Function with an
// empty Captures is "free" and therefore serializable (spec §3.3).
type Function struct {
	base
	Params   []Param
	Output   types.Type
	Body     Node
	Captures []string
}

func (*Function) isNode() {}

// AsyncFunction is the async-path flavor of Function.
type AsyncFunction struct {
	base
	Params   []Param
	Output   types.Type
	Body     Node
	Captures []string
}

func (*AsyncFunction) isNode() {}

// NewArray constructs an Array value of element type Elem from Items.
type NewArray struct {
	base
	Elem  types.Type
	Items []Node
}

func (*NewArray) isNode() {}

// NewSet constructs a Set value of key type Key from Items.
type NewSet struct {
	base
	Key   types.Type
	Items []Node
}

func (*NewSet) isNode() {}

// DictEntry is one (key, value) pair of a NewDict node.
type DictEntry struct {
	Key   Node
	Value Node
}

// NewDict constructs a Dict value from Entries.
type NewDict struct {
	base
	Key     types.Type
	Value   types.Type
	Entries []DictEntry
}

func (*NewDict) isNode() {}

// NewRef constructs a Ref cell of type Inner, initialized to Init.
type NewRef struct {
	base
	Inner types.Type
	Init  Node
}

func (*NewRef) isNode() {}

// StructField is one (name, value) field initializer of a Struct node.
type StructField struct {
	Name  string
	Value Node
}

// Struct constructs a Struct value of type Type from Fields, in
// declared field order.
type Struct struct {
	base
	Type   *types.Struct
	Fields []StructField
}

func (*Struct) isNode() {}

// Variant constructs a Variant value of type Type for the named case.
type Variant struct {
	base
	Type  *types.Variant
	Case  string
	Inner Node
}

func (*Variant) isNode() {}

// WrapRecursive coerces Value's type into Recursive, one level deep.
type WrapRecursive struct {
	base
	Type  *types.Recursive
	Value Node
}

func (*WrapRecursive) isNode() {}

// UnwrapRecursive coerces a Recursive-typed Value back to its Inner
// type for one level.
type UnwrapRecursive struct {
	base
	Value Node
}

func (*UnwrapRecursive) isNode() {}

// Reference reads the binding introduced by the nearest enclosing Let
// or Function parameter named Binding.
type Reference struct {
	base
	Binding string
}

func (*Reference) isNode() {}
