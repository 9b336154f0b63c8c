// Package types implements the East type model: the set of semantic
// types, their structural equality, subtyping, and the union/intersect
// composition operators used throughout the engine.
package types

// Kind tags the variant a Type value holds.
type Kind int

// The closed set of type kinds. New kinds are never added at runtime;
// every operation in this package switches over this list exhaustively.
const (
	KindNever Kind = iota
	KindNull
	KindBoolean
	KindInteger
	KindFloat
	KindString
	KindDateTime
	KindBlob
	KindArray
	KindSet
	KindDict
	KindRef
	KindStruct
	KindVariant
	KindRecursive
	KindRecursiveRef
	KindFunction
	KindAsyncFunction
)

func (k Kind) String() string {
	switch k {
	case KindNever:
		return "Never"
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindDateTime:
		return "DateTime"
	case KindBlob:
		return "Blob"
	case KindArray:
		return "Array"
	case KindSet:
		return "Set"
	case KindDict:
		return "Dict"
	case KindRef:
		return "Ref"
	case KindStruct:
		return "Struct"
	case KindVariant:
		return "Variant"
	case KindRecursive:
		return "Recursive"
	case KindRecursiveRef:
		return "RecursiveRef"
	case KindFunction:
		return "Function"
	case KindAsyncFunction:
		return "AsyncFunction"
	default:
		return "Unknown"
	}
}

// Type is the interface implemented by every member of the East type
// lattice. It is a closed set: the kind discriminates which concrete
// struct backs a given Type value, and every operation in this package
// (and in analyzer/compiler/runtime/beast2) switches on Kind rather
// than doing virtual dispatch, per the "no dynamic dispatch" design
// note.
type Type interface {
	Kind() Kind
	isType()
}

// primitive backs every type with no internal structure. Primitive
// values are interned (see the var block below) so that primitive
// Type values compare equal under Go's == and can be used directly as
// map keys.
type primitive struct{ kind Kind }

func (p primitive) Kind() Kind { return p.kind }
func (primitive) isType()      {}

// The primitive types. These are the only Type values that are not
// pointers; everything with internal structure is a pointer type so
// that union/intersect/equal's memo tables can key off identity.
var (
	Never    Type = primitive{KindNever}
	Null     Type = primitive{KindNull}
	Boolean  Type = primitive{KindBoolean}
	Integer  Type = primitive{KindInteger}
	Float    Type = primitive{KindFloat}
	String   Type = primitive{KindString}
	DateTime Type = primitive{KindDateTime}
	Blob     Type = primitive{KindBlob}
)

// Array is the type of a mutable, identity-bearing, ordered sequence.
type Array struct{ Elem Type }

func (*Array) Kind() Kind { return KindArray }
func (*Array) isType()    {}

// NewArray returns the type of an Array holding elements of type elem.
func NewArray(elem Type) *Array { return &Array{Elem: elem} }

// Set is the type of a mutable, identity-bearing collection of unique
// keys. The key type must be an immutable data type.
type Set struct{ Key Type }

func (*Set) Kind() Kind { return KindSet }
func (*Set) isType()    {}

// NewSet returns the type of a Set over the given key type.
func NewSet(key Type) *Set { return &Set{Key: key} }

// Dict is the type of a mutable, identity-bearing associative map. The
// key type must be an immutable data type.
type Dict struct {
	Key   Type
	Value Type
}

func (*Dict) Kind() Kind { return KindDict }
func (*Dict) isType()    {}

// NewDict returns the type of a Dict from key to value.
func NewDict(key, value Type) *Dict { return &Dict{Key: key, Value: value} }

// Ref is the type of a mutable, identity-bearing single-slot cell.
type Ref struct{ Inner Type }

func (*Ref) Kind() Kind { return KindRef }
func (*Ref) isType()    {}

// NewRef returns the type of a Ref cell holding a value of type inner.
func NewRef(inner Type) *Ref { return &Ref{Inner: inner} }

// Field is one (name, type) entry of a Struct, in declared order.
type Field struct {
	Name string
	Type Type
}

// Struct is a fixed-shape record type. Field order is significant:
// structural operations on Struct are positional, not by-name.
type Struct struct{ Fields []Field }

func (*Struct) Kind() Kind { return KindStruct }
func (*Struct) isType()    {}

// NewStruct returns a Struct type over the given fields, in the order
// given. It does not check that field names are unique.
func NewStruct(fields ...Field) *Struct {
	cp := make([]Field, len(fields))
	copy(cp, fields)
	return &Struct{Fields: cp}
}

// FieldIndex returns the index of the named field, or -1 if absent.
func (s *Struct) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Case is one (name, type) entry of a Variant.
type Case struct {
	Name string
	Type Type
}

// Variant is a tagged-union type. Cases are always stored in the
// canonical name-sorted order: this is the order used everywhere a
// Variant is observed (printing, BEAST2 tag assignment, Match
// exhaustiveness checks).
type Variant struct{ Cases []Case }

func (*Variant) Kind() Kind { return KindVariant }
func (*Variant) isType()    {}

// NewVariant returns a Variant type over the given cases, sorted into
// canonical (name-ascending) order.
func NewVariant(cases ...Case) *Variant {
	cp := make([]Case, len(cases))
	copy(cp, cases)
	sortCases(cp)
	return &Variant{Cases: cp}
}

func sortCases(cases []Case) {
	for i := 1; i < len(cases); i++ {
		for j := i; j > 0 && cases[j-1].Name > cases[j].Name; j-- {
			cases[j-1], cases[j] = cases[j], cases[j-1]
		}
	}
}

// CaseIndex returns the canonical (sorted) index of the named case, or
// -1 if absent. This index is the value serialized as the BEAST2
// variant tag.
func (v *Variant) CaseIndex(name string) int {
	for i, c := range v.Cases {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Recursive introduces a self-referential type. Inner may contain
// RecursiveRef nodes that refer back to this Recursive (or an
// enclosing one) by depth. East's recursive types are always a finite
// syntax tree -- a RecursiveRef is a leaf, not an expansion point -- so
// no operation in this package needs to unroll a Recursive to a fixed
// point; traversal terminates structurally.
type Recursive struct{ Inner Type }

func (*Recursive) Kind() Kind { return KindRecursive }
func (*Recursive) isType()    {}

// NewRecursive returns a Recursive type wrapping inner. inner is
// typically built by first constructing the Recursive value and then
// assigning Inner, since Go does not allow forward references to an
// un-constructed value; callers building a recursive type normally do:
//
//	r := &types.Recursive{}
//	r.Inner = types.NewStruct(types.Field{Name: "next", Type: &types.Ref{Inner: &types.RecursiveRef{Depth: 1}}})
func NewRecursive(inner Type) *Recursive { return &Recursive{Inner: inner} }

// RecursiveRef is a back-reference to the Depth-th enclosing Recursive
// node, counting inward to outward starting at 1 for the nearest
// enclosing Recursive.
type RecursiveRef struct{ Depth int }

func (*RecursiveRef) Kind() Kind { return KindRecursiveRef }
func (*RecursiveRef) isType()    {}

// PlatformSet is an immutable set of platform function names attached
// to a Function/AsyncFunction type, recording which external bindings
// a closure of that type may call into.
type PlatformSet map[string]struct{}

// NewPlatformSet returns a PlatformSet containing the given names.
func NewPlatformSet(names ...string) PlatformSet {
	s := make(PlatformSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether name is in the set.
func (s PlatformSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Union returns the union of s and other as a new PlatformSet.
func (s PlatformSet) Union(other PlatformSet) PlatformSet {
	out := make(PlatformSet, len(s)+len(other))
	for n := range s {
		out[n] = struct{}{}
	}
	for n := range other {
		out[n] = struct{}{}
	}
	return out
}

// Intersect returns the intersection of s and other as a new
// PlatformSet.
func (s PlatformSet) Intersect(other PlatformSet) PlatformSet {
	out := make(PlatformSet)
	for n := range s {
		if other.Contains(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Equal reports whether s and other contain exactly the same names.
func (s PlatformSet) Equal(other PlatformSet) bool {
	if len(s) != len(other) {
		return false
	}
	for n := range s {
		if !other.Contains(n) {
			return false
		}
	}
	return true
}

// Sorted returns the platform names in ascending order.
func (s PlatformSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// Function is the type of a free or captured synchronous callable.
type Function struct {
	Inputs    []Type
	Output    Type
	Platforms PlatformSet
}

func (*Function) Kind() Kind { return KindFunction }
func (*Function) isType()    {}

// NewFunction returns a Function type with the given signature and
// platform set.
func NewFunction(output Type, platforms PlatformSet, inputs ...Type) *Function {
	cp := make([]Type, len(inputs))
	copy(cp, inputs)
	if platforms == nil {
		platforms = PlatformSet{}
	}
	return &Function{Inputs: cp, Output: output, Platforms: platforms}
}

// AsyncFunction is the type of a free or captured asynchronous
// callable: calling it suspends the caller at every platform call that
// may itself suspend.
type AsyncFunction struct {
	Inputs    []Type
	Output    Type
	Platforms PlatformSet
}

func (*AsyncFunction) Kind() Kind { return KindAsyncFunction }
func (*AsyncFunction) isType()    {}

// NewAsyncFunction returns an AsyncFunction type with the given
// signature and platform set.
func NewAsyncFunction(output Type, platforms PlatformSet, inputs ...Type) *AsyncFunction {
	cp := make([]Type, len(inputs))
	copy(cp, inputs)
	if platforms == nil {
		platforms = PlatformSet{}
	}
	return &AsyncFunction{Inputs: cp, Output: output, Platforms: platforms}
}
