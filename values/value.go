// Package values implements the East value model: the runtime
// representations backing every types.Type, their identity rules, and
// the structural comparison contract the runtime kernel builds on.
//
// East's IR is statically typed, so unlike values.Value in a dynamic
// scripting engine a value here carries no independent type tag of its
// own for primitives -- the enclosing types.Type (known from the IR) is
// authoritative. Containers and Variant values do carry a types.Type,
// because printing, comparison, and BEAST2 encoding need to know a
// container's element type or a variant's case set without threading it
// down separately from wherever the value is held.
package values

import "github.com/elaraai/east/types"

// Value is the tagged interface implemented by every East runtime
// value. It is a closed set mirroring types.Kind.
type Value interface {
	isValue()
}

// Null is the sole inhabitant of types.Null.
type Null struct{}

func (Null) isValue() {}

// Boolean wraps a by-value, immutable boolean.
type Boolean bool

func (Boolean) isValue() {}

// Integer wraps a by-value, immutable signed 64-bit integer.
type Integer int64

func (Integer) isValue() {}

// Float wraps a by-value, immutable IEEE-754 binary64. NaN values are
// permitted to flow through in memory; only the BEAST2 codec enforces
// canonical-NaN-only-on-the-wire (spec §4.E/§8).
type Float float64

func (Float) isValue() {}

// String wraps a by-value, immutable Unicode string.
type String string

func (String) isValue() {}

// DateTime wraps a by-value, immutable naive-UTC instant at millisecond
// resolution, stored as milliseconds since the Unix epoch.
type DateTime int64

func (DateTime) isValue() {}

// Blob wraps a by-value, immutable byte sequence. The slice must never
// be mutated in place once a Blob wraps it; callers that need to build
// one incrementally should build a []byte first and wrap it once.
type Blob []byte

func (Blob) isValue() {}
