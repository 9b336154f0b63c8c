// Package east is the embedding API named in spec §6: a thin facade
// over the type model (types), the IR (ir), the analyzer, the
// compiler, the platform interface, and the BEAST2 codec, so a host
// program depends on one import path rather than reaching into every
// component package individually.
package east

import (
	"github.com/hashicorp/go-hclog"

	"github.com/elaraai/east/analyzer"
	"github.com/elaraai/east/beast2"
	"github.com/elaraai/east/compiler"
	"github.com/elaraai/east/ir"
	"github.com/elaraai/east/platform"
	"github.com/elaraai/east/runtime"
	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

// Analyze type-checks and annotates root against bindings, per spec
// §4.C. logger may be nil.
func Analyze(root ir.Node, bindings *platform.Bindings, logger hclog.Logger) (analyzer.Annotations, error) {
	return analyzer.Analyze(root, bindings, logger)
}

// CompileSync lowers an analyzed synchronous function into a callable
// closure bound to bindings, per spec §4.D. fn must have already been
// analyzed via Analyze (or analyzer.Analyze directly) to produce anns.
func CompileSync(fn *ir.Function, anns analyzer.Annotations, bindings *platform.Bindings, logger hclog.Logger) (*values.Function, error) {
	return compiler.CompileSync(fn, anns, bindings, logger)
}

// CompileAsync is the async-path flavor of CompileSync.
func CompileAsync(fn *ir.AsyncFunction, anns analyzer.Annotations, bindings *platform.Bindings, logger hclog.Logger) (*values.AsyncFunction, error) {
	return compiler.CompileAsync(fn, anns, bindings, logger)
}

// EncodeBeast2 serializes v, typed t, to a complete BEAST2 stream
// (spec §4.E).
func EncodeBeast2(t types.Type, v values.Value, logger hclog.Logger) ([]byte, error) {
	return beast2.EncodeFor(t, v, logger)
}

// DecodeBeast2 reads a BEAST2 stream expected to hold a value of type
// t, erroring if the embedded schema disagrees. bindings, if non-nil,
// is used to recompile any embedded free functions encountered during
// decode.
func DecodeBeast2(t types.Type, b []byte, bindings *platform.Bindings, logger hclog.Logger) (values.Value, error) {
	return beast2.DecodeFor(t, b, bindings, logger)
}

// DecodeBeast2Anonymous reads a BEAST2 stream without knowing its type
// in advance, returning the embedded schema alongside the value (spec
// §4.E/§6's decode_beast2).
func DecodeBeast2Anonymous(b []byte, bindings *platform.Bindings, logger hclog.Logger) (types.Type, values.Value, error) {
	return beast2.DecodeAnonymous(b, bindings, logger)
}

// PrintValue renders v, typed t, as East's canonical display text
// (spec §4.F/§6).
func PrintValue(t types.Type, v values.Value) string {
	return runtime.PrintValue(t, v)
}

// ParseValue parses s as a value of type t, the inverse of PrintValue
// for the subset of types it covers (spec §4.F/§6).
func ParseValue(t types.Type, s string) (values.Value, error) {
	return runtime.ParseValue(t, s)
}

// TypeEqual reports whether a and b are the same type, structurally
// (spec §4.A/§6).
func TypeEqual(a, b types.Type) bool {
	return types.TypeEqual(a, b)
}

// Subtype reports whether a is a structural subtype of b (spec
// §4.A/§6).
func Subtype(a, b types.Type) bool {
	return types.Subtype(a, b)
}

// Union computes the least upper bound of a and b, erroring if none
// exists (spec §4.A/§6).
func Union(a, b types.Type) (types.Type, error) {
	return types.Union(a, b)
}

// Intersect computes the greatest lower bound of a and b, erroring if
// none exists (spec §4.A/§6).
func Intersect(a, b types.Type) (types.Type, error) {
	return types.Intersect(a, b)
}
