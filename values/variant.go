package values

import "github.com/elaraai/east/types"

// Variant is a tagged-union value: a case name (which must belong to
// the type's case set) paired with the inner value for that case.
// Variants are by-value, not identity-bearing.
type Variant struct {
	Type  *types.Variant
	Case  string
	Inner Value
}

func (*Variant) isValue() {}

// NewVariant returns a Variant value for the named case. Callers must
// ensure caseName is a member of t's case set; runtime.Registry-backed
// construction paths validate this and raise an EastError otherwise
// (values.NewVariant itself trusts its caller, matching the "IR nodes
// are well-typed by construction" contract of spec §3.3).
func NewVariant(t *types.Variant, caseName string, inner Value) *Variant {
	return &Variant{Type: t, Case: caseName, Inner: inner}
}

// CaseType returns the declared type of v's case, or nil if the case
// name is not present in v's variant type (which should not happen for
// a well-formed Variant).
func (v *Variant) CaseType() types.Type {
	idx := v.Type.CaseIndex(v.Case)
	if idx < 0 {
		return nil
	}
	return v.Type.Cases[idx].Type
}
