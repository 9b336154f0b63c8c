package compiler

import (
	"github.com/pkg/errors"

	"github.com/elaraai/east/values"
)

// Non-local control flow is implemented as internal sentinel errors
// unwound by the frame that can handle them -- spec §4.D's "internal
// exception-like sentinels" option, the one the spec explicitly allows
// as equivalent to a CPS lowering. returnSignal is caught by the
// nearest enclosing compiled Function/AsyncFunction; breakSignal and
// continueSignal are caught by the nearest enclosing compiled
// While/For whose label matches (or any, if unlabeled).
type returnSignal struct {
	value values.Value
}

func (*returnSignal) Error() string { return "return outside a function frame" }

type breakSignal struct {
	label string
}

func (*breakSignal) Error() string { return "break outside a loop frame" }

type continueSignal struct {
	label string
}

func (*continueSignal) Error() string { return "continue outside a loop frame" }

func errUndefinedCapture(name string) error {
	return errors.Errorf("compiler: capture of undefined binding %q", name)
}

// matchesLoop reports whether err is a break/continue sentinel this
// loop frame should handle (label empty, or matching the loop's own
// label), returning which kind it is or (false, false) if it should
// keep propagating.
func matchesLoop(err error, label string) (isBreak, isContinue bool) {
	if b, ok := err.(*breakSignal); ok && (b.label == "" || b.label == label) {
		return true, false
	}
	if c, ok := err.(*continueSignal); ok && (c.label == "" || c.label == label) {
		return false, true
	}
	return false, false
}
