// Package compiler implements the closure compiler (component E): it
// lowers an analyzer-annotated ir.Node tree into a runnable
// *values.Function or *values.AsyncFunction, closing over a mutable
// binding environment the way gapil/compiler/compiler.go lowers
// semantic.Function bodies into LLVM codegen.Value-producing closures
// -- with the native-code backend replaced by a plain Go closure tree
// per spec.md's explicit non-goal of native code generation.
package compiler

import "github.com/elaraai/east/values"

// slot is one binding's mutable storage cell. Function closures that
// capture a binding share its slot pointer, not a snapshot of its
// value, so a Let reassigned by Assign after a closure was created is
// observed by that closure the next time it runs -- the same
// capture-by-reference semantics Go's own closures give a captured
// local variable.
type slot struct {
	value values.Value
}

// Env is the runtime binding environment a compiled node is invoked
// against. It is a parent-linked chain of flat frames -- one frame per
// Block, function call, Try catch, For iteration, and Match arm that
// binds a name (While bodies add none of their own) -- so that a shadowing Let in a nested block
// restores the outer binding when the block exits, while staying O(1)
// per lookup within a frame.
type Env struct {
	parent *Env
	vars   map[string]*slot
}

// NewEnv returns an empty root environment, the starting point for
// invoking a free top-level function.
func NewEnv() *Env {
	return &Env{vars: make(map[string]*slot)}
}

func (e *Env) child() *Env {
	return &Env{parent: e, vars: make(map[string]*slot)}
}

func (e *Env) define(name string, v values.Value) {
	e.vars[name] = &slot{value: v}
}

func (e *Env) find(name string) (*slot, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if s, ok := cur.vars[name]; ok {
			return s, true
		}
	}
	return nil, false
}

// capture builds a fresh root environment containing only the slots
// named, shared by pointer with env's chain -- the environment a
// Function/AsyncFunction literal closes over. An empty names list
// yields an empty root env, which is what marks the resulting
// *values.Function as "free" and therefore serializable (spec §3.3).
func (e *Env) capture(names []string) (*Env, error) {
	captured := &Env{vars: make(map[string]*slot, len(names))}
	for _, name := range names {
		s, ok := e.find(name)
		if !ok {
			return nil, errUndefinedCapture(name)
		}
		captured.vars[name] = s
	}
	return captured, nil
}
