// Package analyzer implements the IR analysis pass (component D): a
// single walk over an ir.Node tree that resolves every node's type,
// determines whether it may suspend (is_async), and rejects anything
// the compiler could not safely lower -- unresolved Platform names,
// non-Boolean predicates, non-exhaustive Match arms, Return values that
// escape their enclosing function's declared output type. Grounded on
// gapil/resolver's single-pass semantic-checking shape (resolve.go's
// node-kind switch over the AST, accumulating a symbol table as it
// descends), adapted to East's closed IR node set.
package analyzer

import "github.com/elaraai/east/types"

// binding is one scope entry: a resolved name to its static type.
type binding struct {
	typ types.Type
}

// scope is a chain of nested lexical blocks, mirroring the nesting of
// ir.Block/ir.Function bodies. Lookups walk outward to the nearest
// enclosing definition; a new scope is pushed for every Block and for
// every Function/AsyncFunction body.
type scope struct {
	parent *scope
	vars   map[string]binding
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]binding)}
}

func (s *scope) define(name string, t types.Type) {
	s.vars[name] = binding{typ: t}
}

func (s *scope) lookup(name string) (types.Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.vars[name]; ok {
			return b.typ, true
		}
	}
	return nil, false
}

// loopFrame is one entry of a funcCtx's loop stack, pushed on entering
// a While/For and popped on leaving it. Break/Continue resolve against
// this stack; it is reset at each Function/AsyncFunction boundary
// since a label cannot reach across a closure boundary.
type loopFrame struct {
	label string
}

// funcCtx is the per-function analysis context: the output type
// Return values must respect, the accumulated set of platform names
// the function body touches (directly via Platform, or transitively
// via Call to a closure that itself touches platforms), and the active
// loop stack for Break/Continue label resolution.
type funcCtx struct {
	output    types.Type
	platforms types.PlatformSet
	loops     []loopFrame
}

func newFuncCtx(output types.Type) *funcCtx {
	return &funcCtx{output: output, platforms: types.PlatformSet{}}
}

func (f *funcCtx) touch(name string) {
	f.platforms[name] = struct{}{}
}

func (f *funcCtx) touchAll(names types.PlatformSet) {
	for n := range names {
		f.platforms[n] = struct{}{}
	}
}

func (f *funcCtx) pushLoop(label string) {
	f.loops = append(f.loops, loopFrame{label: label})
}

func (f *funcCtx) popLoop() {
	f.loops = f.loops[:len(f.loops)-1]
}

// hasLoop reports whether label (possibly empty, meaning "nearest
// enclosing") resolves against the active loop stack.
func (f *funcCtx) hasLoop(label string) bool {
	if len(f.loops) == 0 {
		return false
	}
	if label == "" {
		return true
	}
	for _, fr := range f.loops {
		if fr.label == label {
			return true
		}
	}
	return false
}
