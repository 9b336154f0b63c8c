package values

import "github.com/elaraai/east/types"

// Call is the signature every compiled East closure presents to its
// caller: arguments in, a single result value or an error (an
// *EastError, a Go programming error, or an iteration-guard violation).
type Call func(args []Value) (Value, error)

// AsyncCall is the async-path flavor of Call: it returns a Deferred
// instead of completing inline, per spec §4.D/§5's single-threaded
// cooperative scheduling model.
type AsyncCall func(args []Value) (Deferred, error)

// Deferred is a suspended East computation: the result of a
// compile_async-produced closure before its event-loop-driven
// completion. The compiler package implements the concrete type;
// values only needs the interface its own Function wraps.
type Deferred interface {
	// Await blocks the calling goroutine until the deferred result (or
	// error) is available. East itself is single-threaded cooperative;
	// Await is how a host driving its own event loop observes
	// completion, not a concurrency primitive East programs can express.
	Await() (Value, error)
}

// Function is a synchronous callable value. IR holds the originating
// ir.Node when the function was compiled with an empty capture set
// (spec §3.2's "free" function, serializable per §4.E) -- stored as
// `any` here rather than a concrete ir.Node type to avoid an import
// cycle (ir depends on values for Value-literal nodes, so values
// cannot depend back on ir). The compiler and beast2 packages type-
// assert this field back to ir.Node when they need it.
type Function struct {
	Type *types.Function
	Impl Call
	IR   any // ir.Node, or nil if the function has a non-empty capture set
}

func (*Function) isValue() {}

// AsyncFunction is the async-path flavor of Function.
type AsyncFunction struct {
	Type *types.AsyncFunction
	Impl AsyncCall
	IR   any
}

func (*AsyncFunction) isValue() {}
