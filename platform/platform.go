// Package platform implements the host-supplied external function
// interface East programs call into (spec §4.C/§6): a named table of
// synchronous or asynchronous callables, each with a declared
// signature, that the analyzer resolves Platform IR nodes against and
// the compiler binds at compile time.
package platform

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/elaraai/east/types"
	"github.com/elaraai/east/values"
)

// Kind distinguishes a synchronous platform function from an
// asynchronous one. The analyzer marks any node that reaches an async
// platform call as is_async (spec §4.C).
type Kind int

const (
	Sync Kind = iota
	Async
)

// SyncImpl is the signature a host supplies for a synchronous platform
// function: it receives already-evaluated, left-to-right ordered
// arguments and returns a result or an error. Any error returned here
// is a platform fault (spec §7): the compiler rewraps it into an
// *values.EastError, preserving its message, catchable by Try.
type SyncImpl func(args []values.Value) (values.Value, error)

// AsyncImpl is the async-path flavor of SyncImpl: it is invoked with a
// completion callback rather than returning inline, matching the
// single-threaded deferred-completion model of spec §5. done must be
// called exactly once, from any goroutine, with the function's result
// or error.
type AsyncImpl func(args []values.Value, done func(values.Value, error))

// Function is one named entry of a Bindings table.
type Function struct {
	Name   string
	Inputs []types.Type
	Output types.Type
	Kind   Kind
	Sync   SyncImpl  // set iff Kind == Sync
	Async  AsyncImpl // set iff Kind == Async
}

// Bindings is an immutable, validated table of platform functions,
// built once per compilation via NewBindings and passed to both the
// analyzer and the compiler.
type Bindings struct {
	byName map[string]Function
}

// NewBindings validates and indexes fns, rejecting duplicate names
// (SPEC_FULL.md's supplemented platform.Bindings validation -- spec
// §4.C only specifies the missing-name failure mode explicitly). Each
// function's declared arity is recorded so Platform nodes can be
// checked for argument-count mismatches at analysis time.
func NewBindings(fns ...Function) (*Bindings, error) {
	byName := make(map[string]Function, len(fns))
	for _, fn := range fns {
		if _, dup := byName[fn.Name]; dup {
			return nil, errors.WithStack(fmt.Errorf("platform: duplicate binding for %q", fn.Name))
		}
		if fn.Kind == Sync && fn.Sync == nil {
			return nil, errors.WithStack(fmt.Errorf("platform: %q declared Sync but has no Sync implementation", fn.Name))
		}
		if fn.Kind == Async && fn.Async == nil {
			return nil, errors.WithStack(fmt.Errorf("platform: %q declared Async but has no Async implementation", fn.Name))
		}
		byName[fn.Name] = fn
	}
	return &Bindings{byName: byName}, nil
}

// Lookup returns the named function and whether it was found.
func (b *Bindings) Lookup(name string) (Function, bool) {
	fn, ok := b.byName[name]
	return fn, ok
}

// AsyncNames returns the names of every Async-kind binding, the set
// the analyzer uses to determine is_async propagation and the compiler
// uses to enforce sync/async compile-path exclusivity (spec §4.D).
func (b *Bindings) AsyncNames() map[string]struct{} {
	out := make(map[string]struct{})
	for name, fn := range b.byName {
		if fn.Kind == Async {
			out[name] = struct{}{}
		}
	}
	return out
}

// Empty reports whether the bindings table has any entries at all.
func (b *Bindings) Empty() bool {
	return len(b.byName) == 0
}
