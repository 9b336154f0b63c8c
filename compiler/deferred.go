package compiler

import "github.com/elaraai/east/values"

// deferred is the compiler's implementation of values.Deferred: it
// runs work on its own goroutine and completes a buffered channel
// exactly once. This is a pragmatic rendition of spec §4.D/§5's
// single-threaded cooperative scheduling model -- rather than a CPS
// transform that threads a scheduler through every suspension point,
// each compiled AsyncFunction invocation gets its own goroutine, and
// any async Platform call or nested AsyncFunction call it makes is
// bridged back to a blocking wait on *that* goroutine, never on the
// caller's. A caller observes exactly the contract spec §5 promises:
// AsyncCall returns immediately, and the result is only available
// once Await is called.
type deferred struct {
	result chan deferredResult
}

type deferredResult struct {
	value values.Value
	err   error
}

// newDeferred starts work on a new goroutine and returns a Deferred
// that completes when it returns.
func newDeferred(work func() (values.Value, error)) values.Deferred {
	d := &deferred{result: make(chan deferredResult, 1)}
	go func() {
		v, err := work()
		d.result <- deferredResult{value: v, err: err}
	}()
	return d
}

func (d *deferred) Await() (values.Value, error) {
	r := <-d.result
	return r.value, r.err
}
