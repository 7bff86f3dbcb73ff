// Package refresh serializes reload cycles with a monotonic generation
// counter. Every reload gets a strictly increasing generation; asynchronous
// results are tagged with the generation that started them, and a result
// whose generation is no longer current is simply dropped. There is no hard
// cancellation of in-flight work and no queueing of superseded work.
package refresh

import "sync/atomic"

// Generation identifies one reload cycle.
type Generation uint64

// Coordinator issues and checks generations. The zero value is ready to use
// and safe for concurrent callers.
type Coordinator struct {
	gen atomic.Uint64
}

// Begin starts a new reload cycle and returns its generation, superseding any
// cycle still in flight.
func (c *Coordinator) Begin() Generation {
	return Generation(c.gen.Add(1))
}

// Current reports whether g is still the latest generation. Callers check
// this at every resumption point and discard their result when it fails.
func (c *Coordinator) Current(g Generation) bool {
	return uint64(g) == c.gen.Load()
}
