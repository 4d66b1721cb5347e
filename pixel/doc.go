// Package pixel is the CPU image engine: stateless, pure functions that
// apply photographic adjustments to raw RGBA buffers.
//
// Every entry point allocates a fresh output buffer and leaves its input
// untouched, with two documented exceptions that return the input buffer
// itself: a blur with radius <= 0 and a curve set that resolves to the
// identity mapping. Because no call shares mutable state, the package is
// safe to use from any number of goroutines; package worker runs it behind
// a message channel for callers that want the engine off their own thread.
//
// The GPU engine in package gpu implements the same operations with the
// same numeric contracts; the two are interchangeable.
package pixel
