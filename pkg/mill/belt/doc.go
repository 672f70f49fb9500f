// Package belt provides an ordered, fail-fast step runner. Steps over a
// shared state value execute one at a time in registration order; the first
// error stops the remaining steps, and context cancellation stops the belt
// between steps.
//
// Key operations:
// - New/Use: build a Runner and append steps, fluently
// - Run: execute all steps synchronously, returning the first error
// - Go: execute on a goroutine and report through a completion callback
//
// Belt is the machinery behind both a processor's transform registry and
// the fixed parse/transform/stringify plan in package mill.
package belt
