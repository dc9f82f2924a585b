// Package task implements the in-memory analysis task registry, the
// cancellation-aware work loop that drives per-resource recommendation
// calls, and the background runner that executes analysis tasks off the
// request goroutine.
//
// Registry state is deliberately not persisted: cancellation flags only
// matter while the work loop that polls them is alive, and in-flight work
// does not survive a process restart either.
package task
