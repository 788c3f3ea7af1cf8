// Package executor provides minimal drivers for cancellation.Future and
// cancellation.Task values: Run (single future, calling goroutine) and Pool
// (many futures, concurrently, optionally rate-limited).
//
// Neither is "the" scheduler assumed by the cancellation package's own
// design — that is left to whatever embeds this module — but both are
// complete enough to drive real work and to exercise the core package's
// tests end-to-end.
package executor
