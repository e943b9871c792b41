// Package runner orchestrates a benchmark run: it executes the unit list
// serially on a dedicated worker goroutine and streams lifecycle events to
// the caller over a buffered channel.
//
// Cancellation is cooperative. The runner sets a per-run flag that units
// poll through their ProgressSink; a unit that never polls runs to
// completion before the cancellation takes effect. There is no enforced
// per-unit timeout, so a unit stuck in a system call (a hung filesystem,
// for example) stalls the run until the call returns.
package runner
