// Package bench defines the benchmark unit contract and the built-in unit
// library.
//
// A Benchmark is a named, categorized operation that runs synchronously to
// completion or cooperative cancellation and returns one TestResult. Units
// receive a ProgressSink for fractional progress updates and cancellation
// polling, and the immutable RunConfig for sizes and iteration counts.
// Each unit owns a private subtree under the configured work directory;
// units never execute concurrently with each other, so no cross-unit
// locking is needed.
//
// Units that observe a cancellation request abandon their work, clean up,
// and return ErrCancelled. Any other error is an ordinary unit failure that
// the orchestrator reports and survives.
package bench
