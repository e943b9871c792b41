// Package model holds the shared data types produced by a benchmark run:
// per-test results with statistical summaries (results.go), derived category
// and overall scores with rating bands (scores.go), the system description
// stamped onto every run (sysinfo.go), and run-to-run comparisons
// (compare.go).
//
// Everything here is plain data. Records are built once by the runner or the
// scoring calculator and treated as immutable by downstream consumers.
package model
