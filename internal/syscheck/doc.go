// Package syscheck runs the pre-flight inspection shown before a
// benchmark: current CPU load, free memory, power state and the noisiest
// background processes. The outcome is advisory; it never blocks a run.
package syscheck
