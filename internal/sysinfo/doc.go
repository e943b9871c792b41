// Package sysinfo collects the hardware and OS description stamped onto
// every benchmark run. Collection is best effort: fields a platform cannot
// provide stay zero rather than failing the run.
package sysinfo
