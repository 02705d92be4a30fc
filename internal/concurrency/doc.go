// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// OS thread placement for latency-sensitive driver agents. The conductor
// agent may be locked to its OS thread and bound to one CPU core so its
// duty cycle is not migrated between cores.
//
// Linux uses sched_setaffinity, Windows uses SetThreadAffinityMask; other
// platforms report ErrAffinityNotSupported.
package concurrency
