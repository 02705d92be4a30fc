// File: internal/shm/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// File-backed shared memory used by the driver: the command-and-control
// (CnC) file holding the command and to-clients rings, and the log buffer
// files of each publication. Files live under /dev/shm when available so
// the mapping never touches a disk.
package shm
