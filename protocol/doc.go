// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Implements the media driver wire protocol as zero-copy flyweights.
//
// Every frame starts with the same 8-byte header (version, flags, type,
// reserved, frameLength) and all integers are little-endian. Flyweights
// never own memory: Wrap binds a view to (buffer, offset) and each field
// accessor reads or writes at offset plus the field's fixed position.
//
// Includes:
//   - Generic header, DATA, NAK, SM and ERR frame views
//   - Header validation for untrusted inbound bytes
//   - Frame type names and alignment helpers
package protocol
