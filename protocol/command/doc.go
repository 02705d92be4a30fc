// Package command
// Author: momentics <momentics@gmail.com>
//
// Control protocol messages exchanged between client processes and the
// media driver through shared-memory rings.
//
// Messages use the same flyweight discipline as wire frames: fixed
// little-endian fields at fixed offsets, followed for some messages by a
// length-prefixed UTF-8 channel string. The record type id travels in the
// ring record header, not in the message body.
package command
