// Package protocol implements the binary wire format for shipping
// reconcile passes to remote consumers.
//
// All messages are framed with a 4-byte header:
//
//	[type: 1 byte][flags: 1 byte][payload length: uint16 big-endian]
//
// Frame types:
//
//   - FrameHello (0x00): connection setup, carries the last seen sequence
//   - FrameSnapshot (0x01): full tree for (re)sync
//   - FramePatches (0x02): one reconcile pass worth of patches
//   - FrameAck (0x03): consumer acknowledgment
//   - FrameError (0x04): error report
//   - FrameControl (0x05): ping/pong, close
//
// Payloads use varint-heavy binary encoding: protobuf-style unsigned
// varints, zigzag for signed values, length-prefixed strings, big-endian
// fixed-width integers. The decoder enforces allocation, collection and
// depth limits so malformed input can never allocate unbounded memory or
// recurse past the stack; violations surface as typed errors, never
// panics.
//
// Node payloads travel as NodeWire: bindings and event handlers are
// stripped, attribute values are flattened to strings. Patch payloads
// carry exactly the five tree operations (Create, Update, Delete,
// Replace, Move) with their decision-time coordinates.
package protocol
