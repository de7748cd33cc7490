// Package ubx decodes the u-blox binary navigation protocol one byte at a time.
package ubx

// A frame on the wire (little-endian):
//
//   [0xB5][0x62][class][id][length:2][payload:length][ck_a][ck_b]
//
// The Framer pulls bytes from a ByteSource, at most one per Poll, and
// assembles them into a raw frame buffer. Once a frame is complete the
// payload is handed to a FieldDecoder, one field per Poll, which updates
// Telemetry. Any malformed input sends the Framer back to Idle where it
// looks for the next sync pair; nothing in this package is fatal.
