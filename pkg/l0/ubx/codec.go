package ubx

// Frame layout.
const (
	Sync1 byte = 0xB5
	Sync2 byte = 0x62

	// HeaderLen is sync(2) + class + id + length(2).
	HeaderLen = 6
	// ChecksumLen is the number of trailing checksum bytes.
	ChecksumLen = 2
	// MaxFrameLen is the capacity of the raw frame buffer.
	MaxFrameLen = 255
	// MaxPayloadLen is the largest payload that fits in MaxFrameLen.
	MaxPayloadLen = MaxFrameLen - HeaderLen - ChecksumLen
)

const (
	indexSync1   = 0
	indexSync2   = 1
	indexClass   = 2
	indexID      = 3
	indexLength1 = 4
	indexLength2 = 5
)

// Message classes and ids.
const (
	ClassNAV byte = 0x01

	IDNavPosLLH byte = 0x02
	IDNavStatus byte = 0x03
	IDNavVelNED byte = 0x12
)

// Uint16LE reads a little-endian uint16 at offset.
func Uint16LE(p []byte, offset int) uint16 {
	return uint16(p[offset]) | uint16(p[offset+1])<<8
}

// Uint32LE reads a little-endian uint32 at offset.
func Uint32LE(p []byte, offset int) uint32 {
	return uint32(p[offset]) |
		uint32(p[offset+1])<<8 |
		uint32(p[offset+2])<<16 |
		uint32(p[offset+3])<<24
}

// Int32LE reads a little-endian two's-complement int32 at offset.
func Int32LE(p []byte, offset int) int32 {
	return int32(Uint32LE(p, offset))
}

// PutInt32LE writes v little-endian at offset.
func PutInt32LE(p []byte, offset int, v int32) {
	u := uint32(v)
	p[offset], p[offset+1], p[offset+2], p[offset+3] = byte(u), byte(u>>8), byte(u>>16), byte(u>>24)
}

// Checksum computes the 8-bit Fletcher checksum over class, id, length and payload.
func Checksum(p []byte) (ckA, ckB byte) {
	for _, b := range p {
		ckA += b
		ckB += ckA
	}
	return
}

// Encode builds a complete frame. Payloads longer than MaxPayloadLen are
// encoded as-is, but the Framer will reject them.
func Encode(class, id byte, payload []byte) []byte {
	l := len(payload)
	frame := make([]byte, HeaderLen+l+ChecksumLen)
	frame[indexSync1], frame[indexSync2] = Sync1, Sync2
	frame[indexClass], frame[indexID] = class, id
	frame[indexLength1], frame[indexLength2] = byte(l), byte(l>>8)
	copy(frame[HeaderLen:], payload)
	ckA, ckB := Checksum(frame[indexClass : HeaderLen+l])
	frame[HeaderLen+l], frame[HeaderLen+l+1] = ckA, ckB
	return frame
}

// PollRequest builds the empty-payload frame which asks the receiver to
// output the (class, id) message once.
func PollRequest(class, id byte) []byte {
	return Encode(class, id, nil)
}
