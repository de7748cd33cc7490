// Package telemetry exports receiver state outside the control loop.
package telemetry

import (
	"github.com/golang/protobuf/proto"
)

// Snapshot is the receiver state at one tick. It's a protobuf message so it
// can go on the wire as is.
type Snapshot struct {
	TimestampMs       int64   `protobuf:"varint,1,opt,name=timestamp_ms,json=timestampMs,proto3" json:"timestamp_ms,omitempty"`
	Connected         bool    `protobuf:"varint,2,opt,name=connected,proto3" json:"connected,omitempty"`
	FixStatus         uint32  `protobuf:"varint,3,opt,name=fix_status,json=fixStatus,proto3" json:"fix_status,omitempty"`
	HasPosition       bool    `protobuf:"varint,4,opt,name=has_position,json=hasPosition,proto3" json:"has_position,omitempty"`
	Latitude          float64 `protobuf:"fixed64,5,opt,name=latitude,proto3" json:"latitude,omitempty"`
	Longitude         float64 `protobuf:"fixed64,6,opt,name=longitude,proto3" json:"longitude,omitempty"`
	Altitude          float64 `protobuf:"fixed64,7,opt,name=altitude,proto3" json:"altitude,omitempty"`
	NorthVelocity     int32   `protobuf:"zigzag32,8,opt,name=north_velocity,json=northVelocity,proto3" json:"north_velocity,omitempty"`
	EastVelocity      int32   `protobuf:"zigzag32,9,opt,name=east_velocity,json=eastVelocity,proto3" json:"east_velocity,omitempty"`
	Heading           int32   `protobuf:"zigzag32,10,opt,name=heading,proto3" json:"heading,omitempty"`
	CorrectionEnabled bool    `protobuf:"varint,11,opt,name=correction_enabled,json=correctionEnabled,proto3" json:"correction_enabled,omitempty"`
	Frames            uint32  `protobuf:"varint,12,opt,name=frames,proto3" json:"frames,omitempty"`
	SyncErrors        uint32  `protobuf:"varint,13,opt,name=sync_errors,json=syncErrors,proto3" json:"sync_errors,omitempty"`
	Oversized         uint32  `protobuf:"varint,14,opt,name=oversized,proto3" json:"oversized,omitempty"`
	ChecksumErrors    uint32  `protobuf:"varint,15,opt,name=checksum_errors,json=checksumErrors,proto3" json:"checksum_errors,omitempty"`
	UnknownMessages   uint32  `protobuf:"varint,16,opt,name=unknown_messages,json=unknownMessages,proto3" json:"unknown_messages,omitempty"`
	RxOverflow        uint32  `protobuf:"varint,17,opt,name=rx_overflow,json=rxOverflow,proto3" json:"rx_overflow,omitempty"`
}

// Reset implements proto.Message.
func (m *Snapshot) Reset() { *m = Snapshot{} }

// String implements proto.Message.
func (m *Snapshot) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Snapshot) ProtoMessage() {}

// HasFix indicates some fix type is reported.
func (m *Snapshot) HasFix() bool {
	return m.FixStatus != 0
}

// Encode marshals the snapshot into protobuf wire format.
func (m *Snapshot) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// Decode parses protobuf wire format.
func Decode(data []byte) (*Snapshot, error) {
	m := &Snapshot{}
	if err := proto.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}
