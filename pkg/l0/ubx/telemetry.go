package ubx

// Telemetry holds the raw values decoded from navigation messages.
// Units are those of the wire: 1e-7 degrees, millimeters, cm/s and
// 1e-5 degrees.
type Telemetry struct {
	Longitude   int32
	Latitude    int32
	Altitude    int32
	HasPosition bool

	// FixStatus is 0 when there's no fix.
	FixStatus byte

	NorthVelocity int32
	EastVelocity  int32
	Heading       int32
}

// Fix types reported in NAV-STATUS.
const (
	FixNone          byte = 0x00
	FixDeadReckoning byte = 0x01
	Fix2D            byte = 0x02
	Fix3D            byte = 0x03
	FixGPSDeadReckon byte = 0x04
	FixTimeOnly      byte = 0x05
)

// HasFix indicates some fix type is reported.
func (t *Telemetry) HasFix() bool {
	return t.FixStatus != FixNone
}
