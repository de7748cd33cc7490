package gps

// Control messages posted to the loop and applied by the Receiver
// controller inside the tick.

// SetErrorOffsetMsg sets the error correction offsets.
type SetErrorOffsetMsg struct {
	Latitude  int32
	Longitude int32
}

// SetCorrectionMsg enables or disables error correction.
type SetCorrectionMsg struct {
	Enabled bool
}

// PollRequestMsg asks the navigation receiver to output a message once.
type PollRequestMsg struct {
	Class byte
	ID    byte
}
