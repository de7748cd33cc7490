package ubx

// PosLLHPayload builds a NAV-POSLLH payload with the decoded fields set.
func PosLLHPayload(lon, lat, hMSL int32) []byte {
	p := make([]byte, 28)
	PutInt32LE(p, 4, lon)
	PutInt32LE(p, 8, lat)
	PutInt32LE(p, 16, hMSL)
	return p
}

// StatusPayload builds a NAV-STATUS payload with the fix type set.
func StatusPayload(fix byte) []byte {
	p := make([]byte, 16)
	p[4] = fix
	return p
}

// VelNEDPayload builds a NAV-VELNED payload with the decoded fields set.
func VelNEDPayload(north, east, heading int32) []byte {
	p := make([]byte, 36)
	PutInt32LE(p, 4, north)
	PutInt32LE(p, 8, east)
	PutInt32LE(p, 24, heading)
	return p
}
