package gps

// Scale of raw values.
const (
	CoordinateScale     = 1e7 // raw units per degree
	HeadingScale        = 1e5 // raw units per degree
	MillimetersPerMeter = 1000
	CentimetersPerMeter = 100
)

// CoordinateToDegrees converts a 1e-7 degree fixed-point coordinate.
func CoordinateToDegrees(v int32) float64 {
	return float64(v) / CoordinateScale
}

// HeadingToDegrees converts a 1e-5 degree heading.
func HeadingToDegrees(v int32) float64 {
	return float64(v) / HeadingScale
}

// MillimetersToMeters converts an altitude.
func MillimetersToMeters(v int32) float64 {
	return float64(v) / MillimetersPerMeter
}

// CentimetersToMeters converts a velocity.
func CentimetersToMeters(v int32) float64 {
	return float64(v) / CentimetersPerMeter
}
