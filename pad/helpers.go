package pad

import "math"

// AxisToRaw converts a normalized axis value in [-1, 1] into its int8 wire form.
func AxisToRaw(v float64) int8 {
	return clampI8(math.Round(v * math.MaxInt8))
}

// RawToAxis converts an int8 wire axis into [-1, 1].
func RawToAxis(raw int8) float64 {
	v := float64(raw) / math.MaxInt8
	if v < -1.0 {
		v = -1.0
	}
	return v
}

// NormalizeAxis16 converts a signed 16-bit hardware axis reading into [-1, 1].
func NormalizeAxis16(raw int16) float64 {
	v := float64(raw) / math.MaxInt16
	if v < -1.0 {
		v = -1.0
	}
	return v
}

func clampI8(v float64) int8 {
	if v > math.MaxInt8 {
		return math.MaxInt8
	}
	if v < math.MinInt8 {
		return math.MinInt8
	}
	return int8(v)
}
