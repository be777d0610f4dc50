package metrics

import "math"

// SafeDiv is guarded division: a/b when b > 0, otherwise 0.
// The result is never NaN or Inf.
func SafeDiv(a, b float64) float64 {
	if !(b > 0) || math.IsInf(b, 0) {
		return 0
	}
	return Finite(a / b)
}

// Percent returns a/b scaled by 100 with guarded division
func Percent(a, b float64) float64 {
	return SafeDiv(a, b) * 100
}

// PerMille returns a/b scaled by 1000 (CPM style)
func PerMille(a, b float64) float64 {
	return SafeDiv(a, b) * 1000
}

// Round2 rounds half away from zero to 2 decimals, for display only
func Round2(x float64) float64 {
	return math.Round(Finite(x)*100) / 100
}

// Finite maps NaN and Inf to 0
func Finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
