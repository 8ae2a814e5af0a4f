package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ApproxEqual reports whether a and b differ by at most eps.
func ApproxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
