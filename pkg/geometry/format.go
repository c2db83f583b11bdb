package geometry

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber formats v the way a browser prints a number: the shortest
// decimal that round-trips, no exponent for ordinary magnitudes, an
// unpadded signed exponent ("1e-7", "1e+21") outside them, and "0" for
// negative zero.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	if math.Abs(v) >= 1e21 || math.Abs(v) < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadiansToDegrees converts an angle in radians to degrees.
func RadiansToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
