package engine

import (
	"fmt"
	"math"
)

// CelsiusToFahrenheit converts with F = C*9/5 + 32.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FormatClock renders elapsed seconds as MM:SS. Minutes are not carried into
// hours, so 3600s renders as "60:00". Negative input floors like the seconds
// arithmetic it mirrors ("-1:55" for -5s).
func FormatClock(seconds float64) string {
	mins := math.Floor(seconds / 60)
	secs := math.Floor(seconds - mins*60)
	return fmt.Sprintf("%02d:%02d", int(mins), int(secs))
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
