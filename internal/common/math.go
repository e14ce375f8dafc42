package common

import "math"

// Round2 rounds to 2 decimal places. Display and money fields are rounded at
// the output boundary only; intermediate math stays unrounded.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
