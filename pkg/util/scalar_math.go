package util

import (
	"math"

	"golang.org/x/exp/constraints"
)

// scalar math used by cost and distance computations. plain float64 math; the results are
// interchangeable with any vectorized implementation within normal rounding.

func Exp(x float64) float64 {
	return math.Exp(x)
}

func Sqrt(x float64) float64 {
	return math.Sqrt(x)
}

func Fabs(x float64) float64 {
	return math.Abs(x)
}

func Abs[T constraints.Signed](a T) T {
	if a < 0 {
		return -a
	}
	return a
}
