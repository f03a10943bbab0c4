package errors

import (
	"fmt"
	"math"
)

// CheckScalar checks a single scalar value for NaN or Inf.
func CheckScalar(operation string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewValueError(operation, fmt.Sprintf("non-finite result %v", value))
	}
	return nil
}

// ClipValue clips a value to the range [min, max].
// NaN is returned unchanged because both comparisons are false.
func ClipValue(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
