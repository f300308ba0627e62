package utils

import "math"

// NormalizeL2 scales an embedding in place to unit length and returns its original norm.
// A zero vector is left as is.
func NormalizeL2(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return 0
	}
	norm := math.Sqrt(sum)
	scale := float32(1 / norm)
	for i := range x {
		x[i] *= scale
	}
	return norm
}
