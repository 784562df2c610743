// Package metric provides vector distance calculations for the ANN index.
package metric

import "math"

// Func is a function type for distance calculation between two vectors of
// equal length. Length checks are the caller's responsibility.
type Func func(a, b []float32) float32

// Dot calculates the dot product of two vectors.
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Magnitude calculates the L2 norm of a vector.
func Magnitude(v []float32) float32 {
	return float32(math.Sqrt(float64(Dot(v, v))))
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// Zero-magnitude vectors yield a similarity of 0.
func CosineSimilarity(a, b []float32) float32 {
	magA := Magnitude(a)
	magB := Magnitude(b)

	// Avoid division by zero
	if magA == 0 || magB == 0 {
		return 0
	}

	return Dot(a, b) / (magA * magB)
}

// CosineDistance calculates 1 - cosine similarity. It is symmetric and
// non-negative for vectors with non-negative similarity; it does not obey
// the triangle inequality.
func CosineDistance(a, b []float32) float32 {
	return 1 - CosineSimilarity(a, b)
}

// SquaredL2 calculates the squared Euclidean distance between two vectors.
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
