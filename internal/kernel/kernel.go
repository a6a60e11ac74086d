package kernel

import "github.com/viant/vec/search"

// Dot returns the inner product of a and b, which must have equal length.
// The accumulation is delegated to the viant/vec cosine kernel with unit
// magnitudes: cosineDistance(a, b, 1, 1) = 1 - dot(a, b), so the dot product
// is recovered by subtracting the distance from one. This keeps a single
// SIMD code path for both similarity modes.
func Dot(a, b []float32) float32 {
	return 1 - search.Float32s(a).CosineDistanceWithMagnitudesNeon(b, 1, 1)
}

// Magnitude returns the L2 norm of v.
func Magnitude(v []float32) float32 {
	return search.Float32s(v).Magnitude()
}

// Cosine returns the cosine similarity of a and b, or 0 when either vector
// has zero magnitude.
func Cosine(a, b []float32) float32 {
	return CosineWithMagnitude(a, b, Magnitude(a), Magnitude(b))
}

// CosineWithMagnitude returns the cosine similarity of a and b given their
// precomputed L2 norms. A zero norm yields 0 rather than NaN.
func CosineWithMagnitude(a, b []float32, ma, mb float32) float32 {
	if ma == 0 || mb == 0 {
		return 0
	}
	return 1 - search.Float32s(a).CosineDistanceWithMagnitudesNeon(b, ma, mb)
}

// Magnitudes fills dst[i] with the L2 norm of the i-th row of the flat
// row-major buffer. dst must have room for len(flat)/dim entries.
func Magnitudes(dst, flat []float32, dim int) {
	for i := range dst {
		dst[i] = Magnitude(flat[i*dim : (i+1)*dim])
	}
}
