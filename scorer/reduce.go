package scorer

import "github.com/viant/maxsim/internal/kernel"

// maxSimScore reduces a similarity matrix to one scalar: the maximum of
// each of the queryTokens rows, summed, and divided by the row count for
// the mean aggregate. matrix is row-major with the given row stride; only
// the first docTokens columns of each row are considered, so callers can
// reduce one document's slice of a wider batched matrix and padding
// columns never compete. The accumulation runs in float64 to keep the
// result stable against row ordering.
func maxSimScore(matrix []float32, queryTokens, docTokens, rowStride int, aggregate Aggregate) float32 {
	if queryTokens == 0 || docTokens == 0 {
		return 0
	}
	var sum float64
	for q := 0; q < queryTokens; q++ {
		row := matrix[q*rowStride : q*rowStride+docTokens]
		sum += float64(kernel.Max(row))
	}
	if aggregate == AggregateMean {
		sum /= float64(queryTokens)
	}
	return float32(sum)
}
