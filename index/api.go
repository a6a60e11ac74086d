package index

import "github.com/viant/maxsim/scorer"

// Index defines a multi-vector index with basic lifecycle methods. It
// enables building from (id, token matrix) pairs, top-k MaxSim queries,
// and binary serialization for persistence.
type Index interface {
	// Build constructs the index from the given ids and documents, where
	// docs[i] is a flat row-major [tokens, dim] matrix. ids and docs must
	// have the same length and every document must share the dimension.
	Build(ids []string, docs [][]float32, dim int) error

	// Query scores the flat [queryTokens, dim] query against every indexed
	// document and returns up to k matches as parallel slices of ids and
	// scores, best first.
	Query(query []float32, queryTokens, k int, aggregate scorer.Aggregate) (ids []string, scores []float32, err error)

	// MarshalBinary serializes the index into a byte slice.
	MarshalBinary() ([]byte, error)

	// UnmarshalBinary reconstructs the index from a serialized byte slice.
	UnmarshalBinary(data []byte) error
}
