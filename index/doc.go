// Package index defines a minimal abstraction for multi-vector indexes
// that can be built from token-level embeddings, queried for top-k MaxSim
// matches, and serialized for persistence. Implementations in this module
// include an exhaustive brute-force scorer.
package index
