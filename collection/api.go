package collection

import (
	"context"

	"github.com/viant/maxsim/scorer"
)

// Document represents one logical document with its token-level embedding
// sequence.
type Document struct {
	// ID is the logical identifier. When empty on insert, the store
	// generates one.
	ID string

	// Content holds the main text/body, kept so search hits can be
	// displayed without a second lookup.
	Content string

	// Meta is an opaque payload (typically JSON) associated with the
	// document.
	Meta string

	// Tokens is the number of token embeddings in Embedding.
	Tokens int

	// Embedding is the flat row-major [Tokens, dim] token matrix.
	Embedding []float32
}

// Match is a single similarity-search hit.
type Match struct {
	ID      string
	Score   float32
	Content string
	Meta    string
}

// Store defines the application-level multi-vector store API.
type Store interface {
	// AddDocuments inserts documents and returns their assigned IDs.
	AddDocuments(ctx context.Context, docs []Document) ([]string, error)

	// SimilaritySearch scores the query token matrix against every stored
	// document with MaxSim and returns up to k matches, best first.
	SimilaritySearch(ctx context.Context, query []float32, queryTokens, k int, aggregate scorer.Aggregate) ([]Match, error)

	// Remove deletes the document with the given ID.
	Remove(ctx context.Context, id string) error
}
