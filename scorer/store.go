package scorer

import "fmt"

// loadedDocs holds a preloaded document collection in one contiguous
// arena, in caller order. The batch scheduler re-sorts on every Search
// rather than persisting a sorted copy; the repeated sort is cheap and
// keeps order handling in one place.
type loadedDocs struct {
	flat   []float32
	tokens []int
	dim    int
}

// LoadDocuments validates and copies a flat document collection into the
// Engine for repeated Search calls. The previous collection is replaced
// only after the new one passes validation, so a failed load leaves the
// loaded state untouched.
func (e *Engine) LoadDocuments(docsFlat []float32, docTokens []int, dim int) error {
	if err := checkDim(dim); err != nil {
		return err
	}
	if len(docTokens) == 0 {
		return fmt.Errorf("%w: collection has no documents", ErrEmptyInput)
	}
	total := 0
	for i, tokens := range docTokens {
		if tokens < 0 {
			return fmt.Errorf("%w: document %d token count %d is negative", ErrSizeMismatch, i, tokens)
		}
		total += tokens
	}
	if err := checkBuffer("document collection", docsFlat, total, dim); err != nil {
		return err
	}
	if err := e.checkFinite("document collection", docsFlat); err != nil {
		return err
	}
	e.loaded = &loadedDocs{
		flat:   append([]float32(nil), docsFlat...),
		tokens: append([]int(nil), docTokens...),
		dim:    dim,
	}
	return nil
}

// Loaded reports whether a document collection is currently loaded.
func (e *Engine) Loaded() bool { return e.loaded != nil }

// LoadedDim returns the embedding dimension of the loaded collection, or 0
// when nothing is loaded.
func (e *Engine) LoadedDim() int {
	if e.loaded == nil {
		return 0
	}
	return e.loaded.dim
}

// Search scores the query against the loaded collection and returns one
// score per document in load order.
func (e *Engine) Search(query []float32, queryTokens int, aggregate Aggregate) ([]float32, error) {
	if e.loaded == nil {
		return nil, ErrNotLoaded
	}
	return e.ScoreBatch(query, queryTokens, e.loaded.flat, e.loaded.tokens, e.loaded.dim, aggregate)
}
