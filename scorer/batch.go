package scorer

import (
	"fmt"
	"sort"
)

// Batch scheduling constants. Documents are grouped by token length so
// that zero-padding inside one padded group wastes at most
// lengthTolerance-1 (20%) of the similarity work.
const (
	// lengthTolerance bounds a group's max/min token-length ratio.
	lengthTolerance = 1.2

	// uniformMinDocs is the document count required for the uniform fast
	// path, which skips run formation entirely.
	uniformMinDocs = 50

	// uniformGroup is the fixed group size on the uniform fast path.
	uniformGroup = 32

	// groupCap is the largest padded group on the general path.
	groupCap = 128

	// groupMin is the smallest group worth padding; shorter runs are
	// scored one document at a time.
	groupMin = 4
)

// docMeta carries one document's position in the caller's collection and
// its slice of the flat buffer.
type docMeta struct {
	index  int
	tokens int
	offset int
}

// ScoreBatch scores every document in a flat collection against the query
// and returns one score per document in docTokens order. Documents are
// internally regrouped by token length for batching efficiency; results
// are always written back at original positions. A zero-length document
// scores 0; a zero-length query fails the whole call.
func (e *Engine) ScoreBatch(query []float32, queryTokens int, docsFlat []float32, docTokens []int, dim int, aggregate Aggregate) ([]float32, error) {
	if err := checkDim(dim); err != nil {
		return nil, err
	}
	if err := checkAggregate(aggregate); err != nil {
		return nil, err
	}
	if queryTokens == 0 {
		return nil, fmt.Errorf("%w: query has no tokens", ErrEmptyInput)
	}
	if err := checkBuffer("query", query, queryTokens, dim); err != nil {
		return nil, err
	}
	total := 0
	for i, tokens := range docTokens {
		if tokens < 0 {
			return nil, fmt.Errorf("%w: document %d token count %d is negative", ErrSizeMismatch, i, tokens)
		}
		total += tokens
	}
	if err := checkBuffer("document collection", docsFlat, total, dim); err != nil {
		return nil, err
	}
	if err := e.checkFinite("query", query); err != nil {
		return nil, err
	}
	if err := e.checkFinite("document collection", docsFlat); err != nil {
		return nil, err
	}

	scores := make([]float32, len(docTokens))
	meta := e.scratch.metaBuf(len(docTokens))[:0]
	offset := 0
	for i, tokens := range docTokens {
		if tokens > 0 {
			meta = append(meta, docMeta{index: i, tokens: tokens, offset: offset})
		}
		offset += tokens * dim
	}
	if len(meta) == 0 {
		return scores, nil
	}

	// Sorting groups similar lengths together; it never changes output
	// order because scores are written back through docMeta.index.
	sort.Slice(meta, func(a, b int) bool { return meta[a].tokens < meta[b].tokens })

	if e.uniformLengths(meta) {
		for start := 0; start < len(meta); start += uniformGroup {
			end := min(start+uniformGroup, len(meta))
			e.scoreGroupDirect(scores, meta[start:end], query, docsFlat, queryTokens, dim, aggregate)
		}
		return scores, nil
	}

	for start := 0; start < len(meta); {
		base := meta[start].tokens
		end := start + 1
		for end < len(meta) && end-start < groupCap && float64(meta[end].tokens) <= lengthTolerance*float64(base) {
			end++
		}
		run := meta[start:end]
		if len(run) < groupMin {
			e.scoreGroupDirect(scores, run, query, docsFlat, queryTokens, dim, aggregate)
		} else {
			e.scoreGroupPadded(scores, run, query, docsFlat, queryTokens, dim, aggregate)
		}
		start = end
	}
	return scores, nil
}

// uniformLengths reports whether the sorted collection qualifies for the
// fast path: enough documents and a max/min length ratio within tolerance.
func (e *Engine) uniformLengths(meta []docMeta) bool {
	if len(meta) < uniformMinDocs {
		return false
	}
	minLen := meta[0].tokens
	maxLen := meta[len(meta)-1].tokens
	return float64(maxLen) <= lengthTolerance*float64(minLen)
}

// scoreGroupDirect scores each document of the group on its own token
// length, sharing one similarity buffer sized for the longest member. No
// padding is introduced, so every document's full token sequence
// participates in the row maxima.
func (e *Engine) scoreGroupDirect(scores []float32, group []docMeta, query, docsFlat []float32, queryTokens, dim int, aggregate Aggregate) {
	maxTokens := group[len(group)-1].tokens
	e.scratch.similarity(queryTokens * maxTokens)
	for _, m := range group {
		doc := docsFlat[m.offset : m.offset+m.tokens*dim]
		sim := e.scratch.sim[:queryTokens*m.tokens]
		e.similarityInto(sim, query, doc, queryTokens, m.tokens, dim)
		scores[m.index] = maxSimScore(sim, queryTokens, m.tokens, m.tokens, aggregate)
	}
}

// scoreGroupPadded stages the group's documents side by side, padded with
// zero vectors to the group maximum, computes one combined similarity
// matrix, and reduces each document over its true-length column prefix
// only. Padding columns are therefore never candidates for a row max, and
// zero vectors keep the staged similarities deterministic regardless of
// what a previous, larger batch left in the buffer.
func (e *Engine) scoreGroupPadded(scores []float32, run []docMeta, query, docsFlat []float32, queryTokens, dim int, aggregate Aggregate) {
	maxTokens := run[len(run)-1].tokens
	width := len(run) * maxTokens
	staging := e.scratch.stagingBuf(width * dim)
	for d, m := range run {
		dst := staging[d*maxTokens*dim : (d+1)*maxTokens*dim]
		copy(dst, docsFlat[m.offset:m.offset+m.tokens*dim])
		zeroFloats(dst[m.tokens*dim:])
	}
	sim := e.scratch.similarity(queryTokens * width)
	e.similarityInto(sim, query, staging, queryTokens, width, dim)
	for d, m := range run {
		scores[m.index] = maxSimScore(sim[d*maxTokens:], queryTokens, m.tokens, width, aggregate)
	}
}

// ScoreBatchUniform scores numDocs documents that all share one token
// length. The shared length makes run formation unnecessary; documents are
// scored in fixed groups against a similarity buffer sized once.
func (e *Engine) ScoreBatchUniform(query []float32, queryTokens int, docsFlat []float32, numDocs, docTokens, dim int, aggregate Aggregate) ([]float32, error) {
	if err := checkDim(dim); err != nil {
		return nil, err
	}
	if err := checkAggregate(aggregate); err != nil {
		return nil, err
	}
	if queryTokens == 0 {
		return nil, fmt.Errorf("%w: query has no tokens", ErrEmptyInput)
	}
	if err := checkBuffer("query", query, queryTokens, dim); err != nil {
		return nil, err
	}
	if numDocs < 0 {
		return nil, fmt.Errorf("%w: document count %d is negative", ErrSizeMismatch, numDocs)
	}
	if docTokens < 0 {
		return nil, fmt.Errorf("%w: token count %d is negative", ErrSizeMismatch, docTokens)
	}
	if err := checkBuffer("document collection", docsFlat, numDocs*docTokens, dim); err != nil {
		return nil, err
	}
	scores := make([]float32, numDocs)
	if numDocs == 0 || docTokens == 0 {
		return scores, nil
	}
	if err := e.checkFinite("query", query); err != nil {
		return nil, err
	}
	if err := e.checkFinite("document collection", docsFlat); err != nil {
		return nil, err
	}
	meta := e.scratch.metaBuf(numDocs)
	for i := range meta {
		meta[i] = docMeta{index: i, tokens: docTokens, offset: i * docTokens * dim}
	}
	for start := 0; start < numDocs; start += uniformGroup {
		end := min(start+uniformGroup, numDocs)
		e.scoreGroupDirect(scores, meta[start:end], query, docsFlat, queryTokens, dim, aggregate)
	}
	return scores, nil
}
