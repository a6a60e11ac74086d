package scorer

import (
	"fmt"

	"github.com/viant/maxsim/internal/kernel"
)

// Aggregate selects how per-query-token maxima are combined into one score.
type Aggregate string

const (
	// AggregateSum sums the row maxima; use it to rank documents under a
	// single fixed query.
	AggregateSum Aggregate = "sum"

	// AggregateMean divides the sum by the query token count, making scores
	// comparable across queries of differing lengths.
	AggregateMean Aggregate = "mean"
)

func (a Aggregate) valid() bool {
	return a == AggregateSum || a == AggregateMean
}

// Options configures a new Engine.
type Options struct {
	// Normalized declares that supplied embeddings are already
	// L2-normalized, so pairwise similarity reduces to a plain dot product.
	// When false, full cosine similarity is computed.
	Normalized bool

	// Unchecked skips the non-finite input scan. Scoring NaN or infinite
	// embeddings is undefined; enable only for trusted inputs where the
	// validation pass is measurable.
	Unchecked bool
}

// Engine scores multi-vector queries against multi-vector documents. It
// owns reusable scratch memory that grows on demand and never shrinks
// within a session; a single Engine must not be used concurrently.
type Engine struct {
	normalized bool
	unchecked  bool
	scratch    scratch
	loaded     *loadedDocs
}

// New returns an Engine with the given options. The zero Options value
// selects cosine mode with input validation enabled.
func New(options Options) *Engine {
	return &Engine{normalized: options.Normalized, unchecked: options.Unchecked}
}

// ScoreSingle computes the MaxSim score of one document against the query.
// Both buffers are flat row-major [tokens, dim] float32. A zero token count
// on either side yields 0 without error.
func (e *Engine) ScoreSingle(query []float32, queryTokens int, doc []float32, docTokens, dim int, aggregate Aggregate) (float32, error) {
	if err := checkDim(dim); err != nil {
		return 0, err
	}
	if err := checkAggregate(aggregate); err != nil {
		return 0, err
	}
	if err := checkBuffer("query", query, queryTokens, dim); err != nil {
		return 0, err
	}
	if err := checkBuffer("document", doc, docTokens, dim); err != nil {
		return 0, err
	}
	if queryTokens == 0 || docTokens == 0 {
		return 0, nil
	}
	if err := e.checkFinite("query", query); err != nil {
		return 0, err
	}
	if err := e.checkFinite("document", doc); err != nil {
		return 0, err
	}
	sim := e.scratch.similarity(queryTokens * docTokens)
	e.similarityInto(sim, query, doc, queryTokens, docTokens, dim)
	return maxSimScore(sim, queryTokens, docTokens, docTokens, aggregate), nil
}

func checkDim(dim int) error {
	if dim <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDimension, dim)
	}
	return nil
}

func checkAggregate(aggregate Aggregate) error {
	if !aggregate.valid() {
		return fmt.Errorf("scorer: unknown aggregate %q", aggregate)
	}
	return nil
}

func checkBuffer(name string, buf []float32, tokens, dim int) error {
	if tokens < 0 {
		return fmt.Errorf("%w: %s token count %d is negative", ErrSizeMismatch, name, tokens)
	}
	if len(buf) != tokens*dim {
		return fmt.Errorf("%w: %s has %d elements, want %d (%d tokens × dim %d)",
			ErrSizeMismatch, name, len(buf), tokens*dim, tokens, dim)
	}
	return nil
}

func (e *Engine) checkFinite(name string, buf []float32) error {
	if e.unchecked {
		return nil
	}
	if !kernel.Finite(buf) {
		return fmt.Errorf("%w: %s contains NaN or Inf", ErrNonFinite, name)
	}
	return nil
}
