// Package scorer implements MaxSim ("late interaction") relevance scoring
// between a multi-vector query and multi-vector documents: for each query
// token it finds the most similar document token, then aggregates the
// per-token maxima into one score per document.
//
// An Engine owns growable scratch buffers and is therefore not safe for
// concurrent use; callers wanting parallelism run one Engine per worker.
// All token buffers are flat row-major []float32 with dimension varying
// fastest, borrowed for the duration of a call and never retained, except
// for LoadDocuments which copies.
package scorer
