package scorer

import "github.com/viant/maxsim/internal/kernel"

// queryTile is the tile size along the query token axis.
const queryTile = 8

// docTile returns the tile size along the document token axis. Longer
// documents get narrower tiles so one tile's embeddings stay resident in
// fast cache; the choice affects access order only, never the result.
func docTile(docTokens int) int {
	switch {
	case docTokens <= 256:
		return 16
	case docTokens <= 1024:
		return 8
	default:
		return 4
	}
}

// similarityInto fills dst, a row-major queryTokens×docTokens matrix, with
// the pairwise similarity of every query/document token pair. dst must
// hold queryTokens*docTokens entries. In cosine mode the per-token norms
// are computed once into scratch before the pair loop.
func (e *Engine) similarityInto(dst, query, doc []float32, queryTokens, docTokens, dim int) {
	var queryMags, docMags []float32
	if !e.normalized {
		queryMags = e.scratch.queryMags(queryTokens)
		kernel.Magnitudes(queryMags, query[:queryTokens*dim], dim)
		docMags = e.scratch.docMags(docTokens)
		kernel.Magnitudes(docMags, doc[:docTokens*dim], dim)
	}

	dt := docTile(docTokens)
	for qBase := 0; qBase < queryTokens; qBase += queryTile {
		qEnd := min(qBase+queryTile, queryTokens)
		for dBase := 0; dBase < docTokens; dBase += dt {
			dEnd := min(dBase+dt, docTokens)
			for q := qBase; q < qEnd; q++ {
				queryToken := query[q*dim : (q+1)*dim]
				row := dst[q*docTokens:]
				if e.normalized {
					for d := dBase; d < dEnd; d++ {
						row[d] = kernel.Dot(queryToken, doc[d*dim:(d+1)*dim])
					}
					continue
				}
				for d := dBase; d < dEnd; d++ {
					row[d] = kernel.CosineWithMagnitude(queryToken, doc[d*dim:(d+1)*dim], queryMags[q], docMags[d])
				}
			}
		}
	}
}
