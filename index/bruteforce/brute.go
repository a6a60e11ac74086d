package bruteforce

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/viant/maxsim/scorer"
)

// Index is an exhaustive MaxSim index. Documents live in one contiguous
// token arena so a query is a single batched scoring pass. The embedded
// scorer owns scratch buffers, so an Index must not be queried
// concurrently; run one Index per worker for parallel search.
type Index struct {
	ids        []string
	flat       []float32
	tokens     []int
	dim        int
	normalized bool
	eng        *scorer.Engine
}

// New returns an empty Index. normalized declares that indexed and query
// embeddings are pre-L2-normalized, enabling dot-product scoring.
func New(normalized bool) *Index {
	return &Index{
		normalized: normalized,
		eng:        scorer.New(scorer.Options{Normalized: normalized}),
	}
}

// Build loads ids and token matrices into the arena, replacing any
// previous contents. docs[i] must be a flat [tokens, dim] matrix.
func (i *Index) Build(ids []string, docs [][]float32, dim int) error {
	if len(ids) != len(docs) {
		return fmt.Errorf("bruteforce: ids and docs length mismatch: %d != %d", len(ids), len(docs))
	}
	if dim <= 0 {
		return fmt.Errorf("bruteforce: dimension must be positive, got %d", dim)
	}
	total := 0
	for j, doc := range docs {
		if len(doc)%dim != 0 {
			return fmt.Errorf("bruteforce: doc %d has %d values, not a multiple of dim %d", j, len(doc), dim)
		}
		total += len(doc)
	}

	flat := make([]float32, 0, total)
	tokens := make([]int, len(docs))
	for j, doc := range docs {
		tokens[j] = len(doc) / dim
		flat = append(flat, doc...)
	}
	i.ids = append([]string(nil), ids...)
	i.flat = flat
	i.tokens = tokens
	i.dim = dim
	return nil
}

// Query returns the top-k documents by MaxSim score, best first. k <= 0 or
// k beyond the collection size returns every document.
func (i *Index) Query(query []float32, queryTokens, k int, aggregate scorer.Aggregate) ([]string, []float32, error) {
	if i.dim == 0 || len(i.ids) == 0 {
		return nil, nil, nil
	}
	scores, err := i.eng.ScoreBatch(query, queryTokens, i.flat, i.tokens, i.dim, aggregate)
	if err != nil {
		return nil, nil, err
	}

	order := make([]int, len(scores))
	for j := range order {
		order[j] = j
	}
	sort.Slice(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	if k <= 0 || k > len(order) {
		k = len(order)
	}
	outIDs := make([]string, k)
	outScores := make([]float32, k)
	for n := 0; n < k; n++ {
		outIDs[n] = i.ids[order[n]]
		outScores[n] = scores[order[n]]
	}
	return outIDs, outScores, nil
}

// MarshalBinary stores: dim(uint32), normalized(uint32), n(uint32), then
// for each item: idLen(uint32), id bytes, tokens(uint32),
// float32[tokens*dim].
func (i *Index) MarshalBinary() ([]byte, error) {
	size := 12
	for j, id := range i.ids {
		size += 8 + len(id) + 4*i.tokens[j]*i.dim
	}
	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint32(out, uint32(i.dim))
	normalized := uint32(0)
	if i.normalized {
		normalized = 1
	}
	out = binary.LittleEndian.AppendUint32(out, normalized)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(i.ids)))

	offset := 0
	for j, id := range i.ids {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(id)))
		out = append(out, id...)
		out = binary.LittleEndian.AppendUint32(out, uint32(i.tokens[j]))
		count := i.tokens[j] * i.dim
		for _, v := range i.flat[offset : offset+count] {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
		}
		offset += count
	}
	return out, nil
}

// UnmarshalBinary restores the index from bytes produced by MarshalBinary.
func (i *Index) UnmarshalBinary(data []byte) error {
	if len(data) < 12 {
		return errors.New("bruteforce: invalid data")
	}
	off := 0
	getU32 := func() (uint32, error) {
		if off+4 > len(data) {
			return 0, errors.New("bruteforce: truncated")
		}
		v := binary.LittleEndian.Uint32(data[off : off+4])
		off += 4
		return v, nil
	}

	dim, _ := getU32()
	normalized, _ := getU32()
	n, _ := getU32()

	ids := make([]string, 0, n)
	docs := make([][]float32, 0, n)
	for idx := uint32(0); idx < n; idx++ {
		idLen, err := getU32()
		if err != nil {
			return err
		}
		if off+int(idLen) > len(data) {
			return errors.New("bruteforce: truncated id")
		}
		id := string(data[off : off+int(idLen)])
		off += int(idLen)

		tokens, err := getU32()
		if err != nil {
			return err
		}
		count := int(tokens) * int(dim)
		doc := make([]float32, count)
		for j := 0; j < count; j++ {
			bits, err := getU32()
			if err != nil {
				return errors.New("bruteforce: truncated embedding")
			}
			doc[j] = math.Float32frombits(bits)
		}
		ids = append(ids, id)
		docs = append(docs, doc)
	}

	i.normalized = normalized != 0
	i.eng = scorer.New(scorer.Options{Normalized: i.normalized})
	if n == 0 {
		i.ids, i.flat, i.tokens, i.dim = nil, nil, nil, 0
		return nil
	}
	return i.Build(ids, docs, int(dim))
}
