package engine

import (
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	sqlite "modernc.org/sqlite"

	"github.com/viant/maxsim/scorer"
)

// RegisterMaxSimFunctions registers the maxsim_sum and maxsim_mean SQL
// scalar functions with the driver so they are available on connections
// opened after this call. Both take (query BLOB, doc BLOB, dim INTEGER),
// where each BLOB is a flat little-endian float32 [tokens, dim] matrix;
// token counts are derived from the BLOB sizes. Similarity is full cosine,
// which is safe without any normalization assumption on stored embeddings.
// Note: existing open connections will not see new functions.
func RegisterMaxSimFunctions() error {
	// Idempotent registration; the driver rejects duplicates and we ignore
	// those errors silently here.
	_ = sqlite.RegisterDeterministicScalarFunction("maxsim_sum", 3, maxsimSumImpl)
	_ = sqlite.RegisterDeterministicScalarFunction("maxsim_mean", 3, maxsimMeanImpl)
	return nil
}

// enginePool hands each SQL call an exclusively owned scorer, satisfying
// the one-in-flight-call-per-Engine rule even when the driver evaluates
// functions on several connections at once.
var enginePool = sync.Pool{
	New: func() any { return scorer.New(scorer.Options{}) },
}

func maxsimSumImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	return maxsimImpl(args, scorer.AggregateSum)
}

func maxsimMeanImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	return maxsimImpl(args, scorer.AggregateMean)
}

func maxsimImpl(args []driver.Value, aggregate scorer.Aggregate) (driver.Value, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("maxsim: expected 3 arguments, got %d", len(args))
	}
	dim, err := asDim(args[2])
	if err != nil {
		return nil, err
	}
	query, queryTokens, err := asTokenMatrix(args[0], dim)
	if err != nil {
		return nil, err
	}
	doc, docTokens, err := asTokenMatrix(args[1], dim)
	if err != nil {
		return nil, err
	}
	if query == nil || doc == nil {
		return nil, nil
	}

	eng := enginePool.Get().(*scorer.Engine)
	defer enginePool.Put(eng)
	score, err := eng.ScoreSingle(query, queryTokens, doc, docTokens, dim, aggregate)
	if err != nil {
		return nil, err
	}
	return float64(score), nil
}

func asDim(arg driver.Value) (int, error) {
	v, ok := arg.(int64)
	if !ok {
		return 0, fmt.Errorf("maxsim: unsupported dimension type %T; want INTEGER", arg)
	}
	if v <= 0 {
		return 0, fmt.Errorf("maxsim: dimension must be positive, got %d", v)
	}
	return int(v), nil
}

// asTokenMatrix decodes a BLOB argument into a flat token matrix and its
// token count. NULL propagates as a nil matrix.
func asTokenMatrix(arg driver.Value, dim int) ([]float32, int, error) {
	b, ok := arg.([]byte)
	if !ok {
		if arg == nil {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("maxsim: unsupported argument type %T; want BLOB", arg)
	}
	if len(b) == 0 {
		return nil, 0, nil
	}
	if len(b)%4 != 0 {
		return nil, 0, fmt.Errorf("maxsim: invalid embedding blob length %d", len(b))
	}
	n := len(b) / 4
	if n%dim != 0 {
		return nil, 0, fmt.Errorf("maxsim: blob holds %d values, not a multiple of dim %d", n, dim)
	}
	v := make([]float32, n)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, n / dim, nil
}
