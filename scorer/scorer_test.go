package scorer

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// randomDoc returns a flat [tokens, dim] buffer with values in [-1, 1),
// row-normalized when normalized is true.
func randomDoc(r *rand.Rand, tokens, dim int, normalized bool) []float32 {
	flat := make([]float32, tokens*dim)
	for i := range flat {
		flat[i] = float32(r.Float64()*2 - 1)
	}
	if normalized {
		for t := 0; t < tokens; t++ {
			row := flat[t*dim : (t+1)*dim]
			var sum float64
			for _, v := range row {
				sum += float64(v) * float64(v)
			}
			norm := float32(math.Sqrt(sum))
			if norm == 0 {
				row[0] = 1
				continue
			}
			for i := range row {
				row[i] /= norm
			}
		}
	}
	return flat
}

func TestScoreSinglePerfectMatch(t *testing.T) {
	e := New(Options{Normalized: true})

	query := []float32{1, 0, 0, 0, 1, 0}          // 2 tokens, dim 3
	doc := []float32{1, 0, 0, 0, 1, 0, 0, 0, 1}   // 3 tokens, dim 3

	sum, err := e.ScoreSingle(query, 2, doc, 3, 3, AggregateSum)
	if err != nil {
		t.Fatalf("ScoreSingle sum failed: %v", err)
	}
	if math.Abs(float64(sum)-2) > 1e-6 {
		t.Fatalf("sum score = %v, want 2", sum)
	}

	mean, err := e.ScoreSingle(query, 2, doc, 3, 3, AggregateMean)
	if err != nil {
		t.Fatalf("ScoreSingle mean failed: %v", err)
	}
	if math.Abs(float64(mean)-1) > 1e-6 {
		t.Fatalf("mean score = %v, want 1", mean)
	}
}

func TestScoreSingleDegenerate(t *testing.T) {
	e := New(Options{Normalized: true})
	query := []float32{1, 0, 0, 0, 1, 0}

	for _, aggregate := range []Aggregate{AggregateSum, AggregateMean} {
		score, err := e.ScoreSingle(query, 2, nil, 0, 3, aggregate)
		if err != nil {
			t.Fatalf("ScoreSingle(%s) empty doc failed: %v", aggregate, err)
		}
		if score != 0 {
			t.Fatalf("ScoreSingle(%s) empty doc = %v, want 0", aggregate, score)
		}
	}

	score, err := e.ScoreSingle(nil, 0, query, 2, 3, AggregateSum)
	if err != nil {
		t.Fatalf("ScoreSingle empty query failed: %v", err)
	}
	if score != 0 {
		t.Fatalf("ScoreSingle empty query = %v, want 0", score)
	}
}

func TestScoreSingleCosineMatchesDot(t *testing.T) {
	// Scaling the inputs must not change cosine-mode scores, and on unit
	// vectors cosine mode must agree with dot mode.
	r := rand.New(rand.NewSource(7))
	const dim, queryTokens, docTokens = 16, 4, 9

	query := randomDoc(r, queryTokens, dim, true)
	doc := randomDoc(r, docTokens, dim, true)

	dotEngine := New(Options{Normalized: true})
	cosEngine := New(Options{})

	want, err := dotEngine.ScoreSingle(query, queryTokens, doc, docTokens, dim, AggregateSum)
	if err != nil {
		t.Fatalf("dot-mode ScoreSingle failed: %v", err)
	}

	scaled := make([]float32, len(doc))
	for i, v := range doc {
		scaled[i] = v * 3.5
	}
	got, err := cosEngine.ScoreSingle(query, queryTokens, scaled, docTokens, dim, AggregateSum)
	if err != nil {
		t.Fatalf("cosine-mode ScoreSingle failed: %v", err)
	}
	if math.Abs(float64(got-want)) > 1e-4 {
		t.Fatalf("cosine score %v differs from dot score %v", got, want)
	}
}

func TestScoreSingleCosineZeroVector(t *testing.T) {
	e := New(Options{})
	query := []float32{1, 0}
	doc := []float32{0, 0} // zero magnitude must score 0, not NaN

	score, err := e.ScoreSingle(query, 1, doc, 1, 2, AggregateSum)
	if err != nil {
		t.Fatalf("ScoreSingle failed: %v", err)
	}
	if score != 0 {
		t.Fatalf("score against zero vector = %v, want 0", score)
	}
}

func TestScoreSingleValidation(t *testing.T) {
	e := New(Options{Normalized: true})
	query := []float32{1, 0, 0}

	if _, err := e.ScoreSingle(query, 1, query, 1, 0, AggregateSum); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("dim=0 error = %v, want ErrInvalidDimension", err)
	}
	if _, err := e.ScoreSingle(query, 2, query, 1, 3, AggregateSum); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("short query error = %v, want ErrSizeMismatch", err)
	}
	if _, err := e.ScoreSingle(query, 1, []float32{1, 0}, 1, 3, AggregateSum); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("short doc error = %v, want ErrSizeMismatch", err)
	}
	if _, err := e.ScoreSingle(query, 1, query, 1, 3, Aggregate("median")); err == nil {
		t.Fatalf("unknown aggregate accepted")
	}
}

func TestScoreSingleNonFinite(t *testing.T) {
	query := []float32{1, 0, 0}
	bad := []float32{float32(math.NaN()), 0, 0}

	e := New(Options{Normalized: true})
	if _, err := e.ScoreSingle(query, 1, bad, 1, 3, AggregateSum); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("NaN doc error = %v, want ErrNonFinite", err)
	}
	if _, err := e.ScoreSingle(bad, 1, query, 1, 3, AggregateSum); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("NaN query error = %v, want ErrNonFinite", err)
	}

	// Unchecked mode accepts the same input without error.
	unchecked := New(Options{Normalized: true, Unchecked: true})
	if _, err := unchecked.ScoreSingle(query, 1, bad, 1, 3, AggregateSum); err != nil {
		t.Fatalf("unchecked ScoreSingle failed: %v", err)
	}
}
