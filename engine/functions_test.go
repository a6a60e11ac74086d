package engine

import (
	"math"
	"testing"

	"github.com/viant/maxsim/collection"
)

func TestMaxSimFunctions(t *testing.T) {
	// Register globally before first connection so functions are available.
	if err := RegisterMaxSimFunctions(); err != nil {
		t.Fatalf("RegisterMaxSimFunctions failed: %v", err)
	}
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	// Two query tokens, three doc tokens, dim 3: every query token has an
	// exact counterpart, so the sum score is 2 and the mean score 1.
	queryBlob := collection.EncodeTokens([]float32{1, 0, 0, 0, 1, 0})
	docBlob := collection.EncodeTokens([]float32{1, 0, 0, 0, 1, 0, 0, 0, 1})

	var sum float64
	if err := db.QueryRow(`SELECT maxsim_sum(?, ?, 3)`, queryBlob, docBlob).Scan(&sum); err != nil {
		t.Fatalf("maxsim_sum query failed: %v", err)
	}
	if math.Abs(sum-2) > 1e-6 {
		t.Fatalf("maxsim_sum = %v, want 2", sum)
	}

	var mean float64
	if err := db.QueryRow(`SELECT maxsim_mean(?, ?, 3)`, queryBlob, docBlob).Scan(&mean); err != nil {
		t.Fatalf("maxsim_mean query failed: %v", err)
	}
	if math.Abs(mean-1) > 1e-6 {
		t.Fatalf("maxsim_mean = %v, want 1", mean)
	}
}

func TestMaxSimFunctionOrdering(t *testing.T) {
	if err := RegisterMaxSimFunctions(); err != nil {
		t.Fatalf("RegisterMaxSimFunctions failed: %v", err)
	}
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE docs(id TEXT, embedding BLOB)`); err != nil {
		t.Fatalf("CREATE TABLE failed: %v", err)
	}
	insert := func(id string, flat []float32) {
		if _, err := db.Exec(`INSERT INTO docs(id, embedding) VALUES(?, ?)`, id, collection.EncodeTokens(flat)); err != nil {
			t.Fatalf("INSERT %s failed: %v", id, err)
		}
	}
	insert("far", []float32{0, 1})
	insert("near", []float32{1, 0})
	insert("middle", []float32{1, 1})

	queryBlob := collection.EncodeTokens([]float32{1, 0})
	rows, err := db.Query(`SELECT id FROM docs ORDER BY maxsim_sum(?, embedding, 2) DESC`, queryBlob)
	if err != nil {
		t.Fatalf("ORDER BY maxsim_sum failed: %v", err)
	}
	defer rows.Close()

	var got []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		got = append(got, id)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows.Err: %v", err)
	}
	want := []string{"near", "middle", "far"}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestMaxSimFunctionValidation(t *testing.T) {
	if err := RegisterMaxSimFunctions(); err != nil {
		t.Fatalf("RegisterMaxSimFunctions failed: %v", err)
	}
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	queryBlob := collection.EncodeTokens([]float32{1, 0, 0})
	var out float64

	// Blob length not a multiple of dim.
	if err := db.QueryRow(`SELECT maxsim_sum(?, ?, 2)`, queryBlob, queryBlob).Scan(&out); err == nil {
		t.Fatalf("maxsim_sum accepted blob inconsistent with dim")
	}
	// Non-positive dimension.
	if err := db.QueryRow(`SELECT maxsim_sum(?, ?, 0)`, queryBlob, queryBlob).Scan(&out); err == nil {
		t.Fatalf("maxsim_sum accepted dim 0")
	}
}
