package kernel

import (
	"math"
	"testing"
)

func TestDot(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	b := []float32{2, 3, 4, 5}

	if got := Dot(a, b); got != 40 {
		t.Fatalf("Dot = %v, want 40", got)
	}
	if got := Dot([]float32{1, 0, 0}, []float32{0, 1, 0}); got != 0 {
		t.Fatalf("Dot orthogonal = %v, want 0", got)
	}
}

func TestDotOddLength(t *testing.T) {
	// 7 elements exercises the kernel's scalar tail handling.
	a := []float32{1, 1, 1, 1, 1, 1, 1}
	b := []float32{1, 2, 3, 4, 5, 6, 7}
	if got := Dot(a, b); math.Abs(float64(got)-28) > 1e-5 {
		t.Fatalf("Dot = %v, want 28", got)
	}
}

func TestCosine(t *testing.T) {
	a := []float32{3, 0}
	b := []float32{0, 4}
	c := []float32{6, 0}

	if got := Cosine(a, b); got != 0 {
		t.Fatalf("Cosine orthogonal = %v, want 0", got)
	}
	if got := Cosine(a, c); math.Abs(float64(got)-1) > 1e-6 {
		t.Fatalf("Cosine parallel = %v, want 1", got)
	}
	// Zero-magnitude operand must not produce NaN.
	if got := Cosine(a, []float32{0, 0}); got != 0 {
		t.Fatalf("Cosine with zero vector = %v, want 0", got)
	}
}

func TestMagnitude(t *testing.T) {
	if got := Magnitude([]float32{3, 4}); math.Abs(float64(got)-5) > 1e-6 {
		t.Fatalf("Magnitude(3,4) = %v, want 5", got)
	}
}

func TestMagnitudes(t *testing.T) {
	flat := []float32{3, 4, 0, 0, 5, 12}
	dst := make([]float32, 3)
	Magnitudes(dst, flat, 2)
	want := []float32{5, 0, 13}
	for i := range want {
		if math.Abs(float64(dst[i]-want[i])) > 1e-5 {
			t.Fatalf("Magnitudes[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestMax(t *testing.T) {
	cases := []struct {
		in   []float32
		want float32
	}{
		{[]float32{1}, 1},
		{[]float32{-3, -1, -2}, -1},
		{[]float32{0.1, 0.9, 0.5, 0.3, 0.7}, 0.9},
		{[]float32{5, 4, 3, 2, 1, 0, -1, -2, 9}, 9},
	}
	for _, c := range cases {
		if got := Max(c.in); got != c.want {
			t.Fatalf("Max(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFinite(t *testing.T) {
	if !Finite([]float32{1, -2, 0}) {
		t.Fatalf("Finite on finite slice = false")
	}
	if Finite([]float32{1, float32(math.NaN())}) {
		t.Fatalf("Finite on NaN slice = true")
	}
	if Finite([]float32{float32(math.Inf(1))}) {
		t.Fatalf("Finite on +Inf slice = true")
	}
}
