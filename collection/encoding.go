package collection

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeTokens encodes a flat token matrix into a BLOB suitable for
// SQLite storage: a little-endian sequence of IEEE 754 float32 values with
// no header. Shape is carried separately (token count column, store-level
// dimension), so decode validates rather than derives it.
func EncodeTokens(flat []float32) []byte {
	if len(flat) == 0 {
		return nil
	}
	b := make([]byte, len(flat)*4)
	for i, v := range flat {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// DecodeTokens decodes a BLOB produced by EncodeTokens into a flat
// [tokens, dim] float32 matrix, verifying the BLOB length matches the
// declared shape.
func DecodeTokens(b []byte, tokens, dim int) ([]float32, error) {
	want := tokens * dim * 4
	if len(b) != want {
		return nil, fmt.Errorf("collection: embedding blob is %d bytes, want %d (%d tokens × dim %d)", len(b), want, tokens, dim)
	}
	if want == 0 {
		return nil, nil
	}
	flat := make([]float32, tokens*dim)
	for i := range flat {
		flat[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return flat, nil
}
