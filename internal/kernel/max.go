package kernel

import "math"

// Max returns the largest value in s. It assumes len(s) > 0; callers
// short-circuit empty rows before reduction.
func Max(s []float32) float32 {
	best := float32(math.Inf(-1))
	i := 0
	// Four running maxima keep the comparison chains independent.
	if len(s) >= 4 {
		b0, b1, b2, b3 := best, best, best, best
		for ; i+4 <= len(s); i += 4 {
			if s[i] > b0 {
				b0 = s[i]
			}
			if s[i+1] > b1 {
				b1 = s[i+1]
			}
			if s[i+2] > b2 {
				b2 = s[i+2]
			}
			if s[i+3] > b3 {
				b3 = s[i+3]
			}
		}
		if b1 > b0 {
			b0 = b1
		}
		if b3 > b2 {
			b2 = b3
		}
		best = b0
		if b2 > best {
			best = b2
		}
	}
	for ; i < len(s); i++ {
		if s[i] > best {
			best = s[i]
		}
	}
	return best
}

// Finite reports whether every value in s is a finite number.
func Finite(s []float32) bool {
	for _, v := range s {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
