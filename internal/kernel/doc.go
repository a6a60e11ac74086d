// Package kernel holds the float32 primitives behind the scorer: dot
// product and cosine similarity (delegated to the github.com/viant/vec
// SIMD kernels), row maxima, and finiteness validation. All routines
// accept arbitrary vector dimensions.
package kernel
