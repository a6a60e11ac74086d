// Package bruteforce provides a multi-vector index that answers top-k
// queries by MaxSim-scoring every indexed document. It supports a compact
// binary format for persistence alongside the SQLite collection tables.
package bruteforce
