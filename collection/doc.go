// Package collection persists multi-vector (token-level) document
// embeddings in SQLite and serves MaxSim similarity search over them. It
// includes:
//   - Document model and Store interface
//   - SQLiteStore: durable storage with an in-memory preload for scoring
//   - Schema helpers for the token_docs table
//   - Token-embedding encoding (BLOB)
package collection
