package collection

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/viant/maxsim/scorer"
)

// SQLiteStore implements Store on a SQLite database. Documents are durable
// in the token_docs table; scoring runs against an in-memory preload that
// is rebuilt lazily after writes. The store owns one scorer.Engine, so
// calls on one SQLiteStore must be serialized by the caller just like
// calls on an Engine.
type SQLiteStore struct {
	db  *sql.DB
	eng *scorer.Engine

	// preload cache, aligned by row position in rowid order
	loaded  bool
	ids     []string
	content []string
	meta    []string
	dim     int
}

// NewSQLiteStore creates a SQLite-backed Store scoring with the given
// engine options. It ensures the token_docs schema exists.
func NewSQLiteStore(db *sql.DB, options scorer.Options) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("collection: db is nil")
	}
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, eng: scorer.New(options)}, nil
}

// AddDocuments inserts documents into the token_docs table and returns
// their IDs, generating a UUID where a document's ID is empty.
func (s *SQLiteStore) AddDocuments(ctx context.Context, docs []Document) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO token_docs(id, content, meta, tokens, dim, embedding) VALUES(?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	ids := make([]string, 0, len(docs))
	for i, d := range docs {
		dim, err := documentDim(d)
		if err != nil {
			return nil, fmt.Errorf("collection: document %d: %w", i, err)
		}
		id := d.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, id, d.Content, d.Meta, d.Tokens, dim, EncodeTokens(d.Embedding)); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.loaded = false
	return ids, nil
}

// documentDim derives and validates a document's embedding dimension from
// its token count and flat buffer length.
func documentDim(d Document) (int, error) {
	if d.Tokens < 0 {
		return 0, fmt.Errorf("negative token count %d", d.Tokens)
	}
	if d.Tokens == 0 {
		if len(d.Embedding) != 0 {
			return 0, fmt.Errorf("zero tokens with %d embedding values", len(d.Embedding))
		}
		return 0, nil
	}
	if len(d.Embedding) == 0 || len(d.Embedding)%d.Tokens != 0 {
		return 0, fmt.Errorf("embedding length %d not divisible by %d tokens", len(d.Embedding), d.Tokens)
	}
	return len(d.Embedding) / d.Tokens, nil
}

// Remove deletes the document with the given ID.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM token_docs WHERE id = ?`, id); err != nil {
		return err
	}
	s.loaded = false
	return nil
}

// Preload reads the whole collection into the scoring engine. It is
// invoked lazily by SimilaritySearch after any write, but callers can warm
// the cache explicitly.
func (s *SQLiteStore) Preload(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, content, meta, tokens, dim, embedding FROM token_docs ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var (
		ids, contents, metas []string
		tokenCounts          []int
		flat                 []float32
		dim                  int
	)
	for rows.Next() {
		var (
			id, content, meta string
			tokens, rowDim    int
			blob              []byte
		)
		if err := rows.Scan(&id, &content, &meta, &tokens, &rowDim, &blob); err != nil {
			return err
		}
		if tokens > 0 {
			if dim == 0 {
				dim = rowDim
			} else if rowDim != dim {
				return fmt.Errorf("collection: document %q has dim %d, collection dim %d", id, rowDim, dim)
			}
			decoded, err := DecodeTokens(blob, tokens, rowDim)
			if err != nil {
				return fmt.Errorf("collection: document %q: %w", id, err)
			}
			flat = append(flat, decoded...)
		}
		ids = append(ids, id)
		contents = append(contents, content)
		metas = append(metas, meta)
		tokenCounts = append(tokenCounts, tokens)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(ids) > 0 && dim > 0 {
		if err := s.eng.LoadDocuments(flat, tokenCounts, dim); err != nil {
			return err
		}
	}
	s.ids, s.content, s.meta, s.dim = ids, contents, metas, dim
	s.loaded = true
	return nil
}

// SimilaritySearch scores the query against every stored document and
// returns up to k matches ordered by descending score. k <= 0 or k larger
// than the collection returns every match.
func (s *SQLiteStore) SimilaritySearch(ctx context.Context, query []float32, queryTokens, k int, aggregate scorer.Aggregate) ([]Match, error) {
	if !s.loaded {
		if err := s.Preload(ctx); err != nil {
			return nil, err
		}
	}
	if len(s.ids) == 0 {
		return nil, nil
	}

	scores := make([]float32, len(s.ids))
	if s.dim > 0 {
		var err error
		scores, err = s.eng.Search(query, queryTokens, aggregate)
		if err != nil {
			return nil, err
		}
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	if k <= 0 || k > len(order) {
		k = len(order)
	}
	matches := make([]Match, k)
	for n := 0; n < k; n++ {
		i := order[n]
		matches[n] = Match{ID: s.ids[i], Score: scores[i], Content: s.content[i], Meta: s.meta[i]}
	}
	return matches, nil
}
