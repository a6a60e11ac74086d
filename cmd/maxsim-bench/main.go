// Command maxsim-bench generates a synthetic token-embedding corpus from a
// YAML scenario file, benchmarks batched MaxSim scoring over it, and can
// persist the corpus to SQLite to exercise the collection store.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/viant/maxsim/collection"
	"github.com/viant/maxsim/engine"
	"github.com/viant/maxsim/scorer"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to scenario YAML")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "maxsim-bench: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "maxsim-bench: logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("benchmark failed", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *Config, logger *zap.Logger) error {
	r := rand.New(rand.NewSource(cfg.Seed))
	aggregate := scorer.Aggregate(cfg.Aggregate)

	query := randomTokens(r, cfg.QueryTokens, cfg.Dim, cfg.Normalized)
	tokenCounts := make([]int, cfg.Docs.Count)
	span := cfg.Docs.MaxTokens - cfg.Docs.MinTokens + 1
	totalTokens := 0
	for i := range tokenCounts {
		tokenCounts[i] = cfg.Docs.MinTokens + r.Intn(span)
		totalTokens += tokenCounts[i]
	}
	docsFlat := make([]float32, 0, totalTokens*cfg.Dim)
	for _, tokens := range tokenCounts {
		docsFlat = append(docsFlat, randomTokens(r, tokens, cfg.Dim, cfg.Normalized)...)
	}

	logger.Info("corpus generated",
		zap.Int("docs", cfg.Docs.Count),
		zap.Int("dim", cfg.Dim),
		zap.Int("query_tokens", cfg.QueryTokens),
		zap.Int("total_tokens", totalTokens),
		zap.Bool("normalized", cfg.Normalized),
		zap.String("aggregate", cfg.Aggregate))

	eng := scorer.New(scorer.Options{Normalized: cfg.Normalized})
	var scores []float32
	best := time.Duration(math.MaxInt64)
	var total time.Duration
	for i := 0; i < cfg.Iterations; i++ {
		start := time.Now()
		var err error
		scores, err = eng.ScoreBatch(query, cfg.QueryTokens, docsFlat, tokenCounts, cfg.Dim, aggregate)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)
		total += elapsed
		if elapsed < best {
			best = elapsed
		}
	}

	bestIdx := 0
	for i, s := range scores {
		if s > scores[bestIdx] {
			bestIdx = i
		}
	}
	mean := total / time.Duration(cfg.Iterations)
	logger.Info("scoring complete",
		zap.Int("iterations", cfg.Iterations),
		zap.Duration("best", best),
		zap.Duration("mean", mean),
		zap.Float64("docs_per_second", float64(cfg.Docs.Count)/mean.Seconds()),
		zap.Int("top_doc", bestIdx),
		zap.Float32("top_score", scores[bestIdx]))

	if cfg.SavePath == "" {
		return nil
	}
	return persistAndSearch(cfg, logger, query, docsFlat, tokenCounts, aggregate)
}

// persistAndSearch writes the generated corpus to SQLite and runs a top-5
// search against the stored collection.
func persistAndSearch(cfg *Config, logger *zap.Logger, query, docsFlat []float32, tokenCounts []int, aggregate scorer.Aggregate) error {
	db, err := engine.Open(cfg.SavePath)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := collection.NewSQLiteStore(db, scorer.Options{Normalized: cfg.Normalized})
	if err != nil {
		return err
	}

	docs := make([]collection.Document, len(tokenCounts))
	offset := 0
	for i, tokens := range tokenCounts {
		end := offset + tokens*cfg.Dim
		docs[i] = collection.Document{
			Content:   fmt.Sprintf("synthetic document %d", i),
			Tokens:    tokens,
			Embedding: docsFlat[offset:end],
		}
		offset = end
	}
	ctx := context.Background()
	if _, err := store.AddDocuments(ctx, docs); err != nil {
		return err
	}
	logger.Info("corpus persisted", zap.String("path", cfg.SavePath), zap.Int("docs", len(docs)))

	matches, err := store.SimilaritySearch(ctx, query, cfg.QueryTokens, 5, aggregate)
	if err != nil {
		return err
	}
	for rank, m := range matches {
		logger.Info("search hit",
			zap.Int("rank", rank+1),
			zap.String("id", m.ID),
			zap.Float32("score", m.Score))
	}
	return nil
}

// randomTokens returns a flat [tokens, dim] matrix with values in [-1, 1),
// row-normalized when normalized is set.
func randomTokens(r *rand.Rand, tokens, dim int, normalized bool) []float32 {
	flat := make([]float32, tokens*dim)
	for i := range flat {
		flat[i] = float32(r.Float64()*2 - 1)
	}
	if !normalized {
		return flat
	}
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
	return flat
}
