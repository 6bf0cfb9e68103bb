package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fitcoach/routinecoach/internal/catalogindex"
	"github.com/fitcoach/routinecoach/internal/catalogstore"
	"github.com/fitcoach/routinecoach/internal/llm"
)

// BuildIndex reads every row currently in db, embeds its embedding text, and
// writes the resulting vector-plus-metadata index to vectorPath/metadataPath.
// Rows are embedded sequentially: the catalog is rebuilt rarely enough
// (offline, by cmd/ingest) that the simplicity of a single in-flight request
// outweighs the latency of parallel fan-out, unlike the request-serving
// search path which embeds exactly one query per call.
func BuildIndex(
	ctx context.Context,
	db *catalogstore.Database,
	embedder llm.Embedder,
	model, vectorPath, metadataPath string,
	logger *slog.Logger,
) error {
	rows, err := db.ListExercises(ctx)
	if err != nil {
		return fmt.Errorf("list exercises: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no exercises in catalog store, run preprocess first")
	}

	vectors := make([][]float32, len(rows))
	metadata := make([]catalogindex.Exercise, len(rows))
	for i, row := range rows {
		vec, embedErr := embedder.Embed(ctx, row.EmbeddingText)
		if embedErr != nil {
			return fmt.Errorf("embed exercise %d: %w", row.Exercise.ExerciseID, embedErr)
		}
		vectors[i] = catalogindex.L2Normalize(vec)
		metadata[i] = row.Exercise

		if i%100 == 0 {
			logger.LogAttrs(ctx, slog.LevelInfo, "embedding progress",
				slog.Int("done", i), slog.Int("total", len(rows)))
		}
	}

	if err = catalogindex.Write(vectorPath, metadataPath, model, vectors, metadata); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "built catalog index",
		slog.Int("exercises", len(rows)), slog.String("vectorPath", vectorPath),
		slog.String("metadataPath", metadataPath))

	return nil
}
