// Package search implements the catalog search gateway (C3): query
// embedding, oversampled retrieval against the vector index, and
// metadata pre/post-filtering.
package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fitcoach/routinecoach/internal/catalogindex"
	"github.com/fitcoach/routinecoach/internal/errors"
	"github.com/fitcoach/routinecoach/internal/llm"
	"github.com/fitcoach/routinecoach/internal/model"
)

// ErrSearchUnavailable marks a failed embedding call. The orchestrator
// treats it as "this query yielded nothing" and continues with
// fallbacks, per §7.
var ErrSearchUnavailable = errors.NewSentinel("catalog search unavailable")

// oversampleFactor widens the vector-index query to absorb post-filter
// rejections, per §4.3.
const oversampleFactor = 3

// Gateway composes query embedding, vector retrieval, and metadata
// filtering. It holds no per-request state and is safe for concurrent
// use.
type Gateway struct {
	index    *catalogindex.Index
	embedder llm.Embedder
	logger   *slog.Logger
}

// NewGateway constructs a Gateway over a read-only index and an
// embedding service.
func NewGateway(index *catalogindex.Index, embedder llm.Embedder, logger *slog.Logger) *Gateway {
	return &Gateway{index: index, embedder: embedder, logger: logger}
}

// Search embeds query, retrieves an oversampled candidate set from
// the vector index, and returns the survivors of filters, ordered by
// descending score.
func (g *Gateway) Search(ctx context.Context, query string, k int, filters model.Filters) ([]catalogindex.Candidate, error) {
	vec, err := g.embedder.Embed(ctx, query)
	if err != nil {
		g.logger.WarnContext(ctx, "embedding call failed, query yields no candidates",
			slog.String("query", query), errors.SlogError(err))
		return nil, errors.Wrap(ErrSearchUnavailable, "search", slog.String("query", query))
	}
	vec = catalogindex.L2Normalize(vec)

	if len(vec) != g.index.Dimension() {
		g.logger.WarnContext(ctx, "embedding dimension mismatch, query yields no candidates",
			slog.Int("embeddingDim", len(vec)), slog.Int("indexDim", g.index.Dimension()))
		return nil, errors.Wrap(ErrSearchUnavailable, "search: dimension mismatch")
	}

	oversampled := k * oversampleFactor
	if oversampled < k {
		oversampled = k
	}

	candidates, err := g.index.Search(vec, oversampled)
	if err != nil {
		return nil, errors.Wrap(ErrSearchUnavailable, "search: index lookup failed")
	}

	survivors := make([]catalogindex.Candidate, 0, k)
	for _, c := range candidates {
		if !filters.Allows(string(c.Exercise.TargetGroup)) {
			continue
		}
		if filters.Excludes(c.Exercise.FitnessFactor) {
			continue
		}
		survivors = append(survivors, c)
		if len(survivors) >= k {
			break
		}
	}

	return survivors, nil
}

// MatchesMuscle reports whether exercise's muscle set intersects
// aliasSet by case-insensitive substring match in either direction.
func MatchesMuscle(exercise catalogindex.Exercise, aliasSet []string) bool {
	for _, muscle := range exercise.Muscles {
		lowerMuscle := strings.ToLower(muscle)
		for _, alias := range aliasSet {
			lowerAlias := strings.ToLower(alias)
			if strings.Contains(lowerMuscle, lowerAlias) || strings.Contains(lowerAlias, lowerMuscle) {
				return true
			}
		}
	}
	return false
}
