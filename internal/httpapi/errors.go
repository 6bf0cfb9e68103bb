package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fitcoach/routinecoach/internal/catalogindex"
	"github.com/fitcoach/routinecoach/internal/errors"
	"github.com/fitcoach/routinecoach/internal/llm"
)

// errorKind is the closed set of failure categories the error envelope
// exposes, matching §7's taxonomy.
type errorKind string

const (
	kindInputInvalid         errorKind = "input_invalid"
	kindEmbeddingUnavailable errorKind = "embedding_unavailable"
	kindChatUnavailable      errorKind = "chat_unavailable"
	kindResponseMalformed    errorKind = "response_malformed"
	kindCatalogInconsistent  errorKind = "catalog_inconsistent"
	kindRequestCanceled      errorKind = "request_canceled"
	kindInternal             errorKind = "internal"
)

// errorEnvelope is the structured JSON body every failed request gets.
type errorEnvelope struct {
	Kind    errorKind `json:"kind"`
	Message string    `json:"message"`
}

// writeError maps err onto the §7 error kind, logs it, and writes the
// structured JSON envelope with the matching HTTP status.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	kind, status := classify(err)

	logger.LogAttrs(r.Context(), slog.LevelError, "request failed",
		slog.String("kind", string(kind)), errors.SlogError(err))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Kind: kind, Message: err.Error()})
}

func classify(err error) (errorKind, int) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return kindRequestCanceled, http.StatusGatewayTimeout
	case errors.Is(err, errInputInvalid):
		return kindInputInvalid, http.StatusBadRequest
	case errors.Is(err, llm.ErrEmbeddingUnavailable):
		return kindEmbeddingUnavailable, http.StatusServiceUnavailable
	case errors.Is(err, llm.ErrChatUnavailable):
		return kindChatUnavailable, http.StatusServiceUnavailable
	case errors.Is(err, llm.ErrResponseMalformed):
		return kindResponseMalformed, http.StatusBadGateway
	case errors.Is(err, errCatalogInconsistent), errors.Is(err, catalogindex.ErrCatalogInconsistent):
		return kindCatalogInconsistent, http.StatusInternalServerError
	default:
		return kindInternal, http.StatusInternalServerError
	}
}

// errInputInvalid marks input validation, which lives at the HTTP edge.
// errCatalogInconsistent is this package's own catalog marker; classify
// maps it and catalogindex.ErrCatalogInconsistent (raised by the
// index/metadata row-count check) to the same kind.
var (
	errInputInvalid        = errors.NewSentinel("invalid request")
	errCatalogInconsistent = errors.NewSentinel("catalog index inconsistent")
)
