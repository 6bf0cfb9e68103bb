package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fitcoach/routinecoach/internal/cache"
)

// CachingClient decorates an Embedder and a ChatCompleter with the
// optional external-API result cache described in spec.md §5: keyed
// by the full request tuple, safe for concurrent use, and never
// extending a stale entry's expiry on read (see internal/cache).
type CachingClient struct {
	embedder      Embedder
	completer     ChatCompleter
	embedCache    *cache.Cache
	completeCache *cache.Cache
}

// NewCachingClient wraps embedder and completer with independent
// caches for embeddings and chat completions.
func NewCachingClient(embedder Embedder, completer ChatCompleter, embedCache, completeCache *cache.Cache) *CachingClient {
	return &CachingClient{
		embedder:      embedder,
		completer:     completer,
		embedCache:    embedCache,
		completeCache: completeCache,
	}
}

// Embed returns a cached vector for text if present and unexpired,
// otherwise calls through and caches the result.
func (c *CachingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := c.embedCache.Get(text); ok {
		var vec []float32
		if err := json.Unmarshal([]byte(cached), &vec); err == nil {
			return vec, nil
		}
	}

	vec, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(vec); err == nil {
		c.embedCache.Set(text, string(encoded))
	}
	return vec, nil
}

// Complete returns a cached completion for an identical request tuple
// if present and unexpired, otherwise calls through and caches the
// result.
func (c *CachingClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	key := requestKey(req)
	if cached, ok := c.completeCache.Get(key); ok {
		return cached, nil
	}

	content, err := c.completer.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	c.completeCache.Set(key, content)
	return content, nil
}

// requestKey hashes every field of req so that two requests differing
// only in temperature or max-token budget are cached independently.
func requestKey(req CompletionRequest) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(req)
	return hex.EncodeToString(h.Sum(nil))
}

var _ Embedder = (*CachingClient)(nil)
var _ ChatCompleter = (*CachingClient)(nil)
