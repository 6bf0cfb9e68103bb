package llm_test

import (
	"context"
	"testing"
	"time"

	"github.com/fitcoach/routinecoach/internal/cache"
	"github.com/fitcoach/routinecoach/internal/llm"
)

type countingEmbedder struct {
	calls int
	vec   []float32
}

func (e *countingEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	e.calls++
	return e.vec, nil
}

type countingCompleter struct {
	calls    int
	response string
}

func (c *countingCompleter) Complete(_ context.Context, _ llm.CompletionRequest) (string, error) {
	c.calls++
	return c.response, nil
}

func TestCachingClientEmbedHitsCacheOnSecondCall(t *testing.T) {
	embedder := &countingEmbedder{vec: []float32{1, 2, 3}}
	cc := llm.NewCachingClient(embedder, &countingCompleter{}, cache.New(time.Minute), cache.New(time.Minute))

	for i := 0; i < 2; i++ {
		vec, err := cc.Embed(context.Background(), "chest exercise")
		if err != nil {
			t.Fatalf("Embed() error = %v", err)
		}
		if len(vec) != 3 {
			t.Fatalf("Embed() = %v, want length 3", vec)
		}
	}

	if embedder.calls != 1 {
		t.Errorf("underlying embedder called %d times, want 1 (second call should hit cache)", embedder.calls)
	}
}

func TestCachingClientCompleteHitsCacheOnIdenticalRequest(t *testing.T) {
	completer := &countingCompleter{response: `{"ok":true}`}
	cc := llm.NewCachingClient(&countingEmbedder{}, completer, cache.New(time.Minute), cache.New(time.Minute))

	req := llm.CompletionRequest{SystemPrompt: "s", UserPrompt: "u", Temperature: 0.2, MaxTokens: 100}
	for i := 0; i < 2; i++ {
		if _, err := cc.Complete(context.Background(), req); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
	}

	if completer.calls != 1 {
		t.Errorf("underlying completer called %d times, want 1", completer.calls)
	}
}

func TestCachingClientDifferentRequestsMissIndependently(t *testing.T) {
	completer := &countingCompleter{response: `{"ok":true}`}
	cc := llm.NewCachingClient(&countingEmbedder{}, completer, cache.New(time.Minute), cache.New(time.Minute))

	_, _ = cc.Complete(context.Background(), llm.CompletionRequest{UserPrompt: "a"})
	_, _ = cc.Complete(context.Background(), llm.CompletionRequest{UserPrompt: "b"})

	if completer.calls != 2 {
		t.Errorf("distinct requests should each miss the cache, got %d calls", completer.calls)
	}
}
