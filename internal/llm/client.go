// Package llm wraps the external embedding and chat-completion
// services behind narrow interfaces, assembles the three prompt
// templates the orchestrator needs, and repairs truncated JSON
// responses.
package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/fitcoach/routinecoach/internal/errors"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ErrChatUnavailable and ErrEmbeddingUnavailable mark external-service
// failures, per the §7 error-kind taxonomy.
var (
	ErrChatUnavailable      = errors.NewSentinel("chat completion service unavailable")
	ErrEmbeddingUnavailable = errors.NewSentinel("embedding service unavailable")
	ErrResponseMalformed    = errors.NewSentinel("chat completion response could not be repaired")
)

// Per-call deadlines for the external services, applied on top of the
// caller's context.
const (
	chatTimeout      = 30 * time.Second
	embeddingTimeout = 10 * time.Second
)

// Embedder embeds free text into a fixed-dimension vector, L2
// normalized by the caller (internal/search) before use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ChatCompleter requests a single strict-JSON chat completion.
type ChatCompleter interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest bundles the parameters every prompt template
// needs: the assembled prompt text, a sampling temperature, and a
// token cap, matching the configuration keys in §6.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int64
}

// Client is the process-wide OpenAI-backed implementation of both
// Embedder and ChatCompleter, constructed once in the composition root
// and passed explicitly to the components that need it (per the
// module-level-singleton redesign note).
type Client struct {
	client         openai.Client
	logger         *slog.Logger
	embeddingModel string
	chatModel      string
}

// NewClient constructs a Client bound to a single API key, embedding
// model, and chat model.
func NewClient(apiKey, embeddingModel, chatModel string, logger *slog.Logger) *Client {
	return &Client{
		client:         openai.NewClient(option.WithAPIKey(apiKey)),
		logger:         logger,
		embeddingModel: embeddingModel,
		chatModel:      chatModel,
	}
}

// Embed requests a single embedding vector for text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, embeddingTimeout)
	defer cancel()

	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: c.embeddingModel,
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "embedding request failed", slog.String("model", c.embeddingModel), errors.SlogError(err))
		return nil, errors.Wrap(ErrEmbeddingUnavailable, "embed", slog.String("model", c.embeddingModel))
	}
	if len(resp.Data) == 0 {
		return nil, errors.Wrap(ErrEmbeddingUnavailable, "embed: empty response")
	}

	raw := resp.Data[0].Embedding
	out := make([]float32, len(raw))
	for i, v := range raw {
		out[i] = float32(v)
	}
	return out, nil
}

// Complete requests a single strict-JSON chat completion.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(req.SystemPrompt),
		openai.UserMessage(req.UserPrompt),
	}

	params := openai.ChatCompletionNewParams{
		Model:          c.chatModel,
		Messages:       messages,
		Temperature:    openai.Float(req.Temperature),
		MaxTokens:      openai.Int(req.MaxTokens),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{OfJSONObject: &openai.ResponseFormatJSONObjectParam{}},
	}

	c.logger.DebugContext(ctx, "sending chat completion request",
		slog.String("model", c.chatModel), slog.Int("promptLen", len(req.UserPrompt)))

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		c.logger.ErrorContext(ctx, "chat completion failed", errors.SlogError(err))
		return "", errors.Wrap(ErrChatUnavailable, "chat completion", slog.String("model", c.chatModel))
	}
	if len(completion.Choices) == 0 {
		return "", errors.Wrap(ErrChatUnavailable, "chat completion: no choices returned")
	}

	content := completion.Choices[0].Message.Content
	c.logger.DebugContext(ctx, "received chat completion response",
		slog.Int("totalTokens", int(completion.Usage.TotalTokens)), slog.Int("contentLen", len(content)))

	if content == "" {
		return "", errors.Wrap(ErrResponseMalformed, "chat completion: empty content")
	}
	return content, nil
}

var _ Embedder = (*Client)(nil)
var _ ChatCompleter = (*Client)(nil)
