package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/fitcoach/routinecoach/internal/cache"
	"github.com/fitcoach/routinecoach/internal/catalogindex"
	"github.com/fitcoach/routinecoach/internal/envstruct"
	"github.com/fitcoach/routinecoach/internal/httpapi"
	"github.com/fitcoach/routinecoach/internal/llm"
	"github.com/fitcoach/routinecoach/internal/logging"
	"github.com/fitcoach/routinecoach/internal/routine"
	"github.com/fitcoach/routinecoach/internal/search"
)

// config holds every environment-sourced setting the server needs,
// following the teacher's env/envDefault tag convention. envstruct
// only populates string fields, so the numeric settings are parsed
// out of their string form in run.
type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"ROUTINECOACH_ADDR" envDefault:"localhost:8082"`
	// VectorPath and MetadataPath locate the offline-built catalog index artifacts.
	VectorPath   string `env:"ROUTINECOACH_VECTOR_PATH" envDefault:"./data/exercise_index.bin"`
	MetadataPath string `env:"ROUTINECOACH_METADATA_PATH" envDefault:"./data/exercise_metadata.jsonl"`
	// OpenAIAPIKey authenticates both the embedding and chat completion calls.
	OpenAIAPIKey string `env:"OPENAI_API_KEY" envDefault:""`
	// EmbeddingModel and ChatModel select which OpenAI models back the Embedder and ChatCompleter.
	EmbeddingModel string `env:"ROUTINECOACH_EMBEDDING_MODEL" envDefault:"text-embedding-3-large"`
	ChatModel      string `env:"ROUTINECOACH_CHAT_MODEL" envDefault:"gpt-4o-mini"`
	// Temperature and MaxTokens are the sampling parameters every prompt template uses.
	Temperature string `env:"ROUTINECOACH_TEMPERATURE" envDefault:"0.7"`
	MaxTokens   string `env:"ROUTINECOACH_MAX_TOKENS" envDefault:"2000"`
	// CacheTTLSeconds bounds the optional external-API result cache; zero disables caching.
	CacheTTLSeconds string `env:"ROUTINECOACH_CACHE_TTL_SECONDS" envDefault:"0"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return fmt.Errorf("populate config: %w", err)
	}

	temperature, err := strconv.ParseFloat(cfg.Temperature, 64)
	if err != nil {
		return fmt.Errorf("parse %s=%q: %w", "ROUTINECOACH_TEMPERATURE", cfg.Temperature, err)
	}
	maxTokens, err := strconv.ParseInt(cfg.MaxTokens, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s=%q: %w", "ROUTINECOACH_MAX_TOKENS", cfg.MaxTokens, err)
	}
	cacheTTLSeconds, err := strconv.Atoi(cfg.CacheTTLSeconds)
	if err != nil {
		return fmt.Errorf("parse %s=%q: %w", "ROUTINECOACH_CACHE_TTL_SECONDS", cfg.CacheTTLSeconds, err)
	}

	index, err := catalogindex.Load(ctx, cfg.VectorPath, cfg.MetadataPath)
	if err != nil {
		return fmt.Errorf("load catalog index (vector: %s, metadata: %s): %w", cfg.VectorPath, cfg.MetadataPath, err)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "loaded catalog index",
		slog.Int("rows", index.Len()), slog.String("model", index.Model()))

	client := llm.NewClient(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.ChatModel, logger)

	var embedder llm.Embedder = client
	var completer llm.ChatCompleter = client
	if cacheTTLSeconds > 0 {
		ttl := time.Duration(cacheTTLSeconds) * time.Second
		cachingClient := llm.NewCachingClient(client, client, cache.New(ttl), cache.New(ttl))
		embedder = cachingClient
		completer = cachingClient
		logger.LogAttrs(ctx, slog.LevelInfo, "external-API result cache enabled", slog.Duration("ttl", ttl))
	}

	completionParams := llm.CompletionParams{Temperature: temperature, MaxTokens: maxTokens}

	gateway := search.NewGateway(index, embedder, logger)
	orchestrator := routine.NewOrchestrator(gateway, completer, completionParams, logger)

	app := &httpapi.Application{
		Orchestrator:     orchestrator,
		Completer:        completer,
		CompletionParams: completionParams,
		Logger:           logger,
	}

	if err = configureAndStartServer(ctx, logger, cfg.Addr, app); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", slog.Any("error", err))
		os.Exit(1)
	}
}
