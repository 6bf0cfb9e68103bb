// Command ingest builds the offline exercise catalog. It has two
// subcommands: "preprocess" loads a raw exercise CSV into the relational
// catalog store, and "build-index" embeds every stored exercise and writes
// the vector-plus-metadata index the server loads at startup.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/fitcoach/routinecoach/internal/catalogstore"
	"github.com/fitcoach/routinecoach/internal/envstruct"
	"github.com/fitcoach/routinecoach/internal/errors"
	"github.com/fitcoach/routinecoach/internal/ingest"
	"github.com/fitcoach/routinecoach/internal/llm"
	"github.com/fitcoach/routinecoach/internal/logging"
)

// Exit codes reproduced from the HTTP error-kind taxonomy: 0 success, 2
// invalid input, 3 external-service failure, 4 malformed LLM output.
const (
	exitSuccess        = 0
	exitInvalidInput   = 2
	exitServiceFailure = 3
)

type config struct {
	SqliteURL      string `env:"CATALOG_SQLITE_URL" envDefault:"./catalog.sqlite3"`
	InputCSV       string `env:"CATALOG_INPUT_CSV" envDefault:"./exercises.csv"`
	VectorPath     string `env:"CATALOG_VECTOR_PATH" envDefault:"./data/exercise_index.bin"`
	MetadataPath   string `env:"CATALOG_METADATA_PATH" envDefault:"./data/exercise_metadata.jsonl"`
	OpenAIAPIKey   string `env:"OPENAI_API_KEY" envDefault:""`
	EmbeddingModel string `env:"CATALOG_EMBEDDING_MODEL" envDefault:"text-embedding-3-large"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool), args []string) int {
	if len(args) < 1 {
		logger.LogAttrs(ctx, slog.LevelError, "missing subcommand, expected preprocess or build-index")
		return exitInvalidInput
	}

	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "populate config", errors.SlogError(err))
		return exitInvalidInput
	}

	db, err := catalogstore.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "open catalog database", errors.SlogError(err))
		return exitServiceFailure
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close catalog database", errors.SlogError(closeErr))
		}
	}()

	switch args[0] {
	case "preprocess":
		return runPreprocess(ctx, logger, db, cfg)
	case "build-index":
		return runBuildIndex(ctx, logger, db, cfg)
	default:
		logger.LogAttrs(ctx, slog.LevelError, "unknown subcommand", slog.String("subcommand", args[0]))
		return exitInvalidInput
	}
}

func runPreprocess(ctx context.Context, logger *slog.Logger, db *catalogstore.Database, cfg config) int {
	f, err := os.Open(cfg.InputCSV)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "open input csv", errors.SlogError(err))
		return exitInvalidInput
	}
	defer func() { _ = f.Close() }()

	count, err := ingest.Preprocess(ctx, f, db)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "preprocess", errors.SlogError(err))
		if errors.Is(err, ingest.ErrInvalidRecord) {
			return exitInvalidInput
		}
		return exitServiceFailure
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "preprocess complete", slog.Int("rows", count))
	return exitSuccess
}

func runBuildIndex(ctx context.Context, logger *slog.Logger, db *catalogstore.Database, cfg config) int {
	if cfg.OpenAIAPIKey == "" {
		logger.LogAttrs(ctx, slog.LevelError, "OPENAI_API_KEY is required for build-index")
		return exitInvalidInput
	}

	embedder := llm.NewClient(cfg.OpenAIAPIKey, cfg.EmbeddingModel, "", logger)

	if err := ingest.BuildIndex(ctx, db, embedder, cfg.EmbeddingModel, cfg.VectorPath, cfg.MetadataPath, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "build index", errors.SlogError(err))
		return exitServiceFailure
	}

	return exitSuccess
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	code := run(ctx, logger, os.LookupEnv, os.Args[1:])
	os.Exit(code)
}
