package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/cv-analyzer/internal/config"
	"github.com/jonathan/cv-analyzer/internal/embedding"
	"github.com/jonathan/cv-analyzer/internal/features"
	"github.com/jonathan/cv-analyzer/internal/logger"
	"github.com/jonathan/cv-analyzer/internal/ner"
	"github.com/jonathan/cv-analyzer/internal/textextract"
)

// defaultEmbeddingModel matches the sentence encoder the embedding servers
// are expected to serve.
const defaultEmbeddingModel = "all-MiniLM-L6-v2"

// newLogger builds the process logger from the persistent CLI flags.
func newLogger() (*zap.Logger, error) {
	return logger.New(jsonLogs, verbose)
}

// loadConfig merges the optional config file with environment defaults.
// CLI flags are applied on top by the individual commands.
func loadConfig() (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	env := config.Config{
		APIKey:         os.Getenv("GEMINI_API_KEY"),
		NERModel:       os.Getenv("NER_MODEL"),
		EmbeddingModel: os.Getenv("EMBEDDING_MODEL"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
	}
	if backends := os.Getenv("EMBEDDING_BACKENDS"); backends != "" {
		env.EmbeddingBackends = strings.Split(backends, ",")
	}

	cfg = cfg.MergeWithDefaults(env)
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = defaultEmbeddingModel
	}
	if len(cfg.EmbeddingBackends) == 0 {
		cfg.EmbeddingBackends = []string{"http://localhost:8003"}
	}
	return cfg, nil
}

// newEngine builds and initializes the embedding engine from the configured
// backend list. The first endpoint is assumed to be the accelerator-backed
// one; the last acts as the CPU fallback.
func newEngine(ctx context.Context, cfg config.Config, log *zap.Logger) (*embedding.Engine, error) {
	backends := make([]embedding.Backend, len(cfg.EmbeddingBackends))
	for i, endpoint := range cfg.EmbeddingBackends {
		name := "accelerator"
		if i == len(cfg.EmbeddingBackends)-1 {
			name = "cpu"
		}
		backends[i] = embedding.Backend{Name: name, Endpoint: strings.TrimSpace(endpoint)}
	}

	engine := embedding.New(embedding.Config{
		Model:    cfg.EmbeddingModel,
		Backends: backends,
		Logger:   log,
	})
	if err := engine.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize embedding engine: %w", err)
	}
	return engine, nil
}

// newExtractor builds the feature extractor, wiring in the Gemini-backed
// entity recognizer when an API key is configured. Without a key the
// extractor still works; entity-derived fields stay empty.
func newExtractor(ctx context.Context, cfg config.Config, log *zap.Logger) (*features.Extractor, func(), error) {
	opts := &features.Options{Logger: log}
	cleanup := func() {}

	if cfg.APIKey != "" {
		recognizer, err := ner.New(ctx, cfg.APIKey, cfg.NERModel, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create entity recognizer: %w", err)
		}
		opts.Recognizer = recognizer
		cleanup = func() { _ = recognizer.Close() }
	} else {
		log.Info("no Gemini API key configured, entity extraction disabled")
	}

	return features.New(opts), cleanup, nil
}

// readDocument extracts cleaned plain text from a CV file on disk.
func readDocument(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	extractor := textextract.New(nil)
	result := extractor.ExtractAndClean(f, filepath.Base(path))
	if !result.Success {
		if result.Err != nil {
			return "", result.Err
		}
		return "", fmt.Errorf("failed to extract text from %s: %s", path, result.Error)
	}
	return result.CleanedText, nil
}
