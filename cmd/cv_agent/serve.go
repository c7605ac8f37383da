package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cv-analyzer/internal/classifier"
	"github.com/jonathan/cv-analyzer/internal/corpus"
	"github.com/jonathan/cv-analyzer/internal/matching"
	"github.com/jonathan/cv-analyzer/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  "Start an HTTP server exposing analyze, match, predict and score-job endpoints. Models are initialized once at startup; the classifier is trained at startup when a corpus is supplied.",
	RunE:  runServe,
}

var (
	serveAddr   string
	serveCorpus string
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Address to listen on")
	serveCmd.Flags().StringVar(&serveCorpus, "corpus", "", "Training corpus CSV; when set, the classifier is trained before serving")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.ListenAddr != "" && serveAddr == ":8080" {
		serveAddr = cfg.ListenAddr
	}

	ctx := cmd.Context()

	extractor, cleanup, err := newExtractor(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	engine, err := newEngine(ctx, cfg, log)
	if err != nil {
		return err
	}

	clf := classifier.NewClassifier(engine, classifier.Config{
		Epochs:    cfg.Epochs,
		BatchSize: cfg.BatchSize,
	}, log)

	if serveCorpus != "" {
		examples, err := corpus.LoadCSVFile(serveCorpus)
		if err != nil {
			return err
		}
		report, err := clf.Train(ctx, examples)
		if err != nil {
			return fmt.Errorf("startup training failed: %w", err)
		}
		log.Info("classifier trained",
			zap.Strings("classes", report.Classes),
			zap.Float64("f1", report.Final.F1))
	} else {
		log.Warn("no corpus supplied, predict and score-job will return 503 until trained")
	}

	srv := server.New(server.Config{
		Addr:      serveAddr,
		Analyzer:  extractor,
		Matcher:   matching.NewScorer(engine, extractor, log),
		Predictor: clf,
		Logger:    log,
	})

	return srv.Start()
}
