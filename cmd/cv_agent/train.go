package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-analyzer/internal/classifier"
	"github.com/jonathan/cv-analyzer/internal/corpus"
	"github.com/jonathan/cv-analyzer/internal/observability"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the job-family classifier",
	Long:  "Train the classification head on a labeled corpus and report held-out evaluation metrics. The corpus comes from a CSV file with text and label columns, or from a named corpus in PostgreSQL.",
	RunE:  runTrain,
}

var (
	trainCorpusPath string
	trainDBCorpus   string
	trainSaveAs     string
	trainEpochs     int
	trainBatchSize  int
)

func init() {
	trainCmd.Flags().StringVar(&trainCorpusPath, "corpus", "", "Path to a training corpus CSV file")
	trainCmd.Flags().StringVar(&trainDBCorpus, "db-corpus", "", "Name of a corpus stored in PostgreSQL (requires DATABASE_URL)")
	trainCmd.Flags().StringVar(&trainSaveAs, "save-as", "", "Also store the loaded corpus in PostgreSQL under this name")
	trainCmd.Flags().IntVar(&trainEpochs, "epochs", 0, "Training epochs (default 3)")
	trainCmd.Flags().IntVar(&trainBatchSize, "batch-size", 0, "Mini-batch size (default 16)")

	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, _ []string) error {
	if trainCorpusPath == "" && trainDBCorpus == "" {
		return fmt.Errorf("either --corpus or --db-corpus must be provided")
	}
	if trainCorpusPath != "" && trainDBCorpus != "" {
		return fmt.Errorf("--corpus and --db-corpus are mutually exclusive; provide only one")
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if trainEpochs == 0 {
		trainEpochs = cfg.Epochs
	}
	if trainBatchSize == 0 {
		trainBatchSize = cfg.BatchSize
	}

	ctx := cmd.Context()

	var examples []corpus.TrainingExample
	if trainCorpusPath != "" {
		examples, err = corpus.LoadCSVFile(trainCorpusPath)
		if err != nil {
			return err
		}
	} else {
		store, err := openCorpusStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		examples, err = store.LoadCorpus(ctx, trainDBCorpus)
		if err != nil {
			return err
		}
	}

	if err := corpus.Validate(examples); err != nil {
		return err
	}

	if trainSaveAs != "" {
		store, err := openCorpusStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.SaveCorpus(ctx, trainSaveAs, examples)
		if err != nil {
			return fmt.Errorf("failed to store corpus: %w", err)
		}
		fmt.Printf("Stored corpus %q (%s)\n", trainSaveAs, id)
	}

	engine, err := newEngine(ctx, cfg, log)
	if err != nil {
		return err
	}

	clf := classifier.NewClassifier(engine, classifier.Config{
		Epochs:    trainEpochs,
		BatchSize: trainBatchSize,
	}, log)

	report, err := clf.Train(ctx, examples)
	if err != nil {
		return err
	}

	if verbose {
		observability.NewPrinter(os.Stdout).PrintTrainReport(report)
	}

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode training report: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}

func openCorpusStore(ctx context.Context, databaseURL string) (*corpus.Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for PostgreSQL corpus access")
	}
	return corpus.Connect(ctx, databaseURL)
}
