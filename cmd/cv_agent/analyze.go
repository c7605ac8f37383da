package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-analyzer/internal/features"
	"github.com/jonathan/cv-analyzer/internal/observability"
	"github.com/jonathan/cv-analyzer/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract structured features from a CV",
	Long:  "Extract skills, experience, education, languages and named entities from a CV file (.pdf, .docx or .txt) and print the analysis as JSON.",
	RunE:  runAnalyze,
}

var analyzeCVPath string

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCVPath, "cv", "", "Path to the CV file (required)")
	_ = analyzeCmd.MarkFlagRequired("cv")

	rootCmd.AddCommand(analyzeCmd)
}

type analyzeOutput struct {
	Analysis     types.AnalysisResult `json:"analysis"`
	QualityScore float64              `json:"quality_score"`
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text, err := readDocument(analyzeCVPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	extractor, cleanup, err := newExtractor(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	analysis := extractor.Analyze(ctx, text)
	output := analyzeOutput{
		Analysis: analysis,
		QualityScore: features.QualityScore(
			analysis.Skills,
			analysis.Experience.YearsOfExperience,
			len(text)),
	}

	if verbose {
		observability.NewPrinter(os.Stdout).PrintAnalysis(&analysis)
	}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}
