package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-analyzer/internal/features"
	"github.com/jonathan/cv-analyzer/internal/fetch"
	"github.com/jonathan/cv-analyzer/internal/matching"
	"github.com/jonathan/cv-analyzer/internal/observability"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a CV against a job description",
	Long:  "Compute the composite match score between a CV and a job description, combining embedding similarity with categorical skill overlap.",
	RunE:  runMatch,
}

var (
	matchCVPath     string
	matchJobPath    string
	matchJobURL     string
	matchUseBrowser bool
)

func init() {
	matchCmd.Flags().StringVar(&matchCVPath, "cv", "", "Path to the CV file (required)")
	matchCmd.Flags().StringVar(&matchJobPath, "job", "", "Path to a job description text file")
	matchCmd.Flags().StringVar(&matchJobURL, "job-url", "", "URL to fetch the job posting from")
	matchCmd.Flags().BoolVar(&matchUseBrowser, "use-browser", false, "Use a headless browser for JavaScript-rendered job pages")
	_ = matchCmd.MarkFlagRequired("cv")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	if matchJobPath == "" && matchJobURL == "" {
		return fmt.Errorf("either --job or --job-url must be provided")
	}
	if matchJobPath != "" && matchJobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
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

	cvText, err := readDocument(matchCVPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	var jobText string
	if matchJobPath != "" {
		jobText, err = readDocument(matchJobPath)
		if err != nil {
			return err
		}
	} else {
		posting, err := fetch.FetchJobPosting(ctx, matchJobURL, fetch.JobPostingOptions{
			UseBrowser: matchUseBrowser || cfg.UseBrowser,
			Logger:     log,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch job posting: %w", err)
		}
		jobText = posting.Text
	}

	engine, err := newEngine(ctx, cfg, log)
	if err != nil {
		return err
	}

	scorer := matching.NewScorer(engine, features.New(&features.Options{Logger: log}), log)
	result, err := scorer.Score(ctx, cvText, jobText)
	if err != nil {
		return err
	}

	if verbose {
		observability.NewPrinter(os.Stdout).PrintMatchResult(result)
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode match result: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}
