// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/cv-analyzer/internal/classifier"
	"github.com/jonathan/cv-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysis outputs a human-readable summary of an analyzed CV.
func (p *Printer) PrintAnalysis(analysis *types.AnalysisResult) {
	if analysis == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Years of experience: %d\n", analysis.Experience.YearsOfExperience))
	sb.WriteString(fmt.Sprintf("Education entries:   %d\n", len(analysis.Education)))
	if len(analysis.Languages) > 0 {
		sb.WriteString(fmt.Sprintf("Languages:           %s\n", strings.Join(analysis.Languages, ", ")))
	}
	sb.WriteString("\n")

	if len(analysis.Skills) > 0 {
		sb.WriteString("Skills:\n")
		categories := make([]string, 0, len(analysis.Skills))
		for category := range analysis.Skills {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			line := strings.Join(analysis.Skills[category], ", ")
			if len(line) > 40 {
				line = line[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("  %s: %s\n", category, line))
		}
		sb.WriteString("\n")
	}

	if len(analysis.Experience.Companies) > 0 {
		sb.WriteString("Companies:\n")
		count := min(len(analysis.Experience.Companies), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", analysis.Experience.Companies[i]))
		}
		if len(analysis.Experience.Companies) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(analysis.Experience.Companies)-maxItemsToShow))
		}
	}

	p.printBox("CV ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatchResult outputs the composite match score breakdown.
func (p *Printer) PrintMatchResult(result *types.MatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall score:       %.2f\n", result.OverallScore))
	sb.WriteString(fmt.Sprintf("Semantic similarity: %.2f\n", result.SemanticSimilarity))
	sb.WriteString(fmt.Sprintf("Skills match:        %.2f\n", result.SkillsMatchScore))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("CV skills:  %d\n", result.CVSkills.Total()))
	sb.WriteString(fmt.Sprintf("Job skills: %d", result.JobSkills.Total()))

	p.printBox("MATCH SCORE", sb.String())
}

// PrintPrediction outputs a classifier prediction with its probability
// distribution. Classes must be in label-id order.
func (p *Printer) PrintPrediction(prediction *types.PredictionResult, classes []string) {
	if prediction == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Category:   %s\n", prediction.PredictedCategory))
	sb.WriteString(fmt.Sprintf("Confidence: %.4f\n", prediction.Confidence))

	if len(classes) == len(prediction.AllProbabilities) {
		sb.WriteString("\nProbabilities:\n")
		for i, class := range classes {
			sb.WriteString(fmt.Sprintf("  %-20s %.4f\n", class, prediction.AllProbabilities[i]))
		}
	}

	p.printBox("PREDICTED CATEGORY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobFit outputs a job-fit score with its recommendation.
func (p *Printer) PrintJobFit(fit *types.JobFitResult) {
	if fit == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall score:  %.2f\n", fit.OverallScore))
	sb.WriteString(fmt.Sprintf("Category:       %s\n", fit.PredictedCategory))
	sb.WriteString(fmt.Sprintf("Confidence:     %.4f\n", fit.Confidence))
	sb.WriteString(fmt.Sprintf("Recommendation: %s", fit.Recommendation))

	p.printBox("JOB FIT", sb.String())
}

// PrintTrainReport outputs per-epoch training progress and the final
// held-out evaluation.
func (p *Printer) PrintTrainReport(report *classifier.TrainReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Classes: %s\n", strings.Join(report.Classes, ", ")))
	sb.WriteString(fmt.Sprintf("Train/test split: %d/%d\n\n", report.TrainSize, report.TestSize))

	for _, epoch := range report.Epochs {
		sb.WriteString(fmt.Sprintf("Epoch %d: loss=%.4f f1=%.4f\n", epoch.Epoch, epoch.AvgLoss, epoch.Eval.F1))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Final F1:        %.4f\n", report.Final.F1))
	sb.WriteString(fmt.Sprintf("Final precision: %.4f\n", report.Final.Precision))
	sb.WriteString(fmt.Sprintf("Final recall:    %.4f", report.Final.Recall))

	p.printBox("TRAINING REPORT", sb.String())
}
