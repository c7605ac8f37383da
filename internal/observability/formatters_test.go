package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cv-analyzer/internal/classifier"
	"github.com/jonathan/cv-analyzer/internal/types"
)

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	analysis := &types.AnalysisResult{
		Skills: types.SkillSet{
			"programming_languages": {"python", "go"},
			"tools":                 {"docker"},
		},
		Experience: types.ExperienceInfo{
			YearsOfExperience: 5,
			Companies:         []string{"Acme Corp", "Globex"},
		},
		Education: []types.EducationEntry{{Type: "master"}},
		Languages: []string{"english", "french"},
	}

	p.PrintAnalysis(analysis)
	output := buf.String()

	assert.Contains(t, output, "CV ANALYSIS")
	assert.Contains(t, output, "Years of experience: 5")
	assert.Contains(t, output, "python, go")
	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "english, french")
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(nil)

	assert.Empty(t, buf.String())
}

func TestPrintMatchResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.MatchResult{
		OverallScore:       76.54,
		SemanticSimilarity: 80.12,
		SkillsMatchScore:   60.0,
		CVSkills:           types.SkillSet{"tools": {"docker", "git"}},
		JobSkills:          types.SkillSet{"tools": {"docker"}},
	}

	p.PrintMatchResult(result)
	output := buf.String()

	assert.Contains(t, output, "MATCH SCORE")
	assert.Contains(t, output, "76.54")
	assert.Contains(t, output, "80.12")
	assert.Contains(t, output, "CV skills:  2")
	assert.Contains(t, output, "Job skills: 1")
}

func TestPrintPrediction(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	prediction := &types.PredictionResult{
		PredictedCategory: "ENGINEERING",
		Confidence:        0.9231,
		AllProbabilities:  []float64{0.9231, 0.0769},
	}

	p.PrintPrediction(prediction, []string{"ENGINEERING", "SALES"})
	output := buf.String()

	assert.Contains(t, output, "PREDICTED CATEGORY")
	assert.Contains(t, output, "ENGINEERING")
	assert.Contains(t, output, "0.9231")
	assert.Contains(t, output, "SALES")
}

func TestPrintJobFit(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	fit := &types.JobFitResult{
		OverallScore:      84.5,
		PredictedCategory: "HR",
		Confidence:        0.88,
		Recommendation:    "excellent",
	}

	p.PrintJobFit(fit)
	output := buf.String()

	assert.Contains(t, output, "JOB FIT")
	assert.Contains(t, output, "84.50")
	assert.Contains(t, output, "excellent")
}

func TestPrintTrainReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &classifier.TrainReport{
		Classes:   []string{"ENGINEERING", "SALES"},
		TrainSize: 16,
		TestSize:  4,
		Epochs: []classifier.EpochMetrics{
			{Epoch: 1, AvgLoss: 0.693, Eval: classifier.Evaluation{F1: 0.5}},
			{Epoch: 2, AvgLoss: 0.412, Eval: classifier.Evaluation{F1: 0.9}},
		},
		Final: classifier.Evaluation{F1: 0.9, Precision: 0.92, Recall: 0.9},
	}

	p.PrintTrainReport(report)
	output := buf.String()

	assert.Contains(t, output, "TRAINING REPORT")
	assert.Contains(t, output, "ENGINEERING, SALES")
	assert.Contains(t, output, "16/4")
	assert.Contains(t, output, "Epoch 2")
	assert.Contains(t, output, "0.9200")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	fit := &types.JobFitResult{
		OverallScore:      50,
		PredictedCategory: strings.Repeat("VERY-LONG-CATEGORY-", 10),
		Recommendation:    "needs review",
	}

	p.PrintJobFit(fit)
	output := buf.String()

	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.Contains(t, output, "...")
}
