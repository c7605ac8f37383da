// Package corpus loads labeled training examples for the classifier from
// CSV files or PostgreSQL.
package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TrainingExample is one labeled text in the training corpus.
type TrainingExample struct {
	Text  string `json:"text" validate:"required"`
	Label string `json:"label" validate:"required"`
}

// ValidationError reports a corpus that cannot be used for training. It is
// raised before any training attempt begins.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid training corpus: %s", e.Message)
}

var validate = validator.New()

// LoadCSV reads training examples from CSV content. The header must contain
// "text" and "label" columns (case-insensitive); extra columns are ignored.
func LoadCSV(r io.Reader) ([]TrainingExample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ValidationError{Message: "corpus is empty"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus header: %w", err)
	}

	textCol, labelCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "text":
			textCol = i
		case "label":
			labelCol = i
		}
	}
	if textCol < 0 || labelCol < 0 {
		return nil, &ValidationError{Message: `required columns "text" and "label" not found`}
	}

	var examples []TrainingExample
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus row %d: %w", line, err)
		}
		line++
		if textCol >= len(record) || labelCol >= len(record) {
			return nil, &ValidationError{Message: fmt.Sprintf("row %d has too few columns", line)}
		}
		examples = append(examples, TrainingExample{
			Text:  record[textCol],
			Label: record[labelCol],
		})
	}

	return examples, nil
}

// LoadCSVFile reads training examples from a CSV file on disk.
func LoadCSVFile(path string) ([]TrainingExample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()
	return LoadCSV(f)
}

// Validate checks that a loaded corpus is usable for training: non-empty,
// with text and label present on every example.
func Validate(examples []TrainingExample) error {
	if len(examples) == 0 {
		return &ValidationError{Message: "corpus is empty"}
	}
	for i, ex := range examples {
		if err := validate.Struct(ex); err != nil {
			return &ValidationError{Message: fmt.Sprintf("example %d is missing text or label", i+1)}
		}
	}
	return nil
}

// Labels returns the distinct labels present in the corpus, in order of
// first appearance.
func Labels(examples []TrainingExample) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, ex := range examples {
		if !seen[ex.Label] {
			seen[ex.Label] = true
			labels = append(labels, ex.Label)
		}
	}
	return labels
}
