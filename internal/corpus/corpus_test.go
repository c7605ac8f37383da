package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	tests := []struct {
		name      string
		csv       string
		expected  []TrainingExample
		wantError bool
	}{
		{
			name: "basic corpus",
			csv:  "text,label\nPython developer with Django,ENGINEERING\nAccount manager,SALES\n",
			expected: []TrainingExample{
				{Text: "Python developer with Django", Label: "ENGINEERING"},
				{Text: "Account manager", Label: "SALES"},
			},
		},
		{
			name: "extra columns ignored",
			csv:  "id,text,label,source\n1,Some CV,HR,upload\n",
			expected: []TrainingExample{
				{Text: "Some CV", Label: "HR"},
			},
		},
		{
			name: "header case insensitive",
			csv:  "Text,Label\na,b\n",
			expected: []TrainingExample{
				{Text: "a", Label: "b"},
			},
		},
		{
			name:      "missing label column",
			csv:       "text,category\na,b\n",
			wantError: true,
		},
		{
			name:      "empty input",
			csv:       "",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			examples, err := LoadCSV(strings.NewReader(tt.csv))
			if tt.wantError {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, examples)
		})
	}
}

func TestValidate(t *testing.T) {
	err := Validate([]TrainingExample{{Text: "cv", Label: "HR"}})
	assert.NoError(t, err)

	err = Validate(nil)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	err = Validate([]TrainingExample{{Text: "cv", Label: ""}})
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Error(), "example 1")
}

func TestLabels(t *testing.T) {
	examples := []TrainingExample{
		{Text: "a", Label: "SALES"},
		{Text: "b", Label: "HR"},
		{Text: "c", Label: "SALES"},
	}
	assert.Equal(t, []string{"SALES", "HR"}, Labels(examples))
}
