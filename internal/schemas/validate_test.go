package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entitySchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["text", "entity_group"],
		"properties": {
			"text": {"type": "string"},
			"entity_group": {"type": "string"},
			"score": {"type": "number"}
		}
	}
}`

func TestValidateJSONString(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		wantError bool
	}{
		{
			name:     "valid document",
			document: `[{"text": "Acme", "entity_group": "ORG", "score": 0.9}]`,
		},
		{
			name:     "empty array is valid",
			document: `[]`,
		},
		{
			name:      "missing required field",
			document:  `[{"text": "Acme"}]`,
			wantError: true,
		},
		{
			name:      "wrong top-level type",
			document:  `{"text": "Acme"}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSONString(entitySchema, tt.document)
			if tt.wantError {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.NotEmpty(t, validationErr.Errors)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateJSONStringSchemaLoadFailure(t *testing.T) {
	err := ValidateJSONString(`{not json`, `{}`)
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
}
