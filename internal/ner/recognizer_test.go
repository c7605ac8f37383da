package ner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-analyzer/internal/types"
)

type fakeGenerator struct {
	response string
	err      error
	prompt   string
}

func (f *fakeGenerator) generateJSON(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func (f *fakeGenerator) close() error { return nil }

func TestRecognize(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		err       error
		expected  []types.NamedEntity
		wantError bool
	}{
		{
			name:     "entities parsed",
			response: `[{"text": "Acme Corp", "entity_group": "ORG", "score": 0.97}, {"text": "John Doe", "entity_group": "PER", "score": 0.99}]`,
			expected: []types.NamedEntity{
				{Text: "Acme Corp", EntityGroup: "ORG", Score: 0.97},
				{Text: "John Doe", EntityGroup: "PER", Score: 0.99},
			},
		},
		{
			name:     "markdown wrapper stripped",
			response: "```json\n[{\"text\": \"Acme\", \"entity_group\": \"ORG\", \"score\": 0.9}]\n```",
			expected: []types.NamedEntity{{Text: "Acme", EntityGroup: "ORG", Score: 0.9}},
		},
		{
			name:     "empty array",
			response: `[]`,
			expected: []types.NamedEntity{},
		},
		{
			name:      "schema violation rejected",
			response:  `[{"text": "Acme", "entity_group": "COMPANY"}]`,
			wantError: true,
		},
		{
			name:      "non-array response rejected",
			response:  `{"text": "Acme"}`,
			wantError: true,
		},
		{
			name:      "generation failure propagates",
			err:       errors.New("quota exceeded"),
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newWithGenerator(&fakeGenerator{response: tt.response, err: tt.err}, nil)

			entities, err := r.Recognize(context.Background(), "John Doe worked at Acme Corp")
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, entities)
		})
	}
}

func TestRecognizeEmptyText(t *testing.T) {
	gen := &fakeGenerator{response: `[]`}
	r := newWithGenerator(gen, nil)

	entities, err := r.Recognize(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, entities)
	assert.Empty(t, gen.prompt, "no request should be made for blank text")
}

func TestRecognizePromptContainsText(t *testing.T) {
	gen := &fakeGenerator{response: `[]`}
	r := newWithGenerator(gen, nil)

	_, err := r.Recognize(context.Background(), "worked at Globex")
	require.NoError(t, err)
	assert.Contains(t, gen.prompt, "worked at Globex")
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), "", "", nil)
	require.Error(t, err)
}
