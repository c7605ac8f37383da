// Package ner extracts named entities from CV text. The sequence-labeling
// model is served behind the Gemini API: the recognizer sends the text with
// a JSON-only labeling prompt, validates the response against a schema, and
// returns simple aggregated spans.
package ner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/jonathan/cv-analyzer/internal/logger"
	"github.com/jonathan/cv-analyzer/internal/schemas"
	"github.com/jonathan/cv-analyzer/internal/types"
)

// DefaultModel is the model used for entity labeling.
const DefaultModel = "gemini-2.5-flash-lite"

// entitySchema constrains recognizer responses: an array of aggregated
// entity spans with group labels and confidence scores.
const entitySchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["text", "entity_group"],
		"properties": {
			"text": {"type": "string"},
			"entity_group": {"type": "string", "enum": ["PER", "ORG", "LOC", "MISC"]},
			"score": {"type": "number", "minimum": 0, "maximum": 1}
		}
	}
}`

const promptTemplate = `You are a named entity recognition system. Extract named entities from the text below.

Group adjacent tokens of the same entity into a single span. Label each span with exactly one of: PER (person), ORG (organization), LOC (location), MISC (other proper noun). Report a confidence score between 0 and 1 for each span.

Return ONLY a JSON array of objects with fields "text", "entity_group" and "score". Return [] if there are no entities.

Text:
%s`

// generator abstracts the underlying text-generation call so tests can
// substitute a canned implementation.
type generator interface {
	generateJSON(ctx context.Context, prompt string) (string, error)
	close() error
}

// Recognizer wraps the remote labeling model. Construct with New (blocking,
// validates the API key) and call Close when done.
type Recognizer struct {
	gen    generator
	logger *zap.Logger
}

// New creates a Recognizer backed by the Gemini API. The model name falls
// back to DefaultModel when empty.
func New(ctx context.Context, apiKey, modelName string, log *zap.Logger) (*Recognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Recognizer{
		gen:    &geminiGenerator{client: client, modelName: modelName},
		logger: logger.OrNop(log),
	}, nil
}

// newWithGenerator wires in a custom generator; used by tests.
func newWithGenerator(gen generator, log *zap.Logger) *Recognizer {
	return &Recognizer{gen: gen, logger: logger.OrNop(log)}
}

// Recognize extracts entities from the text. The response must validate
// against the entity schema before it is accepted.
func (r *Recognizer) Recognize(ctx context.Context, text string) ([]types.NamedEntity, error) {
	if strings.TrimSpace(text) == "" {
		return []types.NamedEntity{}, nil
	}

	raw, err := r.gen.generateJSON(ctx, fmt.Sprintf(promptTemplate, text))
	if err != nil {
		return nil, fmt.Errorf("entity labeling request failed: %w", err)
	}

	raw = cleanJSONBlock(raw)
	if err := schemas.ValidateJSONString(entitySchema, raw); err != nil {
		return nil, fmt.Errorf("entity response rejected: %w", err)
	}

	var entities []types.NamedEntity
	if err := json.Unmarshal([]byte(raw), &entities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entities: %w", err)
	}
	if entities == nil {
		entities = []types.NamedEntity{}
	}

	r.logger.Debug("recognized entities", zap.Int("count", len(entities)))
	return entities, nil
}

// Close releases the underlying client.
func (r *Recognizer) Close() error {
	return r.gen.close()
}

// geminiGenerator is the production generator over the Gemini SDK.
type geminiGenerator struct {
	client    *genai.Client
	modelName string
}

func (g *geminiGenerator) generateJSON(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(0.1) // labeling should be near-deterministic
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return extractTextFromResponse(resp)
}

func (g *geminiGenerator) close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// extractTextFromResponse pulls the concatenated text parts out of a Gemini
// response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// cleanJSONBlock removes markdown code block wrappers around JSON output.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
