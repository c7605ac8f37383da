// Package features implements rule-based extraction of skills, experience,
// education and languages from normalized CV text. Extraction is pure and
// deterministic: the taxonomy and pattern tables are read-only package
// constants, so one Extractor is safe to share across goroutines.
package features

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/cv-analyzer/internal/logger"
	"github.com/jonathan/cv-analyzer/internal/types"
)

// educationContextWindow is the number of characters kept on each side of a
// matched credential phrase.
const educationContextWindow = 50

// DefaultMaxSummarySentences is the sentence budget for generated summaries.
const DefaultMaxSummarySentences = 3

// EntityRecognizer supplies named entities used to enrich experience
// extraction. Implementations must be best-effort; a nil recognizer simply
// disables entity enrichment.
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]types.NamedEntity, error)
}

// Options configures an Extractor. The zero value is usable.
type Options struct {
	// MaxSummarySentences caps the generated summary length. Defaults to
	// DefaultMaxSummarySentences when <= 0.
	MaxSummarySentences int
	// Recognizer enriches experience extraction with organization entities.
	// Optional.
	Recognizer EntityRecognizer
	Logger     *zap.Logger
}

// Extractor extracts structured features from plain text.
type Extractor struct {
	maxSummarySentences int
	recognizer          EntityRecognizer
	logger              *zap.Logger
}

// New creates an Extractor.
func New(opts *Options) *Extractor {
	if opts == nil {
		opts = &Options{}
	}
	maxSentences := opts.MaxSummarySentences
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSummarySentences
	}
	return &Extractor{
		maxSummarySentences: maxSentences,
		recognizer:          opts.Recognizer,
		logger:              logger.OrNop(opts.Logger),
	}
}

// Analyze runs all extractors over the text and assembles the full result.
// The recognizer is consulted once; its entities feed both the entity list
// and the companies of the experience block.
func (e *Extractor) Analyze(ctx context.Context, text string) types.AnalysisResult {
	entities := e.Entities(ctx, text)
	return types.AnalysisResult{
		Skills:     e.Skills(text),
		Experience: e.experienceWithEntities(text, entities),
		Education:  e.Education(text),
		Languages:  e.Languages(text),
		Entities:   entities,
		Summary:    e.Summary(text),
	}
}

// Skills returns the taxonomy skills found in the text, grouped by category.
// Matching is case-insensitive and whole-word; categories with no matches
// are omitted.
func (e *Extractor) Skills(text string) types.SkillSet {
	textLower := strings.ToLower(text)
	found := make(types.SkillSet)

	for category, skills := range skillTaxonomy {
		for _, skill := range skills {
			if skillPatterns[skill].MatchString(textLower) {
				found[category] = append(found[category], skill)
			}
		}
	}

	return found
}

// Experience extracts years of experience and, when a recognizer is
// configured, the organizations mentioned in the text.
func (e *Extractor) Experience(ctx context.Context, text string) types.ExperienceInfo {
	return e.experienceWithEntities(text, e.Entities(ctx, text))
}

func (e *Extractor) experienceWithEntities(text string, entities []types.NamedEntity) types.ExperienceInfo {
	info := types.ExperienceInfo{
		JobTitles: []string{},
		Companies: []string{},
	}

	for _, pattern := range experiencePatterns {
		matches := pattern.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		years := -1
		for _, m := range matches {
			v, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if v > years {
				years = v
			}
		}
		if years >= 0 {
			info.YearsOfExperience = years
			break
		}
	}

	for _, entity := range entities {
		if entity.EntityGroup == "ORG" {
			info.Companies = append(info.Companies, entity.Text)
		}
	}

	return info
}

// Education returns every credential phrase matched by the education
// patterns, each with a context window of the surrounding original text.
// Match offsets come from the lowercased text and are applied to the
// original; this assumes lowering preserves byte offsets, which holds for
// the supported languages. Window bounds are clamped either way.
func (e *Extractor) Education(text string) []types.EducationEntry {
	textLower := strings.ToLower(text)
	entries := []types.EducationEntry{}

	for _, pattern := range educationPatterns {
		for _, loc := range pattern.FindAllStringIndex(textLower, -1) {
			start := loc[0] - educationContextWindow
			if start < 0 {
				start = 0
			}
			end := loc[1] + educationContextWindow
			if end > len(text) {
				end = len(text)
			}
			entries = append(entries, types.EducationEntry{
				Type:    textLower[loc[0]:loc[1]],
				Context: text[start:end],
			})
		}
	}

	return entries
}

// Languages returns the spoken languages found in the text as a flat list.
func (e *Extractor) Languages(text string) []string {
	textLower := strings.ToLower(text)
	found := []string{}

	for _, language := range skillTaxonomy[CategoryLanguages] {
		if skillPatterns[language].MatchString(textLower) {
			found = append(found, language)
		}
	}

	return found
}

// Entities runs the recognizer over the text. Recognition is best-effort:
// a missing recognizer or a runtime failure yields an empty list, never an
// error, so the remaining extractors always run.
func (e *Extractor) Entities(ctx context.Context, text string) []types.NamedEntity {
	if e.recognizer == nil {
		return []types.NamedEntity{}
	}

	entities, err := e.recognizer.Recognize(ctx, text)
	if err != nil {
		e.logger.Warn("entity recognition failed, continuing without entities",
			zap.Error(err))
		return []types.NamedEntity{}
	}
	if entities == nil {
		entities = []types.NamedEntity{}
	}
	return entities
}

// Summary returns the text itself when it has at most the configured number
// of sentences, otherwise the leading sentences rejoined with single spaces.
func (e *Extractor) Summary(text string) string {
	sentences := splitSentences(text)
	if len(sentences) <= e.maxSummarySentences {
		return text
	}
	return strings.Join(sentences[:e.maxSummarySentences], " ")
}

// splitSentences breaks text into sentences on terminal punctuation followed
// by whitespace. Trailing unterminated text counts as a final sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if runes[i] == '.' || runes[i] == '!' || runes[i] == '?' {
			// Consume any run of terminal punctuation.
			for i+1 < len(runes) && (runes[i+1] == '.' || runes[i+1] == '!' || runes[i+1] == '?') {
				i++
				current.WriteRune(runes[i])
			}
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\t' || runes[i+1] == '\n' {
				sentence := strings.TrimSpace(current.String())
				if sentence != "" {
					sentences = append(sentences, sentence)
				}
				current.Reset()
			}
		}
	}

	if tail := strings.TrimSpace(current.String()); tail != "" {
		sentences = append(sentences, tail)
	}

	return sentences
}
