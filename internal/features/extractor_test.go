package features

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-analyzer/internal/types"
)

const sampleCV = "5 years of experience in Python, Django, React. " +
	"Bachelor's degree in Computer Science. Fluent in English and French."

type stubRecognizer struct {
	entities []types.NamedEntity
	err      error
}

func (s *stubRecognizer) Recognize(_ context.Context, _ string) ([]types.NamedEntity, error) {
	return s.entities, s.err
}

func TestSkills(t *testing.T) {
	e := New(nil)

	tests := []struct {
		name     string
		text     string
		expected types.SkillSet
	}{
		{
			name: "sample CV finds programming and framework skills",
			text: sampleCV,
			expected: types.SkillSet{
				"programming": {"python"},
				"frameworks":  {"django", "react"},
				"languages":   {"english", "french"},
			},
		},
		{
			name:     "no skills yields empty set, not nil entries",
			text:     "I enjoy gardening and cooking.",
			expected: types.SkillSet{},
		},
		{
			name: "whole word matching prevents substring leakage",
			// "r" appears inside many words and "go" inside "mongodb";
			// neither may match without standing alone.
			text: "We store documents in mongodb and argue over category theory.",
			expected: types.SkillSet{
				"databases": {"mongodb"},
			},
		},
		{
			name: "case insensitive matching",
			text: "PYTHON and Docker and PostgreSQL",
			expected: types.SkillSet{
				"programming": {"python"},
				"tools":       {"docker"},
				"databases":   {"postgresql"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.Skills(tt.text))
		})
	}
}

func TestSkillsDeterministic(t *testing.T) {
	e := New(nil)

	first := e.Skills(sampleCV)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.Skills(sampleCV))
	}
}

func TestExperienceYears(t *testing.T) {
	e := New(nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		text  string
		years int
	}{
		{name: "simple english phrasing", text: "5 years of experience in Go", years: 5},
		{name: "french phrasing", text: "3 ans d'expérience en développement", years: 3},
		{name: "plus suffix", text: "10+ years building backends", years: 10},
		{name: "over phrasing", text: "over 7 years in industry", years: 7},
		{name: "no match defaults to zero", text: "extensive industry experience", years: 0},
		{
			name: "maximum across matches of the winning pattern",
			text: "2 years of experience in sales and 8 years of experience in engineering",
			years: 8,
		},
		{
			name: "first matching pattern wins over later larger values",
			// The first pattern matches "5 years of experience", so the
			// "over 10 years" phrasing further down is never consulted.
			text:  "5 years of experience in Go. Previously over 10 years in ops.",
			years: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := e.Experience(ctx, tt.text)
			assert.Equal(t, tt.years, info.YearsOfExperience)
		})
	}
}

func TestExperienceCompaniesFromEntities(t *testing.T) {
	recognizer := &stubRecognizer{entities: []types.NamedEntity{
		{Text: "Acme Corp", EntityGroup: "ORG", Score: 0.98},
		{Text: "Jane Doe", EntityGroup: "PER", Score: 0.99},
		{Text: "Globex", EntityGroup: "ORG", Score: 0.91},
	}}
	e := New(&Options{Recognizer: recognizer})

	info := e.Experience(context.Background(), "worked at Acme Corp and Globex")
	assert.Equal(t, []string{"Acme Corp", "Globex"}, info.Companies)
}

func TestExperienceRecognizerFailureIsNotFatal(t *testing.T) {
	e := New(&Options{Recognizer: &stubRecognizer{err: errors.New("model offline")}})

	info := e.Experience(context.Background(), "5 years of experience at Acme")
	assert.Equal(t, 5, info.YearsOfExperience)
	assert.Empty(t, info.Companies)
}

func TestEducation(t *testing.T) {
	e := New(nil)

	t.Run("bachelor entry with context window", func(t *testing.T) {
		entries := e.Education(sampleCV)
		require.NotEmpty(t, entries)

		var found bool
		for _, entry := range entries {
			if strings.HasPrefix(entry.Type, "bachelor") {
				found = true
				assert.Contains(t, entry.Context, "Computer Science")
			}
		}
		assert.True(t, found, "expected a bachelor entry, got %+v", entries)
	})

	t.Run("window clamps at text bounds", func(t *testing.T) {
		entries := e.Education("mba")
		require.Len(t, entries, 1)
		assert.Equal(t, "mba", entries[0].Type)
		assert.Equal(t, "mba", entries[0].Context)
	})

	t.Run("no credentials yields empty list", func(t *testing.T) {
		assert.Empty(t, e.Education("just some plain text"))
	})

	t.Run("multibyte text near the window edge", func(t *testing.T) {
		entries := e.Education("Génie logiciel résumé: Master of Science, École Polytechnique")
		require.NotEmpty(t, entries)
		assert.True(t, strings.HasPrefix(entries[0].Type, "master"))
		assert.Contains(t, entries[0].Context, "Master of Science")
	})
}

func TestLanguages(t *testing.T) {
	e := New(nil)

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{name: "sample CV", text: sampleCV, expected: []string{"english", "french"}},
		{name: "none found", text: "polyglot programmer", expected: []string{}},
		{
			name: "no substring leakage",
			// "spanish" inside a larger token must not match.
			text:     "hispanishsounding is not a language mention",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.Languages(tt.text))
		})
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name         string
		maxSentences int
		text         string
		expected     string
	}{
		{
			name:     "short text returned whole",
			text:     "First. Second. Third.",
			expected: "First. Second. Third.",
		},
		{
			name:     "long text truncated to sentence budget",
			text:     "One one. Two two. Three three. Four four. Five five.",
			expected: "One one. Two two. Three three.",
		},
		{
			name:         "custom budget",
			maxSentences: 1,
			text:         "Alpha. Beta. Gamma.",
			expected:     "Alpha.",
		},
		{
			name:     "empty text",
			text:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(&Options{MaxSummarySentences: tt.maxSentences})
			assert.Equal(t, tt.expected, e.Summary(tt.text))
		})
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	e := New(nil)

	result := e.Analyze(context.Background(), sampleCV)

	assert.Contains(t, result.Skills["programming"], "python")
	assert.Contains(t, result.Skills["frameworks"], "django")
	assert.Contains(t, result.Skills["frameworks"], "react")
	assert.Equal(t, 5, result.Experience.YearsOfExperience)
	assert.Contains(t, result.Languages, "english")
	assert.Contains(t, result.Languages, "french")
	assert.NotNil(t, result.Entities)

	var hasBachelor bool
	for _, entry := range result.Education {
		if strings.HasPrefix(entry.Type, "bachelor") {
			hasBachelor = true
		}
	}
	assert.True(t, hasBachelor)
}

func TestQualityScore(t *testing.T) {
	tests := []struct {
		name     string
		skills   map[string][]string
		years    int
		length   int
		expected float64
	}{
		{name: "empty CV", skills: nil, years: 0, length: 0, expected: 0},
		{
			name:     "saturated on all axes",
			skills:   map[string][]string{"programming": {"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}},
			years:    10,
			length:   600,
			expected: 100,
		},
		{
			name:     "partial credit",
			skills:   map[string][]string{"programming": {"python"}},
			years:    5,
			length:   250,
			expected: 4 + 17.5 + 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, QualityScore(tt.skills, tt.years, tt.length), 1e-9)
		})
	}
}
