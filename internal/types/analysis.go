// Package types defines the portable result types returned by the analyzer.
// Every field is a plain scalar, string, slice or map so results can be
// serialized to JSON without leaking provider-specific numeric types.
package types

// SkillSet maps a taxonomy category name to the skills found in that
// category. Categories with no matches are omitted entirely.
type SkillSet map[string][]string

// Total returns the number of skills across all categories.
func (s SkillSet) Total() int {
	n := 0
	for _, skills := range s {
		n += len(skills)
	}
	return n
}

// ExperienceInfo holds experience signals extracted from a document.
type ExperienceInfo struct {
	// YearsOfExperience is the maximum value captured by the highest-priority
	// experience pattern that matched, or 0 when no pattern matched.
	YearsOfExperience int      `json:"years_of_experience"`
	JobTitles         []string `json:"job_titles"`
	Companies         []string `json:"companies"`
}

// EducationEntry records one matched credential phrase together with the
// surrounding text window it was found in.
type EducationEntry struct {
	Type    string `json:"type"`
	Context string `json:"context"`
}

// NamedEntity is a recognized entity span. The fields pass through the
// recognizer output unchanged; only entities with EntityGroup "ORG" feed
// ExperienceInfo.Companies.
type NamedEntity struct {
	Text        string  `json:"text"`
	EntityGroup string  `json:"entity_group"`
	Score       float64 `json:"score"`
}

// AnalysisResult is the full structured output for one analyzed document.
type AnalysisResult struct {
	Skills     SkillSet         `json:"skills"`
	Experience ExperienceInfo   `json:"experience"`
	Education  []EducationEntry `json:"education"`
	Languages  []string         `json:"languages"`
	Entities   []NamedEntity    `json:"entities"`
	Summary    string           `json:"summary"`
}
