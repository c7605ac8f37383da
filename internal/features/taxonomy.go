package features

// CategoryLanguages is the taxonomy category holding spoken languages. It is
// the only category with meaning outside skill extraction: language
// extraction reads exclusively from it.
const CategoryLanguages = "languages"

// skillTaxonomy is the closed vocabulary of recognized skills grouped by
// category. It is a process-wide constant: never mutate it at runtime.
var skillTaxonomy = map[string][]string{
	"programming": {
		"python", "java", "javascript", "c++", "c#", "php", "ruby", "go",
		"html", "css", "sql", "r", "matlab", "scala", "perl", "swift",
		"kotlin", "typescript", "dart", "rust",
	},
	"frameworks": {
		"django", "flask", "react", "angular", "vue", "spring", "laravel",
		"express", "nodejs", "tensorflow", "pytorch", "scikit-learn",
		"pandas", "numpy", "bootstrap", "jquery",
	},
	"databases": {
		"mysql", "postgresql", "mongodb", "redis", "sqlite", "oracle",
		"elasticsearch", "cassandra", "dynamodb",
	},
	"tools": {
		"git", "docker", "kubernetes", "jenkins", "aws", "azure", "gcp",
		"linux", "unix", "windows", "macos", "jira", "confluence",
	},
	"soft_skills": {
		"leadership", "communication", "teamwork", "problem solving",
		"analytical thinking", "creativity", "adaptability", "time management",
		"project management", "critical thinking",
	},
	CategoryLanguages: {
		"english", "french", "spanish", "german", "italian", "chinese",
		"japanese", "arabic", "portuguese", "russian",
	},
}

// Taxonomy returns a copy of the skill taxonomy, mainly for display and
// introspection. The internal map is shared and must stay read-only.
func Taxonomy() map[string][]string {
	out := make(map[string][]string, len(skillTaxonomy))
	for category, skills := range skillTaxonomy {
		out[category] = append([]string(nil), skills...)
	}
	return out
}
